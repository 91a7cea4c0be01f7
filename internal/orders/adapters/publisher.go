package adapters

import (
	"context"

	"storefront/internal/orders/domain"
	"storefront/pkg/events"
	"storefront/pkg/logger"
	"storefront/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishOrderPlaced publishes an order placed event
func (p *RabbitMQPublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	traceID := logger.GetTraceID(ctx)

	lines := make([]events.OrderLineEvent, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = events.OrderLineEvent{
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
		}
	}

	event := events.NewOrderPlacedEvent(
		order.ID.String(),
		order.UserID.String(),
		order.Total.StringFixed(2),
		string(order.Status),
		lines,
		order.CreatedAt,
		traceID,
	)

	return p.publisher.Publish(ctx, events.RoutingKeyOrderPlaced, event)
}
