package adapters

import (
	"context"

	"storefront/internal/users/domain"
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

// PublishUserRegistered publishes a user registered event
func (p *RabbitMQPublisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	event := events.NewUserRegisteredEvent(
		user.ID.String(),
		user.Email,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		logger.GetTraceID(ctx),
	)

	return p.publisher.Publish(ctx, events.RoutingKeyUserRegistered, event)
}
