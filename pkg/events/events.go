package events

import "time"

// Exchange names
const (
	ExchangeStorefront = "storefront.events"
)

// Routing keys
const (
	RoutingKeyUserRegistered = "user.registered"
	RoutingKeyOrderPlaced    = "order.placed"
)

// UserRegisteredEvent is published when a user account is created
type UserRegisteredEvent struct {
	Version   string                `json:"version"`
	EventType string                `json:"event_type"`
	Timestamp time.Time             `json:"timestamp"`
	TraceID   string                `json:"trace_id"`
	Payload   UserRegisteredPayload `json:"payload"`
}

// UserRegisteredPayload contains user data
type UserRegisteredPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(id, email, firstName, lastName string, createdAt time.Time, traceID string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		Version:   "1.0",
		EventType: "user.registered",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: UserRegisteredPayload{
			ID:        id,
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			CreatedAt: createdAt,
		},
	}
}

// OrderPlacedEvent is published after an order has been committed
type OrderPlacedEvent struct {
	Version   string             `json:"version"`
	EventType string             `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	TraceID   string             `json:"trace_id"`
	Payload   OrderPlacedPayload `json:"payload"`
}

// OrderPlacedPayload contains order data
type OrderPlacedPayload struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Total     string           `json:"total"`
	Status    string           `json:"status"`
	Lines     []OrderLineEvent `json:"lines"`
	CreatedAt time.Time        `json:"created_at"`
}

// OrderLineEvent is one line of a placed order
type OrderLineEvent struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(id, userID, total, status string, lines []OrderLineEvent, createdAt time.Time, traceID string) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		Version:   "1.0",
		EventType: "order.placed",
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderPlacedPayload{
			ID:        id,
			UserID:    userID,
			Total:     total,
			Status:    status,
			Lines:     lines,
			CreatedAt: createdAt,
		},
	}
}
