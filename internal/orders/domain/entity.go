package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known values
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// TaxRate is applied to the pre-tax line-item subtotal of every order.
var TaxRate = decimal.NewFromFloat(0.10)

// ProductSummary is the resolved product reference attached to an order line.
// It reflects the product's current state, not the snapshot taken at order time.
type ProductSummary struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// OrderLine is one line of an order. ProductName and UnitPrice are snapshots
// captured from the submission, immutable once the order is created.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Product     *ProductSummary
}

// LineTotal returns quantity times unit price
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShippingInfo carries the destination fields captured verbatim from the request
type ShippingInfo struct {
	Address    string
	City       string
	PostalCode string
	Phone      string
	Notes      string
}

// Validate checks the required shipping fields
func (s *ShippingInfo) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return ErrShippingAddressRequired
	}
	if strings.TrimSpace(s.City) == "" {
		return ErrShippingCityRequired
	}
	if strings.TrimSpace(s.PostalCode) == "" {
		return ErrShippingPostalCodeRequired
	}
	return nil
}

// Order is the root aggregate. It owns its lines; they are created and
// deleted with it and never mutated afterward.
type Order struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Lines              []OrderLine
	Total              decimal.Decimal
	ShippingCost       decimal.Decimal
	Tax                decimal.Decimal
	Status             OrderStatus
	ShippingAddress    string
	ShippingCity       string
	ShippingPostalCode string
	ShippingPhone      string
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderUpdate carries the administratively mutable order fields.
// Nil pointers mean "leave unchanged".
type OrderUpdate struct {
	Status             *OrderStatus
	ShippingAddress    *string
	ShippingCity       *string
	ShippingPostalCode *string
	ShippingPhone      *string
	Notes              *string
}

// ParseQuantity parses a caller-supplied quantity. It must be a positive integer.
func ParseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || qty <= 0 {
		return 0, NewInvalidQuantity(s)
	}
	return qty, nil
}

// ParseUnitPrice parses a caller-supplied unit price. It must be a
// non-negative amount with at most two decimal places.
func ParseUnitPrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewInvalidPrice(s)
	}
	if price.IsNegative() || price.Exponent() < -2 {
		return decimal.Zero, NewInvalidPrice(s)
	}
	return price, nil
}
