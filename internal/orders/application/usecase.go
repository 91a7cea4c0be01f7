package application

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/orders/domain"
	"storefront/internal/orders/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// OrderUseCase handles order placement and order bookkeeping
type OrderUseCase struct {
	txm       ports.TransactionManager
	repo      ports.OrderRepository
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewOrderUseCase creates a new order use case
func NewOrderUseCase(
	txm ports.TransactionManager,
	repo ports.OrderRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txm:       txm,
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrderLineInput is one submitted cart line. Quantity and Price arrive
// as external text representations and are validated, not trusted.
type PlaceOrderLineInput struct {
	ProductID   string
	ProductName string
	Quantity    string
	Price       string
}

// PlaceOrderInput represents the input for placing an order
type PlaceOrderInput struct {
	UserID             string
	Lines              []PlaceOrderLineInput
	ShippingAddress    string
	ShippingCity       string
	ShippingPostalCode string
	ShippingPhone      string
	Notes              string
	Status             string
}

// PlaceOrderOutput represents the output of placing an order
type PlaceOrderOutput struct {
	Order *domain.Order
}

type parsedLine struct {
	productID   uuid.UUID
	productName string
	quantity    int
	unitPrice   decimal.Decimal
}

// PlaceOrder validates a submitted cart snapshot against the product ledger,
// decrements stock, and persists the order with its lines atomically. Any
// failure on any line rolls back every decrement and write of this call.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderOutput, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	lines, status, shipping, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	orderID := uuid.New()

	txErr := uc.txm.WithinTransaction(ctx, func(ctx context.Context, orders ports.OrderRepository, ledger ports.ProductLedger) error {
		subtotal := decimal.Zero
		orderLines := make([]domain.OrderLine, 0, len(lines))

		// Lines run sequentially in submission order so a repeated product
		// observes the decrements of earlier lines in the same transaction.
		for _, line := range lines {
			product, err := ledger.Lookup(ctx, line.productID)
			if err != nil {
				return err
			}

			if product.Stock < line.quantity {
				return domain.NewInsufficientStock(product.ID, product.Name)
			}

			subtotal = subtotal.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity))))

			if err := ledger.DecrementStock(ctx, line.productID, line.quantity); err != nil {
				if stderrors.Is(err, domain.ErrStockExhausted) {
					// Lost the race against a concurrent order.
					return domain.NewInsufficientStock(product.ID, product.Name)
				}
				return err
			}

			orderLines = append(orderLines, domain.OrderLine{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   line.productID,
				ProductName: line.productName,
				Quantity:    line.quantity,
				UnitPrice:   line.unitPrice,
			})
		}

		shippingCost := decimal.Zero // policy hook, no shipping charge yet
		tax := subtotal.Mul(domain.TaxRate).Round(2)
		total := subtotal.Add(shippingCost).Add(tax)

		order := &domain.Order{
			ID:                 orderID,
			UserID:             userID,
			Lines:              orderLines,
			Total:              total,
			ShippingCost:       shippingCost,
			Tax:                tax,
			Status:             status,
			ShippingAddress:    shipping.Address,
			ShippingCity:       shipping.City,
			ShippingPostalCode: shipping.PostalCode,
			ShippingPhone:      shipping.Phone,
			Notes:              shipping.Notes,
		}

		return orders.Create(ctx, order)
	})
	if txErr != nil {
		var appErr *errors.AppError
		if stderrors.As(txErr, &appErr) {
			return nil, txErr
		}
		// Raw driver/commit failures surface as a server-side error.
		return nil, domain.NewTransactionFailure(txErr)
	}

	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderPlaced(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order placed event",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Lines)),
	)

	return &PlaceOrderOutput{Order: order}, nil
}

// parseInput validates everything that must be rejected before any database
// interaction: line count, quantities, prices, product ids, shipping fields
// and the optional caller-supplied status.
func parseInput(input PlaceOrderInput) ([]parsedLine, domain.OrderStatus, *domain.ShippingInfo, error) {
	if len(input.Lines) == 0 {
		return nil, "", nil, domain.ErrEmptyOrder
	}

	shipping := &domain.ShippingInfo{
		Address:    input.ShippingAddress,
		City:       input.ShippingCity,
		PostalCode: input.ShippingPostalCode,
		Phone:      input.ShippingPhone,
		Notes:      input.Notes,
	}
	if err := shipping.Validate(); err != nil {
		return nil, "", nil, err
	}

	status := domain.OrderStatusPending
	if input.Status != "" {
		status = domain.OrderStatus(input.Status)
		if !status.Valid() {
			return nil, "", nil, domain.NewInvalidStatus(input.Status)
		}
	}

	lines := make([]parsedLine, 0, len(input.Lines))
	for _, raw := range input.Lines {
		productID, err := uuid.Parse(raw.ProductID)
		if err != nil {
			return nil, "", nil, errors.NewValidation("invalid product id", map[string]interface{}{
				"product_id": raw.ProductID,
			})
		}

		quantity, err := domain.ParseQuantity(raw.Quantity)
		if err != nil {
			return nil, "", nil, err
		}

		price, err := domain.ParseUnitPrice(raw.Price)
		if err != nil {
			return nil, "", nil, err
		}

		lines = append(lines, parsedLine{
			productID:   productID,
			productName: raw.ProductName,
			quantity:    quantity,
			unitPrice:   price,
		})
	}

	return lines, status, shipping, nil
}

// ListOrdersInput represents the input for listing orders
type ListOrdersInput struct {
	UserID string
	All    bool
}

// ListOrdersOutput represents the output of listing orders
type ListOrdersOutput struct {
	Orders []*domain.Order
}

// ListOrders returns all orders for administrators, or the caller's own orders
func (uc *OrderUseCase) ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersOutput, error) {
	if input.All {
		orders, err := uc.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return &ListOrdersOutput{Orders: orders}, nil
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	orders, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListOrdersOutput{Orders: orders}, nil
}

// GetOrderInput represents the input for getting an order
type GetOrderInput struct {
	ID string
}

// GetOrderOutput represents the output of getting an order
type GetOrderOutput struct {
	Order *domain.Order
}

// GetOrder retrieves an order by ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, input GetOrderInput) (*GetOrderOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, errors.NewValidation("invalid order id", nil)
	}

	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetOrderOutput{Order: order}, nil
}

// UpdateOrderInput represents an administrative order update
type UpdateOrderInput struct {
	ID     string
	Update domain.OrderUpdate
}

// UpdateOrderOutput represents the output of updating an order
type UpdateOrderOutput struct {
	Order *domain.Order
}

// UpdateOrder applies an administrative status or shipping-field update
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*UpdateOrderOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, errors.NewValidation("invalid order id", nil)
	}

	if input.Update.Status != nil && !input.Update.Status.Valid() {
		return nil, domain.NewInvalidStatus(string(*input.Update.Status))
	}

	order, err := uc.repo.Update(ctx, id, input.Update)
	if err != nil {
		return nil, err
	}
	return &UpdateOrderOutput{Order: order}, nil
}

// DeleteOrderInput represents the input for deleting an order
type DeleteOrderInput struct {
	ID string
}

// DeleteOrder removes an order and its lines
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, input DeleteOrderInput) error {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return errors.NewValidation("invalid order id", nil)
	}
	return uc.repo.Delete(ctx, id)
}
