package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/orders/domain"
	"storefront/internal/orders/ports"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

// fakeLedger serves product lookups and decrements from memory. Setting
// exhaustAt makes DecrementStock fail for that product the way a lost race
// against a concurrent order would.
type fakeLedger struct {
	products  map[uuid.UUID]*domain.ProductSummary
	exhaustAt map[uuid.UUID]bool
	lookups   int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		products:  make(map[uuid.UUID]*domain.ProductSummary),
		exhaustAt: make(map[uuid.UUID]bool),
	}
}

func (l *fakeLedger) add(name string, price string, stock int) uuid.UUID {
	id := uuid.New()
	l.products[id] = &domain.ProductSummary{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	return id
}

func (l *fakeLedger) Lookup(ctx context.Context, productID uuid.UUID) (*domain.ProductSummary, error) {
	l.lookups++
	product, ok := l.products[productID]
	if !ok {
		return nil, domain.NewProductNotFound(productID)
	}
	snapshot := *product
	return &snapshot, nil
}

func (l *fakeLedger) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	product, ok := l.products[productID]
	if !ok || product.Stock < quantity || l.exhaustAt[productID] {
		return domain.ErrStockExhausted
	}
	product.Stock -= quantity
	return nil
}

// fakeOrderRepo keeps orders in memory
type fakeOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	return order, nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		out = append(out, order)
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, id uuid.UUID, update domain.OrderUpdate) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.Notes != nil {
		order.Notes = *update.Notes
	}
	return order, nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return domain.NewOrderNotFound(id)
	}
	delete(r.orders, id)
	return nil
}

// fakeTxManager snapshots ledger stock and stored orders before running fn
// and restores both when fn fails, mimicking a rollback.
type fakeTxManager struct {
	ledger *fakeLedger
	repo   *fakeOrderRepo
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, orders ports.OrderRepository, ledger ports.ProductLedger) error) error {
	stockBefore := make(map[uuid.UUID]int, len(m.ledger.products))
	for id, product := range m.ledger.products {
		stockBefore[id] = product.Stock
	}
	ordersBefore := make(map[uuid.UUID]*domain.Order, len(m.repo.orders))
	for id, order := range m.repo.orders {
		ordersBefore[id] = order
	}

	err := fn(ctx, m.repo, m.ledger)
	if err != nil {
		for id, stock := range stockBefore {
			m.ledger.products[id].Stock = stock
		}
		m.repo.orders = ordersBefore
	}
	return err
}

// fakePublisher records published orders
type fakePublisher struct {
	published []*domain.Order
	err       error
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, order)
	return nil
}

type fixture struct {
	uc        *OrderUseCase
	ledger    *fakeLedger
	repo      *fakeOrderRepo
	publisher *fakePublisher
}

func newFixture() *fixture {
	ledger := newFakeLedger()
	repo := newFakeOrderRepo()
	publisher := &fakePublisher{}
	uc := NewOrderUseCase(
		&fakeTxManager{ledger: ledger, repo: repo},
		repo,
		publisher,
		logger.New("test", "error", "json"),
	)
	return &fixture{uc: uc, ledger: ledger, repo: repo, publisher: publisher}
}

func validInput(userID string, lines ...PlaceOrderLineInput) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:             userID,
		Lines:              lines,
		ShippingAddress:    "1 Main St",
		ShippingCity:       "Springfield",
		ShippingPostalCode: "12345",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 10)
	gadget := f.ledger.add("Gadget", "50.00", 5)
	userID := uuid.New().String()

	output, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "2", Price: "100.00"},
		PlaceOrderLineInput{ProductID: gadget.String(), ProductName: "Gadget", Quantity: "1", Price: "50.00"},
	))
	require.NoError(t, err)

	order := output.Order
	assert.Equal(t, "0.00", order.ShippingCost.StringFixed(2))
	assert.Equal(t, "25.00", order.Tax.StringFixed(2))
	assert.Equal(t, "275.00", order.Total.StringFixed(2))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Widget", order.Lines[0].ProductName)
	assert.Equal(t, "Gadget", order.Lines[1].ProductName)

	assert.Equal(t, 8, f.ledger.products[widget].Stock)
	assert.Equal(t, 4, f.ledger.products[gadget].Stock)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, order.ID, f.publisher.published[0].ID)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newFixture()
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: uuid.New().String(), ProductName: "Ghost", Quantity: "1", Price: "10.00"},
	))
	assertCode(t, err, apperrors.CodeNotFound)
	assert.Empty(t, f.repo.orders)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 1)
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "2", Price: "100.00"},
	))
	assertCode(t, err, apperrors.CodeValidation)
	assert.Contains(t, err.Error(), "Widget")
	assert.Equal(t, 1, f.ledger.products[widget].Stock)
	assert.Empty(t, f.repo.orders)
}

func TestPlaceOrderDecrementRaceLost(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 5)
	f.ledger.exhaustAt[widget] = true
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"},
	))
	assertCode(t, err, apperrors.CodeValidation)
	assert.Contains(t, err.Error(), "Widget")
}

func TestPlaceOrderFailedLineRollsBackEarlierDecrements(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 10)
	gadget := f.ledger.add("Gadget", "50.00", 0)
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "3", Price: "100.00"},
		PlaceOrderLineInput{ProductID: gadget.String(), ProductName: "Gadget", Quantity: "1", Price: "50.00"},
	))
	assertCode(t, err, apperrors.CodeValidation)

	assert.Equal(t, 10, f.ledger.products[widget].Stock, "earlier decrement must be rolled back")
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.publisher.published)
}

func TestPlaceOrderRepeatedProductSeesEarlierDecrements(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 3)
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "2", Price: "100.00"},
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "2", Price: "100.00"},
	))
	assertCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, 3, f.ledger.products[widget].Stock)
}

func TestPlaceOrderValidationRunsBeforeLedger(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 10)
	userID := uuid.New().String()

	cases := []struct {
		name  string
		input PlaceOrderInput
	}{
		{"empty lines", validInput(userID)},
		{"zero quantity", validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "0", Price: "100.00"})},
		{"negative quantity", validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "-1", Price: "100.00"})},
		{"fractional quantity", validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1.5", Price: "100.00"})},
		{"negative price", validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "-5.00"})},
		{"three decimal places", validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "9.999"})},
		{"bad product id", validInput(userID,
			PlaceOrderLineInput{ProductID: "not-a-uuid", ProductName: "Widget", Quantity: "1", Price: "100.00"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookupsBefore := f.ledger.lookups
			_, err := f.uc.PlaceOrder(context.Background(), tc.input)
			assertCode(t, err, apperrors.CodeValidation)
			assert.Equal(t, lookupsBefore, f.ledger.lookups, "validation failure must not touch the ledger")
		})
	}
}

func TestPlaceOrderBadShipping(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 10)
	line := PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"}

	input := validInput(uuid.New().String(), line)
	input.ShippingAddress = "  "
	_, err := f.uc.PlaceOrder(context.Background(), input)
	assertCode(t, err, apperrors.CodeValidation)

	input = validInput(uuid.New().String(), line)
	input.ShippingCity = ""
	_, err = f.uc.PlaceOrder(context.Background(), input)
	assertCode(t, err, apperrors.CodeValidation)

	input = validInput(uuid.New().String(), line)
	input.ShippingPostalCode = ""
	_, err = f.uc.PlaceOrder(context.Background(), input)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestPlaceOrderStatus(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "100.00", 10)
	line := PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"}

	input := validInput(uuid.New().String(), line)
	input.Status = "processing"
	output, err := f.uc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, output.Order.Status)

	input = validInput(uuid.New().String(), line)
	input.Status = "teleported"
	_, err = f.uc.PlaceOrder(context.Background(), input)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestPlaceOrderCallerPriceWins(t *testing.T) {
	f := newFixture()
	// The submitted snapshot price, not the current catalog price, is charged.
	widget := f.ledger.add("Widget", "120.00", 10)
	userID := uuid.New().String()

	output, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"},
	))
	require.NoError(t, err)
	assert.Equal(t, "100.00", output.Order.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "110.00", output.Order.Total.StringFixed(2))
}

func TestPlaceOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture()
	f.publisher.err = assert.AnError
	widget := f.ledger.add("Widget", "100.00", 10)
	userID := uuid.New().String()

	output, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"},
	))
	require.NoError(t, err)
	assert.NotNil(t, output.Order)
}

func TestPlaceOrderCreateFailureIsTransactionFailure(t *testing.T) {
	f := newFixture()
	f.repo.createErr = assert.AnError
	widget := f.ledger.add("Widget", "100.00", 10)
	userID := uuid.New().String()

	_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "100.00"},
	))
	assertCode(t, err, apperrors.CodeInternal)
	assert.Equal(t, 10, f.ledger.products[widget].Stock)
}

func TestListOrders(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "10.00", 100)
	alice := uuid.New().String()
	bob := uuid.New().String()

	for _, userID := range []string{alice, alice, bob} {
		_, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
			PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "10.00"},
		))
		require.NoError(t, err)
	}

	mine, err := f.uc.ListOrders(context.Background(), ListOrdersInput{UserID: alice})
	require.NoError(t, err)
	assert.Len(t, mine.Orders, 2)

	all, err := f.uc.ListOrders(context.Background(), ListOrdersInput{UserID: alice, All: true})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "10.00", 100)
	userID := uuid.New().String()

	placed, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "10.00"},
	))
	require.NoError(t, err)

	shipped := domain.OrderStatusShipped
	updated, err := f.uc.UpdateOrder(context.Background(), UpdateOrderInput{
		ID:     placed.Order.ID.String(),
		Update: domain.OrderUpdate{Status: &shipped},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, updated.Order.Status)

	bogus := domain.OrderStatus("lost")
	_, err = f.uc.UpdateOrder(context.Background(), UpdateOrderInput{
		ID:     placed.Order.ID.String(),
		Update: domain.OrderUpdate{Status: &bogus},
	})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture()
	widget := f.ledger.add("Widget", "10.00", 100)
	userID := uuid.New().String()

	placed, err := f.uc.PlaceOrder(context.Background(), validInput(userID,
		PlaceOrderLineInput{ProductID: widget.String(), ProductName: "Widget", Quantity: "1", Price: "10.00"},
	))
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteOrder(context.Background(), DeleteOrderInput{ID: placed.Order.ID.String()}))

	_, err = f.uc.GetOrder(context.Background(), GetOrderInput{ID: placed.Order.ID.String()})
	assertCode(t, err, apperrors.CodeNotFound)
}
