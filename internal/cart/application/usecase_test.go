package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart/domain"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

type cartKey struct {
	userID    uuid.UUID
	productID uuid.UUID
}

type fakeCartRepo struct {
	items    map[cartKey]*domain.Item
	products map[uuid.UUID]*domain.ItemProduct
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		items:    make(map[cartKey]*domain.Item),
		products: make(map[uuid.UUID]*domain.ItemProduct),
	}
}

func (r *fakeCartRepo) addProduct(name, price string, stock int) uuid.UUID {
	id := uuid.New()
	r.products[id] = &domain.ItemProduct{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	return id
}

func (r *fakeCartRepo) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error) {
	key := cartKey{userID, productID}
	if item, ok := r.items[key]; ok {
		item.Quantity += quantity
		return item, nil
	}
	item := &domain.Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Product:   r.products[productID],
	}
	r.items[key] = item
	return item, nil
}

func (r *fakeCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	var out []*domain.Item
	for key, item := range r.items {
		if key.userID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.Item, error) {
	item, ok := r.items[cartKey{userID, productID}]
	if !ok {
		return nil, domain.NewItemNotFound(productID)
	}
	return item, nil
}

func (r *fakeCartRepo) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error) {
	item, ok := r.items[cartKey{userID, productID}]
	if !ok {
		return nil, domain.NewItemNotFound(productID)
	}
	item.Quantity = quantity
	return item, nil
}

func (r *fakeCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	key := cartKey{userID, productID}
	if _, ok := r.items[key]; !ok {
		return domain.NewItemNotFound(productID)
	}
	delete(r.items, key)
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	for key := range r.items {
		if key.userID == userID {
			delete(r.items, key)
		}
	}
	return nil
}

type fakeChecker struct {
	repo *fakeCartRepo
}

func (c *fakeChecker) Exists(ctx context.Context, productID uuid.UUID) error {
	if _, ok := c.repo.products[productID]; !ok {
		return apperrors.NewNotFound("product", productID)
	}
	return nil
}

func newCartFixture() (*CartUseCase, *fakeCartRepo) {
	repo := newFakeCartRepo()
	uc := NewCartUseCase(repo, &fakeChecker{repo: repo}, logger.New("test", "error", "json"))
	return uc, repo
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestAddItemMergesQuantity(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "10.00", 50)
	userID := uuid.New().String()

	first, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Item.Quantity)

	second, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Item.Quantity)
	assert.Equal(t, first.Item.ID, second.Item.ID, "same product must stay a single line")
}

func TestAddItemValidation(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "10.00", 50)
	userID := uuid.New().String()

	_, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 0})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: uuid.New().String(), Quantity: 1})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetCartTotals(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "19.99", 50)
	gadget := repo.addProduct("Gadget", "5.00", 10)
	userID := uuid.New().String()

	_, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 2})
	require.NoError(t, err)
	_, err = uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: gadget.String(), Quantity: 3})
	require.NoError(t, err)

	output, err := uc.GetCart(context.Background(), GetCartInput{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, output.Items, 2)
	assert.Equal(t, "54.98", output.Total.StringFixed(2))
}

func TestUpdateItemZeroQuantityRemoves(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "10.00", 50)
	userID := uuid.New().String()

	_, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 2})
	require.NoError(t, err)

	output, err := uc.UpdateItem(context.Background(), UpdateItemInput{UserID: userID, ProductID: widget.String(), Quantity: 0})
	require.NoError(t, err)
	assert.Nil(t, output.Item)

	cart, err := uc.GetCart(context.Background(), GetCartInput{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "10.00", 50)
	userID := uuid.New().String()

	_, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: widget.String(), Quantity: 2})
	require.NoError(t, err)

	output, err := uc.UpdateItem(context.Background(), UpdateItemInput{UserID: userID, ProductID: widget.String(), Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, output.Item.Quantity)
}

func TestClearCart(t *testing.T) {
	uc, repo := newCartFixture()
	widget := repo.addProduct("Widget", "10.00", 50)
	gadget := repo.addProduct("Gadget", "5.00", 10)
	userID := uuid.New().String()
	otherID := uuid.New().String()

	for _, p := range []uuid.UUID{widget, gadget} {
		_, err := uc.AddItem(context.Background(), AddItemInput{UserID: userID, ProductID: p.String(), Quantity: 1})
		require.NoError(t, err)
	}
	_, err := uc.AddItem(context.Background(), AddItemInput{UserID: otherID, ProductID: widget.String(), Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, uc.ClearCart(context.Background(), ClearCartInput{UserID: userID}))

	mine, err := uc.GetCart(context.Background(), GetCartInput{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, mine.Items)

	theirs, err := uc.GetCart(context.Background(), GetCartInput{UserID: otherID})
	require.NoError(t, err)
	assert.Len(t, theirs.Items, 1)
}
