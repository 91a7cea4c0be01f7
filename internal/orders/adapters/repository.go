package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/orders/domain"
	apperrors "storefront/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID          `gorm:"type:uuid;index;not null"`
	Total              decimal.Decimal    `gorm:"type:decimal(10,2);not null"`
	ShippingCost       decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	Tax                decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0"`
	Status             domain.OrderStatus `gorm:"size:20;not null;default:'pending'"`
	ShippingAddress    string             `gorm:"size:255;not null"`
	ShippingCity       string             `gorm:"size:100;not null"`
	ShippingPostalCode string             `gorm:"size:20;not null"`
	ShippingPhone      string             `gorm:"size:30"`
	Notes              string             `gorm:"type:text"`
	CreatedAt          time.Time          `gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime"`

	Lines []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns an id when none was supplied
func (m *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OrderLineModel is the GORM model for order lines. Position preserves the
// submission order of the lines for display.
type OrderLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null;check:quantity > 0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Position    int             `gorm:"not null;default:0"`

	Product *LedgerProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// BeforeCreate assigns an id when none was supplied
func (m *OrderLineModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderLineModel{})
}

// Create persists an order together with all of its lines
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toModel(order)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create order", result.Error)
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves an order with lines and product references resolved
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Product").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toDomain(&model), nil
}

// ListByUser retrieves a user's orders, newest first
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// ListAll retrieves every order, newest first
func (r *PostgresOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *PostgresOrderRepository) list(ctx context.Context, tx *gorm.DB) ([]*domain.Order, error) {
	var models []OrderModel

	result := tx.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lines.Product").
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list orders", result.Error)
	}

	orders := make([]*domain.Order, len(models))
	for i := range models {
		orders[i] = toDomain(&models[i])
	}
	return orders, nil
}

// Update applies an administrative update and returns the result
func (r *PostgresOrderRepository) Update(ctx context.Context, id uuid.UUID, update domain.OrderUpdate) (*domain.Order, error) {
	values := map[string]interface{}{}
	if update.Status != nil {
		values["status"] = *update.Status
	}
	if update.ShippingAddress != nil {
		values["shipping_address"] = *update.ShippingAddress
	}
	if update.ShippingCity != nil {
		values["shipping_city"] = *update.ShippingCity
	}
	if update.ShippingPostalCode != nil {
		values["shipping_postal_code"] = *update.ShippingPostalCode
	}
	if update.ShippingPhone != nil {
		values["shipping_phone"] = *update.ShippingPhone
	}
	if update.Notes != nil {
		values["notes"] = *update.Notes
	}

	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id).Updates(values)
		if result.Error != nil {
			return nil, apperrors.NewInternal("failed to update order", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, domain.NewOrderNotFound(id)
		}
	}

	return r.GetByID(ctx, id)
}

// Delete deletes an order and its lines
func (r *PostgresOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderLineModel{}).Error; err != nil {
			return apperrors.NewInternal("failed to delete order lines", err)
		}

		result := tx.Delete(&OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.NewInternal("failed to delete order", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewOrderNotFound(id)
		}
		return nil
	})
}

// toModel converts a domain entity to a GORM model
func toModel(order *domain.Order) *OrderModel {
	model := &OrderModel{
		ID:                 order.ID,
		UserID:             order.UserID,
		Total:              order.Total,
		ShippingCost:       order.ShippingCost,
		Tax:                order.Tax,
		Status:             order.Status,
		ShippingAddress:    order.ShippingAddress,
		ShippingCity:       order.ShippingCity,
		ShippingPostalCode: order.ShippingPostalCode,
		ShippingPhone:      order.ShippingPhone,
		Notes:              order.Notes,
	}

	model.Lines = make([]OrderLineModel, len(order.Lines))
	for i, line := range order.Lines {
		model.Lines[i] = OrderLineModel{
			ID:          line.ID,
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Position:    i,
		}
	}

	return model
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *OrderModel) *domain.Order {
	order := &domain.Order{
		ID:                 model.ID,
		UserID:             model.UserID,
		Total:              model.Total,
		ShippingCost:       model.ShippingCost,
		Tax:                model.Tax,
		Status:             model.Status,
		ShippingAddress:    model.ShippingAddress,
		ShippingCity:       model.ShippingCity,
		ShippingPostalCode: model.ShippingPostalCode,
		ShippingPhone:      model.ShippingPhone,
		Notes:              model.Notes,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}

	order.Lines = make([]domain.OrderLine, len(model.Lines))
	for i := range model.Lines {
		line := &model.Lines[i]
		order.Lines[i] = domain.OrderLine{
			ID:          line.ID,
			OrderID:     line.OrderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		if line.Product != nil {
			order.Lines[i].Product = &domain.ProductSummary{
				ID:    line.Product.ID,
				Name:  line.Product.Name,
				Price: line.Product.Price,
				Stock: line.Product.Stock,
			}
		}
	}

	return order
}
