package repository

import (
	"context"
	"errors"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckoutLine is one (product, quantity) pair entering a checkout or POS
// transaction.
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderFilter narrows FindAll results.
type OrderFilter struct {
	Status     models.OrderStatus
	CustomerID *uuid.UUID
	CourierID  *uuid.UUID
	Query      string
}

// OrderRepository defines the interface for order data access. CheckoutCart
// and CreatePOS are the only two write paths that touch product stock; both
// run as a single transaction holding row locks on every product involved.
type OrderRepository interface {
	CheckoutCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error
	CreatePOS(ctx context.Context, order *models.Order, lines []CheckoutLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	Save(ctx context.Context, order *models.Order) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CheckoutCart converts the cart's items into an order, decrements stock and
// empties the cart, all inside one transaction. The caller fills in the order
// header (number, customer, type, payment method, shipping cost); totals and
// items are derived here from the prices observed under lock. Inactive
// products abort the checkout.
func (r *GormOrderRepository) CheckoutCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		lines := make([]CheckoutLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		if err := createOrderLocked(tx, order, lines, true); err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
}

// CreatePOS creates a point-of-sale order from explicit line items. Inactive
// products are sold anyway; the register already has them on the counter.
func (r *GormOrderRepository) CreatePOS(ctx context.Context, order *models.Order, lines []CheckoutLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createOrderLocked(tx, order, lines, false)
	})
}

// createOrderLocked locks each product row, verifies stock, snapshots
// name/price into order items, decrements stock and inserts the order.
// Any error unwinds the whole enclosing transaction.
func createOrderLocked(tx *gorm.DB, order *models.Order, lines []CheckoutLine, requireActive bool) error {
	subtotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", line.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if requireActive && !product.Active {
			return &InactiveProductError{ProductName: product.Name}
		}
		if product.Stock < line.Quantity {
			return &StockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   line.Quantity,
			}
		}

		lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)

		if err := tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
			return err
		}
	}

	order.Subtotal = subtotal
	order.Total = subtotal.Add(order.ShippingCost)
	order.Items = orderItems

	return tx.Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PaymentMethod").
		Preload("Courier.User").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Items").
		Preload("PaymentMethod")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CourierID != nil {
		query = query.Where("courier_id = ?", *filter.CourierID)
	}
	if filter.Query != "" {
		query = query.Where("order_number = ?", filter.Query)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// Save persists status, courier assignment and transition timestamps.
func (r *GormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":       order.Status,
			"courier_id":   order.CourierID,
			"confirmed_at": order.ConfirmedAt,
			"preparing_at": order.PreparingAt,
			"ready_at":     order.ReadyAt,
			"delivered_at": order.DeliveredAt,
		}).Error
}
