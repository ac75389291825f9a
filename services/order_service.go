package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderEventPublisher pushes order events to the message bus. Implemented by
// the Kafka producer; nil-safe callers skip publishing when unset.
type OrderEventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// POSLine is one line item rung up at the register.
type POSLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// POSCheckoutRequest is the input of a point-of-sale sale.
type POSCheckoutRequest struct {
	Lines          []POSLine       `json:"items" binding:"required,dive"`
	PaymentLabel   string          `json:"payment_method" binding:"required"`
	Total          decimal.Decimal `json:"total"`
	ReferenceName  string          `json:"reference_name"`
	IdempotencyKey string          `json:"-"`
}

// CheckoutRequest is the input of a customer checkout from their cart.
type CheckoutRequest struct {
	OrderType        models.OrderType `json:"order_type" binding:"required"`
	PaymentMethodID  uuid.UUID        `json:"payment_method_id" binding:"required"`
	DeliveryAddress  string           `json:"delivery_address"`
	AddressReference string           `json:"address_reference"`
	CustomerNotes    string           `json:"customer_notes"`
}

// OrderService defines the interface for order business logic: checkout from
// cart, point-of-sale sales, the status lifecycle and courier assignment.
type OrderService interface {
	CreateOrderFromCart(ctx context.Context, customerID uuid.UUID, req *CheckoutRequest) (*models.Order, *ServiceError)
	POSCheckout(ctx context.Context, actor Actor, req *POSCheckoutRequest) (*models.Order, *ServiceError)
	ApplyTransition(ctx context.Context, orderID uuid.UUID, actor Actor, newStatus models.OrderStatus) (*models.Order, *ServiceError)
	AssignCourier(ctx context.Context, orderID uuid.UUID, courierID *uuid.UUID, actor Actor) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, *ServiceError)
	ListOrders(ctx context.Context, actor Actor, filter repository.OrderFilter) ([]models.Order, *ServiceError)
	CourierOrders(ctx context.Context, actor Actor) ([]models.Order, *ServiceError)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, *ServiceError)
}

// orderServiceImpl implements OrderService.
type orderServiceImpl struct {
	orders      repository.OrderRepository
	carts       repository.CartRepository
	users       repository.UserRepository
	couriers    repository.CourierRepository
	payments    repository.PaymentMethodRepository
	idempotency repository.IdempotencyRepository
	publisher   OrderEventPublisher
	logger      *zap.Logger

	shippingCost   decimal.Decimal
	walkInUsername string
	rng            *rand.Rand
}

// NewOrderService creates a new OrderService. publisher and idempotency may
// be nil; the corresponding features are then skipped.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	couriers repository.CourierRepository,
	payments repository.PaymentMethodRepository,
	idempotency repository.IdempotencyRepository,
	publisher OrderEventPublisher,
	shippingCost decimal.Decimal,
	walkInUsername string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:         orders,
		carts:          carts,
		users:          users,
		couriers:       couriers,
		payments:       payments,
		idempotency:    idempotency,
		publisher:      publisher,
		logger:         logger,
		shippingCost:   shippingCost,
		walkInUsername: walkInUsername,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateOrderFromCart turns the customer's cart into a pending order. Stock
// verification, price snapshotting, stock decrement and cart clearing happen
// in one repository transaction under product row locks.
func (s *orderServiceImpl) CreateOrderFromCart(ctx context.Context, customerID uuid.UUID, req *CheckoutRequest) (*models.Order, *ServiceError) {
	if !req.OrderType.Valid() {
		return nil, errValidation(fmt.Sprintf("Unknown order type %q", req.OrderType))
	}
	if req.OrderType == models.OrderTypeDelivery && req.DeliveryAddress == "" {
		return nil, errValidation("Delivery orders need a delivery address")
	}

	if _, err := s.payments.FindByID(ctx, req.PaymentMethodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errValidation("Unknown payment method")
		}
		s.logger.Error("Failed to load payment method", zap.Error(err))
		return nil, errInternal("Failed to load payment method")
	}

	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, errInternal("Failed to load cart")
	}

	shipping := decimal.Zero
	if req.OrderType == models.OrderTypeDelivery {
		shipping = s.shippingCost
	}

	order := &models.Order{
		OrderNumber:      s.generateOrderNumber(ctx),
		CustomerID:       &customerID,
		PaymentMethodID:  req.PaymentMethodID,
		OrderType:        req.OrderType,
		Status:           models.StatusPending,
		DeliveryAddress:  req.DeliveryAddress,
		AddressReference: req.AddressReference,
		CustomerNotes:    req.CustomerNotes,
		ShippingCost:     shipping,
	}

	if err := s.orders.CheckoutCart(ctx, order, cart.ID); err != nil {
		return nil, s.mapCheckoutError(err, "checkout")
	}

	s.logger.Info("Order created from cart",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customerID.String()),
		zap.String("total", order.Total.String()),
	)
	s.publish(order, "order.created", "")

	return order, nil
}

// ApplyTransition moves an order to newStatus on behalf of the actor.
// Administrators may set any recognized status on a non-terminal order;
// couriers may only walk their own orders along the delivery chain. Each
// tracked state stamps its timestamp on first arrival only.
func (s *orderServiceImpl) ApplyTransition(ctx context.Context, orderID uuid.UUID, actor Actor, newStatus models.OrderStatus) (*models.Order, *ServiceError) {
	if !newStatus.Valid() {
		return nil, errInvalidState(fmt.Sprintf("Unknown order status %q", newStatus))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, errInternal("Failed to load order")
	}

	switch actor.Role {
	case models.RoleAdministrator:
		if order.Status.Terminal() {
			return nil, errInvalidState(fmt.Sprintf("Order %s is %s and cannot change", order.OrderNumber, order.Status))
		}
	case models.RoleCourier:
		if svcErr := s.courierMayTransition(ctx, actor, order, newStatus); svcErr != nil {
			return nil, svcErr
		}
	default:
		return nil, errForbidden("Role may not change order status")
	}

	prev := order.Status
	order.Status = newStatus
	stampTransition(order, newStatus, time.Now())

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order transition", zap.Error(err))
		return nil, errInternal("Failed to update order")
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(prev)),
		zap.String("to", string(newStatus)),
		zap.String("actor_role", string(actor.Role)),
	)
	s.publish(order, "order.status_changed", prev)

	return order, nil
}

// courierChain is the only path a courier may drive an order along, one step
// at a time.
var courierChain = map[models.OrderStatus]models.OrderStatus{
	models.StatusConfirmed:      models.StatusPreparing,
	models.StatusPreparing:      models.StatusReady,
	models.StatusReady:          models.StatusOutForDelivery,
	models.StatusOutForDelivery: models.StatusDelivered,
}

func (s *orderServiceImpl) courierMayTransition(ctx context.Context, actor Actor, order *models.Order, newStatus models.OrderStatus) *ServiceError {
	profile, err := s.couriers.FindByUserID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return errForbidden("No courier profile for this account")
	}
	if err != nil {
		s.logger.Error("Failed to load courier profile", zap.Error(err))
		return errInternal("Failed to load courier profile")
	}

	if order.CourierID == nil || *order.CourierID != profile.ID {
		return errForbidden("Order is not assigned to this courier")
	}
	if next, ok := courierChain[order.Status]; !ok || next != newStatus {
		return errForbidden(fmt.Sprintf("Courier may not move order from %s to %s", order.Status, newStatus))
	}
	return nil
}

// stampTransition records the first arrival into each tracked state. The
// guards are explicit per field: re-entering a state never overwrites the
// original timestamp.
func stampTransition(order *models.Order, status models.OrderStatus, now time.Time) {
	switch status {
	case models.StatusConfirmed:
		if order.ConfirmedAt == nil {
			order.ConfirmedAt = &now
		}
	case models.StatusPreparing:
		if order.PreparingAt == nil {
			order.PreparingAt = &now
		}
	case models.StatusReady:
		if order.ReadyAt == nil {
			order.ReadyAt = &now
		}
	case models.StatusDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}
}

// AssignCourier attaches a courier profile to an order, or detaches with a
// nil courierID. Administrator-only; the courier must currently be available
// and the order must not be terminal.
func (s *orderServiceImpl) AssignCourier(ctx context.Context, orderID uuid.UUID, courierID *uuid.UUID, actor Actor) (*models.Order, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may assign couriers")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, errInternal("Failed to load order")
	}
	if order.Status.Terminal() {
		return nil, errInvalidState(fmt.Sprintf("Order %s is %s; courier cannot change", order.OrderNumber, order.Status))
	}

	if courierID == nil {
		order.CourierID = nil
		order.Courier = nil
	} else {
		profile, err := s.couriers.FindByID(ctx, *courierID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCourierUnavailable("Courier not found")
		}
		if err != nil {
			s.logger.Error("Failed to load courier", zap.Error(err))
			return nil, errInternal("Failed to load courier")
		}
		if !profile.Available {
			return nil, errCourierUnavailable(fmt.Sprintf("Courier %s is not available", profile.ID))
		}
		order.CourierID = &profile.ID
		order.Courier = profile
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save courier assignment", zap.Error(err))
		return nil, errInternal("Failed to update order")
	}

	s.logger.Info("Courier assignment changed",
		zap.String("order_number", order.OrderNumber),
		zap.Bool("assigned", courierID != nil),
	)
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Order not found")
	}
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, errInternal("Failed to load order")
	}

	// Customers only see their own orders; staff roles see everything.
	if actor.Role == models.RoleCustomer {
		if order.CustomerID == nil || *order.CustomerID != actor.ID {
			return nil, errForbidden("Order belongs to another customer")
		}
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, actor Actor, filter repository.OrderFilter) ([]models.Order, *ServiceError) {
	if actor.Role == models.RoleCustomer {
		id := actor.ID
		filter.CustomerID = &id
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, errInternal("Failed to list orders")
	}
	return orders, nil
}

// CourierOrders lists orders assigned to the acting courier that still need
// work (confirmed through out_for_delivery).
func (s *orderServiceImpl) CourierOrders(ctx context.Context, actor Actor) ([]models.Order, *ServiceError) {
	if !actor.Is(models.RoleCourier) {
		return nil, errForbidden("Courier role required")
	}

	profile, err := s.couriers.FindByUserID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errForbidden("No courier profile for this account")
	}
	if err != nil {
		s.logger.Error("Failed to load courier profile", zap.Error(err))
		return nil, errInternal("Failed to load courier profile")
	}

	id := profile.ID
	orders, err := s.orders.FindAll(ctx, repository.OrderFilter{CourierID: &id})
	if err != nil {
		s.logger.Error("Failed to list courier orders", zap.Error(err))
		return nil, errInternal("Failed to list orders")
	}

	active := orders[:0]
	for _, o := range orders {
		if !o.Status.Terminal() || recentlyDelivered(&o) {
			active = append(active, o)
		}
	}
	return active, nil
}

// PaymentMethods lists the active payment methods offered at checkout.
func (s *orderServiceImpl) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, *ServiceError) {
	methods, err := s.payments.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment methods", zap.Error(err))
		return nil, errInternal("Failed to list payment methods")
	}
	return methods, nil
}

// recentlyDelivered keeps delivered orders on the courier's list for a day.
func recentlyDelivered(o *models.Order) bool {
	return o.Status == models.StatusDelivered &&
		o.DeliveredAt != nil &&
		time.Since(*o.DeliveredAt) < 24*time.Hour
}

// generateOrderNumber builds a 10-digit number from the millisecond clock
// plus four random digits, re-rolling the random suffix up to ten times on
// collision and finally falling back to the full microsecond timestamp.
// Collisions are absorbed here and never surfaced to the caller.
func (s *orderServiceImpl) generateOrderNumber(ctx context.Context) string {
	now := time.Now()
	base := now.UnixMilli() % 1000000

	number := fmt.Sprintf("%06d%04d", base, s.rng.Intn(10000))
	for attempt := 0; attempt < 10; attempt++ {
		exists, err := s.orders.NumberExists(ctx, number)
		if err != nil {
			s.logger.Warn("Order number uniqueness check failed", zap.Error(err))
			break
		}
		if !exists {
			return number
		}
		number = fmt.Sprintf("%06d%04d", base, s.rng.Intn(10000))
	}

	if exists, err := s.orders.NumberExists(ctx, number); err == nil && !exists {
		return number
	}
	return fmt.Sprintf("%d", now.UnixMicro())
}

// mapCheckoutError translates repository failures from the transactional
// write paths into caller-facing service errors.
func (s *orderServiceImpl) mapCheckoutError(err error, op string) *ServiceError {
	var stockErr *repository.StockError
	if errors.As(err, &stockErr) {
		if op == "pos" {
			return errInsufficientStock(stockErr.Error())
		}
		return errStockConflict(stockErr.Error())
	}

	var inactiveErr *repository.InactiveProductError
	if errors.As(err, &inactiveErr) {
		return errUnavailable(inactiveErr.Error())
	}

	if errors.Is(err, repository.ErrEmptyCart) {
		return errEmptyCart("Cart is empty")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return errNoProduct("A product in the order no longer exists")
	}

	s.logger.Error("Checkout transaction failed", zap.String("op", op), zap.Error(err))
	return errInternal("Failed to create order")
}

func (s *orderServiceImpl) publish(order *models.Order, event string, prev models.OrderStatus) {
	if s.publisher == nil {
		return
	}

	evt := models.OrderEvent{
		Event:       event,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		OrderType:   string(order.OrderType),
		Status:      string(order.Status),
		PrevStatus:  string(prev),
		Total:       order.Total.StringFixed(2),
		Timestamp:   time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(evt); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event", event),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
}
