package services

import (
	"context"
	"errors"
	"time"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// idempotencyTTL bounds how long a register may replay the same sale.
const idempotencyTTL = 24 * time.Hour

// POSCheckout rings up an in-person sale. The whole sale is one transaction:
// every line is checked against locked stock and either all lines commit or
// none do. POS orders belong to the walk-in account when one is configured,
// otherwise to the cashier, and start directly in preparing.
func (s *orderServiceImpl) POSCheckout(ctx context.Context, actor Actor, req *POSCheckoutRequest) (*models.Order, *ServiceError) {
	if !actor.Is(models.RoleCashier, models.RoleAdministrator) {
		return nil, errForbidden("Only cashiers may use the register")
	}
	if len(req.Lines) == 0 {
		return nil, errValidation("Sale needs at least one item")
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, errValidation("Line quantities must be at least 1")
		}
	}
	if req.PaymentLabel == "" {
		return nil, errValidation("Payment method is required")
	}

	if order, svcErr := s.replayedSale(ctx, req.IdempotencyKey); svcErr != nil || order != nil {
		return order, svcErr
	}

	payment, err := s.payments.GetOrCreate(ctx, req.PaymentLabel, models.PaymentLocal)
	if err != nil {
		s.logger.Error("Failed to resolve POS payment method", zap.Error(err))
		return nil, errInternal("Failed to resolve payment method")
	}

	customerID := s.walkInCustomer(ctx, actor)

	now := time.Now()
	order := &models.Order{
		OrderNumber:     s.generateOrderNumber(ctx),
		CustomerID:      customerID,
		PaymentMethodID: payment.ID,
		OrderType:       models.OrderTypeDineIn,
		Status:          models.StatusPreparing,
		PreparingAt:     &now,
		ReferenceName:   req.ReferenceName,
	}

	lines := make([]repository.CheckoutLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, repository.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	if err := s.orders.CreatePOS(ctx, order, lines); err != nil {
		return nil, s.mapCheckoutError(err, "pos")
	}

	if s.idempotency != nil && req.IdempotencyKey != "" {
		if err := s.idempotency.Set(ctx, req.IdempotencyKey, order.OrderNumber, idempotencyTTL); err != nil {
			s.logger.Warn("Failed to record POS idempotency key", zap.Error(err))
		}
	}

	s.logger.Info("POS sale completed",
		zap.String("order_number", order.OrderNumber),
		zap.String("cashier_id", actor.ID.String()),
		zap.String("total", order.Total.String()),
		zap.Int("lines", len(lines)),
	)
	s.publish(order, "order.created", "")

	return order, nil
}

// replayedSale returns the previously created order when the idempotency key
// was already used. A key that maps to a vanished order is treated as unseen.
func (s *orderServiceImpl) replayedSale(ctx context.Context, key string) (*models.Order, *ServiceError) {
	if s.idempotency == nil || key == "" {
		return nil, nil
	}

	number, err := s.idempotency.Get(ctx, key)
	if err != nil {
		s.logger.Warn("POS idempotency lookup failed", zap.Error(err))
		return nil, nil
	}
	if number == "" {
		return nil, nil
	}

	order, err := s.orders.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load replayed POS order", zap.Error(err))
		return nil, errInternal("Failed to load order")
	}

	s.logger.Info("POS sale replayed from idempotency key", zap.String("order_number", number))
	return order, nil
}

// walkInCustomer resolves the owner of a POS order. Sales are attributed to
// the configured walk-in account; when that account is missing the cashier
// owns the order.
func (s *orderServiceImpl) walkInCustomer(ctx context.Context, actor Actor) *uuid.UUID {
	if s.walkInUsername != "" {
		walkIn, err := s.users.FindByUsername(ctx, s.walkInUsername)
		if err == nil {
			return &walkIn.ID
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to load walk-in account", zap.Error(err))
		} else {
			s.logger.Warn("Walk-in account missing, attributing sale to cashier",
				zap.String("walk_in_username", s.walkInUsername))
		}
	}
	id := actor.ID
	return &id
}
