package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService defines the interface for shopping cart business logic.
//
// Stock is re-checked on every add and increment, but carts hold no locks:
// checkout is the sole authoritative enforcement point. Two tabs of the same
// customer can still overbook relative to final checkout-time stock.
type CartService interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, *ServiceError)
	Add(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartItem, *ServiceError)
	ChangeQuantity(ctx context.Context, customerID, itemID uuid.UUID, delta int) *ServiceError
	Remove(ctx context.Context, customerID, itemID uuid.UUID) *ServiceError
	Totals(ctx context.Context, customerID uuid.UUID) (*models.CartTotals, *ServiceError)
}

// cartServiceImpl implements CartService.
type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, *ServiceError) {
	cart, err := s.carts.FindByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, errInternal("Failed to load cart")
	}
	return cart, nil
}

// Add puts quantity units of a product into the customer's cart, merging with
// an existing line. The existing cart quantity counts against stock, so two
// adds of 3 on a stock of 5 fail the second time.
func (s *cartServiceImpl) Add(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartItem, *ServiceError) {
	if quantity < 1 {
		return nil, errValidation("Quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNoProduct("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to load product", zap.Error(err))
		return nil, errInternal("Failed to load product")
	}
	if !product.Active {
		return nil, errUnavailable(fmt.Sprintf("%q is not available right now", product.Name))
	}

	cart, svcErr := s.GetCart(ctx, customerID)
	if svcErr != nil {
		return nil, svcErr
	}

	existing, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("Failed to load cart item", zap.Error(err))
		return nil, errInternal("Failed to load cart item")
	}

	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	requested := current + quantity
	if requested > product.Stock {
		return nil, errOutOfStock(fmt.Sprintf(
			"Not enough stock of %q: available=%d, in cart=%d", product.Name, product.Stock, current))
	}

	if existing != nil {
		if err := s.carts.UpdateItemQuantity(ctx, existing.ID, requested); err != nil {
			s.logger.Error("Failed to update cart item", zap.Error(err))
			return nil, errInternal("Failed to update cart item")
		}
		existing.Quantity = requested
		return existing, nil
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Product:   product,
		Quantity:  quantity,
	}
	if err := s.carts.CreateItem(ctx, item); err != nil {
		s.logger.Error("Failed to create cart item", zap.Error(err))
		return nil, errInternal("Failed to add to cart")
	}
	return item, nil
}

// ChangeQuantity applies a +1/-1 step to a cart line. Increments re-validate
// against current stock and leave the line untouched on failure; a decrement
// that reaches zero deletes the line.
func (s *cartServiceImpl) ChangeQuantity(ctx context.Context, customerID, itemID uuid.UUID, delta int) *ServiceError {
	if delta != 1 && delta != -1 {
		return errValidation("Delta must be +1 or -1")
	}

	item, svcErr := s.ownedItem(ctx, customerID, itemID)
	if svcErr != nil {
		return svcErr
	}

	next := item.Quantity + delta
	if delta > 0 {
		if item.Product == nil || next > item.Product.Stock {
			name := ""
			stock := 0
			if item.Product != nil {
				name = item.Product.Name
				stock = item.Product.Stock
			}
			return errOutOfStock(fmt.Sprintf("No more stock of %q: available=%d", name, stock))
		}
	}

	if next <= 0 {
		if err := s.carts.DeleteItem(ctx, itemID); err != nil {
			s.logger.Error("Failed to delete cart item", zap.Error(err))
			return errInternal("Failed to remove cart item")
		}
		return nil
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, next); err != nil {
		s.logger.Error("Failed to update cart item", zap.Error(err))
		return errInternal("Failed to update cart item")
	}
	return nil
}

// Remove deletes a cart line outright. Removing an absent line is a no-op.
func (s *cartServiceImpl) Remove(ctx context.Context, customerID, itemID uuid.UUID) *ServiceError {
	item, svcErr := s.ownedItem(ctx, customerID, itemID)
	if svcErr != nil {
		if svcErr.Kind == KindNotFound {
			return nil
		}
		return svcErr
	}

	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		s.logger.Error("Failed to delete cart item", zap.Error(err))
		return errInternal("Failed to remove cart item")
	}
	return nil
}

// Totals computes the live item count and price sum from current items and
// current product prices; nothing is cached.
func (s *cartServiceImpl) Totals(ctx context.Context, customerID uuid.UUID) (*models.CartTotals, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, customerID)
	if svcErr != nil {
		return nil, svcErr
	}

	totals := &models.CartTotals{}
	for i := range cart.Items {
		totals.ItemCount += cart.Items[i].Quantity
		totals.Total = totals.Total.Add(cart.Items[i].Subtotal())
	}
	return totals, nil
}

// ownedItem loads a cart item and verifies it belongs to the customer's cart.
func (s *cartServiceImpl) ownedItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, *ServiceError) {
	item, err := s.carts.FindItemByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Cart item not found")
	}
	if err != nil {
		s.logger.Error("Failed to load cart item", zap.Error(err))
		return nil, errInternal("Failed to load cart item")
	}

	cart, svcErr := s.GetCart(ctx, customerID)
	if svcErr != nil {
		return nil, svcErr
	}
	if item.CartID != cart.ID {
		return nil, errForbidden("Cart item belongs to another customer")
	}
	return item, nil
}
