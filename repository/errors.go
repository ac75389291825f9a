package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyCart is returned by CheckoutCart when the cart has no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrDuplicate is returned on unique-constraint violations.
	ErrDuplicate = errors.New("duplicate record")
)

// StockError reports a line item whose requested quantity exceeds the stock
// observed under the row lock. It aborts the enclosing transaction.
type StockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available=%d requested=%d",
		e.ProductName, e.Available, e.Requested)
}

// InactiveProductError reports a checkout line referencing a product that is
// no longer for sale.
type InactiveProductError struct {
	ProductName string
}

func (e *InactiveProductError) Error() string {
	return fmt.Sprintf("product %q is not available", e.ProductName)
}
