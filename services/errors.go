package services

import "net/http"

// ErrorKind labels a ServiceError so callers can dispatch on the failure
// class instead of parsing messages.
type ErrorKind string

const (
	KindOutOfStock        ErrorKind = "out_of_stock"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindUnavailable       ErrorKind = "unavailable"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidState      ErrorKind = "invalid_state"
	KindCourierUnavail    ErrorKind = "courier_unavailable"
	KindNoProduct         ErrorKind = "no_product"
	KindEmptyCart         ErrorKind = "empty_cart"
	KindStockConflict     ErrorKind = "stock_conflict"
	KindNotFound          ErrorKind = "not_found"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindInternal          ErrorKind = "internal"
)

// ServiceError is a typed error with an HTTP status code. All domain errors
// are local and non-fatal; controllers render them as JSON.
type ServiceError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func errOutOfStock(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindOutOfStock, Message: msg}
}

func errInsufficientStock(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindInsufficientStock, Message: msg}
}

func errUnavailable(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindUnavailable, Message: msg}
}

func errForbidden(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func errInvalidState(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindInvalidState, Message: msg}
}

func errCourierUnavailable(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindCourierUnavail, Message: msg}
}

func errNoProduct(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNoProduct, Message: msg}
}

func errEmptyCart(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindEmptyCart, Message: msg}
}

func errStockConflict(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindStockConflict, Message: msg}
}

func errNotFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func errValidation(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: msg}
}

func errConflict(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusConflict, Kind: KindConflict, Message: msg}
}

func errUnauthorized(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized, Message: msg}
}

func errInternal(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: msg}
}
