package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s is a recognized status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderType distinguishes how the order is fulfilled.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypePickup || t == OrderTypeDelivery
}

type PaymentMethodKind string

const (
	PaymentCash     PaymentMethodKind = "cash"
	PaymentCard     PaymentMethodKind = "card"
	PaymentTransfer PaymentMethodKind = "transfer"
	PaymentWebpay   PaymentMethodKind = "webpay"
	PaymentLocal    PaymentMethodKind = "local"
)

// PaymentMethod rows are protected from deletion while any order references
// them (RESTRICT at the Order foreign key).
type PaymentMethod struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string            `gorm:"uniqueIndex;not null" json:"name"`
	Kind      PaymentMethodKind `gorm:"type:varchar(20);not null" json:"kind"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// Order is the durable record of a placed order. The header is immutable
// after creation except for status, courier assignment and the per-state
// timestamps, which are stamped on first arrival only.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null;type:varchar(20)" json:"order_number"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer        *User           `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	CourierID       *uuid.UUID      `gorm:"type:uuid;index" json:"courier_id,omitempty"`
	Courier         *CourierProfile `gorm:"foreignKey:CourierID;constraint:OnDelete:SET NULL" json:"courier,omitempty"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null" json:"payment_method_id"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:RESTRICT" json:"payment_method,omitempty"`

	OrderType OrderType   `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	DeliveryAddress  string `gorm:"type:varchar(1200)" json:"delivery_address,omitempty"`
	AddressReference string `gorm:"type:varchar(200)" json:"address_reference,omitempty"`
	ReferenceName    string `gorm:"type:varchar(100)" json:"reference_name,omitempty"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	CustomerNotes string `gorm:"type:text" json:"customer_notes,omitempty"`
	KitchenNotes  string `gorm:"type:text" json:"kitchen_notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PreparingAt *time.Time `json:"preparing_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem snapshots product name and price at purchase time and is never
// mutated afterwards.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}
