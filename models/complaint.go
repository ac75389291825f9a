package models

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintReason string

const (
	ReasonWrongOrder     ComplaintReason = "wrong_order"
	ReasonDamagedProduct ComplaintReason = "damaged_product"
	ReasonExcessiveDelay ComplaintReason = "excessive_delay"
	ReasonPoorService    ComplaintReason = "poor_service"
	ReasonOther          ComplaintReason = "other"
)

func (r ComplaintReason) Valid() bool {
	switch r {
	case ReasonWrongOrder, ReasonDamagedProduct, ReasonExcessiveDelay,
		ReasonPoorService, ReasonOther:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	ComplaintNew      ComplaintStatus = "new"
	ComplaintInReview ComplaintStatus = "in_review"
	ComplaintAnswered ComplaintStatus = "answered"
	ComplaintResolved ComplaintStatus = "resolved"
	ComplaintClosed   ComplaintStatus = "closed"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintNew, ComplaintInReview, ComplaintAnswered,
		ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// Complaint is filed by a customer against one of their own orders.
type Complaint struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *User           `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Order       *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order,omitempty"`
	Reason      ComplaintReason `gorm:"type:varchar(20);not null" json:"reason"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Status      ComplaintStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Response    string          `gorm:"type:text" json:"response,omitempty"`
	HandledByID *uuid.UUID      `gorm:"type:uuid" json:"handled_by_id,omitempty"`
	HandledBy   *User           `gorm:"foreignKey:HandledByID;constraint:OnDelete:SET NULL" json:"handled_by,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
}
