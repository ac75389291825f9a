package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the closed set of account roles. Access checks dispatch on this
// value instead of comparing raw strings.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleAdministrator Role = "administrator"
	RoleCashier       Role = "cashier"
	RoleCourier       Role = "courier"
	RoleKitchen       Role = "kitchen"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdministrator, RoleCashier, RoleCourier, RoleKitchen:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CourierProfile holds delivery-specific data for a user with the courier
// role. An order references at most one profile at a time.
type CourierProfile struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Vehicle       string          `json:"vehicle"`
	VehiclePlate  string          `gorm:"type:varchar(20)" json:"vehicle_plate"`
	Available     bool            `gorm:"not null;default:true" json:"available"`
	AverageRating decimal.Decimal `gorm:"type:decimal(3,2);default:5.0" json:"average_rating"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
