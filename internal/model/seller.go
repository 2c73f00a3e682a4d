package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seller role constants
const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Seller is an independent storefront on the marketplace.
type Seller struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	ShopName     string    `gorm:"type:varchar(255);not null" json:"shop_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'seller'" json:"role"`
	Region       string    `gorm:"type:varchar(100)" json:"region"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product belongs to exactly one seller; the product→seller mapping is what
// resolves ownership for line items without an explicit seller reference.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller    *Seller         `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
