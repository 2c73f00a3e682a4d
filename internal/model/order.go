package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a marketplace order that may carry line items from several
// independent sellers. The shipping-fee columns stay raw jsonb on purpose:
// checkout writes a number, the backfill scripts wrote numeric strings, and
// the legacy import wrote structured records. Normalization happens in the
// attribution engine, not at the storage boundary.
type Order struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	BuyerID   *uuid.UUID `gorm:"type:uuid;index" json:"buyer_id"`

	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	ShippingFee        json.RawMessage `gorm:"type:jsonb" json:"shipping_fee"`
	SellerShippingFees json.RawMessage `gorm:"type:jsonb" json:"seller_shipping_fees,omitempty"`

	DestinationRegion string `gorm:"type:varchar(100)" json:"destination_region"`
	DestinationCity   string `gorm:"type:varchar(100)" json:"destination_city"`

	Items     []LineItem `gorm:"foreignKey:OrderID" json:"items"`
	CartItems []CartItem `gorm:"foreignKey:OrderID" json:"cart_items,omitempty"`

	// PlacedAt is the creation timestamp exactly as the writing client
	// recorded it. Orders imported from the legacy store carry formats the
	// aggregator may not be able to parse; those are excluded from
	// time-bucket reports and counted as a diagnostic.
	PlacedAt string `gorm:"type:varchar(40)" json:"placed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is the modern per-seller line-item shape.
type LineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	SellerID  *uuid.UUID      `gorm:"type:uuid;index" json:"seller_id"` // nullable on rows migrated before seller refs existed
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"type:int;not null" json:"quantity"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}

// CartItem is the legacy line-item shape: no seller reference and the price
// stored as text. Kept readable so pre-migration orders still attribute.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Price     string    `gorm:"type:varchar(32)" json:"price"`
	Quantity  int       `gorm:"type:int;not null" json:"quantity"`
	Status    string    `gorm:"type:varchar(20)" json:"status"`
}
