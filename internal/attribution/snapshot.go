package attribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedSeller is the sentinel bucket for line items whose owning seller
// cannot be resolved. Items land here instead of being dropped so that
// attributed totals still reconcile to the order total.
const UnassignedSeller = "unassigned"

// Destination is where an order ships to.
type Destination struct {
	Region string `json:"region"`
	City   string `json:"city"`
}

// ItemSnapshot is the modern line-item shape.
type ItemSnapshot struct {
	SellerID  string          `json:"sellerId"`
	ProductID string          `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Status    string          `json:"status"`
}

// CartItemSnapshot is the legacy line-item shape: no seller reference and the
// price stored as text.
type CartItemSnapshot struct {
	ProductID string `json:"productId"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
}

// OrderSnapshot is the read-only view of an order the engine computes over.
// It is decoupled from the storage models so the whole pipeline stays a pure
// function of its input.
type OrderSnapshot struct {
	ID                 string              `json:"id"`
	CreatedAt          string              `json:"createdAt"`
	TotalAmount        decimal.Decimal     `json:"totalAmount"`
	ShippingFee        FeeValue            `json:"shippingFee"`
	SellerShippingFees map[string]FeeValue `json:"sellerShippingFees,omitempty"`
	Destination        Destination         `json:"destination"`
	Items              []ItemSnapshot      `json:"items,omitempty"`
	CartItems          []CartItemSnapshot  `json:"cartItems,omitempty"`
}

// SellerResolver maps a product to its owning seller, for line items that
// predate per-item seller references.
type SellerResolver interface {
	SellerForProduct(productID string) (string, bool)
}

// SellerMap is a SellerResolver backed by a plain map.
type SellerMap map[string]string

func (m SellerMap) SellerForProduct(productID string) (string, bool) {
	sellerID, ok := m[productID]
	return sellerID, ok
}

// orderTimeLayouts are the timestamp formats observed across order writers,
// newest first.
var orderTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOrderTime parses an order creation timestamp, trying each known
// layout. The second return is false when no layout matches; such orders are
// excluded from time-bucket aggregation rather than assigned a default.
func ParseOrderTime(s string) (time.Time, bool) {
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
