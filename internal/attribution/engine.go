package attribution

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GroupedItem is a line item after seller resolution, in canonical form
// regardless of which stored shape it came from.
type GroupedItem struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
	Status    string
}

// SellerGroup is one seller's slice of an order: its items and the gross
// product revenue they represent (unit price × quantity, summed). Shipping is
// not part of gross revenue.
type SellerGroup struct {
	SellerID     string
	GrossRevenue decimal.Decimal
	Items        []GroupedItem
}

// Diagnostic records a line item the engine had to reject. Rejections never
// abort the computation; the service layer logs them.
type Diagnostic struct {
	OrderID   string
	ProductID string
	Reason    string
}

// GroupBySeller partitions an order's line items by owning seller and sums
// gross revenue per seller. When both item collections are populated the
// modern one wins and the legacy one is ignored, to avoid double counting.
// Items whose seller cannot be resolved go to the unassigned sentinel bucket.
// Groups come back sorted by seller id so downstream folds are deterministic.
func GroupBySeller(o OrderSnapshot, resolver SellerResolver) ([]SellerGroup, []Diagnostic) {
	var diags []Diagnostic
	bySeller := map[string]*SellerGroup{}

	add := func(sellerID string, item GroupedItem) {
		if item.Quantity < 1 {
			diags = append(diags, Diagnostic{OrderID: o.ID, ProductID: item.ProductID, Reason: "invalid quantity"})
			return
		}
		if item.UnitPrice.IsNegative() {
			diags = append(diags, Diagnostic{OrderID: o.ID, ProductID: item.ProductID, Reason: "negative unit price"})
			return
		}
		g, ok := bySeller[sellerID]
		if !ok {
			g = &SellerGroup{SellerID: sellerID, GrossRevenue: decimal.Zero}
			bySeller[sellerID] = g
		}
		g.Items = append(g.Items, item)
		g.GrossRevenue = g.GrossRevenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if len(o.Items) > 0 {
		for _, it := range o.Items {
			sellerID := it.SellerID
			if sellerID == "" {
				if resolved, ok := resolver.SellerForProduct(it.ProductID); ok {
					sellerID = resolved
				} else {
					sellerID = UnassignedSeller
				}
			}
			add(sellerID, GroupedItem{
				ProductID: it.ProductID,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
				Status:    it.Status,
			})
		}
	} else {
		for _, it := range o.CartItems {
			price, err := decimal.NewFromString(it.Price)
			if err != nil {
				diags = append(diags, Diagnostic{OrderID: o.ID, ProductID: it.ProductID, Reason: "unparseable price"})
				continue
			}
			sellerID := UnassignedSeller
			if resolved, ok := resolver.SellerForProduct(it.ProductID); ok {
				sellerID = resolved
			}
			add(sellerID, GroupedItem{
				ProductID: it.ProductID,
				UnitPrice: price,
				Quantity:  it.Quantity,
				Status:    it.Status,
			})
		}
	}

	groups := make([]SellerGroup, 0, len(bySeller))
	for _, g := range bySeller {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].SellerID < groups[j].SellerID })
	return groups, diags
}

// ProductSubtotal is the order's total product revenue across all seller
// groups. It can be zero for an order with no resolvable items.
func ProductSubtotal(groups []SellerGroup) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.GrossRevenue)
	}
	return total
}
