package attribution

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SellerSummary is one seller's totals across a set of attributed orders.
type SellerSummary struct {
	SellerID         string
	GrossRevenue     decimal.Decimal
	ShippingFeeShare decimal.Decimal
	PlatformFee      decimal.Decimal
	NetRevenue       decimal.Decimal
	OrderCount       int
	ItemCount        int
	DominantStatus   string
}

// SummarizeSellers folds per-order attributions into per-seller totals,
// sorted by seller id. The dominant status is reconciled across the seller's
// per-order dominant statuses.
func SummarizeSellers(orders []OrderAttribution) []SellerSummary {
	bySeller := map[string]*SellerSummary{}
	statuses := map[string][]string{}

	for _, oa := range orders {
		for _, sa := range oa.Attributions {
			s, ok := bySeller[sa.SellerID]
			if !ok {
				s = &SellerSummary{
					SellerID:         sa.SellerID,
					GrossRevenue:     decimal.Zero,
					ShippingFeeShare: decimal.Zero,
					PlatformFee:      decimal.Zero,
					NetRevenue:       decimal.Zero,
				}
				bySeller[sa.SellerID] = s
			}
			s.GrossRevenue = s.GrossRevenue.Add(sa.GrossRevenue)
			s.ShippingFeeShare = s.ShippingFeeShare.Add(sa.ShippingFeeShare)
			s.PlatformFee = s.PlatformFee.Add(sa.PlatformFee)
			s.NetRevenue = s.NetRevenue.Add(sa.NetRevenue)
			s.OrderCount++
			s.ItemCount += sa.ItemCount
			statuses[sa.SellerID] = append(statuses[sa.SellerID], sa.DominantStatus)
		}
	}

	out := make([]SellerSummary, 0, len(bySeller))
	for sellerID, s := range bySeller {
		s.DominantStatus = DominantStatus(statuses[sellerID])
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellerID < out[j].SellerID })
	return out
}
