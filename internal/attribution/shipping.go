package attribution

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds the platform's commercial constants. These are configuration,
// not request parameters.
type Config struct {
	// CommissionRate is the platform's cut of each seller's gross product
	// revenue. Shipping is excluded from the commissionable base.
	CommissionRate decimal.Decimal

	// LocalRegion is the destination region billed the cheaper default
	// shipping fee; every other destination gets DefaultShippingFee.
	LocalRegion        string
	LocalShippingFee   decimal.Decimal
	DefaultShippingFee decimal.Decimal

	// Workers bounds the per-order fan-out when processing an order set.
	Workers int
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		CommissionRate:     decimal.NewFromFloat(0.05),
		LocalRegion:        "Greater Accra",
		LocalShippingFee:   decimal.NewFromInt(50),
		DefaultShippingFee: decimal.NewFromInt(70),
		Workers:            8,
	}
}

// ResolveShipping assigns each seller its share of the order's shipping fee.
// Strategies are tried in order, first applicable wins per seller:
//
//  1. explicit: the order carries a per-seller shipping-fee entry
//  2. proportional: sellerShare = totalFee × sellerRevenue / orderRevenue
//  3. destination default: flat fee by destination classification
//
// When every seller resolves through tier 2 the last share is adjusted by the
// rounding remainder so that the shares sum back to the order's total fee.
func ResolveShipping(o OrderSnapshot, groups []SellerGroup, cfg Config) map[string]decimal.Decimal {
	shares := make(map[string]decimal.Decimal, len(groups))
	if len(groups) == 0 {
		return shares
	}

	totalFee := o.ShippingFee.Amount()
	totalRevenue := ProductSubtotal(groups)

	explicit := map[string]decimal.Decimal{}
	for sellerID, fv := range o.SellerShippingFees {
		if fv.IsSet() {
			explicit[sellerID] = fv.Amount()
		}
	}

	// Only explicit entries for sellers actually in the order count; the fee
	// map can carry stale entries for sellers whose items were rejected or
	// removed, and those must not disqualify the corrected path.
	explicitInOrder := 0
	for _, g := range groups {
		if hasExplicit(explicit, g.SellerID) {
			explicitInOrder++
		}
	}

	allProportional := explicitInOrder == 0 && totalFee.IsPositive() && totalRevenue.IsPositive()
	if allProportional {
		allocated := decimal.Zero
		for i, g := range groups {
			if i == len(groups)-1 {
				shares[g.SellerID] = totalFee.Sub(allocated)
				break
			}
			share := totalFee.Mul(g.GrossRevenue).Div(totalRevenue).Round(2)
			shares[g.SellerID] = share
			allocated = allocated.Add(share)
		}
		return shares
	}

	for _, g := range groups {
		switch {
		case hasExplicit(explicit, g.SellerID):
			shares[g.SellerID] = explicit[g.SellerID]
		case totalFee.IsPositive() && totalRevenue.IsPositive():
			shares[g.SellerID] = totalFee.Mul(g.GrossRevenue).Div(totalRevenue).Round(2)
		default:
			shares[g.SellerID] = destinationDefault(o.Destination, cfg)
		}
	}
	return shares
}

func hasExplicit(explicit map[string]decimal.Decimal, sellerID string) bool {
	_, ok := explicit[sellerID]
	return ok
}

func destinationDefault(d Destination, cfg Config) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(d.Region), cfg.LocalRegion) {
		return cfg.LocalShippingFee
	}
	return cfg.DefaultShippingFee
}
