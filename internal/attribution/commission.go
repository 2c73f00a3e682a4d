package attribution

import "github.com/shopspring/decimal"

// ApplyCommission computes the platform fee and net revenue for one seller's
// gross product revenue. The rate applies to the seller's revenue, never the
// order total, and shipping never enters the base.
func ApplyCommission(gross decimal.Decimal, cfg Config) (platformFee, netRevenue decimal.Decimal) {
	platformFee = gross.Mul(cfg.CommissionRate).Round(2)
	netRevenue = gross.Sub(platformFee)
	return platformFee, netRevenue
}
