package attribution

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SellerAttribution is one seller's derived slice of one order. Attributions
// are immutable value objects; netRevenue is always grossRevenue minus
// platformFee.
type SellerAttribution struct {
	SellerID         string
	GrossRevenue     decimal.Decimal
	ShippingFeeShare decimal.Decimal
	PlatformFee      decimal.Decimal
	NetRevenue       decimal.Decimal
	ItemCount        int
	DominantStatus   string
}

// OrderAttribution is the finished per-order pipeline output.
type OrderAttribution struct {
	OrderID      string
	CreatedAt    time.Time
	TimeValid    bool
	Status       string
	Attributions []SellerAttribution
	Diagnostics  []Diagnostic
}

// ProcessOrder runs the full attribution pipeline for one order: fee
// normalization, seller grouping, shipping apportionment, commission, and
// status reconciliation. Pure: same snapshot in, same attribution out.
func ProcessOrder(o OrderSnapshot, resolver SellerResolver, cfg Config) OrderAttribution {
	groups, diags := GroupBySeller(o, resolver)
	shares := ResolveShipping(o, groups, cfg)

	attrs := make([]SellerAttribution, 0, len(groups))
	var allStatuses []string
	for _, g := range groups {
		platformFee, netRevenue := ApplyCommission(g.GrossRevenue, cfg)
		itemCount := 0
		for _, it := range g.Items {
			itemCount += it.Quantity
			allStatuses = append(allStatuses, it.Status)
		}
		attrs = append(attrs, SellerAttribution{
			SellerID:         g.SellerID,
			GrossRevenue:     g.GrossRevenue,
			ShippingFeeShare: shares[g.SellerID],
			PlatformFee:      platformFee,
			NetRevenue:       netRevenue,
			ItemCount:        itemCount,
			DominantStatus:   dominantOfItems(g.Items),
		})
	}

	createdAt, timeValid := ParseOrderTime(o.CreatedAt)
	return OrderAttribution{
		OrderID:      o.ID,
		CreatedAt:    createdAt,
		TimeValid:    timeValid,
		Status:       DominantStatus(allStatuses),
		Attributions: attrs,
		Diagnostics:  diags,
	}
}

// ProcessOrders runs the per-order pipeline across a snapshot set on a
// bounded worker pool. Order attribution is embarrassingly parallel; results
// keep the input order so downstream folds are deterministic. The context
// bounds the whole computation: when it is cancelled the partial work is
// discarded and the context error returned.
func ProcessOrders(ctx context.Context, orders []OrderSnapshot, resolver SellerResolver, cfg Config) ([]OrderAttribution, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(orders) {
		workers = len(orders)
	}
	if len(orders) == 0 {
		return nil, ctx.Err()
	}

	results := make([]OrderAttribution, len(orders))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = ProcessOrder(orders[i], resolver, cfg)
			}
		}()
	}

feed:
	for i := range orders {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
