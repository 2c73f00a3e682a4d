package attribution

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSellerOrder() OrderSnapshot {
	return OrderSnapshot{
		ID:          "ord-1",
		CreatedAt:   "2024-03-11T09:00:00Z",
		TotalAmount: price("240"),
		ShippingFee: FeeFromDecimal(decimal.NewFromInt(40)),
		Items: []ItemSnapshot{
			{SellerID: "seller-a", ProductID: "p1", UnitPrice: price("75"), Quantity: 2, Status: StatusShipped},
			{SellerID: "seller-b", ProductID: "p2", UnitPrice: price("25"), Quantity: 2, Status: StatusPending},
		},
	}
}

func TestProcessOrderScenario(t *testing.T) {
	// Subtotal 200 split 150/50, fee 40, no explicit per-seller fees.
	oa := ProcessOrder(twoSellerOrder(), SellerMap{}, DefaultConfig())

	require.Len(t, oa.Attributions, 2)
	a, b := oa.Attributions[0], oa.Attributions[1]

	assert.Equal(t, "seller-a", a.SellerID)
	assert.Equal(t, "150", a.GrossRevenue.String())
	assert.Equal(t, "30", a.ShippingFeeShare.String())
	assert.Equal(t, "7.5", a.PlatformFee.String())
	assert.Equal(t, "142.5", a.NetRevenue.String())
	assert.Equal(t, 2, a.ItemCount)
	assert.Equal(t, StatusShipped, a.DominantStatus)

	assert.Equal(t, "seller-b", b.SellerID)
	assert.Equal(t, "50", b.GrossRevenue.String())
	assert.Equal(t, "10", b.ShippingFeeShare.String())
	assert.Equal(t, "2.5", b.PlatformFee.String())
	assert.Equal(t, "47.5", b.NetRevenue.String())

	assert.Equal(t, StatusShipped, oa.Status)
	assert.True(t, oa.TimeValid)
}

func TestProcessOrderNetRevenueInvariant(t *testing.T) {
	oa := ProcessOrder(twoSellerOrder(), SellerMap{}, DefaultConfig())
	for _, sa := range oa.Attributions {
		assert.True(t, sa.NetRevenue.Equal(sa.GrossRevenue.Sub(sa.PlatformFee)), sa.SellerID)
	}
}

func TestProcessOrderSingleSellerIdentity(t *testing.T) {
	order := OrderSnapshot{
		ID:          "ord-solo",
		CreatedAt:   "2024-03-11",
		ShippingFee: FeeFromDecimal(price("17.45")),
		Items: []ItemSnapshot{
			{SellerID: "seller-a", ProductID: "p1", UnitPrice: price("33.10"), Quantity: 3, Status: StatusConfirmed},
		},
	}

	oa := ProcessOrder(order, SellerMap{}, DefaultConfig())
	require.Len(t, oa.Attributions, 1)
	sa := oa.Attributions[0]
	assert.Equal(t, "99.3", sa.GrossRevenue.String())
	// A lone seller carries the entire order shipping fee.
	assert.Equal(t, "17.45", sa.ShippingFeeShare.String())
}

func TestProcessOrdersMatchesSerial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4

	var orders []OrderSnapshot
	for i := 0; i < 50; i++ {
		o := twoSellerOrder()
		o.ID = fmt.Sprintf("ord-%d", i)
		orders = append(orders, o)
	}

	parallel, err := ProcessOrders(context.Background(), orders, SellerMap{}, cfg)
	require.NoError(t, err)
	require.Len(t, parallel, len(orders))

	for i, o := range orders {
		assert.Equal(t, ProcessOrder(o, SellerMap{}, cfg), parallel[i])
	}
}

func TestProcessOrdersRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orders := []OrderSnapshot{twoSellerOrder(), twoSellerOrder()}
	_, err := ProcessOrders(ctx, orders, SellerMap{}, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessOrdersEmptySet(t *testing.T) {
	results, err := ProcessOrders(context.Background(), nil, SellerMap{}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarizeSellers(t *testing.T) {
	orders := []OrderSnapshot{twoSellerOrder(), twoSellerOrder()}
	var results []OrderAttribution
	for _, o := range orders {
		results = append(results, ProcessOrder(o, SellerMap{}, DefaultConfig()))
	}

	summaries := SummarizeSellers(results)
	require.Len(t, summaries, 2)

	a := summaries[0]
	assert.Equal(t, "seller-a", a.SellerID)
	assert.Equal(t, "300", a.GrossRevenue.String())
	assert.Equal(t, "60", a.ShippingFeeShare.String())
	assert.Equal(t, "15", a.PlatformFee.String())
	assert.Equal(t, "285", a.NetRevenue.String())
	assert.Equal(t, 2, a.OrderCount)
	assert.Equal(t, 4, a.ItemCount)
	assert.Equal(t, StatusShipped, a.DominantStatus)
}

func TestFullPipelineIdempotence(t *testing.T) {
	orders := []OrderSnapshot{twoSellerOrder()}
	run := func() Report {
		results, err := ProcessOrders(context.Background(), orders, SellerMap{}, DefaultConfig())
		require.NoError(t, err)
		return AggregateOrders(GranularityDaily, results)
	}
	assert.Equal(t, run(), run())
}
