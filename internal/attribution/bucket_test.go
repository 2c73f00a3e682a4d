package attribution

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attributedOrder(id, createdAt string, gross, shipping string) OrderAttribution {
	t, ok := ParseOrderTime(createdAt)
	g := price(gross)
	fee := g.Mul(decimal.NewFromFloat(0.05)).Round(2)
	return OrderAttribution{
		OrderID:   id,
		CreatedAt: t,
		TimeValid: ok,
		Attributions: []SellerAttribution{{
			SellerID:         "seller-a",
			GrossRevenue:     g,
			ShippingFeeShare: price(shipping),
			PlatformFee:      fee,
			NetRevenue:       g.Sub(fee),
			ItemCount:        1,
			DominantStatus:   StatusPending,
		}},
	}
}

func TestAggregateWeeklySameISOWeek(t *testing.T) {
	// Monday and Thursday of ISO week 11, 2024.
	orders := []OrderAttribution{
		attributedOrder("o1", "2024-03-11T09:00:00Z", "100", "10"),
		attributedOrder("o2", "2024-03-14T18:30:00Z", "50", "5"),
	}

	report := AggregateOrders(GranularityWeekly, orders)
	require.Len(t, report.Buckets, 1)

	b := report.Buckets[0]
	assert.Equal(t, "2024-W11", b.Key)
	assert.Equal(t, "Week 11, 2024", b.Label)
	assert.Equal(t, 2, b.OrderCount)
	assert.Equal(t, "150", b.TotalRevenue.String())
	assert.Equal(t, "15", b.TotalShippingFees.String())
	assert.Equal(t, "7.5", b.TotalPlatformFees.String())
	assert.Equal(t, "142.5", b.TotalNetRevenue.String())
}

func TestAggregateKeysPerGranularity(t *testing.T) {
	orders := []OrderAttribution{attributedOrder("o1", "2024-03-11T09:00:00Z", "100", "10")}

	daily := AggregateOrders(GranularityDaily, orders)
	require.Len(t, daily.Buckets, 1)
	assert.Equal(t, "2024-03-11", daily.Buckets[0].Key)
	assert.Equal(t, "Mar 11, 2024", daily.Buckets[0].Label)

	monthly := AggregateOrders(GranularityMonthly, orders)
	require.Len(t, monthly.Buckets, 1)
	assert.Equal(t, "2024-3", monthly.Buckets[0].Key)
	assert.Equal(t, "March 2024", monthly.Buckets[0].Label)

	yearly := AggregateOrders(GranularityYearly, orders)
	require.Len(t, yearly.Buckets, 1)
	assert.Equal(t, "2024", yearly.Buckets[0].Key)
}

func TestAggregateSortsDescending(t *testing.T) {
	orders := []OrderAttribution{
		attributedOrder("o1", "2024-01-05T00:00:00Z", "10", "1"),
		attributedOrder("o2", "2024-03-11T00:00:00Z", "10", "1"),
		attributedOrder("o3", "2024-02-20T00:00:00Z", "10", "1"),
	}

	report := AggregateOrders(GranularityMonthly, orders)
	require.Len(t, report.Buckets, 3)
	assert.Equal(t, "2024-3", report.Buckets[0].Key)
	assert.Equal(t, "2024-2", report.Buckets[1].Key)
	assert.Equal(t, "2024-1", report.Buckets[2].Key)
}

func TestAggregateExcludesUndatableOrders(t *testing.T) {
	orders := []OrderAttribution{
		attributedOrder("o1", "2024-03-11T09:00:00Z", "100", "10"),
		attributedOrder("o2", "last tuesday", "50", "5"),
	}

	report := AggregateOrders(GranularityDaily, orders)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, 1, report.Buckets[0].OrderCount)
	assert.Equal(t, 1, report.ExcludedOrders)
}

func TestAggregatorMergeMatchesSerialFold(t *testing.T) {
	orders := []OrderAttribution{
		attributedOrder("o1", "2024-03-11T09:00:00Z", "100", "10"),
		attributedOrder("o2", "2024-03-14T18:30:00Z", "50", "5"),
		attributedOrder("o3", "2024-04-02T12:00:00Z", "75", "8"),
		attributedOrder("o4", "not-a-date", "10", "0"),
	}

	serial := AggregateOrders(GranularityWeekly, orders)

	left := NewAggregator(GranularityWeekly)
	right := NewAggregator(GranularityWeekly)
	left.Add(orders[0])
	left.Add(orders[3])
	right.Add(orders[1])
	right.Add(orders[2])
	left.Merge(right)
	merged := left.Result()

	assert.Equal(t, serial, merged)
}

func TestAggregateIdempotent(t *testing.T) {
	orders := []OrderAttribution{
		attributedOrder("o1", "2024-03-11T09:00:00Z", "100.25", "10"),
		attributedOrder("o2", "2024-03-14T18:30:00Z", "49.75", "5"),
	}

	first := AggregateOrders(GranularityWeekly, orders)
	second := AggregateOrders(GranularityWeekly, orders)
	assert.Equal(t, first, second)
}

func TestParseOrderTimeLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-03-11T09:00:00Z",
		"2024-03-11T09:00:00.123Z",
		"2024-03-11 09:00:00",
		"2024-03-11",
	} {
		parsed, ok := ParseOrderTime(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.March, parsed.Month())
	}

	_, ok := ParseOrderTime("")
	assert.False(t, ok)
	_, ok = ParseOrderTime("11/03/2024")
	assert.False(t, ok)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("weekly")
	require.NoError(t, err)
	assert.Equal(t, GranularityWeekly, g)

	_, err = ParseGranularity("hourly")
	assert.Error(t, err)
}
