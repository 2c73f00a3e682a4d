package attribution

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the calendar period a report is bucketed by.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// ParseGranularity validates a request parameter.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// TimeBucket accumulates attributed amounts for one calendar period. Buckets
// of a given granularity partition the order set: every datable order
// contributes to exactly one.
type TimeBucket struct {
	Key               string          `json:"key"`
	Label             string          `json:"label"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalPlatformFees decimal.Decimal `json:"total_platform_fees"`
	TotalNetRevenue   decimal.Decimal `json:"total_net_revenue"`
	TotalShippingFees decimal.Decimal `json:"total_shipping_fees"`
	OrderCount        int             `json:"order_count"`

	start time.Time
}

// Report is a finished time-series rollup, buckets sorted by date descending.
type Report struct {
	Granularity    Granularity
	Buckets        []TimeBucket
	ExcludedOrders int
}

// bucketKey derives the aggregation key, display label and canonical period
// start for a timestamp. Weekly keys use the ISO 8601 week (Thursday-anchored)
// of the order's creation time.
func bucketKey(t time.Time, g Granularity) (key, label string, start time.Time) {
	switch g {
	case GranularityWeekly:
		year, week := t.ISOWeek()
		key = fmt.Sprintf("%d-W%d", year, week)
		label = fmt.Sprintf("Week %d, %d", week, year)
		// Walk back to the Monday of the ISO week.
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		for start.Weekday() != time.Monday {
			start = start.AddDate(0, 0, -1)
		}
	case GranularityMonthly:
		key = fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
		label = t.Format("January 2006")
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case GranularityYearly:
		key = strconv.Itoa(t.Year())
		label = key
		start = time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default: // daily
		key = t.Format("2006-01-02")
		label = t.Format("Jan 2, 2006")
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return key, label, start
}

// Aggregator folds per-order attributions into keyed buckets. It is a plain
// value holder, not shared state: build one per report request (or one per
// worker and Merge the partials — bucket totals are commutative sums).
type Aggregator struct {
	granularity Granularity
	buckets     map[string]*TimeBucket
	excluded    int
}

func NewAggregator(g Granularity) *Aggregator {
	return &Aggregator{granularity: g, buckets: map[string]*TimeBucket{}}
}

// Add folds one fully-attributed order into its bucket. Orders whose
// creation timestamp could not be parsed are counted as excluded instead of
// being assigned a default period.
func (a *Aggregator) Add(oa OrderAttribution) {
	if !oa.TimeValid {
		a.excluded++
		return
	}
	key, label, start := bucketKey(oa.CreatedAt, a.granularity)
	b, ok := a.buckets[key]
	if !ok {
		b = &TimeBucket{
			Key:               key,
			Label:             label,
			TotalRevenue:      decimal.Zero,
			TotalPlatformFees: decimal.Zero,
			TotalNetRevenue:   decimal.Zero,
			TotalShippingFees: decimal.Zero,
			start:             start,
		}
		a.buckets[key] = b
	}
	for _, sa := range oa.Attributions {
		b.TotalRevenue = b.TotalRevenue.Add(sa.GrossRevenue)
		b.TotalPlatformFees = b.TotalPlatformFees.Add(sa.PlatformFee)
		b.TotalNetRevenue = b.TotalNetRevenue.Add(sa.NetRevenue)
		b.TotalShippingFees = b.TotalShippingFees.Add(sa.ShippingFeeShare)
	}
	b.OrderCount++
}

// Merge combines another aggregator's partial buckets into this one. Both
// must share a granularity. Merge is associative, so partial aggregation
// over order subsets is safe.
func (a *Aggregator) Merge(other *Aggregator) {
	a.excluded += other.excluded
	for key, ob := range other.buckets {
		b, ok := a.buckets[key]
		if !ok {
			clone := *ob
			a.buckets[key] = &clone
			continue
		}
		b.TotalRevenue = b.TotalRevenue.Add(ob.TotalRevenue)
		b.TotalPlatformFees = b.TotalPlatformFees.Add(ob.TotalPlatformFees)
		b.TotalNetRevenue = b.TotalNetRevenue.Add(ob.TotalNetRevenue)
		b.TotalShippingFees = b.TotalShippingFees.Add(ob.TotalShippingFees)
		b.OrderCount += ob.OrderCount
	}
}

// Result materializes the rollup, buckets sorted by period start descending.
func (a *Aggregator) Result() Report {
	buckets := make([]TimeBucket, 0, len(a.buckets))
	for _, b := range a.buckets {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].start.After(buckets[j].start) })
	return Report{Granularity: a.granularity, Buckets: buckets, ExcludedOrders: a.excluded}
}

// AggregateOrders is the whole-set fold: every attributed order into one
// rollup of the requested granularity.
func AggregateOrders(g Granularity, orders []OrderAttribution) Report {
	agg := NewAggregator(g)
	for _, oa := range orders {
		agg.Add(oa)
	}
	return agg.Result()
}
