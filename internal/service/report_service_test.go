package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/attribution"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Stubs ---

type stubOrderRepo struct {
	orders []model.Order
	err    error
}

func (s *stubOrderRepo) Create(ctx context.Context, order *model.Order) error { return nil }
func (s *stubOrderRepo) CreateItem(ctx context.Context, item *model.LineItem) error {
	return nil
}
func (s *stubOrderRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			return &s.orders[i], nil
		}
	}
	return nil, errors.New("not found")
}
func (s *stubOrderRepo) ListForPeriod(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	return s.orders, s.err
}
func (s *stubOrderRepo) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	return s.orders, int64(len(s.orders)), s.err
}
func (s *stubOrderRepo) UpdateSellerItemStatus(ctx context.Context, orderID, sellerID uuid.UUID, status string) (int64, error) {
	return 0, s.err
}

type stubProductRepo struct {
	sellerMap map[string]string
	err       error
}

func (s *stubProductRepo) Create(ctx context.Context, product *model.Product) error { return nil }
func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return nil, errors.New("not found")
}
func (s *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) SellerMap(ctx context.Context) (map[string]string, error) {
	return s.sellerMap, s.err
}

// --- Fixtures ---

var (
	sellerA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sellerB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func storedOrder(t *testing.T) model.Order {
	t.Helper()
	a, b := sellerA, sellerB
	return model.Order{
		ID:                uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		OrderCode:         "ORD-TEST1",
		TotalAmount:       decimal.NewFromInt(240),
		ShippingFee:       json.RawMessage(`"40"`),
		DestinationRegion: "Ashanti",
		PlacedAt:          "2024-03-11T09:00:00Z",
		Items: []model.LineItem{
			{SellerID: &a, ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(75), Quantity: 2, Status: attribution.StatusShipped},
			{SellerID: &b, ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(25), Quantity: 2, Status: attribution.StatusPending},
		},
	}
}

func newReportService(orders *stubOrderRepo, products *stubProductRepo) ReportService {
	return NewReportService(orders, products, attribution.DefaultConfig(), 5*time.Second)
}

// --- Tests ---

func TestSellerSummariesFromStoredOrders(t *testing.T) {
	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{storedOrder(t)}},
		&stubProductRepo{sellerMap: map[string]string{}},
	)

	summaries, err := svc.SellerSummaries(context.Background(), ReportFilter{EndDate: time.Now()})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	a := summaries[0]
	assert.Equal(t, sellerA.String(), a.SellerID)
	assert.Equal(t, "150.00", a.GrossRevenue)
	assert.Equal(t, "30.00", a.ShippingFeeShare)
	assert.Equal(t, "7.50", a.PlatformFee)
	assert.Equal(t, "142.50", a.NetRevenue)
	assert.Equal(t, 1, a.OrderCount)
	assert.Equal(t, attribution.StatusShipped, a.DominantStatus)

	b := summaries[1]
	assert.Equal(t, "10.00", b.ShippingFeeShare)
	assert.Equal(t, "47.50", b.NetRevenue)
}

func TestSellerSummariesScopedToOneSeller(t *testing.T) {
	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{storedOrder(t)}},
		&stubProductRepo{sellerMap: map[string]string{}},
	)

	summaries, err := svc.SellerSummaries(context.Background(), ReportFilter{SellerID: sellerB.String()})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, sellerB.String(), summaries[0].SellerID)
}

func TestTimeSeriesFromStoredOrders(t *testing.T) {
	legacy := model.Order{
		ID:       uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002"),
		PlacedAt: "not a timestamp",
		CartItems: []model.CartItem{
			{ProductID: uuid.New(), Price: "30", Quantity: 1, Status: attribution.StatusDelivered},
		},
	}

	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{storedOrder(t), legacy}},
		&stubProductRepo{sellerMap: map[string]string{}},
	)

	report, err := svc.TimeSeries(context.Background(), attribution.GranularityWeekly, ReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, "weekly", report.Granularity)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, "2024-W11", report.Buckets[0].Key)
	assert.Equal(t, "200.00", report.Buckets[0].TotalRevenue)
	assert.Equal(t, 1, report.Buckets[0].OrderCount)
	// The legacy order's timestamp never parses; it is surfaced as a
	// diagnostic, not silently bucketed.
	assert.Equal(t, 1, report.ExcludedOrders)
}

func TestTimeSeriesBucketsByPlacedTimeNotRowTime(t *testing.T) {
	// Windowing selects orders by their stored row timestamp, but bucket keys
	// come from the order's own placed time. A backfilled order stored in
	// March yet placed in February lands in the February bucket.
	a := sellerA
	backfilled := model.Order{
		ID:        uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003"),
		PlacedAt:  "2024-02-05T10:00:00Z",
		CreatedAt: time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC),
		Items: []model.LineItem{
			{SellerID: &a, ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(60), Quantity: 1, Status: attribution.StatusDelivered},
		},
	}

	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{backfilled}},
		&stubProductRepo{sellerMap: map[string]string{}},
	)

	report, err := svc.TimeSeries(context.Background(), attribution.GranularityMonthly, ReportFilter{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, "2024-2", report.Buckets[0].Key)
	assert.Equal(t, 0, report.ExcludedOrders)
}

func TestStatusOverlayPerSeller(t *testing.T) {
	order := storedOrder(t)
	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{order}},
		&stubProductRepo{sellerMap: map[string]string{}},
	)

	entries, err := svc.StatusOverlay(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, attribution.StatusShipped, entries[0].DominantStatus)
	assert.Equal(t, attribution.StatusPending, entries[1].DominantStatus)
}

func TestSnapshotFailurePropagatesAsSnapshotUnavailable(t *testing.T) {
	svc := newReportService(
		&stubOrderRepo{err: errors.New("connection refused")},
		&stubProductRepo{},
	)

	_, err := svc.SellerSummaries(context.Background(), ReportFilter{})
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)

	_, err = svc.TimeSeries(context.Background(), attribution.GranularityDaily, ReportFilter{})
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}

func TestSellerMapFailurePropagatesAsSnapshotUnavailable(t *testing.T) {
	svc := newReportService(
		&stubOrderRepo{orders: []model.Order{storedOrder(t)}},
		&stubProductRepo{err: errors.New("connection refused")},
	)

	_, err := svc.SellerSummaries(context.Background(), ReportFilter{})
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}

func TestToSnapshotCarriesRawShapes(t *testing.T) {
	a := sellerA
	o := model.Order{
		ID:                 uuid.New(),
		ShippingFee:        json.RawMessage(`{"fee":"70","vendorName":"Accra Prints"}`),
		SellerShippingFees: json.RawMessage(`{"` + a.String() + `":"20"}`),
		PlacedAt:           "2024-03-11",
		Items: []model.LineItem{
			{SellerID: &a, ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(10), Quantity: 1},
		},
	}

	snap := toSnapshot(o)
	assert.Equal(t, "70", snap.ShippingFee.Amount().String())
	assert.Equal(t, "20", snap.SellerShippingFees[a.String()].Amount().String())
	assert.Equal(t, "2024-03-11", snap.CreatedAt)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, a.String(), snap.Items[0].SellerID)
}

func TestToSnapshotFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	snap := toSnapshot(model.Order{ID: uuid.New(), CreatedAt: created})
	parsed, ok := attribution.ParseOrderTime(snap.CreatedAt)
	require.True(t, ok)
	assert.True(t, parsed.Equal(created))
}
