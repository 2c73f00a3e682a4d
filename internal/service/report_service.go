package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/attribution"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSnapshotUnavailable marks the one failure class that propagates to the
// caller: the order snapshot itself could not be obtained. Everything else
// (bad fees, missing sellers, odd timestamps) is recovered inside the engine.
var ErrSnapshotUnavailable = errors.New("order snapshot unavailable")

// --- DTOs ---

type ReportFilter struct {
	StartDate time.Time
	EndDate   time.Time
	SellerID  string // optional: restrict summaries to one seller
}

type SellerSummaryResponse struct {
	SellerID         string `json:"seller_id"`
	GrossRevenue     string `json:"gross_revenue"`
	ShippingFeeShare string `json:"shipping_fee_share"`
	PlatformFee      string `json:"platform_fee"`
	NetRevenue       string `json:"net_revenue"`
	OrderCount       int    `json:"order_count"`
	ItemCount        int    `json:"item_count"`
	DominantStatus   string `json:"dominant_status"`
}

type BucketResponse struct {
	Key               string `json:"key"`
	Label             string `json:"label"`
	TotalRevenue      string `json:"total_revenue"`
	TotalPlatformFees string `json:"total_platform_fees"`
	TotalNetRevenue   string `json:"total_net_revenue"`
	TotalShippingFees string `json:"total_shipping_fees"`
	OrderCount        int    `json:"order_count"`
}

type TimeSeriesResponse struct {
	Granularity    string           `json:"granularity"`
	Buckets        []BucketResponse `json:"buckets"`
	ExcludedOrders int              `json:"excluded_orders"`
}

// StatusOverlayEntry lets each seller's dashboard show its own dominant
// status for a shared order.
type StatusOverlayEntry struct {
	OrderID        string `json:"order_id"`
	SellerID       string `json:"seller_id"`
	DominantStatus string `json:"dominant_status"`
}

// --- Interface ---

type ReportService interface {
	SellerSummaries(ctx context.Context, filter ReportFilter) ([]SellerSummaryResponse, error)
	TimeSeries(ctx context.Context, granularity attribution.Granularity, filter ReportFilter) (TimeSeriesResponse, error)
	StatusOverlay(ctx context.Context, orderID uuid.UUID) ([]StatusOverlayEntry, error)
}

type reportService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cfg         attribution.Config
	timeout     time.Duration
}

func NewReportService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cfg attribution.Config, timeout time.Duration) ReportService {
	return &reportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cfg:         cfg,
		timeout:     timeout,
	}
}

// --- Implementation ---

func (s *reportService) SellerSummaries(ctx context.Context, filter ReportFilter) ([]SellerSummaryResponse, error) {
	results, err := s.attribute(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := attribution.SummarizeSellers(results)
	out := make([]SellerSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		if filter.SellerID != "" && sum.SellerID != filter.SellerID {
			continue
		}
		out = append(out, SellerSummaryResponse{
			SellerID:         sum.SellerID,
			GrossRevenue:     sum.GrossRevenue.StringFixed(2),
			ShippingFeeShare: sum.ShippingFeeShare.StringFixed(2),
			PlatformFee:      sum.PlatformFee.StringFixed(2),
			NetRevenue:       sum.NetRevenue.StringFixed(2),
			OrderCount:       sum.OrderCount,
			ItemCount:        sum.ItemCount,
			DominantStatus:   sum.DominantStatus,
		})
	}
	return out, nil
}

func (s *reportService) TimeSeries(ctx context.Context, granularity attribution.Granularity, filter ReportFilter) (TimeSeriesResponse, error) {
	results, err := s.attribute(ctx, filter)
	if err != nil {
		return TimeSeriesResponse{}, err
	}

	report := attribution.AggregateOrders(granularity, results)
	buckets := make([]BucketResponse, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		buckets = append(buckets, BucketResponse{
			Key:               b.Key,
			Label:             b.Label,
			TotalRevenue:      b.TotalRevenue.StringFixed(2),
			TotalPlatformFees: b.TotalPlatformFees.StringFixed(2),
			TotalNetRevenue:   b.TotalNetRevenue.StringFixed(2),
			TotalShippingFees: b.TotalShippingFees.StringFixed(2),
			OrderCount:        b.OrderCount,
		})
	}
	if report.ExcludedOrders > 0 {
		log.Printf("reports: %d orders excluded from %s aggregation (unparseable timestamps)", report.ExcludedOrders, granularity)
	}
	return TimeSeriesResponse{
		Granularity:    string(report.Granularity),
		Buckets:        buckets,
		ExcludedOrders: report.ExcludedOrders,
	}, nil
}

func (s *reportService) StatusOverlay(ctx context.Context, orderID uuid.UUID) ([]StatusOverlayEntry, error) {
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	resolver, err := s.sellerResolver(ctx)
	if err != nil {
		return nil, err
	}

	oa := attribution.ProcessOrder(toSnapshot(*order), resolver, s.cfg)
	entries := make([]StatusOverlayEntry, 0, len(oa.Attributions))
	for _, sa := range oa.Attributions {
		entries = append(entries, StatusOverlayEntry{
			OrderID:        oa.OrderID,
			SellerID:       sa.SellerID,
			DominantStatus: sa.DominantStatus,
		})
	}
	return entries, nil
}

// attribute fetches the snapshot for the filter window and runs the full
// pipeline over it, bounded by the request timeout.
func (s *reportService) attribute(ctx context.Context, filter ReportFilter) ([]attribution.OrderAttribution, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, err := s.orderRepo.ListForPeriod(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	resolver, err := s.sellerResolver(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]attribution.OrderSnapshot, len(orders))
	for i, o := range orders {
		snapshots[i] = toSnapshot(o)
	}

	results, err := attribution.ProcessOrders(ctx, snapshots, resolver, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("attribution aborted: %w", err)
	}

	rejected := 0
	for _, r := range results {
		rejected += len(r.Diagnostics)
	}
	if rejected > 0 {
		log.Printf("reports: rejected %d malformed line items during attribution", rejected)
	}
	return results, nil
}

func (s *reportService) sellerResolver(ctx context.Context) (attribution.SellerMap, error) {
	m, err := s.productRepo.SellerMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	return attribution.SellerMap(m), nil
}

// toSnapshot converts a stored order into the engine's read-only input. The
// raw fee columns pass through untouched; normalization is the engine's job.
func toSnapshot(o model.Order) attribution.OrderSnapshot {
	createdAt := o.PlacedAt
	if createdAt == "" {
		createdAt = o.CreatedAt.Format(time.RFC3339)
	}

	var shippingFee attribution.FeeValue
	if len(o.ShippingFee) > 0 {
		// Never fails: malformed fee columns normalize to zero.
		_ = shippingFee.UnmarshalJSON(o.ShippingFee)
	}

	snap := attribution.OrderSnapshot{
		ID:                 o.ID.String(),
		CreatedAt:          createdAt,
		TotalAmount:        o.TotalAmount,
		ShippingFee:        shippingFee,
		SellerShippingFees: attribution.NormalizeFeeMap(o.SellerShippingFees),
		Destination: attribution.Destination{
			Region: o.DestinationRegion,
			City:   o.DestinationCity,
		},
	}

	for _, it := range o.Items {
		sellerID := ""
		if it.SellerID != nil {
			sellerID = it.SellerID.String()
		}
		snap.Items = append(snap.Items, attribution.ItemSnapshot{
			SellerID:  sellerID,
			ProductID: it.ProductID.String(),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Status:    it.Status,
		})
	}
	for _, it := range o.CartItems {
		snap.CartItems = append(snap.CartItems, attribution.CartItemSnapshot{
			ProductID: it.ProductID.String(),
			Price:     it.Price,
			Quantity:  it.Quantity,
			Status:    it.Status,
		})
	}
	return snap
}
