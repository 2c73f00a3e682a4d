package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/attribution"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/repository"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	BuyerID           string                `json:"buyer_id"`
	DestinationRegion string                `json:"destination_region" binding:"required"`
	DestinationCity   string                `json:"destination_city"`
	Items             []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Interface ---

type OrderService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error)
	List(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	UpdateSellerStatus(ctx context.Context, orderID, sellerID uuid.UUID, status string) (StatusOverlayEntry, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	cfg         attribution.Config
	hub         *websocket.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	cfg attribution.Config,
	hub *websocket.Hub,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		cfg:         cfg,
		hub:         hub,
	}
}

// --- Implementation ---

// Checkout creates an order in the modern shape: per-seller line items, a
// numeric shipping-fee column and a per-seller fee map quoted from the
// destination defaults. Legacy shapes only ever enter through old data.
func (s *orderService) Checkout(ctx context.Context, req CheckoutRequest) (*model.Order, error) {
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id %q: %w", it.ProductID, err)
		}
		productIDs = append(productIDs, id)
	}

	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	subtotal := decimal.Zero
	sellerSeen := map[uuid.UUID]bool{}
	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		id, _ := uuid.Parse(it.ProductID)
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("product %s not found", it.ProductID)
		}
		sellerID := product.SellerID
		items = append(items, model.LineItem{
			SellerID:  &sellerID,
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  it.Quantity,
			Status:    attribution.StatusPending,
		})
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		sellerSeen[sellerID] = true
	}

	// One destination-default quote per seller present in the order.
	perSellerFee := s.cfg.DefaultShippingFee
	if strings.EqualFold(strings.TrimSpace(req.DestinationRegion), s.cfg.LocalRegion) {
		perSellerFee = s.cfg.LocalShippingFee
	}
	sellerFees := make(map[string]decimal.Decimal, len(sellerSeen))
	totalShipping := decimal.Zero
	for sellerID := range sellerSeen {
		sellerFees[sellerID.String()] = perSellerFee
		totalShipping = totalShipping.Add(perSellerFee)
	}

	shippingRaw, err := json.Marshal(totalShipping)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping fee: %w", err)
	}
	sellerFeesRaw, err := json.Marshal(sellerFees)
	if err != nil {
		return nil, fmt.Errorf("failed to encode seller shipping fees: %w", err)
	}

	order := &model.Order{
		OrderCode:          "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		TotalAmount:        subtotal.Add(totalShipping),
		ShippingFee:        shippingRaw,
		SellerShippingFees: sellerFeesRaw,
		DestinationRegion:  req.DestinationRegion,
		DestinationCity:    req.DestinationCity,
		PlacedAt:           time.Now().UTC().Format(time.RFC3339),
	}
	if req.BuyerID != "" {
		buyerID, parseErr := uuid.Parse(req.BuyerID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid buyer_id: %w", parseErr)
		}
		order.BuyerID = &buyerID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if txErr := s.orderRepo.Create(txCtx, order); txErr != nil {
			return fmt.Errorf("failed to create order: %w", txErr)
		}
		for i := range items {
			items[i].OrderID = order.ID
			if txErr := s.orderRepo.CreateItem(txCtx, &items[i]); txErr != nil {
				return fmt.Errorf("failed to create order item: %w", txErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func (s *orderService) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	return s.orderRepo.List(ctx, page, limit)
}

// UpdateSellerStatus writes a new fulfillment status onto one seller's items
// of an order and nothing else. Other sellers' items, and therefore their
// displayed dominant statuses, are untouched by design of the reconciler.
func (s *orderService) UpdateSellerStatus(ctx context.Context, orderID, sellerID uuid.UUID, status string) (StatusOverlayEntry, error) {
	if !attribution.ValidStatus(status) {
		return StatusOverlayEntry{}, fmt.Errorf("unknown fulfillment status %q", status)
	}

	rows, err := s.orderRepo.UpdateSellerItemStatus(ctx, orderID, sellerID, status)
	if err != nil {
		return StatusOverlayEntry{}, fmt.Errorf("failed to update item status: %w", err)
	}
	if rows == 0 {
		return StatusOverlayEntry{}, fmt.Errorf("order %s has no items for seller %s", orderID, sellerID)
	}

	// Re-derive the seller's dominant status from its items only.
	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return StatusOverlayEntry{}, fmt.Errorf("failed to reload order: %w", err)
	}
	var statuses []string
	for _, it := range order.Items {
		if it.SellerID != nil && *it.SellerID == sellerID {
			statuses = append(statuses, it.Status)
		}
	}

	entry := StatusOverlayEntry{
		OrderID:        orderID.String(),
		SellerID:       sellerID.String(),
		DominantStatus: attribution.DominantStatus(statuses),
	}
	if s.hub != nil {
		s.hub.PublishStatus(websocket.StatusEvent{
			OrderID:        entry.OrderID,
			SellerID:       entry.SellerID,
			DominantStatus: entry.DominantStatus,
		})
	}
	return entry, nil
}
