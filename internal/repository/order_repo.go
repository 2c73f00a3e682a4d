package repository

import (
	"context"
	"time"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItem(ctx context.Context, item *model.LineItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListForPeriod(ctx context.Context, start, end time.Time) ([]model.Order, error)
	List(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	UpdateSellerItemStatus(ctx context.Context, orderID, sellerID uuid.UUID, status string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.LineItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("CartItems").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForPeriod fetches the order snapshot for a report window, including
// both line-item collections so pre-migration orders attribute too.
//
// The window filters on created_at, the only trustworthy typed timestamp:
// placed_at is legacy text that may not parse at all, so it cannot drive a
// SQL range. Bucket keys downstream still follow placed_at, which means a
// legacy order whose placed_at disagrees with its row timestamp is windowed
// by when it was stored, not by when it claims it was placed.
func (r *orderRepository) ListForPeriod(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("CartItems").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateSellerItemStatus updates only the given seller's line items on an
// order, leaving every other seller's items alone. Returns how many rows
// changed so the caller can tell an unknown seller from a no-op.
func (r *orderRepository) UpdateSellerItemStatus(ctx context.Context, orderID, sellerID uuid.UUID, status string) (int64, error) {
	res := GetDB(ctx, r.db).
		Model(&model.LineItem{}).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		Update("status", status)
	return res.RowsAffected, res.Error
}
