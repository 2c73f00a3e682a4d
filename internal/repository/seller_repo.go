package repository

import (
	"context"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	FindByEmail(ctx context.Context, email string) (*model.Seller, error)
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	return GetDB(ctx, r.db).Create(seller).Error
}

func (r *sellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	var seller model.Seller
	if err := GetDB(ctx, r.db).First(&seller, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) FindByEmail(ctx context.Context, email string) (*model.Seller, error) {
	var seller model.Seller
	if err := GetDB(ctx, r.db).First(&seller, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}
