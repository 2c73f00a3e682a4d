package repository

import (
	"context"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	SellerMap(ctx context.Context) (map[string]string, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SellerMap loads the product→seller ownership lookup the attribution engine
// uses for line items without an explicit seller reference.
func (r *productRepository) SellerMap(ctx context.Context) (map[string]string, error) {
	type pair struct {
		ID       uuid.UUID
		SellerID uuid.UUID
	}
	var pairs []pair
	if err := GetDB(ctx, r.db).
		Model(&model.Product{}).
		Select("id", "seller_id").
		Find(&pairs).Error; err != nil {
		return nil, err
	}

	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.ID.String()] = p.SellerID.String()
	}
	return m, nil
}
