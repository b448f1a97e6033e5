package catalog

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	CatalogRepository interface {
		GetItemByID(ctx context.Context, id string) (*entities.ShopItem, error)
		GetSetByID(ctx context.Context, id string) (*entities.ShopSet, error)
		GetSetPieces(ctx context.Context, setID uuid.UUID) ([]*entities.ShopSetPiece, error)
		ListActiveItems(ctx context.Context, category string, page, limit int) ([]*entities.ShopItem, int64, error)
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

// GetItemByID does not filter on is_active; callers that require an active
// entry (the purchase path) check IsActive themselves, while the refund path
// must still resolve entries deactivated after the sale.
func (r *catalogRepository) GetItemByID(ctx context.Context, id string) (*entities.ShopItem, error) {
	var item entities.ShopItem
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) GetSetByID(ctx context.Context, id string) (*entities.ShopSet, error) {
	var set entities.ShopSet
	if err := r.db.WithContext(ctx).
		Preload("Pieces").
		Where("id = ?", id).
		First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

// GetSetPieces does not filter on is_active: delivery retries for a set that
// was deactivated after purchase still need its piece list.
func (r *catalogRepository) GetSetPieces(ctx context.Context, setID uuid.UUID) ([]*entities.ShopSetPiece, error) {
	var pieces []*entities.ShopSetPiece
	if err := r.db.WithContext(ctx).
		Where("set_id = ?", setID).
		Find(&pieces).Error; err != nil {
		return nil, err
	}
	return pieces, nil
}

func (r *catalogRepository) ListActiveItems(ctx context.Context, category string, page, limit int) ([]*entities.ShopItem, int64, error) {
	var items []*entities.ShopItem
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Model(&entities.ShopItem{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}
