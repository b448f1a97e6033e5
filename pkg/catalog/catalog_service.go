package catalog

import (
	"ShardStore/domain"
	"ShardStore/pkg/ledger"
	"context"
)

type (
	// CatalogService backs the storefront's read-only surface: the active
	// item listing and the caller's shard balance.
	CatalogService interface {
		ListItems(ctx context.Context, category string, page, limit int) ([]*domain.StoreItem, int64, error)
		GetBalance(ctx context.Context, accountID uint32) (*domain.AccountBalance, error)
	}

	catalogService struct {
		catalogRepository CatalogRepository
		ledgerRepository  ledger.LedgerRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository, ledgerRepository ledger.LedgerRepository) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
		ledgerRepository:  ledgerRepository,
	}
}

func (s *catalogService) ListItems(ctx context.Context, category string, page, limit int) ([]*domain.StoreItem, int64, error) {
	items, count, err := s.catalogRepository.ListActiveItems(ctx, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.StoreItem, 0, len(items))
	for _, item := range items {
		result = append(result, &domain.StoreItem{
			ID:              item.ID.String(),
			Name:            item.Name,
			Category:        item.Category,
			Price:           item.Price,
			DiscountPercent: item.DiscountPercent,
			DiscountedPrice: domain.DiscountedPrice(item.Price, item.DiscountPercent),
			MinLevel:        item.MinLevel,
			Refundable:      item.Refundable && item.ServiceType == "",
		})
	}

	return result, count, nil
}

func (s *catalogService) GetBalance(ctx context.Context, accountID uint32) (*domain.AccountBalance, error) {
	balance, err := s.ledgerRepository.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID: accountID,
		Balance:   balance,
	}, nil
}
