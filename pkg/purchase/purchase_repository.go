package purchase

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"ShardStore/pkg/ledger"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PurchaseRepository interface {
		CreateWithDebit(ctx context.Context, purchase *entities.Purchase) error
		GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PurchaseStatus) error
		ClaimPendingDelivery(ctx context.Context, id uuid.UUID) (bool, error)
		Refund(ctx context.Context, id uuid.UUID, refundedBy *string) (*entities.Purchase, error)
		ListByAccount(ctx context.Context, accountID uint32, page, limit int) ([]*entities.Purchase, int64, error)
		ListPendingDelivery(ctx context.Context, page, limit int) ([]*entities.Purchase, int64, error)
	}

	purchaseRepository struct {
		db     *gorm.DB
		ledger ledger.LedgerRepository
	}
)

func NewPurchaseRepository(db *gorm.DB, ledgerRepository ledger.LedgerRepository) PurchaseRepository {
	return &purchaseRepository{
		db:     db,
		ledger: ledgerRepository,
	}
}

// CreateWithDebit is the transactional core of a purchase: debit the shard
// balance and insert the purchase row, both or neither. A failed debit rolls
// everything back and no record exists afterwards.
func (r *purchaseRepository) CreateWithDebit(ctx context.Context, purchase *entities.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ledger.Debit(ctx, tx, purchase.AccountID, purchase.PricePaid); err != nil {
			return err
		}
		return tx.Create(purchase).Error
	})
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	var purchase entities.Purchase
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PurchaseStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ClaimPendingDelivery flips a purchase from pending_delivery to completed
// only if it is still pending, and reports whether this caller won the flip.
// Two concurrent retries serialize on the conditional update: exactly one
// sees an affected row and proceeds to dispatch.
func (r *purchaseRepository) ClaimPendingDelivery(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("id = ? AND status = ?", id, entities.PurchaseStatusPendingDelivery).
		Update("status", entities.PurchaseStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Refund is the transactional core of a refund: lock the purchase row,
// re-verify it is still completed (two concurrent refunds serialize here and
// the loser sees the flipped status), credit price_paid back and mark the
// row refunded.
func (r *purchaseRepository) Refund(ctx context.Context, id uuid.UUID, refundedBy *string) (*entities.Purchase, error) {
	var purchase entities.Purchase
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPurchaseNotFound
			}
			return err
		}

		if !purchase.Status.IsRefundable() {
			return domain.ErrPurchaseNotRefundable
		}

		if err := r.ledger.Credit(ctx, tx, purchase.AccountID, purchase.PricePaid); err != nil {
			return err
		}

		now := time.Now()
		purchase.Status = entities.PurchaseStatusRefunded
		purchase.RefundedAt = &now
		purchase.RefundedBy = refundedBy

		return tx.
			Model(&entities.Purchase{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":      entities.PurchaseStatusRefunded,
				"refunded_at": now,
				"refunded_by": refundedBy,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) ListByAccount(ctx context.Context, accountID uint32, page, limit int) ([]*entities.Purchase, int64, error) {
	var purchases []*entities.Purchase
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Purchase{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}

func (r *purchaseRepository) ListPendingDelivery(ctx context.Context, page, limit int) ([]*entities.Purchase, int64, error) {
	var purchases []*entities.Purchase
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).
		Where("status = ?", entities.PurchaseStatusPendingDelivery)

	if err := query.Model(&entities.Purchase{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}
