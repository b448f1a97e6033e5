package ledger

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// LedgerRepository moves soul shards between nowhere and an account.
	// Debit and Credit must run inside the caller's transaction; both take
	// a SELECT ... FOR UPDATE on the balance row so two concurrent
	// purchases by the same account serialize instead of both reading a
	// stale balance.
	LedgerRepository interface {
		Debit(ctx context.Context, tx *gorm.DB, accountID uint32, amount int64) error
		Credit(ctx context.Context, tx *gorm.DB, accountID uint32, amount int64) error
		GetBalance(ctx context.Context, accountID uint32) (int64, error)
	}

	ledgerRepository struct {
		db *gorm.DB
	}
)

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

// Debit fails closed: no balance row or a balance below amount rolls the
// enclosing transaction back with ErrInsufficientBalance.
func (r *ledgerRepository) Debit(ctx context.Context, tx *gorm.DB, accountID uint32, amount int64) error {
	var balance entities.Balance
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInsufficientBalance
		}
		return err
	}

	if balance.Balance < amount {
		return domain.ErrInsufficientBalance
	}

	return tx.WithContext(ctx).
		Model(&entities.Balance{}).
		Where("account_id = ?", accountID).
		Update("balance", gorm.Expr("balance - ?", amount)).Error
}

// Credit creates the balance row lazily on first credit.
func (r *ledgerRepository) Credit(ctx context.Context, tx *gorm.DB, accountID uint32, amount int64) error {
	var balance entities.Balance
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.WithContext(ctx).Create(&entities.Balance{
			AccountID: accountID,
			Balance:   amount,
		}).Error
	}
	if err != nil {
		return err
	}

	return tx.WithContext(ctx).
		Model(&entities.Balance{}).
		Where("account_id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

func (r *ledgerRepository) GetBalance(ctx context.Context, accountID uint32) (int64, error) {
	var balance entities.Balance
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.Balance, nil
}
