package character

import (
	"ShardStore/entities"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type (
	// CharacterRepository reads the game server's character and account
	// tables. It never writes; the game server owns these rows.
	CharacterRepository interface {
		GetByGUID(ctx context.Context, guid uint32) (*entities.Character, error)
		GetByExactName(ctx context.Context, name string) (*entities.Character, error)
		GetByAccount(ctx context.Context, accountID uint32) ([]*entities.Character, error)
		IsAccountBanned(ctx context.Context, accountID uint32) (bool, error)
		GetAccountEmail(ctx context.Context, accountID uint32) (string, error)
	}

	characterRepository struct {
		db *gorm.DB
	}
)

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{
		db: db,
	}
}

func (r *characterRepository) GetByGUID(ctx context.Context, guid uint32) (*entities.Character, error) {
	var char entities.Character
	if err := r.db.WithContext(ctx).
		Where("guid = ?", guid).
		First(&char).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &char, nil
}

func (r *characterRepository) GetByExactName(ctx context.Context, name string) (*entities.Character, error) {
	var char entities.Character
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&char).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &char, nil
}

func (r *characterRepository) GetByAccount(ctx context.Context, accountID uint32) ([]*entities.Character, error) {
	var chars []*entities.Character
	if err := r.db.WithContext(ctx).
		Where("account = ?", accountID).
		Order("guid ASC").
		Find(&chars).Error; err != nil {
		return nil, err
	}
	return chars, nil
}

// IsAccountBanned reports an active ban. Permanent bans store
// unbandate = bandate; timed bans are active until unbandate passes.
func (r *characterRepository) IsAccountBanned(ctx context.Context, accountID uint32) (bool, error) {
	var count int64
	now := time.Now().Unix()
	if err := r.db.WithContext(ctx).
		Model(&entities.AccountBanned{}).
		Where("id = ? AND active = 1 AND (unbandate = bandate OR unbandate > ?)", accountID, now).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *characterRepository) GetAccountEmail(ctx context.Context, accountID uint32) (string, error) {
	var account entities.Account
	if err := r.db.WithContext(ctx).
		Where("id = ?", accountID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return account.Email, nil
}
