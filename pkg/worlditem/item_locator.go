package worlditem

import (
	"ShardStore/entities"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type LocationKind string

const (
	LocationMail      LocationKind = "mail"
	LocationInventory LocationKind = "inventory"
)

// persistentMailExtension is how far delivery mail expiry gets pushed so the
// game server's mail housekeeping cannot destroy a shop item before the
// refund window closes.
const persistentMailExtension = 365 * 24 * time.Hour

// ItemLocation is a point-in-time fact about where a delivered item sits.
// MailID is zero for inventory locations.
type ItemLocation struct {
	Kind         LocationKind
	MailID       uint32
	ItemGUID     uint32
	ItemTemplate uint32
}

type (
	// ItemLocator finds and removes delivered items inside the game
	// world's mail and inventory tables. These tables are shared with the
	// live game server process, which is why callers must ensure the
	// owning character is offline before Remove.
	ItemLocator interface {
		FindItemLocation(ctx context.Context, characterGUID, itemTemplateID uint32) (*ItemLocation, error)
		Remove(ctx context.Context, location *ItemLocation) error
		MarkMailPersistent(ctx context.Context, receiverGUID uint32, subject string) error
	}

	itemLocator struct {
		db *gorm.DB
	}
)

func NewItemLocator(db *gorm.DB) ItemLocator {
	return &itemLocator{
		db: db,
	}
}

// FindItemLocation checks unclaimed mail first because delivered purchases
// arrive by mail and usually have not been collected yet, then falls back to
// the character's inventory. Returns nil when the item is nowhere to be
// found. Only the first match is reported.
func (l *itemLocator) FindItemLocation(ctx context.Context, characterGUID, itemTemplateID uint32) (*ItemLocation, error) {
	var mailItem entities.MailItem
	err := l.db.WithContext(ctx).
		Where("receiver = ? AND item_template = ?", characterGUID, itemTemplateID).
		Order("mail_id DESC").
		First(&mailItem).Error
	if err == nil {
		return &ItemLocation{
			Kind:         LocationMail,
			MailID:       mailItem.MailID,
			ItemGUID:     mailItem.ItemGUID,
			ItemTemplate: mailItem.ItemTemplate,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var slot entities.CharacterInventory
	err = l.db.WithContext(ctx).
		Where("guid = ? AND item_template = ?", characterGUID, itemTemplateID).
		First(&slot).Error
	if err == nil {
		return &ItemLocation{
			Kind:         LocationInventory,
			ItemGUID:     slot.Item,
			ItemTemplate: slot.ItemTemplate,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, nil
}

// Remove deletes the item instance and its link from mail or inventory. A
// mail message is deleted only once it carries no other items. Callers treat
// failures here as best-effort cleanup: the refund's currency side has
// already committed by the time Remove runs.
func (l *itemLocator) Remove(ctx context.Context, location *ItemLocation) error {
	if location == nil {
		return nil
	}
	switch location.Kind {
	case LocationMail:
		return l.removeFromMail(ctx, location)
	case LocationInventory:
		return l.removeFromInventory(ctx, location)
	}
	return nil
}

func (l *itemLocator) removeFromMail(ctx context.Context, location *ItemLocation) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("mail_id = ? AND item_guid = ?", location.MailID, location.ItemGUID).
			Delete(&entities.MailItem{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("guid = ?", location.ItemGUID).
			Delete(&entities.ItemInstance{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.
			Model(&entities.MailItem{}).
			Where("mail_id = ?", location.MailID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			// Mail still carries other items, keep the message.
			return nil
		}
		return tx.
			Where("id = ?", location.MailID).
			Delete(&entities.Mail{}).Error
	})
}

func (l *itemLocator) removeFromInventory(ctx context.Context, location *ItemLocation) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("item = ?", location.ItemGUID).
			Delete(&entities.CharacterInventory{}).Error; err != nil {
			return err
		}
		return tx.
			Where("guid = ?", location.ItemGUID).
			Delete(&entities.ItemInstance{}).Error
	})
}

// MarkMailPersistent flags the newest mail matching receiver and subject as
// non-returnable and pushes its expiry far out. The dispatcher calls this
// right after a successful delivery so the game server's mail expiry cannot
// silently destroy a shop item inside the refund window.
func (l *itemLocator) MarkMailPersistent(ctx context.Context, receiverGUID uint32, subject string) error {
	var mail entities.Mail
	if err := l.db.WithContext(ctx).
		Where("receiver = ? AND subject = ?", receiverGUID, subject).
		Order("id DESC").
		First(&mail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return l.db.WithContext(ctx).
		Model(&entities.Mail{}).
		Where("id = ?", mail.ID).
		Updates(map[string]interface{}{
			"expire_time": time.Now().Add(persistentMailExtension).Unix(),
			"checked":     gorm.Expr("checked | ?", entities.MailCheckedCopied),
		}).Error
}
