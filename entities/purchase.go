package entities

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchaseStatusCompleted       PurchaseStatus = "completed"
	PurchaseStatusPendingDelivery PurchaseStatus = "pending_delivery"
	PurchaseStatusRefunded        PurchaseStatus = "refunded"

	// Reserved values. No flow currently produces them; they exist so that
	// historical rows written by older tooling still scan into the enum.
	PurchaseStatusCancelled     PurchaseStatus = "cancelled"
	PurchaseStatusPendingRefund PurchaseStatus = "pending_refund"
)

// IsRefundable reports whether a purchase in this status may enter the
// refund flow. Only completed purchases qualify.
func (s PurchaseStatus) IsRefundable() bool {
	switch s {
	case PurchaseStatusCompleted:
		return true
	case PurchaseStatusPendingDelivery, PurchaseStatusRefunded,
		PurchaseStatusCancelled, PurchaseStatusPendingRefund:
		return false
	}
	return false
}

// Purchase is the durable record of a store transaction. Exactly one of
// ItemID/SetID is set. The row is created in the same database transaction
// as the shard debit and is never re-priced or deleted; only the status
// fields change afterwards.
type Purchase struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AccountID uint32    `gorm:"index;not null" json:"account_id"`

	ItemID *uuid.UUID `gorm:"type:uuid" json:"item_id,omitempty"`
	SetID  *uuid.UUID `gorm:"type:uuid" json:"set_id,omitempty"`

	CharacterGUID uint32 `gorm:"not null" json:"character_guid"`
	CharacterName string `gorm:"not null" json:"character_name"`
	RealmID       uint32 `gorm:"not null" json:"realm_id"`

	IsGift              bool   `json:"is_gift"`
	GiftToCharacterName string `json:"gift_to_character_name,omitempty"`
	GiftMessage         string `json:"gift_message,omitempty"`

	PricePaid       int64 `gorm:"not null" json:"price_paid"`
	OriginalPrice   int64 `gorm:"not null" json:"original_price"`
	DiscountApplied int   `gorm:"not null;default:0" json:"discount_applied"`

	Status PurchaseStatus `gorm:"type:varchar(32);index;not null" json:"status"`

	// WowItemID is the in-game item template actually delivered. Null for
	// pure services and for set purchases, whose pieces live on the set.
	WowItemID   *uint32 `json:"wow_item_id,omitempty"`
	ServiceType string  `json:"service_type,omitempty"`

	RefundedAt *time.Time `json:"refunded_at,omitempty"`
	RefundedBy *string    `json:"refunded_by,omitempty"`

	Timestamp
}
