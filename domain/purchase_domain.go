package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessPurchase           = "purchase completed successfully"
	MessageSuccessPurchasePending    = "purchase completed, delivery pending"
	MessageSuccessGetPurchaseHistory = "purchase history retrieved successfully"
	MessageSuccessRetryDelivery      = "delivery retried successfully"
	MessageSuccessGetPending         = "pending deliveries retrieved successfully"

	MessageFailedPurchase           = "failed to process purchase"
	MessageFailedGetPurchaseHistory = "failed to retrieve purchase history"
	MessageFailedRetryDelivery      = "failed to retry delivery"
	MessageFailedGetPending         = "failed to retrieve pending deliveries"

	ErrAccountBanned     = errors.New("account is banned")
	ErrCharacterNotFound = errors.New("character not found")
	ErrRealmRestricted   = errors.New("item not available on this realm")
	ErrLevelRestricted   = errors.New("character level too low")
	ErrRaceRestricted    = errors.New("item not available for this race")
	ErrClassRestricted   = errors.New("item not available for this class")
	ErrFactionRestricted = errors.New("item not available for this faction")

	ErrGiftRecipientNotFound      = errors.New("gift recipient not found")
	ErrGiftNotAvailableForService = errors.New("services cannot be gifted")
	ErrGiftLevelRestricted        = errors.New("gift recipient level too low")
	ErrGiftRaceRestricted         = errors.New("item not available for gift recipient race")
	ErrGiftClassRestricted        = errors.New("item not available for gift recipient class")
	ErrGiftFactionRestricted      = errors.New("item not available for gift recipient faction")

	ErrInsufficientBalance = errors.New("insufficient soul shards")
	ErrItemOrSetRequired   = errors.New("exactly one of item_id or set_id must be provided")
	ErrDeliveryNotPending  = errors.New("purchase is not pending delivery")
)

// DeliveryMailSubject is the subject line of shop delivery mail. The retry
// flow and the mail persistence marking both key on it.
const DeliveryMailSubject = "Soul Shard Store"

type (
	PurchaseRequest struct {
		ItemID        string `json:"item_id,omitempty" validate:"omitempty,uuid"`
		SetID         string `json:"set_id,omitempty" validate:"omitempty,uuid"`
		CharacterGUID uint32 `json:"character_guid" validate:"required"`
		RealmID       uint32 `json:"realm_id" validate:"required"`
		IsGift        bool   `json:"is_gift"`
		GiftTo        string `json:"gift_to,omitempty" validate:"required_if=IsGift true,max=12"`
		GiftMessage   string `json:"gift_message,omitempty" validate:"max=200"`
	}

	PurchaseResponse struct {
		PurchaseID      string `json:"purchase_id"`
		PricePaid       int64  `json:"price_paid"`
		Status          string `json:"status"`
		DeliveryPending bool   `json:"delivery_pending"`
		Warning         string `json:"warning,omitempty"`
	}

	PurchaseRecord struct {
		ID              string     `json:"id"`
		ItemID          string     `json:"item_id,omitempty"`
		SetID           string     `json:"set_id,omitempty"`
		CharacterName   string     `json:"character_name"`
		IsGift          bool       `json:"is_gift"`
		GiftTo          string     `json:"gift_to,omitempty"`
		PricePaid       int64      `json:"price_paid"`
		OriginalPrice   int64      `json:"original_price"`
		DiscountApplied int        `json:"discount_applied"`
		Status          string     `json:"status"`
		CreatedAt       time.Time  `json:"created_at"`
		RefundedAt      *time.Time `json:"refunded_at,omitempty"`
	}

	RetryDeliveryResponse struct {
		PurchaseID string `json:"purchase_id"`
		Status     string `json:"status"`
	}
)
