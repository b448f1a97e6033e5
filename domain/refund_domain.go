package domain

import (
	"errors"
	"time"
)

// RefundWindow is how long after purchase a refund may still be requested.
// Past it the refund is rejected regardless of item state.
const RefundWindow = 2 * time.Hour

var (
	MessageSuccessRefund = "purchase refunded successfully"
	MessageFailedRefund  = "failed to refund purchase"

	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrPurchaseNotRefundable = errors.New("purchase is not refundable")
	ErrItemNotRefundable     = errors.New("item is not refundable")
	ErrRefundExpired         = errors.New("refund window has expired")
	ErrCharacterOnline       = errors.New("character must be offline")
	ErrItemNotInInventory    = errors.New("item no longer in mail or inventory")
	ErrRecipientNotFound     = errors.New("recipient character not found")
)

type (
	RefundResponse struct {
		PurchaseID     string `json:"purchase_id"`
		AmountCredited int64  `json:"amount_credited"`
		Status         string `json:"status"`
	}
)
