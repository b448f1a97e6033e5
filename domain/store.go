package domain

import (
	"errors"
)

var (
	MessageSuccessGetItems   = "store items retrieved successfully"
	MessageSuccessGetBalance = "balance retrieved successfully"

	MessageFailedGetItems   = "failed to retrieve store items"
	MessageFailedGetBalance = "failed to retrieve balance"

	ErrItemNotFound = errors.New("item not found")
	ErrSetNotFound  = errors.New("set not found")
)

type (
	StoreItem struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Category        string `json:"category"`
		Price           int64  `json:"price"`
		DiscountPercent int    `json:"discount_percent"`
		DiscountedPrice int64  `json:"discounted_price"`
		MinLevel        int    `json:"min_level"`
		Refundable      bool   `json:"refundable"`
	}

	AccountBalance struct {
		AccountID uint32 `json:"account_id"`
		Balance   int64  `json:"balance"`
	}
)

// DiscountedPrice computes the shard price after discount. Integer floor
// division on purpose: the stored price_paid is what a later refund credits
// back, so the rounding here must never change.
func DiscountedPrice(price int64, discountPercent int) int64 {
	if discountPercent <= 0 {
		return price
	}
	if discountPercent >= 100 {
		return 0
	}
	return price * int64(100-discountPercent) / 100
}
