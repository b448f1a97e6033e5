package handlers

import (
	"ShardStore/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// badRequestErrors are the rejection sentinels that travel to the client as a
// plain 400 with their reason code.
var badRequestErrors = []error{
	domain.ErrParseUUID,
	domain.ErrItemOrSetRequired,
	domain.ErrRealmRestricted,
	domain.ErrLevelRestricted,
	domain.ErrRaceRestricted,
	domain.ErrClassRestricted,
	domain.ErrFactionRestricted,
	domain.ErrGiftNotAvailableForService,
	domain.ErrGiftLevelRestricted,
	domain.ErrGiftRaceRestricted,
	domain.ErrGiftClassRestricted,
	domain.ErrGiftFactionRestricted,
	domain.ErrPurchaseNotRefundable,
	domain.ErrItemNotRefundable,
	domain.ErrRefundExpired,
	domain.ErrCharacterOnline,
	domain.ErrItemNotInInventory,
	domain.ErrDeliveryNotPending,
}

// statusForError picks the HTTP status for a store error. The specific
// reason still travels in the response error field; the surrounding UI keys
// on it for localized messages. Anything that is not a known sentinel is an
// internal failure and maps to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrSetNotFound),
		errors.Is(err, domain.ErrCharacterNotFound),
		errors.Is(err, domain.ErrGiftRecipientNotFound),
		errors.Is(err, domain.ErrRecipientNotFound),
		errors.Is(err, domain.ErrPurchaseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAccountBanned),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientBalance):
		return fiber.StatusPaymentRequired
	}
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}

// publicError is what goes into the response body. Unexpected errors are
// replaced wholesale: database and driver failure text never reaches clients.
func publicError(err error) error {
	if statusForError(err) == fiber.StatusInternalServerError {
		return domain.ErrInternal
	}
	return err
}
