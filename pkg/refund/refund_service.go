package refund

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"ShardStore/pkg/audit"
	"ShardStore/pkg/catalog"
	"ShardStore/pkg/character"
	"ShardStore/pkg/purchase"
	"ShardStore/pkg/worlditem"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type (
	// RefundService reverses a completed purchase: shards are credited
	// back inside a locked transaction, then the delivered items are
	// removed from the game world as best-effort cleanup.
	RefundService interface {
		Refund(ctx context.Context, purchaseID string, accountID uint32) (*domain.RefundResponse, error)
		RefundAsAdmin(ctx context.Context, purchaseID string, adminID string) (*domain.RefundResponse, error)
	}

	refundService struct {
		purchaseRepository  purchase.PurchaseRepository
		catalogRepository   catalog.CatalogRepository
		characterRepository character.CharacterRepository
		locator             worlditem.ItemLocator
		auditService        audit.AuditService
	}
)

func NewRefundService(
	purchaseRepository purchase.PurchaseRepository,
	catalogRepository catalog.CatalogRepository,
	characterRepository character.CharacterRepository,
	locator worlditem.ItemLocator,
	auditService audit.AuditService,
) RefundService {
	return &refundService{
		purchaseRepository:  purchaseRepository,
		catalogRepository:   catalogRepository,
		characterRepository: characterRepository,
		locator:             locator,
		auditService:        auditService,
	}
}

// Refund is the self-service entry point: only the owning account may use
// it, and a purchase belonging to someone else reads as not found.
func (s *refundService) Refund(ctx context.Context, purchaseID string, accountID uint32) (*domain.RefundResponse, error) {
	return s.refund(ctx, purchaseID, &accountID, nil)
}

// RefundAsAdmin refunds any account's purchase and records the admin as the
// refunder, plus an audit trail entry.
func (s *refundService) RefundAsAdmin(ctx context.Context, purchaseID string, adminID string) (*domain.RefundResponse, error) {
	response, err := s.refund(ctx, purchaseID, nil, &adminID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(
		adminID,
		"refund",
		"purchase",
		purchaseID,
		fmt.Sprintf("credited %d soul shards", response.AmountCredited),
	)
	return response, nil
}

func (s *refundService) refund(ctx context.Context, purchaseID string, ownerAccountID *uint32, refundedBy *string) (*domain.RefundResponse, error) {
	id, err := uuid.Parse(purchaseID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	record, err := s.purchaseRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerAccountID != nil && record.AccountID != *ownerAccountID {
		// A foreign purchase reads as not found rather than forbidden.
		return nil, domain.ErrPurchaseNotFound
	}

	// Pre-checks. The status is re-verified under the row lock inside the
	// repository, so a concurrent refund racing past this point still
	// loses there.
	if !record.Status.IsRefundable() {
		return nil, domain.ErrPurchaseNotRefundable
	}
	if time.Since(record.CreatedAt) > domain.RefundWindow {
		return nil, domain.ErrRefundExpired
	}
	if record.ServiceType != "" {
		return nil, domain.ErrItemNotRefundable
	}

	templates, err := s.refundableTemplates(ctx, record)
	if err != nil {
		return nil, err
	}

	recipient, err := s.effectiveRecipient(ctx, record)
	if err != nil {
		return nil, err
	}
	// The game server caches item state in memory for logged-in
	// characters; removing rows under a live session would desync it.
	if recipient.IsOnline() {
		return nil, domain.ErrCharacterOnline
	}

	// Every piece must be simultaneously present. Sets refund as one
	// unit: one missing piece blocks the whole refund, no partial credit.
	locations := make([]*worlditem.ItemLocation, 0, len(templates))
	for _, templateID := range templates {
		location, err := s.locator.FindItemLocation(ctx, recipient.GUID, templateID)
		if err != nil {
			return nil, err
		}
		if location == nil {
			return nil, domain.ErrItemNotInInventory
		}
		locations = append(locations, location)
	}

	refunded, err := s.purchaseRepository.Refund(ctx, id, refundedBy)
	if err != nil {
		return nil, err
	}

	// The credit is committed; item removal is best-effort cleanup from
	// here. Failures are logged for the operators, never surfaced, since
	// the refund has already been promised to the player.
	for _, location := range locations {
		if err := s.locator.Remove(ctx, location); err != nil {
			log.WithFields(log.Fields{
				"error":       err,
				"purchase_id": purchaseID,
				"item_guid":   location.ItemGUID,
				"kind":        location.Kind,
			}).Error("failed to remove refunded item from game world")
		}
	}

	return &domain.RefundResponse{
		PurchaseID:     purchaseID,
		AmountCredited: refunded.PricePaid,
		Status:         string(entities.PurchaseStatusRefunded),
	}, nil
}

// refundableTemplates resolves the in-game item templates that must all be
// present for the refund, and enforces the catalog refundable flag.
func (s *refundService) refundableTemplates(ctx context.Context, record *entities.Purchase) ([]uint32, error) {
	switch {
	case record.ItemID != nil:
		item, err := s.catalogRepository.GetItemByID(ctx, record.ItemID.String())
		if err != nil {
			return nil, err
		}
		if !item.Refundable || item.IsService() {
			return nil, domain.ErrItemNotRefundable
		}
		if record.WowItemID == nil {
			return nil, domain.ErrItemNotRefundable
		}
		return []uint32{*record.WowItemID}, nil

	case record.SetID != nil:
		set, err := s.catalogRepository.GetSetByID(ctx, record.SetID.String())
		if err != nil {
			return nil, err
		}
		if !set.Refundable {
			return nil, domain.ErrItemNotRefundable
		}
		templates := make([]uint32, 0, len(set.Pieces))
		for _, piece := range set.Pieces {
			templates = append(templates, piece.WowItemID)
		}
		if len(templates) == 0 {
			return nil, domain.ErrItemNotRefundable
		}
		return templates, nil
	}

	return nil, domain.ErrItemNotRefundable
}

func (s *refundService) effectiveRecipient(ctx context.Context, record *entities.Purchase) (*entities.Character, error) {
	if record.IsGift {
		recipient, err := s.characterRepository.GetByExactName(ctx, record.GiftToCharacterName)
		if err != nil {
			return nil, err
		}
		if recipient == nil {
			return nil, domain.ErrRecipientNotFound
		}
		return recipient, nil
	}

	recipient, err := s.characterRepository.GetByGUID(ctx, record.CharacterGUID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, domain.ErrRecipientNotFound
	}
	return recipient, nil
}
