package purchase

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"ShardStore/internal/utils/mailing"
	"ShardStore/pkg/catalog"
	"ShardStore/pkg/character"
	"ShardStore/pkg/delivery"
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type (
	PurchaseService interface {
		Purchase(ctx context.Context, req domain.PurchaseRequest, accountID uint32) (*domain.PurchaseResponse, error)
		History(ctx context.Context, accountID uint32, page, limit int) ([]*domain.PurchaseRecord, int64, error)
		RetryDelivery(ctx context.Context, purchaseID string) (*domain.RetryDeliveryResponse, error)
		ListPendingDeliveries(ctx context.Context, page, limit int) ([]*domain.PurchaseRecord, int64, error)
	}

	purchaseService struct {
		purchaseRepository  PurchaseRepository
		catalogRepository   catalog.CatalogRepository
		characterRepository character.CharacterRepository
		dispatcher          delivery.Dispatcher
	}

	// restrictions is the subset of catalog fields every purchase is
	// validated against. For a set purchase they come from the set's own
	// fields, never from a single piece.
	restrictions struct {
		MinLevel       int
		AllowedRaces   uint32
		AllowedClasses uint32
		Faction        string
		Realms         string
	}
)

func NewPurchaseService(
	purchaseRepository PurchaseRepository,
	catalogRepository catalog.CatalogRepository,
	characterRepository character.CharacterRepository,
	dispatcher delivery.Dispatcher,
) PurchaseService {
	return &purchaseService{
		purchaseRepository:  purchaseRepository,
		catalogRepository:   catalogRepository,
		characterRepository: characterRepository,
		dispatcher:          dispatcher,
	}
}

func (s *purchaseService) Purchase(ctx context.Context, req domain.PurchaseRequest, accountID uint32) (*domain.PurchaseResponse, error) {
	// Every eligibility check below is a hard stop before any currency
	// moves. Order matters only in that cheap account-level checks come
	// first.
	banned, err := s.characterRepository.IsAccountBanned(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, domain.ErrAccountBanned
	}

	if (req.ItemID == "") == (req.SetID == "") {
		return nil, domain.ErrItemOrSetRequired
	}

	buyer, err := s.characterRepository.GetByGUID(ctx, req.CharacterGUID)
	if err != nil {
		return nil, err
	}
	if buyer == nil || buyer.Account != accountID {
		return nil, domain.ErrCharacterNotFound
	}

	var (
		itemID, setID *uuid.UUID
		price         int64
		discount      int
		rules         restrictions
		wowItemID     *uint32
		serviceType   string
		stacks        []delivery.ItemStack
	)

	if req.ItemID != "" {
		item, err := s.catalogRepository.GetItemByID(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}
		if !item.IsActive {
			return nil, domain.ErrItemNotFound
		}
		if req.IsGift && item.IsService() {
			return nil, domain.ErrGiftNotAvailableForService
		}
		id := item.ID
		itemID = &id
		price = item.Price
		discount = item.DiscountPercent
		rules = restrictions{
			MinLevel:       item.MinLevel,
			AllowedRaces:   item.AllowedRaces,
			AllowedClasses: item.AllowedClasses,
			Faction:        item.Faction,
			Realms:         item.Realms,
		}
		serviceType = item.ServiceType
		if !item.IsService() {
			templateID := item.WowItemID
			wowItemID = &templateID
			stacks = []delivery.ItemStack{{TemplateID: templateID, Count: 1}}
		}
	} else {
		set, err := s.catalogRepository.GetSetByID(ctx, req.SetID)
		if err != nil {
			return nil, err
		}
		if !set.IsActive {
			return nil, domain.ErrSetNotFound
		}
		id := set.ID
		setID = &id
		price = set.Price
		discount = set.DiscountPercent
		rules = restrictions{
			MinLevel:       set.MinLevel,
			AllowedRaces:   set.AllowedRaces,
			AllowedClasses: set.AllowedClasses,
			Faction:        set.Faction,
			Realms:         set.Realms,
		}
		for _, piece := range set.Pieces {
			stacks = append(stacks, delivery.ItemStack{TemplateID: piece.WowItemID, Count: 1})
		}
	}

	// The effective recipient is whoever will actually own the item: the
	// gift target for gifts, the buyer's own character otherwise. Gifts
	// must be legal for the person receiving them, not the one paying.
	recipient := buyer
	if req.IsGift {
		recipient, err = s.characterRepository.GetByExactName(ctx, req.GiftTo)
		if err != nil {
			return nil, err
		}
		if recipient == nil {
			return nil, domain.ErrGiftRecipientNotFound
		}
	}

	// The characters database serves exactly one realm, so there is nothing
	// server-side to derive the realm id from; it is the client's statement
	// of where it is connected, recorded on the purchase and gated against
	// the catalog's realm list.
	if !entities.RealmAllowed(rules.Realms, req.RealmID) {
		return nil, domain.ErrRealmRestricted
	}
	if err := checkRestrictions(rules, recipient, req.IsGift); err != nil {
		return nil, err
	}

	pricePaid := domain.DiscountedPrice(price, discount)

	record := &entities.Purchase{
		ID:                  uuid.New(),
		AccountID:           accountID,
		ItemID:              itemID,
		SetID:               setID,
		CharacterGUID:       buyer.GUID,
		CharacterName:       buyer.Name,
		RealmID:             req.RealmID,
		IsGift:              req.IsGift,
		GiftToCharacterName: req.GiftTo,
		GiftMessage:         req.GiftMessage,
		PricePaid:           pricePaid,
		OriginalPrice:       price,
		DiscountApplied:     discount,
		Status:              entities.PurchaseStatusCompleted,
		WowItemID:           wowItemID,
		ServiceType:         serviceType,
	}

	if err := s.purchaseRepository.CreateWithDebit(ctx, record); err != nil {
		return nil, err
	}

	go s.sendReceipt(accountID, record)

	response := &domain.PurchaseResponse{
		PurchaseID: record.ID.String(),
		PricePaid:  pricePaid,
		Status:     string(entities.PurchaseStatusCompleted),
	}

	// Services have nothing to mail; the purchase record itself is the
	// deliverable picked up by the support workflow.
	if len(stacks) == 0 {
		return response, nil
	}

	// Currency is captured and the record committed: from here on the
	// purchase is final. A failed delivery degrades it to
	// pending_delivery for an operator retry instead of failing the
	// request.
	body := req.GiftMessage
	if body == "" {
		body = "Thank you for your purchase!"
	}
	if err := s.dispatcher.Deliver(ctx, recipient.GUID, recipient.Name, domain.DeliveryMailSubject, body, stacks); err != nil {
		log.WithFields(log.Fields{
			"error":       err,
			"purchase_id": record.ID,
			"recipient":   recipient.Name,
		}).Error("delivery failed, purchase degraded to pending_delivery")

		if updateErr := s.purchaseRepository.UpdateStatus(ctx, record.ID, entities.PurchaseStatusPendingDelivery); updateErr != nil {
			log.WithFields(log.Fields{
				"error":       updateErr,
				"purchase_id": record.ID,
			}).Error("failed to mark purchase pending_delivery")
		}

		response.Status = string(entities.PurchaseStatusPendingDelivery)
		response.DeliveryPending = true
		response.Warning = domain.MessageSuccessPurchasePending
	}

	return response, nil
}

func checkRestrictions(rules restrictions, recipient *entities.Character, isGift bool) error {
	if rules.MinLevel > 0 && int(recipient.Level) < rules.MinLevel {
		if isGift {
			return domain.ErrGiftLevelRestricted
		}
		return domain.ErrLevelRestricted
	}
	if rules.AllowedRaces != 0 && rules.AllowedRaces&(1<<(recipient.Race-1)) == 0 {
		if isGift {
			return domain.ErrGiftRaceRestricted
		}
		return domain.ErrRaceRestricted
	}
	if rules.AllowedClasses != 0 && rules.AllowedClasses&(1<<(recipient.Class-1)) == 0 {
		if isGift {
			return domain.ErrGiftClassRestricted
		}
		return domain.ErrClassRestricted
	}
	if rules.Faction != "" && rules.Faction != recipient.Faction() {
		if isGift {
			return domain.ErrGiftFactionRestricted
		}
		return domain.ErrFactionRestricted
	}
	return nil
}

func (s *purchaseService) sendReceipt(accountID uint32, record *entities.Purchase) {
	email, err := s.characterRepository.GetAccountEmail(context.Background(), accountID)
	if err != nil || email == "" {
		return
	}
	body := fmt.Sprintf(
		"<p>Your purchase for <b>%s</b> is complete.</p><p>Paid: %d soul shards</p><p>Purchase ID: %s</p>",
		record.CharacterName, record.PricePaid, record.ID,
	)
	if err := mailing.SendMail(email, "Soul Shard Store receipt", body); err != nil {
		log.WithFields(log.Fields{
			"error":       err,
			"purchase_id": record.ID,
		}).Warn("failed to send purchase receipt")
	}
}

func (s *purchaseService) History(ctx context.Context, accountID uint32, page, limit int) ([]*domain.PurchaseRecord, int64, error) {
	purchases, count, err := s.purchaseRepository.ListByAccount(ctx, accountID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toPurchaseRecords(purchases), count, nil
}

// RetryDelivery re-runs the delivery step for a purchase stuck in
// pending_delivery. No currency moves here, so repeating it is harmless; on
// renewed failure the purchase simply stays pending.
func (s *purchaseService) RetryDelivery(ctx context.Context, purchaseID string) (*domain.RetryDeliveryResponse, error) {
	id, err := uuid.Parse(purchaseID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	record, err := s.purchaseRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entities.PurchaseStatusPendingDelivery {
		return nil, domain.ErrDeliveryNotPending
	}

	recipient, err := s.effectiveRecipient(ctx, record)
	if err != nil {
		return nil, err
	}

	var stacks []delivery.ItemStack
	switch {
	case record.WowItemID != nil:
		stacks = []delivery.ItemStack{{TemplateID: *record.WowItemID, Count: 1}}
	case record.SetID != nil:
		pieces, err := s.catalogRepository.GetSetPieces(ctx, *record.SetID)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			stacks = append(stacks, delivery.ItemStack{TemplateID: piece.WowItemID, Count: 1})
		}
	}
	if len(stacks) == 0 {
		return nil, domain.ErrDeliveryNotPending
	}

	// Claim the purchase before dispatching: the conditional status flip is
	// what keeps two concurrent retries from both mailing the item. The
	// loser sees no affected row and stops here.
	won, err := s.purchaseRepository.ClaimPendingDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrDeliveryNotPending
	}

	body := record.GiftMessage
	if body == "" {
		body = "Thank you for your purchase!"
	}
	if err := s.dispatcher.Deliver(ctx, recipient.GUID, recipient.Name, domain.DeliveryMailSubject, body, stacks); err != nil {
		if revertErr := s.purchaseRepository.UpdateStatus(ctx, id, entities.PurchaseStatusPendingDelivery); revertErr != nil {
			log.WithFields(log.Fields{
				"error":       revertErr,
				"purchase_id": id,
			}).Error("failed to restore pending_delivery after failed retry")
		}
		return nil, err
	}

	return &domain.RetryDeliveryResponse{
		PurchaseID: purchaseID,
		Status:     string(entities.PurchaseStatusCompleted),
	}, nil
}

func (s *purchaseService) ListPendingDeliveries(ctx context.Context, page, limit int) ([]*domain.PurchaseRecord, int64, error) {
	purchases, count, err := s.purchaseRepository.ListPendingDelivery(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toPurchaseRecords(purchases), count, nil
}

func (s *purchaseService) effectiveRecipient(ctx context.Context, record *entities.Purchase) (*entities.Character, error) {
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

func toPurchaseRecords(purchases []*entities.Purchase) []*domain.PurchaseRecord {
	result := make([]*domain.PurchaseRecord, 0, len(purchases))
	for _, p := range purchases {
		record := &domain.PurchaseRecord{
			ID:              p.ID.String(),
			CharacterName:   p.CharacterName,
			IsGift:          p.IsGift,
			GiftTo:          p.GiftToCharacterName,
			PricePaid:       p.PricePaid,
			OriginalPrice:   p.OriginalPrice,
			DiscountApplied: p.DiscountApplied,
			Status:          string(p.Status),
			CreatedAt:       p.CreatedAt,
			RefundedAt:      p.RefundedAt,
		}
		if p.ItemID != nil {
			record.ItemID = p.ItemID.String()
		}
		if p.SetID != nil {
			record.SetID = p.SetID.String()
		}
		result = append(result, record)
	}
	return result
}
