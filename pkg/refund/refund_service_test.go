package refund

import (
	"ShardStore/domain"
	"ShardStore/entities"
	"ShardStore/pkg/worlditem"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePurchaseRepository mirrors the real repository's refund contract: the
// status re-check under the row lock turns a second refund into
// ErrPurchaseNotRefundable, and the credit happens exactly once.
type fakePurchaseRepository struct {
	balances  map[uint32]int64
	purchases map[uuid.UUID]*entities.Purchase
	credits   int
}

func newFakePurchaseRepository() *fakePurchaseRepository {
	return &fakePurchaseRepository{
		balances:  make(map[uint32]int64),
		purchases: make(map[uuid.UUID]*entities.Purchase),
	}
}

func (f *fakePurchaseRepository) CreateWithDebit(ctx context.Context, purchase *entities.Purchase) error {
	return errors.New("not used in refund tests")
}

func (f *fakePurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	purchase, ok := f.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	stored := *purchase
	return &stored, nil
}

func (f *fakePurchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PurchaseStatus) error {
	purchase, ok := f.purchases[id]
	if !ok {
		return domain.ErrPurchaseNotFound
	}
	purchase.Status = status
	return nil
}

func (f *fakePurchaseRepository) ClaimPendingDelivery(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, errors.New("not used in refund tests")
}

func (f *fakePurchaseRepository) Refund(ctx context.Context, id uuid.UUID, refundedBy *string) (*entities.Purchase, error) {
	purchase, ok := f.purchases[id]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	if !purchase.Status.IsRefundable() {
		return nil, domain.ErrPurchaseNotRefundable
	}
	f.balances[purchase.AccountID] += purchase.PricePaid
	f.credits++
	now := time.Now()
	purchase.Status = entities.PurchaseStatusRefunded
	purchase.RefundedAt = &now
	purchase.RefundedBy = refundedBy
	stored := *purchase
	return &stored, nil
}

func (f *fakePurchaseRepository) ListByAccount(ctx context.Context, accountID uint32, page, limit int) ([]*entities.Purchase, int64, error) {
	return nil, 0, nil
}

func (f *fakePurchaseRepository) ListPendingDelivery(ctx context.Context, page, limit int) ([]*entities.Purchase, int64, error) {
	return nil, 0, nil
}

type fakeCatalogRepository struct {
	items map[string]*entities.ShopItem
	sets  map[string]*entities.ShopSet
}

func newFakeCatalogRepository() *fakeCatalogRepository {
	return &fakeCatalogRepository{
		items: make(map[string]*entities.ShopItem),
		sets:  make(map[string]*entities.ShopSet),
	}
}

func (f *fakeCatalogRepository) GetItemByID(ctx context.Context, id string) (*entities.ShopItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeCatalogRepository) GetSetByID(ctx context.Context, id string) (*entities.ShopSet, error) {
	set, ok := f.sets[id]
	if !ok {
		return nil, domain.ErrSetNotFound
	}
	return set, nil
}

func (f *fakeCatalogRepository) GetSetPieces(ctx context.Context, setID uuid.UUID) ([]*entities.ShopSetPiece, error) {
	set, ok := f.sets[setID.String()]
	if !ok {
		return nil, nil
	}
	return set.Pieces, nil
}

func (f *fakeCatalogRepository) ListActiveItems(ctx context.Context, category string, page, limit int) ([]*entities.ShopItem, int64, error) {
	return nil, 0, nil
}

type fakeCharacterRepository struct {
	byGUID map[uint32]*entities.Character
	byName map[string]*entities.Character
}

func newFakeCharacterRepository() *fakeCharacterRepository {
	return &fakeCharacterRepository{
		byGUID: make(map[uint32]*entities.Character),
		byName: make(map[string]*entities.Character),
	}
}

func (f *fakeCharacterRepository) add(char *entities.Character) {
	f.byGUID[char.GUID] = char
	f.byName[char.Name] = char
}

func (f *fakeCharacterRepository) GetByGUID(ctx context.Context, guid uint32) (*entities.Character, error) {
	return f.byGUID[guid], nil
}

func (f *fakeCharacterRepository) GetByExactName(ctx context.Context, name string) (*entities.Character, error) {
	return f.byName[name], nil
}

func (f *fakeCharacterRepository) GetByAccount(ctx context.Context, accountID uint32) ([]*entities.Character, error) {
	return nil, nil
}

func (f *fakeCharacterRepository) IsAccountBanned(ctx context.Context, accountID uint32) (bool, error) {
	return false, nil
}

func (f *fakeCharacterRepository) GetAccountEmail(ctx context.Context, accountID uint32) (string, error) {
	return "", nil
}

type locatorKey struct {
	guid     uint32
	template uint32
}

type fakeItemLocator struct {
	locations map[locatorKey]*worlditem.ItemLocation
	removed   []*worlditem.ItemLocation
	removeErr error
}

func newFakeItemLocator() *fakeItemLocator {
	return &fakeItemLocator{
		locations: make(map[locatorKey]*worlditem.ItemLocation),
	}
}

func (f *fakeItemLocator) place(guid, template uint32, location *worlditem.ItemLocation) {
	f.locations[locatorKey{guid: guid, template: template}] = location
}

func (f *fakeItemLocator) FindItemLocation(ctx context.Context, characterGUID, itemTemplateID uint32) (*worlditem.ItemLocation, error) {
	return f.locations[locatorKey{guid: characterGUID, template: itemTemplateID}], nil
}

func (f *fakeItemLocator) Remove(ctx context.Context, location *worlditem.ItemLocation) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, location)
	return nil
}

func (f *fakeItemLocator) MarkMailPersistent(ctx context.Context, receiverGUID uint32, subject string) error {
	return nil
}

type auditEntry struct {
	actorID    string
	action     string
	targetType string
	targetID   string
	details    string
}

type fakeAuditService struct {
	entries []auditEntry
}

func (f *fakeAuditService) Record(actorID, action, targetType, targetID, details string) {
	f.entries = append(f.entries, auditEntry{actorID, action, targetType, targetID, details})
}

type refundFixture struct {
	service    RefundService
	purchases  *fakePurchaseRepository
	catalog    *fakeCatalogRepository
	characters *fakeCharacterRepository
	locator    *fakeItemLocator
	audit      *fakeAuditService

	owner    *entities.Character
	item     *entities.ShopItem
	set      *entities.ShopSet
	purchase *entities.Purchase
}

const ownerAccount = uint32(10)

func newRefundFixture() *refundFixture {
	purchases := newFakePurchaseRepository()
	catalogRepo := newFakeCatalogRepository()
	characters := newFakeCharacterRepository()
	locator := newFakeItemLocator()
	auditService := &fakeAuditService{}

	owner := &entities.Character{GUID: 1, Account: ownerAccount, Name: "Thrall", Race: 2, Class: 7, Level: 60, Online: 0}
	characters.add(owner)

	item := &entities.ShopItem{
		ID:         uuid.New(),
		Name:       "Swift Zhevra",
		Price:      500,
		WowItemID:  37719,
		Refundable: true,
		IsActive:   true,
	}
	catalogRepo.items[item.ID.String()] = item

	set := &entities.ShopSet{
		ID:         uuid.New(),
		Name:       "Gladiator Regalia",
		Price:      900,
		Refundable: true,
		IsActive:   true,
	}
	set.Pieces = []*entities.ShopSetPiece{
		{ID: uuid.New(), SetID: set.ID, WowItemID: 30486},
		{ID: uuid.New(), SetID: set.ID, WowItemID: 30487},
		{ID: uuid.New(), SetID: set.ID, WowItemID: 30488},
	}
	catalogRepo.sets[set.ID.String()] = set

	itemID := item.ID
	templateID := item.WowItemID
	record := &entities.Purchase{
		ID:              uuid.New(),
		AccountID:       ownerAccount,
		ItemID:          &itemID,
		CharacterGUID:   owner.GUID,
		CharacterName:   owner.Name,
		RealmID:         1,
		PricePaid:       500,
		OriginalPrice:   1000,
		DiscountApplied: 50,
		Status:          entities.PurchaseStatusCompleted,
		WowItemID:       &templateID,
	}
	record.CreatedAt = time.Now().Add(-30 * time.Minute)
	purchases.purchases[record.ID] = record

	locator.place(owner.GUID, templateID, &worlditem.ItemLocation{
		Kind:         worlditem.LocationMail,
		MailID:       77,
		ItemGUID:     9001,
		ItemTemplate: templateID,
	})

	return &refundFixture{
		service:    NewRefundService(purchases, catalogRepo, characters, locator, auditService),
		purchases:  purchases,
		catalog:    catalogRepo,
		characters: characters,
		locator:    locator,
		audit:      auditService,
		owner:      owner,
		item:       item,
		set:        set,
		purchase:   record,
	}
}

func TestRefundHappyPath(t *testing.T) {
	f := newRefundFixture()

	resp, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	require.NoError(t, err)

	// Credits back exactly price_paid, never the original price.
	assert.Equal(t, int64(500), resp.AmountCredited)
	assert.Equal(t, int64(500), f.purchases.balances[ownerAccount])
	assert.Equal(t, string(entities.PurchaseStatusRefunded), resp.Status)

	stored := f.purchases.purchases[f.purchase.ID]
	assert.Equal(t, entities.PurchaseStatusRefunded, stored.Status)
	assert.NotNil(t, stored.RefundedAt)
	assert.Nil(t, stored.RefundedBy)

	require.Len(t, f.locator.removed, 1)
	assert.Equal(t, uint32(9001), f.locator.removed[0].ItemGUID)
}

func TestRefundExpiredWindow(t *testing.T) {
	f := newRefundFixture()
	f.purchase.CreatedAt = time.Now().Add(-3 * time.Hour)

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrRefundExpired)

	assert.Equal(t, int64(0), f.purchases.balances[ownerAccount])
	assert.Equal(t, entities.PurchaseStatusCompleted, f.purchases.purchases[f.purchase.ID].Status)
}

func TestRefundOnlineCharacterRejected(t *testing.T) {
	f := newRefundFixture()
	f.owner.Online = 1

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrCharacterOnline)
	assert.Equal(t, int64(0), f.purchases.balances[ownerAccount])
}

func TestRefundItemGone(t *testing.T) {
	f := newRefundFixture()
	f.locator.locations = map[locatorKey]*worlditem.ItemLocation{}

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)
	assert.Equal(t, int64(0), f.purchases.balances[ownerAccount])
	assert.Equal(t, 0, f.purchases.credits)
}

func TestRefundForeignPurchaseReadsAsNotFound(t *testing.T) {
	f := newRefundFixture()

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), 999)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
}

func TestRefundNonRefundableItem(t *testing.T) {
	f := newRefundFixture()
	f.item.Refundable = false

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrItemNotRefundable)
}

func TestRefundServicePurchaseRejected(t *testing.T) {
	f := newRefundFixture()
	f.purchase.ServiceType = "rename"
	f.purchase.WowItemID = nil

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrItemNotRefundable)
}

func TestRefundTwiceSecondAttemptRejected(t *testing.T) {
	f := newRefundFixture()

	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	require.NoError(t, err)

	_, err = f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotRefundable)

	// Exactly one credit.
	assert.Equal(t, 1, f.purchases.credits)
	assert.Equal(t, int64(500), f.purchases.balances[ownerAccount])
}

// A set refund is all-or-nothing: one missing piece blocks the whole refund
// with no partial credit, and all pieces are removed once they are all
// present.
func TestSetRefundAllOrNothing(t *testing.T) {
	f := newRefundFixture()

	setID := f.set.ID
	record := &entities.Purchase{
		ID:            uuid.New(),
		AccountID:     ownerAccount,
		SetID:         &setID,
		CharacterGUID: f.owner.GUID,
		CharacterName: f.owner.Name,
		RealmID:       1,
		PricePaid:     900,
		OriginalPrice: 900,
		Status:        entities.PurchaseStatusCompleted,
	}
	record.CreatedAt = time.Now().Add(-10 * time.Minute)
	f.purchases.purchases[record.ID] = record

	// Only two of three pieces present.
	f.locator.place(f.owner.GUID, 30486, &worlditem.ItemLocation{Kind: worlditem.LocationMail, MailID: 1, ItemGUID: 101, ItemTemplate: 30486})
	f.locator.place(f.owner.GUID, 30487, &worlditem.ItemLocation{Kind: worlditem.LocationInventory, ItemGUID: 102, ItemTemplate: 30487})

	_, err := f.service.Refund(context.Background(), record.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)
	assert.Equal(t, int64(0), f.purchases.balances[ownerAccount])
	assert.Equal(t, 0, f.purchases.credits)
	assert.Empty(t, f.locator.removed)

	// Third piece shows up; refund now goes through and removes all three.
	f.locator.place(f.owner.GUID, 30488, &worlditem.ItemLocation{Kind: worlditem.LocationInventory, ItemGUID: 103, ItemTemplate: 30488})

	resp, err := f.service.Refund(context.Background(), record.ID.String(), ownerAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(900), resp.AmountCredited)
	assert.Len(t, f.locator.removed, 3)
}

// Removal failure after the credit committed is operational noise, not a
// user-facing error: the refund already happened.
func TestRefundCleanupFailureSwallowed(t *testing.T) {
	f := newRefundFixture()
	f.locator.removeErr = errors.New("game server holds a lock")

	resp, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.AmountCredited)
	assert.Equal(t, entities.PurchaseStatusRefunded, f.purchases.purchases[f.purchase.ID].Status)
}

func TestAdminRefundRecordsAuditAndRefunder(t *testing.T) {
	f := newRefundFixture()

	resp, err := f.service.RefundAsAdmin(context.Background(), f.purchase.ID.String(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.AmountCredited)

	stored := f.purchases.purchases[f.purchase.ID]
	require.NotNil(t, stored.RefundedBy)
	assert.Equal(t, "42", *stored.RefundedBy)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "42", entry.actorID)
	assert.Equal(t, "refund", entry.action)
	assert.Equal(t, "purchase", entry.targetType)
	assert.Equal(t, f.purchase.ID.String(), entry.targetID)
}

func TestGiftRefundChecksRecipientCharacter(t *testing.T) {
	f := newRefundFixture()

	recipient := &entities.Character{GUID: 2, Account: 20, Name: "Jaina", Race: 1, Class: 8, Level: 80, Online: 1}
	f.characters.add(recipient)

	f.purchase.IsGift = true
	f.purchase.GiftToCharacterName = "Jaina"

	// Recipient online blocks the refund even though the buyer is offline.
	_, err := f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrCharacterOnline)

	// Once offline, the item must be on the recipient, not the buyer.
	recipient.Online = 0
	_, err = f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.ErrorIs(t, err, domain.ErrItemNotInInventory)

	f.locator.place(recipient.GUID, f.item.WowItemID, &worlditem.ItemLocation{
		Kind:         worlditem.LocationMail,
		MailID:       88,
		ItemGUID:     9002,
		ItemTemplate: f.item.WowItemID,
	})
	_, err = f.service.Refund(context.Background(), f.purchase.ID.String(), ownerAccount)
	assert.NoError(t, err)
}
