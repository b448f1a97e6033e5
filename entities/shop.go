package entities

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const CategoryServices = "Services"

// ShopItem is a single purchasable catalog entry. AllowedRaces and
// AllowedClasses are the game's race/class bitmasks; zero means no
// restriction. Realms is a comma separated realm id list, empty means all.
type ShopItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Category        string    `gorm:"index" json:"category"`
	Price           int64     `gorm:"not null" json:"price"`
	DiscountPercent int       `gorm:"not null;default:0" json:"discount_percent"`
	WowItemID       uint32    `json:"wow_item_id"`
	ServiceType     string    `json:"service_type,omitempty"`
	MinLevel        int       `gorm:"not null;default:0" json:"min_level"`
	AllowedRaces    uint32    `gorm:"not null;default:0" json:"allowed_races"`
	AllowedClasses  uint32    `gorm:"not null;default:0" json:"allowed_classes"`
	Faction         string    `json:"faction,omitempty"` // "", "alliance", "horde"
	Realms          string    `json:"realms,omitempty"`
	Refundable      bool      `gorm:"not null;default:true" json:"refundable"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Timestamp
}

// IsService reports whether the entry is an intangible service with no
// deliverable item. Services are never giftable and never refundable.
func (i *ShopItem) IsService() bool {
	return i.ServiceType != "" || i.Category == CategoryServices
}

// ShopSet bundles multiple pieces sold and refunded as one unit.
// Restrictions are evaluated against the set's own fields, not per piece.
type ShopSet struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Price           int64     `gorm:"not null" json:"price"`
	DiscountPercent int       `gorm:"not null;default:0" json:"discount_percent"`
	MinLevel        int       `gorm:"not null;default:0" json:"min_level"`
	AllowedRaces    uint32    `gorm:"not null;default:0" json:"allowed_races"`
	AllowedClasses  uint32    `gorm:"not null;default:0" json:"allowed_classes"`
	Faction         string    `json:"faction,omitempty"`
	Realms          string    `json:"realms,omitempty"`
	Refundable      bool      `gorm:"not null;default:true" json:"refundable"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Pieces []*ShopSetPiece `gorm:"foreignKey:SetID" json:"pieces,omitempty"`
	Timestamp
}

type ShopSetPiece struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SetID     uuid.UUID `gorm:"type:uuid;index;not null" json:"set_id"`
	WowItemID uint32    `gorm:"not null" json:"wow_item_id"`

	Timestamp
}

// RealmAllowed checks a comma separated realm list against a realm id.
// An empty list allows every realm.
func RealmAllowed(realms string, realmID uint32) bool {
	if strings.TrimSpace(realms) == "" {
		return true
	}
	for _, part := range strings.Split(realms, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			continue
		}
		if uint32(id) == realmID {
			return true
		}
	}
	return false
}
