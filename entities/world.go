package entities

// Read models over the game server's own databases. These tables belong to
// the live game server process; the store never migrates them and writes to
// mail/item rows only through the item locator's removal path.

const (
	FactionAlliance = "alliance"
	FactionHorde    = "horde"
)

// allianceRaces and hordeRaces are the vanilla/TBC race ids.
var allianceRaces = map[uint8]bool{1: true, 3: true, 4: true, 7: true, 11: true}
var hordeRaces = map[uint8]bool{2: true, 5: true, 6: true, 8: true, 10: true}

type Character struct {
	GUID    uint32 `gorm:"column:guid;primary_key" json:"guid"`
	Account uint32 `gorm:"column:account" json:"account"`
	Name    string `gorm:"column:name" json:"name"`
	Race    uint8  `gorm:"column:race" json:"race"`
	Class   uint8  `gorm:"column:class" json:"class"`
	Level   uint8  `gorm:"column:level" json:"level"`
	Online  uint8  `gorm:"column:online" json:"online"`
}

func (Character) TableName() string { return "characters" }

func (c *Character) IsOnline() bool { return c.Online != 0 }

// Faction derives the character's faction from its race id.
func (c *Character) Faction() string {
	if allianceRaces[c.Race] {
		return FactionAlliance
	}
	if hordeRaces[c.Race] {
		return FactionHorde
	}
	return ""
}

// Mail checked-flag bits used by the game server. Setting Copied makes the
// mail non-returnable to the sender.
const (
	MailCheckedRead   = 1
	MailCheckedCopied = 8
)

type Mail struct {
	ID         uint32 `gorm:"column:id;primary_key" json:"id"`
	Sender     uint32 `gorm:"column:sender" json:"sender"`
	Receiver   uint32 `gorm:"column:receiver" json:"receiver"`
	Subject    string `gorm:"column:subject" json:"subject"`
	HasItems   uint8  `gorm:"column:has_items" json:"has_items"`
	ExpireTime int64  `gorm:"column:expire_time" json:"expire_time"`
	Checked    uint32 `gorm:"column:checked" json:"checked"`
}

func (Mail) TableName() string { return "mail" }

type MailItem struct {
	MailID       uint32 `gorm:"column:mail_id;primary_key" json:"mail_id"`
	ItemGUID     uint32 `gorm:"column:item_guid;primary_key" json:"item_guid"`
	ItemTemplate uint32 `gorm:"column:item_template" json:"item_template"`
	Receiver     uint32 `gorm:"column:receiver" json:"receiver"`
}

func (MailItem) TableName() string { return "mail_items" }

type ItemInstance struct {
	GUID      uint32 `gorm:"column:guid;primary_key" json:"guid"`
	OwnerGUID uint32 `gorm:"column:owner_guid" json:"owner_guid"`
	ItemEntry uint32 `gorm:"column:itemEntry" json:"item_entry"`
}

func (ItemInstance) TableName() string { return "item_instance" }

type CharacterInventory struct {
	GUID         uint32 `gorm:"column:guid;primary_key" json:"guid"`
	Bag          uint32 `gorm:"column:bag" json:"bag"`
	Slot         uint8  `gorm:"column:slot" json:"slot"`
	Item         uint32 `gorm:"column:item;primary_key" json:"item"`
	ItemTemplate uint32 `gorm:"column:item_template" json:"item_template"`
}

func (CharacterInventory) TableName() string { return "character_inventory" }

type Account struct {
	ID       uint32 `gorm:"column:id;primary_key" json:"id"`
	Username string `gorm:"column:username" json:"username"`
	Email    string `gorm:"column:email" json:"email"`
}

func (Account) TableName() string { return "account" }

type AccountBanned struct {
	ID        uint32 `gorm:"column:id;primary_key" json:"id"`
	BanDate   int64  `gorm:"column:bandate;primary_key" json:"bandate"`
	UnbanDate int64  `gorm:"column:unbandate" json:"unbandate"`
	BannedBy  string `gorm:"column:bannedby" json:"bannedby"`
	BanReason string `gorm:"column:banreason" json:"banreason"`
	Active    uint8  `gorm:"column:active" json:"active"`
}

func (AccountBanned) TableName() string { return "account_banned" }
