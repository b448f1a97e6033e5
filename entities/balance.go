package entities

// Balance holds the soul shard balance of one game account. Rows are created
// lazily on first credit and are never deleted. The balance is mutated only
// through the ledger repository's locked debit/credit operations.
type Balance struct {
	AccountID uint32 `gorm:"primary_key;autoIncrement:false" json:"account_id"`
	Balance   int64  `gorm:"not null;default:0" json:"balance"`

	Timestamp
}
