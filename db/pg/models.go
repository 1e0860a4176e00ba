package pg

import (
	"time"

	"github.com/google/uuid"
)

type WalletModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Owner    string    `gorm:"size:64;not null"`
	Phrase   string    `gorm:"not null"`
	Snapshot []byte    `gorm:"type:jsonb;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for WalletModel.
func (WalletModel) TableName() string {
	return "wallets"
}

type IntentModel struct {
	ID       string    `gorm:"size:64;primaryKey"`
	WalletID uuid.UUID `gorm:"type:uuid;not null"`
	Kind     string    `gorm:"size:32;not null"`
	Status   string    `gorm:"size:16;not null"`
	Actions  []byte    `gorm:"type:jsonb;not null"`
	Metadata []byte    `gorm:"type:jsonb;not null"`
	Result   []byte    `gorm:"type:jsonb;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for IntentModel.
func (IntentModel) TableName() string {
	return "intents"
}
