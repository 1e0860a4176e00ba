package db

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"codepay/tray"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrStatusConflict = errors.New("intent is not in the expected status")
)

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentConfirmed IntentStatus = "confirmed"
	IntentDropped   IntentStatus = "dropped"
)

type WalletInfo struct {
	ID    uuid.UUID
	Owner string
}

type WalletData struct {
	Phrase   string
	Snapshot tray.Snapshot
}

type Wallet struct {
	WalletInfo
	WalletData
}

// IntentRecord is a planned intent. Result is the tray snapshot that becomes
// the wallet's state once the intent is confirmed.
type IntentRecord struct {
	ID        string
	WalletID  uuid.UUID
	Kind      string
	Status    IntentStatus
	Actions   json.RawMessage
	Metadata  json.RawMessage
	Result    tray.Snapshot
	CreatedAt time.Time
}
