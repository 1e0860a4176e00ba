package db

import (
	"context"

	"github.com/google/uuid"

	"codepay/tray"
)

type WalletDBWrapper interface {
	// Create
	CreateWallet(wallet *Wallet) error
	CreateIntent(record *IntentRecord) error
	// Read
	GetWalletInfo(id uuid.UUID) (*WalletInfo, error)
	GetWallet(id uuid.UUID) (*Wallet, error)
	GetIntent(id string) (*IntentRecord, error)
	GetWalletIntents(walletID uuid.UUID) ([]IntentRecord, error)
	// Update
	UpdateWalletSnapshot(id uuid.UUID, snapshot tray.Snapshot) error
	// UpdateIntentStatus moves an intent from one status to another and fails
	// with ErrStatusConflict when it is no longer in from.
	UpdateIntentStatus(id string, from, to IntentStatus) error
	// CommitIntent stores an already confirmed intent and adopts its result
	// as the wallet snapshot. Either both writes happen or neither does.
	CommitIntent(record *IntentRecord) error
	// ConfirmIntent moves a pending intent to confirmed and adopts its result
	// as the wallet snapshot. Either both writes happen or neither does.
	ConfirmIntent(id string) (*IntentRecord, error)
	// Delete
	DeleteWallet(id uuid.UUID) error
	// Data Loader
	DataLoaderGetWalletInfoList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*WalletInfo, error)
	DataLoaderGetWalletIntentList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]IntentRecord, error)
}
