package mem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	dbt "codepay/db/db"
	"codepay/kin"
	"codepay/tray"
)

// inMemoryWalletDBWrapper is an in-memory implementation of dbt.WalletDBWrapper.
type inMemoryWalletDBWrapper struct {
	walletsInfo map[uuid.UUID]*dbt.WalletInfo
	walletsData map[uuid.UUID]*dbt.WalletData
	intents     map[string]*dbt.IntentRecord

	mu sync.RWMutex
}

func NewInMemoryWalletDBWrapper() dbt.WalletDBWrapper {
	return &inMemoryWalletDBWrapper{
		walletsInfo: make(map[uuid.UUID]*dbt.WalletInfo),
		walletsData: make(map[uuid.UUID]*dbt.WalletData),
		intents:     make(map[string]*dbt.IntentRecord),
	}
}

func copySnapshot(s tray.Snapshot) tray.Snapshot {
	out := s
	out.Denominations = append([]uint64(nil), s.Denominations...)
	out.Relationships = append([]string(nil), s.Relationships...)
	out.Balances = make(map[tray.AccountType]kin.Kin, len(s.Balances))
	for k, v := range s.Balances {
		out.Balances[k] = v
	}
	return out
}

func copyIntent(r *dbt.IntentRecord) dbt.IntentRecord {
	out := *r
	out.Actions = append(json.RawMessage(nil), r.Actions...)
	out.Metadata = append(json.RawMessage(nil), r.Metadata...)
	out.Result = copySnapshot(r.Result)
	return out
}

func (db *inMemoryWalletDBWrapper) CreateWallet(wallet *dbt.Wallet) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.walletsInfo[wallet.ID]; exists {
		return fmt.Errorf("wallet with ID %s: %w", wallet.ID, dbt.ErrAlreadyExists)
	}
	info := wallet.WalletInfo
	db.walletsInfo[wallet.ID] = &info
	db.walletsData[wallet.ID] = &dbt.WalletData{
		Phrase:   wallet.Phrase,
		Snapshot: copySnapshot(wallet.Snapshot),
	}
	return nil
}

func (db *inMemoryWalletDBWrapper) CreateIntent(record *dbt.IntentRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.walletsInfo[record.WalletID]; !exists {
		return fmt.Errorf("wallet with ID %s: %w", record.WalletID, dbt.ErrNotFound)
	}
	if _, exists := db.intents[record.ID]; exists {
		return fmt.Errorf("intent with ID %s: %w", record.ID, dbt.ErrAlreadyExists)
	}
	r := copyIntent(record)
	db.intents[record.ID] = &r
	return nil
}

func (db *inMemoryWalletDBWrapper) GetWalletInfo(id uuid.UUID) (*dbt.WalletInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	info, exists := db.walletsInfo[id]
	if !exists {
		return nil, fmt.Errorf("wallet info with ID %s: %w", id, dbt.ErrNotFound)
	}
	infoCopy := *info
	return &infoCopy, nil
}

func (db *inMemoryWalletDBWrapper) GetWallet(id uuid.UUID) (*dbt.Wallet, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	info, exists := db.walletsInfo[id]
	if !exists {
		return nil, fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
	}
	data := db.walletsData[id]
	return &dbt.Wallet{
		WalletInfo: *info,
		WalletData: dbt.WalletData{Phrase: data.Phrase, Snapshot: copySnapshot(data.Snapshot)},
	}, nil
}

func (db *inMemoryWalletDBWrapper) GetIntent(id string) (*dbt.IntentRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	r, exists := db.intents[id]
	if !exists {
		return nil, fmt.Errorf("intent with ID %s: %w", id, dbt.ErrNotFound)
	}
	out := copyIntent(r)
	return &out, nil
}

// GetWalletIntents returns the intents of a wallet, oldest first.
func (db *inMemoryWalletDBWrapper) GetWalletIntents(walletID uuid.UUID) ([]dbt.IntentRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, exists := db.walletsInfo[walletID]; !exists {
		return nil, fmt.Errorf("wallet with ID %s: %w", walletID, dbt.ErrNotFound)
	}
	return db.walletIntents(walletID), nil
}

func (db *inMemoryWalletDBWrapper) walletIntents(walletID uuid.UUID) []dbt.IntentRecord {
	records := []dbt.IntentRecord{}
	for _, r := range db.intents {
		if r.WalletID == walletID {
			records = append(records, copyIntent(r))
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

func (db *inMemoryWalletDBWrapper) UpdateWalletSnapshot(id uuid.UUID, snapshot tray.Snapshot) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	data, exists := db.walletsData[id]
	if !exists {
		return fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
	}
	data.Snapshot = copySnapshot(snapshot)
	return nil
}

func (db *inMemoryWalletDBWrapper) UpdateIntentStatus(id string, from, to dbt.IntentStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, exists := db.intents[id]
	if !exists {
		return fmt.Errorf("intent with ID %s: %w", id, dbt.ErrNotFound)
	}
	if r.Status != from {
		return fmt.Errorf("intent %s is %s, want %s: %w", id, r.Status, from, dbt.ErrStatusConflict)
	}
	r.Status = to
	return nil
}

// CommitIntent stores a confirmed intent and its result snapshot under one
// lock. Nothing is written when either step would fail.
func (db *inMemoryWalletDBWrapper) CommitIntent(record *dbt.IntentRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	data, exists := db.walletsData[record.WalletID]
	if !exists {
		return fmt.Errorf("wallet with ID %s: %w", record.WalletID, dbt.ErrNotFound)
	}
	if _, exists := db.intents[record.ID]; exists {
		return fmt.Errorf("intent with ID %s: %w", record.ID, dbt.ErrAlreadyExists)
	}
	r := copyIntent(record)
	db.intents[record.ID] = &r
	data.Snapshot = copySnapshot(record.Result)
	return nil
}

// ConfirmIntent confirms a pending intent and adopts its result snapshot
// under one lock.
func (db *inMemoryWalletDBWrapper) ConfirmIntent(id string) (*dbt.IntentRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, exists := db.intents[id]
	if !exists {
		return nil, fmt.Errorf("intent with ID %s: %w", id, dbt.ErrNotFound)
	}
	if r.Status != dbt.IntentPending {
		return nil, fmt.Errorf("intent %s is %s, want %s: %w", id, r.Status, dbt.IntentPending, dbt.ErrStatusConflict)
	}
	data, exists := db.walletsData[r.WalletID]
	if !exists {
		return nil, fmt.Errorf("wallet with ID %s: %w", r.WalletID, dbt.ErrNotFound)
	}
	data.Snapshot = copySnapshot(r.Result)
	r.Status = dbt.IntentConfirmed
	out := copyIntent(r)
	return &out, nil
}

// DeleteWallet deletes a wallet and all of its intents.
func (db *inMemoryWalletDBWrapper) DeleteWallet(id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.walletsInfo[id]; !exists {
		return fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
	}
	delete(db.walletsInfo, id)
	delete(db.walletsData, id)
	for k, r := range db.intents {
		if r.WalletID == id {
			delete(db.intents, k)
		}
	}
	return nil
}

func (db *inMemoryWalletDBWrapper) DataLoaderGetWalletInfoList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.WalletInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID]*dbt.WalletInfo, len(ids))
	for _, id := range ids {
		if info, exists := db.walletsInfo[id]; exists {
			infoCopy := *info
			result[id] = &infoCopy
		}
	}
	return result, nil
}

func (db *inMemoryWalletDBWrapper) DataLoaderGetWalletIntentList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]dbt.IntentRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID][]dbt.IntentRecord, len(ids))
	for _, id := range ids {
		if _, exists := db.walletsInfo[id]; exists {
			result[id] = db.walletIntents(id)
		}
	}
	return result, nil
}
