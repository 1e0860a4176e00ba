package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "codepay/db/db"
	"codepay/tray"
)

// GORMWalletDBWrapper is a GORM-based PostgreSQL implementation of dbt.WalletDBWrapper.
type GORMWalletDBWrapper struct {
	db *gorm.DB
}

func NewGORMWalletDBWrapper(db *gorm.DB) dbt.WalletDBWrapper {
	return &GORMWalletDBWrapper{
		db: db,
	}
}

func isDuplicate(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func toIntentRecord(m IntentModel) (dbt.IntentRecord, error) {
	var result tray.Snapshot
	if err := json.Unmarshal(m.Result, &result); err != nil {
		return dbt.IntentRecord{}, fmt.Errorf("decode result of intent %s: %w", m.ID, err)
	}
	return dbt.IntentRecord{
		ID:        m.ID,
		WalletID:  m.WalletID,
		Kind:      m.Kind,
		Status:    dbt.IntentStatus(m.Status),
		Actions:   json.RawMessage(m.Actions),
		Metadata:  json.RawMessage(m.Metadata),
		Result:    result,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (pgdb *GORMWalletDBWrapper) CreateWallet(wallet *dbt.Wallet) error {
	snapshot, err := json.Marshal(wallet.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot of wallet %s: %w", wallet.ID, err)
	}
	model := WalletModel{
		ID:       wallet.ID,
		Owner:    wallet.Owner,
		Phrase:   wallet.Phrase,
		Snapshot: snapshot,
	}
	result := pgdb.db.Create(&model)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return fmt.Errorf("wallet with ID %s: %w", wallet.ID, dbt.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (pgdb *GORMWalletDBWrapper) CreateIntent(record *dbt.IntentRecord) error {
	return createIntent(pgdb.db, record)
}

func createIntent(tx *gorm.DB, record *dbt.IntentRecord) error {
	resultSnapshot, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode result of intent %s: %w", record.ID, err)
	}
	model := IntentModel{
		ID:        record.ID,
		WalletID:  record.WalletID,
		Kind:      record.Kind,
		Status:    string(record.Status),
		Actions:   record.Actions,
		Metadata:  record.Metadata,
		Result:    resultSnapshot,
		CreatedAt: record.CreatedAt,
	}
	result := tx.Create(&model)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return fmt.Errorf("intent with ID %s: %w", record.ID, dbt.ErrAlreadyExists)
		}
		if strings.Contains(result.Error.Error(), "violates foreign key constraint") {
			return fmt.Errorf("wallet with ID %s: %w", record.WalletID, dbt.ErrNotFound)
		}
		return fmt.Errorf("failed to create intent %s: %w", record.ID, result.Error)
	}
	return nil
}

func (pgdb *GORMWalletDBWrapper) GetWalletInfo(id uuid.UUID) (*dbt.WalletInfo, error) {
	var model WalletModel
	result := pgdb.db.Select("id", "owner").First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallet info with ID %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet info for ID %s: %w", id, result.Error)
	}
	return &dbt.WalletInfo{ID: model.ID, Owner: model.Owner}, nil
}

func (pgdb *GORMWalletDBWrapper) GetWallet(id uuid.UUID) (*dbt.Wallet, error) {
	var model WalletModel
	result := pgdb.db.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet %s: %w", id, result.Error)
	}
	var snapshot tray.Snapshot
	if err := json.Unmarshal(model.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot of wallet %s: %w", id, err)
	}
	return &dbt.Wallet{
		WalletInfo: dbt.WalletInfo{ID: model.ID, Owner: model.Owner},
		WalletData: dbt.WalletData{Phrase: model.Phrase, Snapshot: snapshot},
	}, nil
}

func (pgdb *GORMWalletDBWrapper) GetIntent(id string) (*dbt.IntentRecord, error) {
	return getIntent(pgdb.db, id)
}

func getIntent(tx *gorm.DB, id string) (*dbt.IntentRecord, error) {
	var model IntentModel
	result := tx.First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("intent with ID %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get intent %s: %w", id, result.Error)
	}
	record, err := toIntentRecord(model)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (pgdb *GORMWalletDBWrapper) GetWalletIntents(walletID uuid.UUID) ([]dbt.IntentRecord, error) {
	if _, err := pgdb.GetWalletInfo(walletID); err != nil {
		return nil, err
	}
	var models []IntentModel
	result := pgdb.db.Where("wallet_id = ?", walletID).Order("created_at, id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get intents of wallet %s: %w", walletID, result.Error)
	}
	records := make([]dbt.IntentRecord, 0, len(models))
	for _, m := range models {
		r, err := toIntentRecord(m)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (pgdb *GORMWalletDBWrapper) UpdateWalletSnapshot(id uuid.UUID, snapshot tray.Snapshot) error {
	return updateWalletSnapshot(pgdb.db, id, snapshot)
}

func (pgdb *GORMWalletDBWrapper) UpdateIntentStatus(id string, from, to dbt.IntentStatus) error {
	return updateIntentStatus(pgdb.db, id, from, to)
}

// CommitIntent inserts a confirmed intent and writes the wallet snapshot in
// one transaction.
func (pgdb *GORMWalletDBWrapper) CommitIntent(record *dbt.IntentRecord) error {
	return pgdb.db.Transaction(func(tx *gorm.DB) error {
		if err := createIntent(tx, record); err != nil {
			return err
		}
		return updateWalletSnapshot(tx, record.WalletID, record.Result)
	})
}

// ConfirmIntent confirms a pending intent and writes its result as the wallet
// snapshot in one transaction. The conditional status update locks the row.
func (pgdb *GORMWalletDBWrapper) ConfirmIntent(id string) (*dbt.IntentRecord, error) {
	var record *dbt.IntentRecord
	err := pgdb.db.Transaction(func(tx *gorm.DB) error {
		if err := updateIntentStatus(tx, id, dbt.IntentPending, dbt.IntentConfirmed); err != nil {
			return err
		}
		r, err := getIntent(tx, id)
		if err != nil {
			return err
		}
		if err := updateWalletSnapshot(tx, r.WalletID, r.Result); err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func updateWalletSnapshot(tx *gorm.DB, id uuid.UUID, snapshot tray.Snapshot) error {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot of wallet %s: %w", id, err)
	}
	result := tx.Model(&WalletModel{}).Where("id = ?", id).Update("snapshot", encoded)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func updateIntentStatus(tx *gorm.DB, id string, from, to dbt.IntentStatus) error {
	result := tx.Model(&IntentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return fmt.Errorf("failed to update intent %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := getIntent(tx, id); err != nil {
			return err
		}
		return fmt.Errorf("intent %s is not %s: %w", id, from, dbt.ErrStatusConflict)
	}
	return nil
}

// DeleteWallet deletes a wallet and its intents in one transaction.
func (pgdb *GORMWalletDBWrapper) DeleteWallet(id uuid.UUID) error {
	return pgdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ?", id).Delete(&IntentModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete intents of wallet %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&WalletModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete wallet %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("wallet with ID %s: %w", id, dbt.ErrNotFound)
		}
		return nil
	})
}

// DataLoaderGetWalletInfoList batches wallet lookups for the data loader.
func (pgdb *GORMWalletDBWrapper) DataLoaderGetWalletInfoList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.WalletInfo, error) {
	var models []WalletModel
	result := pgdb.db.WithContext(ctx).Select("id", "owner").Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve wallets: %w", result.Error)
	}
	infos := make(map[uuid.UUID]*dbt.WalletInfo, len(models))
	for _, m := range models {
		infos[m.ID] = &dbt.WalletInfo{ID: m.ID, Owner: m.Owner}
	}
	return infos, nil
}

func (pgdb *GORMWalletDBWrapper) DataLoaderGetWalletIntentList(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]dbt.IntentRecord, error) {
	var models []IntentModel
	result := pgdb.db.WithContext(ctx).Where("wallet_id IN ?", ids).Order("created_at, id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to retrieve intents: %w", result.Error)
	}
	lists := make(map[uuid.UUID][]dbt.IntentRecord, len(ids))
	for _, m := range models {
		r, err := toIntentRecord(m)
		if err != nil {
			return nil, err
		}
		lists[m.WalletID] = append(lists[m.WalletID], r)
	}
	return lists, nil
}
