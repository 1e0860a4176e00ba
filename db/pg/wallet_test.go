package pg

import (
	"context"
	"encoding/json"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbt "codepay/db/db"
	"codepay/kin"
	"codepay/tray"
)

var testDB *gorm.DB
var walletDB dbt.WalletDBWrapper

// initTest connects to the database from CreateDSN and skips the test when
// none is reachable. The tables come from the goose migrations.
func initTest(t *testing.T) {
	t.Helper()
	var err error
	testDB, err = InitPostgresGORM(CreateDSN())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	walletDB = NewGORMWalletDBWrapper(testDB)
}

func cleanupTest() {
	log.Println("Cleaning up test database...")
	testDB.Exec("DELETE FROM intents;")
	testDB.Exec("DELETE FROM wallets;")
	log.Println("Test database cleaned.")
	CloseGORM(testDB)
}

func newWallet() *dbt.Wallet {
	return &dbt.Wallet{
		WalletInfo: dbt.WalletInfo{ID: uuid.New(), Owner: "owner"},
		WalletData: dbt.WalletData{
			Phrase: "couple divorce usage surprise before range feature source bubble chunk spot away",
			Snapshot: tray.Snapshot{
				Denominations: []uint64{1, 10},
				IncomingIndex: 2,
				Balances:      map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(5)},
			},
		},
	}
}

func newIntent(walletID uuid.UUID, createdAt time.Time) *dbt.IntentRecord {
	return &dbt.IntentRecord{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Kind:      "deposit",
		Status:    dbt.IntentPending,
		Actions:   json.RawMessage(`[]`),
		Metadata:  json.RawMessage(`{}`),
		Result:    tray.Snapshot{Balances: map[tray.AccountType]kin.Kin{tray.Bucket(0): kin.FromKin(5)}},
		CreatedAt: createdAt,
	}
}

func TestCreateWallet(t *testing.T) {
	initTest(t)
	defer cleanupTest()

	w := newWallet()
	require.NoError(t, walletDB.CreateWallet(w))

	got, err := walletDB.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Owner, got.Owner)
	assert.Equal(t, w.Phrase, got.Phrase)
	assert.Equal(t, w.Snapshot, got.Snapshot)

	info, err := walletDB.GetWalletInfo(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.WalletInfo, *info)

	err = walletDB.CreateWallet(w)
	assert.ErrorIs(t, err, dbt.ErrAlreadyExists)
}

func TestWalletNotFound(t *testing.T) {
	initTest(t)
	defer cleanupTest()

	_, err := walletDB.GetWallet(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	_, err = walletDB.GetWalletInfo(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	err = walletDB.UpdateWalletSnapshot(uuid.New(), tray.Snapshot{})
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	err = walletDB.DeleteWallet(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestIntentLifecycle(t *testing.T) {
	initTest(t)
	defer cleanupTest()

	w := newWallet()
	require.NoError(t, walletDB.CreateWallet(w))

	now := time.Now().UTC().Truncate(time.Millisecond)
	first := newIntent(w.ID, now)
	second := newIntent(w.ID, now.Add(time.Second))
	require.NoError(t, walletDB.CreateIntent(second))
	require.NoError(t, walletDB.CreateIntent(first))
	assert.ErrorIs(t, walletDB.CreateIntent(first), dbt.ErrAlreadyExists)

	orphan := newIntent(uuid.New(), now)
	assert.ErrorIs(t, walletDB.CreateIntent(orphan), dbt.ErrNotFound)

	list, err := walletDB.GetWalletIntents(w.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, first.Result, list[0].Result)

	tests := []struct {
		name    string
		from    dbt.IntentStatus
		to      dbt.IntentStatus
		wantErr error
	}{
		{"confirm pending", dbt.IntentPending, dbt.IntentConfirmed, nil},
		{"confirm again", dbt.IntentPending, dbt.IntentConfirmed, dbt.ErrStatusConflict},
		{"drop confirmed", dbt.IntentPending, dbt.IntentDropped, dbt.ErrStatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := walletDB.UpdateIntentStatus(first.ID, tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := walletDB.GetIntent(first.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}

	err = walletDB.UpdateIntentStatus("missing", dbt.IntentPending, dbt.IntentConfirmed)
	assert.ErrorIs(t, err, dbt.ErrNotFound)

	snapshot := first.Result
	require.NoError(t, walletDB.UpdateWalletSnapshot(w.ID, snapshot))
	got, err := walletDB.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Balances, got.Snapshot.Balances)

	require.NoError(t, walletDB.DeleteWallet(w.ID))
	_, err = walletDB.GetIntent(first.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestConfirmAndCommitIntent(t *testing.T) {
	initTest(t)
	defer cleanupTest()

	w := newWallet()
	require.NoError(t, walletDB.CreateWallet(w))

	pending := newIntent(w.ID, time.Now())
	require.NoError(t, walletDB.CreateIntent(pending))
	got, err := walletDB.ConfirmIntent(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, dbt.IntentConfirmed, got.Status)

	stored, err := walletDB.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.Result.Balances, stored.Snapshot.Balances)

	_, err = walletDB.ConfirmIntent(pending.ID)
	assert.ErrorIs(t, err, dbt.ErrStatusConflict)

	committed := newIntent(w.ID, time.Now())
	committed.Status = dbt.IntentConfirmed
	committed.Result = tray.Snapshot{Balances: map[tray.AccountType]kin.Kin{tray.Bucket(1): kin.FromKin(10)}}
	require.NoError(t, walletDB.CommitIntent(committed))

	stored, err = walletDB.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, committed.Result.Balances, stored.Snapshot.Balances)

	// failed commits leave the snapshot alone
	assert.ErrorIs(t, walletDB.CommitIntent(committed), dbt.ErrAlreadyExists)
	orphan := newIntent(uuid.New(), time.Now())
	assert.ErrorIs(t, walletDB.CommitIntent(orphan), dbt.ErrNotFound)
	stored, err = walletDB.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, committed.Result.Balances, stored.Snapshot.Balances)
}

func TestDataLoaderLists(t *testing.T) {
	initTest(t)
	defer cleanupTest()

	a, b := newWallet(), newWallet()
	require.NoError(t, walletDB.CreateWallet(a))
	require.NoError(t, walletDB.CreateWallet(b))
	require.NoError(t, walletDB.CreateIntent(newIntent(a.ID, time.Now())))

	ctx := context.Background()
	infos, err := walletDB.DataLoaderGetWalletInfoList(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, a.Owner, infos[a.ID].Owner)

	intents, err := walletDB.DataLoaderGetWalletIntentList(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, intents[a.ID], 1)
	assert.Empty(t, intents[b.ID])
}
