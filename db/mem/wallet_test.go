package mem_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbt "codepay/db/db"
	"codepay/db/mem"
	"codepay/kin"
	"codepay/tray"
)

func setupTest() dbt.WalletDBWrapper {
	return mem.NewInMemoryWalletDBWrapper()
}

func newWallet() *dbt.Wallet {
	return &dbt.Wallet{
		WalletInfo: dbt.WalletInfo{ID: uuid.New(), Owner: "owner"},
		WalletData: dbt.WalletData{
			Phrase: "couple divorce usage surprise before range feature source bubble chunk spot away",
			Snapshot: tray.Snapshot{
				Denominations: []uint64{1, 10},
				Balances:      map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(5)},
			},
		},
	}
}

func newIntent(walletID uuid.UUID, id string, createdAt time.Time) *dbt.IntentRecord {
	return &dbt.IntentRecord{
		ID:        id,
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
	db := setupTest()
	w := newWallet()

	require.NoError(t, db.CreateWallet(w))

	got, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Owner, got.Owner)
	assert.Equal(t, w.Phrase, got.Phrase)
	assert.Equal(t, w.Snapshot, got.Snapshot)

	err = db.CreateWallet(w)
	assert.ErrorIs(t, err, dbt.ErrAlreadyExists)
}

func TestWalletIsCopied(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))

	w.Snapshot.Balances[tray.Primary] = kin.FromKin(100)
	got, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, kin.FromKin(5), got.Snapshot.Balances[tray.Primary])

	got.Snapshot.Balances[tray.Primary] = kin.FromKin(200)
	again, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, kin.FromKin(5), again.Snapshot.Balances[tray.Primary])
}

func TestGetWalletNotFound(t *testing.T) {
	db := setupTest()
	_, err := db.GetWallet(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	_, err = db.GetWalletInfo(uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestUpdateWalletSnapshot(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))

	next := tray.Snapshot{OutgoingIndex: 2, Balances: map[tray.AccountType]kin.Kin{tray.Bucket(1): kin.FromKin(10)}}
	require.NoError(t, db.UpdateWalletSnapshot(w.ID, next))

	got, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.Snapshot)

	assert.ErrorIs(t, db.UpdateWalletSnapshot(uuid.New(), next), dbt.ErrNotFound)
}

func TestIntents(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))

	now := time.Now()
	require.NoError(t, db.CreateIntent(newIntent(w.ID, "b", now.Add(time.Second))))
	require.NoError(t, db.CreateIntent(newIntent(w.ID, "a", now)))

	assert.ErrorIs(t, db.CreateIntent(newIntent(w.ID, "a", now)), dbt.ErrAlreadyExists)
	assert.ErrorIs(t, db.CreateIntent(newIntent(uuid.New(), "c", now)), dbt.ErrNotFound)

	records, err := db.GetWalletIntents(w.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)

	got, err := db.GetIntent("a")
	require.NoError(t, err)
	assert.Equal(t, dbt.IntentPending, got.Status)
	assert.Equal(t, kin.FromKin(5), got.Result.Balances[tray.Bucket(0)])
}

func TestUpdateIntentStatus(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))
	require.NoError(t, db.CreateIntent(newIntent(w.ID, "a", time.Now())))

	require.NoError(t, db.UpdateIntentStatus("a", dbt.IntentPending, dbt.IntentConfirmed))

	err := db.UpdateIntentStatus("a", dbt.IntentPending, dbt.IntentDropped)
	assert.ErrorIs(t, err, dbt.ErrStatusConflict)

	got, err := db.GetIntent("a")
	require.NoError(t, err)
	assert.Equal(t, dbt.IntentConfirmed, got.Status)

	assert.ErrorIs(t, db.UpdateIntentStatus("missing", dbt.IntentPending, dbt.IntentDropped), dbt.ErrNotFound)
}

func TestDeleteWallet(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))
	require.NoError(t, db.CreateIntent(newIntent(w.ID, "a", time.Now())))

	require.NoError(t, db.DeleteWallet(w.ID))
	_, err := db.GetWallet(w.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	_, err = db.GetIntent("a")
	assert.ErrorIs(t, err, dbt.ErrNotFound)

	assert.ErrorIs(t, db.DeleteWallet(w.ID), dbt.ErrNotFound)
}

func TestDataLoader(t *testing.T) {
	db := setupTest()
	a, b := newWallet(), newWallet()
	require.NoError(t, db.CreateWallet(a))
	require.NoError(t, db.CreateWallet(b))
	require.NoError(t, db.CreateIntent(newIntent(a.ID, "x", time.Now())))

	ctx := context.Background()
	infos, err := db.DataLoaderGetWalletInfoList(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, a.ID, infos[a.ID].ID)

	intents, err := db.DataLoaderGetWalletIntentList(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, intents[a.ID], 1)
	assert.Empty(t, intents[b.ID])

	loader := dbt.NewWalletDataLoader(db)
	info, err := loader.GetWalletInfoList.Load(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, info.ID)

	lists, err := loader.GetWalletIntentList.LoadAll(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "x", lists[0][0].ID)
}

func TestConfirmIntent(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))
	rec := newIntent(w.ID, "intent-1", time.Now())
	require.NoError(t, db.CreateIntent(rec))

	got, err := db.ConfirmIntent(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, dbt.IntentConfirmed, got.Status)

	stored, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Result.Balances, stored.Snapshot.Balances)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"already confirmed", rec.ID, dbt.ErrStatusConflict},
		{"unknown intent", "missing", dbt.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ConfirmIntent(tt.id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfirmIntentLeavesSnapshotOnConflict(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))
	rec := newIntent(w.ID, "intent-1", time.Now())
	require.NoError(t, db.CreateIntent(rec))
	require.NoError(t, db.UpdateIntentStatus(rec.ID, dbt.IntentPending, dbt.IntentDropped))

	_, err := db.ConfirmIntent(rec.ID)
	assert.ErrorIs(t, err, dbt.ErrStatusConflict)

	stored, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Snapshot, stored.Snapshot)
}

func TestCommitIntent(t *testing.T) {
	db := setupTest()
	w := newWallet()
	require.NoError(t, db.CreateWallet(w))

	rec := newIntent(w.ID, "intent-1", time.Now())
	rec.Status = dbt.IntentConfirmed
	require.NoError(t, db.CommitIntent(rec))

	stored, err := db.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Result.Balances, stored.Snapshot.Balances)
	got, err := db.GetIntent(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, dbt.IntentConfirmed, got.Status)

	t.Run("duplicate writes nothing", func(t *testing.T) {
		dup := newIntent(w.ID, rec.ID, time.Now())
		dup.Result = tray.Snapshot{Balances: map[tray.AccountType]kin.Kin{tray.Bucket(1): kin.FromKin(50)}}
		assert.ErrorIs(t, db.CommitIntent(dup), dbt.ErrAlreadyExists)

		stored, err := db.GetWallet(w.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.Result.Balances, stored.Snapshot.Balances)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		orphan := newIntent(uuid.New(), "intent-2", time.Now())
		assert.ErrorIs(t, db.CommitIntent(orphan), dbt.ErrNotFound)
		_, err := db.GetIntent(orphan.ID)
		assert.ErrorIs(t, err, dbt.ErrNotFound)
	})
}
