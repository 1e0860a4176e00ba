package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/keys"
	"codepay/kin"
	"codepay/libs/diff"
	"codepay/tray"
)

const testPhrase = "couple divorce usage surprise before range feature source bubble chunk spot away"

func newTray(t *testing.T) *tray.Tray {
	t.Helper()
	m, err := keys.ParseMnemonic(testPhrase, "")
	require.NoError(t, err)
	tr, err := tray.New(m)
	require.NoError(t, err)
	require.NoError(t, tr.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(1000)}))
	return tr
}

func TestTrayChanges(t *testing.T) {
	before := newTray(t)

	t.Run("no changes", func(t *testing.T) {
		changes, err := diff.TrayChanges(before, before.Clone())
		require.NoError(t, err)
		assert.Empty(t, changes)
	})

	t.Run("receive into buckets", func(t *testing.T) {
		after := before.Clone()
		_, err := after.Receive(tray.Primary, kin.FromKin(1000))
		require.NoError(t, err)

		changes, err := diff.TrayChanges(before, after)
		require.NoError(t, err)
		require.Len(t, changes, 2)
		assert.Equal(t, "balances.bucket:3", changes[0].Path)
		assert.Equal(t, "update", changes[0].Type)
		assert.Equal(t, uint64(0), changes[0].From)
		assert.Equal(t, kin.FromKin(1000).Quarks(), changes[0].To)
		assert.Equal(t, "balances.primary", changes[1].Path)
		assert.Equal(t, uint64(0), changes[1].To)
	})

	t.Run("rotate incoming", func(t *testing.T) {
		after := before.Clone()
		require.NoError(t, after.IncrementIncoming())

		changes, err := diff.TrayChanges(before, after)
		require.NoError(t, err)
		require.Len(t, changes, 1)

		oldVault, err := before.Cluster(tray.Incoming)
		require.NoError(t, err)
		newVault, err := after.Cluster(tray.Incoming)
		require.NoError(t, err)
		assert.Equal(t, diff.Change{
			Type: "update",
			Path: "vaults.incoming",
			From: oldVault.VaultPublicKey().String(),
			To:   newVault.VaultPublicKey().String(),
		}, changes[0])
	})

	t.Run("new relationship", func(t *testing.T) {
		after := before.Clone()
		_, err := after.CreateRelationship("example.com")
		require.NoError(t, err)

		changes, err := diff.TrayChanges(before, after)
		require.NoError(t, err)
		paths := make([]string, 0, len(changes))
		for _, c := range changes {
			assert.Equal(t, "create", c.Type)
			paths = append(paths, c.Path)
		}
		assert.Contains(t, paths, "vaults.relationship:example.com")
	})
}
