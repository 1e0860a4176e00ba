package organizer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codepay/intent"
	"codepay/keys"
	"codepay/kin"
	"codepay/organizer"
	"codepay/tray"
)

const testPhrase = "couple divorce usage surprise before range feature source bubble chunk spot away"

func newOrganizer(t *testing.T) *organizer.Organizer {
	t.Helper()
	m, err := keys.ParseMnemonic(testPhrase, "")
	require.NoError(t, err)
	o, err := organizer.New(m)
	require.NoError(t, err)
	return o
}

func accept(context.Context, *intent.Intent) error { return nil }

func TestTrayIsACopy(t *testing.T) {
	o := newOrganizer(t)
	tr := o.Tray()
	require.NoError(t, tr.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(5)}))
	assert.Equal(t, kin.Kin(0), o.AvailableDepositBalance())

	o.Set(tr)
	assert.Equal(t, kin.FromKin(5), o.AvailableDepositBalance())
}

func TestPlanDoesNotCommit(t *testing.T) {
	o := newOrganizer(t)
	require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(100)}))

	in, err := o.Plan(intent.Deposit{Source: tray.Primary, Amount: kin.FromKin(100)})
	require.NoError(t, err)
	assert.Equal(t, kin.FromKin(100), in.ResultTray.SlotsBalance())
	assert.Equal(t, kin.Kin(0), o.SlotsBalance())
	assert.Equal(t, kin.FromKin(100), o.AvailableDepositBalance())
}

func TestSubmit(t *testing.T) {
	deposit := intent.Deposit{Source: tray.Primary, Amount: kin.FromKin(100)}

	t.Run("commits on success", func(t *testing.T) {
		o := newOrganizer(t)
		require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(100)}))

		var submitted *intent.Intent
		in, err := o.Submit(context.Background(), deposit, func(_ context.Context, in *intent.Intent) error {
			submitted = in
			return nil
		})
		require.NoError(t, err)
		assert.Same(t, submitted, in)
		assert.Equal(t, kin.FromKin(100), o.SlotsBalance())
		assert.Equal(t, kin.Kin(0), o.AvailableDepositBalance())
	})

	t.Run("failure leaves the tray", func(t *testing.T) {
		o := newOrganizer(t)
		require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(100)}))
		boom := errors.New("boom")

		_, err := o.Submit(context.Background(), deposit, func(context.Context, *intent.Intent) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, kin.Kin(0), o.SlotsBalance())
		assert.Equal(t, kin.FromKin(100), o.AvailableDepositBalance())
	})

	t.Run("cancelled after acknowledgement still commits", func(t *testing.T) {
		o := newOrganizer(t)
		require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(100)}))
		ctx, cancel := context.WithCancel(context.Background())

		in, err := o.Submit(ctx, deposit, func(context.Context, *intent.Intent) error {
			cancel()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, in.ResultTray.SlotsBalance(), o.SlotsBalance())
		assert.Equal(t, kin.FromKin(100), o.SlotsBalance())
		assert.Equal(t, kin.Kin(0), o.AvailableDepositBalance())
	})

	t.Run("cancelled before planning", func(t *testing.T) {
		o := newOrganizer(t)
		require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(100)}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		_, err := o.Submit(ctx, deposit, func(context.Context, *intent.Intent) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
		assert.Equal(t, kin.Kin(0), o.SlotsBalance())
	})

	t.Run("planning failure never calls submit", func(t *testing.T) {
		o := newOrganizer(t)
		called := false
		_, err := o.Submit(context.Background(), deposit, func(context.Context, *intent.Intent) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, tray.ErrInvalidSlotBalance)
		assert.False(t, called)
	})
}

func TestSubmitConcurrent(t *testing.T) {
	const n = 25
	o := newOrganizer(t)
	require.NoError(t, o.SetBalances(map[tray.AccountType]kin.Kin{tray.Primary: kin.FromKin(n * 10)}))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.Submit(context.Background(), intent.Deposit{Source: tray.Primary, Amount: kin.FromKin(10)}, accept)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, kin.FromKin(n*10), o.SlotsBalance())
	assert.Equal(t, kin.Kin(0), o.AvailableDepositBalance())
}

func TestSetAccountInfo(t *testing.T) {
	o := newOrganizer(t)
	m := o.Mnemonic()

	reference, err := tray.New(m)
	require.NoError(t, err)
	require.NoError(t, reference.SetIndex(tray.Outgoing, 3))
	_, err = reference.CreateRelationship("getcode.com")
	require.NoError(t, err)

	vault := func(accountType tray.AccountType) keys.PublicKey {
		c, err := reference.Cluster(accountType)
		require.NoError(t, err)
		return c.VaultPublicKey()
	}

	infos := map[keys.PublicKey]organizer.AccountInfo{
		vault(tray.Primary):                     {Type: tray.Primary, Balance: kin.FromKin(7)},
		vault(tray.Bucket(2)):                   {Type: tray.Bucket(2), Balance: kin.FromKin(300)},
		vault(tray.Outgoing):                    {Type: tray.Outgoing, Index: 3, Balance: kin.FromKin(4)},
		vault(tray.Relationship("getcode.com")): {Type: tray.Relationship("getcode.com"), Balance: kin.FromKin(9)},
		{0x01}:                                  {Type: tray.Bucket(3), Balance: kin.FromKin(1_000)},
		{0x02}:                                  {Type: tray.Incoming, Index: 5, Balance: kin.FromKin(11)},
	}
	require.NoError(t, o.SetAccountInfo(infos))

	tr := o.Tray()
	assert.Equal(t, kin.FromKin(7), tr.AvailableDepositBalance())
	assert.Equal(t, kin.FromKin(300), tr.PartialBalance(tray.Bucket(2)))
	assert.Equal(t, kin.FromKin(9), tr.PartialBalance(tray.Relationship("getcode.com")))
	assert.Equal(t, []string{"getcode.com"}, tr.Domains())

	outgoing, err := tr.Cluster(tray.Outgoing)
	require.NoError(t, err)
	assert.Equal(t, 3, outgoing.Index)
	assert.Equal(t, kin.FromKin(4), tr.PartialBalance(tray.Outgoing))

	// mismatched vaults are never applied
	assert.Equal(t, kin.Kin(0), tr.PartialBalance(tray.Bucket(3)))
	assert.Equal(t, kin.Kin(0), tr.AvailableIncomingBalance())
	incoming, err := tr.Cluster(tray.Incoming)
	require.NoError(t, err)
	assert.Equal(t, 5, incoming.Index)
}

func TestVaults(t *testing.T) {
	o := newOrganizer(t)
	tr := o.Tray()
	primary, err := tr.Cluster(tray.Primary)
	require.NoError(t, err)
	incoming, err := tr.Cluster(tray.Incoming)
	require.NoError(t, err)

	assert.Equal(t, primary.VaultPublicKey(), o.PrimaryVault())
	assert.Equal(t, incoming.VaultPublicKey(), o.IncomingVault())
	assert.Len(t, o.AllAccounts(), len(tr.AllAccounts()))
}
