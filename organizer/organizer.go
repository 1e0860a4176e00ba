package organizer

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"codepay/intent"
	"codepay/keys"
	"codepay/kin"
	"codepay/tray"
)

// SubmitFunc hands a planned intent to the server. The organizer commits the
// intent's result tray only when it returns nil.
type SubmitFunc func(ctx context.Context, in *intent.Intent) error

// AccountInfo is what the server reports for one vault.
type AccountInfo struct {
	Type    tray.AccountType `json:"type"`
	Index   int              `json:"index"`
	Balance kin.Kin          `json:"quarks"`
}

// Organizer owns the authoritative tray of one wallet. All reads return
// copies and all writes replace the tray under the lock.
type Organizer struct {
	mu       sync.Mutex
	mnemonic keys.Mnemonic
	tray     *tray.Tray
}

func New(m keys.Mnemonic, opts ...tray.Option) (*Organizer, error) {
	t, err := tray.New(m, opts...)
	if err != nil {
		return nil, err
	}
	return &Organizer{mnemonic: m, tray: t}, nil
}

// FromTray wraps an existing tray, typically one restored from storage.
func FromTray(t *tray.Tray) *Organizer {
	return &Organizer{mnemonic: t.Mnemonic(), tray: t.Clone()}
}

func (o *Organizer) Mnemonic() keys.Mnemonic {
	return o.mnemonic
}

// Tray returns a copy of the current tray.
func (o *Organizer) Tray() *tray.Tray {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.Clone()
}

// Set replaces the current tray. It is the only way a planned result becomes
// authoritative outside of Submit.
func (o *Organizer) Set(t *tray.Tray) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tray = t.Clone()
}

// Plan builds an intent against the current tray without committing it.
func (o *Organizer) Plan(req intent.Request) (*intent.Intent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return intent.Plan(o.tray, req)
}

// Submit plans req, passes the intent to submit and commits the result tray
// once submit returns nil, even if ctx is cancelled after the acknowledgement.
// The lock is held throughout so concurrent submissions are planned against
// each other's results.
func (o *Organizer) Submit(ctx context.Context, req intent.Request, submit SubmitFunc) (*intent.Intent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := intent.Plan(o.tray, req)
	if err != nil {
		return nil, err
	}
	if err := submit(ctx, in); err != nil {
		return nil, fmt.Errorf("submit %s %s: %w", in.Kind, in.ID, err)
	}
	o.tray = in.ResultTray.Clone()
	return in, nil
}

// SetBalances overwrites the listed balances.
func (o *Organizer) SetBalances(balances map[tray.AccountType]kin.Kin) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.SetBalances(balances)
}

// SetAccountInfo applies server reported balances keyed by vault. Unknown
// relationships are created. An incoming or outgoing vault that does not
// match is re-derived at the reported index; any other mismatch is skipped.
func (o *Organizer) SetAccountInfo(infos map[keys.PublicKey]AccountInfo) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	vaults := make([]keys.PublicKey, 0, len(infos))
	for v := range infos {
		vaults = append(vaults, v)
	}
	sort.Slice(vaults, func(i, j int) bool {
		return infos[vaults[i]].Type.String() < infos[vaults[j]].Type.String()
	})

	next := o.tray.Clone()
	balances := make(map[tray.AccountType]kin.Kin, len(infos))
	for _, vault := range vaults {
		info := infos[vault]
		if info.Type.Kind == tray.KindRelationship {
			if _, err := next.CreateRelationship(info.Type.Domain); err != nil {
				return err
			}
		}

		cluster, err := next.Cluster(info.Type)
		if err != nil {
			log.Printf("Skipping account %s: %v", vault, err)
			continue
		}
		if cluster.VaultPublicKey() == vault {
			balances[info.Type] = info.Balance
			continue
		}

		switch info.Type.Kind {
		case tray.KindIncoming, tray.KindOutgoing:
			log.Printf("Updating %s index to %d", info.Type, info.Index)
			if err := next.SetIndex(info.Type, info.Index); err != nil {
				return err
			}
			cluster, err = next.Cluster(info.Type)
			if err != nil {
				return err
			}
			if cluster.VaultPublicKey() != vault {
				log.Printf("Indexed account mismatch for %s %d: have %s, server reported %s", info.Type, info.Index, cluster.VaultPublicKey(), vault)
				continue
			}
			balances[info.Type] = info.Balance
		default:
			log.Printf("Account mismatch for %s: have %s, server reported %s", info.Type, cluster.VaultPublicKey(), vault)
		}
	}

	if err := next.SetBalances(balances); err != nil {
		return err
	}
	o.tray = next
	return nil
}

func (o *Organizer) SlotsBalance() kin.Kin {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.SlotsBalance()
}

func (o *Organizer) AvailableBalance() kin.Kin {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.AvailableBalance()
}

func (o *Organizer) AvailableDepositBalance() kin.Kin {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.AvailableDepositBalance()
}

func (o *Organizer) AvailableIncomingBalance() kin.Kin {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.AvailableIncomingBalance()
}

func (o *Organizer) AvailableRelationshipBalance() kin.Kin {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.AvailableRelationshipBalance()
}

func (o *Organizer) PrimaryVault() keys.PublicKey {
	return o.vault(tray.Primary)
}

func (o *Organizer) IncomingVault() keys.PublicKey {
	return o.vault(tray.Incoming)
}

func (o *Organizer) vault(accountType tray.AccountType) keys.PublicKey {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, _ := o.tray.Cluster(accountType)
	return c.VaultPublicKey()
}

func (o *Organizer) AllAccounts() []tray.Account {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tray.AllAccounts()
}
