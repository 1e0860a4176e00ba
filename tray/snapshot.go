package tray

import (
	"fmt"

	"codepay/keys"
	"codepay/kin"
)

// Snapshot is the persistable state of a tray. Keys are re-derived from the
// mnemonic on restore, so it holds no key material.
type Snapshot struct {
	Denominations []uint64                `json:"denominations"`
	IncomingIndex int                     `json:"incomingIndex"`
	OutgoingIndex int                     `json:"outgoingIndex"`
	Relationships []string                `json:"relationships,omitempty"`
	Balances      map[AccountType]kin.Kin `json:"balances"`
}

func (t *Tray) Snapshot() Snapshot {
	return Snapshot{
		Denominations: t.Denominations(),
		IncomingIndex: t.incoming.cluster.Index,
		OutgoingIndex: t.outgoing.cluster.Index,
		Relationships: t.Domains(),
		Balances:      t.Balances(),
	}
}

// Restore rebuilds the tray described by s for the owner of m.
func Restore(m keys.Mnemonic, s Snapshot, opts ...Option) (*Tray, error) {
	if len(s.Denominations) > 0 {
		opts = append(opts, WithDenominations(s.Denominations...))
	}
	t, err := New(m, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.SetIndex(Incoming, s.IncomingIndex); err != nil {
		return nil, err
	}
	if err := t.SetIndex(Outgoing, s.OutgoingIndex); err != nil {
		return nil, err
	}
	for _, d := range s.Relationships {
		if _, err := t.CreateRelationship(d); err != nil {
			return nil, err
		}
	}
	if err := t.SetBalances(s.Balances); err != nil {
		return nil, fmt.Errorf("restore balances: %w", err)
	}
	return t, nil
}
