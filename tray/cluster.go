package tray

import (
	"codepay/keys"
)

// AccountCluster is an authority key together with the timelock accounts it
// owns. It never changes once created.
type AccountCluster struct {
	Index     int                   `json:"index"`
	Authority keys.DerivedKey       `json:"authority"`
	Timelock  keys.TimelockAccounts `json:"timelock"`
}

func NewAccountCluster(index int, authority keys.DerivedKey, cfg keys.TimelockConfig) (AccountCluster, error) {
	timelock, err := keys.DeriveTimelockAccounts(authority.PublicKey(), cfg)
	if err != nil {
		return AccountCluster{}, err
	}
	return AccountCluster{Index: index, Authority: authority, Timelock: timelock}, nil
}

func deriveCluster(m keys.Mnemonic, index int, path keys.Path, cfg keys.TimelockConfig) (AccountCluster, error) {
	authority, err := m.Derive(path)
	if err != nil {
		return AccountCluster{}, err
	}
	return NewAccountCluster(index, authority, cfg)
}

func (c AccountCluster) AuthorityPublicKey() keys.PublicKey {
	return c.Authority.PublicKey()
}

func (c AccountCluster) VaultPublicKey() keys.PublicKey {
	return c.Timelock.Vault.PublicKey
}

func (c AccountCluster) StatePublicKey() keys.PublicKey {
	return c.Timelock.State.PublicKey
}

// Account pairs an account type with its cluster.
type Account struct {
	Type    AccountType    `json:"type"`
	Cluster AccountCluster `json:"cluster"`
}
