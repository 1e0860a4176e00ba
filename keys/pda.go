package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"codepay/config"

	"filippo.io/edwards25519"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"

	// TimelockLockoutDays and TimelockDataVersion are part of the account seeds.
	TimelockLockoutDays uint8 = 21
	TimelockDataVersion uint8 = 3
)

var ErrNoViableBump = errors.New("unable to find a viable program address bump seed")

// ProgramDerivedAccount is an off-curve address and the bump that produced it.
type ProgramDerivedAccount struct {
	PublicKey PublicKey `json:"publicKey"`
	Bump      uint8     `json:"bump"`
}

// CreateProgramAddress hashes seeds with program id and rejects results that
// lie on the ed25519 curve.
func CreateProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, error) {
	if len(seeds) > maxSeeds {
		return PublicKey{}, fmt.Errorf("too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return PublicKey{}, fmt.Errorf("seed too long: %d bytes", len(s))
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(pdaMarker))

	var pk PublicKey
	copy(pk[:], h.Sum(nil))
	if isOnCurve(pk) {
		return PublicKey{}, errors.New("program address lies on the curve")
	}
	return pk, nil
}

// FindProgramAddress tries bumps from 255 down to 0 and returns the first
// off-curve address.
func FindProgramAddress(seeds [][]byte, program PublicKey) (ProgramDerivedAccount, error) {
	if len(seeds) >= maxSeeds {
		return ProgramDerivedAccount{}, fmt.Errorf("too many seeds: %d", len(seeds))
	}
	withBump := append(append([][]byte(nil), seeds...), nil)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		pk, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return ProgramDerivedAccount{PublicKey: pk, Bump: uint8(bump)}, nil
		}
	}
	return ProgramDerivedAccount{}, ErrNoViableBump
}

func isOnCurve(pk PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}

// TimelockConfig names the program and accounts every timelock is bound to.
type TimelockConfig struct {
	Program       PublicKey
	Mint          PublicKey
	TimeAuthority PublicKey
}

// DefaultTimelockConfig reads addresses from config.
func DefaultTimelockConfig() TimelockConfig {
	return TimelockConfig{
		Program:       MustParsePublicKey(config.TimelockProgram()),
		Mint:          MustParsePublicKey(config.Mint()),
		TimeAuthority: MustParsePublicKey(config.TimeAuthority()),
	}
}

// TimelockAccounts are the state and vault accounts owned by an authority.
type TimelockAccounts struct {
	Owner PublicKey             `json:"owner"`
	State ProgramDerivedAccount `json:"state"`
	Vault ProgramDerivedAccount `json:"vault"`
}

func DeriveTimelockAccounts(owner PublicKey, cfg TimelockConfig) (TimelockAccounts, error) {
	state, err := FindProgramAddress([][]byte{
		[]byte("timelock_state"),
		cfg.Mint[:],
		cfg.TimeAuthority[:],
		owner[:],
		{TimelockLockoutDays},
	}, cfg.Program)
	if err != nil {
		return TimelockAccounts{}, fmt.Errorf("derive timelock state for %s: %w", owner, err)
	}
	vault, err := FindProgramAddress([][]byte{
		[]byte("timelock_vault"),
		state.PublicKey[:],
		{TimelockDataVersion},
	}, cfg.Program)
	if err != nil {
		return TimelockAccounts{}, fmt.Errorf("derive timelock vault for %s: %w", owner, err)
	}
	return TimelockAccounts{Owner: owner, State: state, Vault: vault}, nil
}
