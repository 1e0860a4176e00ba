package keys

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const defaultMnemonicBits = 128

// Mnemonic is a BIP39 phrase together with its cached seed.
type Mnemonic struct {
	phrase string
	seed   []byte
}

// NewMnemonic generates a fresh 12 word phrase.
func NewMnemonic() (Mnemonic, error) {
	entropy, err := bip39.NewEntropy(defaultMnemonicBits)
	if err != nil {
		return Mnemonic{}, err
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Mnemonic{}, err
	}
	return ParseMnemonic(phrase, "")
}

// ParseMnemonic validates the phrase checksum and derives the seed.
func ParseMnemonic(phrase, passphrase string) (Mnemonic, error) {
	phrase = strings.Join(strings.Fields(phrase), " ")
	seed, err := bip39.NewSeedWithErrorChecking(phrase, passphrase)
	if err != nil {
		return Mnemonic{}, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return Mnemonic{phrase: phrase, seed: seed}, nil
}

func (m Mnemonic) Words() []string {
	return strings.Fields(m.phrase)
}

func (m Mnemonic) Phrase() string {
	return m.phrase
}

func (m Mnemonic) Seed() []byte {
	return append([]byte(nil), m.seed...)
}

func (m Mnemonic) IsZero() bool {
	return len(m.seed) == 0
}

// String hides the phrase so it never lands in logs.
func (m Mnemonic) String() string {
	return fmt.Sprintf("Mnemonic(%d words)", len(m.Words()))
}

// Derive returns the ed25519 key at path.
func (m Mnemonic) Derive(path Path) (DerivedKey, error) {
	if m.IsZero() {
		return DerivedKey{}, fmt.Errorf("derive %s: empty mnemonic", path)
	}
	kp, err := deriveFromSeed(m.seed, path)
	if err != nil {
		return DerivedKey{}, fmt.Errorf("derive %s: %w", path, err)
	}
	return DerivedKey{Path: path, KeyPair: kp}, nil
}

// DerivedKey is a key pair and the path it was derived at.
type DerivedKey struct {
	Path    Path    `json:"path"`
	KeyPair KeyPair `json:"keyPair"`
}

func (d DerivedKey) PublicKey() PublicKey {
	return d.KeyPair.Public
}
