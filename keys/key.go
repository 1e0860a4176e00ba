package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

const PublicKeySize = ed25519.PublicKeySize

// PublicKey is a 32 byte ed25519 public key or program address. Its text
// form is base58.
type PublicKey [PublicKeySize]byte

func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 public key %q: %w", s, err)
	}
	if len(raw) != PublicKeySize {
		return pk, fmt.Errorf("invalid public key length %d for %q", len(raw), s)
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustParsePublicKey panics on malformed input; use it for constants only.
func MustParsePublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

func (pk PublicKey) Bytes() []byte {
	return append([]byte(nil), pk[:]...)
}

func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *PublicKey) UnmarshalText(b []byte) error {
	parsed, err := ParsePublicKey(string(b))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// KeyPair is an ed25519 signing key.
type KeyPair struct {
	Public  PublicKey
	private ed25519.PrivateKey
}

func GenerateKeyPair() (KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return keyPairFromPrivate(priv), nil
}

// KeyPairFromSeed expands a 32 byte seed into a key pair.
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, fmt.Errorf("invalid seed length %d", len(seed))
	}
	return keyPairFromPrivate(ed25519.NewKeyFromSeed(seed)), nil
}

func keyPairFromPrivate(priv ed25519.PrivateKey) KeyPair {
	var pk PublicKey
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return KeyPair{Public: pk, private: priv}
}

func (kp KeyPair) Seed() []byte {
	if kp.private == nil {
		return nil
	}
	return kp.private.Seed()
}

func (kp KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(kp.private, msg)
}

func Verify(pk PublicKey, msg, sig []byte) bool {
	return ed25519.Verify(pk[:], msg, sig)
}

// MarshalJSON exposes the public half only.
func (kp KeyPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PublicKey PublicKey `json:"publicKey"`
	}{kp.Public})
}
