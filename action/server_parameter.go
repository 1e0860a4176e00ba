package action

import (
	"fmt"

	"github.com/mr-tron/base58"

	"codepay/keys"
)

const HashSize = 32

// Hash is a 32-byte block hash or merkle root.
type Hash [HashSize]byte

func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("decode hash: %w", err)
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) String() string {
	return base58.Encode(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(b []byte) error {
	parsed, err := ParseHash(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// NonceConfig is a durable nonce the server reserved for one transaction.
type NonceConfig struct {
	Nonce     keys.PublicKey `json:"nonce"`
	Blockhash Hash           `json:"blockhash"`
}

type TempPrivacyParameter struct {
	Treasury   keys.PublicKey `json:"treasury"`
	RecentRoot Hash           `json:"recentRoot"`
}

type FeePaymentParameter struct {
	Destination *keys.PublicKey `json:"destination,omitempty"`
}

// Parameter holds the kind specific server data. Both fields are nil for
// actions with permanent privacy or none at all.
type Parameter struct {
	TempPrivacy *TempPrivacyParameter `json:"tempPrivacy,omitempty"`
	FeePayment  *FeePaymentParameter  `json:"feePayment,omitempty"`
}

// ServerParameter is what the server returns for each planned action before
// the client signs it.
type ServerParameter struct {
	ActionID  int           `json:"actionId"`
	Parameter Parameter     `json:"parameter"`
	Configs   []NonceConfig `json:"configs"`
}
