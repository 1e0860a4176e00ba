package payload

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"codepay/keys"
	"codepay/kin"
)

const (
	Size      = 20
	NonceSize = 11

	kindOffset  = 0
	valueOffset = 1
	nonceOffset = 9

	maxFiatCents = 1<<56 - 1
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidDataSize      Error = "payload must be exactly 20 bytes"
	ErrInvalidKind          Error = "unknown payload kind"
	ErrInvalidCurrencyIndex Error = "unknown currency index"
	ErrValueOutOfRange      Error = "fiat amount does not fit in 56 bits"
)

type Kind uint8

const (
	KindCash Kind = iota
	KindGiftCard
	KindRequestPayment
)

var kindNames = [...]string{"cash", "giftCard", "requestPayment"}

func (k Kind) valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidKind)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Nonce [NonceSize]byte

// NewNonce returns a random nonce. A fresh one is used for every payment.
func NewNonce() (Nonce, error) {
	var n Nonce
	if _, err := rand.Read(n[:]); err != nil {
		return n, fmt.Errorf("read nonce: %w", err)
	}
	return n, nil
}

func ParseNonce(s string) (Nonce, error) {
	var n Nonce
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("decode nonce: %w", err)
	}
	if len(b) != NonceSize {
		return n, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(b))
	}
	copy(n[:], b)
	return n, nil
}

func (n Nonce) String() string {
	return hex.EncodeToString(n[:])
}

func (n Nonce) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Nonce) UnmarshalText(b []byte) error {
	parsed, err := ParseNonce(string(b))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Fiat is an amount in a currency, carried with two decimal places.
type Fiat struct {
	Currency kin.CurrencyCode `json:"currency"`
	Amount   decimal.Decimal  `json:"amount"`
}

func (f Fiat) String() string {
	return fmt.Sprintf("%s %s", f.Amount.StringFixed(2), f.Currency)
}

// Payload is the content of a scan code. Kin is set for cash and gift cards,
// Fiat for payment requests.
type Payload struct {
	Kind  Kind    `json:"kind"`
	Kin   kin.Kin `json:"quarks,omitempty"`
	Fiat  *Fiat   `json:"fiat,omitempty"`
	Nonce Nonce   `json:"nonce"`
}

func NewCash(k kin.Kin, nonce Nonce) Payload {
	return Payload{Kind: KindCash, Kin: k, Nonce: nonce}
}

func NewGiftCard(k kin.Kin, nonce Nonce) Payload {
	return Payload{Kind: KindGiftCard, Kin: k, Nonce: nonce}
}

func NewRequestPayment(fiat Fiat, nonce Nonce) Payload {
	return Payload{Kind: KindRequestPayment, Fiat: &fiat, Nonce: nonce}
}

func (p Payload) String() string {
	if p.Kind == KindRequestPayment && p.Fiat != nil {
		return fmt.Sprintf("%s %s %s", p.Kind, p.Fiat, p.Nonce)
	}
	return fmt.Sprintf("%s %s %s", p.Kind, p.Kin, p.Nonce)
}

// Encode writes the 20 byte form.
func (p Payload) Encode() ([]byte, error) {
	var offset int
	data := make([]byte, Size)

	if !p.Kind.valid() {
		return nil, ErrInvalidKind
	}
	putUint8(data, uint8(p.Kind), &offset)

	switch p.Kind {
	case KindCash, KindGiftCard:
		putUint64(data, p.Kin.Quarks(), &offset)
	case KindRequestPayment:
		if p.Fiat == nil {
			return nil, fmt.Errorf("request payment without fiat amount: %w", ErrValueOutOfRange)
		}
		index, ok := p.Fiat.Currency.Index()
		if !ok {
			return nil, fmt.Errorf("%s: %w", p.Fiat.Currency, ErrInvalidCurrencyIndex)
		}
		cents := p.Fiat.Amount.Shift(2).Round(0)
		if cents.IsNegative() || cents.GreaterThan(decimal.NewFromInt(maxFiatCents)) {
			return nil, fmt.Errorf("%s: %w", p.Fiat, ErrValueOutOfRange)
		}
		putUint8(data, index, &offset)
		putUint56(data, uint64(cents.IntPart()), &offset)
	}

	putNonce(data, p.Nonce, &offset)
	return data, nil
}

// Decode parses the 20 byte form.
func Decode(data []byte) (Payload, error) {
	if len(data) != Size {
		return Payload{}, ErrInvalidDataSize
	}

	offset := kindOffset
	p := Payload{Kind: Kind(getUint8(data, &offset))}
	if !p.Kind.valid() {
		return Payload{}, ErrInvalidKind
	}

	switch p.Kind {
	case KindCash, KindGiftCard:
		p.Kin = kin.FromQuarks(getUint64(data, &offset))
	case KindRequestPayment:
		currency, ok := kin.CurrencyAt(getUint8(data, &offset))
		if !ok {
			return Payload{}, ErrInvalidCurrencyIndex
		}
		cents := getUint56(data, &offset)
		p.Fiat = &Fiat{
			Currency: currency,
			Amount:   decimal.NewFromBigInt(new(big.Int).SetUint64(cents), -2),
		}
	}

	p.Nonce = getNonce(data, &offset)
	return p, nil
}

// Rendezvous derives the key pair both parties of a payment agree on from
// the encoded payload.
func (p Payload) Rendezvous() (keys.KeyPair, error) {
	data, err := p.Encode()
	if err != nil {
		return keys.KeyPair{}, err
	}
	seed := sha256.Sum256(data)
	return keys.KeyPairFromSeed(seed[:])
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset++
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func putUint56(dst []byte, v uint64, offset *int) {
	for i := 0; i < 7; i++ {
		dst[*offset+i] = byte(v >> (8 * i))
	}
	*offset += 7
}

func putNonce(dst []byte, n Nonce, offset *int) {
	*offset = nonceOffset
	copy(dst[*offset:], n[:])
	*offset += NonceSize
}

func getUint8(src []byte, offset *int) uint8 {
	v := src[*offset]
	*offset++
	return v
}

func getUint64(src []byte, offset *int) uint64 {
	v := binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return v
}

func getUint56(src []byte, offset *int) uint64 {
	var v uint64
	for i := 0; i < 7; i++ {
		v |= uint64(src[*offset+i]) << (8 * i)
	}
	*offset += 7
	return v
}

func getNonce(src []byte, offset *int) Nonce {
	var n Nonce
	*offset = nonceOffset
	copy(n[:], src[*offset:])
	*offset += NonceSize
	return n
}
