package intent

import (
	"codepay/keys"
	"codepay/kin"
	"codepay/tray"
)

// Request is one of CreateAccounts, Deposit, Receive, PrivateTransfer or
// PublicTransfer.
type Request interface {
	Kind() Kind
	request()
}

// CreateAccounts opens every account of the tray. A zero ID is replaced by a
// random one; setting it keeps retries stable.
type CreateAccounts struct {
	ID keys.PublicKey `json:"id"`
}

// Deposit moves funds from the primary or a relationship account into the
// buckets.
type Deposit struct {
	ID     keys.PublicKey   `json:"id"`
	Source tray.AccountType `json:"source"`
	Amount kin.Kin          `json:"quarks"`
}

// Receive moves funds that arrived in the incoming account into the buckets
// and rotates the incoming account.
type Receive struct {
	ID     keys.PublicKey `json:"id"`
	Amount kin.Kin        `json:"quarks"`
}

// Fee is a third party fee in basis points of the gross amount.
type Fee struct {
	Destination keys.PublicKey `json:"destination"`
	BPS         uint64         `json:"bps"`
}

type Tip struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// PrivateTransfer pays Destination out of the buckets through a fresh
// outgoing account. The intent id is the rendezvous public key.
type PrivateTransfer struct {
	Rendezvous     keys.PublicKey `json:"rendezvous"`
	Destination    keys.PublicKey `json:"destination"`
	Amount         kin.Amount     `json:"amount"`
	Fee            kin.Kin        `json:"fee"`
	AdditionalFees []Fee          `json:"additionalFees,omitempty"`
	IsWithdrawal   bool           `json:"isWithdrawal"`
	Tip            *Tip           `json:"tip,omitempty"`
	ChatID         string         `json:"chatId,omitempty"`
}

// Destination is either an account of the same tray or an external address.
type Destination struct {
	Local    *tray.AccountType `json:"local,omitempty"`
	External *keys.PublicKey   `json:"external,omitempty"`
}

func LocalDestination(t tray.AccountType) Destination {
	return Destination{Local: &t}
}

func ExternalDestination(pk keys.PublicKey) Destination {
	return Destination{External: &pk}
}

// PublicTransfer moves funds directly from Source without buckets or
// rotation.
type PublicTransfer struct {
	ID          keys.PublicKey   `json:"id"`
	Source      tray.AccountType `json:"source"`
	Destination Destination      `json:"destination"`
	Amount      kin.Amount       `json:"amount"`
}

func (CreateAccounts) Kind() Kind  { return KindCreateAccounts }
func (Deposit) Kind() Kind         { return KindDeposit }
func (Receive) Kind() Kind         { return KindReceive }
func (PrivateTransfer) Kind() Kind { return KindPrivateTransfer }
func (PublicTransfer) Kind() Kind  { return KindPublicTransfer }

func (CreateAccounts) request()  {}
func (Deposit) request()         {}
func (Receive) request()         {}
func (PrivateTransfer) request() {}
func (PublicTransfer) request()  {}
