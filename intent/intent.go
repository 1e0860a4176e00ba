package intent

import (
	"fmt"

	"codepay/action"
	"codepay/keys"
	"codepay/tray"
)

type Kind int

const (
	KindCreateAccounts Kind = iota
	KindDeposit
	KindReceive
	KindPrivateTransfer
	KindPublicTransfer
)

var kindNames = [...]string{"createAccounts", "deposit", "receive", "privateTransfer", "publicTransfer"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown intent kind %q", s)
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

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidFee         Error = "fees must be less than the amount"
	ErrBalanceMismatch    Error = "planned balances do not add up"
	ErrInvalidAmount      Error = "amount must be greater than zero"
	ErrUnsupportedSource  Error = "unsupported source account"
	ErrUnsupportedRequest Error = "unsupported intent request"
	ErrMissingRendezvous  Error = "rendezvous key is required"
)

// Intent is a planned set of actions together with the tray that results
// from executing all of them.
type Intent struct {
	ID         keys.PublicKey `json:"id"`
	Kind       Kind           `json:"kind"`
	Actions    *action.Group  `json:"actions"`
	ResultTray *tray.Tray     `json:"-"`
	Metadata   Metadata       `json:"metadata"`
}

// Plan builds the intent for req against a copy of t. The tray passed in is
// never modified.
func Plan(t *tray.Tray, req Request) (*Intent, error) {
	var (
		in  *Intent
		err error
	)
	switch r := req.(type) {
	case CreateAccounts:
		in, err = planCreateAccounts(t.Clone(), r)
	case Deposit:
		in, err = planDeposit(t.Clone(), r)
	case Receive:
		in, err = planReceive(t.Clone(), r)
	case PrivateTransfer:
		in, err = planPrivateTransfer(t.Clone(), r)
	case PublicTransfer:
		in, err = planPublicTransfer(t.Clone(), r)
	default:
		return nil, fmt.Errorf("%T: %w", req, ErrUnsupportedRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", req.Kind(), err)
	}
	return in, nil
}

func intentID(id keys.PublicKey) (keys.PublicKey, error) {
	if !id.IsZero() {
		return id, nil
	}
	kp, err := keys.GenerateKeyPair()
	if err != nil {
		return keys.PublicKey{}, err
	}
	return kp.Public, nil
}

// exchangeActions turns tray exchanges into transfers between vaults. Any
// exchange into a bucket is an exchange, everything else uses transferKind.
func exchangeActions(t *tray.Tray, id keys.PublicKey, transferKind action.TransferKind, exchanges []tray.Exchange) ([]action.Action, error) {
	actions := make([]action.Action, 0, len(exchanges))
	for _, e := range exchanges {
		source, err := t.Cluster(e.From)
		if err != nil {
			return nil, err
		}
		dest, err := t.Cluster(e.To)
		if err != nil {
			return nil, err
		}
		kind := transferKind
		if e.To.IsBucket() && e.From.IsBucket() {
			kind = action.TempPrivacyExchange
		}
		actions = append(actions, action.NewTransfer(kind, id, e.Kin, e.From, source, dest.VaultPublicKey()))
	}
	return actions, nil
}
