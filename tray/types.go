package tray

import (
	"fmt"
	"strconv"
	"strings"

	"codepay/kin"
)

type AccountKind int

const (
	KindPrimary AccountKind = iota
	KindBucket
	KindIncoming
	KindOutgoing
	KindRemoteSend
	KindRelationship
)

var kindNames = map[AccountKind]string{
	KindPrimary:      "primary",
	KindBucket:       "bucket",
	KindIncoming:     "incoming",
	KindOutgoing:     "outgoing",
	KindRemoteSend:   "remoteSend",
	KindRelationship: "relationship",
}

func (k AccountKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("AccountKind(%d)", int(k))
}

// AccountType identifies one account of a tray. Slot is set for buckets and
// Domain for relationships. It is comparable and can be used as a map key.
type AccountType struct {
	Kind   AccountKind
	Slot   int
	Domain string
}

var (
	Primary    = AccountType{Kind: KindPrimary}
	Incoming   = AccountType{Kind: KindIncoming}
	Outgoing   = AccountType{Kind: KindOutgoing}
	RemoteSend = AccountType{Kind: KindRemoteSend}
)

// Bucket is the denomination bucket at slot index.
func Bucket(slot int) AccountType {
	return AccountType{Kind: KindBucket, Slot: slot}
}

func Relationship(domain string) AccountType {
	return AccountType{Kind: KindRelationship, Domain: strings.ToLower(domain)}
}

func (t AccountType) IsBucket() bool {
	return t.Kind == KindBucket
}

// String is the text form used in JSON, CLI flags and storage: primary,
// incoming, outgoing, remoteSend, bucket:<slot>, relationship:<domain>.
func (t AccountType) String() string {
	switch t.Kind {
	case KindBucket:
		return "bucket:" + strconv.Itoa(t.Slot)
	case KindRelationship:
		return "relationship:" + t.Domain
	default:
		return t.Kind.String()
	}
}

func ParseAccountType(s string) (AccountType, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	switch name {
	case "primary":
		return Primary, nil
	case "incoming":
		return Incoming, nil
	case "outgoing":
		return Outgoing, nil
	case "remoteSend":
		return RemoteSend, nil
	case "bucket":
		slot, err := strconv.Atoi(arg)
		if !hasArg || err != nil || slot < 0 {
			return AccountType{}, fmt.Errorf("invalid bucket account type %q", s)
		}
		return Bucket(slot), nil
	case "relationship":
		if !hasArg || arg == "" {
			return AccountType{}, fmt.Errorf("invalid relationship account type %q", s)
		}
		return Relationship(arg), nil
	}
	return AccountType{}, fmt.Errorf("unknown account type %q", s)
}

func (t AccountType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AccountType) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Exchange is one movement of funds between two accounts of the same tray.
type Exchange struct {
	From AccountType `json:"from"`
	To   AccountType `json:"to"`
	Kin  kin.Kin     `json:"quarks"`
}

func (e Exchange) String() string {
	return fmt.Sprintf("(%s -> %s) - %s", e.From, e.To, e.Kin)
}

// TotalAmount sums every exchange amount.
func TotalAmount(exchanges []Exchange) kin.Kin {
	var total kin.Kin
	for _, e := range exchanges {
		total = total.Add(e.Kin)
	}
	return total
}

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidAmount           Error = "invalid amount"
	ErrInsufficientTrayBalance Error = "insufficient tray balance"
	ErrInvalidSlotBalance      Error = "invalid slot balance"
	ErrInvalidStepIndex        Error = "invalid step index"
	ErrSlotAtIndexEmpty        Error = "slot at index is empty"
	ErrInsufficientBalance     Error = "insufficient account balance"
	ErrUnknownAccount          Error = "unknown account"
	ErrUnsupportedAccount      Error = "unsupported account type"
	ErrInvalidDenominations    Error = "invalid denominations"
	ErrInvalidIndex            Error = "account index out of range"
)
