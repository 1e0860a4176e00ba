package action

import (
	"fmt"

	"codepay/keys"
	"codepay/kin"
	"codepay/tray"
)

type Kind int

const (
	KindOpenAccount Kind = iota
	KindTransfer
	KindWithdraw
	KindCloseEmptyAccount
	KindFeePayment
)

var kindNames = [...]string{"openAccount", "transfer", "withdraw", "closeEmptyAccount", "feePayment"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", b)
}

type TransferKind int

const (
	TempPrivacyTransfer TransferKind = iota
	TempPrivacyExchange
	NoPrivacyTransfer
)

var transferKindNames = [...]string{"tempPrivacyTransfer", "tempPrivacyExchange", "noPrivacyTransfer"}

func (k TransferKind) String() string {
	if k < 0 || int(k) >= len(transferKindNames) {
		return fmt.Sprintf("TransferKind(%d)", int(k))
	}
	return transferKindNames[k]
}

func (k TransferKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TransferKind) UnmarshalText(b []byte) error {
	for i, n := range transferKindNames {
		if n == string(b) {
			*k = TransferKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown transfer kind %q", b)
}

type WithdrawKind int

const (
	NoPrivacyWithdraw WithdrawKind = iota
	CloseDormantAccount
)

var withdrawKindNames = [...]string{"noPrivacyWithdraw", "closeDormantAccount"}

func (k WithdrawKind) String() string {
	if k < 0 || int(k) >= len(withdrawKindNames) {
		return fmt.Sprintf("WithdrawKind(%d)", int(k))
	}
	return withdrawKindNames[k]
}

func (k WithdrawKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WithdrawKind) UnmarshalText(b []byte) error {
	for i, n := range withdrawKindNames {
		if n == string(b) {
			*k = WithdrawKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown withdraw kind %q", b)
}

type FeeKind int

const (
	FeeCode FeeKind = iota
	FeeThirdParty
)

func (k FeeKind) String() string {
	if k == FeeThirdParty {
		return "thirdParty"
	}
	return "code"
}

func (k FeeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FeeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "code":
		*k = FeeCode
	case "thirdParty":
		*k = FeeThirdParty
	default:
		return fmt.Errorf("unknown fee kind %q", b)
	}
	return nil
}

// OpenAccount creates the timelock accounts of a cluster.
type OpenAccount struct {
	Owner   keys.PublicKey      `json:"owner"`
	Type    tray.AccountType    `json:"type"`
	Cluster tray.AccountCluster `json:"cluster"`
}

// Transfer moves Amount out of the Source vault.
type Transfer struct {
	Kind        TransferKind        `json:"kind"`
	IntentID    keys.PublicKey      `json:"intentId"`
	Amount      kin.Kin             `json:"quarks"`
	SourceType  tray.AccountType    `json:"sourceType"`
	Source      tray.AccountCluster `json:"source"`
	Destination keys.PublicKey      `json:"destination"`
}

// Withdraw empties Source into Destination. CloseDormantAccount withdraws
// whatever the account holds at execution time, so Amount is zero.
type Withdraw struct {
	Kind        WithdrawKind        `json:"kind"`
	Amount      kin.Kin             `json:"quarks"`
	SourceType  tray.AccountType    `json:"sourceType"`
	Source      tray.AccountCluster `json:"source"`
	Destination keys.PublicKey      `json:"destination"`
}

// CloseEmptyAccount closes an account that must hold no funds.
type CloseEmptyAccount struct {
	Type    tray.AccountType    `json:"type"`
	Cluster tray.AccountCluster `json:"cluster"`
}

// FeePayment pays a fee out of Source. Destination is only known up front for
// third party fees; the code fee destination comes from the server.
type FeePayment struct {
	Kind        FeeKind             `json:"kind"`
	Amount      kin.Kin             `json:"quarks"`
	Source      tray.AccountCluster `json:"source"`
	Destination *keys.PublicKey     `json:"destination,omitempty"`
}

// Action is one ledger operation. Exactly one of the typed fields is set,
// matching Kind.
type Action struct {
	ID   int  `json:"id"`
	Kind Kind `json:"kind"`

	OpenAccount       *OpenAccount       `json:"openAccount,omitempty"`
	Transfer          *Transfer          `json:"transfer,omitempty"`
	Withdraw          *Withdraw          `json:"withdraw,omitempty"`
	CloseEmptyAccount *CloseEmptyAccount `json:"closeEmptyAccount,omitempty"`
	FeePayment        *FeePayment        `json:"feePayment,omitempty"`

	ServerParameter *ServerParameter `json:"serverParameter,omitempty"`
}

func NewOpenAccount(owner keys.PublicKey, accountType tray.AccountType, cluster tray.AccountCluster) Action {
	return Action{Kind: KindOpenAccount, OpenAccount: &OpenAccount{Owner: owner, Type: accountType, Cluster: cluster}}
}

func NewTransfer(kind TransferKind, intentID keys.PublicKey, amount kin.Kin, sourceType tray.AccountType, source tray.AccountCluster, destination keys.PublicKey) Action {
	return Action{Kind: KindTransfer, Transfer: &Transfer{
		Kind:        kind,
		IntentID:    intentID,
		Amount:      amount,
		SourceType:  sourceType,
		Source:      source,
		Destination: destination,
	}}
}

func NewWithdraw(kind WithdrawKind, amount kin.Kin, sourceType tray.AccountType, source tray.AccountCluster, destination keys.PublicKey) Action {
	return Action{Kind: KindWithdraw, Withdraw: &Withdraw{
		Kind:        kind,
		Amount:      amount,
		SourceType:  sourceType,
		Source:      source,
		Destination: destination,
	}}
}

func NewCloseEmptyAccount(accountType tray.AccountType, cluster tray.AccountCluster) Action {
	return Action{Kind: KindCloseEmptyAccount, CloseEmptyAccount: &CloseEmptyAccount{Type: accountType, Cluster: cluster}}
}

func NewFeePayment(kind FeeKind, amount kin.Kin, source tray.AccountCluster, destination *keys.PublicKey) Action {
	return Action{Kind: KindFeePayment, FeePayment: &FeePayment{
		Kind:        kind,
		Amount:      amount,
		Source:      source,
		Destination: destination,
	}}
}

// Source is the cluster whose authority signs the action.
func (a Action) Source() tray.AccountCluster {
	switch a.Kind {
	case KindOpenAccount:
		return a.OpenAccount.Cluster
	case KindTransfer:
		return a.Transfer.Source
	case KindWithdraw:
		return a.Withdraw.Source
	case KindCloseEmptyAccount:
		return a.CloseEmptyAccount.Cluster
	case KindFeePayment:
		return a.FeePayment.Source
	}
	return tray.AccountCluster{}
}

func (a Action) Signer() keys.PublicKey {
	return a.Source().AuthorityPublicKey()
}

// Amount is the quantity the action moves, zero for account management.
func (a Action) Amount() kin.Kin {
	switch a.Kind {
	case KindTransfer:
		return a.Transfer.Amount
	case KindWithdraw:
		return a.Withdraw.Amount
	case KindFeePayment:
		return a.FeePayment.Amount
	}
	return 0
}

func (a Action) String() string {
	switch a.Kind {
	case KindOpenAccount:
		return fmt.Sprintf("%d open %s %s", a.ID, a.OpenAccount.Type, a.OpenAccount.Cluster.VaultPublicKey())
	case KindTransfer:
		return fmt.Sprintf("%d %s %s -> %s (%s)", a.ID, a.Transfer.Kind, a.Transfer.Amount, a.Transfer.Destination, a.Transfer.SourceType)
	case KindWithdraw:
		return fmt.Sprintf("%d %s %s -> %s (%s)", a.ID, a.Withdraw.Kind, a.Withdraw.Amount, a.Withdraw.Destination, a.Withdraw.SourceType)
	case KindCloseEmptyAccount:
		return fmt.Sprintf("%d close %s %s", a.ID, a.CloseEmptyAccount.Type, a.CloseEmptyAccount.Cluster.VaultPublicKey())
	case KindFeePayment:
		return fmt.Sprintf("%d fee %s %s", a.ID, a.FeePayment.Kind, a.FeePayment.Amount)
	}
	return fmt.Sprintf("%d %s", a.ID, a.Kind)
}
