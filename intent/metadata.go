package intent

import (
	"github.com/shopspring/decimal"

	"codepay/keys"
	"codepay/kin"
)

// Metadata describes the intent to the server. Exactly one field is set.
type Metadata struct {
	OpenAccounts             *OpenAccountsMetadata     `json:"openAccounts,omitempty"`
	ReceivePaymentsPrivately *ReceivePaymentsPrivately `json:"receivePaymentsPrivately,omitempty"`
	SendPrivatePayment       *SendPrivatePayment       `json:"sendPrivatePayment,omitempty"`
	SendPublicPayment        *SendPublicPayment        `json:"sendPublicPayment,omitempty"`
}

type OpenAccountsMetadata struct{}

type ReceivePaymentsPrivately struct {
	Source    keys.PublicKey `json:"source"`
	Quarks    kin.Kin        `json:"quarks"`
	IsDeposit bool           `json:"isDeposit"`
}

type ExchangeData struct {
	Currency     kin.CurrencyCode `json:"currency"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	NativeAmount decimal.Decimal  `json:"nativeAmount"`
	Quarks       kin.Kin          `json:"quarks"`
}

func exchangeData(a kin.Amount) ExchangeData {
	return ExchangeData{
		Currency:     a.Rate.Currency,
		ExchangeRate: a.Rate.FX,
		NativeAmount: a.Fiat(),
		Quarks:       a.Kin,
	}
}

type SendPrivatePayment struct {
	Destination  keys.PublicKey `json:"destination"`
	IsWithdrawal bool           `json:"isWithdrawal"`
	ExchangeData ExchangeData   `json:"exchangeData"`
	Tip          *Tip           `json:"tip,omitempty"`
	ChatID       string         `json:"chatId,omitempty"`
}

type SendPublicPayment struct {
	Source       keys.PublicKey `json:"source"`
	Destination  keys.PublicKey `json:"destination"`
	IsWithdrawal bool           `json:"isWithdrawal"`
	ExchangeData ExchangeData   `json:"exchangeData"`
}
