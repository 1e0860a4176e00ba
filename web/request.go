package web

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"codepay/intent"
	"codepay/keys"
	"codepay/kin"
	"codepay/payload"
	"codepay/tray"
)

func IsSecureString(s string) bool {
	allowedSafeSymbols := map[rune]bool{
		'_': true,
		'-': true,
		'.': true,
		'@': true,
		' ': true,
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if _, ok := allowedSafeSymbols[r]; !ok {
				return false
			}
		}
	}
	return true
}

func VerifyStringRequest(s string) bool {
	return len(s) > 0 && len(s) <= 64 && IsSecureString(s)
}

type CreateWalletRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Mnemonic string `json:"mnemonic"`
}

type FeeRequest struct {
	Destination string `json:"destination"`
	BPS         uint64 `json:"bps"`
}

// IntentRequest is the JSON body of a planned intent. Amounts are quarks
// unless Fiat is set, in which case Quarks is derived from Fiat at FX.
type IntentRequest struct {
	Kind           string       `json:"kind" binding:"required"`
	Quarks         uint64       `json:"quarks"`
	Fiat           string       `json:"fiat"`
	Currency       string       `json:"currency"`
	FX             string       `json:"fx"`
	Source         string       `json:"source"`
	Destination    string       `json:"destination"`
	Rendezvous     string       `json:"rendezvous"`
	Fee            uint64       `json:"fee"`
	AdditionalFees []FeeRequest `json:"additionalFees"`
	IsWithdrawal   bool         `json:"isWithdrawal"`
	Tip            *intent.Tip  `json:"tip"`
	ChatID         string       `json:"chatId"`
	// Confirm plans and commits in one step.
	Confirm bool `json:"confirm"`
}

func (r IntentRequest) amount() (kin.Amount, error) {
	if r.Fiat == "" {
		return kin.Amount{Kin: kin.FromQuarks(r.Quarks), Rate: kin.OneToOne}, nil
	}
	fiat, err := decimal.NewFromString(r.Fiat)
	if err != nil {
		return kin.Amount{}, fmt.Errorf("invalid fiat amount %q: %w", r.Fiat, err)
	}
	fx, err := decimal.NewFromString(r.FX)
	if err != nil {
		return kin.Amount{}, fmt.Errorf("invalid exchange rate %q: %w", r.FX, err)
	}
	currency, err := kin.ParseCurrency(r.Currency)
	if err != nil {
		return kin.Amount{}, err
	}
	return kin.AmountFromFiat(fiat, kin.Rate{FX: fx, Currency: currency})
}

func (r IntentRequest) source(fallback tray.AccountType) (tray.AccountType, error) {
	if r.Source == "" {
		return fallback, nil
	}
	return tray.ParseAccountType(r.Source)
}

// ToRequest validates r and converts it to the planner's request type.
func (r IntentRequest) ToRequest() (intent.Request, error) {
	kind, err := intent.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	if r.ChatID != "" && !VerifyStringRequest(r.ChatID) {
		return nil, errors.New("invalid chat id")
	}
	if r.Tip != nil && (!VerifyStringRequest(r.Tip.Platform) || !VerifyStringRequest(r.Tip.Username)) {
		return nil, errors.New("invalid tip")
	}

	switch kind {
	case intent.KindCreateAccounts:
		return intent.CreateAccounts{}, nil

	case intent.KindDeposit:
		source, err := r.source(tray.Primary)
		if err != nil {
			return nil, err
		}
		return intent.Deposit{Source: source, Amount: kin.FromQuarks(r.Quarks)}, nil

	case intent.KindReceive:
		return intent.Receive{Amount: kin.FromQuarks(r.Quarks)}, nil

	case intent.KindPrivateTransfer:
		amount, err := r.amount()
		if err != nil {
			return nil, err
		}
		destination, err := keys.ParsePublicKey(r.Destination)
		if err != nil {
			return nil, fmt.Errorf("invalid destination: %w", err)
		}
		rendezvous, err := r.rendezvous(amount.Kin)
		if err != nil {
			return nil, err
		}
		fees := make([]intent.Fee, 0, len(r.AdditionalFees))
		for _, f := range r.AdditionalFees {
			pk, err := keys.ParsePublicKey(f.Destination)
			if err != nil {
				return nil, fmt.Errorf("invalid fee destination: %w", err)
			}
			fees = append(fees, intent.Fee{Destination: pk, BPS: f.BPS})
		}
		return intent.PrivateTransfer{
			Rendezvous:     rendezvous,
			Destination:    destination,
			Amount:         amount,
			Fee:            kin.FromQuarks(r.Fee),
			AdditionalFees: fees,
			IsWithdrawal:   r.IsWithdrawal,
			Tip:            r.Tip,
			ChatID:         r.ChatID,
		}, nil

	case intent.KindPublicTransfer:
		amount, err := r.amount()
		if err != nil {
			return nil, err
		}
		source, err := r.source(tray.Primary)
		if err != nil {
			return nil, err
		}
		destination, err := parseDestination(r.Destination)
		if err != nil {
			return nil, err
		}
		return intent.PublicTransfer{Source: source, Destination: destination, Amount: amount}, nil
	}
	return nil, intent.ErrUnsupportedRequest
}

// rendezvous parses the given key or derives one from a fresh cash payload
// for amount.
func (r IntentRequest) rendezvous(amount kin.Kin) (keys.PublicKey, error) {
	if r.Rendezvous != "" {
		pk, err := keys.ParsePublicKey(r.Rendezvous)
		if err != nil {
			return keys.PublicKey{}, fmt.Errorf("invalid rendezvous: %w", err)
		}
		return pk, nil
	}
	nonce, err := payload.NewNonce()
	if err != nil {
		return keys.PublicKey{}, err
	}
	kp, err := payload.NewCash(amount, nonce).Rendezvous()
	if err != nil {
		return keys.PublicKey{}, err
	}
	return kp.Public, nil
}

// parseDestination accepts an account type of the same wallet or a base58
// address.
func parseDestination(s string) (intent.Destination, error) {
	if strings.Contains(s, ":") || s == "primary" || s == "incoming" || s == "outgoing" {
		t, err := tray.ParseAccountType(s)
		if err != nil {
			return intent.Destination{}, err
		}
		return intent.LocalDestination(t), nil
	}
	pk, err := keys.ParsePublicKey(s)
	if err != nil {
		return intent.Destination{}, fmt.Errorf("invalid destination: %w", err)
	}
	return intent.ExternalDestination(pk), nil
}

// ParseBalances converts {"bucket:3": quarks} into tray balances.
func ParseBalances(raw map[string]uint64) (map[tray.AccountType]kin.Kin, error) {
	balances := make(map[tray.AccountType]kin.Kin, len(raw))
	for k, v := range raw {
		t, err := tray.ParseAccountType(k)
		if err != nil {
			return nil, err
		}
		balances[t] = kin.FromQuarks(v)
	}
	return balances, nil
}

// requestQuarks is the amount an intent moves, zero for account creation.
func requestQuarks(req intent.Request) uint64 {
	switch r := req.(type) {
	case intent.Deposit:
		return r.Amount.Quarks()
	case intent.Receive:
		return r.Amount.Quarks()
	case intent.PrivateTransfer:
		return r.Amount.Kin.Quarks()
	case intent.PublicTransfer:
		return r.Amount.Kin.Quarks()
	}
	return 0
}
