package kin

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var quarksPerKin = decimal.NewFromInt(int64(QuarksPerKin))

// Rate is the price of one Kin in Currency.
type Rate struct {
	FX       decimal.Decimal `json:"fx"`
	Currency CurrencyCode    `json:"currency"`
}

// OneToOne is the identity rate used for amounts denominated in Kin.
var OneToOne = Rate{FX: decimal.NewFromInt(1), Currency: CurrencyKIN}

// Amount pairs a Kin value with the rate it was quoted at.
type Amount struct {
	Kin  Kin  `json:"quarks"`
	Rate Rate `json:"rate"`
}

// Fiat is the amount expressed in the rate's currency.
func (a Amount) Fiat() decimal.Decimal {
	return ToDecimal(a.Kin).Mul(a.Rate.FX)
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s (%s)", a.Fiat().StringFixed(2), a.Rate.Currency, a.Kin)
}

// AmountFromFiat converts a fiat value to Kin at rate, rounding up to the
// nearest quark.
func AmountFromFiat(fiat decimal.Decimal, rate Rate) (Amount, error) {
	if !rate.FX.IsPositive() {
		return Amount{}, errors.New("exchange rate must be positive")
	}
	if fiat.IsNegative() {
		return Amount{}, errors.New("fiat amount must not be negative")
	}
	quarks := fiat.Div(rate.FX).Mul(quarksPerKin).Ceil()
	return Amount{Kin: Kin(quarks.BigInt().Uint64()), Rate: rate}, nil
}

// ToDecimal returns k in whole Kin with quark precision.
func ToDecimal(k Kin) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(k.Quarks()), 0).Div(quarksPerKin)
}
