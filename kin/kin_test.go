package kin_test

import (
	"testing"

	"codepay/kin"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinArithmetic(t *testing.T) {
	a := kin.FromKin(10)
	b := kin.FromQuarks(250_000)

	assert.Equal(t, uint64(1_000_000), a.Quarks())
	assert.Equal(t, uint64(2), b.TruncatedKin())
	assert.Equal(t, uint64(50_000), b.FractionalQuarks())
	assert.Equal(t, kin.FromQuarks(1_250_000), a.Add(b))
	assert.Equal(t, kin.FromQuarks(750_000), a.Sub(b))
	assert.Equal(t, kin.Kin(0), b.Sub(a), "subtraction saturates at zero")
	assert.Equal(t, kin.FromKin(30), a.Mul(3))
	assert.Equal(t, uint64(3), kin.FromKin(35).DivKin(10))
	assert.Equal(t, kin.FromKin(2), b.Truncated())
	assert.True(t, a.HasWholeKin())
	assert.False(t, kin.FromQuarks(99_999).HasWholeKin())
	assert.Equal(t, "K 2 (50000)", b.String())
}

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name   string
		amount kin.Kin
		bps    uint64
		want   kin.Kin
	}{
		{"one percent", kin.FromKin(100), 100, kin.FromKin(1)},
		{"half bps rounds down", kin.FromQuarks(3), 5000, kin.FromQuarks(1)},
		{"zero", kin.FromKin(100), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.amount.CalculateFee(tt.bps))
		})
	}
}

func TestCurrencyIndex(t *testing.T) {
	assert.Len(t, kin.Currencies(), 156)

	tests := []struct {
		code  kin.CurrencyCode
		index uint8
	}{
		{kin.CurrencyKIN, 0},
		{kin.CurrencyCAD, 26},
		{kin.CurrencyEUR, 43},
		{kin.CurrencyUSD, 140},
		{kin.CurrencyVED, 155},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			i, ok := tt.code.Index()
			require.True(t, ok)
			assert.Equal(t, tt.index, i)

			c, ok := kin.CurrencyAt(tt.index)
			require.True(t, ok)
			assert.Equal(t, tt.code, c)
		})
	}

	_, ok := kin.CurrencyAt(156)
	assert.False(t, ok)
	_, ok = kin.CurrencyCode("xxx").Index()
	assert.False(t, ok)
}

func TestParseCurrency(t *testing.T) {
	c, err := kin.ParseCurrency(" USD ")
	require.NoError(t, err)
	assert.Equal(t, kin.CurrencyUSD, c)

	_, err = kin.ParseCurrency("abc")
	assert.Error(t, err)
}

func TestAmountFromFiat(t *testing.T) {
	rate := kin.Rate{FX: decimal.RequireFromString("0.00001"), Currency: kin.CurrencyUSD}

	a, err := kin.AmountFromFiat(decimal.RequireFromString("5.00"), rate)
	require.NoError(t, err)
	assert.Equal(t, kin.FromKin(500_000), a.Kin)
	assert.True(t, decimal.RequireFromString("5").Equal(a.Fiat()))

	_, err = kin.AmountFromFiat(decimal.NewFromInt(1), kin.Rate{Currency: kin.CurrencyUSD})
	assert.Error(t, err)
	_, err = kin.AmountFromFiat(decimal.NewFromInt(-1), rate)
	assert.Error(t, err)
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "1.5", kin.ToDecimal(kin.FromQuarks(150_000)).String())
	assert.True(t, kin.OneToOne.FX.Equal(decimal.NewFromInt(1)))
}
