package kin

import (
	"fmt"
	"math"
)

// QuarksPerKin is the number of quarks in one whole Kin.
const QuarksPerKin uint64 = 100_000

// Kin is an amount counted in quarks.
type Kin uint64

// FromKin returns an amount of n whole Kin.
func FromKin(n uint64) Kin {
	return Kin(n * QuarksPerKin)
}

// FromQuarks returns an amount of q quarks.
func FromQuarks(q uint64) Kin {
	return Kin(q)
}

func (k Kin) Quarks() uint64 {
	return uint64(k)
}

// TruncatedKin is the number of whole Kin, dropping fractional quarks.
func (k Kin) TruncatedKin() uint64 {
	return uint64(k) / QuarksPerKin
}

func (k Kin) FractionalQuarks() uint64 {
	return uint64(k) - k.TruncatedKin()*QuarksPerKin
}

func (k Kin) HasWholeKin() bool {
	return k.TruncatedKin() > 0
}

// Truncated drops the fractional quarks.
func (k Kin) Truncated() Kin {
	return FromKin(k.TruncatedKin())
}

func (k Kin) Add(o Kin) Kin {
	return k + o
}

// Sub saturates at zero.
func (k Kin) Sub(o Kin) Kin {
	if o >= k {
		return 0
	}
	return k - o
}

func (k Kin) Mul(n uint64) Kin {
	return Kin(uint64(k) * n)
}

// DivKin returns how many times n whole Kin fit into the truncated value of k.
func (k Kin) DivKin(n uint64) uint64 {
	if n == 0 {
		return math.MaxUint64
	}
	return k.TruncatedKin() / n
}

// CalculateFee returns bps basis points of k, rounded down to the quark.
func (k Kin) CalculateFee(bps uint64) Kin {
	return Kin(uint64(k) * bps / 10_000)
}

func (k Kin) String() string {
	return fmt.Sprintf("K %d (%d)", k.TruncatedKin(), k.FractionalQuarks())
}
