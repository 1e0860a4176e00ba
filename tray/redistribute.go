package tray

import (
	"codepay/kin"
)

// Redistribute reshapes the buckets so that there are no empty buckets
// between non-empty ones while keeping the number of bills low.
//
// First, large bills are broken into smaller ones, recursively, whenever the
// bucket below holds fewer bills than it needs to make change on its own.
// Then, buckets holding far more bills than needed promote the surplus to
// the next bucket up.
//
// For example, 1, 0, 10, 10 bills of 1, 10, 100 and 1000 Kin become
// 11, 9, 9, 10.
func (t *Tray) Redistribute() []Exchange {
	exchanges := t.exchangeLargeToSmall()
	return append(exchanges, t.exchangeSmallToLarge()...)
}

// exchangeLargeToSmall walks the buckets from the largest down and breaks one
// bill into the next bucket when that bucket holds fewer than fit-1 bills.
func (t *Tray) exchangeLargeToSmall() []Exchange {
	var exchanges []Exchange

	for i := len(t.slots) - 1; i > 0; i-- {
		current := t.slots[i]
		smaller := t.slots[i-1]

		if current.BillCount() == 0 {
			continue
		}
		fit := current.Denomination / smaller.Denomination
		if smaller.BillCount() >= fit-1 {
			continue
		}

		amount := current.BillValue()
		t.move(current.Type(), smaller.Type(), amount)
		exchanges = append(exchanges, Exchange{From: current.Type(), To: smaller.Type(), Kin: amount})
		exchanges = append(exchanges, t.exchangeLargeToSmall()...)
	}
	return exchanges
}

// exchangeSmallToLarge walks the buckets from the smallest up. A bucket with
// at least 2*fit-1 bills keeps fit-1 of them and promotes the rest in
// multiples of fit.
func (t *Tray) exchangeSmallToLarge() []Exchange {
	var exchanges []Exchange

	for i := 0; i < len(t.slots)-1; i++ {
		current := t.slots[i]
		larger := t.slots[i+1]

		fit := larger.Denomination / current.Denomination
		have := current.BillCount()
		if have < fit*2-1 {
			continue
		}
		leave := min(fit-1, have)
		promote := (have - leave) / fit * fit
		amount := current.BillValue().Mul(promote)

		t.normalizeLargest(amount, func(k kin.Kin) {
			exchanges = append(exchanges, Exchange{From: current.Type(), To: larger.Type(), Kin: k})
		})
		t.move(current.Type(), larger.Type(), amount)
		exchanges = append(exchanges, t.exchangeSmallToLarge()...)
	}
	return exchanges
}

// normalize splits amount of the bucket at slot into chunks of at most
// maxBillsPerExchange bills. Fractions of a bill are dropped.
func (t *Tray) normalize(slot int, amount kin.Kin, fn func(kin.Kin)) {
	denomination := t.slots[slot].Denomination
	bills := amount.DivKin(denomination)
	for bills > 0 {
		n := min(bills, maxBillsPerExchange)
		fn(kin.FromKin(denomination * n))
		bills -= n
	}
}

// normalizeLargest splits amount into chunks of at most maxBillsPerExchange
// bills, using the largest denominations first.
func (t *Tray) normalizeLargest(amount kin.Kin, fn func(kin.Kin)) {
	remaining := amount
	for i := len(t.slots) - 1; i >= 0; i-- {
		denomination := t.slots[i].Denomination
		bills := remaining.DivKin(denomination)
		for bills > 0 {
			n := min(bills, maxBillsPerExchange)
			chunk := kin.FromKin(denomination * n)
			fn(chunk)
			remaining = remaining.Sub(chunk)
			bills -= n
		}
	}
}
