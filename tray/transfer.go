package tray

import (
	"codepay/kin"
)

// Receive moves amount from an account outside the buckets into the buckets,
// largest denomination first.
func (t *Tray) Receive(from AccountType, amount kin.Kin) ([]Exchange, error) {
	if t.PartialBalance(from) < amount {
		return nil, ErrInvalidSlotBalance
	}

	var exchanges []Exchange
	remaining := amount
	for i := len(t.slots) - 1; i >= 0; i-- {
		slot := t.slots[i]
		fit := remaining.DivKin(slot.Denomination)
		if fit == 0 {
			continue
		}
		deposit := slot.BillValue().Mul(fit)
		t.normalize(i, deposit, func(k kin.Kin) {
			exchanges = append(exchanges, Exchange{From: from, To: slot.Type(), Kin: k})
		})
		t.move(from, slot.Type(), deposit)
		remaining = remaining.Sub(deposit)
	}
	return exchanges, nil
}

// Transfer moves amount from the buckets into the outgoing account. The naive
// strategy pays with the bills already present. When that cannot make exact
// change the tray is restored and the dynamic strategy breaks larger bills.
func (t *Tray) Transfer(amount kin.Kin) ([]Exchange, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if t.SlotsBalance() < amount {
		return nil, ErrInsufficientTrayBalance
	}

	start := t.Clone()
	exchanges, err := t.withdrawNaively(amount)
	if err == nil {
		return exchanges, nil
	}
	*t = *start
	return t.withdrawDynamically(amount)
}

func (t *Tray) withdrawNaively(amount kin.Kin) ([]Exchange, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	var exchanges []Exchange
	remaining := amount
	for i := len(t.slots) - 1; i >= 0; i-- {
		slot := t.slots[i]
		if slot.Balance == 0 {
			continue
		}
		send := min(slot.Balance, slot.BillValue().Mul(remaining.DivKin(slot.Denomination)))
		if send == 0 {
			continue
		}
		t.normalize(i, send, func(k kin.Kin) {
			exchanges = append(exchanges, Exchange{From: slot.Type(), To: Outgoing, Kin: k})
		})
		t.move(slot.Type(), Outgoing, send)
		remaining = remaining.Sub(send)
	}

	if remaining.HasWholeKin() {
		return nil, ErrInvalidSlotBalance
	}
	return exchanges, nil
}

// dynamicStep carries the state between the two dynamic withdrawal steps.
type dynamicStep struct {
	remaining kin.Kin
	index     int
	exchanges []Exchange
}

func (t *Tray) withdrawDynamically(amount kin.Kin) ([]Exchange, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if t.SlotsBalance() < amount {
		return nil, ErrInsufficientTrayBalance
	}

	step, err := t.withdrawDynamicallyStep1(amount)
	if err != nil {
		return nil, err
	}
	exchanges, err := t.withdrawDynamicallyStep2(step)
	if err != nil {
		return nil, err
	}
	return append(step.exchanges, exchanges...), nil
}

// withdrawDynamicallyStep1 drains buckets from the smallest up until it
// reaches a bill larger than what is left to pay. It returns the index of the
// bucket step 2 has to break.
func (t *Tray) withdrawDynamicallyStep1(amount kin.Kin) (dynamicStep, error) {
	var exchanges []Exchange
	remaining := amount

	for i := range t.slots {
		slot := t.slots[i]
		if slot.Balance == 0 {
			continue
		}
		if !remaining.HasWholeKin() {
			break
		}
		if remaining.TruncatedKin() < slot.Denomination {
			break
		}

		send := min(slot.Balance, slot.BillValue().Mul(remaining.DivKin(slot.Denomination)))
		if send == 0 {
			continue
		}
		t.normalize(i, send, func(k kin.Kin) {
			exchanges = append(exchanges, Exchange{From: slot.Type(), To: Outgoing, Kin: k})
		})
		t.move(slot.Type(), Outgoing, send)
		remaining = remaining.Sub(send)
	}

	index := -1
	for i, slot := range t.slots {
		if slot.Denomination > remaining.TruncatedKin() && slot.BillCount() > 0 {
			index = i
			break
		}
	}
	if index < 0 {
		if remaining.HasWholeKin() {
			return dynamicStep{}, ErrInvalidStepIndex
		}
		// Step 1 paid everything; index 0 makes step 2 a no-op.
		index = 0
	}

	return dynamicStep{remaining: remaining, index: index, exchanges: exchanges}, nil
}

// withdrawDynamicallyStep2 breaks one bill of the bucket at step.index into
// the next bucket down, then keeps splitting one bill per bucket on the way
// down while paying the remainder from each.
func (t *Tray) withdrawDynamicallyStep2(step dynamicStep) ([]Exchange, error) {
	if step.index <= 0 || step.index >= len(t.slots) {
		return nil, nil
	}
	if !step.remaining.HasWholeKin() {
		return nil, nil
	}

	current := t.slots[step.index]
	lower := t.slots[step.index-1]
	if current.BillCount() < 1 {
		return nil, ErrSlotAtIndexEmpty
	}

	exchanges := []Exchange{{From: current.Type(), To: lower.Type(), Kin: current.BillValue()}}
	t.move(current.Type(), lower.Type(), current.BillValue())

	remaining := step.remaining
	for i := step.index - 1; i >= 0; i-- {
		slot := t.slots[i]
		bills := slot.BillCount()

		if i > 0 {
			below := t.slots[i-1]
			exchanges = append(exchanges, Exchange{From: slot.Type(), To: below.Type(), Kin: slot.BillValue()})
			t.move(slot.Type(), below.Type(), slot.BillValue())
		}

		fit := remaining.DivKin(slot.Denomination)
		if fit == 0 {
			continue
		}
		if bills < fit {
			return nil, ErrInvalidSlotBalance
		}

		send := slot.BillValue().Mul(fit)
		exchanges = append(exchanges, Exchange{From: slot.Type(), To: Outgoing, Kin: send})
		t.move(slot.Type(), Outgoing, send)
		remaining = remaining.Sub(send)
	}
	return exchanges, nil
}
