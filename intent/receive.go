package intent

import (
	"codepay/action"
	"codepay/tray"
)

// planReceive empties the incoming account into the buckets, redistributes
// and rotates the incoming account.
func planReceive(t *tray.Tray, req Receive) (*Intent, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	id, err := intentID(req.ID)
	if err != nil {
		return nil, err
	}
	primary, err := t.Cluster(tray.Primary)
	if err != nil {
		return nil, err
	}
	oldIncoming, err := t.Cluster(tray.Incoming)
	if err != nil {
		return nil, err
	}
	startSlots := t.SlotsBalance()
	startIncoming := t.AvailableIncomingBalance()

	received, err := t.Receive(tray.Incoming, req.Amount)
	if err != nil {
		return nil, err
	}
	transfers, err := exchangeActions(t, id, action.TempPrivacyTransfer, received)
	if err != nil {
		return nil, err
	}
	redistributes, err := exchangeActions(t, id, action.TempPrivacyExchange, t.Redistribute())
	if err != nil {
		return nil, err
	}

	if t.SlotsBalance().Sub(startSlots) != req.Amount || startIncoming.Sub(t.AvailableIncomingBalance()) != req.Amount {
		return nil, ErrBalanceMismatch
	}

	if err := t.IncrementIncoming(); err != nil {
		return nil, err
	}
	newIncoming, err := t.Cluster(tray.Incoming)
	if err != nil {
		return nil, err
	}

	group := action.NewGroup(transfers...)
	group.Append(redistributes...)
	group.Append(
		action.NewCloseEmptyAccount(tray.Incoming, oldIncoming),
		action.NewOpenAccount(primary.AuthorityPublicKey(), tray.Incoming, newIncoming),
		action.NewWithdraw(action.CloseDormantAccount, 0, tray.Incoming, newIncoming, primary.VaultPublicKey()),
	)
	return &Intent{
		ID:         id,
		Kind:       KindReceive,
		Actions:    group,
		ResultTray: t,
		Metadata: Metadata{ReceivePaymentsPrivately: &ReceivePaymentsPrivately{
			Source: oldIncoming.VaultPublicKey(),
			Quarks: req.Amount,
		}},
	}, nil
}
