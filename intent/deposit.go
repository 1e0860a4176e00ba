package intent

import (
	"fmt"

	"codepay/action"
	"codepay/tray"
)

// planDeposit moves funds from the primary or a relationship account into
// the buckets and redistributes them.
func planDeposit(t *tray.Tray, req Deposit) (*Intent, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if req.Source.Kind != tray.KindPrimary && req.Source.Kind != tray.KindRelationship {
		return nil, fmt.Errorf("deposit from %s: %w", req.Source, ErrUnsupportedSource)
	}
	id, err := intentID(req.ID)
	if err != nil {
		return nil, err
	}
	source, err := t.Cluster(req.Source)
	if err != nil {
		return nil, err
	}
	startBalance := t.SlotsBalance()

	received, err := t.Receive(req.Source, req.Amount)
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

	if t.SlotsBalance().Sub(startBalance) != req.Amount {
		return nil, ErrBalanceMismatch
	}

	group := action.NewGroup(transfers...)
	group.Append(redistributes...)
	return &Intent{
		ID:         id,
		Kind:       KindDeposit,
		Actions:    group,
		ResultTray: t,
		Metadata: Metadata{ReceivePaymentsPrivately: &ReceivePaymentsPrivately{
			Source:    source.VaultPublicKey(),
			Quarks:    req.Amount,
			IsDeposit: true,
		}},
	}, nil
}
