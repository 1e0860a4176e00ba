package intent

import (
	"errors"

	"codepay/action"
	"codepay/keys"
	"codepay/tray"
)

// planPublicTransfer is a single transfer straight out of the source account.
// A local destination is credited in the result tray.
func planPublicTransfer(t *tray.Tray, req PublicTransfer) (*Intent, error) {
	amount := req.Amount.Kin
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	id, err := intentID(req.ID)
	if err != nil {
		return nil, err
	}
	source, err := t.Cluster(req.Source)
	if err != nil {
		return nil, err
	}

	var destination keys.PublicKey
	switch {
	case req.Destination.Local != nil:
		c, err := t.Cluster(*req.Destination.Local)
		if err != nil {
			return nil, err
		}
		destination = c.VaultPublicKey()
	case req.Destination.External != nil:
		destination = *req.Destination.External
	default:
		return nil, errors.New("public transfer has no destination")
	}

	startSource := t.PartialBalance(req.Source)
	if err := t.Decrement(req.Source, amount); err != nil {
		return nil, err
	}
	if local := req.Destination.Local; local != nil {
		startDestination := t.PartialBalance(*local)
		if err := t.Increment(*local, amount); err != nil {
			return nil, err
		}
		if t.PartialBalance(*local).Sub(startDestination) != amount {
			return nil, ErrBalanceMismatch
		}
	}
	// A local destination equal to the source would leave it unchanged.
	if startSource.Sub(t.PartialBalance(req.Source)) != amount {
		return nil, ErrBalanceMismatch
	}

	return &Intent{
		ID:         id,
		Kind:       KindPublicTransfer,
		Actions:    action.NewGroup(action.NewTransfer(action.NoPrivacyTransfer, id, amount, req.Source, source, destination)),
		ResultTray: t,
		Metadata: Metadata{SendPublicPayment: &SendPublicPayment{
			Source:       source.VaultPublicKey(),
			Destination:  destination,
			IsWithdrawal: true,
			ExchangeData: exchangeData(req.Amount),
		}},
	}, nil
}
