package intent

import (
	"codepay/action"
	"codepay/kin"
	"codepay/tray"
)

type concreteFee struct {
	fee   Fee
	value kin.Kin
}

// planPrivateTransfer pays out of the buckets through the outgoing account:
// bucket transfers into outgoing, fee payments, the withdrawal of the net
// amount, a redistribution, and finally rotation of the outgoing account.
func planPrivateTransfer(t *tray.Tray, req PrivateTransfer) (*Intent, error) {
	gross := req.Amount.Kin
	if gross <= req.Fee {
		return nil, ErrInvalidFee
	}

	// Third party fees are computed on the gross amount.
	fees := make([]concreteFee, 0, len(req.AdditionalFees))
	totalFees := req.Fee
	for _, f := range req.AdditionalFees {
		value := gross.CalculateFee(f.BPS)
		fees = append(fees, concreteFee{fee: f, value: value})
		totalFees = totalFees.Add(value)
	}
	if gross <= totalFees {
		return nil, ErrInvalidFee
	}
	net := gross.Sub(totalFees)

	// The rendezvous key doubles as the intent ID.
	if req.Rendezvous.IsZero() {
		return nil, ErrMissingRendezvous
	}
	id := req.Rendezvous
	primary, err := t.Cluster(tray.Primary)
	if err != nil {
		return nil, err
	}
	outgoing, err := t.Cluster(tray.Outgoing)
	if err != nil {
		return nil, err
	}
	startBalance := t.SlotsBalance()

	exchanges, err := t.Transfer(gross)
	if err != nil {
		return nil, err
	}
	transfers, err := exchangeActions(t, id, action.TempPrivacyTransfer, exchanges)
	if err != nil {
		return nil, err
	}

	feePayments := make([]action.Action, 0, len(fees)+1)
	if req.Fee > 0 {
		feePayments = append(feePayments, action.NewFeePayment(action.FeeCode, req.Fee, outgoing, nil))
	}
	for _, f := range fees {
		dest := f.fee.Destination
		feePayments = append(feePayments, action.NewFeePayment(action.FeeThirdParty, f.value, outgoing, &dest))
	}

	withdraw := action.NewWithdraw(action.NoPrivacyWithdraw, net, tray.Outgoing, outgoing, req.Destination)

	redistributes, err := exchangeActions(t, id, action.TempPrivacyExchange, t.Redistribute())
	if err != nil {
		return nil, err
	}

	if err := t.IncrementOutgoing(); err != nil {
		return nil, err
	}
	newOutgoing, err := t.Cluster(tray.Outgoing)
	if err != nil {
		return nil, err
	}

	if startBalance.Sub(t.SlotsBalance()) != gross {
		return nil, ErrBalanceMismatch
	}

	group := action.NewGroup(transfers...)
	group.Append(feePayments...)
	group.Append(withdraw)
	group.Append(redistributes...)
	group.Append(
		action.NewOpenAccount(primary.AuthorityPublicKey(), tray.Outgoing, newOutgoing),
		action.NewWithdraw(action.CloseDormantAccount, 0, tray.Outgoing, newOutgoing, primary.VaultPublicKey()),
	)
	return &Intent{
		ID:         id,
		Kind:       KindPrivateTransfer,
		Actions:    group,
		ResultTray: t,
		Metadata: Metadata{SendPrivatePayment: &SendPrivatePayment{
			Destination:  req.Destination,
			IsWithdrawal: req.IsWithdrawal,
			ExchangeData: exchangeData(req.Amount),
			Tip:          req.Tip,
			ChatID:       req.ChatID,
		}},
	}, nil
}
