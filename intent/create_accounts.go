package intent

import (
	"codepay/action"
	"codepay/tray"
)

// planCreateAccounts opens every account and arms a dormancy sweep back to
// the primary vault for all but the primary itself.
func planCreateAccounts(t *tray.Tray, req CreateAccounts) (*Intent, error) {
	id, err := intentID(req.ID)
	if err != nil {
		return nil, err
	}
	startBalance := t.SlotsBalance()

	primary, err := t.Cluster(tray.Primary)
	if err != nil {
		return nil, err
	}
	owner := primary.AuthorityPublicKey()

	accounts := t.AllAccounts()
	group := action.NewGroup()
	for _, a := range accounts {
		group.Append(action.NewOpenAccount(owner, a.Type, a.Cluster))
	}
	for _, a := range accounts {
		if a.Type == tray.Primary {
			continue
		}
		group.Append(action.NewWithdraw(action.CloseDormantAccount, 0, a.Type, a.Cluster, primary.VaultPublicKey()))
	}

	if t.SlotsBalance() != startBalance {
		return nil, ErrBalanceMismatch
	}
	return &Intent{
		ID:         id,
		Kind:       KindCreateAccounts,
		Actions:    group,
		ResultTray: t,
		Metadata:   Metadata{OpenAccounts: &OpenAccountsMetadata{}},
	}, nil
}
