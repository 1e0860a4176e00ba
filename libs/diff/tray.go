package diff

import (
	"fmt"
	"sort"
	"strings"

	odiff "github.com/r3labs/diff/v3"

	"codepay/keys"
	"codepay/tray"
)

// Change is one difference between two trays. Path is dotted, for example
// balances.bucket:3 or vaults.incoming.
type Change struct {
	Type string      `json:"type"`
	Path string      `json:"path"`
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s: %v -> %v", c.Type, c.Path, c.From, c.To)
}

type trayView struct {
	Balances map[string]uint64         `diff:"balances"`
	Vaults   map[string]keys.PublicKey `diff:"vaults"`
}

func viewOf(t *tray.Tray) trayView {
	v := trayView{
		Balances: make(map[string]uint64),
		Vaults:   make(map[string]keys.PublicKey),
	}
	for accountType, balance := range t.Balances() {
		v.Balances[accountType.String()] = balance.Quarks()
	}
	for _, a := range t.AllAccounts() {
		v.Vaults[a.Type.String()] = a.Cluster.VaultPublicKey()
	}
	return v
}

// TrayChanges lists the balance and vault changes from before to after,
// sorted by path. Rotating incoming or outgoing shows as a vault update.
func TrayChanges(before, after *tray.Tray) ([]Change, error) {
	cl, err := GetCustomDiffer().Diff(viewOf(before), viewOf(after))
	if err != nil {
		return nil, fmt.Errorf("diff trays: %w", err)
	}
	return toChanges(cl), nil
}

func toChanges(cl odiff.Changelog) []Change {
	changes := make([]Change, 0, len(cl))
	for _, c := range cl {
		changes = append(changes, Change{
			Type: c.Type,
			Path: strings.Join(c.Path, "."),
			From: c.From,
			To:   c.To,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes
}
