package tray

import (
	"bytes"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// String renders every account with its vault and balance in whole Kin.
func (t *Tray) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Type", "Index", "State", "Vault", "Balance"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, a := range t.AllAccounts() {
		name := a.Type.String()
		if a.Type.IsBucket() {
			name = humanize.Comma(int64(t.slots[a.Type.Slot].Denomination))
		}
		table.Append([]string{
			name,
			strconv.Itoa(a.Cluster.Index),
			a.Cluster.StatePublicKey().String(),
			a.Cluster.VaultPublicKey().String(),
			humanize.Comma(int64(t.PartialBalance(a.Type).TruncatedKin())),
		})
	}
	table.Render()
	return buf.String()
}
