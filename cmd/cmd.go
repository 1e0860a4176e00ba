package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "codepay",
	Short: "plan private payments across a denomination tray",
	Long: `codepay derives the accounts of a wallet from its mnemonic and plans intents
(account creation, deposits, receives, private and public transfers) as ordered
action groups. It can run as a web service or plan offline from the command line.`,
}

func init() {
	RootCmd.AddCommand(serverCommand())
	RootCmd.AddCommand(migrateCommand())
	RootCmd.AddCommand(planCommand())
	RootCmd.AddCommand(mnemonicCommand())
	RootCmd.AddCommand(payloadCommand())
}
