package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codepay/keys"
	"codepay/organizer"
)

func mnemonicCommand() *cobra.Command {
	var phrase string
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "generate a mnemonic and show its accounts",
		Long:  `mnemonic prints a new 12 word phrase, or the given one, with every account derived from it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				m   keys.Mnemonic
				err error
			)
			if phrase != "" {
				m, err = keys.ParseMnemonic(phrase, "")
			} else {
				m, err = keys.NewMnemonic()
			}
			if err != nil {
				return err
			}
			org, err := organizer.New(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s", m.Phrase(), org.Tray())
			return nil
		},
	}
	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "existing phrase to inspect")
	return cmd
}
