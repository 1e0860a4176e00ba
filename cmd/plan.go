package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"codepay/keys"
	"codepay/kin"
	"codepay/libs/diff"
	"codepay/organizer"
	"codepay/tray"
	"codepay/web"
)

var (
	balancesPath string
	planOutput   string
	planRequest  web.IntentRequest
	planPhrase   string
)

func planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "plan one intent offline",
		Long: `plan restores a tray from a mnemonic and an optional balances CSV, plans one
intent against it and prints the actions together with the balance changes.`,
		Example: `codepay plan --mnemonic "..." --balances balances.csv --kind deposit --quarks 100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := keys.ParseMnemonic(planPhrase, "")
			if err != nil {
				return err
			}
			org, err := organizer.New(m)
			if err != nil {
				return err
			}

			if balancesPath != "" {
				balances, err := readBalances(balancesPath)
				if err != nil {
					return err
				}
				if err := org.SetBalances(balances); err != nil {
					return fmt.Errorf("failed to set balances: %w", err)
				}
			}

			req, err := planRequest.ToRequest()
			if err != nil {
				return err
			}
			before := org.Tray()
			in, err := org.Plan(req)
			if err != nil {
				return err
			}
			changes, err := diff.TrayChanges(before, in.ResultTray)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if planOutput != "" {
				f, err := os.Create(planOutput)
				if err != nil {
					return err
				}
				defer func(f *os.File) {
					if err := f.Close(); err != nil {
						log.Fatalf("Failed to close output file: %v", err)
					}
				}(f)
				out = f
			}
			return writePlan(out, in.ID, in.Kind.String(), in.Actions.String(), changes, in.ResultTray)
		},
	}

	cmd.Flags().StringVarP(&planPhrase, "mnemonic", "m", "", "wallet mnemonic (required)")
	if err := cmd.MarkFlagRequired("mnemonic"); err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().StringVarP(&balancesPath, "balances", "b", "", "csv file of account,quarks rows")
	cmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the plan to this file instead of stdout")

	cmd.Flags().StringVarP(&planRequest.Kind, "kind", "k", "", "intent kind (createAccounts, deposit, receive, privateTransfer, publicTransfer)")
	if err := cmd.MarkFlagRequired("kind"); err != nil {
		log.Fatal(err)
		return nil
	}
	cmd.Flags().Uint64VarP(&planRequest.Quarks, "quarks", "q", 0, "amount in quarks")
	cmd.Flags().StringVar(&planRequest.Fiat, "fiat", "", "amount in fiat, converted at --fx")
	cmd.Flags().StringVar(&planRequest.Currency, "currency", "usd", "currency of --fiat")
	cmd.Flags().StringVar(&planRequest.FX, "fx", "", "fiat value of one Kin")
	cmd.Flags().StringVar(&planRequest.Source, "source", "", "source account type")
	cmd.Flags().StringVar(&planRequest.Destination, "destination", "", "destination address or account type")
	cmd.Flags().StringVar(&planRequest.Rendezvous, "rendezvous", "", "rendezvous public key of a private transfer")
	cmd.Flags().Uint64Var(&planRequest.Fee, "fee", 0, "flat fee in quarks")
	cmd.Flags().BoolVar(&planRequest.IsWithdrawal, "withdrawal", false, "mark a transfer as a withdrawal")

	return cmd
}

func readBalances(path string) (map[tray.AccountType]kin.Kin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	csvContent, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseCSVToBalances(csvContent)
}

// ParseCSVToBalances parses account,quarks rows. The first row is a header.
func ParseCSVToBalances(csvContent [][]string) (map[tray.AccountType]kin.Kin, error) {
	if len(csvContent) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	balances := make(map[tray.AccountType]kin.Kin)
	for i, row := range csvContent[1:] {
		if len(row) != 2 {
			return nil, fmt.Errorf("row %d: expected 2 columns, but got %d", i+2, len(row))
		}
		accountType, err := tray.ParseAccountType(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if _, ok := balances[accountType]; ok {
			return nil, fmt.Errorf("row %d: duplicate account %s", i+2, accountType)
		}
		quarks, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to convert quarks '%s': %w", i+2, row[1], err)
		}
		balances[accountType] = kin.FromQuarks(quarks)
	}
	return balances, nil
}

func writePlan(w io.Writer, id keys.PublicKey, kind, actions string, changes []diff.Change, result *tray.Tray) error {
	var b strings.Builder
	fmt.Fprintf(&b, "intent %s (%s)\n\nactions:\n%s\n\nchanges:\n", id, kind, actions)
	for _, c := range changes {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	fmt.Fprintf(&b, "\nresult:\n%s", result)
	_, err := io.WriteString(w, b.String())
	return err
}
