package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"codepay/payload"
	"codepay/web"
)

func payloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "encode or decode 20 byte code payloads",
	}

	var body web.EncodePayloadRequest
	encode := &cobra.Command{
		Use:     "encode",
		Short:   "encode a payload and print its rendezvous key",
		Example: `codepay payload encode --kind cash --quarks 100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := body.ToPayload()
			if err != nil {
				return err
			}
			data, err := p.Encode()
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), p, data)
		},
	}
	encode.Flags().StringVarP(&body.Kind, "kind", "k", "cash", "payload kind (cash, giftCard, requestPayment)")
	encode.Flags().Uint64VarP(&body.Quarks, "quarks", "q", 0, "amount in quarks")
	encode.Flags().StringVar(&body.Currency, "currency", "usd", "currency of a payment request")
	encode.Flags().StringVar(&body.Amount, "amount", "", "fiat amount of a payment request")
	encode.Flags().StringVar(&body.Nonce, "nonce", "", "hex nonce, random when empty")

	decode := &cobra.Command{
		Use:   "decode <hex>",
		Short: "decode a hex payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return err
			}
			p, err := payload.Decode(data)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), p, data)
		},
	}

	cmd.AddCommand(encode, decode)
	return cmd
}

func printPayload(w io.Writer, p payload.Payload, data []byte) error {
	rendezvous, err := p.Rendezvous()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "payload:    %s\ndata:       %x\nrendezvous: %s\n", p, data, rendezvous.Public)
	return err
}
