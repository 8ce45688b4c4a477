package cmd

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/checkout-service/internal/checkout"
	"github.com/spf13/cobra"
)

var (
	sigOrderID   string
	sigPaymentID string
	sigValue     string
)

var errSignatureRejected = errors.New("signature rejected")

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Compute or check payment signatures",
	Long:  `Compute or check gateway payment signatures with the configured secret`,
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the expected signature for an order and payment",
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := loadSigner()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signer.Sign(sigOrderID, sigPaymentID))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:           "verify",
	Short:         "Check a signature for an order and payment",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := loadSigner()
		if err != nil {
			return err
		}

		result := checkout.Rejected
		if signer.Verify(sigOrderID, sigPaymentID, sigValue) {
			result = checkout.Accepted
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		if result != checkout.Accepted {
			return errSignatureRejected
		}
		return nil
	},
}

func loadSigner() (*checkout.Signer, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	creds := checkout.NewCredentials(config.Gateway.PublicID, config.Gateway.Secret)
	if !creds.HasSecret() {
		return nil, errors.New("GATEWAY_SECRET is not set")
	}
	return checkout.NewSigner(creds), nil
}

func init() {
	for _, c := range []*cobra.Command{signCmd, verifyCmd} {
		c.Flags().StringVar(&sigOrderID, "order-id", "", "Gateway order id")
		c.Flags().StringVar(&sigPaymentID, "payment-id", "", "Gateway payment id")
		_ = c.MarkFlagRequired("order-id")
		_ = c.MarkFlagRequired("payment-id")
	}
	verifyCmd.Flags().StringVar(&sigValue, "signature", "", "Signature to check")
	_ = verifyCmd.MarkFlagRequired("signature")

	signatureCmd.AddCommand(signCmd)
	signatureCmd.AddCommand(verifyCmd)
}
