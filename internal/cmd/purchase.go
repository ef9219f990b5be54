package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/outfmt"
)

func newPurchaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "purchase",
		Aliases: []string{"iap"},
		Short:   "Validate purchases against the hub",
	}

	cmd.AddCommand(newPurchaseValidateCmd())
	cmd.AddCommand(newPurchaseAfterCheckCmd())

	return cmd
}

func newPurchaseValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate TRANSACTION_ID",
		Short: "Validate a purchase transaction",
		Long:  "Ask the hub to validate a store transaction. On success the session's premium entitlement reflects the hub's verdict.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Purchase().Validate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Validation: %s (premium %v)\n", result.Status, result.Premium)
			if result.ExpiresAt > 0 {
				_, _ = fmt.Fprintf(out, "Expires: %s\n", time.Unix(result.ExpiresAt, 0).UTC().Format(time.RFC3339))
			}
			return nil
		}),
	}
}

func newPurchaseAfterCheckCmd() *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "after-check TRANSACTION_ID",
		Short: "Run the post-purchase entitlement check",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Purchase().AfterPurchaseCheck(cmd.Context(), args[0], productID)
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "After-purchase check: %s (granted %v)\n", result.Status, result.Granted)
			return nil
		}),
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product SKU the transaction belongs to")

	return cmd
}

func newPromoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Redeem promo codes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "use CODE",
		Short: "Redeem a promo code",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Promo().Use(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Promo code: %s\n", result.Status)
			if result.Premium {
				_, _ = fmt.Fprintln(out, "Premium unlocked")
			}
			if result.ExtraCoins > 0 {
				_, _ = fmt.Fprintf(out, "Extra coins: %d\n", result.ExtraCoins)
			}
			return nil
		}),
	})

	return cmd
}
