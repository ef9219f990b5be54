package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/outfmt"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "device",
		Aliases: []string{"dev"},
		Short:   "Register and manage this device with the hub",
	}

	cmd.AddCommand(newDeviceRegisterCmd())
	cmd.AddCommand(newDeviceDeleteCmd())
	cmd.AddCommand(newDeviceSocialLoginCmd())
	cmd.AddCommand(newDeviceQRApproveCmd())
	cmd.AddCommand(newDeviceConversionCmd())
	cmd.AddCommand(newDeviceCoinsCmd())

	return cmd
}

func newDeviceRegisterCmd() *cobra.Command {
	var (
		appVersion string
		osVersion  string
		locale     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register this device and start a hub session",
		Long: strings.TrimSpace(`
Register the device with the hub. On success the hub issues a session VID
and returns the device profile plus the remote configuration bag. The VID
is attached to subsequent requests automatically within one invocation.
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}

			resp, err := client.Device().Register(cmd.Context(), api.RegisterParams{
				AppVersion: appVersion,
				OSVersion:  osVersion,
				Locale:     locale,
			})
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(resp)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Registered (vid %s)\n", resp.VID)
			if resp.Device != nil && resp.Device.Premium {
				_, _ = fmt.Fprintln(out, "Premium: active")
			}
			if len(resp.RemoteConfig) > 0 {
				_, _ = fmt.Fprintf(out, "Remote config keys: %s\n", strings.Join(remoteConfigKeys(resp.RemoteConfig), ", "))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&appVersion, "app-version", "", "App version to report")
	cmd.Flags().StringVar(&osVersion, "os-version", "", "OS version to report")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale to report (e.g. en_US)")

	return cmd
}

func remoteConfigKeys(rc map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(rc))
	for k := range rc {
		keys = append(keys, k)
	}
	return keys
}

func newDeviceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete this device's data from the hub",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if !flags.Yes {
				return fmt.Errorf("device delete is destructive; re-run with --yes to confirm")
			}
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Device().Delete(cmd.Context())
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Device deleted")
			return nil
		}),
	}
}

func newDeviceSocialLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "social-login TOKEN",
		Short: "Attach a social identity to this device",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Device().SocialLogin(cmd.Context(), provider, args[0])
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in (vid %s, premium %v)\n", result.VID, result.Premium)
			return nil
		}),
	}

	cmd.Flags().StringVar(&provider, "provider", "apple", "Identity provider (apple|google|facebook)")

	return cmd
}

func newDeviceQRApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qr-approve TOKEN",
		Short: "Approve a QR login request from another device",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Device().ApproveQRLogin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "QR login %s\n", result.Status)
			return nil
		}),
	}
}

func newDeviceConversionCmd() *cobra.Command {
	var payloadJSON string

	cmd := &cobra.Command{
		Use:   "conversion",
		Short: "Send attribution conversion info to the hub",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}

			var payload map[string]any
			if payloadJSON != "" {
				if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
					return fmt.Errorf("invalid --payload JSON: %w", err)
				}
			}
			result, err := client.Device().SendConversionInfo(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Conversion info: %s\n", result.Status)
			return nil
		}),
	}

	cmd.Flags().StringVar(&payloadJSON, "payload", "", "Conversion payload as a JSON object (defaults to the attribution provider's payload)")

	return cmd
}

func newDeviceCoinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-coins",
		Short: "Claim the retention coin reward",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClientFactory().hub()
			if err != nil {
				return err
			}
			result, err := client.Device().ClaimRetentionCoin(cmd.Context())
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).Output(result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Claimed %d coins\n", result.Coins)
			return nil
		}),
	}
}
