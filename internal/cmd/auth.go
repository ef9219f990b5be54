package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/config"
	"github.com/vxhub/vxhub-cli/internal/outfmt"
	"github.com/vxhub/vxhub-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage hub credentials",
		Long:    "Configure and manage the hub URL and device identity stored securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		url      string
		hubID    string
		deviceID string
		bundleID string
		certFile string
		certPass string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save hub credentials to the OS keychain",
		Long: strings.TrimSpace(`
Save the hub connection details securely to your OS keychain.

You'll need:
- Hub URL: Your VxHub endpoint (e.g. https://hub.example.com)
- Hub ID: The application identifier issued by the hub

A device ID is generated on first login and reused afterwards, so the hub
sees this machine as one stable device.
`),
		Example: strings.TrimSpace(`
  # Login with flags
  vx auth login --url https://hub.example.com --hub-id my-app

  # Load credentials from a .env file
  vx auth login --env-file .env
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read --env-file %q: %w", envFile, err)
				}
				if url == "" {
					url = strings.TrimSpace(envVars["VXHUB_BASE_URL"])
				}
				if hubID == "" {
					hubID = strings.TrimSpace(envVars["VXHUB_HUB_ID"])
				}
				if deviceID == "" {
					deviceID = strings.TrimSpace(envVars["VXHUB_DEVICE_ID"])
				}
				if bundleID == "" {
					bundleID = strings.TrimSpace(envVars["VXHUB_BUNDLE_ID"])
				}
				if certFile == "" {
					certFile = strings.TrimSpace(envVars["VXHUB_CLIENT_CERT"])
				}
				if certPass == "" {
					certPass = envVars["VXHUB_CERT_PASSWORD"]
				}
			}

			if url == "" {
				return fmt.Errorf("--url is required")
			}
			if hubID == "" {
				return fmt.Errorf("--hub-id is required")
			}
			if err := validation.ValidateHubURL(url); err != nil {
				return err
			}

			// Preserve the existing device identity across re-logins.
			if deviceID == "" {
				if existing, err := config.LoadAccount(); err == nil {
					deviceID = existing.DeviceID
				}
			}

			// Verify the bundle decodes before storing a broken credential.
			if certFile != "" {
				if _, err := config.LoadClientCertificate(certFile, certPass); err != nil {
					return err
				}
			}

			account := config.Account{
				BaseURL:      strings.TrimSuffix(url, "/"),
				HubID:        hubID,
				DeviceID:     deviceID,
				BundleID:     bundleID,
				CertFile:     certFile,
				CertPassword: certPass,
			}
			if err := config.SaveAccount(account); err != nil {
				return err
			}

			saved, err := config.LoadAccount()
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).
					Output(map[string]string{
						"base_url":  saved.BaseURL,
						"hub_id":    saved.HubID,
						"device_id": saved.DeviceID,
					})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s (device %s)\n", saved.BaseURL, saved.DeviceID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "Hub base URL (e.g. https://hub.example.com)")
	cmd.Flags().StringVar(&hubID, "hub-id", "", "Hub application identifier")
	cmd.Flags().StringVar(&deviceID, "device-id", "", "Device identifier (generated when omitted)")
	cmd.Flags().StringVar(&bundleID, "bundle-id", "", "App bundle identifier for store lookups")
	cmd.Flags().StringVar(&certFile, "cert-file", "", "PKCS#12 client certificate bundle for mutual TLS")
	cmd.Flags().StringVar(&certPass, "cert-password", "", "Password for the client certificate bundle")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load credentials from a .env file")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured hub and device identity",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			account, err := config.ResolveAccount()
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) {
				// Never echo the mTLS cert password back out.
				account.CertPassword = ""
				return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()).
					Output(account)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Hub URL:   %s\n", account.BaseURL)
			_, _ = fmt.Fprintf(out, "Hub ID:    %s\n", account.HubID)
			_, _ = fmt.Fprintf(out, "Device ID: %s\n", account.DeviceID)
			if account.BundleID != "" {
				_, _ = fmt.Fprintf(out, "Bundle ID: %s\n", account.BundleID)
			}
			if account.CertFile != "" {
				_, _ = fmt.Fprintf(out, "Cert file: %s\n", account.CertFile)
			}
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored hub credentials",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteAccount(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed")
			return nil
		}),
	}
}
