package config

import (
	"os"
	"strings"
)

const (
	envBaseURL  = "VXHUB_BASE_URL"
	envHubID    = "VXHUB_HUB_ID"
	envDeviceID = "VXHUB_DEVICE_ID"
	envBundleID = "VXHUB_BUNDLE_ID"
	envCertFile = "VXHUB_CLIENT_CERT"
	envCertPass = "VXHUB_CERT_PASSWORD"
)

// ResolveAccount returns the account to use, letting environment variables
// override individual fields of the stored account. When every required field
// is supplied via the environment the keyring is not touched at all, which
// keeps CI and scripts free of keychain prompts.
func ResolveAccount() (Account, error) {
	fromEnv := Account{
		BaseURL:      strings.TrimSpace(os.Getenv(envBaseURL)),
		HubID:        strings.TrimSpace(os.Getenv(envHubID)),
		DeviceID:     strings.TrimSpace(os.Getenv(envDeviceID)),
		BundleID:     strings.TrimSpace(os.Getenv(envBundleID)),
		CertFile:     strings.TrimSpace(os.Getenv(envCertFile)),
		CertPassword: os.Getenv(envCertPass),
	}
	if fromEnv.BaseURL != "" && fromEnv.HubID != "" && fromEnv.DeviceID != "" {
		return fromEnv, nil
	}

	stored, err := LoadAccount()
	if err != nil {
		return Account{}, err
	}
	if fromEnv.BaseURL != "" {
		stored.BaseURL = fromEnv.BaseURL
	}
	if fromEnv.HubID != "" {
		stored.HubID = fromEnv.HubID
	}
	if fromEnv.DeviceID != "" {
		stored.DeviceID = fromEnv.DeviceID
	}
	if fromEnv.BundleID != "" {
		stored.BundleID = fromEnv.BundleID
	}
	if fromEnv.CertFile != "" {
		stored.CertFile = fromEnv.CertFile
	}
	if fromEnv.CertPassword != "" {
		stored.CertPassword = fromEnv.CertPassword
	}
	return stored, nil
}
