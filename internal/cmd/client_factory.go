package cmd

import (
	"time"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/config"
	"github.com/vxhub/vxhub-cli/internal/session"
)

type clientFactory struct {
	timeout time.Duration
}

func newClientFactory() *clientFactory {
	return &clientFactory{timeout: flags.Timeout}
}

// installCert hands the decoded mTLS credential to the transport layer.
// Replaceable in tests.
var installCert = api.SetClientCertificate

// installClientCertificate loads the account's PKCS#12 bundle, if any, and
// installs it so the shared transport can answer certificate challenges. Must
// run before the first request builds the shared HTTP client.
func installClientCertificate(account config.Account) error {
	if account.CertFile == "" {
		return nil
	}
	cert, err := config.LoadClientCertificate(account.CertFile, account.CertPassword)
	if err != nil {
		return err
	}
	installCert(cert)
	return nil
}

// hub builds an API client from the resolved account, carrying a session
// seeded with the stored hub and device identity.
func (f *clientFactory) hub() (*api.Client, *config.Account, error) {
	account, err := config.ResolveAccount()
	if err != nil {
		return nil, nil, err
	}
	if err := installClientCertificate(account); err != nil {
		return nil, nil, err
	}
	client, err := api.New(account.BaseURL, session.New(account.HubID, account.DeviceID))
	if err != nil {
		return nil, nil, err
	}
	if f.timeout > 0 && f.timeout != api.DefaultTimeout {
		// Copy the shared client rather than mutating its timeout globally.
		httpCopy := *client.HTTP
		httpCopy.Timeout = f.timeout
		client.HTTP = &httpCopy
	}
	applyRouterOverrides(client)
	return client, &account, nil
}

func applyRouterOverrides(client *api.Client) {
	cfg := client.RouterConfig
	if flags.MaxRetriesSet {
		cfg.MaxRetries = flags.MaxRetries
	}
	if flags.RetryDelaySet {
		cfg.RetryDelay = flags.RetryDelay
	}
	client.RouterConfig = cfg
}
