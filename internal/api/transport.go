package api

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout is the per-attempt request timeout. There is no overall
// deadline across retries; worst case latency is attempts x (timeout + delay).
const DefaultTimeout = 10 * time.Second

var (
	sharedMu     sync.Mutex
	sharedClient *http.Client
	clientCert   *tls.Certificate
)

// SetClientCertificate installs the mutual-TLS credential presented when the
// hub challenges for a client certificate. Must be called before the first
// request; later calls have no effect on the already-built transport.
func SetClientCertificate(cert tls.Certificate) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	clientCert = &cert
}

// SharedHTTPClient returns the process-wide pooled HTTP client, creating it
// on first use. All clients reuse it so connections are pooled across the
// process. The client is immutable after creation.
func SharedHTTPClient() *http.Client {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedClient == nil {
		sharedClient = newHTTPClient(clientCert)
	}
	return sharedClient
}

func newHTTPClient(cert *tls.Certificate) *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	if cert != nil {
		credential := *cert
		// Presented only when the server actually requests a certificate.
		transport.TLSClientConfig.GetClientCertificate = func(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
			return &credential, nil
		}
	}

	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}
