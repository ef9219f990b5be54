package api

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// makeClientCredential builds a self-signed client identity for mTLS tests.
func makeClientCredential(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "vx-client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("certificate creation failed: %v", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("certificate parse failed: %v", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}
}

// newTLSServer responds with the number of certificates the client presented.
func newTLSServer(t *testing.T, clientAuth tls.ClientAuthType) *httptest.Server {
	t.Helper()
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "%d", len(r.TLS.PeerCertificates))
	}))
	server.TLS = &tls.Config{ClientAuth: clientAuth}
	server.StartTLS()
	t.Cleanup(server.Close)
	return server
}

// peerCertCount performs a request trusting the test server's certificate and
// returns the server-observed client certificate count.
func peerCertCount(t *testing.T, client *http.Client, server *httptest.Server) string {
	t.Helper()
	pool := x509.NewCertPool()
	pool.AddCert(server.Certificate())
	client.Transport.(*http.Transport).TLSClientConfig.RootCAs = pool

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(body)
}

func TestNewHTTPClient_PresentsCertificateWhenChallenged(t *testing.T) {
	credential := makeClientCredential(t)
	server := newTLSServer(t, tls.RequestClientCert)

	client := newHTTPClient(&credential)
	if got := peerCertCount(t, client, server); got != "1" {
		t.Errorf("server saw %s client certificates, want 1", got)
	}
}

func TestNewHTTPClient_NoCertificateWithoutCredential(t *testing.T) {
	server := newTLSServer(t, tls.RequestClientCert)

	client := newHTTPClient(nil)
	if got := peerCertCount(t, client, server); got != "0" {
		t.Errorf("server saw %s client certificates, want 0", got)
	}
}

func TestNewHTTPClient_CertificateOnlyOnChallenge(t *testing.T) {
	credential := makeClientCredential(t)
	server := newTLSServer(t, tls.NoClientCert)

	client := newHTTPClient(&credential)
	if got := peerCertCount(t, client, server); got != "0" {
		t.Errorf("server saw %s client certificates for an unchallenged handshake, want 0", got)
	}
}

func TestNewHTTPClient_TLSConfig(t *testing.T) {
	client := newHTTPClient(nil)
	transport := client.Transport.(*http.Transport)

	if transport.TLSClientConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %d, want TLS 1.2", transport.TLSClientConfig.MinVersion)
	}
	if transport.TLSClientConfig.GetClientCertificate != nil {
		t.Error("no certificate delegate expected without a credential")
	}
	if client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, DefaultTimeout)
	}
}
