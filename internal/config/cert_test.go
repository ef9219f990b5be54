package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A PKCS#12 bundle holding a self-signed CN=vx-client credential,
// protected with the password "s3cret".
const testBundleBase64 = `
MIIEDAIBAzCCA8IGCSqGSIb3DQEHAaCCA7MEggOvMIIDqzCCAmIGCSqGSIb3DQEHBqCCAlMwggJP
AgEAMIICSAYJKoZIhvcNAQcBMFcGCSqGSIb3DQEFDTBKMCkGCSqGSIb3DQEFDDAcBAiNGb7LBsEh
rAICCAAwDAYIKoZIhvcNAgkFADAdBglghkgBZQMEASoEEOpfuZIhJsW/YaS6n96pjrKAggHgP/OD
OVhszjIgSdgYpln2MpWE4o07ghU3IlxOo/C+Smvt5mVwBkljFIyInOVUcRQA/G6YTcSaNxdBHcZs
9w6JTt62Z1MzDU03J2TqZDOfvlN29Fxp8/FmcsohvZBmC8+xF+qUEj2oRKrndFHX/0GClIMVOJQ5
R0NttIbkcWH36TqdnxmnokHJE9VL4orD/mEVvhz+/WRu+yu8gioht/rLMdOr26DLd1A+KQ4ljW2X
rbLpL8/mGPJJEF/x3Wh2gItTRZapjRpjz/2FfzfgkjqJu5gngxWisb1QBxYgVJh77J7oUwhWdd1h
a924Umc/sfQvOe1z1zUrJwfrh6rFxaIqfJIwTC/O0TdbEf6EIFge4/3OhrTmEgp3NlQMS67NJuyq
EiCUaokQtO21ikh/1eszIxMPq6rP7D+Se/8sDto8lFXbdFC8g9EXtfaOygXDj3cAUEG2LOCOF30C
1t/Ph3jCS+D58TLVGgnnsnUuv3kZRroq2+4/TEFf4BCCXv05jo1FvTkNyO/PFYdgC2CENGzM3zcv
T4vJu6sPETrt1HB0/Cq4Au9wcvuoI8h4R73uVqfOLQztupm9mKqE2apYZEWQAvTjnTx4tftBllE7
VeQXaxHOtkoBHhtuIbdOP7qDDiyiMIIBQQYJKoZIhvcNAQcBoIIBMgSCAS4wggEqMIIBJgYLKoZI
hvcNAQwKAQKgge8wgewwVwYJKoZIhvcNAQUNMEowKQYJKoZIhvcNAQUMMBwECGjvRYzqpHZgAgII
ADAMBggqhkiG9w0CCQUAMB0GCWCGSAFlAwQBKgQQ7UKuCSe3wc6jzD1X/gKX4gSBkOpUy6x5QANS
bsua44NsaVQG7122gktg0EwAHeWJtV7PraHAuiLhCcRzADtHkvO275ZW0OwmzsinmHCNwKmciOuh
lRqyipVqaPpeSwKi0cL5dzN/zWgVoUlt9fzhavHqFpc1Vfbg6uLfNAiBCp8OrJP5Vt1W2LfyyLgT
MJtP0qgBwWEGuYH6NR70ySlyBgIeKDElMCMGCSqGSIb3DQEJFTEWBBRPiETY/q2eZ1QCcVHyuA15
9uADqzBBMDEwDQYJYIZIAWUDBAIBBQAEIDsoZux2+Y3mvXWzMyc6pp04j8XsrMvvbz33FHs3RP1P
BAgkZtrhPk1w1AICCAA=
`

// writeTestBundle materializes the credential fixture in a temp dir.
func writeTestBundle(t *testing.T) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(testBundleBase64, "\n", ""))
	if err != nil {
		t.Fatalf("bad fixture encoding: %v", err)
	}
	path := filepath.Join(t.TempDir(), "client.p12")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadClientCertificate(t *testing.T) {
	path := writeTestBundle(t)

	cert, err := LoadClientCertificate(path, "s3cret")
	if err != nil {
		t.Fatalf("LoadClientCertificate() error = %v", err)
	}
	if cert.PrivateKey == nil {
		t.Error("private key should be decoded from the bundle")
	}
	if cert.Leaf == nil || cert.Leaf.Subject.CommonName != "vx-client" {
		t.Errorf("leaf = %+v, want CN vx-client", cert.Leaf)
	}
	if len(cert.Certificate) == 0 {
		t.Error("certificate chain should not be empty")
	}
}

func TestLoadClientCertificate_WrongPassword(t *testing.T) {
	path := writeTestBundle(t)

	if _, err := LoadClientCertificate(path, "wrong"); err == nil {
		t.Error("LoadClientCertificate() should reject a wrong password")
	}
}

func TestLoadClientCertificate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.p12")

	_, err := LoadClientCertificate(path, "s3cret")
	if err == nil {
		t.Fatal("LoadClientCertificate() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "absent.p12") {
		t.Errorf("error should name the file, got %v", err)
	}
}
