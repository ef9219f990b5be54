package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring sets up a mock keyring for the duration of a test
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func TestSaveAndLoadAccount(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	account := Account{
		BaseURL:  "https://hub.example.com",
		HubID:    "hub-1",
		DeviceID: "vx-abc",
		BundleID: "com.example.app",
	}
	if err := SaveAccount(account); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}

	loaded, err := LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount() error = %v", err)
	}
	if loaded != account {
		t.Errorf("LoadAccount() = %+v, want %+v", loaded, account)
	}
}

func TestSaveAccountValidation(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	tests := []struct {
		name    string
		account Account
		wantErr string
	}{
		{
			name:    "missing base URL",
			account: Account{HubID: "hub-1"},
			wantErr: "base URL is required",
		},
		{
			name:    "missing hub id",
			account: Account{BaseURL: "https://hub.example.com"},
			wantErr: "hub id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SaveAccount(tt.account)
			if err == nil {
				t.Fatal("SaveAccount() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SaveAccount() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAccountGeneratesDeviceID(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	account := Account{BaseURL: "https://hub.example.com", HubID: "hub-1"}
	if err := SaveAccount(account); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}

	loaded, err := LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount() error = %v", err)
	}
	if loaded.DeviceID == "" {
		t.Error("expected generated device id, got empty")
	}
	if !strings.HasPrefix(loaded.DeviceID, "vx-") {
		t.Errorf("DeviceID = %q, want vx- prefix", loaded.DeviceID)
	}
}

func TestLoadAccountNotConfigured(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	_, err := LoadAccount()
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("LoadAccount() error = %v, want ErrNotConfigured", err)
	}
}

func TestLoadAccountKeyringFailure(t *testing.T) {
	withFailingKeyring(t, errors.New("no backend"))

	_, err := LoadAccount()
	if err == nil {
		t.Fatal("LoadAccount() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to open keyring") {
		t.Errorf("LoadAccount() error = %v, want keyring open failure", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	if err := SaveAccount(Account{BaseURL: "https://hub.example.com", HubID: "hub-1"}); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}
	if err := DeleteAccount(); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if _, err := LoadAccount(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("LoadAccount() after delete error = %v, want ErrNotConfigured", err)
	}

	// Deleting again is a no-op.
	if err := DeleteAccount(); err != nil {
		t.Errorf("DeleteAccount() on empty keyring error = %v", err)
	}
}

func TestNewDeviceIDUnique(t *testing.T) {
	a := NewDeviceID()
	b := NewDeviceID()
	if a == b {
		t.Errorf("NewDeviceID() returned duplicate %q", a)
	}
	if len(a) != len("vx-")+32 {
		t.Errorf("NewDeviceID() = %q, unexpected length", a)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		backend  string
		dbusAddr string
		want     bool
	}{
		{"explicit file backend", "darwin", keyringBackendFile, "", true},
		{"system backend never forced", "linux", keyringBackendSystem, "", false},
		{"headless linux auto", "linux", keyringBackendAuto, "", true},
		{"linux with dbus", "linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"darwin auto", "darwin", keyringBackendAuto, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbusAddr)
			if got != tt.want {
				t.Errorf("shouldForceFileBackend(%q, %q, %q) = %v, want %v",
					tt.goos, tt.backend, tt.dbusAddr, got, tt.want)
			}
		})
	}
}

func TestResolveAccountEnvOnly(t *testing.T) {
	withFailingKeyring(t, errors.New("keyring must not be opened"))

	t.Setenv(envBaseURL, "https://hub.example.com")
	t.Setenv(envHubID, "hub-env")
	t.Setenv(envDeviceID, "vx-env")

	account, err := ResolveAccount()
	if err != nil {
		t.Fatalf("ResolveAccount() error = %v", err)
	}
	if account.HubID != "hub-env" || account.DeviceID != "vx-env" {
		t.Errorf("ResolveAccount() = %+v, want env values", account)
	}
}

func TestResolveAccountEnvOverride(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	stored := Account{BaseURL: "https://hub.example.com", HubID: "hub-1", DeviceID: "vx-stored"}
	if err := SaveAccount(stored); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}
	t.Setenv(envHubID, "hub-override")

	account, err := ResolveAccount()
	if err != nil {
		t.Fatalf("ResolveAccount() error = %v", err)
	}
	if account.HubID != "hub-override" {
		t.Errorf("HubID = %q, want override", account.HubID)
	}
	if account.DeviceID != "vx-stored" {
		t.Errorf("DeviceID = %q, want stored value", account.DeviceID)
	}
}

func TestResolveAccountEnvCertOverride(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	stored := Account{BaseURL: "https://hub.example.com", HubID: "hub-1", DeviceID: "vx-stored"}
	if err := SaveAccount(stored); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}
	t.Setenv(envCertFile, "/etc/vxhub/client.p12")
	t.Setenv(envCertPass, "s3cret")

	account, err := ResolveAccount()
	if err != nil {
		t.Fatalf("ResolveAccount() error = %v", err)
	}
	if account.CertFile != "/etc/vxhub/client.p12" {
		t.Errorf("CertFile = %q, want env value", account.CertFile)
	}
	if account.CertPassword != "s3cret" {
		t.Errorf("CertPassword = %q, want env value", account.CertPassword)
	}
}
