package server

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"talentscout/internal/config"
)

// MockVaultClient is a mock implementation for testing
type MockVaultClient struct {
	secrets map[string]*config.VaultSecret
	err     error
}

func (m *MockVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	if m.err != nil {
		return nil, m.err
	}
	if secret, exists := m.secrets[path]; exists {
		return secret, nil
	}
	return nil, fmt.Errorf("secret not found at %s", path)
}

func newTestWatcher(client VaultClientInterface, onReload APIKeysReloadCallback) *VaultWatcher {
	return NewVaultWatcher(client, "secret/data/talentscout/api-keys", time.Minute, onReload, nil)
}

func TestVaultWatcherCheckForUpdates(t *testing.T) {
	mockClient := &MockVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/talentscout/api-keys": {Data: map[string]any{}, Version: 2},
		},
	}
	vw := newTestWatcher(mockClient, func([]string) {})

	// Version 0 -> 2 is a change
	_, changed, err := vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if !changed {
		t.Error("Expected change to be detected")
	}

	_, changed, err = vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if changed {
		t.Error("Expected no change to be detected")
	}
}

func TestVaultWatcherPollReloadsKeys(t *testing.T) {
	secret := &config.VaultSecret{Data: map[string]any{"keys": "alpha, beta,,gamma"}, Version: 1}
	mockClient := &MockVaultClient{
		secrets: map[string]*config.VaultSecret{"secret/data/talentscout/api-keys": secret},
	}

	var got [][]string
	vw := newTestWatcher(mockClient, func(keys []string) { got = append(got, keys) })

	if err := vw.Prime(); err != nil {
		t.Fatalf("Prime failed: %v", err)
	}
	vw.poll()
	if len(got) != 0 {
		t.Fatalf("Expected no reload for the primed version, got %v", got)
	}

	secret.Version = 2
	vw.poll()
	if len(got) != 1 {
		t.Fatalf("Expected 1 reload, got %d", len(got))
	}
	if want := []string{"alpha", "beta", "gamma"}; !slices.Equal(got[0], want) {
		t.Errorf("Expected keys %v, got %v", want, got[0])
	}

	status := vw.Status()
	if status["last_version"] != int64(2) || status["reloads"] != 1 {
		t.Errorf("Unexpected status: %v", status)
	}
}

func TestVaultWatcherSkipsUnusableSecret(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"missing field", map[string]any{}},
		{"wrong type", map[string]any{"keys": []string{"a"}}},
		{"blank keys", map[string]any{"keys": " , "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &MockVaultClient{
				secrets: map[string]*config.VaultSecret{
					"secret/data/talentscout/api-keys": {Data: tt.data, Version: 1},
				},
			}
			reloaded := false
			vw := newTestWatcher(mockClient, func([]string) { reloaded = true })
			vw.poll()
			if reloaded {
				t.Error("Expected unusable secret to be ignored")
			}
		})
	}
}

func TestVaultWatcherReadError(t *testing.T) {
	vw := newTestWatcher(&MockVaultClient{err: fmt.Errorf("vault sealed")}, func([]string) {
		t.Error("Expected no reload on read error")
	})
	vw.poll()
	if err := vw.Prime(); err == nil {
		t.Error("Expected Prime to fail when Vault is unreadable")
	}
}
