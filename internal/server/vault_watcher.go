package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/errors"
)

// VaultClientInterface defines the interface for Vault operations
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// APIKeysReloadCallback receives the rotated server API keys
type APIKeysReloadCallback func(keys []string)

// VaultWatcher polls the KVv2 secret holding the server API keys and hands
// the new key list to the callback whenever the secret version increases
type VaultWatcher struct {
	mu sync.RWMutex

	client         VaultClientInterface
	secretPath     string
	pollInterval   time.Duration
	reloadCallback APIKeysReloadCallback
	logger         *errors.Logger

	running     bool
	lastVersion int64
	reloads     int
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, reloadCallback APIKeysReloadCallback, logger *errors.Logger) *VaultWatcher {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &VaultWatcher{
		client:         client,
		secretPath:     secretPath,
		pollInterval:   pollInterval,
		reloadCallback: reloadCallback,
		logger:         logger,
	}
}

// Prime records the version already applied at startup so the first poll
// does not reload unchanged keys
func (vw *VaultWatcher) Prime() error {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	vw.mu.Lock()
	vw.lastVersion = secret.Version
	vw.mu.Unlock()
	return nil
}

// Run polls Vault until ctx is done
func (vw *VaultWatcher) Run(ctx context.Context) error {
	vw.mu.Lock()
	if vw.running {
		vw.mu.Unlock()
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	vw.mu.Unlock()

	defer func() {
		vw.mu.Lock()
		vw.running = false
		vw.mu.Unlock()
		vw.logger.Info("Vault watcher stopped")
	}()

	vw.logger.Info("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval.String())

	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			vw.poll()
		}
	}
}

func (vw *VaultWatcher) poll() {
	secret, changed, err := vw.checkForUpdates()
	if err != nil {
		vw.logger.LogError(err, "Failed to check Vault for updates", "secret_path", vw.secretPath)
		return
	}
	if !changed {
		return
	}

	keys, err := apiKeysFromSecret(secret)
	if err != nil {
		vw.logger.LogError(err, "Rotated API key secret is unusable", "secret_path", vw.secretPath)
		return
	}

	vw.mu.Lock()
	vw.reloads++
	vw.mu.Unlock()

	vw.logger.Info("Vault secret changed, reloading API keys", "version", secret.Version, "count", len(keys))
	vw.reloadCallback(keys)
}

// checkForUpdates reads the secret and reports whether its version increased
func (vw *VaultWatcher) checkForUpdates() (*config.VaultSecret, bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if secret.Version > vw.lastVersion {
		vw.lastVersion = secret.Version
		return secret, true, nil
	}
	return secret, false, nil
}

// apiKeysFromSecret reads the comma-separated "keys" field
func apiKeysFromSecret(secret *config.VaultSecret) ([]string, error) {
	raw, ok := secret.Data["keys"].(string)
	if !ok {
		return nil, fmt.Errorf("secret has no string field \"keys\"")
	}
	keys := config.SplitKeys(raw)
	if len(keys) == 0 {
		return nil, fmt.Errorf("secret field \"keys\" is empty")
	}
	return keys, nil
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"reloads":       vw.reloads,
	}
}
