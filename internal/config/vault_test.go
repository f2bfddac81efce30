package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"talentscout/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretSource struct {
	secrets map[string]map[string]string
	err     error
}

func (f *fakeSecretSource) GetStringSecret(path, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	secret, ok := f.secrets[path]
	if !ok {
		return "", fmt.Errorf("secret not found at path: %s", path)
	}
	value, ok := secret[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	return value, nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/data/test")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeKVv2(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		secret, err := decodeKVv2(map[string]any{
			"data":     map[string]any{"api_key": "abc"},
			"metadata": map[string]any{"version": "3"},
		}, "secret/data/ai")
		require.NoError(t, err)
		assert.Equal(t, int64(3), secret.Version)
		assert.Equal(t, "abc", secret.Data["api_key"])
	})

	t.Run("missing data", func(t *testing.T) {
		_, err := decodeKVv2(map[string]any{"metadata": map[string]any{"version": 1}}, "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing 'data' field")
	})

	t.Run("missing version", func(t *testing.T) {
		_, err := decodeKVv2(map[string]any{
			"data":     map[string]any{},
			"metadata": map[string]any{},
		}, "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing 'version' field")
	})
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestApplySecrets(t *testing.T) {
	logger := errors.NewNopLogger()

	t.Run("applies api keys and ai key", func(t *testing.T) {
		cfg := &Config{
			AI:     AIConfig{Provider: ProviderGroq, APIKey: "from-env"},
			Server: ServerConfig{APIKeys: []string{"old"}},
			Vault: VaultConfig{Secrets: VaultSecrets{
				APIKeys: "secret/data/server",
				AIKey:   "secret/data/ai",
			}},
		}
		source := &fakeSecretSource{secrets: map[string]map[string]string{
			"secret/data/server": {"keys": "k1, k2,,k3"},
			"secret/data/ai":     {"api_key": "from-vault"},
		}}

		require.NoError(t, applySecrets(source, cfg, logger))
		assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.Server.APIKeys)
		assert.Equal(t, "from-vault", cfg.AI.APIKey)
	})

	t.Run("empty values keep existing config", func(t *testing.T) {
		cfg := &Config{
			AI:     AIConfig{APIKey: "from-env"},
			Server: ServerConfig{APIKeys: []string{"old"}},
			Vault: VaultConfig{Secrets: VaultSecrets{
				APIKeys: "secret/data/server",
				AIKey:   "secret/data/ai",
			}},
		}
		source := &fakeSecretSource{secrets: map[string]map[string]string{
			"secret/data/server": {"keys": ""},
			"secret/data/ai":     {"api_key": ""},
		}}

		require.NoError(t, applySecrets(source, cfg, logger))
		assert.Equal(t, []string{"old"}, cfg.Server.APIKeys)
		assert.Equal(t, "from-env", cfg.AI.APIKey)
	})

	t.Run("read failure is reported", func(t *testing.T) {
		cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{AIKey: "secret/data/ai"}}}
		source := &fakeSecretSource{err: fmt.Errorf("permission denied")}

		err := applySecrets(source, cfg, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load AI API key from vault")
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{AI: AIConfig{APIKey: "unchanged"}}
	assert.NoError(t, ApplyVaultSecrets(cfg, errors.NewNopLogger()))
	assert.Equal(t, "unchanged", cfg.AI.APIKey)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****6789", maskSecret("abcdef123456789"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
