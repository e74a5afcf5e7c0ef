package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "gitscribe"
)

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

// keyringItem returns the keychain item name for a provider's API key.
func keyringItem(provider string) string {
	return provider + "-api-key"
}

// SaveAPIKey stores a provider's API key securely in the OS keychain
// This uses OS-level encryption:
// - macOS: Keychain Access.app → "gitscribe" → "<provider>-api-key"
// - Windows: Credential Manager → "gitscribe"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SaveAPIKey(provider, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}

	err := keyring.Set(KeyringService, keyringItem(provider), apiKey)
	if err != nil {
		km.logger.Error("failed to save API key to keychain", "provider", provider, "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("api key saved to keychain", "service", KeyringService, "provider", provider)
	return nil
}

// GetAPIKey retrieves a provider's API key from the OS keychain
func (km *KeyringManager) GetAPIKey(provider string) (string, error) {
	apiKey, err := keyring.Get(KeyringService, keyringItem(provider))
	if err == keyring.ErrNotFound {
		// Not an error - just not set yet
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get API key from keychain", "provider", provider, "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	km.logger.Debug("api key retrieved from keychain", "provider", provider)
	return apiKey, nil
}

// DeleteAPIKey removes a provider's API key from the OS keychain
func (km *KeyringManager) DeleteAPIKey(provider string) error {
	err := keyring.Delete(KeyringService, keyringItem(provider))
	if err == keyring.ErrNotFound {
		// Already deleted, not an error
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete API key from keychain", "provider", provider, "error", err)
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("api key deleted from keychain", "provider", provider)
	return nil
}

// IsAvailable checks if OS keychain is available
// Returns false on headless systems (CI/CD) where keychain isn't available
func (km *KeyringManager) IsAvailable() bool {
	// Try to access keyring with a test operation
	_, err := keyring.Get(KeyringService, "test-availability")

	// If error is "not found", keychain is available
	// If error is something else, keychain may not be available
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.Debug("keychain not available", "error", err)
		return false
	}

	return true
}

// KeySourceInfo describes where the active provider's API key comes from.
// Keys loaded from a .env file report as "env": godotenv folds them into
// the process environment before this check runs.
type KeySourceInfo struct {
	Source      string // "keychain", "config", "env", "none"
	Secure      bool   // true if stored securely (keychain or env var in CI/CD)
	Recommended string // recommendation if not optimal
}

// envVarsFor lists the environment variables consulted for a provider.
func envVarsFor(provider string) []string {
	if provider == ProviderGemini {
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	return []string{"OPENAI_API_KEY"}
}

// GetAPIKeySource determines where the active provider's API key is coming from
func (km *KeyringManager) GetAPIKeySource(cfg *Config) KeySourceInfo {
	// Check environment variables first (highest precedence)
	for _, name := range envVarsFor(cfg.Provider) {
		if os.Getenv(name) != "" {
			return KeySourceInfo{
				Source:      "env",
				Secure:      true, // Acceptable for CI/CD
				Recommended: fmt.Sprintf("Using %s environment variable (good for CI/CD)", name),
			}
		}
	}

	// Check keychain
	keychainKey, _ := km.GetAPIKey(cfg.Provider)
	if keychainKey != "" {
		return KeySourceInfo{
			Source:      "keychain",
			Secure:      true,
			Recommended: "Stored securely in OS keychain ✅",
		}
	}

	// Check config file
	if cfg.APIKey() != "" {
		return KeySourceInfo{
			Source:      "config",
			Secure:      false,
			Recommended: "⚠️  Plaintext storage detected. Run: gitscribe configure",
		}
	}

	return KeySourceInfo{
		Source:      "none",
		Secure:      false,
		Recommended: "No API key configured. Run: gitscribe configure",
	}
}

// MaskAPIKey masks an API key for display
// Shows first 7 chars and last 4 chars: "sk-proj...abc123"
func MaskAPIKey(apiKey string) string {
	if apiKey == "" {
		return "(not set)"
	}
	if len(apiKey) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", apiKey[:7], apiKey[len(apiKey)-4:])
}
