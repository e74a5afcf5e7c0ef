package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/gitscribe/gitscribe/internal/errors"
	"golang.org/x/term"
)

// CredentialManager handles API key retrieval with a priority chain
// Priority: Environment Variables → Keychain → Config File → Interactive Prompt
type CredentialManager struct {
	keyring    *KeyringManager
	configPath string
}

// NewCredentialManager creates a credential manager bound to the default
// config path.
func NewCredentialManager() *CredentialManager {
	return NewCredentialManagerAt("")
}

// NewCredentialManagerAt pins the config file path; used when --config
// overrides the default location.
func NewCredentialManagerAt(path string) *CredentialManager {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &CredentialManager{
		keyring:    NewKeyringManager(),
		configPath: path,
	}
}

// ResolveAPIKey retrieves the active provider's API key using the priority
// chain. Load already folds env and keychain values into cfg; this adds the
// interactive last resort so a first run without `gitscribe configure` still
// works in a terminal.
func (cm *CredentialManager) ResolveAPIKey(cfg *Config) (string, error) {
	if key := cfg.APIKey(); key != "" {
		return key, nil
	}

	if IsInteractive() {
		fmt.Printf("\n⚠️  %s API key not found.\n", providerLabel(cfg.Provider))
		fmt.Printf("   Create one at: %s\n\n", keyConsoleURL(cfg.Provider))

		key, err := cm.promptForAPIKey(cfg)
		if err != nil {
			return "", err
		}
		cfg.SetAPIKey(key)
		return key, nil
	}

	return "", errors.ConfigErrorf(
		"%s API key not found. Set it via:\n"+
			"  1. Environment variable: export %s=...\n"+
			"  2. Run: gitscribe configure (to set up keychain)\n"+
			"  3. Config file: %s",
		providerLabel(cfg.Provider), envVarsFor(cfg.Provider)[0], cm.configPath)
}

// StoreAPIKey saves a provider's key to the keychain (preferred) or the
// config file (fallback). Returns a description of where it went.
func (cm *CredentialManager) StoreAPIKey(cfg *Config, provider, key string) (string, error) {
	if cm.keyring.IsAvailable() {
		if err := cm.keyring.SaveAPIKey(provider, key); err != nil {
			return "", errors.Wrap(err, errors.KindConfig, "failed to save API key to keychain")
		}
		return "OS keychain", nil
	}

	switch provider {
	case ProviderGemini:
		cfg.Gemini.APIKey = key
	default:
		cfg.OpenAI.APIKey = key
	}
	if err := cfg.Save(cm.configPath); err != nil {
		return "", errors.Wrap(err, errors.KindConfig, "failed to save API key to config file")
	}
	return cm.configPath, nil
}

// promptForAPIKey prompts the user for the active provider's API key
func (cm *CredentialManager) promptForAPIKey(cfg *Config) (string, error) {
	fmt.Printf("Enter %s API key: ", providerLabel(cfg.Provider))
	key, err := ReadSecret()
	if err != nil {
		return "", err
	}

	if key == "" {
		return "", errors.ConfigError("an API key is required")
	}

	if location, err := cm.StoreAPIKey(cfg, cfg.Provider, key); err == nil {
		fmt.Printf("✓ Saved to %s\n", location)
	}

	return key, nil
}

// HasCredentials checks if the active provider has a usable key anywhere
// in the chain.
func (cm *CredentialManager) HasCredentials(cfg *Config) bool {
	for _, name := range envVarsFor(cfg.Provider) {
		if os.Getenv(name) != "" {
			return true
		}
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetAPIKey(cfg.Provider); err == nil && key != "" {
			return true
		}
	}

	return cfg.APIKey() != ""
}

// GetConfigPath returns the path to the config file
func (cm *CredentialManager) GetConfigPath() string {
	return cm.configPath
}

// Keyring exposes the underlying keyring manager.
func (cm *CredentialManager) Keyring() *KeyringManager {
	return cm.keyring
}

// ReadSecret reads a key/token from stdin without echoing
func ReadSecret() (string, error) {
	// Try to read from terminal (supports password masking)
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after password input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	// Fallback: Read from stdin (piped input)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// providerLabel returns a display name for a provider.
func providerLabel(provider string) string {
	if provider == ProviderGemini {
		return "Gemini"
	}
	return "OpenAI"
}

// keyConsoleURL returns where keys for a provider are minted.
func keyConsoleURL(provider string) string {
	if provider == ProviderGemini {
		return "https://aistudio.google.com/apikey"
	}
	return "https://platform.openai.com/api-keys"
}
