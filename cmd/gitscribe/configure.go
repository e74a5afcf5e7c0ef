package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/config"
	"github.com/gitscribe/gitscribe/internal/ui"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive setup wizard (provider, model, API key)",
	Long: `Walk through GitScribe configuration step by step.

This will configure:
1. Backend provider (OpenAI or Gemini)
2. Model selection
3. API key (stored in the OS keychain when available)`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	return configureWizard(os.Stdin, os.Stdout, configPath)
}

func configureWizard(in io.Reader, w io.Writer, configPath string) error {
	fmt.Fprintln(w, "🔧 GitScribe Configuration Wizard")
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(w)

	// One reader feeds both the menus and the free-text prompts so piped
	// input is consumed in order.
	reader := bufio.NewReader(in)
	console := ui.NewConsoleWith(reader, w)

	loaded, err := config.Load(configPath)
	if err != nil {
		loaded = config.Default()
	}

	km := config.NewKeyringManager()
	keychainAvailable := km.IsAvailable()
	if !keychainAvailable {
		fmt.Fprintln(w, "⚠️  OS keychain not available (headless system or Linux without libsecret)")
		fmt.Fprintln(w, "   API keys will be stored in the config file instead.")
		fmt.Fprintln(w)
	}

	// The saved file starts from defaults so an env-sourced key never
	// leaks into it. Tuning sections carry over from the loaded config.
	out := config.Default()
	out.Generation = loaded.Generation
	out.Report = loaded.Report
	out.Limits = loaded.Limits
	out.Log = loaded.Log
	out.OpenAI.Model = loaded.OpenAI.Model
	out.Gemini.Model = loaded.Gemini.Model

	// Step 1: provider
	fmt.Fprintln(w, "Step 1/3: Backend Provider")
	fmt.Fprintln(w)

	providers := []string{
		"OpenAI (https://platform.openai.com)",
		"Gemini (https://aistudio.google.com)",
	}
	defaultProvider := 0
	if loaded.Provider == config.ProviderGemini {
		defaultProvider = 1
	}
	choice, err := console.Select("Which provider should GitScribe use?", providers, defaultProvider)
	if err != nil {
		return err
	}
	if choice == 1 {
		out.Provider = config.ProviderGemini
	} else {
		out.Provider = config.ProviderOpenAI
	}

	// Step 2: model
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Step 2/3: Model")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Model [%s]: ", out.Model())

	response, _ := reader.ReadString('\n')
	if model := strings.TrimSpace(response); model != "" {
		if out.Provider == config.ProviderGemini {
			out.Gemini.Model = model
		} else {
			out.OpenAI.Model = model
		}
	}

	// Step 3: API key
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Step 3/3: API Key")
	fmt.Fprintln(w)

	keep := false
	loaded.Provider = out.Provider
	if existing := loaded.APIKey(); existing != "" {
		fmt.Fprintf(w, "Current: %s\n", config.MaskAPIKey(existing))
		fmt.Fprint(w, "Keep existing key? (Y/n): ")

		response, _ = reader.ReadString('\n')
		answer := strings.TrimSpace(strings.ToLower(response))
		keep = answer == "" || answer == "y"
	}

	location := ""
	if keep {
		// A kept key whose only home is the config file must survive the
		// rewrite. Env- and keychain-sourced keys stay out of the saved
		// file; they are resolved again on every run.
		if km.GetAPIKeySource(loaded).Source == "config" {
			out.SetAPIKey(loaded.APIKey())
		}
	} else {
		fmt.Fprint(w, "Enter your API key (input hidden): ")
		key, err := readKey(reader)
		if err != nil {
			return err
		}
		if key == "" {
			fmt.Fprintln(w, "⚠️  No key entered; you can add one later with 'gitscribe configure'.")
		} else {
			creds := config.NewCredentialManagerAt(configPath)
			location, err = creds.StoreAPIKey(out, out.Provider, key)
			if err != nil {
				return err
			}
		}
	}

	if err := out.Save(configPath); err != nil {
		return err
	}

	// Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Configuration saved")
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(w, "Provider: %s\n", out.Provider)
	fmt.Fprintf(w, "Model:    %s\n", out.Model())
	if location != "" {
		fmt.Fprintf(w, "API key:  stored in %s\n", location)
	}
	fmt.Fprintf(w, "Config:   %s\n", configPath)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Try it out: gitscribe commit")

	return nil
}

// readKey reads the API key without echo on a terminal; piped input falls
// back to the shared line reader so a scripted wizard stays in order.
func readKey(reader *bufio.Reader) (string, error) {
	if config.IsInteractive() {
		return config.ReadSecret()
	}

	line, err := reader.ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
