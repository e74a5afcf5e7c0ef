package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/config"
	"github.com/gitscribe/gitscribe/internal/git"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and repository state",
	Long:  `Display the active provider, where the API key comes from, and what the current repository looks like.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("🖋️  GitScribe Status\n")
	fmt.Printf("%s\n", strings.Repeat("═", 50))

	// Configuration
	fmt.Printf("\n📋 Configuration:\n")
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Model: %s\n", cfg.Model())

	km := config.NewKeyringManager()
	source := km.GetAPIKeySource(cfg)
	if source.Source == "none" {
		fmt.Printf("  API key: ❌ Not configured (run 'gitscribe configure')\n")
	} else {
		fmt.Printf("  API key: %s (%s)\n", config.MaskAPIKey(cfg.APIKey()), source.Source)
		if !source.Secure {
			fmt.Printf("  💡 %s\n", source.Recommended)
		}
	}

	configPath := cfgFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	fmt.Printf("  Config file: %s\n", configPath)

	// Generation settings
	fmt.Printf("\n⚙️  Generation:\n")
	fmt.Printf("  Max tokens: %d\n", cfg.Generation.MaxTokens)
	fmt.Printf("  Temperature: %.1f\n", cfg.Generation.Temperature)
	fmt.Printf("  Diff limit: %d lines\n", cfg.Generation.MaxDiffLines)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.Limits.RequestsPerMinute)

	// Repository
	fmt.Printf("\n🔗 Repository:\n")
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	repo, err := git.Open(ctx, cwd)
	if err != nil {
		fmt.Printf("  Status: ❌ Not a git repository\n")
		return nil
	}

	fmt.Printf("  Root: %s\n", repo.Root())
	if branch, err := repo.Branch(ctx); err == nil {
		fmt.Printf("  Branch: %s\n", branch)
	}
	if remote := repo.Remote(ctx); remote != "" {
		if owner, name, err := git.ParseRepoURL(remote); err == nil {
			fmt.Printf("  Remote: %s/%s\n", owner, name)
		} else {
			fmt.Printf("  Remote: %s\n", remote)
		}
	}

	changed, err := repo.ChangedFiles(ctx)
	switch {
	case err != nil:
		fmt.Printf("  Working tree: ❌ Cannot detect changes\n")
	case len(changed) == 0:
		fmt.Printf("  Working tree: ✅ Clean\n")
	default:
		fmt.Printf("  Working tree: ⚠️ %d files with pending changes\n", len(changed))
		if diff, err := repo.Diff(ctx); err == nil {
			added, deleted := git.CountDiffLines(diff)
			fmt.Printf("  Pending lines: +%d -%d\n", added, deleted)
		}
	}

	fmt.Println("\n💡 Ready! Run 'gitscribe commit' to generate a commit message")

	return nil
}
