package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitscribe/gitscribe/internal/config"
	"github.com/gitscribe/gitscribe/internal/git"
	"github.com/gitscribe/gitscribe/internal/llm"
	"github.com/gitscribe/gitscribe/internal/logging"
	"github.com/gitscribe/gitscribe/internal/stats"
	"github.com/gitscribe/gitscribe/internal/ui"
	"github.com/gitscribe/gitscribe/internal/workflow"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitscribe",
	Short: "GitScribe - AI-assisted commit messages and repository insight",
	Long: `GitScribe generates commit messages from your pending changes,
explains diffs file by file, and profiles contributors, all from an
interactive terminal session.

Run it bare for the mode menu, or call a subcommand directly
(commit, analyze, contributors).`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		if err := logging.Initialize(logging.DefaultConfig(verbose, cfg.Log.Directory)); err != nil {
			logger.WithError(err).Warn("Failed to initialize file logging")
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.gitscribe/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`GitScribe {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(contributorsCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(statusCmd)
}

// modeEntries is the menu shown when gitscribe runs bare.
var modeEntries = []string{
	"📝 Generate commit message",
	"🔍 Analyze file changes",
	"👥 Analyze contributors",
	"❌ Exit",
}

// runInteractive loops the mode menu until the user exits. A flow error
// is reported and returns to the menu; it does not end the process.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tk, err := newToolkit(ctx)
	if err != nil {
		return err
	}

	for {
		choice, err := tk.console.Select("What would you like to do?", modeEntries, 0)
		if err != nil {
			return err
		}

		var runErr error
		switch choice {
		case 0:
			_, runErr = workflow.NewCommitFlow(tk.repo, tk.client, tk.console).Run(ctx)
		case 1:
			runErr = workflow.NewAnalyzeFlow(tk.repo, tk.client, tk.console).Run(ctx)
		case 2:
			runErr = workflow.NewContributorsFlow(tk.repo, tk.client, tk.console, reportOptions(), cfg.Report.RecentCommits).Run(ctx)
		default:
			return nil
		}

		if runErr != nil {
			logger.WithError(runErr).Error("Session failed")
			tk.console.Printf("\n⚠️  %v\n", runErr)
		}
		tk.console.Println()
	}
}

// toolkit bundles what every flow needs: the repository, the generation
// client, and the console.
type toolkit struct {
	repo    *git.Repo
	client  *llm.Client
	console *ui.Console
}

// newToolkit opens the repository at the working directory, resolves the
// API key, and builds the generation client.
func newToolkit(ctx context.Context) (*toolkit, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(ctx, cwd)
	if err != nil {
		return nil, err
	}

	if _, err := config.NewCredentialManagerAt(cfgFile).ResolveAPIKey(cfg); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &toolkit{repo: repo, client: client, console: ui.NewConsole()}, nil
}

// reportOptions maps the config bounds onto the aggregator options.
func reportOptions() stats.Options {
	return stats.Options{
		TopFiles:   cfg.Report.TopFiles,
		TopCommits: cfg.Report.TopCommits,
	}
}
