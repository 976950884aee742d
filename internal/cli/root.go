// Package cli implements the simscan command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/client"
	"github.com/harper/simscan/internal/config"
	"github.com/harper/simscan/internal/domain"
	"github.com/harper/simscan/internal/logger"
)

var (
	cfgFile string
	apiURL  string

	cfg     *config.Config
	log     *logger.Logger
	backend *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "simscan",
	Short: "Submit and track document-similarity analysis batches",
	Long: `simscan is a client for the document-analysis service: it uploads
documents (or pasted text entries), tracks the analysis batch until it
completes, and renders the aggregated results: similarity matrix, flagged
segments, and AI-likelihood summary.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend API base URL (overrides config)")
}

// Execute runs the root command.
// Parameters: none.
// Returns:
//   - error: non-nil when the invoked command fails.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

// initServices loads configuration and wires the logger and backend client
// before any subcommand runs.
func initServices(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	log = logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		ServiceName: "simscan",
	})
	logger.SetDefault(log)

	if apiURL != "" {
		cfg.Backend.BaseURL = apiURL
	}
	backend = client.New(&client.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.RequestTimeout,
	})
	return nil
}

// defaultOptions builds submission options from configured defaults plus
// per-command flag overrides.
func defaultOptions(kGram, window int) domain.Options {
	opts := domain.Options{
		KGramSize:  cfg.Detect.KGramSize,
		WindowSize: cfg.Detect.WindowSize,
	}
	if kGram > 0 {
		opts.KGramSize = kGram
	}
	if window > 0 {
		opts.WindowSize = window
	}
	return opts
}
