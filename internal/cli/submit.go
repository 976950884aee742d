package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/client"
)

var (
	submitName   string
	submitProv   string
	submitKGram  int
	submitWindow int
	submitNoWait bool
)

var submitCmd = &cobra.Command{
	Use:   "submit [files...]",
	Short: "Upload documents and start an analysis batch",
	Long: `Uploads one or more documents, creates an analysis batch, and by
default tracks it until the analysis completes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitName, "name", "n", "", "batch display name")
	submitCmd.Flags().StringVar(&submitProv, "provider", "", "detection provider")
	submitCmd.Flags().IntVar(&submitKGram, "k-gram", 0, "fingerprint k-gram size (smaller catches shorter matches)")
	submitCmd.Flags().IntVar(&submitWindow, "window", 0, "fingerprint sampling window size")
	submitCmd.Flags().BoolVar(&submitNoWait, "no-wait", false, "print the batch id and exit without tracking")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	var uploads []client.Upload
	var closers []*os.File
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		closers = append(closers, f)
		uploads = append(uploads, client.Upload{Name: filepath.Base(path), Reader: f})
	}

	provider := submitProv
	if provider == "" {
		provider = cfg.Detect.Provider
	}

	batch, err := backend.CreateBatch(cmd.Context(), uploads, submitName, provider, defaultOptions(submitKGram, submitWindow))
	if err != nil {
		return err
	}

	cmd.Printf("Batch %s created (%d documents, status %s)\n", batch.ID, len(args), batch.Status)
	if submitNoWait {
		return nil
	}
	return watchBatch(cmd, batch.ID)
}
