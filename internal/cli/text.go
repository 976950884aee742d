package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/domain"
)

var (
	textName   string
	textKGram  int
	textWindow int
	textNoWait bool
)

var textCmd = &cobra.Command{
	Use:   "text [author=file...]",
	Short: "Compare named text entries",
	Long: `Creates a comparison batch from named text entries. Each argument is
an author=file pair; the file's contents become that author's entry.

Example:
  simscan text "Student A"=essay_a.txt "Student B"=essay_b.txt`,
	Args: cobra.MinimumNArgs(2),
	RunE: runText,
}

func init() {
	textCmd.Flags().StringVarP(&textName, "name", "n", "Text Comparison", "batch display name")
	textCmd.Flags().IntVar(&textKGram, "k-gram", 0, "fingerprint k-gram size")
	textCmd.Flags().IntVar(&textWindow, "window", 0, "fingerprint sampling window size")
	textCmd.Flags().BoolVar(&textNoWait, "no-wait", false, "print the batch id and exit without tracking")
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	entries := make([]domain.TextEntry, 0, len(args))
	for _, arg := range args {
		author, path, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("argument %q is not an author=file pair", arg)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		entries = append(entries, domain.TextEntry{Author: author, Text: string(data)})
	}

	batch, err := backend.CreateTextBatch(cmd.Context(), textName, entries, defaultOptions(textKGram, textWindow))
	if err != nil {
		return err
	}

	cmd.Printf("Batch %s created (%d entries, status %s)\n", batch.ID, len(entries), batch.Status)
	if textNoWait {
		return nil
	}
	return watchBatch(cmd, batch.ID)
}
