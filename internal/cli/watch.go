package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/client"
	"github.com/harper/simscan/internal/domain"
	"github.com/harper/simscan/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch [batch-id]",
	Short: "Track a batch until it settles and render its results",
	Long: `Polls an existing batch until the analysis reaches a terminal state,
then renders the aggregated results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchBatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchBatch runs one tracking session to completion and renders the final
// report. Shared by watch, submit, and text.
func watchBatch(cmd *cobra.Command, id string) error {
	settled := make(chan session.View, 1)
	var lastStatus domain.BatchStatus

	ctrl := session.NewController(id, backend, func(v session.View) {
		if v.Batch != nil && v.Batch.Status != lastStatus {
			lastStatus = v.Batch.Status
			switch lastStatus {
			case domain.BatchStatusQueued:
				cmd.Println("Queued for analysis...")
			case domain.BatchStatusProcessing:
				cmd.Println("Analyzing documents...")
			}
		}
		if v.State == session.StateSettled {
			settled <- v
		}
	}, session.WithInterval(cfg.Poll.Interval), session.WithLogger(log))

	ctrl.Start(cmd.Context())
	defer ctrl.Cancel()

	select {
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	case v := <-settled:
		if v.Err != nil {
			if errors.Is(v.Err, client.ErrNotFound) {
				return errors.New("batch not found; it may have been deleted")
			}
			return v.Err
		}
		if v.Batch.Status == domain.BatchStatusFailed {
			return errors.New("analysis failed; try submitting the batch again")
		}
		renderReport(cmd, v.Batch, v.Report)
		return nil
	}
}
