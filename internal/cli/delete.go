package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/client"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [batch-id]",
	Short: "Delete a batch and its stored files",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := backend.DeleteBatch(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return errors.New("batch not found; it may already have been deleted")
		}
		return err
	}
	cmd.Printf("Batch %s deleted\n", args[0])
	return nil
}
