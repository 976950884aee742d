package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listPage int
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List analysis batches",
	Long:  `Lists previously submitted batches, newest first, 20 per page.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	page, err := backend.ListBatches(cmd.Context(), listPage)
	if err != nil {
		return err
	}

	if listJSON {
		data, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal batch list: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(page.Results) == 0 {
		cmd.Println("No batches found.")
		return nil
	}

	cmd.Printf("%-36s  %-20s  %-10s  %5s  %s\n", "ID", "NAME", "STATUS", "DOCS", "CREATED")
	for _, b := range page.Results {
		name := b.Name
		if name == "" {
			name = "-"
		}
		cmd.Printf("%-36s  %-20s  %-10s  %5d  %s\n",
			b.ID, truncate(name, 20), b.Status, b.DocumentCount,
			b.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	cmd.Printf("\n%d batch(es) total", page.Count)
	if page.Next != nil {
		cmd.Printf(" — more on page %d", listPage+1)
	}
	cmd.Println()
	return nil
}
