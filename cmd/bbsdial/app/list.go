package app

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the BBS entries in the catalog",
	Long: `List the catalog entries, loading the cached catalog when one exists.
On a first run without a cache this triggers a full aggregation pass.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, err := newCatalogService()
	if err != nil {
		return err
	}

	entries, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries in the catalog. Add entry files to a source directory and run 'bbsdial refresh'.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("ID", "Name", "URL", "Description")
	for _, e := range entries {
		if err := table.Append(e.ID, e.Name, e.URL, e.Description); err != nil {
			return fmt.Errorf("failed to render entry table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render entry table: %w", err)
	}

	return nil
}
