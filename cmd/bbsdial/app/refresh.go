package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-aggregate the catalog from all configured sources",
	Long: `Force a fresh aggregation pass over every configured source and persist
the merged catalog to the cache. Sources that fail are skipped; the
refresh only fails when no source can be fetched at all, in which case
the previous cache is kept unchanged.`,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	svc, err := newCatalogService()
	if err != nil {
		return err
	}

	report, err := svc.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	for _, srcErr := range report.SourceErrors {
		fmt.Printf("  warning: %v\n", srcErr)
	}
	for _, skipErr := range report.Skipped {
		fmt.Printf("  skipped: %v\n", skipErr)
	}

	return nil
}
