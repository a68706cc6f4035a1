package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bbsdial/bbsdial/internal/connector"
	"github.com/bbsdial/bbsdial/internal/menu"
)

var dialCmd = &cobra.Command{
	Use:   "dial [id]",
	Short: "Connect to a BBS entry",
	Long: `Connect to a catalog entry through the matching external client:
telnet and ssh entries spawn the system client, https entries open in
the browser. With no argument an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDial,
}

func runDial(cmd *cobra.Command, args []string) error {
	svc, err := newCatalogService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		entries, err := svc.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("no entries in the catalog; run 'bbsdial refresh' first")
		}

		picked, ok, err := menu.Pick(entries)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		id = picked.ID
	}

	e, err := svc.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return connector.New().Dial(ctx, e)
}
