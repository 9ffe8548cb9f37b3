package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/onionwatch/internal/database"
	"github.com/nao1215/onionwatch/internal/report"
)

// NewRecordsCmd creates the records command.
func NewRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List every stored record",
		Long: `Records prints every record kept in the record store as a markdown
table, oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					a.logger.Error("failed to close record store", "error", err)
				}
			}()

			return report.WriteRecordsTable(a.out, database.FetchAll(ctx, store, a.logger))
		},
	}
	return cmd
}
