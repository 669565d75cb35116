package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biomed-system/pkg/database/postgresql"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or list schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgresql.MigrateUp), string(postgresql.MigrateDown), string(postgresql.MigrateStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgresql.MigrateUp
			if len(args) == 1 {
				command = postgresql.MigrationCommand(args[0])
			}

			rt, err := openRuntime(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := postgresql.Migrate(cmd.Context(), rt.pool, command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: %s\n", command, color.New(color.FgGreen).Sprint("OK"))
			return nil
		},
	}
}
