package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

// RootCmd assembles the biomedctl command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "biomedctl",
		Short: "Biomedical equipment maintenance administration",
		Long: `biomedctl operates the maintenance database directly: schema migrations,
demo data, the annual preventive plan and equipment inventory imports.
Connection settings come from the same environment as the HTTP server.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured LOG_LEVEL instead of warnings only")

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(SeedCmd())
	rootCmd.AddCommand(ReportCmd())
	rootCmd.AddCommand(ImportCmd())
	return rootCmd
}
