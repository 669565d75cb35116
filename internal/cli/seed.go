package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biomed-system/seeders"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo equipment and work orders",
		Long: `Creates a small demo inventory covering every maintenance cadence and
drives a handful of work orders through assignment, progress and closure.
Equipment already present (by serial number) is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			if year == 0 {
				year = rt.clock().In(rt.cfg.Report.Location).Year()
			}
			summary, err := seeders.New(rt.equipmentService(), rt.workOrderService(), rt.logger.Named("seed")).
				Run(cmd.Context(), year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Equipment created: %s\n", color.New(color.FgGreen).Sprint(summary.EquipmentCreated))
			if summary.EquipmentSkipped > 0 {
				fmt.Fprintf(out, "Equipment skipped: %s\n", color.New(color.FgYellow).Sprint(summary.EquipmentSkipped))
			}
			fmt.Fprintf(out, "Work orders:       %d\n", summary.WorkOrders)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "plan year of the demo data (default: current year)")
	return cmd
}
