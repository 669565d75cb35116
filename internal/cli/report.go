package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biomed-system/internal/dto"
	"biomed-system/internal/maintenance"
)

var monthAbbrev = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var (
		year  int
		today string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the annual preventive maintenance plan",
		Long: `Prints one line per equipment with its scheduled visits for the year,
the outcome of each visit and the overall status.

--today replays the plan as it looked on a given date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			if today != "" {
				if err := rt.pinToday(today); err != nil {
					return err
				}
			}
			report, err := rt.reportService().GetAnnualReport(cmd.Context(), year)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "plan year (default: current year)")
	cmd.Flags().StringVar(&today, "today", "", "evaluate the plan as of this YYYY-MM-DD date")
	return cmd
}

func renderReport(out io.Writer, report *dto.AnnualReportDTO) {
	fmt.Fprintf(out, "Plan de mantenimiento preventivo %d (al %s)\n\n", report.Year, report.Today)
	if len(report.Rows) == 0 {
		fmt.Fprintln(out, "No equipment registered.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ÁREA\tINVENTARIO\tEQUIPO\tESTADO\t%s\tESTATUS\n", strings.Join(monthAbbrev[:], "\t"))
	for _, row := range report.Rows {
		cells := make([]string, 0, 12)
		for _, month := range monthCells(row) {
			cells = append(cells, month)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Area,
			row.InventoryNumber,
			row.Equipment.Name,
			row.EffectiveStatus.Label,
			strings.Join(cells, "\t"),
			aggregateLabel(row.Aggregate),
		)
	}
	_ = w.Flush()

	if n := len(report.DanglingWorkOrders); n > 0 {
		fmt.Fprintf(out, "\n%s %d work order(s) reference missing equipment: %s\n",
			color.New(color.FgYellow).Sprint("warning:"), n, strings.Join(report.DanglingWorkOrders, ", "))
	}
}

// monthCells shows the visit label and a one-letter outcome, or "-" for unscheduled months.
func monthCells(row maintenance.ReportRow) [12]string {
	var cells [12]string
	for i := range cells {
		cells[i] = "-"
	}
	for _, v := range row.Visits {
		if v.Visit.Month < 0 || v.Visit.Month > 11 {
			continue
		}
		cells[v.Visit.Month] = v.Visit.Label + visitMark(v.Status)
	}
	return cells
}

func visitMark(status maintenance.VisitStatus) string {
	switch status {
	case maintenance.VisitDone:
		return "✓"
	case maintenance.VisitOverdue:
		return "!"
	default:
		return ""
	}
}

func aggregateLabel(agg maintenance.AggregateStatus) string {
	text := fmt.Sprintf("%s %d/%d", agg.Label, agg.Done, agg.Total)
	switch agg.Code {
	case maintenance.AggregateOverdue:
		return color.New(color.FgRed).Sprint(text)
	case maintenance.AggregateOK:
		return color.New(color.FgGreen).Sprint(text)
	case maintenance.AggregateOnTime:
		return color.New(color.FgCyan).Sprint(text)
	case maintenance.AggregatePending:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return agg.Label
	}
}
