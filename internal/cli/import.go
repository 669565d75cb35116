package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"biomed-system/internal/dto"
)

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import an equipment inventory workbook",
		Long: `Reads the first sheet whose header row names the equipment columns and
upserts every row by serial number. Rows that cannot be read are reported
and skipped; the rest are stored in a single transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), verbose)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.importer().ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderImport(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func renderImport(out io.Writer, result *dto.ImportResultDTO) {
	fmt.Fprintf(out, "Sheet %q: %s created, %s updated, %d skipped\n",
		result.Sheet,
		color.New(color.FgGreen).Sprint(result.Created),
		color.New(color.FgBlue).Sprint(result.Updated),
		result.Skipped,
	)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(out, "  %s row %d: %s\n", color.New(color.FgRed).Sprint("✗"), rowErr.Row, rowErr.Message)
	}
}
