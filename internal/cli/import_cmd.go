package cli

import (
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON catalog and schedule it",
		Long: `Import topics, courses, learning paths and enrollments from a JSON
catalog. Entries refer to each other by "ref". Everything is validated first
and written in one transaction; every course and learning path is scheduled
as part of the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportCatalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}
