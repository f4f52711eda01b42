package cli

import (
	"strconv"
	"time"

	"github.com/lherron/tambo/internal/cli/appctx"
	"github.com/lherron/tambo/internal/ledger"
	"github.com/lherron/tambo/internal/render"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [RUN_ID]",
	Short: "Show recorded merge runs",
	Long: `List merge runs recorded in the ledger, newest first, or show a single
run by ID. Requires --ledger or TAMBO_LEDGER_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: appctx.WithApp(appctx.WithLedger(), runHistory),
}

var (
	historyLimit int
	historyJSON  bool
	historyYAML  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyCmd.Flags().BoolVar(&historyYAML, "yaml", false, "Output as YAML")
}

func runHistory(app *appctx.App, cmd *cobra.Command, args []string) error {
	var runs []ledger.Run
	if len(args) == 1 {
		run, err := app.Ledger.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		runs = []ledger.Run{*run}
	} else {
		var err error
		runs, err = app.Ledger.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
	}

	format, err := outputFormat(app.Config.Output, map[render.Format]bool{
		render.FormatJSON: historyJSON,
		render.FormatYAML: historyYAML,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(runs))
	items := make([]interface{}, 0, len(runs))
	for _, run := range runs {
		dryRun := ""
		if run.DryRun {
			dryRun = "dry-run"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Updated),
			strconv.Itoa(run.Added),
			strconv.Itoa(run.Replaced),
			run.OutputPath,
			dryRun,
		})
		items = append(items, run)
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: format})
	return r.Render(render.Table{
		Headers: []string{"Run", "When", "Total", "Updated", "Added", "Replaced", "Output", ""},
		Rows:    rows,
		Data:    runs,
		Items:   items,
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
