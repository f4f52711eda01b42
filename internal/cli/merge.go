package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lherron/tambo/internal/cli/appctx"
	"github.com/lherron/tambo/internal/ledger"
	"github.com/lherron/tambo/internal/reconcile"
	"github.com/lherron/tambo/internal/record"
	"github.com/lherron/tambo/internal/render"
	"github.com/lherron/tambo/internal/textfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the override record file into the base record file",
	Long: `Merge two record files into one.

Both files are read as UTF-8, falling back to latin-1 when a file is not
valid UTF-8. Records in the override file replace base records with the
same ID; base-only records are kept. The result is written sorted by ID
(numeric IDs first, by value, then the rest alphabetically), one blank
line between records.

Unless --out is given the override file is rewritten in place. With a
ledger configured the run is recorded after the output and any --report
are written; a failed report leaves the written output in place and
records no run.

Examples:
  tambo merge
  tambo merge --base verificada.txt --override full.txt --dry-run --diff
  tambo merge --out merged.txt --report report.json
  tambo merge --dry-run --entries
`,
	Args: cobra.NoArgs,
	RunE: appctx.WithApp(appctx.Options{Ledger: appctx.LedgerOptional}, runMerge),
}

var (
	mergeBasePath     string
	mergeOverridePath string
	mergeOutPath      string
	mergeDryRun       bool
	mergeDiff         bool
	mergeDiffContext  int
	mergeEntries      bool
	mergeReportPath   string
	mergeReportFormat string
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeBasePath, "base", "", "Base (verified) record file (overrides TAMBO_BASE_PATH)")
	mergeCmd.Flags().StringVar(&mergeOverridePath, "override", "", "Override (full) record file (overrides TAMBO_OVERRIDE_PATH)")
	mergeCmd.Flags().StringVar(&mergeOutPath, "out", "", "Output file (defaults to the override file)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report what would change without writing")
	mergeCmd.Flags().BoolVar(&mergeDiff, "diff", false, "Print a unified diff for every replaced record")
	mergeCmd.Flags().IntVar(&mergeDiffContext, "unified", 3, "Lines of unified context for --diff")
	mergeCmd.Flags().BoolVar(&mergeEntries, "entries", false, "Print the status of every record ID")
	mergeCmd.Flags().StringVar(&mergeReportPath, "report", "", "Write a merge report to path (not rolled back if the merge later fails)")
	mergeCmd.Flags().StringVar(&mergeReportFormat, "report-format", "", "Report format: json or yaml (default from --report extension)")
}

type mergeOptions struct {
	BasePath     string
	OverridePath string
	OutputPath   string
	DryRun       bool
	ReportPath   string
	ReportFormat render.Format
	Ledger       *ledger.Ledger
	Logger       *zap.Logger
}

type mergeOutcome struct {
	Report   *reconcile.Report
	Base     record.Set
	Override record.Set
	Merged   record.Set
}

func runMerge(app *appctx.App, cmd *cobra.Command, args []string) error {
	opts := mergeOptions{
		BasePath:     app.Config.BasePath,
		OverridePath: app.Config.OverridePath,
		OutputPath:   app.Config.Destination(),
		DryRun:       mergeDryRun,
		Ledger:       app.Ledger,
		Logger:       app.Logger,
	}
	if mergeBasePath != "" {
		opts.BasePath = mergeBasePath
	}
	if mergeOverridePath != "" {
		opts.OverridePath = mergeOverridePath
		if app.Config.OutputPath == "" {
			opts.OutputPath = mergeOverridePath
		}
	}
	if mergeOutPath != "" {
		opts.OutputPath = mergeOutPath
	}

	reportFormat, err := resolveReportFormat(mergeReportPath, mergeReportFormat)
	if err != nil {
		return err
	}
	opts.ReportPath = mergeReportPath
	opts.ReportFormat = reportFormat

	outcome, err := mergeFiles(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if mergeDiff {
		text, err := reconcile.DiffReplaced(outcome.Report, outcome.Base, outcome.Override, mergeDiffContext)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}

	if mergeEntries {
		if err := printEntries(cmd, outcome.Report); err != nil {
			return err
		}
	}

	printMergeSummary(cmd, outcome.Report)
	return nil
}

// mergeFiles reads, parses and merges the two record files, writes the
// result unless DryRun is set, writes the report if ReportPath is set, and
// records the run in the ledger if one is open. The run is recorded last so
// a failed report leaves no ledger row.
func mergeFiles(ctx context.Context, opts mergeOptions) (*mergeOutcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	baseContent, baseEnc, err := textfile.Read(opts.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load base records: %w", err)
	}
	overrideContent, overrideEnc, err := textfile.Read(opts.OverridePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load override records: %w", err)
	}

	base, baseStats := record.ParseDetailed(baseContent)
	logParse(logger, "base", opts.BasePath, baseEnc, base, baseStats)
	override, overrideStats := record.ParseDetailed(overrideContent)
	logParse(logger, "override", opts.OverridePath, overrideEnc, override, overrideStats)

	merged := record.Merge(base, override)

	report := reconcile.Plan(base, override)
	report.BasePath = opts.BasePath
	report.OverridePath = opts.OverridePath
	report.OutputPath = opts.OutputPath
	report.DryRun = opts.DryRun
	report.Digest = record.Digest(merged)
	report.BaseStats = baseStats
	report.OverrideStats = overrideStats

	if !report.Changed() {
		logger.Info("override adds or replaces no records",
			zap.String("override", opts.OverridePath),
			zap.Int("unchanged", report.Stats.Unchanged))
	}

	if opts.DryRun {
		logger.Info("dry run, output not written", zap.String("output", opts.OutputPath))
	} else {
		if err := textfile.Write(opts.OutputPath, merged); err != nil {
			return nil, fmt.Errorf("failed to write merged records: %w", err)
		}
		logger.Info("merged records written",
			zap.String("output", opts.OutputPath),
			zap.Int("records", len(merged)),
			zap.String("digest", report.Digest))
	}

	if opts.Ledger != nil {
		report.RunID = uuid.New().String()
	}

	if opts.ReportPath != "" {
		if err := writeReport(opts.ReportPath, opts.ReportFormat, report); err != nil {
			return nil, err
		}
		logger.Info("report written", zap.String("path", opts.ReportPath))
	}

	if opts.Ledger != nil {
		run := &ledger.Run{
			ID:               report.RunID,
			BasePath:         opts.BasePath,
			OverridePath:     opts.OverridePath,
			OutputPath:       opts.OutputPath,
			BaseEncoding:     string(baseEnc),
			OverrideEncoding: string(overrideEnc),
			Total:            report.Stats.Total,
			Updated:          report.Stats.Updated,
			Added:            report.Stats.Added,
			Replaced:         report.Stats.Replaced,
			Unchanged:        report.Stats.Unchanged,
			Retained:         report.Stats.Retained,
			Digest:           report.Digest,
			DryRun:           opts.DryRun,
		}
		if err := opts.Ledger.Record(ctx, run); err != nil {
			return nil, err
		}
		logger.Debug("merge run recorded", zap.String("run_id", run.ID))
	}

	return &mergeOutcome{
		Report:   report,
		Base:     base,
		Override: override,
		Merged:   merged,
	}, nil
}

func logParse(logger *zap.Logger, label, path string, enc textfile.Encoding, set record.Set, stats record.ParseStats) {
	logger.Debug("parsed record file",
		zap.String("source", label),
		zap.String("path", path),
		zap.String("encoding", string(enc)),
		zap.Int("records", len(set)),
		zap.Int("lines", stats.Lines),
		zap.Int("preamble_lines", stats.PreambleLines))
	if enc == textfile.Latin1 {
		logger.Info("file is not valid UTF-8, decoded as latin-1", zap.String("path", path))
	}
	if len(stats.Duplicates) > 0 {
		logger.Warn("duplicate record IDs, last occurrence kept",
			zap.String("path", path),
			zap.Strings("ids", stats.Duplicates))
	}
}

func resolveReportFormat(path, format string) (render.Format, error) {
	if path == "" {
		return "", nil
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return "", err
	}
	if f != render.FormatJSON && f != render.FormatYAML {
		return "", fmt.Errorf("unsupported report format: %s (use json or yaml)", format)
	}
	return f, nil
}

func writeReport(path string, format render.Format, report *reconcile.Report) error {
	var sb strings.Builder
	r := render.NewRenderer(&sb, render.Options{Format: format})
	if err := r.Render(render.Table{Data: report}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := textfile.WriteString(path, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func printEntries(cmd *cobra.Command, report *reconcile.Report) error {
	entries := report.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, string(e.Status)})
	}
	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatTable})
	return r.Render(render.Table{
		Headers: []string{"ID", "Status"},
		Rows:    rows,
	})
}

func printMergeSummary(cmd *cobra.Command, report *reconcile.Report) {
	out := cmd.OutOrStdout()
	if report.DryRun {
		fmt.Fprintf(out, "Dry run: %s would be written.\n", report.OutputPath)
	}
	fmt.Fprintf(out, "  added: %d  replaced: %d  unchanged: %d  retained: %d\n",
		report.Stats.Added, report.Stats.Replaced, report.Stats.Unchanged, report.Stats.Retained)
	fmt.Fprintln(out, report.Summary())
}
