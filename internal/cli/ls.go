package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lherron/tambo/internal/cli/appctx"
	"github.com/lherron/tambo/internal/record"
	"github.com/lherron/tambo/internal/render"
	"github.com/lherron/tambo/internal/textfile"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [FILE]",
	Short: "List the record IDs found in a record file",
	Long: `List the records parsed from FILE (default: the override file) in
output order, with the number of lines in each record and its ID line.

Examples:
  tambo ls public/carga_full_v3.txt
  tambo ls -1 carga.txt | wc -l
  tambo ls --json carga.txt
`,
	Args: cobra.MaximumNArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runLs),
}

var (
	lsJSON      bool
	lsNDJSON    bool
	lsYAML      bool
	lsTSV       bool
	lsPorcelain bool
	lsOne       bool
	lsNul       bool
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Output as JSON")
	lsCmd.Flags().BoolVar(&lsNDJSON, "ndjson", false, "Output as newline-delimited JSON")
	lsCmd.Flags().BoolVar(&lsYAML, "yaml", false, "Output as YAML")
	lsCmd.Flags().BoolVar(&lsTSV, "tsv", false, "Output as tab-separated values")
	lsCmd.Flags().BoolVar(&lsPorcelain, "porcelain", false, "Machine-readable output")
	lsCmd.Flags().BoolVarP(&lsOne, "one", "1", false, "One ID per line")
	lsCmd.Flags().BoolVarP(&lsNul, "nul", "0", false, "NUL-separated IDs")
}

type listEntry struct {
	ID     string `json:"id" yaml:"id"`
	Lines  int    `json:"lines" yaml:"lines"`
	Header string `json:"header" yaml:"header"`
}

func runLs(app *appctx.App, cmd *cobra.Command, args []string) error {
	path := app.Config.OverridePath
	if len(args) == 1 {
		path = args[0]
	}

	content, _, err := textfile.Read(path)
	if err != nil {
		return err
	}
	set := record.Parse(content)
	ids := record.SortedIDs(set)

	if lsOne || lsNul {
		opts := render.Options{}
		if lsNul {
			opts.Delimiter = "0"
		}
		return render.NewRenderer(cmd.OutOrStdout(), opts).RenderList(ids)
	}

	format, err := outputFormat(app.Config.Output, map[render.Format]bool{
		render.FormatJSON:   lsJSON,
		render.FormatNDJSON: lsNDJSON,
		render.FormatYAML:   lsYAML,
		render.FormatTSV:    lsTSV,
	})
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(ids))
	items := make([]interface{}, 0, len(ids))
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		text := set[id]
		header, _, _ := strings.Cut(text, "\n")
		entry := listEntry{
			ID:     id,
			Lines:  strings.Count(text, "\n") + 1,
			Header: header,
		}
		entries = append(entries, entry)
		items = append(items, entry)
		rows = append(rows, []string{entry.ID, strconv.Itoa(entry.Lines), entry.Header})
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{
		Format:    format,
		Porcelain: lsPorcelain,
	})
	return r.Render(render.Table{
		Headers: []string{"ID", "Lines", "Header"},
		Rows:    rows,
		Data:    entries,
		Items:   items,
	})
}

// outputFormat picks the format from the first set flag, falling back to
// the configured default
func outputFormat(configured string, flags map[render.Format]bool) (render.Format, error) {
	var chosen []render.Format
	for f, set := range flags {
		if set {
			chosen = append(chosen, f)
		}
	}
	if len(chosen) > 1 {
		return "", fmt.Errorf("only one output format flag may be given")
	}
	if len(chosen) == 1 {
		return chosen[0], nil
	}
	return render.ParseFormat(configured)
}
