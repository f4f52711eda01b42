package cli

import (
	"fmt"

	"github.com/lherron/tambo/internal/cli/appctx"
	"github.com/lherron/tambo/internal/record"
	"github.com/lherron/tambo/internal/textfile"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show FILE ID...",
	Short: "Print records from a record file",
	Long: `Print the text of one or more records, in the order given, each
followed by a blank line. IDs are case-sensitive.

Examples:
  tambo show public/carga_full_v3.txt 1043
  tambo show carga.txt 7 12 abc
`,
	Args: cobra.MinimumNArgs(2),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runShow),
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(app *appctx.App, cmd *cobra.Command, args []string) error {
	content, _, err := textfile.Read(args[0])
	if err != nil {
		return err
	}
	set := record.Parse(content)

	for _, id := range args[1:] {
		text, err := set.Get(id)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), text+"\n\n")
	}
	return nil
}
