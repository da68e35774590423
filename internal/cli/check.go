package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/relink/internal/ops"
	"github.com/aidanlsb/relink/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every link in the project",
	Long: `Scans the whole project and reports broken links: file targets that do
not exist, anchors without a matching heading, and reference uses without a
definition.

Examples:
  relink check
  relink check --path ~/notes --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		issues, parseWarnings, err := ops.CheckProject(getRoot(), nil)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		warnings := make([]Warning, 0, len(parseWarnings))
		for _, w := range parseWarnings {
			warnings = append(warnings, Warning{Code: WarnParseIssue, Message: w})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"issues": issues,
				"clean":  len(issues) == 0,
			}, warnings, &Meta{Count: len(issues), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		if len(issues) == 0 {
			fmt.Println(ui.Success("all links resolve"))
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("%s %s%s%s %s\n", ui.SymbolError,
				ui.FilePath(issue.File), ui.Hint(":"), ui.LineNum(issue.Line), issue.Message)
		}
		return fmt.Errorf("found %d broken %s", len(issues), plural(len(issues), "link", "links"))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
