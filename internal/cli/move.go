package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/relink/internal/index"
	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/ops"
	"github.com/aidanlsb/relink/internal/ui"
)

var (
	moveDryRun  bool
	moveBackups bool
)

var moveCmd = &cobra.Command{
	Use:   "move <source> <destination> [<source> <destination> ...]",
	Short: "Move or rename markdown files, updating every link",
	Long: `Move or rename one or more markdown files and rewrite all links that
point at them, plus the moved files' own links.

The whole batch is validated up front and applied atomically: if anything
fails mid-flight, every completed step is rolled back.

Examples:
  relink move docs/b.md archive/b.md
  relink move notes.md archive/            # keeps the basename
  relink move a.md x/a.md b.md y/b.md      # batch, one transaction
  relink move docs/b.md archive/b.md --dry-run`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || len(args)%2 != 0 {
			return fmt.Errorf("expected an even number of arguments: <source> <destination> pairs")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		pairs := make([]ops.MovePair, 0, len(args)/2)
		for i := 0; i < len(args); i += 2 {
			pairs = append(pairs, ops.MovePair{Source: args[i], Destination: args[i+1]})
		}

		result := ops.MoveFiles(pairs, ops.Options{
			Root:          getRoot(),
			DryRun:        moveDryRun,
			CreateBackups: moveBackups || getConfig().CreateBackups,
		})

		if !result.Success {
			return handleErrorWithDetails(ErrMoveFailed,
				fmt.Sprintf("move failed: %s", strings.Join(result.Errors, "; ")),
				"Fix the reported problems and retry", result)
		}

		warnings := make([]Warning, 0, len(result.Warnings))
		for _, w := range result.Warnings {
			warnings = append(warnings, Warning{Code: WarnParseIssue, Message: w})
		}

		if !moveDryRun {
			warnings = append(warnings, updateIndexAfterMove(result)...)
			warnings = append(warnings, verifyAfterMove(result)...)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, warnings, &Meta{
				Count:       len(result.Changes),
				QueryTimeMs: time.Since(start).Milliseconds(),
			})
			return nil
		}

		if moveDryRun {
			printDryRunReport(result)
		} else {
			fmt.Println(ui.Successf("moved %d %s, updated %d %s",
				len(result.CreatedFiles), plural(len(result.CreatedFiles), "file", "files"),
				linkUpdateCount(result), plural(linkUpdateCount(result), "link", "links")))
			for _, f := range result.ModifiedFiles {
				fmt.Printf("  %s %s\n", ui.Hint("updated"), ui.FilePath(f))
			}
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
		}
		return nil
	},
}

// updateIndexAfterMove keeps the SQLite index in sync with a committed move.
// The index is a cache; failures degrade to warnings, never errors.
func updateIndexAfterMove(result *model.OperationResult) []Warning {
	db, err := index.Open(getRoot())
	if err != nil {
		return []Warning{{Code: WarnIndexUpdateFailed, Message: fmt.Sprintf("index not updated: %v", err)}}
	}
	defer db.Close()

	var warnings []Warning
	for i := range result.DeletedFiles {
		if i >= len(result.CreatedFiles) {
			break
		}
		if err := db.ApplyMove(result.DeletedFiles[i], result.CreatedFiles[i]); err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnIndexUpdateFailed,
				Message: fmt.Sprintf("index not updated for %s: %v", result.DeletedFiles[i], err),
			})
		}
	}
	return warnings
}

// verifyAfterMove re-parses the touched files from disk as a safety net.
func verifyAfterMove(result *model.OperationResult) []Warning {
	var files []string
	for _, f := range result.ModifiedFiles {
		files = append(files, filepath.Join(getRoot(), filepath.FromSlash(f)))
	}
	for _, f := range result.CreatedFiles {
		files = append(files, filepath.Join(getRoot(), filepath.FromSlash(f)))
	}

	var warnings []Warning
	for _, issue := range ops.Verify(files) {
		warnings = append(warnings, Warning{
			Code:    WarnBrokenLink,
			Message: fmt.Sprintf("%s:%d: %s", issue.File, issue.Line, issue.Message),
		})
	}
	return warnings
}

// printDryRunReport renders the planned changes as markdown when stdout is a
// terminal, falling back to plain text otherwise.
func printDryRunReport(result *model.OperationResult) {
	report := buildDryRunReport(result)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if rendered, err := ui.RenderMarkdown(report, ui.NewDisplayContext().TermWidth); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Print(report)
}

// buildDryRunReport formats the planned operation as a markdown document.
func buildDryRunReport(result *model.OperationResult) string {
	var b strings.Builder
	b.WriteString("# Dry run\n\nNo files were changed.\n\n")

	b.WriteString("## Moves\n\n")
	for _, c := range result.Changes {
		if c.Type == model.ChangeFileMoved {
			fmt.Fprintf(&b, "- `%s` → `%s`\n", c.OldValue, c.NewValue)
		}
	}

	updates := 0
	for _, c := range result.Changes {
		if c.Type == model.ChangeLinkUpdated {
			updates++
		}
	}
	if updates > 0 {
		b.WriteString("\n## Link updates\n\n")
		for _, c := range result.Changes {
			if c.Type == model.ChangeLinkUpdated {
				fmt.Fprintf(&b, "- `%s:%d`: `%s` → `%s`\n", c.FilePath, c.Line, c.OldValue, c.NewValue)
			}
		}
	}

	if len(result.ModifiedFiles) > 0 {
		b.WriteString("\n## Files to rewrite\n\n")
		for _, f := range result.ModifiedFiles {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
	}
	return b.String()
}

func linkUpdateCount(result *model.OperationResult) int {
	n := 0
	for _, c := range result.Changes {
		if c.Type == model.ChangeLinkUpdated {
			n++
		}
	}
	return n
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func init() {
	moveCmd.Flags().BoolVar(&moveDryRun, "dry-run", false, "Show what would change without touching any file")
	moveCmd.Flags().BoolVar(&moveBackups, "backups", false, "Keep .backup copies of rewritten files")
	rootCmd.AddCommand(moveCmd)
}
