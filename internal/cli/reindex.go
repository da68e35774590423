package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/relink/internal/index"
	"github.com/aidanlsb/relink/internal/project"
	"github.com/aidanlsb/relink/internal/ui"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the backlink index from scratch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := getRoot()
		start := time.Now()

		corpus, err := project.ParseAll(root, nil)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		db, err := index.Open(root)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		if err := db.Rebuild(corpus.Files); err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		files, links, err := db.Stats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		warnings := make([]Warning, 0, len(corpus.Warnings))
		for _, w := range corpus.Warnings {
			warnings = append(warnings, Warning{Code: WarnParseIssue, Message: w})
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"files": files,
				"links": links,
			}, warnings, &Meta{QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		fmt.Println(ui.Successf("indexed %d %s, %d %s",
			files, plural(files, "file", "files"), links, plural(links, "link", "links")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
