package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/relink/internal/index"
	"github.com/aidanlsb/relink/internal/project"
	"github.com/aidanlsb/relink/internal/ui"
)

var backlinksLive bool

var backlinksCmd = &cobra.Command{
	Use:   "backlinks <target>",
	Short: "Show every link pointing at a file",
	Long: `Shows all links in the project whose target is the given file.

Answers come from the SQLite index when available; --live (or a missing
index) falls back to scanning the project.

Examples:
  relink backlinks docs/setup.md
  relink backlinks docs/setup.md --live --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := getRoot()
		target := args[0]
		start := time.Now()

		var links []index.Backlink
		var err error
		if backlinksLive {
			links, err = liveBacklinks(root, target)
		} else {
			links, err = indexedBacklinks(root, target)
			if err != nil {
				links, err = liveBacklinks(root, target)
			}
		}
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"target": target,
				"items":  links,
			}, &Meta{Count: len(links), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}

		if len(links) == 0 {
			fmt.Printf("No backlinks found for '%s'\n", target)
			return nil
		}

		fmt.Printf("Backlinks to %s:\n\n", ui.FilePath(target))
		for _, link := range links {
			fmt.Printf("  ← %s%s%s %s\n",
				ui.FilePath(link.Source), ui.Hint(":"), ui.LineNum(link.Line), ui.Hint(link.Href))
		}
		return nil
	},
}

func indexedBacklinks(root, target string) ([]index.Backlink, error) {
	db, err := index.Open(root)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	links, err := db.Backlinks(absTarget(root, target))
	if err != nil {
		return nil, err
	}
	if files, _, statErr := db.Stats(); statErr == nil && files == 0 {
		return nil, fmt.Errorf("index is empty")
	}
	return links, nil
}

// liveBacklinks answers from a fresh scan, without touching the index.
func liveBacklinks(root, target string) ([]index.Backlink, error) {
	corpus, err := project.ParseAll(root, nil)
	if err != nil {
		return nil, err
	}

	abs := absTarget(root, target)
	var links []index.Backlink
	for _, file := range corpus.Files {
		for _, l := range file.Links {
			if !l.Kind.HasFileTarget() || l.ResolvedPath != abs {
				continue
			}
			rel, err := filepath.Rel(root, file.Path)
			if err != nil {
				rel = file.Path
			}
			links = append(links, index.Backlink{
				Source: filepath.ToSlash(rel),
				Href:   l.Href,
				Kind:   string(l.Kind),
				Line:   l.Line,
			})
		}
	}
	return links, nil
}

func absTarget(root, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(root, filepath.FromSlash(target))
}

func init() {
	backlinksCmd.Flags().BoolVar(&backlinksLive, "live", false, "Scan the project instead of using the index")
	rootCmd.AddCommand(backlinksCmd)
}
