package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/relink/docs"
	"github.com/aidanlsb/relink/internal/ui"
)

const docsGuideDir = "guide"

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse the bundled guides",
	Long: `Lists the bundled guide topics, or renders one.

Examples:
  relink docs
  relink docs moving-files
  relink docs --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := docsTopics()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
				return nil
			}
			fmt.Println(ui.Header("Guides"))
			for _, t := range topics {
				fmt.Printf("  %s  %s\n", ui.FilePath(t.ID), ui.Hint(t.Title))
			}
			fmt.Printf("\n%s\n", ui.Hint("relink docs <topic> to read one"))
			return nil
		}

		id := strings.TrimSuffix(args[0], ".md")
		content, err := fs.ReadFile(builtindocs.FS, path.Join(docsGuideDir, id+".md"))
		if err != nil {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("unknown topic '%s'", id), "Run 'relink docs' to list topics")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"topic": id, "content": string(content)}, nil)
			return nil
		}

		if isatty.IsTerminal(os.Stdout.Fd()) {
			if rendered, err := ui.RenderMarkdown(string(content), ui.NewDisplayContext().TermWidth); err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Print(string(content))
		return nil
	},
}

// docsTopics lists the embedded guide topics, titled by their first heading.
func docsTopics() ([]docsTopic, error) {
	entries, err := fs.ReadDir(builtindocs.FS, docsGuideDir)
	if err != nil {
		return nil, err
	}

	var topics []docsTopic
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		content, err := fs.ReadFile(builtindocs.FS, path.Join(docsGuideDir, e.Name()))
		if err != nil {
			return nil, err
		}
		topics = append(topics, docsTopic{ID: id, Title: docsTitle(string(content), id)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func docsTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
