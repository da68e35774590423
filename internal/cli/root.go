// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/relink/internal/config"
	"github.com/aidanlsb/relink/internal/ui"
)

var (
	// Global flags
	projectName     string // Named project from config
	projectPathFlag string // Explicit path
	configPathFlag  string

	// Resolved values
	resolvedRoot string
	cfg          *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "relink",
	Short: "relink - link-aware markdown refactoring",
	Long: `relink moves and renames markdown files while keeping every link intact.

It parses the project's markdown, builds the dependency graph, rewrites the
affected links, and applies the whole operation atomically - or shows you
what would change with --dry-run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip project resolution for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFrom(configPathFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		ui.ConfigureTheme(cfg.UI.Accent, cfg.UI.CodeTheme)

		// docs reads embedded content only; no project root needed.
		if cmd.Name() == "docs" {
			return nil
		}

		// Resolve project root: explicit path > named project > default
		// project > working directory.
		switch {
		case projectPathFlag != "":
			resolvedRoot, err = filepath.Abs(projectPathFlag)
			if err != nil {
				return err
			}
		case projectName != "":
			resolvedRoot, err = cfg.GetProjectRoot(projectName)
			if err != nil {
				return fmt.Errorf("project '%s' not found in config", projectName)
			}
		case cfg.DefaultProject != "":
			resolvedRoot, err = cfg.GetProjectRoot("")
			if err != nil {
				return err
			}
		default:
			resolvedRoot, err = os.Getwd()
			if err != nil {
				return err
			}
		}

		if _, err := os.Stat(resolvedRoot); os.IsNotExist(err) {
			return fmt.Errorf("project root not found: %s", resolvedRoot)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectName, "project", "p", "", "Named project from config")
	rootCmd.PersistentFlags().StringVar(&projectPathFlag, "path", "", "Explicit path to project root")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getRoot returns the resolved project root.
func getRoot() string {
	return resolvedRoot
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	return cfg
}
