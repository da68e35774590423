package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/aidanlsb/relink"

// Set via -ldflags at release build time.
var (
	buildVersion = ""
	buildCommit  = ""
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show relink version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("relink %s\n", info.Version)
		if info.Commit != "" {
			fmt.Printf("commit: %s\n", info.Commit)
		}
		fmt.Printf("go: %s\n", info.GoVersion)
		fmt.Printf("platform: %s/%s\n", info.GOOS, info.GOARCH)
		return nil
	},
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   "devel",
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
	}
	if buildVersion != "" {
		info.Version = buildVersion
	}
	if buildCommit != "" {
		info.Commit = buildCommit
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok || buildInfo == nil {
		return info
	}
	if info.Version == "devel" && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		info.Version = buildInfo.Main.Version
	}
	if info.Commit == "" {
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				info.Commit = setting.Value
				break
			}
		}
	}
	return info
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
