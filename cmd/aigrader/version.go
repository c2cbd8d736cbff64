package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// These are stamped via -ldflags at release time. A plain `go install`
// build leaves them empty, in which case the values are recovered from
// the binary's embedded build info.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildSetting looks up a key in the binary's VCS build settings.
func buildSetting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

// getVersion reports the module version: the ldflags value when stamped,
// otherwise whatever the Go toolchain recorded for the main module.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit reports the short hash of the commit the binary was built from.
func getCommit() string {
	if commit != "" {
		return commit
	}
	if rev, ok := buildSetting("vcs.revision"); ok && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		return rev
	}
	return "unknown"
}

// getDate reports when the binary was built.
func getDate() string {
	if date != "" {
		return date
	}
	if when, ok := buildSetting("vcs.time"); ok && when != "" {
		return when
	}
	return "unknown"
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Show the aigrader version together with the commit hash and build date.",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aigrader version %s\n", getVersion())
			fmt.Fprintf(out, "  commit: %s\n", getCommit())
			fmt.Fprintf(out, "  built:  %s\n", getDate())
		},
	}
}
