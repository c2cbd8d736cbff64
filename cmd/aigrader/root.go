// Package main provides the entry point for the aigrader CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for aigrader.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aigrader",
		Short: "Grade website readiness for AI-driven search",
		Long: `aigrader analyzes how well a website is prepared for AI-driven search
and answer engines. It fetches a page and scores it across seven categories:
AI optimization, mobile optimization, technical crawlability, schema markup,
technical SEO, content quality, and E-E-A-T signals.

By default, grading uses a plain HTTP fetch. Use --render to enable a
headless-browser fallback for JavaScript-heavy pages.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGradeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
