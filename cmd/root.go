package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set by main.go via SetVersion.
var version = "dev"

// verbose enables debug logging for long-running commands.
var verbose bool

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "lessonblocks",
	Short:   "Turn lesson section content into typed presentation blocks",
	Version: version,
	Long: `Lessonblocks parses lesson section content into an ordered list of
typed blocks: headings, paragraphs, list items, fenced code and spacers.

Sections are read from Markdown (with optional front matter), JSON, YAML
and TOML files. Use 'parse' for structured output, 'render' to print the
blocks as HTML, Markdown or styled terminal text, 'view' to read sections
in a terminal UI, 'watch' to re-parse files as they change, and 'serve'
to expose the parser over HTTP.

Examples:
  lessonblocks parse ./lessons
  lessonblocks parse ./lessons --format=json
  lessonblocks render lesson.md --as=html
  lessonblocks view ./lessons
  lessonblocks serve --addr=:8080`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}
