package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/fixer"
	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/stats"
)

// Fmt command flag variables.
var (
	fmtYes    bool
	fmtDryRun bool
)

// fmtCmd represents the fmt command.
var fmtCmd = &cobra.Command{
	Use:   "fmt [path]",
	Short: "Rewrite lesson text files into canonical markup",
	Long: `Rewrite Markdown lesson files so they read exactly as the markdown
renderer would print their blocks.

Ordered list items are numbered "1.", whitespace-only lines become empty,
code fence language tags are trimmed and CRLF line endings become LF.
Front matter is left untouched. JSON, YAML and TOML section files are
never rewritten.

By default, the command runs interactively, prompting for each file.
Use --yes to apply all changes automatically (useful for CI/scripts).
Use --dry-run to preview changes without modifying files.

Examples:
  lessonblocks fmt                 # Interactive mode, current directory
  lessonblocks fmt ./lessons       # Interactive mode, specific directory
  lessonblocks fmt --dry-run       # Preview what would change
  lessonblocks fmt --yes           # Apply every change without prompting`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	// Mode flags
	fmtCmd.Flags().BoolVarP(&fmtYes, "yes", "y", false,
		"Apply all changes without prompting")
	fmtCmd.Flags().BoolVarP(&fmtDryRun, "dry-run", "n", false,
		"Preview changes without modifying files")
	fmtCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .lessonrc config file")
	fmtCmd.Flags().BoolVar(&showStats, "stats", false,
		"Show detailed performance statistics")
}

// runFmt is the main entry point for the fmt command.
func runFmt(_ *cobra.Command, args []string) {
	perf := stats.New()

	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	// Only lesson text is rewritten, so scan for md regardless of config types.
	perf.StartScan()
	opts := lc.BuildScanOptions(getPathArg(args), []string{"md"})
	files, err := scanner.FindFilesWithOptions(opts)
	exitOnError(err, "Error scanning directory")
	perf.EndScan(len(files))

	fmt.Printf("Found %d lesson file(s)\n", len(files))

	f := fixer.New()
	changes, err := f.FindFixes(files)
	exitOnError(err, "Error formatting files")

	if len(changes) == 0 {
		fmt.Println("\nAll files are already canonical.")
		if showStats {
			fmt.Print(perf.String())
		}
		return
	}

	// Show preview
	fmt.Println()
	fmt.Print(f.Preview(changes))

	switch {
	case fmtDryRun:
		fmt.Println("Dry-run mode: no files were modified.")
	case fmtYes:
		fmt.Print(fixer.Summary(f.ApplyAll(changes)))
	default:
		results, quit := runInteractiveFmt(os.Stdin, os.Stdout, f, changes)
		printInteractiveResults(os.Stdout, results)
		if quit {
			os.Exit(2)
		}
	}

	if showStats {
		fmt.Print(perf.String())
	}
}

// runInteractiveFmt prompts for each file before rewriting it. It reports
// whether the user quit before the last file.
func runInteractiveFmt(
	in io.Reader, out io.Writer, f *fixer.Fixer, changes []fixer.FileChanges,
) (results []fixer.FixResult, quit bool) {
	reader := bufio.NewReader(in)
	applyAll := false

	for i := 0; i < len(changes); i++ {
		fc := changes[i]

		if applyAll {
			result, _ := f.ApplyToFile(fc)
			results = append(results, *result)
			continue
		}

		// Prompt for this file
		fmt.Fprintf(out, "\nRewrite %s? (%d line(s)) [y/n/a/q/?] ", fc.FilePath, len(fc.Fixes))

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			// Input closed: treat the rest as skipped.
			return appendSkipped(results, changes[i:]), true
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "y", "yes":
			results = append(results, applyOne(out, f, fc))

		case "n", "no":
			fmt.Fprintf(out, "Skipped %s\n", fc.FilePath)
			results = appendSkipped(results, changes[i:i+1])

		case "a", "all":
			// Apply this file and all remaining
			results = append(results, applyOne(out, f, fc))
			applyAll = true

		case "q", "quit":
			fmt.Fprintln(out, "\nQuitting. Remaining files were not modified.")
			return appendSkipped(results, changes[i:]), true

		case "?", "help":
			printInteractiveHelp(out)
			i-- // Re-prompt for this file

		default:
			fmt.Fprintln(out, "Invalid input. Use y/n/a/q/? (or type 'help')")
			i-- // Retry this file
		}
	}

	return results, false
}

func applyOne(out io.Writer, f *fixer.Fixer, fc fixer.FileChanges) fixer.FixResult {
	result, err := f.ApplyToFile(fc)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	} else {
		fmt.Fprintf(out, "Rewrote %d line(s) in %s\n", result.Applied, fc.FilePath)
	}
	return *result
}

func appendSkipped(results []fixer.FixResult, changes []fixer.FileChanges) []fixer.FixResult {
	for _, fc := range changes {
		results = append(results, fixer.FixResult{FilePath: fc.FilePath, Skipped: len(fc.Fixes)})
	}
	return results
}

// printInteractiveHelp displays help for interactive mode options.
func printInteractiveHelp(out io.Writer) {
	fmt.Fprintln(out, `
Interactive mode options:
  y, yes  - Rewrite this file
  n, no   - Skip this file
  a, all  - Rewrite this file and all remaining files
  q, quit - Quit without rewriting remaining files
  ?, help - Show this help`)
}

// printInteractiveResults displays a summary of the interactive session.
func printInteractiveResults(out io.Writer, results []fixer.FixResult) {
	applied := 0
	filesModified := 0
	filesSkipped := 0

	for _, r := range results {
		applied += r.Applied
		if r.Applied > 0 {
			filesModified++
		}
		if r.Skipped > 0 && r.Applied == 0 {
			filesSkipped++
		}
	}

	fmt.Fprintln(out)
	if applied > 0 {
		fmt.Fprintf(out, "Rewrote %d line(s) across %d file(s).\n", applied, filesModified)
	}
	if filesSkipped > 0 {
		fmt.Fprintf(out, "Skipped %d file(s).\n", filesSkipped)
	}
}
