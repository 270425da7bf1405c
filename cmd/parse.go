package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/output"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/section"
	"github.com/leonardomso/lessonblocks/internal/stats"
)

// Flag variables for the parse command.
var (
	outputFormat string
	outputFile   string
	concurrency  int
	showStats    bool

	// Shared with render, view and watch.
	fileTypes    []string
	strictMode   bool
	legacyFences bool
	noConfig     bool
)

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse [path]",
	Short: "Parse section files into typed blocks",
	Long: `Scan a directory (or a single file) for section files and parse each
section into typed blocks.

If no path is provided, scans the current directory. All supported file
types are scanned unless --types is given.

By default prints a per-section summary. Use --format for structured
output on stdout or --output to write a report file.

Examples:
  lessonblocks parse                        # Scan current directory
  lessonblocks parse ./lessons              # Scan specific directory
  lessonblocks parse lesson.md              # Parse a single file
  lessonblocks parse --types=md,json        # Only Markdown and JSON sections
  lessonblocks parse --format=json          # JSON to stdout
  lessonblocks parse --output=report.toml   # TOML report file
  lessonblocks parse --legacy-fences        # Reproduce legacy fence output
  lessonblocks parse --stats                # Show timing statistics

Note: --format and --output are mutually exclusive.

Supported file types: md, json, yaml, toml

Config file (.lessonrc.yaml):
  types: [md]
  parse:
    fence_policy: skip
    concurrency: 8`,
	Args: cobra.MaximumNArgs(1),
	Run:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Output options
	parseCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format for stdout: json, yaml, xml, toml, markdown")
	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Write report to file (format inferred from extension: .json, .yaml, .xml, .toml, .md)")

	// Performance options
	parseCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0,
		"Number of sections parsed at once (0 = number of CPUs)")
	parseCmd.Flags().BoolVar(&showStats, "stats", false,
		"Show detailed performance statistics")

	addSourceFlags(parseCmd)
}

// addSourceFlags registers the flags shared by every command that loads sections.
func addSourceFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&fileTypes, "types", "T", nil,
		"File types to scan (comma-separated): md, json, yaml, toml")
	c.Flags().BoolVar(&strictMode, "strict", false,
		"Fail on malformed files instead of skipping them")
	c.Flags().BoolVar(&legacyFences, "legacy-fences", false,
		"Classify fenced lines again after each code block, like the legacy views")
	c.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .lessonrc config file")
}

// runParse is the main entry point for the parse command.
func runParse(cmd *cobra.Command, args []string) {
	perf := stats.New()

	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	format := lc.GetOutputFormat(outputFormat)
	if outputFile != "" && outputFormat == "" {
		// A config format must not clash with an explicit output file.
		format = ""
	}
	exitOnError(validateParseFlags(format, outputFile), "Invalid flags")

	path := getPathArg(args)
	useStructuredOutput := format != ""

	// Phase 1: Scan for files
	files := scanSectionFiles(lc, path, perf)

	// Phase 2: Load sections
	perf.StartLoad()
	sections, skipped, err := section.LoadFiles(files, lc.GetStrict(strictMode))
	exitOnError(err, "Error loading sections")
	perf.EndLoad(len(sections), len(skipped), contentBytes(sections))

	if !useStructuredOutput {
		fmt.Printf("Found %d file(s), %d section(s)\n", len(files), len(sections))
		printSkipped(os.Stderr, skipped)
	}

	// Phase 3: Parse blocks
	p := lc.BuildParser(legacyFences)
	perf.StartParse()
	docs, err := parseSections(commandContext(cmd), p, sections, lc.GetConcurrency(concurrency, 0))
	exitOnError(err, "Error parsing sections")
	for _, d := range docs {
		perf.AddBlocks(d.Blocks)
	}
	perf.EndParse()

	report := buildReport(files, docs, skipped, p.Policy())

	// Phase 4: Output results
	switch {
	case useStructuredOutput:
		data, err := output.FormatReport(report, output.Format(strings.ToLower(format)))
		exitOnError(err, "Error formatting output")
		fmt.Print(string(data))
		if showStats {
			fmt.Fprint(os.Stderr, perf.String())
		}
	case outputFile != "":
		exitOnError(output.WriteToFile(report, outputFile), "Error writing file")
		fmt.Printf("Wrote report to %s\n", outputFile)
		fmt.Printf("\nSummary: %d document(s) | %d block(s) | %d skipped\n",
			len(report.Documents), report.TotalBlocks(), len(report.Skipped))
		if showStats {
			fmt.Print(perf.String())
		}
	default:
		outputText(os.Stdout, report)
		if showStats {
			fmt.Print(perf.String())
		}
	}
}

// scanSectionFiles finds section files for the effective scan options.
func scanSectionFiles(lc *LoadedConfig, path string, perf *stats.Stats) []string {
	perf.StartScan()

	opts := lc.BuildScanOptions(path, fileTypes)
	exitOnError(validateFileTypes(opts.Types), "Invalid file types")

	files, err := scanner.FindFilesWithOptions(opts)
	exitOnError(err, "Error scanning directory")
	perf.EndScan(len(files))
	return files
}

// validateParseFlags checks for invalid flag combinations.
func validateParseFlags(format, file string) error {
	if format != "" && file != "" {
		return errors.New("--format and --output are mutually exclusive; " +
			"use --format for stdout output, or --output for file output")
	}

	if format != "" && !output.IsValidFormat(format) {
		return fmt.Errorf("invalid format %q; valid formats: %s",
			format, strings.Join(output.ValidFormats(), ", "))
	}

	return nil
}

// buildReport creates an output.Report from parsed documents.
func buildReport(
	files []string, docs []output.Document, skipped []section.Skipped, policy parser.FencePolicy,
) *output.Report {
	return &output.Report{
		GeneratedAt: time.Now(),
		FencePolicy: policy.String(),
		Files:       files,
		Documents:   docs,
		Skipped:     toOutputSkipped(skipped),
	}
}

// outputText prints one line per document with its block counts.
func outputText(w io.Writer, report *output.Report) {
	if len(report.Documents) == 0 {
		fmt.Fprintln(w, "No sections found.")
		return
	}

	fmt.Fprintln(w)
	for _, d := range report.Documents {
		fmt.Fprintf(w, "%s  %s\n", d.Source, d.Title)
		fmt.Fprintf(w, "  %d block(s): %s\n", len(d.Blocks), kindSummary(block.Document(d.Blocks)))
	}

	fmt.Fprintf(w, "\nSummary: %d document(s) | %d block(s) | fences: %s\n",
		len(report.Documents), report.TotalBlocks(), report.FencePolicy)
}

// kindSummary formats non-zero kind counts in block.Kinds order.
func kindSummary(doc block.Document) string {
	counts := doc.CountByKind()
	parts := make([]string, 0, len(counts))
	for _, k := range block.Kinds() {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// commandContext returns the command context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
