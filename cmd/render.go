package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
	"github.com/leonardomso/lessonblocks/internal/section"
	"github.com/leonardomso/lessonblocks/internal/stats"
)

// Flag variables for the render command.
var (
	renderAs       string
	renderWidth    int
	renderFontSize string
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render [path|-]",
	Short: "Render section files as HTML, Markdown or terminal text",
	Long: `Parse section files and print every block through a renderer.

Use "-" as the path to read raw section content from stdin.

Renderers:
  terminal   Styled text for the terminal (default)
  html       HTML fragments
  markdown   Canonical lesson source

Examples:
  lessonblocks render lesson.md
  lessonblocks render ./lessons --as=html
  lessonblocks render lesson.md --font-size=large --width=60
  cat lesson.txt | lessonblocks render - --as=markdown`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderAs, "as", "",
		"Renderer: "+strings.Join(render.Names(), ", ")+" (default terminal)")
	renderCmd.Flags().IntVar(&renderWidth, "width", render.DefaultOptions().Width,
		"Wrap width for terminal output (0 = no wrapping)")
	renderCmd.Flags().StringVar(&renderFontSize, "font-size", "",
		"Font size: compact, normal, large")

	addSourceFlags(renderCmd)
}

func runRender(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	opts, err := lc.BuildRenderOptions(renderWidth, renderFontSize)
	exitOnError(err, "Invalid flags")

	r, err := render.New(lc.GetRenderer(renderAs), opts)
	exitOnError(err, "Invalid flags")

	p := lc.BuildParser(legacyFences)
	path := getPathArg(args)

	if path == "-" {
		content, err := io.ReadAll(os.Stdin)
		exitOnError(err, "Error reading stdin")
		exitOnError(render.Render(os.Stdout, r, p.ParseBytes(content)), "Error rendering")
		fmt.Println()
		return
	}

	files := scanSectionFiles(lc, path, stats.New())
	sections, skipped, err := section.LoadFiles(files, lc.GetStrict(strictMode))
	exitOnError(err, "Error loading sections")
	printSkipped(os.Stderr, skipped)

	exitOnError(renderSections(os.Stdout, r, p, sections), "Error rendering")
}

// renderSections renders each section in turn, separated by a blank line.
func renderSections(w io.Writer, r render.Renderer, p *parser.Parser, sections []section.Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := render.Render(w, r, p.Parse(s.Content)); err != nil {
			return fmt.Errorf("rendering %s: %w", s.Source, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
