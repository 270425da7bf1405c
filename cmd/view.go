package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/ui"
)

var (
	viewWidth    int
	viewFontSize string
)

// viewCmd represents the view command.
var viewCmd = &cobra.Command{
	Use:   "view [path]",
	Short: "Read sections in an interactive terminal UI",
	Long: `Launch a terminal UI to browse and read lesson sections.

Sections are parsed again every time the reader redraws, so the text
always reflects the source content.

Controls:
  ↑/↓ or j/k    Navigate / scroll
  enter         Open section
  esc           Back to the list
  f             Cycle font size (compact, normal, large)
  b             Toggle bookmark
  /             Filter sections
  ?             Toggle help
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().IntVar(&viewWidth, "width", 0,
		"Maximum text width (0 = terminal width)")
	viewCmd.Flags().StringVar(&viewFontSize, "font-size", "",
		"Initial font size: compact, normal, large")

	addSourceFlags(viewCmd)
}

func runView(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	size, err := lc.GetFontSize(viewFontSize)
	exitOnError(err, "Invalid flags")

	opts := lc.BuildScanOptions(getPathArg(args), fileTypes)
	exitOnError(validateFileTypes(opts.Types), "Invalid file types")

	model := ui.New(ui.Options{
		Scan:     opts,
		Parser:   lc.BuildParser(legacyFences),
		Width:    lc.GetWidth(viewWidth, 0),
		FontSize: size,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running viewer: %v\n", err)
		os.Exit(1)
	}
}
