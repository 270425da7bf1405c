package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leonardomso/lessonblocks/internal/config"
	"github.com/leonardomso/lessonblocks/internal/output"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/section"

	// Import loader subpackages to trigger their init() registration.
	_ "github.com/leonardomso/lessonblocks/internal/section/json"
	_ "github.com/leonardomso/lessonblocks/internal/section/markdown"
	_ "github.com/leonardomso/lessonblocks/internal/section/toml"
	_ "github.com/leonardomso/lessonblocks/internal/section/yaml"
)

// exitOnError prints an error message and exits if err is not nil.
func exitOnError(err error, message string) {
	if err != nil {
		if message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

// getPathArg returns the path argument or "." as default.
func getPathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	noConfig bool
}

// LoadConfig loads the configuration file unless noConfig is true.
// Returns an error if the config file exists but is invalid.
func LoadConfig(noConfig bool) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Resolve(wd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &LoadedConfig{cfg: cfg}, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// GetTypes returns the effective file types.
// CLI types win when given; otherwise config types, otherwise nil (all types).
func (lc *LoadedConfig) GetTypes(cliTypes []string) []string {
	if len(cliTypes) > 0 {
		return cliTypes
	}
	return lc.cfg.Types
}

// GetConcurrency returns the effective concurrency.
// CLI overrides config if it differs from the default.
func (lc *LoadedConfig) GetConcurrency(cliValue, defaultValue int) int {
	if cliValue != defaultValue {
		return cliValue // CLI explicitly set
	}
	if lc.cfg.Parse.Concurrency > 0 {
		return lc.cfg.Parse.Concurrency
	}
	return defaultValue
}

// GetStrict returns the effective strict mode setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetStrict(cliValue bool) bool {
	if cliValue {
		return true // CLI explicitly set
	}
	return lc.cfg.Parse.Strict
}

// GetFencePolicy returns the effective fence policy.
// --legacy-fences overrides config.
func (lc *LoadedConfig) GetFencePolicy(legacy bool) parser.FencePolicy {
	if legacy {
		return parser.FenceDuplicate
	}
	if policy, ok := parser.ParseFencePolicy(lc.cfg.Parse.FencePolicy); ok {
		return policy
	}
	return parser.FenceSkipAhead
}

// GetOutputFormat returns the effective output format.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutputFormat(cliValue string) string {
	if cliValue != "" {
		return cliValue // CLI explicitly set
	}
	return lc.cfg.Output.Format
}

// GetRenderer returns the effective renderer name, defaulting to terminal.
func (lc *LoadedConfig) GetRenderer(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if lc.cfg.Render.Renderer != "" {
		return lc.cfg.Render.Renderer
	}
	return "terminal"
}

// GetWidth returns the effective render width.
// CLI overrides config if it differs from the default.
func (lc *LoadedConfig) GetWidth(cliValue, defaultValue int) int {
	if cliValue != defaultValue {
		return cliValue
	}
	if lc.cfg.Render.Width > 0 {
		return lc.cfg.Render.Width
	}
	return defaultValue
}

// GetFontSize returns the effective font size.
func (lc *LoadedConfig) GetFontSize(cliValue string) (render.FontSize, error) {
	if cliValue != "" {
		return render.ParseFontSize(cliValue)
	}
	return render.ParseFontSize(lc.cfg.Render.FontSize)
}

// GetAddr returns the effective server address.
func (lc *LoadedConfig) GetAddr(cliValue, defaultValue string) string {
	if cliValue != defaultValue {
		return cliValue
	}
	if lc.cfg.Server.Addr != "" {
		return lc.cfg.Server.Addr
	}
	return defaultValue
}

// BuildScanOptions creates scanner.ScanOptions from config and path.
func (lc *LoadedConfig) BuildScanOptions(path string, cliTypes []string) scanner.ScanOptions {
	return scanner.ScanOptions{
		Root:    path,
		Types:   lc.GetTypes(cliTypes),
		Include: lc.cfg.Scan.Include,
		Exclude: lc.cfg.Scan.Exclude,
	}
}

// BuildParser creates a parser with the effective fence policy.
func (lc *LoadedConfig) BuildParser(legacy bool) *parser.Parser {
	return parser.New(parser.WithFencePolicy(lc.GetFencePolicy(legacy)))
}

// BuildRenderOptions creates render.Options from config and CLI values.
func (lc *LoadedConfig) BuildRenderOptions(cliWidth int, cliFontSize string) (render.Options, error) {
	defaults := render.DefaultOptions()
	size, err := lc.GetFontSize(cliFontSize)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Width:    lc.GetWidth(cliWidth, defaults.Width),
		FontSize: size,
	}, nil
}

// NewLogger builds the structured logger used by long-running commands.
// verbose forces debug level.
func (lc *LoadedConfig) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := lc.cfg.Log.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(lc.cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// validateFileTypes checks if all specified file types are supported.
func validateFileTypes(types []string) error {
	if len(types) == 0 {
		return nil
	}
	_, err := section.ExtensionsForTypes(types)
	return err
}

// parseSections parses every section with at most limit goroutines.
// Documents come back in the order of sections.
func parseSections(
	ctx context.Context, p *parser.Parser, sections []section.Section, limit int,
) ([]output.Document, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	docs := make([]output.Document, len(sections))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, s := range sections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i] = output.Document{
				Source: s.Source,
				Title:  s.Title,
				Slug:   s.Slug,
				Order:  s.Order,
				Blocks: p.Parse(s.Content),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// contentBytes returns the total size of section content.
func contentBytes(sections []section.Section) uint64 {
	var n uint64
	for _, s := range sections {
		n += uint64(len(s.Content))
	}
	return n
}

// toOutputSkipped converts loader failures for the report.
func toOutputSkipped(skipped []section.Skipped) []output.Skipped {
	out := make([]output.Skipped, len(skipped))
	for i, s := range skipped {
		out[i] = output.Skipped{Path: s.Path, Error: s.Err.Error()}
	}
	return out
}

// printSkipped warns about files that could not be loaded.
func printSkipped(w io.Writer, skipped []section.Skipped) {
	for _, s := range skipped {
		fmt.Fprintf(w, "Warning: skipped %s: %v\n", s.Path, s.Err)
	}
}
