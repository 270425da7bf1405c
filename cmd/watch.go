package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/scanner"
	"github.com/leonardomso/lessonblocks/internal/section"
	"github.com/leonardomso/lessonblocks/internal/watch"
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-parse section files when they change",
	Long: `Watch a directory for changes to section files and parse each
changed file again, logging the block counts of every section.

Scan include/exclude patterns from the config file apply to watched paths.

Examples:
  lessonblocks watch ./lessons
  lessonblocks watch ./lessons --types=md --verbose`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addSourceFlags(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	logger := lc.NewLogger(os.Stderr, verbose)

	types := lc.GetTypes(fileTypes)
	exitOnError(validateFileTypes(types), "Invalid file types")

	var exts []string
	if len(types) > 0 {
		exts, err = section.ExtensionsForTypes(types)
		exitOnError(err, "Invalid file types")
	}

	skip, err := skipFunc(lc.Config().Scan.Include, lc.Config().Scan.Exclude)
	exitOnError(err, "Invalid scan patterns")

	root := getPathArg(args)
	w, err := watch.New(watch.Options{
		Root:       root,
		Extensions: exts,
		Skip:       skip,
		Parser:     lc.BuildParser(legacyFences),
		Logger:     logger,
	})
	exitOnError(err, "Error starting watcher")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "root", root, "fence_policy", lc.GetFencePolicy(legacyFences).String())

	err = w.Run(ctx, logEvent(logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		exitOnError(err, "Watcher failed")
	}
	logger.Info("stopped")
}

// skipFunc turns scan include/exclude globs into a watcher skip predicate.
func skipFunc(include, exclude []string) (func(string) bool, error) {
	inc, err := scanner.CompilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := scanner.CompilePatterns(exclude)
	if err != nil {
		return nil, err
	}
	if len(inc) == 0 && len(exc) == 0 {
		return nil, nil
	}

	return func(rel string) bool {
		if len(inc) > 0 && !scanner.MatchesAny(rel, inc) {
			return true
		}
		return scanner.MatchesAny(rel, exc)
	}, nil
}

// logEvent returns a watcher callback that logs each event.
func logEvent(logger *slog.Logger) watch.Callback {
	return func(ev watch.Event) {
		switch ev.Kind {
		case watch.EventParsed:
			for _, p := range ev.Sections {
				counts := block.Document(p.Blocks).CountByKind()
				attrs := []any{"path", ev.Path, "section", p.Section.Title, "blocks", len(p.Blocks)}
				for _, k := range block.Kinds() {
					attrs = append(attrs, string(k), counts[k])
				}
				logger.Info("parsed", attrs...)
			}
		case watch.EventRemoved:
			logger.Info("removed", "path", ev.Path)
		case watch.EventFailed:
			logger.Warn("failed", "path", ev.Path, "err", ev.Err)
		}
	}
}
