// Package watch re-parses section files as they change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leonardomso/lessonblocks/internal/block"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/section"
)

// DefaultDebounce is how long a path must stay quiet before it is re-parsed.
const DefaultDebounce = 150 * time.Millisecond

// EventKind describes what happened to a watched file.
type EventKind string

const (
	// EventParsed means the file was (re)loaded and parsed.
	EventParsed EventKind = "parsed"
	// EventRemoved means the file was deleted or renamed away.
	EventRemoved EventKind = "removed"
	// EventFailed means the file changed but could not be loaded.
	EventFailed EventKind = "failed"
)

// Parsed is one section of a changed file together with its blocks.
type Parsed struct {
	Section section.Section
	Blocks  []block.Block
}

// Event is delivered to the callback after a file settles.
type Event struct {
	Kind     EventKind
	Path     string
	Sections []Parsed
	Err      error
}

// Callback receives watcher events. It runs on the watcher goroutine.
type Callback func(Event)

// Options configure a Watcher.
type Options struct {
	// Root is the directory watched recursively.
	Root string
	// Extensions limits events to these file extensions (with dot).
	// Empty accepts any file the registry can load.
	Extensions []string
	// Skip reports paths (relative to Root, slash separated) to ignore.
	Skip func(rel string) bool
	// Parser parses section content. Nil uses parser.Default().
	Parser *parser.Parser
	// Registry loads section files. Nil uses the default registry.
	Registry *section.Registry
	// Debounce overrides DefaultDebounce.
	Debounce time.Duration
	// Logger receives watcher diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Watcher turns file system notifications into parse events.
type Watcher struct {
	opts Options
	exts map[string]bool
	fsw  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]fsnotify.Op
}

// New creates a watcher and registers Root and all of its subdirectories.
// Hidden directories are not watched.
func New(opts Options) (*Watcher, error) {
	if opts.Parser == nil {
		opts.Parser = parser.Default()
	}
	if opts.Registry == nil {
		opts.Registry = section.DefaultRegistry()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("watch root must be a directory: " + opts.Root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]fsnotify.Op),
	}
	if len(opts.Extensions) > 0 {
		w.exts = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			w.exts[strings.ToLower(ext)] = true
		}
	}

	if err := w.addDirsRecursive(opts.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Close releases the underlying notifier. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run processes change events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, cb Callback) error {
	defer w.fsw.Close()

	log := w.opts.Logger
	log.Info("watcher: started", slog.String("root", w.opts.Root))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.opts.Debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(w.opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for _, ev := range w.flush() {
				if cb != nil {
					cb(ev)
				}
			}

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addDirsRecursive(ev.Name); err != nil {
						log.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", err.Error()))
					}
					w.queueDir(ev.Name)
					schedule()
					continue
				}
			}

			if !w.accepts(ev.Name) {
				continue
			}

			w.queue(ev.Name, ev.Op)
			schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher: error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) queue(path string, op fsnotify.Op) {
	w.mu.Lock()
	w.pending[path] |= op
	w.mu.Unlock()
}

// queueDir queues files that already exist in a newly created directory.
func (w *Watcher) queueDir(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !w.accepts(path) {
			return nil
		}
		w.queue(path, fsnotify.Create)
		return nil
	})
}

// flush handles every settled path, in no particular order.
func (w *Watcher) flush() []Event {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.mu.Unlock()

	events := make([]Event, 0, len(pending))
	for path := range pending {
		events = append(events, w.Process(path))
	}
	return events
}

// Process loads and parses path, or reports it removed when it no longer exists.
func (w *Watcher) Process(path string) Event {
	log := w.opts.Logger
	rel := w.rel(path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debug("watcher: removed", slog.String("path", rel))
		return Event{Kind: EventRemoved, Path: path}
	}

	sections, err := w.opts.Registry.LoadFile(path)
	if err != nil {
		log.Warn("watcher: load failed", slog.String("path", rel), slog.String("error", err.Error()))
		return Event{Kind: EventFailed, Path: path, Err: err}
	}

	parsed := make([]Parsed, 0, len(sections))
	blocks := 0
	for _, s := range sections {
		bs := w.opts.Parser.Parse(s.Content)
		blocks += len(bs)
		parsed = append(parsed, Parsed{Section: s, Blocks: bs})
	}

	log.Debug("watcher: parsed",
		slog.String("path", rel),
		slog.Int("sections", len(parsed)),
		slog.Int("blocks", blocks))

	return Event{Kind: EventParsed, Path: path, Sections: parsed}
}

// accepts reports whether path is a file the watcher should report on.
func (w *Watcher) accepts(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if w.exts != nil {
		if !w.exts[ext] {
			return false
		}
	} else if _, ok := w.opts.Registry.GetForFile(path); !ok {
		return false
	}
	if w.opts.Skip != nil && w.opts.Skip(w.rel(path)) {
		return false
	}
	return true
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.opts.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// addDirsRecursive adds root and all its non-hidden subdirectories.
func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
