// Package stats provides performance tracking and statistics for parse runs.
// It captures timing information for each phase of execution, block counts
// and memory usage to help identify bottlenecks.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/leonardomso/lessonblocks/internal/block"
)

// Stats holds performance metrics for a parse session.
type Stats struct {
	// Timing for each phase
	ScanStart  time.Time
	ScanEnd    time.Time
	LoadStart  time.Time
	LoadEnd    time.Time
	ParseStart time.Time
	ParseEnd   time.Time

	// Counts
	FilesScanned int
	FilesSkipped int
	Sections     int
	BytesRead    uint64
	Blocks       int
	ByKind       map[block.Kind]int

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{ByKind: make(map[block.Kind]int)}
}

// StartScan marks the beginning of the file scanning phase.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the file scanning phase.
func (s *Stats) EndScan(filesFound int) {
	s.ScanEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartLoad marks the beginning of the section loading phase.
func (s *Stats) StartLoad() {
	s.LoadStart = time.Now()
}

// EndLoad marks the end of the section loading phase.
func (s *Stats) EndLoad(sections, skipped int, bytesRead uint64) {
	s.LoadEnd = time.Now()
	s.Sections = sections
	s.FilesSkipped = skipped
	s.BytesRead = bytesRead
}

// StartParse marks the beginning of the block parsing phase.
func (s *Stats) StartParse() {
	s.ParseStart = time.Now()
}

// AddBlocks records the blocks of one parsed section.
func (s *Stats) AddBlocks(blocks []block.Block) {
	if s.ByKind == nil {
		s.ByKind = make(map[block.Kind]int)
	}
	s.Blocks += len(blocks)
	for _, b := range blocks {
		s.ByKind[b.Kind()]++
	}
}

// EndParse marks the end of the parsing phase and captures memory stats.
func (s *Stats) EndParse() {
	s.ParseEnd = time.Now()
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// ScanDuration returns the time spent scanning for files.
func (s *Stats) ScanDuration() time.Duration {
	if s.ScanEnd.IsZero() {
		return 0
	}
	return s.ScanEnd.Sub(s.ScanStart)
}

// LoadDuration returns the time spent reading and decoding section files.
func (s *Stats) LoadDuration() time.Duration {
	if s.LoadEnd.IsZero() {
		return 0
	}
	return s.LoadEnd.Sub(s.LoadStart)
}

// ParseDuration returns the time spent parsing sections into blocks.
func (s *Stats) ParseDuration() time.Duration {
	if s.ParseEnd.IsZero() {
		return 0
	}
	return s.ParseEnd.Sub(s.ParseStart)
}

// TotalDuration returns the total time from scan start to parse end.
func (s *Stats) TotalDuration() time.Duration {
	if s.ParseEnd.IsZero() {
		return 0
	}
	return s.ParseEnd.Sub(s.ScanStart)
}

// BlocksPerSecond returns the parsing throughput.
func (s *Stats) BlocksPerSecond() float64 {
	d := s.ParseDuration()
	if d == 0 || s.Blocks == 0 {
		return 0
	}
	return float64(s.Blocks) / d.Seconds()
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	return humanize.IBytes(bytes)
}

func (s *Stats) phase(b *strings.Builder, label string, d, total time.Duration) {
	b.WriteString(fmt.Sprintf("  %-14s %8s", label, FormatDuration(d)))
	if total > 0 {
		b.WriteString(fmt.Sprintf("  (%4.1f%%)", float64(d)/float64(total)*100))
	}
	b.WriteString("\n")
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()

	b.WriteString("\n=== Performance Statistics ===\n\n")

	// Timing breakdown
	b.WriteString("Timing:\n")
	s.phase(&b, "Scan files:", s.ScanDuration(), total)
	s.phase(&b, "Load sections:", s.LoadDuration(), total)
	s.phase(&b, "Parse blocks:", s.ParseDuration(), total)
	b.WriteString("  ─────────────────────────\n")
	b.WriteString(fmt.Sprintf("  Total:         %8s\n", FormatDuration(total)))

	// Throughput
	b.WriteString("\nThroughput:\n")
	b.WriteString(fmt.Sprintf("  Files scanned:     %5s\n", humanize.Comma(int64(s.FilesScanned))))
	if s.FilesSkipped > 0 {
		b.WriteString(fmt.Sprintf("  Files skipped:     %5s\n", humanize.Comma(int64(s.FilesSkipped))))
	}
	b.WriteString(fmt.Sprintf("  Sections:          %5s\n", humanize.Comma(int64(s.Sections))))
	b.WriteString(fmt.Sprintf("  Bytes read:    %9s\n", FormatBytes(s.BytesRead)))
	b.WriteString(fmt.Sprintf("  Blocks:            %5s\n", humanize.Comma(int64(s.Blocks))))
	b.WriteString(fmt.Sprintf("  Blocks/second: %9.1f\n", s.BlocksPerSecond()))

	// Per kind
	b.WriteString("\nBlocks by kind:\n")
	for _, k := range block.Kinds() {
		b.WriteString(fmt.Sprintf("  %-12s %5d\n", k, s.ByKind[k]))
	}

	// Memory
	b.WriteString("\nMemory:\n")
	b.WriteString(fmt.Sprintf("  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc)))
	b.WriteString(fmt.Sprintf("  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc)))
	b.WriteString(fmt.Sprintf("  GC cycles:     %8d\n", s.NumGC))
	b.WriteString(fmt.Sprintf("  Goroutines:    %8d\n", s.NumGoroutine))

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	byKind := make(map[string]int, len(block.Kinds()))
	for _, k := range block.Kinds() {
		byKind[string(k)] = s.ByKind[k]
	}

	return map[string]any{
		"timing": map[string]any{
			"scan_ms":  s.ScanDuration().Milliseconds(),
			"load_ms":  s.LoadDuration().Milliseconds(),
			"parse_ms": s.ParseDuration().Milliseconds(),
			"total_ms": s.TotalDuration().Milliseconds(),
		},
		"throughput": map[string]any{
			"files_scanned":     s.FilesScanned,
			"files_skipped":     s.FilesSkipped,
			"sections":          s.Sections,
			"bytes_read":        s.BytesRead,
			"blocks":            s.Blocks,
			"blocks_per_second": s.BlocksPerSecond(),
		},
		"by_kind": byKind,
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
