package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/lessonblocks/internal/block"
)

func TestNew(t *testing.T) {
	t.Parallel()

	s := New()

	require.NotNil(t, s)
	assert.True(t, s.ScanStart.IsZero())
	assert.True(t, s.LoadStart.IsZero())
	assert.True(t, s.ParseStart.IsZero())
	assert.Equal(t, 0, s.FilesScanned)
	assert.Equal(t, 0, s.Blocks)
	assert.NotNil(t, s.ByKind)
}

// =============================================================================
// Phases
// =============================================================================

func TestScanPhase(t *testing.T) {
	t.Parallel()

	t.Run("EndScan", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		s.EndScan(12)

		assert.False(t, s.ScanEnd.IsZero())
		assert.Equal(t, 12, s.FilesScanned)
	})

	t.Run("ScanDuration", func(t *testing.T) {
		t.Parallel()
		s := New()
		assert.Zero(t, s.ScanDuration())

		s.ScanStart = time.Unix(0, 0)
		s.ScanEnd = s.ScanStart.Add(30 * time.Millisecond)
		assert.Equal(t, 30*time.Millisecond, s.ScanDuration())
	})
}

func TestLoadPhase(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Zero(t, s.LoadDuration())

	s.StartLoad()
	s.EndLoad(7, 2, 4096)

	assert.Equal(t, 7, s.Sections)
	assert.Equal(t, 2, s.FilesSkipped)
	assert.Equal(t, uint64(4096), s.BytesRead)
	assert.GreaterOrEqual(t, s.LoadDuration(), time.Duration(0))
}

func TestParsePhase(t *testing.T) {
	t.Parallel()

	t.Run("AddBlocks", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.AddBlocks([]block.Block{block.Heading{Level: 1, Text: "a"}, block.Spacer{}})
		s.AddBlocks([]block.Block{block.Spacer{}})

		assert.Equal(t, 3, s.Blocks)
		assert.Equal(t, 1, s.ByKind[block.KindHeading])
		assert.Equal(t, 2, s.ByKind[block.KindSpacer])
	})

	t.Run("AddBlocksOnZeroValue", func(t *testing.T) {
		t.Parallel()
		var s Stats
		s.AddBlocks([]block.Block{block.Paragraph{Text: "p"}})
		assert.Equal(t, 1, s.ByKind[block.KindParagraph])
	})

	t.Run("EndParseCapturesMemory", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartParse()
		s.EndParse()

		assert.False(t, s.ParseEnd.IsZero())
		assert.Positive(t, s.HeapAlloc)
		assert.Positive(t, s.NumGoroutine)
	})
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenIncomplete", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartScan()
		assert.Zero(t, s.TotalDuration())
	})

	t.Run("ReturnsFullDuration", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.ScanStart = time.Unix(100, 0)
		s.ParseEnd = s.ScanStart.Add(2 * time.Second)
		assert.Equal(t, 2*time.Second, s.TotalDuration())
	})
}

func TestBlocksPerSecond(t *testing.T) {
	t.Parallel()

	s := New()
	assert.Zero(t, s.BlocksPerSecond())

	s.Blocks = 500
	s.ParseStart = time.Unix(0, 0)
	s.ParseEnd = s.ParseStart.Add(2 * time.Second)
	assert.InDelta(t, 250.0, s.BlocksPerSecond(), 0.001)
}

// =============================================================================
// Formatting
// =============================================================================

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Zero", 0, "0µs"},
		{"Microseconds", 500 * time.Microsecond, "500µs"},
		{"Milliseconds", 500 * time.Millisecond, "500ms"},
		{"Seconds", 2500 * time.Millisecond, "2.5s"},
		{"Minutes", 65 * time.Second, "1m5.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    uint64
		expected string
	}{
		{"Zero", 0, "0 B"},
		{"Bytes", 500, "500 B"},
		{"Kibibyte", 1024, "1.0 KiB"},
		{"FractionalKibibytes", 1536, "1.5 KiB"},
		{"Mebibyte", 1024 * 1024, "1.0 MiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("ContainsAllSections", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.EndScan(3)
		s.AddBlocks([]block.Block{block.CodeBlock{Code: "x"}})
		out := s.String()

		for _, want := range []string{"Timing:", "Scan files:", "Load sections:", "Parse blocks:", "Throughput:", "Blocks by kind:", "Memory:"} {
			assert.Contains(t, out, want)
		}
		assert.Regexp(t, `code_block\s+1`, out)
		assert.Regexp(t, `spacer\s+0`, out)
	})

	t.Run("SkippedOnlyWhenPresent", func(t *testing.T) {
		t.Parallel()
		s := New()
		assert.NotContains(t, s.String(), "Files skipped")

		s.FilesSkipped = 1
		assert.Contains(t, s.String(), "Files skipped")
	})

	t.Run("HumanizesCounts", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Blocks = 12345
		assert.True(t, strings.Contains(s.String(), "12,345"))
	})
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	s := New()
	s.FilesScanned = 4
	s.AddBlocks([]block.Block{block.ListItem{Text: "a"}, block.ListItem{Ordered: true, Text: "b"}})

	out := s.ToJSON()
	require.Contains(t, out, "timing")
	require.Contains(t, out, "throughput")
	require.Contains(t, out, "memory")

	throughput, ok := out["throughput"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, throughput["files_scanned"])
	assert.Equal(t, 2, throughput["blocks"])

	byKind, ok := out["by_kind"].(map[string]int)
	require.True(t, ok)
	assert.Len(t, byKind, len(block.Kinds()))
	assert.Equal(t, 2, byKind["list_item"])
	assert.Equal(t, 0, byKind["heading"])
}
