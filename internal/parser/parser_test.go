package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/lessonblocks/internal/block"
)

const ticks = "```"

// =============================================================================
// Line Classification
// =============================================================================

func TestParse_Headings(t *testing.T) {
	t.Parallel()

	t.Run("Precedence", func(t *testing.T) {
		t.Parallel()
		got := Parse("### a\n## b\n# c")
		assert.Equal(t, []block.Block{
			block.Heading{Level: 3, Text: "a"},
			block.Heading{Level: 2, Text: "b"},
			block.Heading{Level: 1, Text: "c"},
		}, got)
	})

	t.Run("KeepsRemainderVerbatim", func(t *testing.T) {
		t.Parallel()
		got := Parse("#  **Bold** title ")
		require.Len(t, got, 1)
		assert.Equal(t, block.Heading{Level: 1, Text: " **Bold** title "}, got[0])
	})

	t.Run("NoSpaceAfterMarkerIsParagraph", func(t *testing.T) {
		t.Parallel()
		got := Parse("#hashtag\n####")
		assert.Equal(t, []block.Block{
			block.Paragraph{Text: "#hashtag"},
			block.Paragraph{Text: "####"},
		}, got)
	})

	t.Run("FourHashesIsParagraph", func(t *testing.T) {
		t.Parallel()
		got := Parse("#### deep")
		assert.Equal(t, []block.Block{block.Paragraph{Text: "#### deep"}}, got)
	})
}

func TestParse_ListItems(t *testing.T) {
	t.Parallel()

	t.Run("OrderPreserved", func(t *testing.T) {
		t.Parallel()
		got := Parse("- a\n- b\n1. c\n2. d")
		assert.Equal(t, []block.Block{
			block.ListItem{Ordered: false, Text: "a"},
			block.ListItem{Ordered: false, Text: "b"},
			block.ListItem{Ordered: true, Text: "c"},
			block.ListItem{Ordered: true, Text: "d"},
		}, got)
	})

	t.Run("AdjacentItemsNotMerged", func(t *testing.T) {
		t.Parallel()
		got := Parse("- one\n- two\n- three")
		assert.Len(t, got, 3)
		for _, b := range got {
			assert.Equal(t, block.KindListItem, b.Kind())
		}
	})

	t.Run("MultiDigitOrdered", func(t *testing.T) {
		t.Parallel()
		got := Parse("12. twelfth")
		assert.Equal(t, []block.Block{block.ListItem{Ordered: true, Text: "twelfth"}}, got)
	})

	t.Run("OrderedWithoutSpace", func(t *testing.T) {
		t.Parallel()
		got := Parse("3.third")
		assert.Equal(t, []block.Block{block.ListItem{Ordered: true, Text: "third"}}, got)
	})

	t.Run("DigitsWithoutDotIsParagraph", func(t *testing.T) {
		t.Parallel()
		got := Parse("2024 was a year")
		assert.Equal(t, []block.Block{block.Paragraph{Text: "2024 was a year"}}, got)
	})

	t.Run("DashWithoutSpaceIsParagraph", func(t *testing.T) {
		t.Parallel()
		got := Parse("-dash")
		assert.Equal(t, []block.Block{block.Paragraph{Text: "-dash"}}, got)
	})

	t.Run("EmptyBullet", func(t *testing.T) {
		t.Parallel()
		got := Parse("- ")
		assert.Equal(t, []block.Block{block.ListItem{Text: ""}}, got)
	})
}

func TestParse_Spacers(t *testing.T) {
	t.Parallel()

	t.Run("BlankLine", func(t *testing.T) {
		t.Parallel()
		got := Parse("a\n\nb")
		assert.Equal(t, []block.Block{
			block.Paragraph{Text: "a"},
			block.Spacer{},
			block.Paragraph{Text: "b"},
		}, got)
	})

	t.Run("WhitespaceOnlyLine", func(t *testing.T) {
		t.Parallel()
		got := Parse("a\n \t \nb")
		assert.Equal(t, block.Spacer{}, got[1])
	})

	t.Run("TrailingNewline", func(t *testing.T) {
		t.Parallel()
		got := Parse("a\n")
		assert.Equal(t, []block.Block{block.Paragraph{Text: "a"}, block.Spacer{}}, got)
	})
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	got := Parse("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParse_CRLF(t *testing.T) {
	t.Parallel()

	got := Parse("# Title\r\n\r\n- item\r\n" + ticks + "go\r\nx := 1\r\n" + ticks)
	assert.Equal(t, []block.Block{
		block.Heading{Level: 1, Text: "Title"},
		block.Spacer{},
		block.ListItem{Text: "item"},
		block.CodeBlock{Language: "go", Code: "x := 1"},
	}, got)
}

// =============================================================================
// Fenced Code Blocks
// =============================================================================

func TestParse_FencedCode(t *testing.T) {
	t.Parallel()

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "js\nconst x = 1;\n" + ticks)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Language: "js", Code: "const x = 1;"},
		}, got)
	})

	t.Run("NoLanguage", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "\nplain\n" + ticks)
		require.Len(t, got, 1)
		cb, ok := got[0].(block.CodeBlock)
		require.True(t, ok)
		assert.False(t, cb.HasLanguage())
		assert.Equal(t, "plain", cb.Code)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "sh\n" + ticks)
		assert.Equal(t, []block.Block{block.CodeBlock{Language: "sh"}}, got)
	})

	t.Run("MultiLineBodyKeepsInteriorMarkup", func(t *testing.T) {
		t.Parallel()
		src := "intro\n" + ticks + "md\n# not a heading\n- not a list\n\n1. nor this\n" + ticks + "\noutro"
		got := Parse(src)
		assert.Equal(t, []block.Block{
			block.Paragraph{Text: "intro"},
			block.CodeBlock{Language: "md", Code: "# not a heading\n- not a list\n\n1. nor this"},
			block.Paragraph{Text: "outro"},
		}, got)
	})

	t.Run("LanguageTagStoredVerbatim", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "c++ {linenos=true}\nint x;\n" + ticks)
		require.Len(t, got, 1)
		assert.Equal(t, "c++ {linenos=true}", got[0].(block.CodeBlock).Language)
	})

	t.Run("ClosingFenceWithTrailingSpaces", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "py\nprint(1)\n" + ticks + "  ")
		assert.Equal(t, []block.Block{block.CodeBlock{Language: "py", Code: "print(1)"}}, got)
	})

	t.Run("SiblingFencesMatchedIndependently", func(t *testing.T) {
		t.Parallel()
		src := ticks + "go\na := 1\n" + ticks + "\nbetween\n" + ticks + "rust\nlet b = 2;\n" + ticks
		got := Parse(src)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Language: "go", Code: "a := 1"},
			block.Paragraph{Text: "between"},
			block.CodeBlock{Language: "rust", Code: "let b = 2;"},
		}, got)
	})

	t.Run("DuplicateLinesBeforeFence", func(t *testing.T) {
		t.Parallel()
		src := ticks + "a\none\n" + ticks + "\n" + ticks + "b\ntwo\n" + ticks
		got := Parse(src)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Language: "a", Code: "one"},
			block.CodeBlock{Language: "b", Code: "two"},
		}, got)
	})

	t.Run("FenceCountMatchesPairs", func(t *testing.T) {
		t.Parallel()
		var sb strings.Builder
		for range 5 {
			sb.WriteString("text\n" + ticks + "x\nbody\n" + ticks + "\n")
		}
		doc := block.Document(Parse(sb.String()))
		assert.Equal(t, 5, doc.Count(block.KindCodeBlock))
		assert.Equal(t, 5, doc.Count(block.KindParagraph))
	})
}

func TestParse_UnterminatedFence(t *testing.T) {
	t.Parallel()

	t.Run("FallsBackToParagraphs", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "js\nconst x = 1;")
		assert.Equal(t, []block.Block{
			block.Paragraph{Text: ticks + "js"},
			block.Paragraph{Text: "const x = 1;"},
		}, got)
	})

	t.Run("DoesNotSwallowRestOfDocument", func(t *testing.T) {
		t.Parallel()
		got := Parse("# Title\n" + ticks + "\n- item\n## Next")
		assert.Equal(t, []block.Block{
			block.Heading{Level: 1, Text: "Title"},
			block.Paragraph{Text: ticks},
			block.ListItem{Text: "item"},
			block.Heading{Level: 2, Text: "Next"},
		}, got)
	})

	t.Run("ClosedFenceFollowedByUnterminated", func(t *testing.T) {
		t.Parallel()
		got := Parse(ticks + "\na\n" + ticks + "\n" + ticks + "go\nb")
		assert.Equal(t, []block.Block{
			block.CodeBlock{Code: "a"},
			block.Paragraph{Text: ticks + "go"},
			block.Paragraph{Text: "b"},
		}, got)
	})
}

// =============================================================================
// Fence Policies
// =============================================================================

func TestParse_FenceDuplicatePolicy(t *testing.T) {
	t.Parallel()

	p := New(WithFencePolicy(FenceDuplicate))
	assert.Equal(t, FenceDuplicate, p.Policy())

	t.Run("InteriorLinesClassifiedAgain", func(t *testing.T) {
		t.Parallel()
		got := p.Parse(ticks + "js\nconst x = 1;\n" + ticks)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Language: "js", Code: "const x = 1;"},
			block.Paragraph{Text: "const x = 1;"},
		}, got)
	})

	t.Run("InteriorMarkupReclassified", func(t *testing.T) {
		t.Parallel()
		got := p.Parse(ticks + "\n# h\n- l\n\n" + ticks + "\nafter")
		assert.Equal(t, []block.Block{
			block.CodeBlock{Code: "# h\n- l\n"},
			block.Heading{Level: 1, Text: "h"},
			block.ListItem{Text: "l"},
			block.Spacer{},
			block.Paragraph{Text: "after"},
		}, got)
	})

	t.Run("InteriorFenceLikeLineIsParagraph", func(t *testing.T) {
		t.Parallel()
		got := p.Parse(ticks + "md\n" + ticks + "go\n" + ticks)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Language: "md", Code: ticks + "go"},
			block.Paragraph{Text: ticks + "go"},
		}, got)
	})

	t.Run("SiblingFences", func(t *testing.T) {
		t.Parallel()
		got := p.Parse(ticks + "\na\n" + ticks + "\n" + ticks + "\nb\n" + ticks)
		assert.Equal(t, []block.Block{
			block.CodeBlock{Code: "a"},
			block.Paragraph{Text: "a"},
			block.CodeBlock{Code: "b"},
			block.Paragraph{Text: "b"},
		}, got)
	})
}

func TestParseFencePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected FencePolicy
		ok       bool
	}{
		{"", FenceSkipAhead, true},
		{"skip", FenceSkipAhead, true},
		{"Skip-Ahead", FenceSkipAhead, true},
		{"duplicate", FenceDuplicate, true},
		{" legacy ", FenceDuplicate, true},
		{"bogus", FenceSkipAhead, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseFencePolicy(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFencePolicy_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "skip", FenceSkipAhead.String())
	assert.Equal(t, "duplicate", FenceDuplicate.String())
	assert.Equal(t, "unknown", FencePolicy(42).String())
}

// =============================================================================
// Determinism
// =============================================================================

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		"# a\n\n- b\n1. c\n" + ticks + "go\nx\n" + ticks,
		ticks + "unterminated\nstill text",
		"\xff\xfe not utf8 \x80",
	}

	for _, in := range inputs {
		first := Parse(in)
		for range 10 {
			assert.True(t, block.Equal(first, Parse(in)), "input %q", in)
		}
	}
}

func TestParse_NonUTF8IsParagraph(t *testing.T) {
	t.Parallel()

	got := Parse("\xff\xfe")
	assert.Equal(t, []block.Block{block.Paragraph{Text: "\xff\xfe"}}, got)
}

func TestParse_Concurrent(t *testing.T) {
	t.Parallel()

	src := "# T\n- a\n" + ticks + "sh\necho hi\n" + ticks + "\n\nend"
	want := Parse(src)

	done := make(chan []block.Block, 16)
	for range 16 {
		go func() { done <- Parse(src) }()
	}
	for range 16 {
		assert.True(t, block.Equal(want, <-done))
	}
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := ParseDocument("# a\nb\n\n- c")
	assert.Equal(t, 4, doc.Len())
	assert.Equal(t, 1, doc.Count(block.KindHeading))
	assert.Equal(t, 1, doc.Count(block.KindSpacer))
}

func TestParseBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Parse("- x"), Default().ParseBytes([]byte("- x")))
}
