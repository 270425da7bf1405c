package parser

import (
	"strconv"
	"strings"
	"testing"
)

// BenchmarkParse measures parsing of a typical lesson section.
func BenchmarkParse(b *testing.B) {
	content := createLessonContent(20)

	b.ResetTimer()
	for b.Loop() {
		_ = Parse(content)
	}
}

// BenchmarkParse_Duplicate measures the legacy fence policy on the same input.
func BenchmarkParse_Duplicate(b *testing.B) {
	content := createLessonContent(20)
	p := New(WithFencePolicy(FenceDuplicate))

	b.ResetTimer()
	for b.Loop() {
		_ = p.Parse(content)
	}
}

// BenchmarkParse_Unterminated measures the fallback path where no fence closes.
func BenchmarkParse_Unterminated(b *testing.B) {
	var sb strings.Builder
	for range 200 {
		sb.WriteString("```go\nline\n")
	}
	content := sb.String()

	b.ResetTimer()
	for b.Loop() {
		_ = Parse(content)
	}
}

// createLessonContent builds a section with the given number of subsections.
func createLessonContent(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Lesson\n\n")

	for i := range sections {
		sb.WriteString("## Part ")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString("\n\nSome explanatory text for this part.\n\n")
		sb.WriteString("- first point\n- second point\n1. step one\n2. step two\n\n")
		sb.WriteString("```go\nfmt.Println(")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(")\n```\n\n")
	}

	return sb.String()
}
