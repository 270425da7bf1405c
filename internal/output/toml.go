package output

import (
	"github.com/pelletier/go-toml/v2"
)

// TOMLFormatter formats reports as TOML. Documents become [[documents]]
// tables with their blocks as [[documents.blocks]].
type TOMLFormatter struct{}

// Format implements Formatter.
func (*TOMLFormatter) Format(report *Report) ([]byte, error) {
	return toml.Marshal(newReportOutput(report))
}
