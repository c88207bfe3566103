package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/xraylab/internal/analysis"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(result *analysis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}

	var b strings.Builder

	b.WriteString("# X-Ray Analysis Report\n\n")
	fmt.Fprintf(&b, "> **%s**\n\n", analysis.Disclaimer)
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Confidence\n\n")
	fmt.Fprintf(&b, "**Score**: %s %s\n\n", createConfidenceBar(result.ConfidenceScore, false), FormatConfidence(result.ConfidenceScore))

	f.writeList(&b, "Findings", result.Findings)
	f.writeList(&b, "Recommendations", result.Recommendations)
	f.writeMetadataTable(&b, result.Metadata)

	b.WriteString("---\n")
	b.WriteString("*Results are experimental and for research purposes only.*\n")

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeList(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("_None_\n\n")
		return
	}
	for _, line := range numbered(items) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeMetadataTable(b *strings.Builder, md analysis.Metadata) {
	if len(md) == 0 {
		return
	}

	b.WriteString("## Metadata\n\n")
	b.WriteString("| Key | Value |\n")
	b.WriteString("|-----|-------|\n")
	for _, p := range md {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(p.Key), escapeCell(p.Value))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}
