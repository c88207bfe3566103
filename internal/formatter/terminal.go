package formatter

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/xraylab/internal/analysis"
)

// terminalFormatter formats output for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *analysis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}

	var b strings.Builder

	f.writeHeader(&b)
	f.writeConfidence(&b, result.ConfidenceScore)
	f.writeFindings(&b, result.Findings)
	f.writeRecommendations(&b, result.Recommendations)
	f.writeMetadata(&b, result.Metadata)

	return []byte(b.String()), nil
}

// writeHeader writes the boxed title and the research disclaimer
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "X-Ray Analysis Results"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n")
	b.WriteString(termfmt.GetEmoji("warning", f.opts) + " " + analysis.Disclaimer + "\n\n")
}

func (f *terminalFormatter) writeConfidence(b *strings.Builder, score float64) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	bar := termfmt.CreateConfidenceBar(score, f.opts)
	fmt.Fprintf(b, "%s Confidence %s %s\n\n", symbol, bar, FormatConfidence(score))
}

func (f *terminalFormatter) writeFindings(b *strings.Builder, findings []string) {
	b.WriteString(termfmt.GetEmoji("insight", f.opts) + " Findings\n")

	if len(findings) == 0 {
		b.WriteString("└─ none\n\n")
		return
	}

	items := make([]termfmt.TreeItem, 0, len(findings))
	for i, finding := range findings {
		items = append(items, termfmt.TreeItem{
			Label: singleLine(finding),
			Last:  i == len(findings)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeRecommendations(b *strings.Builder, recommendations []string) {
	b.WriteString(termfmt.GetEmoji("recommendations", f.opts) + " Recommendations\n")
	for _, rec := range recommendations {
		b.WriteString("• " + singleLine(rec) + "\n")
	}
	b.WriteString("\n")
}

// writeMetadata writes key/value rows in insertion order
func (f *terminalFormatter) writeMetadata(b *strings.Builder, md analysis.Metadata) {
	if len(md) == 0 {
		return
	}

	b.WriteString(termfmt.GetEmoji("info", f.opts) + " Metadata\n")

	table := tablewriter.NewWriter(b)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	for _, p := range md {
		table.Append([]string{p.Key, singleLine(p.Value)})
	}
	table.Render()
}
