package formatter

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yildizm/xraylab/internal/analysis"
)

// Section headings of the text format
const (
	textTitle           = "X-Ray Analysis Results"
	textConfidence      = "Confidence:"
	textFindings        = "Findings:"
	textRecommendations = "Recommendations:"
	textMetadata        = "Metadata:"
	textNone            = "(none)"
)

var itemPattern = regexp.MustCompile(`^(\d+)\. (.*)$`)

// textFormatter renders a plain, line-oriented report that ParseText can read back
type textFormatter struct{}

// NewText creates a new plain text formatter
func NewText() Formatter {
	return &textFormatter{}
}

func (f *textFormatter) Format(result *analysis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}

	var b strings.Builder
	b.WriteString(textTitle + "\n")
	b.WriteString(analysis.Disclaimer + "\n\n")

	fmt.Fprintf(&b, "%s %s\n\n", textConfidence, FormatConfidence(result.ConfidenceScore))

	writeTextList(&b, textFindings, result.Findings)
	writeTextList(&b, textRecommendations, result.Recommendations)

	b.WriteString(textMetadata + "\n")
	if len(result.Metadata) == 0 {
		b.WriteString("  " + textNone + "\n")
	}
	for _, p := range result.Metadata {
		fmt.Fprintf(&b, "  %s: %s\n", singleLine(p.Key), singleLine(p.Value))
	}

	return []byte(b.String()), nil
}

func writeTextList(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading + "\n")
	if len(items) == 0 {
		b.WriteString("  " + textNone + "\n")
	}
	for _, line := range numbered(items) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

// ParseText reads a report produced by the text formatter. Confidence is
// recovered to the displayed precision.
func ParseText(data []byte) (*analysis.Result, error) {
	result := &analysis.Result{
		Findings:        []string{},
		Recommendations: []string{},
		Metadata:        analysis.Metadata{},
	}

	var section string
	var sawConfidence bool

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(line, textConfidence):
			score, err := ParseConfidence(strings.TrimPrefix(line, textConfidence))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			result.ConfidenceScore = score
			sawConfidence = true
			section = ""
		case line == textFindings, line == textRecommendations, line == textMetadata:
			section = line
		case !strings.HasPrefix(line, "  "):
			// title, disclaimer or other prose
			section = ""
		case trimmed == textNone:
			continue
		default:
			// only the indent is dropped; items keep their own spacing
			if err := parseTextRow(result, section, strings.TrimPrefix(line, "  ")); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	if !sawConfidence {
		return nil, fmt.Errorf("missing %q line", textConfidence)
	}
	return result, nil
}

func parseTextRow(result *analysis.Result, section, row string) error {
	switch section {
	case textFindings, textRecommendations:
		m := itemPattern.FindStringSubmatch(row)
		if m == nil {
			return fmt.Errorf("malformed list item %q", row)
		}
		if section == textFindings {
			result.Findings = append(result.Findings, m[2])
		} else {
			result.Recommendations = append(result.Recommendations, m[2])
		}
	case textMetadata:
		key, value, ok := strings.Cut(row, ": ")
		if !ok {
			key, ok = strings.CutSuffix(row, ":")
			if !ok {
				return fmt.Errorf("malformed metadata row %q", row)
			}
		}
		result.Metadata.Set(key, value)
	default:
		return fmt.Errorf("unexpected indented line %q", row)
	}
	return nil
}
