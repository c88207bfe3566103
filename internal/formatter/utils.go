package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/yildizm/go-termfmt"
)

// FormatConfidence renders a [0,1] score as a percentage with one decimal
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// ParseConfidence is the inverse of FormatConfidence
func ParseConfidence(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("confidence %q is not a percentage", s)
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid confidence %q: %w", s, err)
	}
	return pct / 100, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// singleLine keeps list items and metadata on one line. Other whitespace is
// kept as is so the text report reads back verbatim.
func singleLine(s string) string {
	return lineBreaks.Replace(s)
}

// numbered renders items as "N. item"
func numbered(items []string) []string {
	return lo.Map(items, func(item string, i int) string {
		return fmt.Sprintf("%d. %s", i+1, singleLine(item))
	})
}

// createConfidenceBar creates ASCII confidence bar using go-termfmt
func createConfidenceBar(confidence float64, color bool) string {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	return termfmt.CreateConfidenceBar(confidence, opts)
}
