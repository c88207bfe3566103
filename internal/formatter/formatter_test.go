package formatter

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/xraylab/internal/analysis"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		ConfidenceScore: 0.8765,
		Findings: []string{
			"Lungs are clear and well expanded",
			"No pleural effusion or pneumothorax",
		},
		Recommendations: []string{"Follow-up imaging in 6 months"},
		Metadata: analysis.NewMetadata(
			"width", "512",
			"height", "512",
			"format", "JPEG",
			"note", "ratio: 1:1",
		),
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.92, "92.0%"},
		{0, "0.0%"},
		{1, "100.0%"},
		{0.8765, "87.7%"},
		{0.07, "7.0%"},
	}

	for _, tt := range tests {
		if got := FormatConfidence(tt.score); got != tt.want {
			t.Errorf("FormatConfidence(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestParseConfidence_Errors(t *testing.T) {
	for _, in := range []string{"92.0", "abc%", ""} {
		if _, err := ParseConfidence(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	results := map[string]*analysis.Result{
		"sample":      sampleResult(),
		"placeholder": analysis.Placeholder(),
		"empty lists": {ConfidenceScore: 0.5, Findings: []string{}, Recommendations: []string{}, Metadata: analysis.Metadata{}},
		"inner whitespace": {
			ConfidenceScore: 0.31,
			Findings:        []string{"opacity  in  left lobe", "\tindented finding", "trailing space "},
			Recommendations: []string{"repeat   imaging"},
			Metadata:        analysis.NewMetadata("mode", "two  spaces"),
		},
		"empty recommendation": {
			ConfidenceScore: 0.7,
			Findings:        []string{"x"},
			Recommendations: []string{""},
			Metadata:        analysis.Metadata{},
		},
	}

	for name, original := range results {
		t.Run(name, func(t *testing.T) {
			out, err := NewText().Format(original)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			parsed, err := ParseText(out)
			if err != nil {
				t.Fatalf("ParseText failed: %v\n%s", err, out)
			}

			if FormatConfidence(parsed.ConfidenceScore) != FormatConfidence(original.ConfidenceScore) {
				t.Errorf("Confidence mismatch: %v vs %v", parsed.ConfidenceScore, original.ConfidenceScore)
			}
			if math.Abs(parsed.ConfidenceScore-original.ConfidenceScore) > 0.0005 {
				t.Errorf("Confidence not recovered to one decimal place: %v vs %v", parsed.ConfidenceScore, original.ConfidenceScore)
			}
			if !reflect.DeepEqual(parsed.Findings, original.Findings) {
				t.Errorf("Findings mismatch: %q vs %q", parsed.Findings, original.Findings)
			}
			if !reflect.DeepEqual(parsed.Recommendations, original.Recommendations) {
				t.Errorf("Recommendations mismatch: %q vs %q", parsed.Recommendations, original.Recommendations)
			}
			if !reflect.DeepEqual(parsed.Metadata, original.Metadata) {
				t.Errorf("Metadata mismatch: %v vs %v", parsed.Metadata, original.Metadata)
			}
		})
	}
}

func TestTextFormat_PlaceholderScenario(t *testing.T) {
	out, err := NewText().Format(analysis.Placeholder())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, "Confidence: 92.0%") {
		t.Errorf("Expected rendered confidence 92.0%%, got:\n%s", text)
	}
	if !strings.Contains(text, "  1. No significant abnormalities detected\n") {
		t.Errorf("Expected single finding row, got:\n%s", text)
	}
	if strings.Contains(text, "  2. No") {
		t.Error("Expected exactly one finding")
	}
}

func TestTextFormat_MetadataOrder(t *testing.T) {
	out, err := NewText().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	widthPos := strings.Index(text, "width: 512")
	heightPos := strings.Index(text, "height: 512")
	formatPos := strings.Index(text, "format: JPEG")

	if widthPos < 0 || heightPos < 0 || formatPos < 0 {
		t.Fatalf("Missing metadata rows:\n%s", text)
	}
	if widthPos > heightPos || heightPos > formatPos {
		t.Errorf("Metadata not in insertion order:\n%s", text)
	}
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing confidence", input: "Findings:\n  1. a\n"},
		{name: "bad confidence", input: "Confidence: high\n"},
		{name: "bad list item", input: "Confidence: 50.0%\nFindings:\n  - a\n"},
		{name: "orphan row", input: "Confidence: 50.0%\n  1. a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseText([]byte(tt.input)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestTextFormat_FlattensMultilineItems(t *testing.T) {
	r := &analysis.Result{
		ConfidenceScore: 0.3,
		Findings:        []string{"first line\nsecond line"},
		Recommendations: []string{},
	}

	out, err := NewText().Format(r)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	parsed, err := ParseText(out)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if len(parsed.Findings) != 1 || parsed.Findings[0] != "first line second line" {
		t.Errorf("Unexpected findings: %v", parsed.Findings)
	}
}

func TestJSONFormat(t *testing.T) {
	out, err := NewJSON().Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded analysis.Result
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Metadata.Keys()[0] != "width" {
		t.Errorf("Expected metadata order preserved, got %v", decoded.Metadata.Keys())
	}
	if !strings.Contains(string(out), `"confidence_score": 0.8765`) {
		t.Errorf("Expected wire field names, got:\n%s", out)
	}
}

func TestMarkdownFormat(t *testing.T) {
	f := &markdownFormatter{now: func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}}

	out, err := f.Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	for _, want := range []string{
		"# X-Ray Analysis Report",
		"Generated: 2026-01-02 03:04:05",
		"87.7%",
		"1. Lungs are clear and well expanded",
		"| width | 512 |",
		analysis.Disclaimer,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in markdown output:\n%s", want, text)
		}
	}
}

func TestTerminalFormat(t *testing.T) {
	out, err := NewTerminal(false).Format(sampleResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	text := string(out)
	for _, want := range []string{"X-Ray Analysis Results", "87.7%", "No pleural effusion or pneumothorax", "Follow-up imaging", "JPEG"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in terminal output:\n%s", want, text)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names {
		if _, err := New(name, false); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}

	if _, err := New("csv", false); err == nil {
		t.Error("Expected error for unsupported format")
	}

	for _, f := range []Formatter{NewText(), NewJSON(), NewMarkdown(), NewTerminal(false)} {
		if _, err := f.Format(nil); err == nil {
			t.Errorf("%T: expected error for nil result", f)
		}
	}
}
