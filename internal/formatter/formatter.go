package formatter

import (
	"fmt"

	"github.com/yildizm/xraylab/internal/analysis"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *analysis.Result) ([]byte, error)
}

// Names lists the supported formats
var Names = []string{"text", "terminal", "json", "markdown"}

// New returns the formatter registered under name
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "", "text":
		return NewText(), nil
	case "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}
