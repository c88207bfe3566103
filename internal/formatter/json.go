package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/yildizm/xraylab/internal/analysis"
)

// jsonFormatter formats output as JSON in the wire shape of the analysis API
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(result *analysis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	return json.MarshalIndent(result, "", "  ")
}
