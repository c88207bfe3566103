package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Disclaimer is shown wherever results are presented
const Disclaimer = "NOT FOR CLINICAL USE - NOT FOR DIAGNOSIS - EXPERIMENTAL ONLY"

// ModelVersion identifies the placeholder model
const ModelVersion = "Research Model v1.0"

// Result holds the findings of a completed analysis
type Result struct {
	// ConfidenceScore is in [0,1]
	ConfidenceScore float64 `json:"confidence_score" validate:"gte=0,lte=1"`

	// Findings are ordered, most significant first
	Findings []string `json:"findings" validate:"required,dive,required"`

	// Recommendations are ordered follow-up actions
	Recommendations []string `json:"recommendations" validate:"required,dive,required"`

	// Metadata keeps key/value pairs in insertion order
	Metadata Metadata `json:"metadata" validate:"dive"`
}

// Pair is a single metadata entry
type Pair struct {
	Key   string `validate:"required"`
	Value string
}

// Metadata is an insertion-ordered string map
type Metadata []Pair

// NewMetadata builds metadata from alternating keys and values
func NewMetadata(kv ...string) Metadata {
	md := make(Metadata, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		md.Set(kv[i], kv[i+1])
	}
	return md
}

// Set adds or replaces a value, keeping the original position of existing keys
func (m *Metadata) Set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: value})
}

// Get returns the value stored for key
func (m Metadata) Get(key string) (string, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Keys returns keys in insertion order
func (m Metadata) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON encodes metadata as a JSON object preserving order
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
// Non-string values are kept as their raw JSON text.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata must be a JSON object")
	}

	md := Metadata{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("metadata key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("metadata value for %q: %w", key, err)
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			value = string(raw)
		}
		md.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = md
	return nil
}

// Placeholder returns the fixed research payload shown when a simulated run completes.
// Each call returns a fresh value.
func Placeholder() *Result {
	return &Result{
		ConfidenceScore: 0.92,
		Findings: []string{
			"No significant abnormalities detected",
		},
		Recommendations: []string{
			"Results are experimental and for research purposes only",
			"Refer to a qualified radiologist for any clinical interpretation",
		},
		Metadata: NewMetadata(
			"model_version", ModelVersion,
			"mode", "simulated",
			"disclaimer", Disclaimer,
		),
	}
}
