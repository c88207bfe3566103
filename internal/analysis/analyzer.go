package analysis

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Analyzer turns a selected file into a Result
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*Result, error)
}

// Simulated returns the placeholder payload without looking at the file
type Simulated struct{}

// NewSimulated creates a simulated analyzer
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Analyze returns Placeholder unless the context is already done
func (s *Simulated) Analyze(ctx context.Context, _ string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Placeholder(), nil
}

// Validate checks a result received from outside the process
func Validate(r *Result) error {
	if r == nil {
		return fmt.Errorf("result is nil")
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid analysis result: %w", err)
	}
	return nil
}
