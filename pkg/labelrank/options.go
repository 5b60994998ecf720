package labelrank

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-labelrank/pkg/metrics"
	"github.com/dd0wney/cluso-labelrank/pkg/validation"
)

// ErrInvalidOptions is returned by Run when the options fail
// validation. Invalid options are programming errors; they are rejected
// at call entry before any work happens.
var ErrInvalidOptions = errors.New("invalid labelrank options")

// Options configures the LabelRank engine.
type Options struct {
	// MaxIterations is the hard cap on the main loop.
	MaxIterations int `validate:"min=1"`

	// Inflation is the exponent applied to every label probability
	// after combining. Values above 1 sharpen the distribution.
	Inflation float64 `validate:"gt=0"`

	// Cutoff is the relative threshold: entries below Cutoff times the
	// maximum probability of their labelset are removed.
	Cutoff float64 `validate:"gte=0,lte=1"`

	// ConditionalUpdate is the stability threshold q: a vertex skips
	// its update when more than q times its degree neighbors already
	// contain all of its labels.
	ConditionalUpdate float64 `validate:"gte=0,lte=1"`

	// Repeat reruns the whole computation for timing. The reported
	// duration is the mean over runs; the result is unaffected.
	Repeat int `validate:"min=1"`

	// Workers sets the sweep parallelism. 1 runs the sequential sweep.
	Workers int `validate:"min=1"`

	// DisableStallCheck turns off the oscillation guard that stops the
	// loop when the updated-vertex count repeats. The guard can end a
	// run before convergence when the count merely plateaus; disabling
	// it trades that risk for possibly hitting MaxIterations.
	DisableStallCheck bool

	// Metrics receives per-sweep and per-run instrumentation when
	// non-nil. The engine never requires it.
	Metrics *metrics.Registry `validate:"-"`
}

// DefaultOptions returns the standard LabelRank configuration.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     500,
		Inflation:         1.2,
		Cutoff:            0.3,
		ConditionalUpdate: 0.3,
		Repeat:            1,
		Workers:           1,
	}
}

// Validate checks the options against their constraints.
func (o Options) Validate() error {
	if err := validation.ValidateStruct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}
