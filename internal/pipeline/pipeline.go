package pipeline

import (
	"fmt"
	"reflect"
	"time"

	"github.com/banshee-data/fourier/internal/rff"
)

// Pipeline applies its stages in order. Stages are initialized lazily on
// the first Run and cleaned up by Close.
type Pipeline struct {
	stages      []rff.FeatureProcessor
	initialized bool
	closed      bool
}

// isNilInterface checks if an interface value is nil or contains a nil pointer.
func isNilInterface(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// New returns a pipeline over the given stages. Nil stages are rejected.
func New(stages ...rff.FeatureProcessor) (*Pipeline, error) {
	for i, s := range stages {
		if isNilInterface(s) {
			return nil, fmt.Errorf("stage %d is nil", i)
		}
	}
	return &Pipeline{stages: append([]rff.FeatureProcessor(nil), stages...)}, nil
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Run passes f through every stage. On the first run each stage's Init is
// called with the features as they arrive at that stage, so a stage sees the
// output dimensionality of its predecessor.
func (p *Pipeline) Run(f rff.Features) error {
	if p.closed {
		return fmt.Errorf("pipeline is closed")
	}
	start := time.Now()
	for i, s := range p.stages {
		if !p.initialized {
			changed, err := s.Init(f)
			if err != nil {
				opsf("stage %d (%T) init failed: %v", i, s, err)
				return fmt.Errorf("stage %d init: %w", i, err)
			}
			diagf("stage %d (%T) initialized, state changed=%t", i, s, changed)
		}
		if err := s.ApplyToFeatures(f); err != nil {
			opsf("stage %d (%T) failed: %v", i, s, err)
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	p.initialized = true
	tracef("run: %d stages, %d vectors, dim=%d, took %v", len(p.stages), f.NumVectors(), f.Dim(), time.Since(start))
	return nil
}

// Close calls Cleanup on every stage. It is safe to call more than once and
// without a prior Run.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	for _, s := range p.stages {
		s.Cleanup()
	}
	p.closed = true
	diagf("closed %d stages", len(p.stages))
}
