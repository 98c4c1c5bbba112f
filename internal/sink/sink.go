// Package sink delivers finished classifications to their destinations.
//
// Every Sink is safe for concurrent use: the harness may emit from many
// trial goroutines at once when output ordering is not requested, and the
// sink's own lock is the only serialisation point on that path.
package sink

import (
	"context"
	"errors"
	"fmt"
)

// Record is the precision-independent view of a successful trial.
type Record struct {
	RunID  string  `json:"run_id"`
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	Sample float64 `json:"sample"`
	Z1     float64 `json:"z1"`
	Z2     float64 `json:"z2"`
}

// Sink receives records.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
	Close() error
}

// Multi delivers each record to its sinks in order and stops at the first
// failure. A sink only sees records that every sink before it accepted.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(ctx context.Context, rec Record) error {
	for i, s := range m {
		if err := s.Emit(ctx, rec); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}

// Close implements Sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Emit(context.Context, Record) error { return nil }
func (Discard) Close() error { return nil }
