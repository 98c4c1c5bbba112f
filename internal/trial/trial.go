// Package trial runs the generate → score → classify pipeline for a single
// observation. Stages execute sequentially in the calling goroutine and share
// no state with other trials.
package trial

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/distsplit/internal/classifier"
	"github.com/vk/distsplit/internal/dist"
	"github.com/vk/distsplit/internal/sampler"
	"github.com/vk/distsplit/internal/scorer"
)

// Stage names the pipeline step a trial failed in.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageScore    Stage = "score"
	StageClassify Stage = "classify"
	// StageEmit is used by callers that fail to deliver a finished result.
	StageEmit Stage = "emit"
)

// Error is the tagged failure of one trial.
type Error struct {
	Index int
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("trial %d failed at %s: %v", e.Index, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Pipeline holds the fixed parameters every trial of a run shares.
type Pipeline[T dist.Float] struct {
	Range  dist.Range[T]
	First  dist.Params[T]
	Second dist.Params[T]
	// Count is the number of trials in the run. It is handed to the
	// generator for bookkeeping only.
	Count int
}

// Validate checks every parameter the pipeline will consume, so a bad
// configuration is rejected before any trial is spawned.
func (p Pipeline[T]) Validate() error {
	if err := p.Range.Validate(); err != nil {
		return fmt.Errorf("sample range: %w", err)
	}
	if err := p.First.Validate(); err != nil {
		return fmt.Errorf("distribution 1: %w", err)
	}
	if err := p.Second.Validate(); err != nil {
		return fmt.Errorf("distribution 2: %w", err)
	}
	if p.Count < 0 {
		return fmt.Errorf("%w: trial count must not be negative, got %d", dist.ErrInvalidParameter, p.Count)
	}
	return nil
}

// Result is the outcome of one trial. Label is only meaningful when Err is nil.
type Result[T dist.Float] struct {
	Index    int
	Sample   T
	Scores   dist.ZScores[T]
	Label    dist.Label
	Err      error
	Duration time.Duration
}

// OK reports whether the trial produced a label.
func (r Result[T]) OK() bool { return r.Err == nil }

// Run executes one trial with gen as its sample source.
func (p Pipeline[T]) Run(ctx context.Context, gen sampler.Generator[T], index int) Result[T] {
	start := time.Now()
	res := Result[T]{Index: index}
	fail := func(stage Stage, err error) Result[T] {
		res.Err = &Error{Index: index, Stage: stage, Err: err}
		res.Duration = time.Since(start)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(StageGenerate, err)
	}
	sample, err := gen.Generate(p.Range.Low, p.Range.High, p.Count)
	if err != nil {
		return fail(StageGenerate, err)
	}
	res.Sample = sample

	if err := ctx.Err(); err != nil {
		return fail(StageScore, err)
	}
	scores, err := scorer.ScorePair(sample, p.First, p.Second)
	if err != nil {
		return fail(StageScore, err)
	}
	res.Scores = scores

	if err := ctx.Err(); err != nil {
		return fail(StageClassify, err)
	}
	label, err := classifier.Classify(scores)
	if err != nil {
		return fail(StageClassify, err)
	}
	res.Label = label
	res.Duration = time.Since(start)
	return res
}
