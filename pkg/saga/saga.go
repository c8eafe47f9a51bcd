// Package saga runs a fixed set of named steps and reports each step's
// outcome. There is no compensation: a failed step is reported, never
// rolled back or retried.
package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const DefaultMaxConcurrent = 40

type Step struct {
	Name    string
	Execute func(ctx context.Context) (string, error)
}

func NewStep(name string, execute func(ctx context.Context) (string, error)) Step {
	return Step{Name: name, Execute: execute}
}

// StepResult holds what a step returned. Ref is the step's reference for
// the work it did (e.g. a provider message ID).
type StepResult struct {
	Name    string
	Ref     string
	Err     error
	Skipped bool
}

type Outcome struct {
	Results []StepResult
}

func (o Outcome) Failed() bool {
	for _, r := range o.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// FirstError is the error of the first failed step in declaration order.
func (o Outcome) FirstError() error {
	for _, r := range o.Results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func (o Outcome) Result(name string) (StepResult, bool) {
	for _, r := range o.Results {
		if r.Name == name {
			return r, true
		}
	}
	return StepResult{}, false
}

// Err joins every step failure into one error, or nil.
func (o Outcome) Err() error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s step failed: %w", r.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Runner executes steps. Concurrent steps share a bounded pool of slots
// across every Run call on the same Runner.
type Runner struct {
	slots chan struct{}
}

func NewRunner(maxConcurrent int) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Runner{slots: make(chan struct{}, maxConcurrent)}
}

// Run starts every step concurrently and waits for all of them. Each step
// is attempted regardless of how the others fare.
func (r *Runner) Run(ctx context.Context, steps ...Step) Outcome {
	results := make([]StepResult, len(steps))

	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		go func(i int, step Step) {
			defer wg.Done()
			results[i] = r.execute(ctx, step)
		}(i, step)
	}
	wg.Wait()

	return Outcome{Results: results}
}

// RunInOrder executes steps one after another and stops at the first
// failure. Steps after the failure are marked Skipped.
func (r *Runner) RunInOrder(ctx context.Context, steps ...Step) Outcome {
	results := make([]StepResult, len(steps))

	failed := false
	for i, step := range steps {
		if failed {
			results[i] = StepResult{Name: step.Name, Skipped: true}
			continue
		}
		results[i] = r.execute(ctx, step)
		failed = results[i].Err != nil
	}

	return Outcome{Results: results}
}

func (r *Runner) execute(ctx context.Context, step Step) (result StepResult) {
	result.Name = step.Name

	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		result.Err = ctx.Err()
		return result
	}
	defer func() { <-r.slots }()

	defer func() {
		if p := recover(); p != nil {
			result.Err = fmt.Errorf("step %s panicked: %v", step.Name, p)
		}
	}()

	result.Ref, result.Err = step.Execute(ctx)
	return result
}
