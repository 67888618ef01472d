// Package pipeline applies the record validator across ordered sequences of
// raw provider records. It is the seam between the transport layer and the
// pure validation core: order in equals order out, failures and diagnostics
// keep the index of the record they came from.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"finbro/pkg/core/validate"
	"finbro/pkg/models"
)

// Diagnostic ties a lenient-mode field violation back to the raw record it
// came from.
type Diagnostic struct {
	Index  int                 `json:"index"`
	Ticker string              `json:"ticker,omitempty"`
	Err    validate.FieldError `json:"error"`
}

// RecordFailure ties a fatally rejected record back to its input position.
type RecordFailure struct {
	Index int                   `json:"index"`
	Err   *validate.RecordError `json:"error"`
}

// Result is the outcome of one batch run. Records holds the validated
// metrics in input order with rejected records omitted; Failures and
// Diagnostics carry original indices so callers can correlate without
// re-inspecting raw data.
type Result struct {
	RunID       string                   `json:"run_id"`
	Total       int                      `json:"total"`
	Records     []models.FinancialMetric `json:"records"`
	Failures    []RecordFailure          `json:"failures,omitempty"`
	Diagnostics []Diagnostic             `json:"diagnostics,omitempty"`
}

// Err aggregates the run's fatal failures into a single error, nil when
// every record validated. Callers choose whether that aborts the whole
// result or is reported alongside the validated records.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &BatchError{RunID: r.RunID, Total: r.Total, Failures: r.Failures}
}

// BatchError reports the fatal failures of one run.
type BatchError struct {
	RunID    string
	Total    int
	Failures []RecordFailure
}

func (e *BatchError) Error() string {
	first := e.Failures[0]
	return fmt.Sprintf("validation run %s: %d of %d records rejected (first: index %d: %v)",
		e.RunID, len(e.Failures), e.Total, first.Index, first.Err)
}

// Unwrap exposes the individual record errors to errors.Is/errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Outcome is one record's result in the streaming variant.
type Outcome struct {
	Index       int
	Metric      *models.FinancialMetric
	Diagnostics []validate.FieldError
	Err         error
}

// Runner validates batches with a fixed policy. Safe for concurrent use,
// SetParallelism included.
type Runner struct {
	builder     *validate.Builder
	parallelism atomic.Int32
}

// NewRunner constructs a Runner for the given validation policy.
// Runs are sequential until SetParallelism raises the worker bound.
func NewRunner(cfg validate.Config) *Runner {
	r := &Runner{builder: validate.NewBuilder(cfg)}
	r.parallelism.Store(1)
	return r
}

// SetParallelism bounds the number of concurrent validation workers.
// Values below 2 keep runs sequential. A batch already in flight keeps the
// bound it started with.
func (r *Runner) SetParallelism(n int) {
	if n < 1 {
		n = 1
	}
	r.parallelism.Store(int32(n))
}

// ValidateAll validates raws in order. Each record is independent, so the
// work may fan out across workers; every outcome is written back to its
// input slot, which restores input order before the result is assembled.
// The error is non-nil only when ctx is canceled mid-run.
func (r *Runner) ValidateAll(ctx context.Context, raws []models.Raw) (*Result, error) {
	type outcome struct {
		metric *models.FinancialMetric
		diags  []validate.FieldError
		err    error
	}
	outcomes := make([]outcome, len(raws))

	if parallelism := int(r.parallelism.Load()); parallelism > 1 && len(raws) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for i, raw := range raws {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m, diags, err := r.builder.Build(raw)
				outcomes[i] = outcome{metric: m, diags: diags, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("batch validation interrupted: %w", err)
		}
	} else {
		for i, raw := range raws {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("batch validation interrupted: %w", err)
			}
			m, diags, err := r.builder.Build(raw)
			outcomes[i] = outcome{metric: m, diags: diags, err: err}
		}
	}

	res := &Result{RunID: uuid.NewString(), Total: len(raws)}
	for i, o := range outcomes {
		if o.err != nil {
			recErr, ok := o.err.(*validate.RecordError)
			if !ok {
				recErr = &validate.RecordError{Cause: validate.FieldError{
					Kind: validate.TypeMismatch, Constraint: o.err.Error(),
				}}
			}
			res.Failures = append(res.Failures, RecordFailure{Index: i, Err: recErr})
			continue
		}
		for _, d := range o.diags {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Index: i, Ticker: o.metric.Ticker, Err: d,
			})
		}
		res.Records = append(res.Records, *o.metric)
	}
	return res, nil
}

// Stream is the incremental variant: records read from in are validated
// one at a time and their outcomes emitted in input order. The channel
// closes when in closes or ctx is canceled.
func (r *Runner) Stream(ctx context.Context, in <-chan models.Raw) <-chan Outcome {
	out := make(chan Outcome)
	go func() {
		defer close(out)
		idx := 0
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				m, diags, err := r.builder.Build(raw)
				select {
				case out <- Outcome{Index: idx, Metric: m, Diagnostics: diags, Err: err}:
				case <-ctx.Done():
					return
				}
				idx++
			}
		}
	}()
	return out
}
