package importing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Source yields the raw records of one batch: a decoded file payload or a
// connector fetch. Scope-level failures ride alongside the records instead of
// aborting the fetch.
type Source interface {
	Kind() SourceKind
	Records(ctx context.Context) (RecordIter, []ScopeFailure, error)
}

// FileSource decodes an uploaded payload, inferring the format from the file name.
type FileSource struct {
	Filename string
	Data     []byte
}

func (s FileSource) Kind() SourceKind { return SourceFile }

func (s FileSource) Records(_ context.Context) (RecordIter, []ScopeFailure, error) {
	format, err := DetectFormat(s.Filename)
	if err != nil {
		return nil, nil, err
	}
	iter, err := Decode(s.Data, format)
	if err != nil {
		return nil, nil, err
	}
	return iter, nil, nil
}

type BatchState int32

const (
	StateIdle BatchState = iota
	StateFetching
	StateProcessing
	StateCompleted
	StateFailed
)

// ProgressFunc receives (records processed so far, total) as the batch runs.
type ProgressFunc func(done, total int)

const DefaultWorkers = 8

// Batch drives raw records through a Processor with a bounded worker pool.
// The pool size is fixed regardless of batch size; the store's own uniqueness
// enforcement is the only cross-record synchronization.
type Batch struct {
	proc     Processor
	workers  int
	progress ProgressFunc
	state    atomic.Int32
}

type BatchOption func(*Batch)

func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithProgress(fn ProgressFunc) BatchOption {
	return func(b *Batch) { b.progress = fn }
}

func NewBatch(proc Processor, opts ...BatchOption) *Batch {
	b := &Batch{proc: proc, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Batch) State() BatchState { return BatchState(b.state.Load()) }

// Run executes one batch invocation and always returns a report. Failures
// before the first record (unsupported format, connector auth) or a systemic
// store failure return the report alongside a non-nil error; record-level
// failures only ever land in the report. Cancelling ctx stops dispatching new
// records, lets in-flight writes finish, and marks the report cancelled.
func (b *Batch) Run(ctx context.Context, src Source, actor string) (*Report, error) {
	report := &Report{
		ID:        uuid.NewString(),
		Kind:      b.proc.Kind(),
		Source:    src.Kind(),
		Actor:     actor,
		Errors:    []RowError{},
		StartedAt: time.Now().UTC(),
	}

	b.state.Store(int32(StateFetching))
	iter, scopeFails, err := src.Records(ctx)
	if err != nil {
		return b.fail(report, err)
	}
	recs, err := Collect(iter)
	if err != nil {
		return b.fail(report, err)
	}
	report.ScopeFailures = scopeFails
	report.Total = len(recs)

	b.state.Store(int32(StateProcessing))
	outcomes := make([]Outcome, len(recs))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range recs {
		if gctx.Err() != nil {
			break // stop dispatching; in-flight records finish below
		}
		i := i
		g.Go(func() error {
			out, err := b.proc.Process(gctx, recs[i], src.Kind(), actor)
			if err != nil {
				return err
			}
			mu.Lock()
			outcomes[i] = out
			done++
			d := done
			mu.Unlock()
			if b.progress != nil {
				b.progress(d, len(recs))
			}
			return nil
		})
	}
	sysErr := g.Wait()

	for _, out := range outcomes {
		report.add(out)
	}
	report.FinishedAt = time.Now().UTC()

	if ctx.Err() != nil && (sysErr == nil || pkgerrors.Is(sysErr, context.Canceled) || pkgerrors.Is(sysErr, context.DeadlineExceeded)) {
		report.Cancelled = true
		report.Status = StatusCompleted
		b.state.Store(int32(StateCompleted))
		return report, nil
	}
	if sysErr != nil {
		report.Status = StatusFailed
		b.state.Store(int32(StateFailed))
		return report, pkgerrors.Wrap(sysErr, "import batch aborted")
	}

	report.Status = StatusCompleted
	b.state.Store(int32(StateCompleted))
	return report, nil
}

func (b *Batch) fail(report *Report, err error) (*Report, error) {
	report.Status = StatusFailed
	report.FinishedAt = time.Now().UTC()
	b.state.Store(int32(StateFailed))
	return report, err
}
