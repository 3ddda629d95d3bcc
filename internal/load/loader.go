// Package load writes transformed batches into a storage.Repository and
// emits the audit CSV files. Batches are loaded independently so one bad
// batch does not abort the run; a circuit breaker stops hammering a backend
// that is clearly down.
package load

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ventas/internal/storage"
	"ventas/pkg/records"
)

// Options tunes batching and retry behaviour.
type Options struct {
	// BatchSize is the number of rows per CopyFrom call. Zero means load
	// everything in a single batch.
	BatchSize int

	// MaxRetries is how many times a failed batch is retried before it is
	// counted as failed. Zero disables retries.
	MaxRetries int

	// RetryBase is the base backoff between retries, doubled per attempt
	// with jitter. Defaults to 250ms when zero.
	RetryBase time.Duration
}

// Result summarizes a load run.
type Result struct {
	OK         bool
	RowsLoaded int64
	RowsFailed int
	Batches    int
	Err        string
}

// Loader drives batched writes through a Repository.
type Loader struct {
	repo    storage.Repository
	log     *zap.Logger
	opt     Options
	breaker *gobreaker.CircuitBreaker
}

// New builds a Loader around repo. A nil logger is replaced with zap.NewNop.
func New(repo storage.Repository, log *zap.Logger, opt Options) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.RetryBase <= 0 {
		opt.RetryBase = 250 * time.Millisecond
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "storage-load",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Loader{repo: repo, log: log, opt: opt, breaker: cb}
}

// Load writes batch into the repository in chunks of Options.BatchSize,
// building each row from the record in columns order. Failed batches are
// retried with backoff, then skipped; the run keeps going so a transient
// failure loses one batch, not the file.
func (l *Loader) Load(ctx context.Context, columns []string, batch []records.Record) Result {
	if len(batch) == 0 {
		return Result{OK: true}
	}
	if len(columns) == 0 {
		return Result{Err: "no destination columns configured"}
	}

	size := l.opt.BatchSize
	if size <= 0 {
		size = len(batch)
	}

	var res Result
	for start := 0; start < len(batch); start += size {
		end := start + size
		if end > len(batch) {
			end = len(batch)
		}
		chunk := batch[start:end]
		res.Batches++

		rows := make([][]any, len(chunk))
		for i, rec := range chunk {
			row := make([]any, len(columns))
			for j, col := range columns {
				row[j] = rec[col]
			}
			rows[i] = row
		}

		n, err := l.loadBatch(ctx, columns, rows)
		res.RowsLoaded += n
		if err != nil {
			res.RowsFailed += len(chunk)
			l.log.Error("batch load failed",
				zap.Int("batch", res.Batches),
				zap.Int("rows", len(chunk)),
				zap.Error(err))
			if res.Err == "" {
				res.Err = err.Error()
			}
			if ctx.Err() != nil {
				break
			}
		}
	}

	res.OK = res.RowsFailed == 0 && ctx.Err() == nil
	return res
}

func (l *Loader) loadBatch(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	var lastErr error
	for attempt := 0; attempt <= l.opt.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, l.opt.RetryBase, attempt); err != nil {
				return 0, err
			}
		}
		out, err := l.breaker.Execute(func() (any, error) {
			return l.repo.CopyFrom(ctx, columns, rows)
		})
		if err == nil {
			return out.(int64), nil
		}
		lastErr = err
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			// No point retrying while the breaker is open.
			break
		}
	}
	return 0, fmt.Errorf("load batch: %w", lastErr)
}

// sleepBackoff waits base*2^(attempt-1) plus up to 50% jitter, or returns
// early when ctx is done.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	d := base << (attempt - 1)
	d += time.Duration(rand.Int63n(int64(d)/2 + 1))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
