// Package pipeline wires the stages together: open the source, parse it,
// resolve the product catalog, transform, write the audit files, and load
// the clean partition into storage. Each stage reports its latency and
// outcome through the metrics package.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ventas/internal/catalog"
	"ventas/internal/config"
	"ventas/internal/datasource"
	"ventas/internal/datasource/file"
	"ventas/internal/extract"
	"ventas/internal/load"
	"ventas/internal/metrics"
	"ventas/internal/storage"
	"ventas/internal/transform"
	"ventas/pkg/records"
)

const (
	cleanFileName    = "ventas_limpias.csv"
	rejectedFileName = "ventas_rechazadas.csv"
)

// Summary is the run outcome returned to the caller and logged at the end.
type Summary struct {
	RunID        string
	Job          string
	RowsRead     int
	RowsAccepted int
	RowsRejected int
	RowsLoaded   int64
	Stats        map[string]int
	CleanFile    string
	RejectedFile string
	DryRun       bool
}

// Test seams. Production wiring connects to Postgres for the catalog and the
// registered storage backend for the load.
var (
	productMapFn = func(ctx context.Context, dsn, table string, log *zap.Logger) (map[string]int, error) {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect catalog db: %w", err)
		}
		defer pool.Close()
		return catalog.ProductMap(ctx, catalog.NewPgx(pool), table, log)
	}
	newRepositoryFn = storage.New
)

// Run executes the full pipeline described by p.
func Run(ctx context.Context, p config.Pipeline, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sum := Summary{
		RunID:  uuid.NewString(),
		Job:    p.Job,
		DryRun: p.Runtime.DryRun,
	}
	log = log.With(zap.String("run_id", sum.RunID), zap.String("job", p.Job))
	log.Info("pipeline start", zap.String("source", p.Source.File.Path), zap.Bool("dry_run", sum.DryRun))

	// Extract.
	start := time.Now()
	parsed, err := runExtract(ctx, p.Source)
	metrics.RecordStep(p.Job, "extract", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.RowsRead = len(parsed.Records)
	metrics.RecordRows(p.Job, "leidas", int64(sum.RowsRead))
	log.Info("extract done",
		zap.Int("rows", parsed.Rows),
		zap.Int("skipped", parsed.Skipped),
		zap.Strings("headers", parsed.Headers))

	// Catalog.
	start = time.Now()
	dsn := firstNonEmpty(p.Products.DSN, p.Storage.DB.DSN, os.Getenv("DATABASE_URL"))
	products, err := productMapFn(ctx, dsn, p.Products.Table, log)
	metrics.RecordStep(p.Job, "catalog", err, time.Since(start))
	if err != nil {
		return sum, err
	}

	// Transform.
	start = time.Now()
	tr := transform.Transformer{Log: log}.Transform(parsed.Records, products)
	var trErr error
	if !tr.OK {
		trErr = errors.New(tr.Err)
	}
	metrics.RecordStep(p.Job, "transform", trErr, time.Since(start))
	if trErr != nil {
		return sum, fmt.Errorf("transform: %w", trErr)
	}
	sum.RowsAccepted = tr.RowsOutput
	sum.RowsRejected = tr.RowsRejected
	sum.Stats = tr.Stats
	metrics.RecordRows(p.Job, "validas", int64(tr.RowsOutput))
	metrics.RecordRows(p.Job, "rechazadas", int64(tr.RowsRejected))
	metrics.RecordRows(p.Job, "duplicadas", int64(tr.Stats[transform.StatDuplicatesRemoved]))
	log.Info("transform done",
		zap.Int("accepted", tr.RowsOutput),
		zap.Int("rejected", tr.RowsRejected),
		zap.Any("stats", tr.Stats))

	// Audit files, written concurrently. The rejected file keeps the original
	// input columns so rejected rows can be inspected and replayed.
	start = time.Now()
	auditErr := writeAuditFiles(p.Output, parsed.Headers, tr, &sum)
	metrics.RecordStep(p.Job, "audit", auditErr, time.Since(start))
	if auditErr != nil {
		return sum, auditErr
	}

	// Load.
	if sum.DryRun {
		log.Info("dry run, skipping load")
		return sum, nil
	}
	start = time.Now()
	loaded, batches, loadErr := runLoad(ctx, p, log, tr.Accepted)
	metrics.RecordStep(p.Job, "load", loadErr, time.Since(start))
	sum.RowsLoaded = loaded
	metrics.RecordRows(p.Job, "cargadas", loaded)
	metrics.RecordBatches(p.Job, int64(batches))
	if loadErr != nil {
		return sum, loadErr
	}

	log.Info("pipeline done",
		zap.Int("rows_read", sum.RowsRead),
		zap.Int("rows_accepted", sum.RowsAccepted),
		zap.Int("rows_rejected", sum.RowsRejected),
		zap.Int64("rows_loaded", sum.RowsLoaded))
	return sum, nil
}

func runExtract(ctx context.Context, src config.Source) (extract.Result, error) {
	if src.Kind != "file" {
		return extract.Result{}, fmt.Errorf("unsupported source.kind=%s", src.Kind)
	}

	var source datasource.Source = file.NewLocal(src.File.Path)
	rc, err := source.Open(ctx)
	if err != nil {
		return extract.Result{}, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	opt := extract.Options{
		Comma:     src.Options.Rune("comma", ','),
		NoHeader:  src.Options.Bool("no_header", false),
		HeaderMap: src.Options.StringMap("header_map"),
	}
	res := extract.FromReader(rc, src.File.Path, opt)
	if !res.OK {
		return res, fmt.Errorf("parse %s: %s", src.File.Path, res.Err)
	}
	return res, nil
}

func writeAuditFiles(out config.Output, headers []string, tr transform.Result, sum *Summary) error {
	sum.CleanFile = filepath.Join(out.Dir, cleanFileName)

	var g errgroup.Group
	g.Go(func() error {
		return load.WriteCSV(sum.CleanFile, transform.OutputColumns, tr.Accepted)
	})
	if out.WriteRejected {
		sum.RejectedFile = filepath.Join(out.Dir, rejectedFileName)
		g.Go(func() error {
			return load.WriteRejectedCSV(sum.RejectedFile, headers, tr.Rejected)
		})
	}
	return g.Wait()
}

func runLoad(ctx context.Context, p config.Pipeline, log *zap.Logger, accepted []records.Record) (int64, int, error) {
	cfg := storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     firstNonEmpty(p.Storage.DB.DSN, os.Getenv("DATABASE_URL")),
		Table:   p.Storage.DB.Table,
		Columns: p.Storage.DB.Columns,
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = transform.OutputColumns
	}

	repo, err := newRepositoryFn(ctx, cfg)
	if err != nil {
		return 0, 0, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateTable {
		if err := storage.EnsureSalesTable(ctx, cfg, repo); err != nil {
			return 0, 0, fmt.Errorf("bootstrap table: %w", err)
		}
	}

	loader := load.New(repo, log, load.Options{
		BatchSize:  p.Runtime.BatchSize,
		MaxRetries: p.Runtime.MaxRetries,
	})
	res := loader.Load(ctx, cfg.Columns, accepted)
	if !res.OK {
		return res.RowsLoaded, res.Batches, fmt.Errorf("load: %s", res.Err)
	}
	return res.RowsLoaded, res.Batches, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
