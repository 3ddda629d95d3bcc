package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ventas/internal/config"
	"ventas/internal/metrics"
	"ventas/internal/metrics/prompush"
	"ventas/internal/pipeline"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "ventas/internal/storage/all"
)

// main is the entry point for the sales ETL binary. It loads the pipeline
// config, optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		dryRun            bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/ventas.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&dryRun, "dry-run", false, "run extract and transform but skip the storage load")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	log, err := buildLogger(*verbose)
	if err != nil {
		fatalf("logger: %v", err)
	}
	defer log.Sync()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if dryRun {
		p.Runtime.DryRun = true
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		fmt.Printf("configuration is valid: %v\n", cfgPath)
		return
	}

	setupMetrics(log, p.Job, metricsBackendFlg, pushGatewayURLFlg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := pipeline.Run(ctx, p, log)
	if err != nil {
		log.Error("pipeline failed", zap.Error(err))
		metrics.Flush()
		os.Exit(1)
	}

	log.Info("run summary",
		zap.String("run_id", sum.RunID),
		zap.Int("rows_read", sum.RowsRead),
		zap.Int("rows_accepted", sum.RowsAccepted),
		zap.Int("rows_rejected", sum.RowsRejected),
		zap.Int64("rows_loaded", sum.RowsLoaded),
		zap.Any("stats", sum.Stats),
		zap.String("clean_file", sum.CleanFile),
		zap.String("rejected_file", sum.RejectedFile),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// setupMetrics decides the metrics backend: flag, then env, then disabled.
func setupMetrics(log *zap.Logger, job, backendFlg, gatewayFlg string) {
	backendName := backendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	switch backendName {
	case "pushgateway":
		gwURL := gatewayFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		if job == "" {
			job = "ventas"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Warn("metrics backend init failed, using nop", zap.Error(err))
			return
		}
		log.Info("metrics enabled", zap.String("backend", backendName), zap.String("url", gwURL), zap.String("job", job))
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Warn("unknown metrics backend, metrics disabled", zap.String("backend", backendName))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
