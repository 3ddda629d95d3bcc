// Package metrics is a small backend-agnostic layer for recording pipeline
// counters and step timings. The global backend defaults to a no-op, so the
// pipeline can always call these helpers; a real backend (see prompush) is
// installed at startup when metrics are wanted.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal surface a metrics system must provide.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep records one execution of a pipeline phase with its latency and
// outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("ventas_step_total", 1, lbls)
	backend.ObserveDuration("ventas_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Kinds mirror the run summary fields:
//   - "leidas"
//   - "validas"
//   - "rechazadas"
//   - "duplicadas"
//   - "cargadas"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ventas_rows_total", float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ventas_batches_total", float64(delta), Labels{"job": job})
}
