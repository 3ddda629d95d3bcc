// Package config defines the JSON-serializable configuration model for the
// sales pipeline. It stays dependency-free so pipeline files can be decoded
// with the standard library and passed through the program without glue code.
//
// Example (trimmed):
//
//	{
//	  "job":      "ventas-diarias",
//	  "source":   { "kind": "file", "file": { "path": "data/ventas.csv" } },
//	  "products": { "dsn": "postgresql://...", "table": "productos" },
//	  "output":   { "dir": "output", "write_rejected": true },
//	  "storage":  { "kind": "postgres", "db": { "dsn": "...", "table": "public.ventas" } },
//	  "runtime":  { "batch_size": 500 }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Source describes where the raw sales file comes from.
	Source Source `json:"source"`

	// Products configures the product catalog lookup.
	Products Products `json:"products"`

	// Output configures the audit CSV files written next to the load.
	Output Output `json:"output"`

	// Storage describes where clean rows are written.
	Storage Storage `json:"storage"`

	Runtime RuntimeConfig `json:"runtime"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`

	// Options is a free-form map interpreted by the reader. For CSV, typical
	// keys: comma (string), no_header (bool), header_map (object).
	Options Options `json:"options"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// Products configures where the product catalog is read from.
type Products struct {
	// DSN is the pgx connection string for the catalog database. When empty,
	// the storage DSN is reused.
	DSN string `json:"dsn"`

	// Table is the catalog table name. Defaults to "productos".
	Table string `json:"table"`
}

// Output configures the audit CSV files.
type Output struct {
	// Dir is the directory the audit files are written to.
	Dir string `json:"dir"`

	// WriteRejected controls whether the rejected partition is written as a
	// CSV alongside the clean one.
	WriteRejected bool `json:"write_rejected"`
}

// Storage selects the sink used to persist clean rows.
type Storage struct {
	// Kind selects the storage implementation, e.g. "postgres" or "sqlite".
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the connection string for the selected backend.
	DSN string `json:"dsn"`

	// Table is the destination table name (possibly qualified, e.g.
	// "public.ventas").
	Table string `json:"table"`

	// Columns enumerates destination columns in load order. Do NOT include
	// auto-generated identity columns. When empty, the pipeline uses the
	// standard clean-output columns.
	Columns []string `json:"columns"`

	// AutoCreateTable makes the pipeline run the backend's DDL bootstrap
	// before loading.
	AutoCreateTable bool `json:"auto_create_table"`
}

// RuntimeConfig controls batching and run mode.
type RuntimeConfig struct {
	// BatchSize is the number of rows per storage batch. Zero loads the
	// whole partition in one batch.
	BatchSize int `json:"batch_size"`

	// MaxRetries is how many times a failed batch is retried.
	MaxRetries int `json:"max_retries"`

	// DryRun skips the storage load; extract, transform and the audit files
	// still run.
	DryRun bool `json:"dry_run"`
}

// Load decodes a pipeline file from disk.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}

// Options fetches typed values from arbitrary JSON maps. It performs only
// minimal type coercion and returns the provided default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so float64 values are cast to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
