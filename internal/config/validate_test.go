package config

import (
	"strings"
	"testing"
)

func validPipeline() Pipeline {
	return Pipeline{
		Job: "ventas-diarias",
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: "data/ventas.csv"},
		},
		Products: Products{DSN: "postgresql://u:p@localhost/ventas", Table: "productos"},
		Output:   Output{Dir: "output", WriteRejected: true},
		Storage: Storage{
			Kind: "postgres",
			DB:   DBConfig{DSN: "postgresql://u:p@localhost/ventas", Table: "public.ventas"},
		},
		Runtime: RuntimeConfig{BatchSize: 500},
	}
}

func findIssue(issues []Issue, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidatePipelineClean(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	if HasErrors(issues) {
		t.Fatalf("valid pipeline produced errors: %v", issues)
	}
}

func TestValidatePipelineMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Pipeline)
		wantPath string
	}{
		{"empty job", func(p *Pipeline) { p.Job = " " }, "job"},
		{"empty source kind", func(p *Pipeline) { p.Source.Kind = "" }, "source.kind"},
		{"file source without path", func(p *Pipeline) { p.Source.File.Path = "" }, "source.file.path"},
		{"empty storage kind", func(p *Pipeline) { p.Storage.Kind = "" }, "storage.kind"},
		{"empty storage dsn", func(p *Pipeline) { p.Storage.DB.DSN = "" }, "storage.db.dsn"},
		{"empty storage table", func(p *Pipeline) { p.Storage.DB.Table = "" }, "storage.db.table"},
		{"negative batch size", func(p *Pipeline) { p.Runtime.BatchSize = -1 }, "runtime.batch_size"},
		{"negative max retries", func(p *Pipeline) { p.Runtime.MaxRetries = -1 }, "runtime.max_retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPipeline()
			tt.mutate(&p)
			issues := ValidatePipeline(p)
			iss := findIssue(issues, tt.wantPath)
			if iss == nil {
				t.Fatalf("no issue at %s, got %v", tt.wantPath, issues)
			}
			if iss.Severity != SeverityError {
				t.Fatalf("issue at %s has severity %s, want error", tt.wantPath, iss.Severity)
			}
		})
	}
}

func TestValidatePipelineDryRunRelaxesStorage(t *testing.T) {
	p := validPipeline()
	p.Runtime.DryRun = true
	p.Storage = Storage{}

	issues := ValidatePipeline(p)
	if HasErrors(issues) {
		t.Fatalf("dry-run without storage should pass, got %v", issues)
	}
}

func TestValidatePipelineUnknownKindsWarn(t *testing.T) {
	p := validPipeline()
	p.Source.Kind = "s3"
	p.Storage.Kind = "bigquery"

	issues := ValidatePipeline(p)
	for _, path := range []string{"source.kind", "storage.kind"} {
		iss := findIssue(issues, path)
		if iss == nil {
			t.Fatalf("no issue at %s", path)
		}
		if iss.Severity != SeverityWarning {
			t.Fatalf("unknown kind at %s should warn, got %s", path, iss.Severity)
		}
		if !strings.Contains(iss.Message, "unknown") {
			t.Fatalf("message %q does not mention unknown kind", iss.Message)
		}
	}
	if HasErrors(issues) {
		t.Fatalf("unknown kinds should not be fatal: %v", issues)
	}
}

func TestValidatePipelineCatalogNeedsSomeDSN(t *testing.T) {
	p := validPipeline()
	p.Products.DSN = ""
	// Storage DSN still set: lookup can reuse it.
	if issues := ValidatePipeline(p); findIssue(issues, "products.dsn") != nil {
		t.Fatalf("storage DSN should cover the catalog: %v", issues)
	}

	p.Storage.DB.DSN = ""
	issues := ValidatePipeline(p)
	iss := findIssue(issues, "products.dsn")
	if iss == nil || iss.Severity != SeverityError {
		t.Fatalf("no usable DSN should be an error, got %v", issues)
	}
}

func TestIssueError(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "must not be empty"}
	want := "error at storage.kind: must not be empty"
	if iss.Error() != want {
		t.Fatalf("Error() = %q, want %q", iss.Error(), want)
	}
}
