package postgres

import (
	"context"
	"strings"
	"testing"

	"ventas/internal/storage"
)

func TestFactoryRegistered(t *testing.T) {
	for _, k := range storage.ListKinds() {
		if k == "postgres" {
			return
		}
	}
	t.Fatal(`"postgres" kind not registered`)
}

func TestFactoryPassesConfigThrough(t *testing.T) {
	var got Config
	prev := newRepository
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{cfg: cfg}, func() {}, nil
	}
	t.Cleanup(func() { newRepository = prev })

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:  "postgres",
		DSN:   "postgresql://u:p@localhost/ventas",
		Table: "public.ventas",
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	defer repo.Close()

	if got.DSN != "postgresql://u:p@localhost/ventas" || got.Table != "public.ventas" {
		t.Fatalf("factory config = %+v", got)
	}
}

func TestNewRepositoryEmptyDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{Table: "ventas"}); err == nil {
		t.Fatal("empty DSN should fail")
	}
}

func TestPgTableIdent(t *testing.T) {
	tests := []struct {
		table string
		want  []string
	}{
		{"ventas", []string{"ventas"}},
		{"public.ventas", []string{"public", "ventas"}},
	}
	for _, tt := range tests {
		got := pgTableIdent(tt.table)
		if len(got) != len(tt.want) {
			t.Fatalf("pgTableIdent(%q) = %v", tt.table, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("pgTableIdent(%q)[%d] = %q, want %q", tt.table, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL("public.ventas")
	if !strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS public.ventas") {
		t.Fatalf("DDL prefix wrong: %q", sql)
	}
	for _, col := range []string{"fecha DATE NOT NULL", "producto_id INTEGER NOT NULL",
		"cantidad DOUBLE PRECISION", "precio_unitario DOUBLE PRECISION",
		"total DOUBLE PRECISION", "tienda TEXT", "vendedor TEXT"} {
		if !strings.Contains(sql, col) {
			t.Errorf("DDL missing column %q", col)
		}
	}
}
