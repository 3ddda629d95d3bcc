package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ventas/internal/analysis"
)

// main generates the Markdown sales report from rows already loaded by the
// ETL binary.
func main() {
	var (
		dsn    string
		table  string
		outDir string
		stdout bool
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (defaults to DATABASE_URL)")
	flag.StringVar(&table, "table", "ventas", "sales table to analyze")
	flag.StringVar(&outDir, "out", "reports", "directory the report is written to")
	flag.BoolVar(&stdout, "stdout", false, "write the report to stdout instead of a file")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fatalf("logger: %v", err)
	}
	defer log.Sync()

	if dsn == "" {
		fatalf("no DSN: set -dsn or DATABASE_URL")
	}

	ctx := context.Background()
	sales, err := fetchSales(ctx, dsn, table)
	if err != nil {
		fatalf("%v", err)
	}
	if len(sales) == 0 {
		fatalf("table %s has no rows to analyze", table)
	}
	log.Info("sales fetched", zap.Int("rows", len(sales)), zap.String("table", table))

	if stdout {
		if err := analysis.WriteReport(os.Stdout, sales, time.Now()); err != nil {
			fatalf("write report: %v", err)
		}
		return
	}

	path, err := analysis.Generate(outDir, sales, time.Now())
	if err != nil {
		fatalf("%v", err)
	}
	log.Info("report written", zap.String("path", path))
}

// fetchSales reads the sales table joined with the product catalog. Stores,
// sellers and categories can be NULL; they are coalesced to empty strings.
func fetchSales(ctx context.Context, dsn, table string) ([]analysis.Sale, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	query := fmt.Sprintf(`
		SELECT v.fecha, v.producto_id, p.nombre,
		       COALESCE(c.nombre, ''), v.cantidad, v.precio_unitario, v.total,
		       COALESCE(v.tienda, ''), COALESCE(v.vendedor, '')
		FROM %s v
		JOIN productos p ON p.id = v.producto_id
		LEFT JOIN categorias c ON c.id = p.categoria_id
		ORDER BY v.fecha`, table)

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []analysis.Sale
	for rows.Next() {
		var s analysis.Sale
		if err := rows.Scan(&s.Fecha, &s.ProductoID, &s.Producto, &s.Categoria,
			&s.Cantidad, &s.PrecioUnitario, &s.Total, &s.Tienda, &s.Vendedor); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ventas: %w", err)
	}
	return out, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
