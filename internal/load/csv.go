package load

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ventas/internal/transform"
	"ventas/pkg/records"
)

// WriteCSV writes recs to path with a header row, one column per entry of
// columns, creating parent directories as needed.
func WriteCSV(path string, columns []string, recs []records.Record) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range recs {
		for i, col := range columns {
			row[i] = records.AsString(rec[col])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// WriteRejectedCSV writes the rejected partition to path with the original
// columns plus a trailing "motivos" column listing the rejection reasons
// separated by ";".
func WriteRejectedCSV(path string, columns []string, rejected []transform.RejectedRow) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, columns...), "motivos")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(header))
	for _, rej := range rejected {
		for i, col := range columns {
			row[i] = records.AsString(rej.Raw[col])
		}
		reasons := make([]string, len(rej.Reasons))
		for i, r := range rej.Reasons {
			reasons[i] = string(r)
		}
		row[len(columns)] = strings.Join(reasons, ";")
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
