// Package analysis computes business aggregates over clean sales rows and
// renders them as a Markdown report. It operates on rows already loaded and
// joined with the product catalog; nothing here touches the database.
package analysis

import (
	"math"
	"time"
)

// Sale is one clean sales row joined with its catalog entry.
type Sale struct {
	Fecha          time.Time
	ProductoID     int
	Producto       string
	Categoria      string
	Cantidad       float64
	PrecioUnitario float64
	Total          float64
	Tienda         string
	Vendedor       string
}

// Period selects the bucketing granularity for time series aggregates.
type Period string

const (
	PeriodDaily   Period = "D"
	PeriodMonthly Period = "M"
)

// bucket truncates t to the start of its period.
func (p Period) bucket(t time.Time) time.Time {
	if p == PeriodMonthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// round2 rounds to two decimals, matching the report precision used across
// the aggregates.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
