package analysis

import (
	"math"
	"sort"
	"time"
)

// AverageTicket is the mean transaction value. Returns 0 for no sales.
func AverageTicket(sales []Sale) float64 {
	if len(sales) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sales {
		sum += s.Total
	}
	return round2(sum / float64(len(sales)))
}

// AverageUnits is the mean units per transaction. Returns 0 for no sales.
func AverageUnits(sales []Sale) float64 {
	if len(sales) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sales {
		sum += s.Cantidad
	}
	return round2(sum / float64(len(sales)))
}

// GrowthEntry is one period of the period-over-period growth series.
type GrowthEntry struct {
	Periodo        time.Time
	Venta          float64
	VentaAnterior  float64
	CrecimientoAbs float64
	CrecimientoPct float64

	// HasPrevious is false for the first period, where there is nothing to
	// compare against.
	HasPrevious bool
}

// Growth computes period-over-period sales growth.
func Growth(sales []Sale, period Period) []GrowthEntry {
	periods := SalesByPeriod(sales, period)
	out := make([]GrowthEntry, len(periods))
	for i, p := range periods {
		e := GrowthEntry{Periodo: p.Periodo, Venta: p.VentaTotal}
		if i > 0 {
			prev := periods[i-1].VentaTotal
			e.VentaAnterior = prev
			e.CrecimientoAbs = round2(p.VentaTotal - prev)
			if prev != 0 {
				e.CrecimientoPct = round2((p.VentaTotal/prev - 1) * 100)
			}
			e.HasPrevious = true
		}
		out[i] = e
	}
	return out
}

// OutlierStats describes the IQR fence used for outlier detection.
type OutlierStats struct {
	Q1          float64
	Q3          float64
	IQR         float64
	LimInferior float64
	LimSuperior float64
	Count       int
	Pct         float64
}

// OutliersIQR flags sales whose Total falls outside the 1.5*IQR fence and
// returns both the outliers and the fence statistics.
func OutliersIQR(sales []Sale) ([]Sale, OutlierStats) {
	if len(sales) == 0 {
		return nil, OutlierStats{}
	}

	values := make([]float64, len(sales))
	for i, s := range sales {
		values[i] = s.Total
	}
	sort.Float64s(values)

	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	var out []Sale
	for _, s := range sales {
		if s.Total < lo || s.Total > hi {
			out = append(out, s)
		}
	}

	return out, OutlierStats{
		Q1:          round2(q1),
		Q3:          round2(q3),
		IQR:         round2(iqr),
		LimInferior: round2(lo),
		LimSuperior: round2(hi),
		Count:       len(out),
		Pct:         round2(float64(len(out)) / float64(len(sales)) * 100),
	}
}

// quantile interpolates the q-th quantile of sorted values, matching the
// linear interpolation used by most statistics packages.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ParetoEntry is one product in the 80/20 concentration analysis.
type ParetoEntry struct {
	ProductoID    int
	Producto      string
	Venta         float64
	PctValor      float64
	PctAcumulado  float64
	Clasificacion string // "A" <=80%, "B" <=95%, "C" rest
}

// ParetoStats summarizes how concentrated sales are across products.
type ParetoStats struct {
	Items80Pct    int
	TotalItems    int
	PctItems80Pct float64
}

// Pareto ranks products by sales and classifies them into ABC bands by
// cumulative share of total sales.
func Pareto(sales []Sale) ([]ParetoEntry, ParetoStats) {
	ranking := ProductRanking(sales, 0)
	if len(ranking) == 0 {
		return nil, ParetoStats{}
	}

	var total float64
	for _, r := range ranking {
		total += r.VentaTotal
	}

	out := make([]ParetoEntry, len(ranking))
	var cum float64
	items80 := 0
	for i, r := range ranking {
		pct := 0.0
		if total > 0 {
			pct = r.VentaTotal / total * 100
		}
		cum += pct

		class := "C"
		switch {
		case cum <= 80:
			class = "A"
		case cum <= 95:
			class = "B"
		}
		if cum <= 80 {
			items80++
		}

		out[i] = ParetoEntry{
			ProductoID:    r.ProductoID,
			Producto:      r.Producto,
			Venta:         r.VentaTotal,
			PctValor:      round2(pct),
			PctAcumulado:  round2(cum),
			Clasificacion: class,
		}
	}

	return out, ParetoStats{
		Items80Pct:    items80,
		TotalItems:    len(out),
		PctItems80Pct: round2(float64(items80) / float64(len(out)) * 100),
	}
}
