package analysis

import (
	"sort"
	"time"
)

// CategorySummary aggregates sales for one product category.
type CategorySummary struct {
	Categoria        string
	VentaTotal       float64
	VentaPromedio    float64
	NumTransacciones int
	UnidadesTotales  float64
	UnidadesPromedio float64
}

// SalesByCategory groups sales by category, ordered by total sales
// descending. Ties break on category name so output is deterministic.
func SalesByCategory(sales []Sale) []CategorySummary {
	type acc struct {
		total    float64
		unidades float64
		n        int
	}
	byCat := map[string]*acc{}
	for _, s := range sales {
		a := byCat[s.Categoria]
		if a == nil {
			a = &acc{}
			byCat[s.Categoria] = a
		}
		a.total += s.Total
		a.unidades += s.Cantidad
		a.n++
	}

	out := make([]CategorySummary, 0, len(byCat))
	for cat, a := range byCat {
		out = append(out, CategorySummary{
			Categoria:        cat,
			VentaTotal:       round2(a.total),
			VentaPromedio:    round2(a.total / float64(a.n)),
			NumTransacciones: a.n,
			UnidadesTotales:  round2(a.unidades),
			UnidadesPromedio: round2(a.unidades / float64(a.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VentaTotal != out[j].VentaTotal {
			return out[i].VentaTotal > out[j].VentaTotal
		}
		return out[i].Categoria < out[j].Categoria
	})
	return out
}

// PeriodSummary aggregates sales for one time bucket.
type PeriodSummary struct {
	Periodo        time.Time
	VentaTotal     float64
	Unidades       float64
	Transacciones  int
	TicketPromedio float64
}

// SalesByPeriod buckets sales by day or month, ordered chronologically.
func SalesByPeriod(sales []Sale, period Period) []PeriodSummary {
	type acc struct {
		total    float64
		unidades float64
		n        int
	}
	buckets := map[time.Time]*acc{}
	for _, s := range sales {
		key := period.bucket(s.Fecha)
		a := buckets[key]
		if a == nil {
			a = &acc{}
			buckets[key] = a
		}
		a.total += s.Total
		a.unidades += s.Cantidad
		a.n++
	}

	out := make([]PeriodSummary, 0, len(buckets))
	for key, a := range buckets {
		out = append(out, PeriodSummary{
			Periodo:        key,
			VentaTotal:     round2(a.total),
			Unidades:       round2(a.unidades),
			Transacciones:  a.n,
			TicketPromedio: round2(a.total / float64(a.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Periodo.Before(out[j].Periodo) })
	return out
}

// ProductRank is one row of the product ranking.
type ProductRank struct {
	ProductoID int
	Producto   string
	VentaTotal float64
	Unidades   float64
	Frecuencia int
	Rank       int
}

// ProductRanking returns the top n products by total sales. Products tied on
// sales order by ID.
func ProductRanking(sales []Sale, n int) []ProductRank {
	type acc struct {
		nombre   string
		total    float64
		unidades float64
		freq     int
	}
	byProd := map[int]*acc{}
	for _, s := range sales {
		a := byProd[s.ProductoID]
		if a == nil {
			a = &acc{nombre: s.Producto}
			byProd[s.ProductoID] = a
		}
		a.total += s.Total
		a.unidades += s.Cantidad
		a.freq++
	}

	out := make([]ProductRank, 0, len(byProd))
	for id, a := range byProd {
		out = append(out, ProductRank{
			ProductoID: id,
			Producto:   a.nombre,
			VentaTotal: round2(a.total),
			Unidades:   round2(a.unidades),
			Frecuencia: a.freq,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VentaTotal != out[j].VentaTotal {
			return out[i].VentaTotal > out[j].VentaTotal
		}
		return out[i].ProductoID < out[j].ProductoID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SellerRank is one row of the seller ranking.
type SellerRank struct {
	Vendedor       string
	VentaTotal     float64
	Unidades       float64
	Transacciones  int
	TicketPromedio float64
	Rank           int
}

// SellerRanking returns the top n sellers by total sales.
func SellerRanking(sales []Sale, n int) []SellerRank {
	type acc struct {
		total    float64
		unidades float64
		tx       int
	}
	bySeller := map[string]*acc{}
	for _, s := range sales {
		a := bySeller[s.Vendedor]
		if a == nil {
			a = &acc{}
			bySeller[s.Vendedor] = a
		}
		a.total += s.Total
		a.unidades += s.Cantidad
		a.tx++
	}

	out := make([]SellerRank, 0, len(bySeller))
	for name, a := range bySeller {
		out = append(out, SellerRank{
			Vendedor:       name,
			VentaTotal:     round2(a.total),
			Unidades:       round2(a.unidades),
			Transacciones:  a.tx,
			TicketPromedio: round2(a.total / float64(a.tx)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VentaTotal != out[j].VentaTotal {
			return out[i].VentaTotal > out[j].VentaTotal
		}
		return out[i].Vendedor < out[j].Vendedor
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// StoreSummary compares one store against the rest.
type StoreSummary struct {
	Tienda           string
	VentaTotal       float64
	TicketPromedio   float64
	Transacciones    int
	Unidades         float64
	ParticipacionPct float64
}

// SalesByStore compares stores, including each store's share of total sales.
func SalesByStore(sales []Sale) []StoreSummary {
	type acc struct {
		total    float64
		unidades float64
		n        int
	}
	byStore := map[string]*acc{}
	var grand float64
	for _, s := range sales {
		a := byStore[s.Tienda]
		if a == nil {
			a = &acc{}
			byStore[s.Tienda] = a
		}
		a.total += s.Total
		a.unidades += s.Cantidad
		a.n++
		grand += s.Total
	}

	out := make([]StoreSummary, 0, len(byStore))
	for name, a := range byStore {
		sum := StoreSummary{
			Tienda:         name,
			VentaTotal:     round2(a.total),
			TicketPromedio: round2(a.total / float64(a.n)),
			Transacciones:  a.n,
			Unidades:       round2(a.unidades),
		}
		if grand > 0 {
			sum.ParticipacionPct = round2(a.total / grand * 100)
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VentaTotal != out[j].VentaTotal {
			return out[i].VentaTotal > out[j].VentaTotal
		}
		return out[i].Tienda < out[j].Tienda
	})
	return out
}

// WeekdaySummary aggregates sales for one day of the week.
type WeekdaySummary struct {
	DiaSemana     string
	VentaTotal    float64
	VentaPromedio float64
	Transacciones int
}

// weekdayNames follows the Monday-first ordering used in the reports.
var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdaySales aggregates sales by day of the week, Monday first. Days with
// no sales are omitted.
func WeekdaySales(sales []Sale) []WeekdaySummary {
	type acc struct {
		total float64
		n     int
	}
	// index 0 = Monday .. 6 = Sunday
	var days [7]acc
	for _, s := range sales {
		idx := (int(s.Fecha.Weekday()) + 6) % 7
		days[idx].total += s.Total
		days[idx].n++
	}

	var out []WeekdaySummary
	for i, a := range days {
		if a.n == 0 {
			continue
		}
		out = append(out, WeekdaySummary{
			DiaSemana:     weekdayNames[i],
			VentaTotal:    round2(a.total),
			VentaPromedio: round2(a.total / float64(a.n)),
			Transacciones: a.n,
		})
	}
	return out
}
