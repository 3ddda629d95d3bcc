package analysis

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleSales() []Sale {
	return []Sale{
		{Fecha: day("2024-01-15"), ProductoID: 1, Producto: "Laptop", Categoria: "Computación", Cantidad: 1, PrecioUnitario: 1200, Total: 1200, Tienda: "Centro", Vendedor: "Ana"},
		{Fecha: day("2024-01-16"), ProductoID: 2, Producto: "Mouse", Categoria: "Accesorios", Cantidad: 3, PrecioUnitario: 25, Total: 75, Tienda: "Centro", Vendedor: "Ana"},
		{Fecha: day("2024-01-20"), ProductoID: 1, Producto: "Laptop", Categoria: "Computación", Cantidad: 2, PrecioUnitario: 1200, Total: 2400, Tienda: "Norte", Vendedor: "Luis"},
		{Fecha: day("2024-02-03"), ProductoID: 3, Producto: "Teclado", Categoria: "Accesorios", Cantidad: 2, PrecioUnitario: 60, Total: 120, Tienda: "Norte", Vendedor: "Luis"},
		{Fecha: day("2024-02-10"), ProductoID: 2, Producto: "Mouse", Categoria: "Accesorios", Cantidad: 1, PrecioUnitario: 25, Total: 25, Tienda: "Centro", Vendedor: "Eva"},
	}
}

func TestSalesByCategory(t *testing.T) {
	cats := SalesByCategory(sampleSales())

	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Categoria != "Computación" {
		t.Fatalf("first category = %q, want highest sales first", cats[0].Categoria)
	}
	if cats[0].VentaTotal != 3600 || cats[0].NumTransacciones != 2 {
		t.Fatalf("Computación = %+v", cats[0])
	}
	if cats[1].VentaTotal != 220 || cats[1].UnidadesTotales != 6 {
		t.Fatalf("Accesorios = %+v", cats[1])
	}
	if cats[0].VentaPromedio != 1800 {
		t.Fatalf("venta_promedio = %v, want 1800", cats[0].VentaPromedio)
	}
}

func TestSalesByPeriodMonthly(t *testing.T) {
	months := SalesByPeriod(sampleSales(), PeriodMonthly)

	if len(months) != 2 {
		t.Fatalf("got %d months, want 2", len(months))
	}
	jan, feb := months[0], months[1]
	if !jan.Periodo.Equal(day("2024-01-01")) || !feb.Periodo.Equal(day("2024-02-01")) {
		t.Fatalf("periods = %v, %v", jan.Periodo, feb.Periodo)
	}
	if jan.VentaTotal != 3675 || jan.Transacciones != 3 {
		t.Fatalf("january = %+v", jan)
	}
	if jan.TicketPromedio != 1225 {
		t.Fatalf("january ticket = %v, want 1225", jan.TicketPromedio)
	}
	if feb.Unidades != 3 {
		t.Fatalf("february unidades = %v, want 3", feb.Unidades)
	}
}

func TestSalesByPeriodDaily(t *testing.T) {
	days := SalesByPeriod(sampleSales(), PeriodDaily)
	if len(days) != 5 {
		t.Fatalf("got %d days, want 5", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i-1].Periodo.Before(days[i].Periodo) {
			t.Fatalf("days out of order at %d: %v >= %v", i, days[i-1].Periodo, days[i].Periodo)
		}
	}
}

func TestProductRanking(t *testing.T) {
	top := ProductRanking(sampleSales(), 2)

	if len(top) != 2 {
		t.Fatalf("got %d products, want 2", len(top))
	}
	if top[0].ProductoID != 1 || top[0].Rank != 1 {
		t.Fatalf("top product = %+v", top[0])
	}
	if top[0].VentaTotal != 3600 || top[0].Unidades != 3 || top[0].Frecuencia != 2 {
		t.Fatalf("top product aggregates = %+v", top[0])
	}
	if top[1].ProductoID != 3 {
		t.Fatalf("second product = %+v, want Teclado (120 > 100)", top[1])
	}
}

func TestSellerRanking(t *testing.T) {
	top := SellerRanking(sampleSales(), 10)

	if len(top) != 3 {
		t.Fatalf("got %d sellers, want 3", len(top))
	}
	if top[0].Vendedor != "Luis" || top[0].VentaTotal != 2520 {
		t.Fatalf("top seller = %+v", top[0])
	}
	if top[0].TicketPromedio != 1260 {
		t.Fatalf("ticket promedio = %v, want 1260", top[0].TicketPromedio)
	}
	if top[2].Vendedor != "Eva" || top[2].Rank != 3 {
		t.Fatalf("last seller = %+v", top[2])
	}
}

func TestSalesByStore(t *testing.T) {
	stores := SalesByStore(sampleSales())

	if len(stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(stores))
	}
	norte := stores[0]
	if norte.Tienda != "Norte" || norte.VentaTotal != 2520 {
		t.Fatalf("top store = %+v", norte)
	}
	// 2520 / 3820 * 100 = 65.97
	if norte.ParticipacionPct != 65.97 {
		t.Fatalf("participacion = %v, want 65.97", norte.ParticipacionPct)
	}
	if got := stores[0].ParticipacionPct + stores[1].ParticipacionPct; got < 99.9 || got > 100.1 {
		t.Fatalf("shares sum to %v, want ~100", got)
	}
}

func TestWeekdaySales(t *testing.T) {
	// 2024-01-15 is a Monday; Jan 20, Feb 3 and Feb 10 are Saturdays.
	days := WeekdaySales(sampleSales())

	if days[0].DiaSemana != "Monday" {
		t.Fatalf("first day = %q, want Monday-first ordering", days[0].DiaSemana)
	}
	var sat *WeekdaySummary
	for i := range days {
		if days[i].DiaSemana == "Saturday" {
			sat = &days[i]
		}
	}
	if sat == nil {
		t.Fatal("Saturday missing")
	}
	if sat.VentaTotal != 2545 || sat.Transacciones != 3 {
		t.Fatalf("Saturday = %+v", sat)
	}
	if sat.VentaPromedio != 848.33 {
		t.Fatalf("Saturday promedio = %v, want 848.33", sat.VentaPromedio)
	}
}

func TestAggregatesEmptyInput(t *testing.T) {
	if got := SalesByCategory(nil); len(got) != 0 {
		t.Fatalf("SalesByCategory(nil) = %v", got)
	}
	if got := SalesByPeriod(nil, PeriodMonthly); len(got) != 0 {
		t.Fatalf("SalesByPeriod(nil) = %v", got)
	}
	if got := ProductRanking(nil, 10); len(got) != 0 {
		t.Fatalf("ProductRanking(nil) = %v", got)
	}
	if got := SalesByStore(nil); len(got) != 0 {
		t.Fatalf("SalesByStore(nil) = %v", got)
	}
	if got := WeekdaySales(nil); len(got) != 0 {
		t.Fatalf("WeekdaySales(nil) = %v", got)
	}
}
