package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// reportMaxRows caps table length in the rendered report.
const reportMaxRows = 20

// WriteReport renders the full sales analysis as Markdown to w.
func WriteReport(w io.Writer, sales []Sale, generatedAt time.Time) error {
	var b strings.Builder

	b.WriteString("# Reporte de Análisis de Ventas\n")
	fmt.Fprintf(&b, "\n**Generado:** %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\n**Registros analizados:** %d\n", len(sales))

	// Resumen ejecutivo
	b.WriteString("\n---\n## Resumen Ejecutivo\n\n")
	var ventaTotal float64
	for _, s := range sales {
		ventaTotal += s.Total
	}
	b.WriteString("| Métrica | Valor |\n|---------|-------|\n")
	fmt.Fprintf(&b, "| Venta Total | $%.2f |\n", ventaTotal)
	fmt.Fprintf(&b, "| Ticket Promedio | $%.2f |\n", AverageTicket(sales))
	fmt.Fprintf(&b, "| Unidades Promedio | %.1f |\n", AverageUnits(sales))
	fmt.Fprintf(&b, "| Total Transacciones | %d |\n", len(sales))

	// Tiendas
	b.WriteString("\n---\n## Ventas por Tienda\n\n")
	stores := SalesByStore(sales)
	writeTable(&b, []string{"tienda", "venta_total", "ticket_promedio", "transacciones", "unidades", "participacion_pct"},
		len(stores), func(i int) []string {
			s := stores[i]
			return []string{s.Tienda, money(s.VentaTotal), money(s.TicketPromedio),
				fmt.Sprint(s.Transacciones), num(s.Unidades), num(s.ParticipacionPct)}
		})

	// Categorías
	b.WriteString("\n---\n## Ventas por Categoría\n\n")
	cats := SalesByCategory(sales)
	writeTable(&b, []string{"categoria", "venta_total", "venta_promedio", "num_transacciones", "unidades_totales"},
		len(cats), func(i int) []string {
			c := cats[i]
			return []string{c.Categoria, money(c.VentaTotal), money(c.VentaPromedio),
				fmt.Sprint(c.NumTransacciones), num(c.UnidadesTotales)}
		})

	// Temporal
	b.WriteString("\n---\n## Análisis Temporal\n")
	b.WriteString("\n### Ventas Mensuales\n\n")
	monthly := SalesByPeriod(sales, PeriodMonthly)
	writeTable(&b, []string{"periodo", "venta_total", "unidades", "transacciones", "ticket_promedio"},
		len(monthly), func(i int) []string {
			m := monthly[i]
			return []string{m.Periodo.Format("2006-01"), money(m.VentaTotal), num(m.Unidades),
				fmt.Sprint(m.Transacciones), money(m.TicketPromedio)}
		})

	b.WriteString("\n### Ventas por Día de la Semana\n\n")
	days := WeekdaySales(sales)
	writeTable(&b, []string{"dia_semana", "venta_total", "venta_promedio", "transacciones"},
		len(days), func(i int) []string {
			d := days[i]
			return []string{d.DiaSemana, money(d.VentaTotal), money(d.VentaPromedio), fmt.Sprint(d.Transacciones)}
		})

	b.WriteString("\n### Crecimiento Mensual\n\n")
	growth := Growth(sales, PeriodMonthly)
	withPrev := growth[:0:0]
	for _, g := range growth {
		if g.HasPrevious {
			withPrev = append(withPrev, g)
		}
	}
	writeTable(&b, []string{"periodo", "venta", "venta_anterior", "crecimiento_abs", "crecimiento_pct"},
		len(withPrev), func(i int) []string {
			g := withPrev[i]
			return []string{g.Periodo.Format("2006-01"), money(g.Venta), money(g.VentaAnterior),
				money(g.CrecimientoAbs), num(g.CrecimientoPct)}
		})

	// Rankings
	b.WriteString("\n---\n## Top 10 Productos\n\n")
	products := ProductRanking(sales, 10)
	writeTable(&b, []string{"rank", "producto_id", "producto", "venta_total", "unidades"},
		len(products), func(i int) []string {
			p := products[i]
			return []string{fmt.Sprint(p.Rank), fmt.Sprint(p.ProductoID), p.Producto,
				money(p.VentaTotal), num(p.Unidades)}
		})

	b.WriteString("\n---\n## Top 10 Vendedores\n\n")
	sellers := SellerRanking(sales, 10)
	writeTable(&b, []string{"rank", "vendedor", "venta_total", "unidades", "transacciones", "ticket_promedio"},
		len(sellers), func(i int) []string {
			s := sellers[i]
			return []string{fmt.Sprint(s.Rank), s.Vendedor, money(s.VentaTotal), num(s.Unidades),
				fmt.Sprint(s.Transacciones), money(s.TicketPromedio)}
		})

	// Pareto
	b.WriteString("\n---\n## Análisis Pareto (80/20)\n")
	pareto, pstats := Pareto(sales)
	fmt.Fprintf(&b, "\n**Hallazgo:** El %.2f%% de los productos (%d de %d) genera el 80%% de las ventas.\n",
		pstats.PctItems80Pct, pstats.Items80Pct, pstats.TotalItems)

	abc := map[string]struct {
		n   int
		pct float64
	}{}
	for _, p := range pareto {
		e := abc[p.Clasificacion]
		e.n++
		e.pct += p.PctValor
		abc[p.Clasificacion] = e
	}
	b.WriteString("\n**Clasificación ABC:**\n\n")
	writeTable(&b, []string{"clasificacion", "productos", "pct_ventas"},
		3, func(i int) []string {
			class := string(rune('A' + i))
			e := abc[class]
			return []string{class, fmt.Sprint(e.n), num(round2(e.pct))}
		})

	// Outliers
	b.WriteString("\n---\n## Detección de Anomalías\n")
	outliers, ostats := OutliersIQR(sales)
	fmt.Fprintf(&b, "\n**Método:** IQR\n")
	fmt.Fprintf(&b, "\n**Outliers detectados:** %d (%.2f%%)\n", ostats.Count, ostats.Pct)
	fmt.Fprintf(&b, "\n**Límites:** [%.2f, %.2f]\n", ostats.LimInferior, ostats.LimSuperior)
	if len(outliers) > 0 {
		sample := outliers
		if len(sample) > 5 {
			sample = sample[:5]
		}
		b.WriteString("\n**Muestra de outliers:**\n\n")
		writeTable(&b, []string{"fecha", "producto", "cantidad", "total", "tienda"},
			len(sample), func(i int) []string {
				s := sample[i]
				return []string{s.Fecha.Format("2006-01-02"), s.Producto, num(s.Cantidad),
					money(s.Total), s.Tienda}
			})
	}

	// Conclusiones
	b.WriteString("\n---\n## Conclusiones\n\n")
	bestStore, bestDay := "N/A", "N/A"
	if len(stores) > 0 {
		bestStore = stores[0].Tienda
	}
	if len(days) > 0 {
		best := days[0]
		for _, d := range days[1:] {
			if d.VentaTotal > best.VentaTotal {
				best = d
			}
		}
		bestDay = best.DiaSemana
	}
	fmt.Fprintf(&b, "1. **Mejor tienda:** %s con mayor volumen de ventas\n", bestStore)
	fmt.Fprintf(&b, "2. **Mejor día:** %s es el día con más ventas\n", bestDay)
	b.WriteString("3. **Concentración:** Un pequeño grupo de productos genera la mayoría de ingresos (Pareto)\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Generate writes the report to dir with a timestamped filename and returns
// the path.
func Generate(dir string, sales []Sale, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("ventas_report_%s.md", now.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := WriteReport(f, sales, now); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, f.Close()
}

// writeTable renders a Markdown table with at most reportMaxRows rows.
func writeTable(b *strings.Builder, headers []string, n int, row func(i int) []string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
	if n > reportMaxRows {
		n = reportMaxRows
	}
	for i := 0; i < n; i++ {
		b.WriteString("| " + strings.Join(row(i), " | ") + " |\n")
	}
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
