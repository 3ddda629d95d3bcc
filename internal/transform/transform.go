// Package transform implements the cleaning and validation stage of the
// sales pipeline. It takes one in-memory batch of raw records plus a product
// name→id mapping and classifies every row as accepted, rejected (with one or
// more reasons), or removed as an intra-batch duplicate.
//
// The stage is a pure batch function: it performs no I/O, keeps no state
// between calls, and never mutates the input batch. Rejected rows retain
// their original field values so operators can audit exactly what was
// submitted.
package transform

import (
	"math"
	"time"

	"go.uber.org/zap"

	"ventas/pkg/records"
)

// Reason tags why a row was rejected. A row can accumulate several reasons;
// the rules are evaluated independently and do not short-circuit each other.
type Reason string

const (
	ReasonInvalidDate     Reason = "fecha_invalida"
	ReasonInvalidQuantity Reason = "cantidad_invalida"
	ReasonInvalidPrice    Reason = "precio_invalido"
	ReasonUnknownProduct  Reason = "producto_no_encontrado"
)

// StatDuplicatesRemoved is the stats key for rows removed by deduplication.
// Duplicates are accounted separately from the rejection reasons: a removed
// duplicate does not appear in either output partition.
const StatDuplicatesRemoved = "duplicados_eliminados"

// OutputColumns is the projected column set of accepted rows, in load order.
var OutputColumns = []string{
	"fecha", "producto_id", "cantidad", "precio_unitario", "total", "tienda", "vendedor",
}

// freeTextFields are cleaned (trim + collapse whitespace) before any other
// stage runs. The date field is deliberately left untouched so the rejected
// partition and the dedup key see the value exactly as submitted.
var freeTextFields = []string{"producto", "tienda", "vendedor"}

// Row is one record flowing through the stage. Raw holds the untouched input
// values; Work holds cleaned values and is where derived fields are read
// from. The original batch index is carried end-to-end so both partitions
// trace back to the input.
type Row struct {
	Index int
	Raw   records.Record
	Work  records.Record

	Date      time.Time
	DateOK    bool
	Quantity  float64
	Price     float64
	ProductID int

	Reasons   []Reason
	Duplicate bool
}

// RejectedRow couples a rejected record (original field values) with its
// position in the input batch and the reasons that disqualified it.
type RejectedRow struct {
	Line    int
	Raw     records.Record
	Reasons []Reason
}

// Result is the outcome of one Transform call. When OK is false the batch
// could not be processed at all (e.g. empty input) and no partitions are
// computed; row-level problems never clear OK.
type Result struct {
	OK       bool
	Accepted []records.Record
	Rejected []RejectedRow

	RowsInput    int
	RowsOutput   int
	RowsRejected int

	// Stats maps each rejection reason to the number of rows it applied to,
	// plus StatDuplicatesRemoved. Reason counts include rows that were later
	// removed as duplicates; the partition itself stays disjoint.
	Stats map[string]int

	Err string
}

// Transformer runs the transform stage. The zero value is usable; Log
// defaults to a no-op logger.
type Transformer struct {
	Log *zap.Logger
}

// Transform is a convenience wrapper around Transformer with no logging.
func Transform(batch []records.Record, products map[string]int) Result {
	return Transformer{}.Transform(batch, products)
}

// Transform cleans, validates, resolves, and deduplicates one batch.
// The products mapping is treated as read-only for the duration of the call.
func (t Transformer) Transform(batch []records.Record, products map[string]int) Result {
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}

	if len(batch) == 0 {
		return Result{OK: false, Err: "empty input batch"}
	}

	log.Info("transform started", zap.Int("rows_input", len(batch)))

	lookup := NewProductLookup(products)
	rows := make([]*Row, len(batch))

	// Single pass: clean, derive, validate. Each row ends up fully tagged
	// before partitioning, so there is no index-set bookkeeping to drift.
	for i, raw := range batch {
		row := &Row{Index: i, Raw: raw, Work: raw.Clone()}

		for _, f := range freeTextFields {
			if _, ok := row.Work[f]; ok {
				row.Work[f] = CleanString(row.Work[f])
			}
		}

		row.Date, row.DateOK = ParseDateFlexible(row.Work["fecha"])
		row.Quantity = ToFloat(row.Work["cantidad"])
		row.Price = ToFloat(row.Work["precio_unitario"])
		productID, productOK := lookup.Resolve(row.Work.String("producto"))
		row.ProductID = productID

		if !row.DateOK {
			row.Reasons = append(row.Reasons, ReasonInvalidDate)
		} else {
			row.Work["fecha_parsed"] = row.Date
		}
		if math.IsNaN(row.Quantity) || row.Quantity <= 0 {
			row.Reasons = append(row.Reasons, ReasonInvalidQuantity)
		}
		if math.IsNaN(row.Price) || row.Price <= 0 {
			row.Reasons = append(row.Reasons, ReasonInvalidPrice)
		}
		if !productOK {
			row.Reasons = append(row.Reasons, ReasonUnknownProduct)
		}

		rows[i] = row
	}

	// Dedup runs across the whole working batch, independent of validity.
	// A duplicate of an invalid row disappears the same way a duplicate of a
	// valid one does.
	removed := markDuplicates(rows)

	stats := map[string]int{
		string(ReasonInvalidDate):     0,
		string(ReasonInvalidQuantity): 0,
		string(ReasonInvalidPrice):    0,
		string(ReasonUnknownProduct):  0,
		StatDuplicatesRemoved:         removed,
	}

	var accepted []records.Record
	var rejected []RejectedRow

	for _, row := range rows {
		// Reason counts cover every row, including ones removed as
		// duplicates below; this matches the upstream accounting.
		for _, r := range row.Reasons {
			stats[string(r)]++
		}

		if row.Duplicate {
			continue
		}
		if len(row.Reasons) > 0 {
			rejected = append(rejected, RejectedRow{
				Line:    row.Index,
				Raw:     row.Raw,
				Reasons: row.Reasons,
			})
			continue
		}
		accepted = append(accepted, projectAccepted(row))
	}

	for reason, n := range stats {
		if n > 0 && reason != StatDuplicatesRemoved {
			log.Warn("rows flagged", zap.String("reason", reason), zap.Int("count", n))
		}
	}
	if removed > 0 {
		log.Info("duplicates removed", zap.Int("count", removed))
	}
	log.Info("transform finished",
		zap.Int("rows_output", len(accepted)),
		zap.Int("rows_rejected", len(rejected)),
	)

	return Result{
		OK:           true,
		Accepted:     accepted,
		Rejected:     rejected,
		RowsInput:    len(batch),
		RowsOutput:   len(accepted),
		RowsRejected: len(rejected),
		Stats:        stats,
	}
}

// projectAccepted builds the load-ready record for an accepted row: resolved
// date reformatted to ISO, resolved product id, coerced numerics, the derived
// total, and the cleaned store/seller fields.
func projectAccepted(row *Row) records.Record {
	return records.Record{
		"fecha":           row.Date.Format(OutputDateLayout),
		"producto_id":     row.ProductID,
		"cantidad":        row.Quantity,
		"precio_unitario": row.Price,
		"total":           row.Quantity * row.Price,
		"tienda":          row.Work.String("tienda"),
		"vendedor":        row.Work.String("vendedor"),
	}
}
