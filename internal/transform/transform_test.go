package transform

import (
	"reflect"
	"testing"

	"ventas/pkg/records"
)

var testProducts = map[string]int{
	"Widget":     7,
	"Café Negro": 3,
}

func saleRow(fecha, producto, cantidad, precio string) records.Record {
	return records.Record{
		"fecha":           fecha,
		"producto":        producto,
		"cantidad":        cantidad,
		"precio_unitario": precio,
		"tienda":          "Centro",
		"vendedor":        "Ana",
	}
}

func TestTransform_EmptyBatch(t *testing.T) {
	res := Transform(nil, testProducts)
	if res.OK {
		t.Fatal("OK = true, want false for empty batch")
	}
	if res.Err == "" {
		t.Fatal("Err empty, want populated")
	}
	if res.Accepted != nil || res.Rejected != nil || res.Stats != nil {
		t.Fatalf("partitions computed for empty batch: %+v", res)
	}
}

func TestTransform_InvalidDateRejected(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("2024-13-45", "Widget", "2", "5"),
	}, testProducts)

	if !res.OK {
		t.Fatalf("OK = false: %s", res.Err)
	}
	if len(res.Rejected) != 1 || len(res.Accepted) != 0 {
		t.Fatalf("partitions = %d accepted / %d rejected, want 0/1", len(res.Accepted), len(res.Rejected))
	}
	if got := res.Rejected[0].Reasons; !reflect.DeepEqual(got, []Reason{ReasonInvalidDate}) {
		t.Fatalf("reasons = %v, want [fecha_invalida]", got)
	}
	if res.Stats[string(ReasonInvalidDate)] != 1 {
		t.Fatalf("stats = %v, want fecha_invalida=1", res.Stats)
	}
}

func TestTransform_NonPositiveQuantityRejected(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("2024-01-15", "Widget", "-3", "5"),
	}, testProducts)

	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(res.Rejected))
	}
	if got := res.Rejected[0].Reasons; !reflect.DeepEqual(got, []Reason{ReasonInvalidQuantity}) {
		t.Fatalf("reasons = %v, want [cantidad_invalida]", got)
	}
}

func TestTransform_AcceptedProjection(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("15/01/2024", "Widget", "2", "5"),
	}, map[string]int{"widget": 7})

	if len(res.Accepted) != 1 {
		t.Fatalf("accepted = %d, want 1 (rejected: %+v)", len(res.Accepted), res.Rejected)
	}
	want := records.Record{
		"fecha":           "2024-01-15",
		"producto_id":     7,
		"cantidad":        2.0,
		"precio_unitario": 5.0,
		"total":           10.0,
		"tienda":          "Centro",
		"vendedor":        "Ana",
	}
	if !reflect.DeepEqual(res.Accepted[0], want) {
		t.Fatalf("accepted row = %#v, want %#v", res.Accepted[0], want)
	}
}

func TestTransform_DuplicateDropped(t *testing.T) {
	row := saleRow("2024-01-15", "Widget", "2", "5")
	res := Transform([]records.Record{row, row.Clone()}, testProducts)

	if res.Stats[StatDuplicatesRemoved] != 1 {
		t.Fatalf("duplicados_eliminados = %d, want 1", res.Stats[StatDuplicatesRemoved])
	}
	if len(res.Accepted) != 1 || len(res.Rejected) != 0 {
		t.Fatalf("partitions = %d accepted / %d rejected, want 1/0", len(res.Accepted), len(res.Rejected))
	}
}

// A row can fail several rules at once; the rules never short-circuit.
func TestTransform_MultipleReasons(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("garbage", "Unknown", "zero", "-1"),
	}, testProducts)

	want := []Reason{ReasonInvalidDate, ReasonInvalidQuantity, ReasonInvalidPrice, ReasonUnknownProduct}
	if got := res.Rejected[0].Reasons; !reflect.DeepEqual(got, want) {
		t.Fatalf("reasons = %v, want %v", got, want)
	}
	for _, r := range want {
		if res.Stats[string(r)] != 1 {
			t.Fatalf("stats[%s] = %d, want 1", r, res.Stats[string(r)])
		}
	}
}

// Rejected rows must carry the values exactly as submitted, not the cleaned
// or coerced versions.
func TestTransform_RejectedKeepsOriginalValues(t *testing.T) {
	raw := records.Record{
		"fecha":           "bad date",
		"producto":        "  Widget  ",
		"cantidad":        " 2 ",
		"precio_unitario": "5",
		"tienda":          "Centro",
		"vendedor":        "Ana",
	}
	res := Transform([]records.Record{raw}, testProducts)

	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(res.Rejected))
	}
	got := res.Rejected[0]
	if got.Line != 0 {
		t.Fatalf("line = %d, want 0", got.Line)
	}
	if !reflect.DeepEqual(got.Raw, raw) {
		t.Fatalf("rejected raw = %#v, want original %#v", got.Raw, raw)
	}
}

// Every input row lands in exactly one of accepted, rejected, or the
// duplicate count.
func TestTransform_PartitionIsComplete(t *testing.T) {
	batch := []records.Record{
		saleRow("2024-01-15", "Widget", "2", "5"),
		saleRow("2024-01-15", "Widget", "2", "5"),  // duplicate of row 0
		saleRow("2024-01-16", "Widget", "0", "5"),  // invalid quantity
		saleRow("bad", "Widget", "1", "5"),         // invalid date
		saleRow("2024-01-17", "Nope", "1", "5"),    // unknown product
		saleRow("2024-01-18", "Widget", "3", "10"), // clean
	}
	res := Transform(batch, testProducts)

	total := len(res.Accepted) + len(res.Rejected) + res.Stats[StatDuplicatesRemoved]
	if total != len(batch) {
		t.Fatalf("partition covers %d rows, want %d (res=%+v)", total, len(batch), res)
	}
	if res.RowsInput != len(batch) || res.RowsOutput != len(res.Accepted) || res.RowsRejected != len(res.Rejected) {
		t.Fatalf("counts inconsistent: %+v", res)
	}
}

// A duplicate of an otherwise invalid row is removed as a duplicate (not
// rejected twice), but its validation reasons still count in the stats.
func TestTransform_DuplicateOfInvalidRow(t *testing.T) {
	bad := saleRow("bad date", "Widget", "2", "5")
	res := Transform([]records.Record{bad, bad.Clone()}, testProducts)

	if res.Stats[StatDuplicatesRemoved] != 1 {
		t.Fatalf("duplicados_eliminados = %d, want 1", res.Stats[StatDuplicatesRemoved])
	}
	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1 (duplicate must not be double-reported)", len(res.Rejected))
	}
	if res.Stats[string(ReasonInvalidDate)] != 2 {
		t.Fatalf("fecha_invalida = %d, want 2 (both rows counted)", res.Stats[string(ReasonInvalidDate)])
	}
}

func TestTransform_TotalIsExactProduct(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("2024-01-15", "Widget", "3", "19.9"),
	}, testProducts)

	got := res.Accepted[0]["total"].(float64)
	if want := 3 * 19.9; got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}
}

func TestTransform_Idempotent(t *testing.T) {
	batch := []records.Record{
		saleRow("2024-01-15", "Widget", "2", "5"),
		saleRow("2024-01-15", "Widget", "2", "5"),
		saleRow("bad", "Widget", "1", "5"),
	}
	a := Transform(batch, testProducts)
	b := Transform(batch, testProducts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("transform not idempotent:\n  first  %+v\n  second %+v", a, b)
	}
}

// The input batch must come out of a transform untouched.
func TestTransform_InputNotMutated(t *testing.T) {
	raw := saleRow("15/01/2024", "  Widget  ", "2", "5")
	want := raw.Clone()

	Transform([]records.Record{raw}, testProducts)

	if !reflect.DeepEqual(raw, want) {
		t.Fatalf("input mutated: %#v, want %#v", raw, want)
	}
}

func TestTransform_StatsKeysAlwaysPresent(t *testing.T) {
	res := Transform([]records.Record{
		saleRow("2024-01-15", "Widget", "2", "5"),
	}, testProducts)

	for _, key := range []string{
		string(ReasonInvalidDate),
		string(ReasonInvalidQuantity),
		string(ReasonInvalidPrice),
		string(ReasonUnknownProduct),
		StatDuplicatesRemoved,
	} {
		if _, ok := res.Stats[key]; !ok {
			t.Errorf("stats missing key %q: %v", key, res.Stats)
		}
	}
}
