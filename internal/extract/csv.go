// Package extract turns a raw CSV source into an in-memory batch of records.
// The whole input is materialized; this pipeline is batch-oriented and the
// files involved are small enough that streaming buys nothing.
//
// Input files come from several point-of-sale exports, so the parser is
// deliberately tolerant: it strips a UTF-8 BOM, falls back to Latin-1 when
// the bytes are not valid UTF-8, normalizes headers, and soft-skips rows
// with the wrong number of fields instead of aborting the batch.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"ventas/pkg/records"
)

// Options configures CSV parsing. The zero value reads comma-separated data
// with a header row.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// NoHeader indicates the first row is data, not column names. Columns
	// are then keyed "col_0", "col_1", ...
	NoHeader bool

	// HeaderMap maps source header names (post-normalization) to canonical
	// keys, e.g. {"fecha_venta": "fecha"}.
	HeaderMap map[string]string
}

// Result is the outcome of one extraction.
type Result struct {
	OK      bool
	Records []records.Record
	Headers []string
	Rows    int
	Skipped int
	Source  string
	Err     string
}

// Parser parses CSV input according to Options. A Parser is reusable across
// inputs but not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

const utf8BOM = "\uFEFF"

// Parse consumes all CSV data from r and returns the parsed records, the
// canonical header order, and the number of rows skipped for parse errors or
// field-count mismatches. Empty cells become nil values.
func (p *Parser) Parse(r io.Reader) ([]records.Record, []string, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("read source: %w", err)
	}
	raw, err = decodeToUTF8(raw)
	if err != nil {
		return nil, nil, 0, err
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced below, soft-fail
	cr.LazyQuotes = true

	var headers []string
	if !p.opt.NoHeader {
		h, err := cr.Read()
		if err == io.EOF {
			return nil, nil, 0, fmt.Errorf("empty input: no header row")
		}
		if err != nil {
			return nil, nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = p.normalizeHeaders(h)
	}

	var out []records.Record
	var skipped int

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if headers == nil {
			headers = syntheticHeaders(len(row))
		}
		if len(row) != len(headers) {
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[headers[i]] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, headers, skipped, nil
}

// decodeToUTF8 returns data unchanged when it is valid UTF-8, otherwise
// decodes it as ISO 8859-1. The upstream exports use one of the two.
func decodeToUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1: %w", err)
	}
	return decoded, nil
}

// normalizeHeaders produces canonical header keys: BOM stripped from the
// first cell, lowercased, trimmed, spaces to underscores, then mapped through
// HeaderMap when present.
func (p *Parser) normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(col))
		key = strings.ReplaceAll(key, " ", "_")
		if mapped, ok := p.opt.HeaderMap[key]; ok && mapped != "" {
			key = mapped
		}
		if key == "" {
			key = fmt.Sprintf("col_%d", i)
		}
		res[i] = key
	}
	return res
}

func syntheticHeaders(n int) []string {
	res := make([]string, n)
	for i := range res {
		res[i] = fmt.Sprintf("col_%d", i)
	}
	return res
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// FromReader runs a full extraction over r and wraps the outcome in a Result
// suitable for pipeline reporting. source labels the origin for logs.
func FromReader(r io.Reader, source string, opt Options) Result {
	recs, headers, skipped, err := NewParser(opt).Parse(r)
	if err != nil {
		return Result{OK: false, Source: source, Err: err.Error()}
	}
	return Result{
		OK:      true,
		Records: recs,
		Headers: headers,
		Rows:    len(recs),
		Skipped: skipped,
		Source:  source,
	}
}
