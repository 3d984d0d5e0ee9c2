// Package analysis implements the normalization and KPI pipeline for
// schema-unknown financial spreadsheets. It classifies an input table as a
// transaction ledger or a periodic P&L sheet, maps bilingual headers onto a
// canonical vocabulary, cleans currency values, aggregates by calendar month
// and derives KPIs, period-over-period deltas, risks and recommendations.
//
// The whole package is pure and stateless: one call transforms one table into
// one result, with no I/O and no shared mutable state.
package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CellKind tags the decoded value of a single spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one decoded spreadsheet cell. Decoders that know a cell is numeric
// (native Excel number cells, generated fixtures) set Kind to CellNumber;
// everything else arrives as text and is interpreted downstream.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
}

// TextCell builds a text cell, mapping blank strings to CellEmpty.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a native numeric cell.
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// RawTable is the generic tabular structure handed over by the file decoder:
// an ordered header list plus ordered rows of heterogeneous cells. It is the
// source of truth before normalization and is never mutated by the pipeline.
type RawTable struct {
	Headers []string
	Rows    [][]Cell
}

// ColumnIndex returns the index of the named header, or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// CellAt returns the cell at (row, col), tolerating ragged rows.
func (t RawTable) CellAt(row, col int) Cell {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return Cell{Kind: CellEmpty}
	}
	return t.Rows[row][col]
}

// cleanHeader lower-cases and trims a header for vocabulary lookups.
func cleanHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
