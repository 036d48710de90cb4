// Package tablesort reorders the rows of a rendered suggestion table by one
// typed column and tracks which column the table is currently sorted by.
//
// Rows already in the requested order are left alone, rows in the opposite
// order are reversed, and anything else gets a stable sort in the requested
// direction. Two clicks on a header therefore mirror each other exactly, tied
// rows included. Cells that fail number, currency or date coercion are placed
// after every valid cell, in their original order, whatever the direction.
package tablesort

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction of a column.
type Direction string

const (
	Unset      Direction = ""
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Next returns the direction a click on a column moves to. The first click
// sorts descending; later clicks alternate.
func Next(current Direction) Direction {
	if current == Descending {
		return Ascending
	}
	return Descending
}

// Row is anything that exposes cell text by column position.
type Row interface {
	Cell(index int) string
}

// Cells is a Row backed by a slice of cell text.
type Cells []string

// Cell returns the text at index, or "" when the row is shorter.
func (c Cells) Cell(index int) string {
	if index < 0 || index >= len(c) {
		return ""
	}
	return c[index]
}

// Column identifies the header that was clicked.
type Column struct {
	Index int
	Type  ValueType
}

// Lang is the collation language used for text columns.
var Lang = language.English

type keyed[R Row] struct {
	row R
	val Value
}

// SortColumn returns rows ordered by col in the direction that follows
// current, together with that direction. rows itself is left untouched.
func SortColumn[R Row](rows []R, col Column, current Direction) ([]R, Direction) {
	dir := Next(current)

	valid := make([]keyed[R], 0, len(rows))
	var invalid []R
	for _, r := range rows {
		v := Coerce(r.Cell(col.Index), col.Type)
		if !v.Valid {
			invalid = append(invalid, r)
			continue
		}
		valid = append(valid, keyed[R]{row: r, val: v})
	}

	coll := collate.New(Lang)
	inOrder := func(a, b keyed[R]) int { return compare(a.val, b.val, coll) }
	if dir == Descending {
		inOrder = func(a, b keyed[R]) int { return compare(b.val, a.val, coll) }
	}
	reversed := func(a, b keyed[R]) int { return inOrder(b, a) }

	switch {
	case slices.IsSortedFunc(valid, inOrder):
	case slices.IsSortedFunc(valid, reversed):
		slices.Reverse(valid)
	default:
		slices.SortStableFunc(valid, inOrder)
	}

	out := make([]R, 0, len(rows))
	for _, k := range valid {
		out = append(out, k.row)
	}
	return append(out, invalid...), dir
}
