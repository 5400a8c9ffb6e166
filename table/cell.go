package table

import (
	"fmt"
)

// Column defines one column of a table.
type Column struct {
	Label string  `yaml:"label"`
	Width float64 `yaml:"width"`
	Align string  `yaml:"align"` // "L", "C" or "R"; empty means left
}

// Cell is a single cell in a table row.
type Cell struct {
	text  string
	align string
}

// SetAlign sets the horizontal alignment for this cell, overriding the column's.
func (c *Cell) SetAlign(align string) *Cell {
	c.align = align
	return c
}

// Text returns the cell text.
func (c *Cell) Text() string { return c.text }

// Row is a single data row in a table.
type Row struct {
	cells []*Cell
	minH  float64
}

// AddCell adds a text cell to the row and returns the cell for chaining.
func (r *Row) AddCell(text string) *Cell {
	c := &Cell{text: text}
	r.cells = append(r.cells, c)
	return c
}

// AddCellf adds a formatted text cell to the row.
func (r *Row) AddCellf(format string, args ...any) *Cell {
	return r.AddCell(fmt.Sprintf(format, args...))
}

// SetMinHeight sets the minimum height for this row.
func (r *Row) SetMinHeight(h float64) *Row {
	r.minH = h
	return r
}

// Len returns the number of cells in the row.
func (r *Row) Len() int { return len(r.cells) }

func (r *Row) cell(i int) *Cell {
	if i < len(r.cells) {
		return r.cells[i]
	}
	return &Cell{}
}
