package card

import (
	"fmt"

	"github.com/mcoot/backlogbingo/internal/model"
)

const (
	freeStarText     = "★"
	wildcardStarText = "★ Wildcard"
)

// Cell is one square of the rendered card
type Cell struct {
	Index      int              `json:"index"`
	CategoryID model.CategoryID `json:"category_id,omitempty"`
	Category   string           `json:"category"`
	Entry      string           `json:"entry"`

	IsStarTile  bool           `json:"is_star_tile"`
	IsSatisfied bool           `json:"is_satisfied"`
	StarType    model.StarMode `json:"star_type,omitempty"`
}

// Grid is a card laid out row by row
type Grid struct {
	Name      string `json:"name"`
	RowLength int    `json:"row_length"`
	Cells     []Cell `json:"cells"`
}

// Rows splits the cells into rows
func (g *Grid) Rows() [][]Cell {
	if g.RowLength == 0 {
		return nil
	}
	rows := make([][]Cell, 0, len(g.Cells)/g.RowLength)
	for i := 0; i < len(g.Cells); i += g.RowLength {
		rows = append(rows, g.Cells[i:min(i+g.RowLength, len(g.Cells))])
	}
	return rows
}

// Satisfied counts the satisfied cells
func (g *Grid) Satisfied() int {
	n := 0
	for _, c := range g.Cells {
		if c.IsSatisfied {
			n++
		}
	}
	return n
}

// starCell returns the centre cell index, or -1 when the star is disabled
func starCell(rowLength int, star model.StarMode) int {
	if !star.Enabled() {
		return -1
	}
	return rowLength * rowLength / 2
}

// locate maps a grid cell to its position in the card's categories. The
// star tile has no position and reports isStar instead.
func locate(cell int, rules model.GameRules) (index int, isStar bool, err error) {
	n := rules.GridSize.RowLength()
	if cell < 0 || cell >= n*n {
		return 0, false, fmt.Errorf("%w: %d is outside a %dx%d grid", model.ErrInvalidCardIndex, cell, n, n)
	}
	star := starCell(n, rules.Star)
	switch {
	case cell == star:
		return 0, true, nil
	case star >= 0 && cell > star:
		return cell - 1, false, nil
	}
	return cell, false, nil
}

// Output lays the card out as a grid with the star tile, when enabled, in the
// centre
func Output(card *model.BingoCard, rules model.GameRules) (*Grid, error) {
	n := rules.GridSize.RowLength()
	if n == 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidGridSize, rules.GridSize)
	}
	if want := rules.CategoryCount(); len(card.Categories) != want {
		return nil, fmt.Errorf("%w: card has %d categories, a %s grid needs %d",
			model.ErrInvalidGridSize, len(card.Categories), rules.GridSize, want)
	}

	grid := &Grid{Name: card.Name, RowLength: n, Cells: make([]Cell, n*n)}
	star := starCell(n, rules.Star)
	next := 0
	for i := range grid.Cells {
		if i == star {
			cell := Cell{Index: i, IsStarTile: true, StarType: rules.Star}
			if rules.Star == model.StarFree {
				cell.Category = freeStarText
				cell.IsSatisfied = true
			} else {
				cell.Category = wildcardStarText
				if card.StarEntry != nil {
					cell.Entry = *card.StarEntry
				}
				cell.IsSatisfied = cell.Entry != ""
			}
			grid.Cells[i] = cell
			continue
		}

		c := card.Categories[next]
		next++
		cell := Cell{Index: i, CategoryID: c.ID, Category: c.Text}
		if c.Entry != nil {
			cell.Entry = *c.Entry
		}
		cell.IsSatisfied = c.IsMarked()
		grid.Cells[i] = cell
	}
	return grid, nil
}
