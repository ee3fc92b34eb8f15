package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection on a bounded playfield.
// Items are inserted by the center of their bounding box and an index, then nearby
// items can be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the largest per-axis center distance at which two colliding
// boxes can still touch, i.e. (wA+wB)/2 and (hA+hB)/2, so that every overlap is found
// within the 3x3 neighborhood. Positions outside the playfield are clamped to the
// border cells, which never moves two centers further apart.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given playfield dimensions.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// CellSizeFor returns a cell size that finds every overlap between boxes of
// size (wA, hA) and (wB, hB), with one unit of slack for float rounding.
func CellSizeFor(wA, hA, wB, hB float64) float64 {
	return math.Max((wA+wB)/2, (hA+hB)/2) + 1
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the center of r.
func (g *SpatialGrid) Insert(r Rect, index int) {
	x, y := r.Center()
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the center of r. Cells past the playfield edge are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(r Rect, fn func(index int) bool) {
	x, y := r.Center()
	col, row := g.posToCell(x, y)

	for dr := -1; dr <= 1; dr++ {
		rr := row + dr
		if rr < 0 || rr >= g.rows {
			continue
		}
		rowOffset := rr * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}

			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts playfield coordinates to grid cell coordinates.
// Clamps to valid range for positions outside the playfield.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
