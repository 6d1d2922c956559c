// Package systems provides ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// SpatialGrid provides O(1) neighbor lookups using a uniform cell grid.
// The grid must be rebuilt (Clear + Insert for every node) each frame
// before it is queried; it never tracks movement on its own.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	width    float64
	height   float64
	cells    [][]ecs.Entity // flat grid of entity lists, row-major
}

// NewSpatialGrid creates a spatial grid covering the given domain size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{cellSize: cellSize}
	g.Resize(width, height)
	return g
}

// Resize reallocates the cell array for new domain extents.
// Previous contents are discarded.
func (g *SpatialGrid) Resize(width, height float64) {
	cols := int(width/g.cellSize) + 1
	rows := int(height/g.cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8) // pre-allocate small capacity
	}

	g.cols = cols
	g.rows = rows
	g.width = width
	g.height = height
	g.cells = cells
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the cell containing (x, y).
// Positions outside the grid are dropped.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float64) {
	col, row, ok := g.cell(x, y)
	if !ok {
		return
	}
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryInto appends every entity in the 3x3 block of cells around (x, y) to dst.
// The block is clipped at the grid edges. Results are not deduplicated and
// include the querying entity itself if it was inserted; callers skip self.
// A position outside the grid has no neighborhood.
func (g *SpatialGrid) QueryInto(dst []ecs.Entity, x, y float64) []ecs.Entity {
	centerCol, centerRow, ok := g.cell(x, y)
	if !ok {
		return dst
	}

	for row := centerRow - 1; row <= centerRow+1; row++ {
		if row < 0 || row >= g.rows {
			continue
		}
		for col := centerCol - 1; col <= centerCol+1; col++ {
			if col < 0 || col >= g.cols {
				continue
			}
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// Query returns the 3x3 neighborhood of (x, y).
// Deprecated: Use QueryInto to avoid allocations.
func (g *SpatialGrid) Query(x, y float64) []ecs.Entity {
	return g.QueryInto(nil, x, y)
}

// CellSize returns the edge length of a cell.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) { return g.cols, g.rows }

// Len returns the number of entities currently stored.
func (g *SpatialGrid) Len() int {
	n := 0
	for i := range g.cells {
		n += len(g.cells[i])
	}
	return n
}

// cell returns the column and row for a domain position and whether it lies inside the grid.
func (g *SpatialGrid) cell(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor(x / g.cellSize))
	row = int(math.Floor(y / g.cellSize))
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return col, row, false
	}
	return col, row, true
}
