package gemm

// PE is one output-stationary multiply-accumulate cell. It holds one output
// element's running sum across the whole K reduction and releases it on Flush.
type PE struct {
	outWidth int
	acc      int64
}

func NewPE(outWidth int) PE {
	return PE{outWidth: outWidth}
}

// Accumulate adds the dot product of the two K lanes to the running sum.
func (pe *PE) Accumulate(aLane, bLane []int64) {
	for k := range aLane {
		pe.acc += aLane[k] * bLane[k]
	}
}

// Flush returns the accumulator truncated to the output width and clears it.
func (pe *PE) Flush() int64 {
	value := TruncateInt(pe.acc, pe.outWidth)
	pe.acc = 0
	return value
}

// Value exposes the raw accumulator for inspection.
func (pe *PE) Value() int64 {
	return pe.acc
}

// PEGrid is the NumPEM x NumPEN array of identical cells, built once at
// configuration time and addressed by (row, column). All cells advance one
// K-tile per Accumulate and flush simultaneously.
type PEGrid struct {
	params Parameters
	cells  [][]PE
}

func NewPEGrid(params Parameters) *PEGrid {
	cells := make([][]PE, params.NumPEM)
	for r := range cells {
		cells[r] = make([]PE, params.NumPEN)
		for c := range cells[r] {
			cells[r][c] = NewPE(params.OutDataWidth)
		}
	}
	return &PEGrid{params: params, cells: cells}
}

// Accumulate feeds cell (r, c) the A row lane aLanes[r] and the B column lane
// bLanes[c].
func (g *PEGrid) Accumulate(aLanes, bLanes [][]int64) {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].Accumulate(aLanes[r], bLanes[c])
		}
	}
}

// Flush fires every cell at once and returns the finished output tile[r][c].
func (g *PEGrid) Flush() [][]int64 {
	tile := makeTile(g.params.NumPEM, g.params.NumPEN)
	for r := range g.cells {
		for c := range g.cells[r] {
			tile[r][c] = g.cells[r][c].Flush()
		}
	}
	return tile
}

// Reset clears every accumulator without producing outputs.
func (g *PEGrid) Reset() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c].acc = 0
		}
	}
}
