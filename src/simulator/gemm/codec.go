package gemm

// TileCodec packs dense tile elements into memory words and back. The bit
// layout is fixed by the grid shape:
//
//	A tile (NumPEM x NumIPK), element [r][k] at (r*NumIPK+k)*InDataWidth
//	B tile (NumIPK x NumPEN), element [k][n] at (n*NumIPK+k)*InDataWidth
//	C tile (NumPEM x NumPEN), element [r][c] at (r*NumPEN+c)*OutDataWidth
//
// B is stored column-major so each PE column reads its K lane contiguously.
type TileCodec struct {
	params Parameters
}

func NewTileCodec(params Parameters) *TileCodec {
	return &TileCodec{params: params}
}

// PackA packs tile[r][k] into one A word. Elements outside the InDataWidth
// range wrap.
func (c *TileCodec) PackA(tile [][]int64) Word {
	p := c.params
	word := NewWord(p.AWordBits())
	for r := 0; r < p.NumPEM; r++ {
		for k := 0; k < p.NumIPK; k++ {
			word.SetInt((r*p.NumIPK+k)*p.InDataWidth, p.InDataWidth, tile[r][k])
		}
	}
	return word
}

// UnpackA is the exact inverse of PackA for in-range elements.
func (c *TileCodec) UnpackA(word Word) [][]int64 {
	p := c.params
	tile := makeTile(p.NumPEM, p.NumIPK)
	for r := 0; r < p.NumPEM; r++ {
		for k := 0; k < p.NumIPK; k++ {
			tile[r][k] = word.Int((r*p.NumIPK+k)*p.InDataWidth, p.InDataWidth)
		}
	}
	return tile
}

// PackB packs tile[k][n] into one B word.
func (c *TileCodec) PackB(tile [][]int64) Word {
	p := c.params
	word := NewWord(p.BWordBits())
	for k := 0; k < p.NumIPK; k++ {
		for n := 0; n < p.NumPEN; n++ {
			word.SetInt((n*p.NumIPK+k)*p.InDataWidth, p.InDataWidth, tile[k][n])
		}
	}
	return word
}

// UnpackB is the exact inverse of PackB, returning tile[k][n].
func (c *TileCodec) UnpackB(word Word) [][]int64 {
	p := c.params
	tile := makeTile(p.NumIPK, p.NumPEN)
	for k := 0; k < p.NumIPK; k++ {
		for n := 0; n < p.NumPEN; n++ {
			tile[k][n] = word.Int((n*p.NumIPK+k)*p.InDataWidth, p.InDataWidth)
		}
	}
	return tile
}

// BLanes returns the B word as per-column K lanes, lanes[n][k], the view the
// PE grid consumes.
func (c *TileCodec) BLanes(word Word) [][]int64 {
	p := c.params
	lanes := makeTile(p.NumPEN, p.NumIPK)
	for n := 0; n < p.NumPEN; n++ {
		for k := 0; k < p.NumIPK; k++ {
			lanes[n][k] = word.Int((n*p.NumIPK+k)*p.InDataWidth, p.InDataWidth)
		}
	}
	return lanes
}

// ALanes returns the A word as per-row K lanes, lanes[r][k].
func (c *TileCodec) ALanes(word Word) [][]int64 {
	return c.UnpackA(word)
}

// PackC packs tile[r][n] into one C word.
func (c *TileCodec) PackC(tile [][]int64) Word {
	p := c.params
	word := NewWord(p.CWordBits())
	for r := 0; r < p.NumPEM; r++ {
		for n := 0; n < p.NumPEN; n++ {
			word.SetInt((r*p.NumPEN+n)*p.OutDataWidth, p.OutDataWidth, tile[r][n])
		}
	}
	return word
}

// UnpackC is the exact inverse of PackC for in-range elements.
func (c *TileCodec) UnpackC(word Word) [][]int64 {
	p := c.params
	tile := makeTile(p.NumPEM, p.NumPEN)
	for r := 0; r < p.NumPEM; r++ {
		for n := 0; n < p.NumPEN; n++ {
			tile[r][n] = word.Int((r*p.NumPEN+n)*p.OutDataWidth, p.OutDataWidth)
		}
	}
	return tile
}

func makeTile(rows, cols int) [][]int64 {
	tile := make([][]int64, rows)
	for i := range tile {
		tile[i] = make([]int64, cols)
	}
	return tile
}
