package gemm

import "testing"

func tickUntilDone(t *testing.T, accelerator *Accelerator, limit int) int {
	t.Helper()
	for cycles := 1; cycles <= limit; cycles++ {
		accelerator.Cycle()
		if accelerator.Done() {
			return cycles
		}
	}
	t.Fatalf("accelerator still busy after %d cycles", limit)
	return 0
}

// loadConstant fills the A and B memories for the given tile counts with a
// single element value.
func loadConstant(t *testing.T, accelerator *Accelerator, mTiles, kTiles, nTiles int, value int64) {
	t.Helper()
	p := accelerator.Parameters()
	codec := accelerator.Codec()

	aTile := makeTile(p.NumPEM, p.NumIPK)
	bTile := makeTile(p.NumIPK, p.NumPEN)
	for r := range aTile {
		for k := range aTile[r] {
			aTile[r][k] = value
		}
	}
	for k := range bTile {
		for n := range bTile[k] {
			bTile[k][n] = value
		}
	}

	for mt := 0; mt < mTiles; mt++ {
		for kt := 0; kt < kTiles; kt++ {
			accelerator.AMemory().Store(mt*kTiles+kt, codec.PackA(aTile))
		}
	}
	for kt := 0; kt < kTiles; kt++ {
		for nt := 0; nt < nTiles; nt++ {
			accelerator.BMemory().Store(kt*nTiles+nt, codec.PackB(bTile))
		}
	}
}

func TestAcceleratorAllOnesScenario(t *testing.T) {
	// 4x4x4 grid, Mt=1, Kt=16, Nt=1: C = A(4x64) x B(64x4), all ones.
	accelerator, err := NewAccelerator(DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	loadConstant(t, accelerator, 1, 16, 1, 1)

	if err := accelerator.Start(1, 16, 1); err != nil {
		t.Fatal(err)
	}
	cycles := tickUntilDone(t, accelerator, 1000)

	if want := 16 + 2; cycles != want {
		t.Fatalf("run took %d cycles, want %d", cycles, want)
	}

	tile := accelerator.Codec().UnpackC(accelerator.CMemory().Peek(0))
	for r, row := range tile {
		for n, value := range row {
			if value != 64 {
				t.Fatalf("C[%d][%d] = %d, want 64", r, n, value)
			}
		}
	}

	stats := accelerator.Stats()
	if stats.ResultPulses != 1 {
		t.Fatalf("expected 1 result pulse, got %d", stats.ResultPulses)
	}
}

func TestAcceleratorSingleTileDotProduct(t *testing.T) {
	params := DefaultParameters()
	accelerator, err := NewAccelerator(params)
	if err != nil {
		t.Fatal(err)
	}
	codec := accelerator.Codec()

	aTile := makeTile(params.NumPEM, params.NumIPK)
	bTile := makeTile(params.NumIPK, params.NumPEN)
	for r := range aTile {
		for k := range aTile[r] {
			aTile[r][k] = int64(r*4 + k - 7)
		}
	}
	for k := range bTile {
		for n := range bTile[k] {
			bTile[k][n] = int64(3*k - 2*n + 1)
		}
	}
	accelerator.AMemory().Store(0, codec.PackA(aTile))
	accelerator.BMemory().Store(0, codec.PackB(bTile))

	if err := accelerator.Start(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	cycles := tickUntilDone(t, accelerator, 100)
	if want := 1 + 2; cycles != want {
		t.Fatalf("degenerate run took %d cycles, want %d", cycles, want)
	}

	tile := accelerator.Codec().UnpackC(accelerator.CMemory().Peek(0))
	for r := 0; r < params.NumPEM; r++ {
		for n := 0; n < params.NumPEN; n++ {
			var want int64
			for k := 0; k < params.NumIPK; k++ {
				want += aTile[r][k] * bTile[k][n]
			}
			if tile[r][n] != want {
				t.Fatalf("C[%d][%d] = %d, want %d", r, n, tile[r][n], want)
			}
		}
	}
}

func TestAcceleratorCycleCountIsDataIndependent(t *testing.T) {
	for _, sizes := range [][3]int{{1, 1, 1}, {2, 3, 2}, {4, 16, 1}, {8, 8, 8}} {
		mTiles, kTiles, nTiles := sizes[0], sizes[1], sizes[2]
		want := mTiles*kTiles*nTiles + 2

		for _, value := range []int64{0, 1, -128, 127} {
			accelerator, err := NewAccelerator(DefaultParameters())
			if err != nil {
				t.Fatal(err)
			}
			loadConstant(t, accelerator, mTiles, kTiles, nTiles, value)
			if err := accelerator.Start(mTiles, kTiles, nTiles); err != nil {
				t.Fatal(err)
			}
			cycles := tickUntilDone(t, accelerator, 100000)
			if cycles != want {
				t.Fatalf("sizes (%d, %d, %d) value %d: %d cycles, want %d",
					mTiles, kTiles, nTiles, value, cycles, want)
			}
		}
	}
}

func TestAcceleratorWritesTilesInRowMajorOrder(t *testing.T) {
	accelerator, err := NewAccelerator(DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	loadConstant(t, accelerator, 2, 1, 3, 1)

	if err := accelerator.Start(2, 1, 3); err != nil {
		t.Fatal(err)
	}

	resultPulses := 0
	for i := 0; i < 100 && !accelerator.Done(); i++ {
		accelerator.Cycle()
		if accelerator.ResultValid() {
			resultPulses++
		}
	}

	stats := accelerator.Stats()
	if resultPulses != 6 || stats.ResultPulses != 6 {
		t.Fatalf("expected 6 result pulses, got %d (stats %d)", resultPulses, stats.ResultPulses)
	}
	for i, addr := range stats.CWriteAddrs {
		if addr != i {
			t.Fatalf("C write %d went to address %d, want %d", i, addr, i)
		}
	}
}

func TestAcceleratorQuietBeforeStart(t *testing.T) {
	accelerator, err := NewAccelerator(DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		accelerator.Cycle()
		if accelerator.Busy() || accelerator.Done() || accelerator.ResultValid() {
			t.Fatalf("output asserted before start at cycle %d", i)
		}
	}
	if accelerator.Stats().Cycles != 0 {
		t.Fatalf("idle cycles counted as run cycles: %d", accelerator.Stats().Cycles)
	}
}

func TestAcceleratorRejectsStartWhileBusy(t *testing.T) {
	accelerator, err := NewAccelerator(DefaultParameters())
	if err != nil {
		t.Fatal(err)
	}
	loadConstant(t, accelerator, 1, 1, 1, 1)

	if err := accelerator.Start(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := accelerator.Start(1, 1, 1); err == nil {
		t.Fatal("second start accepted while a run is pending")
	}
	accelerator.Cycle()
	if err := accelerator.Start(1, 1, 1); err == nil {
		t.Fatal("start accepted while busy")
	}
}

func TestAcceleratorRejectsOversizedProblems(t *testing.T) {
	params := DefaultParameters()
	params.AddrWidth = 4 // 16 words per memory
	accelerator, err := NewAccelerator(params)
	if err != nil {
		t.Fatal(err)
	}

	if err := accelerator.Start(5, 5, 1); err == nil {
		t.Fatal("A capacity violation not rejected")
	}
	if err := accelerator.Start(0, 1, 1); err == nil {
		t.Fatal("zero tile count not rejected")
	}
	if err := accelerator.Start(4, 4, 1); err != nil {
		t.Fatalf("in-capacity problem rejected: %v", err)
	}
}
