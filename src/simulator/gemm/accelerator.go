package gemm

import "github.com/pkg/errors"

// Stats collects per-run observables of the accelerator.
type Stats struct {
	// Cycles counts clock edges from start capture through the done pulse.
	Cycles int64
	// ResultPulses counts result-valid cycles, one per finished C tile.
	ResultPulses int
	// CWriteAddrs records every C write address in issue order.
	CWriteAddrs []int
}

// Accelerator is the top level of the device model: the controller, address
// generator, and PE grid wired to the three external memories, all advanced
// by one Cycle per clock. State moves strictly compute-then-commit; nothing
// mutated mid-cycle is observable.
type Accelerator struct {
	params Parameters
	codec  *TileCodec

	ctrl    *Controller
	addrgen *AddressGenerator
	grid    *PEGrid

	amem *Memory
	bmem *Memory
	cmem *Memory

	mTiles int
	kTiles int
	nTiles int

	startPending bool
	fetchValid   bool
	resultValid  bool

	stats Stats
}

func NewAccelerator(params Parameters) (*Accelerator, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid accelerator parameters")
	}

	depth := params.MemDepth()
	return &Accelerator{
		params:  params,
		codec:   NewTileCodec(params),
		ctrl:    NewController(),
		addrgen: NewAddressGenerator(),
		grid:    NewPEGrid(params),
		amem:    NewMemory(depth, params.AWordBits()),
		bmem:    NewMemory(depth, params.BWordBits()),
		cmem:    NewMemory(depth, params.CWordBits()),
	}, nil
}

func (acc *Accelerator) Parameters() Parameters {
	return acc.params
}

func (acc *Accelerator) Codec() *TileCodec {
	return acc.codec
}

// AMemory, BMemory and CMemory expose the external memories for the driver's
// backdoor preload and readback. During a run A and B are read-only and C is
// write-only from the core's perspective.
func (acc *Accelerator) AMemory() *Memory { return acc.amem }
func (acc *Accelerator) BMemory() *Memory { return acc.bmem }
func (acc *Accelerator) CMemory() *Memory { return acc.cmem }

// Start requests a run with the given tile counts. The request is rejected
// while a run is active and when the problem exceeds the configured capacity;
// addresses never wrap silently.
func (acc *Accelerator) Start(mTiles, kTiles, nTiles int) error {
	if acc.ctrl.Busy() || acc.startPending {
		return errors.New("start rejected: a run is already active")
	}
	if err := acc.params.ValidateProblem(mTiles, kTiles, nTiles); err != nil {
		return errors.Wrap(err, "start rejected")
	}

	acc.mTiles = mTiles
	acc.kTiles = kTiles
	acc.nTiles = nTiles
	acc.addrgen.Configure(kTiles, nTiles)
	acc.grid.Reset()
	acc.fetchValid = false
	acc.resultValid = false
	acc.startPending = true
	acc.stats = Stats{}
	return nil
}

// Cycle advances the whole design by one clock.
func (acc *Accelerator) Cycle() {
	// Operands fetched for the previous cycle's counters arrive now and feed
	// the grid, one K tile per cell.
	if acc.fetchValid {
		aLanes := acc.codec.ALanes(acc.amem.ReadData())
		bLanes := acc.codec.BLanes(acc.bmem.ReadData())
		acc.grid.Accumulate(aLanes, bLanes)
	}

	// The registered K-sweep boundary flushes every cell into one C word.
	// This lands in the same cycle as that tile's last accumulate.
	acc.resultValid = false
	if acc.addrgen.CValid() {
		cAddr := acc.addrgen.CAddr()
		acc.cmem.IssueWrite(cAddr, acc.codec.PackC(acc.grid.Flush()))
		acc.resultValid = true
		acc.stats.ResultPulses++
		acc.stats.CWriteAddrs = append(acc.stats.CWriteAddrs, cAddr)
	}

	// Issue this cycle's tile reads from the live counters.
	active := acc.ctrl.Active()
	mCount, nCount, kCount := acc.ctrl.Counts()
	if active {
		acc.amem.IssueRead(acc.addrgen.AAddr(mCount, kCount))
		acc.bmem.IssueRead(acc.addrgen.BAddr(kCount, nCount))
	}

	// Commit: every register takes its next-state value together.
	acc.addrgen.Advance(mCount, nCount, kCount, active)
	acc.fetchValid = active
	acc.ctrl.Tick(acc.startPending, acc.mTiles, acc.kTiles, acc.nTiles)
	acc.startPending = false
	acc.amem.Tick()
	acc.bmem.Tick()
	acc.cmem.Tick()

	if acc.ctrl.Busy() || acc.ctrl.Done() {
		acc.stats.Cycles++
	}
}

// Busy mirrors the controller's run state.
func (acc *Accelerator) Busy() bool {
	return acc.ctrl.Busy()
}

// Done pulses for one cycle when the run completes.
func (acc *Accelerator) Done() bool {
	return acc.ctrl.Done()
}

// ResultValid pulses for one cycle per finished C tile.
func (acc *Accelerator) ResultValid() bool {
	return acc.resultValid
}

func (acc *Accelerator) Stats() Stats {
	return acc.stats
}
