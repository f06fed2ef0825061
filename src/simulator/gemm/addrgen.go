package gemm

// AddressGenerator turns the controller counters into memory addresses. The
// A and B read addresses are combinational; the C write address and its
// write-enable sit one register stage behind the counters so they line up
// with the operands arriving from the synchronous memories and with the PE
// flush.
type AddressGenerator struct {
	kTiles int
	nTiles int

	cAddr  int
	cValid bool
}

func NewAddressGenerator() *AddressGenerator {
	return &AddressGenerator{}
}

// Configure latches the run's tile counts and clears the delay stage.
func (ag *AddressGenerator) Configure(kTiles, nTiles int) {
	ag.kTiles = kTiles
	ag.nTiles = nTiles
	ag.cAddr = 0
	ag.cValid = false
}

// AAddr is the A tile address m_t*K_t + k_t for the current counters.
func (ag *AddressGenerator) AAddr(mCount, kCount int) int {
	return mCount*ag.kTiles + kCount
}

// BAddr is the B tile address k_t*N_t + n_t for the current counters.
func (ag *AddressGenerator) BAddr(kCount, nCount int) int {
	return kCount*ag.nTiles + nCount
}

// CAddr is the registered C tile address, valid when CValid is true.
func (ag *AddressGenerator) CAddr() int {
	return ag.cAddr
}

// CValid is the registered write-enable: true exactly one cycle after the
// counters finished a K sweep.
func (ag *AddressGenerator) CValid() bool {
	return ag.cValid
}

// Advance commits the delay stage for this cycle's counters. When the
// counters are not driving a fetch the write-enable clears.
func (ag *AddressGenerator) Advance(mCount, nCount, kCount int, active bool) {
	ag.cAddr = mCount*ag.nTiles + nCount
	ag.cValid = active && kCount == ag.kTiles-1
}
