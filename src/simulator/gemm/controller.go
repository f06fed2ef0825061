package gemm

// ControllerState is the two-state FSM of the sequencer.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateRun
)

// Controller sequences the nested (M, N, K) tile loop. K advances fastest,
// then N, then M. After the last counter cycle the controller drains one
// cycle so the in-flight operands and the final flush can land, then pulses
// done and returns to idle. Start is accepted only while idle.
type Controller struct {
	state ControllerState

	mTiles int
	kTiles int
	nTiles int

	mCount int
	nCount int
	kCount int

	drained bool
	done    bool
}

func NewController() *Controller {
	return &Controller{}
}

// Counts returns the current (M, N, K) counters.
func (c *Controller) Counts() (mCount, nCount, kCount int) {
	return c.mCount, c.nCount, c.kCount
}

// Active reports whether the counters drive a tile fetch this cycle.
func (c *Controller) Active() bool {
	return c.state == StateRun && !c.drained
}

// Busy is true for the whole run, including the drain cycle.
func (c *Controller) Busy() bool {
	return c.state == StateRun
}

// Done pulses for exactly one cycle when a run completes.
func (c *Controller) Done() bool {
	return c.done
}

// Tick commits one clock edge. The tile counts are sampled when start is
// taken and held stable for the run.
func (c *Controller) Tick(start bool, mTiles, kTiles, nTiles int) {
	c.done = false

	switch c.state {
	case StateIdle:
		if start {
			c.state = StateRun
			c.mTiles = mTiles
			c.kTiles = kTiles
			c.nTiles = nTiles
			c.mCount = 0
			c.nCount = 0
			c.kCount = 0
			c.drained = false
		}

	case StateRun:
		if c.drained {
			c.done = true
			c.state = StateIdle
			return
		}
		c.advance()
	}
}

func (c *Controller) advance() {
	if c.kCount < c.kTiles-1 {
		c.kCount++
		return
	}
	c.kCount = 0

	if c.nCount < c.nTiles-1 {
		c.nCount++
		return
	}
	c.nCount = 0

	if c.mCount < c.mTiles-1 {
		c.mCount++
		return
	}

	// All counters terminal: hold and drain the pipeline next cycle.
	c.drained = true
}
