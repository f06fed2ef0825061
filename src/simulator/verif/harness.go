package verif

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/wenbo-li-ee/cpaep2526-project/src/simulator/gemm"
)

// ErrTimeout is returned when done never arrives within the cycle budget.
var ErrTimeout = errors.New("timed out waiting for done")

// ErrMismatch is returned by Compare in fail-fast mode.
var ErrMismatch = errors.New("output mismatch against the golden model")

// DefaultTimeoutCycles bounds a single run.
const DefaultTimeoutCycles = 100000

// RunResult reports how a run ended.
type RunResult struct {
	Cycles   int64
	TimedOut bool
}

// CompareResult summarizes an element-wise comparison.
type CompareResult struct {
	Count      int
	Mismatches int

	FirstRow      int
	FirstCol      int
	FirstExpected int64
	FirstActual   int64
}

// Harness owns the start/done handshake and the output check. A timeout is
// fatal for the trial; a mismatch is fatal when FatalOnMismatch is set, which
// is the default.
type Harness struct {
	TimeoutCycles   int64
	FatalOnMismatch bool
}

func NewHarness() *Harness {
	return &Harness{
		TimeoutCycles:   DefaultTimeoutCycles,
		FatalOnMismatch: true,
	}
}

// RunAndWait pulses start and cycles the accelerator until done, up to the
// cycle budget. Exceeding the budget is reported with the elapsed count.
func (h *Harness) RunAndWait(acc *gemm.Accelerator, mTiles, kTiles, nTiles int) (RunResult, error) {
	if err := acc.Start(mTiles, kTiles, nTiles); err != nil {
		return RunResult{}, err
	}

	var cycles int64
	for cycles < h.TimeoutCycles {
		acc.Cycle()
		cycles++
		if acc.Done() {
			klog.V(1).Infof("run (%d, %d, %d) done after %d cycles", mTiles, kTiles, nTiles, cycles)
			return RunResult{Cycles: cycles}, nil
		}
	}

	klog.Errorf("run (%d, %d, %d) still busy after %d cycles", mTiles, kTiles, nTiles, cycles)
	return RunResult{Cycles: cycles, TimedOut: true},
		errors.Wrapf(ErrTimeout, "after %d cycles", cycles)
}

// Compare walks every element of expected against actual. All elements are
// visited so the full mismatch count is known; the first mismatch location is
// recorded for the report.
func (h *Harness) Compare(expected, actual [][]int64) (CompareResult, error) {
	result := CompareResult{}
	for i := range expected {
		for j := range expected[i] {
			result.Count++
			exp := expected[i][j]
			got := actual[i][j]
			klog.V(3).Infof("compare C[%d][%d]: expected %d, got %d", i, j, exp, got)
			if exp == got {
				continue
			}
			if result.Mismatches == 0 {
				result.FirstRow = i
				result.FirstCol = j
				result.FirstExpected = exp
				result.FirstActual = got
			}
			result.Mismatches++
			klog.Errorf("mismatch at C[%d][%d]: expected %d, got %d", i, j, exp, got)
		}
	}

	if result.Mismatches > 0 && h.FatalOnMismatch {
		return result, errors.Wrapf(ErrMismatch,
			"%d of %d elements differ, first at C[%d][%d] (expected %d, got %d)",
			result.Mismatches, result.Count, result.FirstRow, result.FirstCol,
			result.FirstExpected, result.FirstActual)
	}
	return result, nil
}
