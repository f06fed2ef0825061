package gemm

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Parameters captures the build-time configuration of the accelerator: element
// widths, the PE grid shape, and the widths of the memory address and
// dimension fields. All tile layout and addressing formulas derive from these.
type Parameters struct {
	InDataWidth  int
	OutDataWidth int
	NumPEM       int
	NumPEN       int
	NumIPK       int
	AddrWidth    int
	DimWidth     int
}

// DefaultParameters returns the reference configuration: 8-bit inputs, 32-bit
// outputs, a 4x4 grid with 4 K-lanes, 1024-word memories.
func DefaultParameters() Parameters {
	return Parameters{
		InDataWidth:  8,
		OutDataWidth: 32,
		NumPEM:       4,
		NumPEN:       4,
		NumIPK:       4,
		AddrWidth:    10,
		DimWidth:     8,
	}
}

// MemDepth is the number of addressable words per memory.
func (p Parameters) MemDepth() int {
	return 1 << p.AddrWidth
}

// MaxTileCount is the largest tile count representable in a dimension field.
func (p Parameters) MaxTileCount() int {
	return (1 << p.DimWidth) - 1
}

// AWordBits is the width of one packed A tile: NumPEM rows of NumIPK elements.
func (p Parameters) AWordBits() int {
	return p.NumPEM * p.NumIPK * p.InDataWidth
}

// BWordBits is the width of one packed B tile: NumPEN columns of NumIPK
// elements.
func (p Parameters) BWordBits() int {
	return p.NumPEN * p.NumIPK * p.InDataWidth
}

// CWordBits is the width of one packed C tile: NumPEM x NumPEN outputs.
func (p Parameters) CWordBits() int {
	return p.NumPEM * p.NumPEN * p.OutDataWidth
}

func (p Parameters) Validate() error {
	if p.InDataWidth < 1 || p.InDataWidth > 32 {
		return errors.Errorf("in data width %d out of range [1, 32]", p.InDataWidth)
	}
	if p.OutDataWidth < 1 || p.OutDataWidth > 64 {
		return errors.Errorf("out data width %d out of range [1, 64]", p.OutDataWidth)
	}
	if p.NumPEM < 1 || p.NumPEN < 1 || p.NumIPK < 1 {
		return errors.Errorf("grid shape %dx%dx%d has a non-positive dimension",
			p.NumPEM, p.NumPEN, p.NumIPK)
	}
	if p.AddrWidth < 1 || p.AddrWidth > 30 {
		return errors.Errorf("address width %d out of range [1, 30]", p.AddrWidth)
	}
	if p.DimWidth < 1 || p.DimWidth > 30 {
		return errors.Errorf("dimension width %d out of range [1, 30]", p.DimWidth)
	}
	return nil
}

// ValidateProblem checks that the requested tile counts fit the dimension
// fields, the memory capacity, and the accumulator range. Oversized problems
// are rejected up front instead of letting addresses wrap.
func (p Parameters) ValidateProblem(mTiles, kTiles, nTiles int) error {
	if mTiles < 1 || kTiles < 1 || nTiles < 1 {
		return errors.Errorf("tile counts (%d, %d, %d) must each be >= 1", mTiles, kTiles, nTiles)
	}
	maxCount := p.MaxTileCount()
	if mTiles > maxCount || kTiles > maxCount || nTiles > maxCount {
		return errors.Errorf("tile counts (%d, %d, %d) exceed the %d-bit dimension field",
			mTiles, kTiles, nTiles, p.DimWidth)
	}

	depth := p.MemDepth()
	if words := mTiles * kTiles; words > depth {
		return errors.Errorf("A needs %d words but the memory holds %d", words, depth)
	}
	if words := kTiles * nTiles; words > depth {
		return errors.Errorf("B needs %d words but the memory holds %d", words, depth)
	}
	if words := mTiles * nTiles; words > depth {
		return errors.Errorf("C needs %d words but the memory holds %d", words, depth)
	}

	// The int64 accumulator must cover the full K reduction exactly.
	k := kTiles * p.NumIPK
	if accBits := 2*p.InDataWidth + ceilLog2(k); accBits > 63 {
		return errors.Errorf("K=%d needs a %d-bit accumulator, more than int64 provides", k, accBits)
	}
	return nil
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
