package gemm

// Word is a fixed-width bit vector backed by 64-bit lanes, least significant
// lane first. Fields are addressed by bit offset and width; values wider than
// their field wrap silently, matching two's-complement hardware truncation.
type Word struct {
	bits  int
	lanes []uint64
}

func NewWord(bits int) Word {
	if bits < 1 {
		panic("word width must be >= 1")
	}
	return Word{
		bits:  bits,
		lanes: make([]uint64, (bits+63)/64),
	}
}

func (w Word) Bits() int {
	return w.bits
}

func (w Word) Clone() Word {
	lanes := make([]uint64, len(w.lanes))
	copy(lanes, w.lanes)
	return Word{bits: w.bits, lanes: lanes}
}

// Uint extracts the width-bit field at the given offset, zero-extended.
func (w Word) Uint(offset, width int) uint64 {
	w.checkField(offset, width)

	lane := offset / 64
	shift := offset % 64
	value := w.lanes[lane] >> shift
	if shift+width > 64 {
		value |= w.lanes[lane+1] << (64 - shift)
	}
	return value & fieldMask(width)
}

// SetUint stores the low width bits of value at the given offset. Upper bits
// of value are discarded.
func (w *Word) SetUint(offset, width int, value uint64) {
	w.checkField(offset, width)

	value &= fieldMask(width)
	lane := offset / 64
	shift := offset % 64
	w.lanes[lane] &^= fieldMask(width) << shift
	w.lanes[lane] |= value << shift
	if shift+width > 64 {
		spill := width - (64 - shift)
		w.lanes[lane+1] &^= fieldMask(spill)
		w.lanes[lane+1] |= value >> (64 - shift)
	}
}

// Int extracts the width-bit field at the given offset as a signed value.
func (w Word) Int(offset, width int) int64 {
	return SignExtend(w.Uint(offset, width), width)
}

// SetInt stores a signed value into the width-bit field at the given offset,
// wrapping values outside the representable range.
func (w *Word) SetInt(offset, width int, value int64) {
	w.SetUint(offset, width, uint64(value))
}

func (w Word) checkField(offset, width int) {
	if width < 1 || width > 64 || offset < 0 || offset+width > w.bits {
		panic("bit field out of word range")
	}
}

func fieldMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// SignExtend interprets the low width bits of value as two's complement.
func SignExtend(value uint64, width int) int64 {
	shift := 64 - width
	return int64(value<<shift) >> shift
}

// TruncateInt wraps value into the width-bit two's-complement range.
func TruncateInt(value int64, width int) int64 {
	return SignExtend(uint64(value), width)
}
