package gemm

import "fmt"

// Memory models the external single-port synchronous storage. A read issued
// in one cycle is observable through ReadData in the next; a write commits at
// the end of the cycle it was issued in. At most one access per cycle.
type Memory struct {
	wordBits int
	words    []Word

	readData Word
	readAddr int

	writeAddr int
	writeData Word
}

func NewMemory(depth, wordBits int) *Memory {
	words := make([]Word, depth)
	for i := range words {
		words[i] = NewWord(wordBits)
	}
	return &Memory{
		wordBits:  wordBits,
		words:     words,
		readData:  NewWord(wordBits),
		readAddr:  -1,
		writeAddr: -1,
	}
}

func (m *Memory) Depth() int {
	return len(m.words)
}

func (m *Memory) WordBits() int {
	return m.wordBits
}

// IssueRead schedules a read; the data appears in ReadData after Tick.
func (m *Memory) IssueRead(addr int) {
	m.checkPortFree()
	m.checkAccess(addr)
	m.readAddr = addr
}

// IssueWrite schedules a write committed by Tick.
func (m *Memory) IssueWrite(addr int, data Word) {
	m.checkPortFree()
	m.checkAccess(addr)
	if data.Bits() != m.wordBits {
		panic(fmt.Sprintf("memory write of %d bits into a %d-bit word", data.Bits(), m.wordBits))
	}
	m.writeAddr = addr
	m.writeData = data.Clone()
}

// Tick commits the cycle: the pending write lands and the pending read loads
// the output register.
func (m *Memory) Tick() {
	if m.writeAddr >= 0 {
		m.words[m.writeAddr] = m.writeData
		m.writeAddr = -1
	}
	if m.readAddr >= 0 {
		m.readData = m.words[m.readAddr].Clone()
		m.readAddr = -1
	}
}

// ReadData is the registered output of the most recent committed read.
func (m *Memory) ReadData() Word {
	return m.readData
}

// Store bypasses the synchronous port for testbench-side preloading.
func (m *Memory) Store(addr int, data Word) {
	m.checkAccess(addr)
	if data.Bits() != m.wordBits {
		panic(fmt.Sprintf("memory store of %d bits into a %d-bit word", data.Bits(), m.wordBits))
	}
	m.words[addr] = data.Clone()
}

// Peek bypasses the synchronous port for testbench-side readback.
func (m *Memory) Peek(addr int) Word {
	m.checkAccess(addr)
	return m.words[addr].Clone()
}

func (m *Memory) checkPortFree() {
	if m.readAddr >= 0 || m.writeAddr >= 0 {
		panic("memory accepts one access per cycle")
	}
}

func (m *Memory) checkAccess(addr int) {
	if addr < 0 || addr >= len(m.words) {
		panic(fmt.Sprintf("memory address %d out of range [0, %d)", addr, len(m.words)))
	}
}
