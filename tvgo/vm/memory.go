package vm

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// MaxMemorySize is the largest image addressable by a 32-bit pc.
const MaxMemorySize = math.MaxUint32 + 1

// Memory is the flat memory image. Code and data share it, so writes may
// change instructions that have not been fetched yet.
type Memory struct {
	data []byte
}

// NewMemory copies image into a new memory arena.
func NewMemory(image []byte) *Memory {
	data := make([]byte, len(image))
	copy(data, image)
	return &Memory{data: data}
}

func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

func (m *Memory) GetByte(addr uint64) (byte, error) {
	if addr >= m.Size() {
		return 0, fmt.Errorf("%w: read at %#x outside image of %d bytes", ErrMemoryBounds, addr, m.Size())
	}
	return m.data[addr], nil
}

func (m *Memory) SetByte(addr uint64, v byte) error {
	if addr >= m.Size() {
		return fmt.Errorf("%w: write at %#x outside image of %d bytes", ErrMemoryBounds, addr, m.Size())
	}
	m.data[addr] = v
	return nil
}

// Range returns a copy of length bytes starting at addr.
func (m *Memory) Range(addr uint64, length uint64) ([]byte, error) {
	end := addr + length
	if end < addr || end > m.Size() {
		return nil, fmt.Errorf("%w: range [%#x, %#x) outside image of %d bytes", ErrMemoryBounds, addr, end, m.Size())
	}
	out := make([]byte, length)
	copy(out, m.data[addr:end])
	return out, nil
}

// Digest is the Keccak-256 hash of the full memory contents.
func (m *Memory) Digest() common.Hash {
	return crypto.Keccak256Hash(m.data)
}

func (m *Memory) MarshalText() ([]byte, error) {
	return hexutil.Bytes(m.data).MarshalText()
}

func (m *Memory) UnmarshalText(text []byte) error {
	var data hexutil.Bytes
	if err := data.UnmarshalText(text); err != nil {
		return fmt.Errorf("invalid memory encoding: %w", err)
	}
	if uint64(len(data)) > MaxMemorySize {
		return fmt.Errorf("memory of %d bytes exceeds maximum of %d", len(data), uint64(MaxMemorySize))
	}
	m.data = data
	return nil
}
