package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fstdo/tomtel/tvgo/tomtel"
)

type VMState struct {
	Memory *Memory `json:"memory"`

	// a, b, c, d, e, f
	ByteRegisters [tomtel.NumByteRegisters]uint8 `json:"byteRegisters"`
	// la, lb, lc, ld, ptr, pc
	WordRegisters [tomtel.NumWordRegisters]uint32 `json:"wordRegisters"`

	Output Output `json:"output"`

	ExitCode uint8 `json:"exit"`
	Exited   bool  `json:"exited"`

	Step uint64 `json:"step"`

	// notified of every access through the (ptr+c) pseudo-register
	onMemAccess func(addr uint64, write bool)
	// notified of every decoded instruction
	onFetch func(insn Instruction)
}

// NewVMState builds a fresh state owning a copy of image.
func NewVMState(image []byte) (*VMState, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if uint64(len(image)) > MaxMemorySize {
		return nil, fmt.Errorf("memory image of %d bytes exceeds maximum of %d", len(image), uint64(MaxMemorySize))
	}
	return &VMState{Memory: NewMemory(image)}, nil
}

func (state *VMState) PC() uint32 {
	return state.WordRegisters[tomtel.RegPC-1]
}

func (state *VMState) GetStep() uint64 {
	return state.Step
}

func (state *VMState) Ptr() uint32 {
	return state.WordRegisters[tomtel.RegPtr-1]
}

// Instr returns the opcode byte at pc, or false if pc is outside memory.
func (state *VMState) Instr() (byte, bool) {
	b, err := state.Memory.GetByte(uint64(state.PC()))
	return b, err == nil
}

// Status is the witness status byte of the state.
func (state *VMState) Status() uint8 {
	switch {
	case !state.Exited:
		return tomtel.VMStatusUnfinished
	case state.ExitCode == tomtel.ExitHalted:
		return tomtel.VMStatusHalted
	default:
		return tomtel.VMStatusFaulted
	}
}

const StateWitnessSize = 32 + tomtel.NumByteRegisters + 4*tomtel.NumWordRegisters + 1 + 1 + 8 + 32

type StateWitness []byte

func (state *VMState) EncodeWitness() StateWitness {
	out := make([]byte, 0, StateWitnessSize)
	memRoot := state.Memory.Digest()
	out = append(out, memRoot[:]...)
	out = append(out, state.ByteRegisters[:]...)
	for _, r := range state.WordRegisters {
		out = binary.BigEndian.AppendUint32(out, r)
	}
	out = append(out, state.ExitCode)
	if state.Exited {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = binary.BigEndian.AppendUint64(out, state.Step)
	outRoot := state.Output.Digest()
	out = append(out, outRoot[:]...)
	return out
}

// StateHash is the Keccak-256 of the witness with its first byte replaced
// by the VM status.
func (sw StateWitness) StateHash() (common.Hash, error) {
	if len(sw) != StateWitnessSize {
		return common.Hash{}, fmt.Errorf("invalid witness length: got %d, expected %d", len(sw), StateWitnessSize)
	}
	hash := crypto.Keccak256Hash(sw)
	hash[0] = witnessStatus(sw)
	return hash, nil
}

func witnessStatus(sw StateWitness) uint8 {
	exitCode := sw[32+tomtel.NumByteRegisters+4*tomtel.NumWordRegisters]
	exited := sw[32+tomtel.NumByteRegisters+4*tomtel.NumWordRegisters+1]
	switch {
	case exited == 0:
		return tomtel.VMStatusUnfinished
	case exitCode == tomtel.ExitHalted:
		return tomtel.VMStatusHalted
	default:
		return tomtel.VMStatusFaulted
	}
}
