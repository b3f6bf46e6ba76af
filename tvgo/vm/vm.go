package vm

import (
	"fmt"

	"github.com/fstdo/tomtel/tvgo/tomtel"
)

// Step runs a single instruction. Faults end the run: the state is marked
// exited with the fault's exit code and the fault is returned.
func Step(state *VMState) (outErr error) {
	if state.Exited {
		return ErrExited
	}
	pc := state.getPC()
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				outErr = fmt.Errorf("err: %v", r)
				return
			}
			f.PC = pc
			f.Step = state.Step
			state.Exited = true
			state.ExitCode = f.ExitCode()
			outErr = f
		}
	}()

	form, insn := fetch(state, pc)
	if state.onFetch != nil {
		state.onFetch(insn)
	}
	// pc moves past the instruction before it executes, jumps overwrite it
	state.setPC(pc + form.Length)
	form.exec(state, insn)
	state.Step++
	return nil
}

// fetch reads and decodes the instruction at pc, always from memory: the
// program may have rewritten it.
func fetch(state *VMState, pc uint32) (Form, Instruction) {
	opcode := state.loadMem(uint64(pc))
	form, ok := Decode(opcode)
	if !ok {
		raise(ErrDecode, "byte 0x%02x is not an instruction", opcode)
	}
	raw, err := state.Memory.Range(uint64(pc), uint64(form.Length))
	if err != nil {
		raise(ErrDecode, "%s needs %d bytes, image ends at %#x", form.Op, form.Length, state.Memory.Size())
	}
	return form, newInstruction(form.Op, pc, raw)
}

// Run executes image until HALT. There is no step limit. On a fault the
// output produced so far is returned along with the fault.
func Run(image []byte) ([]byte, error) {
	state, err := NewVMState(image)
	if err != nil {
		return nil, err
	}
	for !state.Exited {
		if err := Step(state); err != nil {
			return state.Output.Bytes(), err
		}
	}
	return state.Output.Bytes(), nil
}

func execHALT(state *VMState, _ Instruction) {
	state.Exited = true
	state.ExitCode = tomtel.ExitHalted
}

// ADD a <- b, modulo 256
func execADD(state *VMState, _ Instruction) {
	a := state.loadByteRegister(tomtel.RegA)
	b := state.loadByteRegister(tomtel.RegB)
	state.writeByteRegister(tomtel.RegA, a+b)
}

// SUB a <- b, modulo 256
func execSUB(state *VMState, _ Instruction) {
	a := state.loadByteRegister(tomtel.RegA)
	b := state.loadByteRegister(tomtel.RegB)
	state.writeByteRegister(tomtel.RegA, a-b)
}

func execXOR(state *VMState, _ Instruction) {
	a := state.loadByteRegister(tomtel.RegA)
	b := state.loadByteRegister(tomtel.RegB)
	state.writeByteRegister(tomtel.RegA, a^b)
}

func execCMP(state *VMState, _ Instruction) {
	var f uint8
	if state.loadByteRegister(tomtel.RegA) != state.loadByteRegister(tomtel.RegB) {
		f = 1
	}
	state.writeByteRegister(tomtel.RegF, f)
}

func execOUT(state *VMState, _ Instruction) {
	state.Output.Append(state.loadByteRegister(tomtel.RegA))
}

// APTR imm8. ptr wraps modulo 2^32.
func execAPTR(state *VMState, insn Instruction) {
	ptr := state.loadWordRegister(tomtel.RegPtr)
	state.writeWordRegister(tomtel.RegPtr, ptr+uint32(insn.Imm8()))
}

func execJEZ(state *VMState, insn Instruction) {
	if state.loadByteRegister(tomtel.RegF) == 0 {
		state.setPC(insn.Imm32())
	}
}

func execJNZ(state *VMState, insn Instruction) {
	if state.loadByteRegister(tomtel.RegF) != 0 {
		state.setPC(insn.Imm32())
	}
}

func execMV(state *VMState, insn Instruction) {
	if insn.Src() == 0 {
		// Unreachable through Decode, MVI claims these bytes first.
		// Behaves as MVI: the next byte is the immediate.
		imm := state.loadOperand(insn.Addr + 1)
		state.setPC(insn.Addr + 2)
		state.writeByteRegister(insn.Dest(), imm)
		return
	}
	state.writeByteRegister(insn.Dest(), state.loadByteRegister(insn.Src()))
}

func execMV32(state *VMState, insn Instruction) {
	state.writeWordRegister(insn.Dest(), state.loadWordRegister(insn.Src()))
}

func execMVI(state *VMState, insn Instruction) {
	state.writeByteRegister(insn.Dest(), insn.Imm8())
}

func execMVI32(state *VMState, insn Instruction) {
	state.writeWordRegister(insn.Dest(), insn.Imm32())
}

// loadOperand reads an instruction byte. A missing operand is a truncated
// program, not a bounds fault.
func (state *VMState) loadOperand(addr uint32) uint8 {
	v, err := state.Memory.GetByte(uint64(addr))
	if err != nil {
		raise(ErrDecode, "operand at %#x missing, image ends at %#x", addr, state.Memory.Size())
	}
	return v
}
