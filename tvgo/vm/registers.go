package vm

import (
	"github.com/fstdo/tomtel/tvgo/tomtel"
)

// byteRegisterIndex maps a physical byte register selector to its slot in
// ByteRegisters. Selector 0 and anything past f are undefined.
func byteRegisterIndex(sel uint8) int {
	if sel < tomtel.RegA || sel > tomtel.RegF {
		raise(ErrRegister, "undefined byte register %d", sel)
	}
	return int(sel - 1)
}

func wordRegisterIndex(sel uint8) int {
	if sel < tomtel.RegLA || sel > tomtel.RegPC {
		raise(ErrRegister, "undefined word register %d", sel)
	}
	return int(sel - 1)
}

// indirectAddr is ptr + c. It is computed in 64 bits so it cannot wrap
// back into the image.
func (state *VMState) indirectAddr() uint64 {
	return uint64(state.Ptr()) + uint64(state.ByteRegisters[tomtel.RegC-1])
}

func (state *VMState) loadByteRegister(sel uint8) uint8 {
	if sel == tomtel.RegPtrC {
		addr := state.indirectAddr()
		state.trackMemAccess(addr, false)
		return state.loadMem(addr)
	}
	return state.ByteRegisters[byteRegisterIndex(sel)]
}

func (state *VMState) writeByteRegister(sel uint8, v uint8) {
	if sel == tomtel.RegPtrC {
		addr := state.indirectAddr()
		state.trackMemAccess(addr, true)
		state.storeMem(addr, v)
		return
	}
	state.ByteRegisters[byteRegisterIndex(sel)] = v
}

func (state *VMState) loadWordRegister(sel uint8) uint32 {
	return state.WordRegisters[wordRegisterIndex(sel)]
}

func (state *VMState) writeWordRegister(sel uint8, v uint32) {
	state.WordRegisters[wordRegisterIndex(sel)] = v
}

func (state *VMState) getPC() uint32 {
	return state.WordRegisters[tomtel.RegPC-1]
}

func (state *VMState) setPC(pc uint32) {
	state.WordRegisters[tomtel.RegPC-1] = pc
}

func (state *VMState) loadMem(addr uint64) uint8 {
	v, err := state.Memory.GetByte(addr)
	if err != nil {
		raise(ErrMemoryBounds, "load from %#x outside image of %d bytes", addr, state.Memory.Size())
	}
	return v
}

func (state *VMState) storeMem(addr uint64, v uint8) {
	if err := state.Memory.SetByte(addr, v); err != nil {
		raise(ErrMemoryBounds, "store to %#x outside image of %d bytes", addr, state.Memory.Size())
	}
}

func (state *VMState) trackMemAccess(addr uint64, write bool) {
	if state.onMemAccess != nil {
		state.onMemAccess(addr, write)
	}
}

// ByteRegister reads a byte register or the (ptr+c) cell without running
// an instruction.
func (state *VMState) ByteRegister(sel uint8) (v uint8, err error) {
	defer state.recoverFault(&err)
	return state.loadByteRegister(sel), nil
}

func (state *VMState) WordRegister(sel uint8) (v uint32, err error) {
	defer state.recoverFault(&err)
	return state.loadWordRegister(sel), nil
}

func (state *VMState) recoverFault(err *error) {
	if r := recover(); r != nil {
		f, ok := r.(*Fault)
		if !ok {
			panic(r)
		}
		f.PC = state.getPC()
		f.Step = state.Step
		*err = f
	}
}
