package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/fstdo/tomtel/tvgo/tomtel"
)

// Instruction is a decoded instruction and the bytes it was decoded from.
type Instruction struct {
	Op   Op
	Addr uint32

	raw [5]byte
	size uint8
}

func newInstruction(op Op, addr uint32, raw []byte) Instruction {
	insn := Instruction{Op: op, Addr: addr, size: uint8(len(raw))}
	copy(insn.raw[:], raw)
	return insn
}

func (insn Instruction) Bytes() []byte {
	out := make([]byte, insn.size)
	copy(out, insn.raw[:insn.size])
	return out
}

func (insn Instruction) Opcode() byte {
	return insn.raw[0]
}

// Dest is the DDD selector of 0b__DDDSSS.
func (insn Instruction) Dest() uint8 {
	return (insn.raw[0] >> 3) & 0b111
}

// Src is the SSS selector of 0b__DDDSSS.
func (insn Instruction) Src() uint8 {
	return insn.raw[0] & 0b111
}

func (insn Instruction) Imm8() uint8 {
	return insn.raw[1]
}

// Imm32 is the little-endian immediate of the 5-byte forms.
func (insn Instruction) Imm32() uint32 {
	return binary.LittleEndian.Uint32(insn.raw[1:5])
}

func (insn Instruction) String() string {
	byteReg := tomtel.ByteRegisterName
	wordReg := tomtel.WordRegisterName
	switch insn.Op {
	case OpADD:
		return "ADD a <- b"
	case OpSUB:
		return "SUB a <- b"
	case OpXOR:
		return "XOR a <- b"
	case OpCMP, OpHALT:
		return insn.Op.String()
	case OpOUT:
		return "OUT a"
	case OpAPTR:
		return fmt.Sprintf("APTR 0x%02x", insn.Imm8())
	case OpJEZ, OpJNZ:
		return fmt.Sprintf("%s 0x%08x", insn.Op, insn.Imm32())
	case OpMVI:
		return fmt.Sprintf("MVI %s <- 0x%02x", byteReg(insn.Dest()), insn.Imm8())
	case OpMVI32:
		return fmt.Sprintf("MVI32 %s <- 0x%08x", wordReg(insn.Dest()), insn.Imm32())
	case OpMV:
		return fmt.Sprintf("MV %s <- %s", byteReg(insn.Dest()), byteReg(insn.Src()))
	case OpMV32:
		return fmt.Sprintf("MV32 %s <- %s", wordReg(insn.Dest()), wordReg(insn.Src()))
	default:
		return fmt.Sprintf("%s %x", insn.Op, insn.Bytes())
	}
}
