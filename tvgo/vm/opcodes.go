package vm

import (
	"fmt"

	"github.com/fstdo/tomtel/tvgo/tomtel"
)

type Op uint8

const (
	OpADD Op = iota + 1
	OpAPTR
	OpCMP
	OpHALT
	OpJEZ
	OpJNZ
	OpMVI
	OpMVI32
	OpMV
	OpMV32
	OpOUT
	OpSUB
	OpXOR
)

var opNames = [...]string{
	OpADD:   "ADD",
	OpAPTR:  "APTR",
	OpCMP:   "CMP",
	OpHALT:  "HALT",
	OpJEZ:   "JEZ",
	OpJNZ:   "JNZ",
	OpMVI:   "MVI",
	OpMVI32: "MVI32",
	OpMV:    "MV",
	OpMV32:  "MV32",
	OpOUT:   "OUT",
	OpSUB:   "SUB",
	OpXOR:   "XOR",
}

func (op Op) String() string {
	if op == 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	return opNames[op]
}

// Form is one instruction encoding: a fetched byte b belongs to the form
// when b&Mask == Value.
type Form struct {
	Op     Op
	Mask   uint8
	Value  uint8
	Length uint32

	exec func(state *VMState, insn Instruction)
}

func (f Form) Matches(b byte) bool {
	return b&f.Mask == f.Value
}

// forms is tested in order and the first match wins. MVI and MVI32 must
// precede MV and MV32: they are the same patterns with the source bits
// constrained to zero.
var forms = [...]Form{
	{OpADD, 0xFF, tomtel.OpcodeADD, 1, execADD},
	{OpAPTR, 0xFF, tomtel.OpcodeAPTR, 2, execAPTR},
	{OpCMP, 0xFF, tomtel.OpcodeCMP, 1, execCMP},
	{OpHALT, 0xFF, tomtel.OpcodeHALT, 1, execHALT},
	{OpJEZ, 0xFF, tomtel.OpcodeJEZ, 5, execJEZ},
	{OpJNZ, 0xFF, tomtel.OpcodeJNZ, 5, execJNZ},
	{OpMVI, tomtel.MaskMVI, tomtel.ValueMVI, 2, execMVI},
	{OpMVI32, tomtel.MaskMVI32, tomtel.ValueMVI32, 5, execMVI32},
	{OpMV, tomtel.MaskMV, tomtel.ValueMV, 1, execMV},
	{OpMV32, tomtel.MaskMV32, tomtel.ValueMV32, 1, execMV32},
	{OpOUT, 0xFF, tomtel.OpcodeOUT, 1, execOUT},
	{OpSUB, 0xFF, tomtel.OpcodeSUB, 1, execSUB},
	{OpXOR, 0xFF, tomtel.OpcodeXOR, 1, execXOR},
}

// Forms returns the opcode table in priority order.
func Forms() []Form {
	out := make([]Form, len(forms))
	copy(out, forms[:])
	return out
}

// Decode resolves the form of an opcode byte.
func Decode(b byte) (Form, bool) {
	for _, f := range forms {
		if f.Matches(b) {
			return f, true
		}
	}
	return Form{}, false
}
