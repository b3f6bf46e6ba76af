package tomtel

import "fmt"

// Fixed-value opcode bytes.
const (
	OpcodeADD  = 0xC2
	OpcodeAPTR = 0xE1
	OpcodeCMP  = 0xC1
	OpcodeHALT = 0x01
	OpcodeJEZ  = 0x21
	OpcodeJNZ  = 0x22
	OpcodeOUT  = 0x02
	OpcodeSUB  = 0xC3
	OpcodeXOR  = 0xC4
)

// Mask/value pairs of the register-move forms.
const (
	MaskMVI    = 0b1100_0111
	ValueMVI   = 0b0100_0000
	MaskMVI32  = 0b1100_0111
	ValueMVI32 = 0b1000_0000
	MaskMV     = 0b1100_0000
	ValueMV    = 0b0100_0000
	MaskMV32   = 0b1100_0000
	ValueMV32  = 0b1000_0000
)

// Byte register selectors. RegPtrC is not a physical register,
// it addresses memory[ptr+c].
const (
	RegA    = 1
	RegB    = 2
	RegC    = 3
	RegD    = 4
	RegE    = 5
	RegF    = 6
	RegPtrC = 7
)

// Word register selectors.
const (
	RegLA  = 1
	RegLB  = 2
	RegLC  = 3
	RegLD  = 4
	RegPtr = 5
	RegPC  = 6
)

const (
	NumByteRegisters = 6
	NumWordRegisters = 6
)

const (
	ExitHalted            = 0
	ExitDecodeFault       = 1
	ExitRegisterFault     = 2
	ExitMemoryBoundsFault = 3
)

// Status byte placed in front of a state hash.
const (
	VMStatusHalted     = 0
	VMStatusFaulted    = 2
	VMStatusUnfinished = 3
)

var byteRegisterNames = [...]string{"", "a", "b", "c", "d", "e", "f", "(ptr+c)"}

var wordRegisterNames = [...]string{"", "la", "lb", "lc", "ld", "ptr", "pc"}

func ByteRegisterName(sel uint8) string {
	if sel == 0 || int(sel) >= len(byteRegisterNames) {
		return fmt.Sprintf("?%d", sel)
	}
	return byteRegisterNames[sel]
}

func WordRegisterName(sel uint8) string {
	if sel == 0 || int(sel) >= len(wordRegisterNames) {
		return fmt.Sprintf("?%d", sel)
	}
	return wordRegisterNames[sel]
}
