package vm

import "fmt"

type Line struct {
	Addr  uint32
	Bytes []byte
	Text  string
}

func (l Line) String() string {
	return fmt.Sprintf("%08x  % -15x  %s", l.Addr, l.Bytes, l.Text)
}

// Disassemble decodes mem linearly from start. Bytes that are not an
// instruction, or start one that runs past the end, are listed as data.
// Self-modifying programs may execute something else.
func Disassemble(mem []byte, start uint32) []Line {
	var out []Line
	for addr := uint64(start); addr < uint64(len(mem)); {
		b := mem[addr]
		form, ok := Decode(b)
		if !ok || addr+uint64(form.Length) > uint64(len(mem)) {
			out = append(out, Line{Addr: uint32(addr), Bytes: []byte{b}, Text: fmt.Sprintf(".byte 0x%02x", b)})
			addr++
			continue
		}
		insn := newInstruction(form.Op, uint32(addr), mem[addr:addr+uint64(form.Length)])
		out = append(out, Line{Addr: uint32(addr), Bytes: insn.Bytes(), Text: insn.String()})
		addr += uint64(form.Length)
	}
	return out
}
