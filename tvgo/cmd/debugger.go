package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/fstdo/tomtel/tvgo/tomtel"
	"github.com/fstdo/tomtel/tvgo/vm"
)

var errQuit = errors.New("quit")

const debuggerHelp = `commands:
  s, step [n]          execute n instructions (default 1)
  c, continue          run until halt, fault or breakpoint
  b, break <addr>      toggle a breakpoint at addr
  r, regs              print registers
  x, mem <addr> [n]    dump n bytes of memory (default 16)
  l, list [addr] [n]   disassemble n instructions from addr (default pc, 5)
  o, out               print program output so far
  q, quit              leave the debugger
`

// Debugger drives a VM one command at a time. Addresses accept 0x-prefixed
// hex or decimal.
type Debugger struct {
	us     *vm.InstrumentedState
	out    io.Writer
	breaks map[uint32]struct{}
}

func NewDebugger(state *vm.VMState, out io.Writer) *Debugger {
	return &Debugger{
		us:     vm.NewInstrumentedState(state, nil),
		out:    out,
		breaks: make(map[uint32]struct{}),
	}
}

// Exec runs a single command line. errQuit is returned for quit.
func (d *Debugger) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]
	switch fields[0] {
	case "s", "step":
		n, err := optUint(args, 0, 1)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := d.step(); err != nil {
				return err
			}
		}
		return nil
	case "c", "continue":
		return d.cont(ctx)
	case "b", "break":
		if len(args) != 1 {
			return errors.New("usage: break <addr>")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		if _, ok := d.breaks[addr]; ok {
			delete(d.breaks, addr)
			d.printf("breakpoint %08x removed\n", addr)
		} else {
			d.breaks[addr] = struct{}{}
			d.printf("breakpoint %08x set\n", addr)
		}
		return nil
	case "r", "regs":
		d.regs()
		return nil
	case "x", "mem":
		if len(args) == 0 {
			return errors.New("usage: mem <addr> [n]")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		n, err := optUint(args, 1, 16)
		if err != nil {
			return err
		}
		mem := d.us.State().Memory
		if end := uint64(addr) + n; end > mem.Size() {
			n = mem.Size() - min(uint64(addr), mem.Size())
		}
		b, err := mem.Range(uint64(addr), n)
		if err != nil {
			return err
		}
		d.printf("%08x  % x\n", addr, b)
		return nil
	case "l", "list":
		state := d.us.State()
		addr := state.PC()
		if len(args) > 0 {
			var err error
			if addr, err = parseAddr(args[0]); err != nil {
				return err
			}
		}
		n, err := optUint(args, 1, 5)
		if err != nil {
			return err
		}
		mem, err := state.Memory.Range(0, state.Memory.Size())
		if err != nil {
			return err
		}
		for i, l := range vm.Disassemble(mem, addr) {
			if uint64(i) >= n {
				break
			}
			d.printf("%s\n", l)
		}
		return nil
	case "o", "out":
		d.printf("%q\n", d.us.State().Output.Bytes())
		return nil
	case "h", "help":
		d.printf("%s", debuggerHelp)
		return nil
	case "q", "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

func (d *Debugger) step() error {
	state := d.us.State()
	if state.Exited {
		return vm.ErrExited
	}
	err := d.us.Step()
	if insn, ok := d.us.LastInstruction(); ok {
		d.printf("%08x  %s\n", insn.Addr, insn)
	}
	for _, acc := range d.us.MemAccess() {
		if acc.Write {
			d.printf("          store %08x\n", acc.Addr)
		} else {
			d.printf("          load  %08x\n", acc.Addr)
		}
	}
	if err != nil {
		return err
	}
	if state.Exited {
		d.printf("halted after %d steps\n", state.Step)
	}
	return nil
}

func (d *Debugger) cont(ctx context.Context) error {
	state := d.us.State()
	if state.Exited {
		return vm.ErrExited
	}
	first := true
	for !state.Exited {
		if state.Step%100 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, ok := d.breaks[state.PC()]; ok && !first {
			d.printf("breakpoint %08x at step %d\n", state.PC(), state.Step)
			return nil
		}
		first = false
		if err := d.us.Step(); err != nil {
			return err
		}
	}
	d.printf("halted after %d steps\n", state.Step)
	return nil
}

func (d *Debugger) regs() {
	state := d.us.State()
	var sb strings.Builder
	for sel := uint8(tomtel.RegA); sel <= tomtel.RegF; sel++ {
		fmt.Fprintf(&sb, "%s=%02x ", tomtel.ByteRegisterName(sel), state.ByteRegisters[sel-1])
	}
	sb.WriteString("\n")
	for sel := uint8(tomtel.RegLA); sel <= tomtel.RegPC; sel++ {
		fmt.Fprintf(&sb, "%s=%08x ", tomtel.WordRegisterName(sel), state.WordRegisters[sel-1])
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "step=%d exited=%t exit=%d\n", state.Step, state.Exited, state.ExitCode)
	if len(d.breaks) > 0 {
		addrs := make([]uint32, 0, len(d.breaks))
		for addr := range d.breaks {
			addrs = append(addrs, addr)
		}
		slices.Sort(addrs)
		sb.WriteString("breakpoints:")
		for _, addr := range addrs {
			fmt.Fprintf(&sb, " %08x", addr)
		}
		sb.WriteString("\n")
	}
	d.printf("%s", sb.String())
}

func (d *Debugger) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}

func optUint(args []string, i int, def uint64) (uint64, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.ParseUint(args[i], 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", args[i], err)
	}
	return v, nil
}

func Debug(ctx *cli.Context) error {
	state, err := loadRunState(ctx)
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "(tvgo) ",
		HistoryFile: ctx.Path(DebugHistoryFlag.Name),
		Stdin:       io.NopCloser(ctx.App.Reader),
		Stdout:      ctx.App.Writer,
		Stderr:      ctx.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	defer rl.Close()

	d := NewDebugger(state, rl.Stdout())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if err := d.Exec(ctx.Context, line); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			if ctxErr := ctx.Context.Err(); ctxErr != nil {
				return ctxErr
			}
			d.printf("error: %v\n", err)
		}
	}
}

var DebugCommand = &cli.Command{
	Name:        "debug",
	Usage:       "Interactively step through a Tomtel program",
	Description: "Step through a Tomtel program at an interactive prompt. Type help for the command list.",
	Action:      Debug,
	Flags: []cli.Flag{
		RunInputFlag,
		RunImageFlag,
		RunImageFormatFlag,
		DebugHistoryFlag,
	},
}
