package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fstdo/tomtel/tvgo/vm"
)

func newTestDebugger(t *testing.T, image []byte) (*Debugger, *bytes.Buffer) {
	t.Helper()
	state, err := vm.NewVMState(image)
	require.NoError(t, err)
	var buf bytes.Buffer
	return NewDebugger(state, &buf), &buf
}

// MVI a <- 'A'; OUT a; MVI a <- 'B'; OUT a; HALT
var debugImage = []byte{0x48, 'A', 0x02, 0x48, 'B', 0x02, 0x01}

func TestDebuggerStep(t *testing.T) {
	d, buf := newTestDebugger(t, debugImage)
	ctx := context.Background()

	require.NoError(t, d.Exec(ctx, "step"))
	require.Equal(t, "00000000  MVI a <- 0x41\n", buf.String())

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "s 2"))
	require.Equal(t, "00000002  OUT a\n00000003  MVI a <- 0x42\n", buf.String())

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "out"))
	require.Equal(t, "\"A\"\n", buf.String())

	require.NoError(t, d.Exec(ctx, "s 2"))
	require.True(t, d.us.State().Exited)
	require.ErrorIs(t, d.Exec(ctx, "step"), vm.ErrExited)
	require.ErrorIs(t, d.Exec(ctx, "continue"), vm.ErrExited)
}

func TestDebuggerBreakpoint(t *testing.T) {
	d, buf := newTestDebugger(t, debugImage)
	ctx := context.Background()

	require.NoError(t, d.Exec(ctx, "b 0x5"))
	require.Contains(t, buf.String(), "breakpoint 00000005 set")

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "c"))
	require.Equal(t, "breakpoint 00000005 at step 3\n", buf.String())
	require.Equal(t, uint32(5), d.us.State().PC())

	// continuing from a breakpoint moves past it
	buf.Reset()
	require.NoError(t, d.Exec(ctx, "c"))
	require.Equal(t, "halted after 5 steps\n", buf.String())
	require.Equal(t, []byte("AB"), d.us.State().Output.Bytes())

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "b 5"))
	require.Contains(t, buf.String(), "removed")
}

func TestDebuggerInspect(t *testing.T) {
	d, buf := newTestDebugger(t, debugImage)
	ctx := context.Background()

	require.NoError(t, d.Exec(ctx, "s"))
	buf.Reset()
	require.NoError(t, d.Exec(ctx, "regs"))
	require.Contains(t, buf.String(), "a=41 b=00")
	require.Contains(t, buf.String(), "pc=00000002")
	require.Contains(t, buf.String(), "step=1 exited=false exit=0")

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "mem 0 3"))
	require.Equal(t, "00000000  48 41 02\n", buf.String())

	// clamped to the end of memory
	buf.Reset()
	require.NoError(t, d.Exec(ctx, "x 5"))
	require.Equal(t, "00000005  02 01\n", buf.String())

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "list"))
	require.Contains(t, buf.String(), "OUT a")
	require.Contains(t, buf.String(), "HALT")
	require.NotContains(t, buf.String(), "MVI a <- 0x41")

	buf.Reset()
	require.NoError(t, d.Exec(ctx, "l 0 1"))
	require.Contains(t, buf.String(), "MVI a <- 0x41")
	require.NotContains(t, buf.String(), "OUT a")
}

func TestDebuggerFaultAccess(t *testing.T) {
	// MVI32 ptr <- 0x10; MV a <- (ptr+c)
	d, buf := newTestDebugger(t, []byte{0xA8, 0x10, 0x00, 0x00, 0x00, 0x4F})
	ctx := context.Background()

	require.NoError(t, d.Exec(ctx, "s"))
	buf.Reset()
	err := d.Exec(ctx, "s")
	require.ErrorIs(t, err, vm.ErrMemoryBounds)
	require.Contains(t, buf.String(), "MV a <- (ptr+c)")
	require.Contains(t, buf.String(), "load  00000010")
}

func TestDebuggerCommands(t *testing.T) {
	d, buf := newTestDebugger(t, debugImage)
	ctx := context.Background()

	require.NoError(t, d.Exec(ctx, ""))
	require.NoError(t, d.Exec(ctx, "help"))
	require.Contains(t, buf.String(), "continue")
	require.ErrorIs(t, d.Exec(ctx, "quit"), errQuit)
	require.ErrorContains(t, d.Exec(ctx, "jump"), "unknown command")
	require.ErrorContains(t, d.Exec(ctx, "break"), "usage")
	require.ErrorContains(t, d.Exec(ctx, "break zz"), "invalid address")
	require.ErrorContains(t, d.Exec(ctx, "step x"), "invalid count")
	require.ErrorIs(t, d.Exec(ctx, "mem 0x100"), vm.ErrMemoryBounds)
}

func TestDebuggerBreakpointList(t *testing.T) {
	d, buf := newTestDebugger(t, debugImage)
	ctx := context.Background()

	for _, addr := range []string{"6", "0x2", "3"} {
		require.NoError(t, d.Exec(ctx, "break "+addr))
	}
	buf.Reset()
	require.NoError(t, d.Exec(ctx, "regs"))
	require.Contains(t, buf.String(), "breakpoints: 00000002 00000003 00000006\n")
}
