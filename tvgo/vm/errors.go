package vm

import (
	"errors"
	"fmt"

	"github.com/fstdo/tomtel/tvgo/tomtel"
)

var (
	ErrDecode       = errors.New("decode fault")
	ErrRegister     = errors.New("register fault")
	ErrMemoryBounds = errors.New("memory-bounds fault")

	ErrExited     = errors.New("vm has already exited")
	ErrStepLimit  = errors.New("step limit reached")
	ErrEmptyImage = errors.New("memory image is empty")
)

// Fault is an unrecoverable run-time condition. Kind is one of ErrDecode,
// ErrRegister or ErrMemoryBounds.
type Fault struct {
	Kind   error
	Detail string
	PC     uint32 // address of the faulting instruction
	Step   uint64
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v at step %d (PC: %08x): %s", f.Kind, f.Step, f.PC, f.Detail)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

// ExitCode is the code recorded in the state when f terminates a run.
func (f *Fault) ExitCode() uint8 {
	switch f.Kind {
	case ErrDecode:
		return tomtel.ExitDecodeFault
	case ErrRegister:
		return tomtel.ExitRegisterFault
	case ErrMemoryBounds:
		return tomtel.ExitMemoryBoundsFault
	default:
		panic(fmt.Errorf("unknown fault kind: %w", f.Kind))
	}
}

// raise aborts the current step. It is recovered by Step.
func raise(kind error, format string, args ...any) {
	panic(&Fault{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}
