package vm

import (
	"context"
	"fmt"
	"io"
)

type MemAccess struct {
	Addr  uint64
	Write bool
}

type InstrumentedState struct {
	state *VMState

	output io.Writer
	// bytes of state.Output already written to output
	flushed int

	memAccess []MemAccess
	lastInsn  Instruction
	lastOK    bool
}

// NewInstrumentedState wraps state. Program output is written to output, if
// not nil, once the run terminates.
func NewInstrumentedState(state *VMState, output io.Writer) *InstrumentedState {
	m := &InstrumentedState{
		state:  state,
		output: output,
	}
	state.onMemAccess = m.trackMemAccess
	state.onFetch = m.trackFetch
	return m
}

func (m *InstrumentedState) State() *VMState {
	return m.state
}

func (m *InstrumentedState) Step() error {
	m.memAccess = m.memAccess[:0]
	m.lastOK = false
	err := Step(m.state)
	if m.state.Exited {
		if flushErr := m.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}
	return err
}

// Run steps until the state exits. maxSteps of 0 means no limit, otherwise
// ErrStepLimit is returned once that many steps ran without exiting.
func (m *InstrumentedState) Run(ctx context.Context, maxSteps uint64) error {
	var steps uint64
	for !m.state.Exited {
		if steps%100 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if maxSteps != 0 && steps >= maxSteps {
			return fmt.Errorf("%w: %d steps", ErrStepLimit, maxSteps)
		}
		if err := m.Step(); err != nil {
			return err
		}
		steps++
	}
	return nil
}

// Flush writes output that has not been written yet.
func (m *InstrumentedState) Flush() error {
	if m.output == nil {
		return nil
	}
	pending := m.state.Output.since(m.flushed)
	if len(pending) == 0 {
		return nil
	}
	if _, err := m.output.Write(pending); err != nil {
		return fmt.Errorf("failed to write program output: %w", err)
	}
	m.flushed += len(pending)
	return nil
}

func (m *InstrumentedState) trackMemAccess(addr uint64, write bool) {
	m.memAccess = append(m.memAccess, MemAccess{Addr: addr, Write: write})
}

func (m *InstrumentedState) trackFetch(insn Instruction) {
	m.lastInsn = insn
	m.lastOK = true
}

// MemAccess lists the (ptr+c) accesses of the last step, including one
// that faulted.
func (m *InstrumentedState) MemAccess() []MemAccess {
	return m.memAccess
}

// LastInstruction is the instruction decoded by the last step, false if
// the step faulted before decoding.
func (m *InstrumentedState) LastInstruction() (Instruction, bool) {
	return m.lastInsn, m.lastOK
}
