package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	cannon "github.com/ethereum-optimism/optimism/cannon/cmd"
	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/fstdo/tomtel/tvgo/vm"
)

var OutFilePerm = os.FileMode(0o755)

func loadRunState(ctx *cli.Context) (*vm.VMState, error) {
	input := ctx.Path(RunInputFlag.Name)
	image := ctx.Path(RunImageFlag.Name)
	switch {
	case input != "" && image != "":
		return nil, fmt.Errorf("--%s and --%s are mutually exclusive", RunInputFlag.Name, RunImageFlag.Name)
	case input != "":
		state, err := vm.LoadVMStateFromFile(input)
		if err != nil {
			return nil, fmt.Errorf("invalid input state (%v): %w", input, err)
		}
		return state, nil
	case image != "":
		format, err := vm.ParseImageFormat(ctx.String(RunImageFormatFlag.Name))
		if err != nil {
			return nil, err
		}
		return vm.LoadVMStateFromImage(image, format)
	default:
		return nil, fmt.Errorf("one of --%s or --%s is required", RunInputFlag.Name, RunImageFlag.Name)
	}
}

// programOutput opens the destination of the program's bytes. The returned
// close func is never nil.
func programOutput(ctx *cli.Context, path string) (io.Writer, func() error, error) {
	switch path {
	case "":
		return nil, func() error { return nil }, nil
	case "-":
		return ctx.App.Writer, func() error { return nil }, nil
	default:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OutFilePerm)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open program output %q: %w", path, err)
		}
		return f, f.Close, nil
	}
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	lvl, err := ParseLogLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return err
	}
	l := Logger(ctx.App.ErrWriter, lvl)

	state, err := loadRunState(ctx)
	if err != nil {
		return err
	}

	stopAt, err := stepMatcher(ctx, RunStopAtFlag)
	if err != nil {
		return err
	}
	snapshotAt, err := stepMatcher(ctx, RunSnapshotAtFlag)
	if err != nil {
		return err
	}
	infoAt, err := stepMatcher(ctx, RunInfoAtFlag)
	if err != nil {
		return err
	}
	snapshotFmt := ctx.String(RunSnapshotFmtFlag.Name)
	maxSteps := ctx.Uint64(RunMaxStepsFlag.Name)

	progOut, closeProgOut, err := programOutput(ctx, ctx.Path(RunProgramOutputFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeProgOut(); err != nil {
			l.Error("failed to close program output", "err", err)
		}
	}()
	outLog := &LoggingWriter{Name: "program output", Log: l}
	var sink io.Writer = outLog
	if progOut != nil {
		sink = io.MultiWriter(progOut, outLog)
	}

	us := vm.NewInstrumentedState(state, sink)
	outputPath := ctx.Path(cannon.RunOutputFlag.Name)

	start := time.Now()
	startStep := state.Step

	for !state.Exited {
		if state.Step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}

		step := state.Step

		if infoAt(state) {
			delta := time.Since(start)
			insn, _ := state.Instr()
			l.Info("processing",
				"step", step,
				"pc", HexU32(state.PC()),
				"insn", fmt.Sprintf("%02x", insn),
				"ips", float64(step-startStep)/(float64(delta)/float64(time.Second)),
				"ptr", HexU32(state.Ptr()),
				"out", state.Output.Len(),
			)
		}

		if stopAt(state) {
			l.Info("stopping", "step", step, "pc", HexU32(state.PC()))
			break
		}

		if maxSteps != 0 && step-startStep >= maxSteps {
			if err := jsonutil.WriteJSON(outputPath, state, OutFilePerm); err != nil {
				return fmt.Errorf("failed to write state output: %w", err)
			}
			return fmt.Errorf("%w: program did not halt within %d steps (PC: %08x)", vm.ErrStepLimit, maxSteps, state.PC())
		}

		if snapshotAt(state) {
			if err := jsonutil.WriteJSON(fmt.Sprintf(snapshotFmt, step), state, OutFilePerm); err != nil {
				return fmt.Errorf("failed to write state snapshot: %w", err)
			}
		}

		pc := state.PC()
		if err := us.Step(); err != nil {
			if writeErr := jsonutil.WriteJSON(outputPath, state, OutFilePerm); writeErr != nil {
				l.Error("failed to write state output", "err", writeErr)
			}
			return fmt.Errorf("failed at step %d (PC: %08x): %w", step, pc, err)
		}
		if l.Enabled(ctx.Context, log.LevelTrace) {
			logStep(l, us, step)
		}
	}

	if state.Exited {
		l.Info("halted", "step", state.Step, "pc", HexU32(state.PC()), "out", state.Output.Len())
	}
	if err := jsonutil.WriteJSON(outputPath, state, OutFilePerm); err != nil {
		return fmt.Errorf("failed to write state output: %w", err)
	}
	return nil
}

func logStep(l log.Logger, us *vm.InstrumentedState, step uint64) {
	insn, ok := us.LastInstruction()
	if !ok {
		return
	}
	ctx := []any{"step", step, "pc", HexU32(insn.Addr), "insn", insn.String()}
	for _, acc := range us.MemAccess() {
		if acc.Write {
			ctx = append(ctx, "store", hexutil.Uint64(acc.Addr))
		} else {
			ctx = append(ctx, "load", hexutil.Uint64(acc.Addr))
		}
	}
	l.Trace("step", ctx...)
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a Tomtel program until it halts.",
	Description: "Run a Tomtel program until it halts or faults. See flags to match when to output a snapshot, log progress, or to stop early.",
	Action:      Run,
	Flags: []cli.Flag{
		RunInputFlag,
		RunImageFlag,
		RunImageFormatFlag,
		cannon.RunOutputFlag,
		RunProgramOutputFlag,
		RunStopAtFlag,
		RunSnapshotAtFlag,
		RunSnapshotFmtFlag,
		RunInfoAtFlag,
		RunMaxStepsFlag,
		RunPProfCPUFlag,
		LogLevelFlag,
	},
}
