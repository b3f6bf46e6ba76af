package cmd

import (
	"github.com/urfave/cli/v2"

	cannon "github.com/ethereum-optimism/optimism/cannon/cmd"
)

var (
	LoadImagePathFlag = &cli.PathFlag{
		Name:      "path",
		Usage:     "Path to memory image to load.",
		TakesFile: true,
		Required:  true,
	}
	ImageFormatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Memory image format: auto, raw or hex. Auto reads .hex and .txt files as hex listings.",
		Value: "auto",
	}
	LoadImageOutFlag = &cli.PathFlag{
		Name:     "output",
		Usage:    "Output path to write JSON state to. State is dumped to stdout if set to '-'.",
		Value:    "state.json",
		Required: false,
	}

	RunInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of input JSON state. Mutually exclusive with --image.",
		TakesFile: true,
	}
	RunImageFlag = &cli.PathFlag{
		Name:      "image",
		Usage:     "Path of memory image to start from. Mutually exclusive with --input.",
		TakesFile: true,
	}
	RunImageFormatFlag = &cli.StringFlag{
		Name:  "image.format",
		Usage: "Format of --image: auto, raw or hex.",
		Value: "auto",
	}
	RunProgramOutputFlag = &cli.PathFlag{
		Name:      "program-output",
		Usage:     "Path to write the bytes emitted by the program to. Not written if empty, stdout if '-'.",
		TakesFile: true,
	}
	RunStopAtFlag = &cli.GenericFlag{
		Name:  "stop-at",
		Usage: "step pattern to stop at: never, always, =123 at exactly step 123, %123 every 123 steps",
		Value: cannon.MustStepMatcherFlag("never"),
	}
	RunSnapshotAtFlag = &cli.GenericFlag{
		Name:  "snapshot-at",
		Usage: "step pattern to output a JSON state snapshot at",
		Value: cannon.MustStepMatcherFlag("never"),
	}
	RunSnapshotFmtFlag = &cli.StringFlag{
		Name:  "snapshot-fmt",
		Usage: "format for snapshot output file names.",
		Value: "state-%d.json",
	}
	RunInfoAtFlag = &cli.GenericFlag{
		Name:  "info-at",
		Usage: "step pattern to print info at",
		Value: cannon.MustStepMatcherFlag("%100000"),
	}
	RunMaxStepsFlag = &cli.Uint64Flag{
		Name:  "max-steps",
		Usage: "Fail once this many steps ran without the program halting. 0 means no limit.",
		Value: 0,
	}
	RunPProfCPUFlag = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "Log level: trace, debug, info, warn, error or crit.",
		Value: "info",
	}

	DisasmPathFlag = &cli.PathFlag{
		Name:      "path",
		Usage:     "Path of memory image to disassemble. Mutually exclusive with --input.",
		TakesFile: true,
	}
	DisasmInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of JSON state whose memory is disassembled. Mutually exclusive with --path.",
		TakesFile: true,
	}
	DisasmStartFlag = &cli.Uint64Flag{
		Name:  "start",
		Usage: "Address to start disassembling at.",
	}

	DebugHistoryFlag = &cli.PathFlag{
		Name:      "history",
		Usage:     "File to keep debugger command history in. No history is kept if empty.",
		TakesFile: true,
	}

	DiffColorFlag = &cli.BoolFlag{
		Name:  "color",
		Usage: "Color the diff with ANSI escapes.",
	}
)
