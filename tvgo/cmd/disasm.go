package cmd

import (
	"fmt"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/fstdo/tomtel/tvgo/vm"
)

func Disasm(ctx *cli.Context) error {
	path := ctx.Path(DisasmPathFlag.Name)
	input := ctx.Path(DisasmInputFlag.Name)
	var mem []byte
	switch {
	case path != "" && input != "":
		return fmt.Errorf("--%s and --%s are mutually exclusive", DisasmPathFlag.Name, DisasmInputFlag.Name)
	case path != "":
		format, err := vm.ParseImageFormat(ctx.String(ImageFormatFlag.Name))
		if err != nil {
			return err
		}
		mem, err = vm.LoadImage(path, format)
		if err != nil {
			return err
		}
	case input != "":
		state, err := vm.LoadVMStateFromFile(input)
		if err != nil {
			return fmt.Errorf("invalid input state (%v): %w", input, err)
		}
		mem, err = state.Memory.Range(0, state.Memory.Size())
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("one of --%s or --%s is required", DisasmPathFlag.Name, DisasmInputFlag.Name)
	}

	start := ctx.Uint64(DisasmStartFlag.Name)
	if start > math.MaxUint32 {
		return fmt.Errorf("start address %#x out of range", start)
	}
	for _, line := range vm.Disassemble(mem, uint32(start)) {
		if _, err := fmt.Fprintln(ctx.App.Writer, line.String()); err != nil {
			return err
		}
	}
	return nil
}

var DisasmCommand = &cli.Command{
	Name:        "disasm",
	Usage:       "Disassemble a Tomtel memory image",
	Description: "Linear sweep disassembly of a memory image or of the memory of a JSON state. Bytes that do not decode are listed as data.",
	Action:      Disasm,
	Flags: []cli.Flag{
		DisasmPathFlag,
		DisasmInputFlag,
		ImageFormatFlag,
		DisasmStartFlag,
	},
}
