package cmd

import (
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/urfave/cli/v2"

	"github.com/fstdo/tomtel/tvgo/vm"
)

func LoadImage(ctx *cli.Context) error {
	imagePath := ctx.Path(LoadImagePathFlag.Name)
	format, err := vm.ParseImageFormat(ctx.String(ImageFormatFlag.Name))
	if err != nil {
		return err
	}
	state, err := vm.LoadVMStateFromImage(imagePath, format)
	if err != nil {
		return fmt.Errorf("failed to load image into VM state: %w", err)
	}
	return jsonutil.WriteJSON(ctx.Path(LoadImageOutFlag.Name), state, OutFilePerm)
}

var LoadImageCommand = &cli.Command{
	Name:        "load-image",
	Usage:       "Load a memory image into Tomtel JSON state",
	Description: "Load a raw or hex-listing memory image into Tomtel JSON state, with all registers zeroed",
	Action:      LoadImage,
	Flags: []cli.Flag{
		LoadImagePathFlag,
		ImageFormatFlag,
		LoadImageOutFlag,
	},
}
