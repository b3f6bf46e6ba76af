package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/fstdo/tomtel/tvgo/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "tvgo"
	app.Usage = "Tomtel virtual machine"
	app.Description = "Tooling for the Tomtel virtual machine"
	app.Commands = []*cli.Command{
		cmd.LoadImageCommand,
		cmd.RunCommand,
		cmd.WitnessCommand,
		cmd.DisasmCommand,
		cmd.DebugCommand,
		cmd.DiffCommand,
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-c
			cancel()
			fmt.Fprintln(os.Stderr, "\r\nExiting...")
		}
	}()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			_, _ = fmt.Fprintf(os.Stderr, "command interrupted\n")
			os.Exit(130)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}
