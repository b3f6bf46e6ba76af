package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	cannon "github.com/ethereum-optimism/optimism/cannon/cmd"

	"github.com/fstdo/tomtel/tvgo/vm"
)

const helloWorldImage = "../test/testdata/hello_world.hex"

// runApp runs the tvgo commands with args and returns what was written to
// stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	// generic flag values are parsed in place, give every run the defaults
	RunStopAtFlag.Value = cannon.MustStepMatcherFlag("never")
	RunSnapshotAtFlag.Value = cannon.MustStepMatcherFlag("never")
	RunInfoAtFlag.Value = cannon.MustStepMatcherFlag("%100000")
	var stdout, stderr bytes.Buffer
	app := &cli.App{
		Name: "tvgo",
		Commands: []*cli.Command{
			LoadImageCommand,
			RunCommand,
			WitnessCommand,
			DisasmCommand,
			DebugCommand,
			DiffCommand,
		},
		Writer:    &stdout,
		ErrWriter: &stderr,
	}
	err := app.RunContext(context.Background(), append([]string{"tvgo"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeImage(t *testing.T, image []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bin")
	require.NoError(t, os.WriteFile(path, image, 0o644))
	return path
}

func loadState(t *testing.T, path string) *vm.VMState {
	t.Helper()
	state, err := vm.LoadVMStateFromFile(path)
	require.NoError(t, err)
	return state
}
