package cmd

import (
	"path/filepath"
	"testing"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/stretchr/testify/require"

	"github.com/fstdo/tomtel/tvgo/vm"
)

func TestDiffStates(t *testing.T) {
	dir := t.TempDir()
	start := filepath.Join(dir, "start.json")
	end := filepath.Join(dir, "end.json")
	_, _, err := runApp(t, "load-image", "--path", helloWorldImage, "--output", start)
	require.NoError(t, err)
	_, _, err = runApp(t, "run", "--input", start, "--output", end)
	require.NoError(t, err)

	stdout, _, err := runApp(t, "diff", start, start)
	require.NoError(t, err)
	require.Equal(t, "states are identical\n", stdout)

	stdout, _, err = runApp(t, "diff", start, end)
	require.NoError(t, err)
	require.Contains(t, stdout, `"step"`)
	require.Contains(t, stdout, `"exited"`)
}

func TestDiffMemory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")

	left, err := vm.NewVMState([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	right, err := vm.NewVMState([]byte{1, 9, 3, 8})
	require.NoError(t, err)
	require.NoError(t, jsonutil.WriteJSON(a, left, OutFilePerm))
	require.NoError(t, jsonutil.WriteJSON(b, right, OutFilePerm))

	stdout, _, err := runApp(t, "diff", a, b)
	require.NoError(t, err)
	require.Contains(t, stdout, "memory: 2 bytes differ, first at 00000001 (02 -> 09)")
}

func TestDiffArgs(t *testing.T) {
	_, _, err := runApp(t, "diff", "only.json")
	require.ErrorContains(t, err, "expected two state files")
}
