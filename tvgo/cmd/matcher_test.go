package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepMatcherStopAt(t *testing.T) {
	for _, pattern := range []string{"=3", "=0x3"} {
		t.Run(pattern, func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), "out.json")
			_, _, err := runApp(t, "run", "--image", helloWorldImage, "--output", outPath, "--stop-at", pattern)
			require.NoError(t, err)
			state := loadState(t, outPath)
			require.False(t, state.Exited)
			require.Equal(t, uint64(3), state.Step)
		})
	}
}

func TestStepMatcherAlways(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")
	_, _, err := runApp(t, "run", "--image", helloWorldImage, "--output", outPath, "--stop-at", "always")
	require.NoError(t, err)
	require.Equal(t, uint64(0), loadState(t, outPath).Step)
}

func TestStepMatcherInterval(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runApp(t, "run",
		"--image", helloWorldImage,
		"--output", filepath.Join(dir, "out.json"),
		"--snapshot-at", "%4",
		"--snapshot-fmt", filepath.Join(dir, "snap-%d.json"))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "snap-0.json"))
	require.FileExists(t, filepath.Join(dir, "snap-4.json"))
	require.FileExists(t, filepath.Join(dir, "snap-8.json"))
	require.NoFileExists(t, filepath.Join(dir, "snap-2.json"))
}

func TestStepMatcherDefaultsPerRun(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	_, _, err := runApp(t, "run", "--image", helloWorldImage, "--output", first, "--stop-at", "=2")
	require.NoError(t, err)
	require.Equal(t, uint64(2), loadState(t, first).Step)

	_, _, err = runApp(t, "run", "--image", helloWorldImage, "--output", second)
	require.NoError(t, err)
	require.True(t, loadState(t, second).Exited)
}

func TestStepMatcherInvalid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	for _, flag := range []string{"--stop-at", "--snapshot-at", "--info-at"} {
		_, _, err := runApp(t, "run", "--image", helloWorldImage, "--output", out, flag, "%0")
		require.ErrorContains(t, err, "step interval must not be zero", flag)

		_, _, err = runApp(t, "run", "--image", helloWorldImage, "--output", out, flag, "sometimes")
		require.Error(t, err, flag)
	}
	_, _, err := runApp(t, "run", "--image", helloWorldImage, "--output", out, "--stop-at", "%0x0")
	require.ErrorContains(t, err, "step interval must not be zero")
}
