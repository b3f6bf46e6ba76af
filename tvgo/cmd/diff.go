package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/fstdo/tomtel/tvgo/vm"
)

// memoryDiff summarizes which addresses differ between two memories. The
// JSON diff only shows memory as a single changed hex string.
func memoryDiff(a, b *vm.Memory) string {
	if a.Size() != b.Size() {
		return fmt.Sprintf("memory size %d != %d", a.Size(), b.Size())
	}
	ab, _ := a.Range(0, a.Size())
	bb, _ := b.Range(0, b.Size())
	count := 0
	first := -1
	for i := range ab {
		if ab[i] != bb[i] {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("memory: %d bytes differ, first at %08x (%02x -> %02x)", count, first, ab[first], bb[first])
}

func Diff(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("expected two state files, got %d arguments", ctx.NArg())
	}
	left, err := vm.LoadVMStateFromFile(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid state %q: %w", ctx.Args().Get(0), err)
	}
	right, err := vm.LoadVMStateFromFile(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid state %q: %w", ctx.Args().Get(1), err)
	}

	leftJSON, err := json.Marshal(left)
	if err != nil {
		return err
	}
	rightJSON, err := json.Marshal(right)
	if err != nil {
		return err
	}
	delta, err := gojsondiff.New().Compare(leftJSON, rightJSON)
	if err != nil {
		return fmt.Errorf("failed to diff states: %w", err)
	}
	if !delta.Modified() {
		_, err := fmt.Fprintln(ctx.App.Writer, "states are identical")
		return err
	}

	var leftObj map[string]any
	if err := json.Unmarshal(leftJSON, &leftObj); err != nil {
		return err
	}
	asciiFmt := formatter.NewAsciiFormatter(leftObj, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       ctx.Bool(DiffColorFlag.Name),
	})
	text, err := asciiFmt.Format(delta)
	if err != nil {
		return fmt.Errorf("failed to format diff: %w", err)
	}
	if _, err := fmt.Fprint(ctx.App.Writer, text); err != nil {
		return err
	}
	if summary := memoryDiff(left.Memory, right.Memory); summary != "" {
		_, err = fmt.Fprintln(ctx.App.Writer, summary)
	}
	return err
}

var DiffCommand = &cli.Command{
	Name:        "diff",
	Usage:       "Compare two Tomtel JSON states",
	Description: "Compare two Tomtel JSON states, e.g. snapshots of the same run, field by field.",
	ArgsUsage:   "<a.json> <b.json>",
	Action:      Diff,
	Flags: []cli.Flag{
		DiffColorFlag,
	},
}
