package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	cannon "github.com/ethereum-optimism/optimism/cannon/cmd"

	"github.com/fstdo/tomtel/tvgo/vm"
)

type StepMatcher func(st *vm.VMState) bool

// stepMatcher resolves a step pattern flag. cannon accepts "%0" and then
// divides by zero on the first match, so a zero interval is rejected here.
func stepMatcher(ctx *cli.Context, flag *cli.GenericFlag) (StepMatcher, error) {
	m, ok := ctx.Generic(flag.Name).(*cannon.StepMatcherFlag)
	if !ok {
		return nil, fmt.Errorf("--%s is not a step matcher", flag.Name)
	}
	if pattern := m.String(); strings.HasPrefix(pattern, "%") {
		if interval, err := strconv.ParseUint(pattern[1:], 0, 64); err == nil && interval == 0 {
			return nil, fmt.Errorf("invalid --%s: step interval must not be zero", flag.Name)
		}
	}
	match := m.Matcher()
	return func(st *vm.VMState) bool { return match(st) }, nil
}
