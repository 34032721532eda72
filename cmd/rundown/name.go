package main

import (
	"fmt"

	"github.com/fwojciec/rundown"
)

// Run executes the name command.
func (c *NameCmd) Run(deps *Dependencies) error {
	var failed int
	for _, file := range c.Files {
		name, err := rundown.ResolveName(file)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "%s: %s (%s)\n", file, rundown.ErrorMessage(err), rundown.ErrorCode(err))
			failed++
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", name.Year, name.Canonical)
	}

	if failed > 0 {
		return rundown.Errorf(rundown.EINVALID, "%d of %d names could not be resolved", failed, len(c.Files))
	}
	return nil
}
