package main

import (
	"fmt"
)

// Run executes the formats command.
func (c *FormatsCmd) Run(deps *Dependencies) error {
	for _, f := range deps.Registry.List() {
		fmt.Fprintf(deps.Stdout, ".%-5s %s\n", f, f.RangeSyntax())
	}
	return nil
}
