package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	res, err := deps.Read.Read(deps.Ctx, docsearch.ReadRequest{Path: c.File, Range: c.Range})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		if docsearch.ErrorCode(err) == docsearch.EINVALIDRANGE {
			if format, ferr := docsearch.FormatOf(c.File); ferr == nil {
				fmt.Fprintf(deps.Stderr, "Hint: %s ranges are %s\n", format, format.RangeSyntax())
			}
		}
		return err
	}

	fmt.Fprintln(deps.Stdout, res.Text)
	return nil
}
