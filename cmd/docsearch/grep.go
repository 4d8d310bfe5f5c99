package main

import (
	"fmt"

	"github.com/fwojciec/docsearch"
)

// Run executes the grep command.
func (c *GrepCmd) Run(deps *Dependencies) error {
	res, err := deps.Search.Search(deps.Ctx, docsearch.SearchOptions{
		Dir:           c.Dir,
		Pattern:       c.Pattern,
		CaseSensitive: c.CaseSensitive,
		FileTypes:     c.FileTypes,
		MaxResults:    c.MaxResults,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, docsearch.FormatMatches(res))
	return nil
}
