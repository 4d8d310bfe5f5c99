package main

import (
	"github.com/fwojciec/docsearch/mcp"
)

// Run executes the serve command. It blocks until the client disconnects
// or the process is interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := mcp.NewServer(deps.Version, deps.Search, deps.Read)
	return srv.ServeStdio(deps.Ctx)
}
