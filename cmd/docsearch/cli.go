package main

import (
	"context"
	"io"

	"github.com/fwojciec/docsearch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Version  string
	Registry *docsearch.Registry
	Search   docsearch.SearchService
	Read     docsearch.ReadService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"DOCSEARCH_CONFIG" help:"Config file (default ~/.docsearch/config.yaml)"`
	Verbose bool   `short:"v" help:"Log at debug level to stderr"`

	Grep    GrepCmd    `cmd:"" help:"Search documents under a directory for a regular expression"`
	Read    ReadCmd    `cmd:"" help:"Print the text of a document"`
	Serve   ServeCmd   `cmd:"" help:"Serve docgrep and docread as MCP tools over stdio"`
	Formats FormatsCmd `cmd:"" help:"List supported formats and their range syntax"`
}

// GrepCmd is the "grep" subcommand.
type GrepCmd struct {
	Dir           string   `arg:"" help:"Directory to search recursively"`
	Pattern       string   `arg:"" help:"Regular expression (RE2 syntax)"`
	CaseSensitive bool     `short:"s" help:"Match case exactly"`
	FileTypes     []string `short:"t" name:"type" help:"Only search this extension (repeatable)"`
	MaxResults    int      `short:"n" default:"100" help:"Maximum number of matching lines"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	File  string `arg:"" help:"Document to read"`
	Range string `short:"r" help:"Pages, slides, sheet/rows, chapters or lines to read"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// FormatsCmd is the "formats" subcommand.
type FormatsCmd struct{}
