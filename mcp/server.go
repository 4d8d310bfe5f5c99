// Package mcp exposes docgrep and docread as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docsearch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	GrepTool = "docgrep"
	ReadTool = "docread"
)

// Server serves the document tools over an MCP transport.
type Server struct {
	SearchService docsearch.SearchService
	ReadService   docsearch.ReadService

	server *mcp.Server
}

// NewServer creates a new Server with both tools registered.
func NewServer(version string, search docsearch.SearchService, read docsearch.ReadService) *Server {
	s := &Server{
		SearchService: search,
		ReadService:   read,
		server:        mcp.NewServer(&mcp.Implementation{Name: "docsearch", Version: version}, nil),
	}
	s.registerGrepTool()
	s.registerReadTool()
	return s
}

// Run serves requests on transport until the client disconnects or ctx is
// canceled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// ServeStdio serves requests on standard input and output.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// --- docgrep ---

type grepReq struct {
	Directory     string   `json:"directory"`
	Pattern       string   `json:"pattern"`
	CaseSensitive bool     `json:"case_sensitive"`
	FileTypes     []string `json:"file_types"`
	MaxResults    *int     `json:"max_results"`
}

func (s *Server) registerGrepTool() {
	tool := &mcp.Tool{
		Name: GrepTool,
		Description: "Search document files (" + formatList() + ") in a directory tree for lines matching a regular expression. " +
			"Results are returned as path:location:line, where location is a page, slide, sheet, chapter or line number.",
		InputSchema: inputSchema(map[string]any{
			"directory":      map[string]any{"type": "string", "description": "Directory to search recursively"},
			"pattern":        map[string]any{"type": "string", "description": "Regular expression (RE2 syntax)"},
			"case_sensitive": map[string]any{"type": "boolean", "description": "Match case exactly (default false)"},
			"file_types": map[string]any{
				"type":        []string{"array", "null"},
				"items":       map[string]any{"type": "string"},
				"description": "Only search these extensions, e.g. [\"pdf\", \"docx\"]",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": fmt.Sprintf("Maximum number of matching lines (default %d)", docsearch.DefaultMaxResults),
			},
		}, []string{"directory", "pattern"}),
	}

	s.server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r grepReq
		if err := unmarshalArgs(req, &r); err != nil {
			return toolError(err), nil
		}
		maxResults := docsearch.DefaultMaxResults
		if r.MaxResults != nil {
			maxResults = *r.MaxResults
		}

		res, err := s.SearchService.Search(ctx, docsearch.SearchOptions{
			Dir:           r.Directory,
			Pattern:       r.Pattern,
			CaseSensitive: r.CaseSensitive,
			FileTypes:     r.FileTypes,
			MaxResults:    maxResults,
		})
		if err != nil {
			return toolError(err), nil
		}
		return textResult(docsearch.FormatMatches(res)), nil
	})
}

// --- docread ---

type readReq struct {
	Filepath string  `json:"filepath"`
	Range    *string `json:"range"`
}

func (s *Server) registerReadTool() {
	tool := &mcp.Tool{
		Name:        ReadTool,
		Description: "Read the text of a document, optionally restricted to a range. Range syntax by format:\n" + rangeHelp(),
		InputSchema: inputSchema(map[string]any{
			"filepath": map[string]any{"type": "string", "description": "Path of the document to read"},
			"range": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Optional range of pages, slides, sheets/rows, chapters or lines",
			},
		}, []string{"filepath"}),
	}

	s.server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r readReq
		if err := unmarshalArgs(req, &r); err != nil {
			return toolError(err), nil
		}
		in := docsearch.ReadRequest{Path: r.Filepath}
		if r.Range != nil {
			in.Range = *r.Range
		}

		res, err := s.ReadService.Read(ctx, in)
		if err != nil {
			return toolError(err), nil
		}
		return textResult(res.Text), nil
	})
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return docsearch.Errorf(docsearch.EINVALID, "missing arguments")
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return docsearch.Errorf(docsearch.EINVALID, "invalid arguments: %v", err)
	}
	return nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// toolError reports err to the client as "code: message".
func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(fmt.Errorf("%s: %s", docsearch.ErrorCode(err), docsearch.ErrorMessage(err)))
	return &res
}

func formatList() string {
	names := make([]string, len(docsearch.Formats))
	for i, f := range docsearch.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func rangeHelp() string {
	var b strings.Builder
	for _, f := range docsearch.Formats {
		fmt.Fprintf(&b, "- %s: %s\n", f, f.RangeSyntax())
	}
	return strings.TrimSuffix(b.String(), "\n")
}
