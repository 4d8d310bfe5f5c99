package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/epub"
	"github.com/fwojciec/docsearch/excelize"
	"github.com/fwojciec/docsearch/fs"
	"github.com/fwojciec/docsearch/htmltomarkdown"
	"github.com/fwojciec/docsearch/odf"
	"github.com/fwojciec/docsearch/ooxml"
	"github.com/fwojciec/docsearch/pdf"
	"github.com/fwojciec/docsearch/read"
	"github.com/fwojciec/docsearch/rtf"
	"github.com/fwojciec/docsearch/search"
	docslog "github.com/fwojciec/docsearch/slog"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Overridden by --config. Set before calling Run().
	ConfigPath string

	// Services for end-to-end testing. When nil, Run wires the real ones.
	SearchService docsearch.SearchService
	ReadService   docsearch.ReadService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Version: Version,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsearch"),
		kong.Description("Search and read PDF, Office, OpenDocument, RTF and EPUB documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsearch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configPath := m.ConfigPath
	if cli.Config != "" {
		configPath = cli.Config
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSEARCH_CONFIG or pass --config to use a different file\n")
		return err
	}

	level := cfg.Level()
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	registry := docsearch.NewRegistry()
	registerExtractors(registry, cfg, logger)
	deps.Registry = registry

	walker := fs.NewWalker()
	walker.IncludeHidden = cfg.IncludeHidden

	searcher := search.NewSearcher(registry, walker)
	searcher.Concurrency = cfg.Concurrency

	deps.Search = m.SearchService
	if deps.Search == nil {
		deps.Search = docslog.NewLoggingSearchService(searcher, logger)
	}
	deps.Read = m.ReadService
	if deps.Read == nil {
		deps.Read = docslog.NewLoggingReadService(read.NewReader(registry), logger)
	}

	return kongCtx.Run(deps)
}

// registerExtractors registers an extractor for every supported format,
// each wrapped with debug logging.
func registerExtractors(registry *docsearch.Registry, cfg *Config, logger *slog.Logger) {
	book := epub.NewExtractor()
	if cfg.EPUBMarkdown {
		book.Converter = htmltomarkdown.NewConverter()
	}

	extractors := map[docsearch.Format]docsearch.Extractor{
		docsearch.FormatPDF:  pdf.NewExtractor(),
		docsearch.FormatDOCX: ooxml.NewDOCXExtractor(),
		docsearch.FormatPPTX: ooxml.NewPPTXExtractor(),
		docsearch.FormatXLSX: excelize.NewExtractor(),
		docsearch.FormatODT:  odf.NewODTExtractor(),
		docsearch.FormatODS:  odf.NewODSExtractor(),
		docsearch.FormatODP:  odf.NewODPExtractor(),
		docsearch.FormatRTF:  rtf.NewExtractor(),
		docsearch.FormatEPUB: book,
	}
	for format, ext := range extractors {
		registry.Register(format, docslog.NewLoggingExtractor(ext, format, logger))
	}
}
