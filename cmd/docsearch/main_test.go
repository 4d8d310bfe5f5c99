package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docsearch"
	main "github.com/fwojciec/docsearch/cmd/docsearch"
	"github.com/fwojciec/docsearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMain returns a Main whose config file does not exist.
func newMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	return m
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := newMain(t).Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	for _, cmd := range []string{"grep", "read", "serve", "formats"} {
		assert.Contains(t, stdout.String(), cmd)
	}
	assert.Contains(t, stdout.String(), "Usage:")
	assert.Contains(t, stdout.String(), "Flags:")
}

func TestMain_Run_NoCommand(t *testing.T) {
	t.Parallel()

	err := newMain(t).Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Grep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "memo.rtf"),
		[]byte(`{\rtf1\ansi Quarterly revenue\par Costs were flat\par Revenue target met\par}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("revenue"), 0o644))

	stdout := &bytes.Buffer{}
	err := newMain(t).Run(context.Background(), []string{"grep", dir, "revenue"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	memo := filepath.Join("notes", "memo.rtf")
	assert.Equal(t, memo+":line 1:Quarterly revenue\n"+memo+":line 3:Revenue target met\n", stdout.String())
}

func TestMain_Run_Read(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "memo.rtf")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{\rtf1\ansi Quarterly revenue\par Costs were flat\par Revenue target met\par}`), 0o644))

	stdout := &bytes.Buffer{}
	err := newMain(t).Run(context.Background(), []string{"read", path, "-r", "2"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Costs were flat")
	assert.NotContains(t, stdout.String(), "Quarterly revenue")
}

func TestMain_Run_MalformedConfig(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.ConfigPath = writeConfig(t, "concurrency: [\n")
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"formats"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, stderr.String(), "Hint:")
}

func TestMain_Run_ConfigFlagOverridesPath(t *testing.T) {
	t.Parallel()

	bad := writeConfig(t, "log_level: chatty\n")

	err := newMain(t).Run(context.Background(), []string{"--config", bad, "formats"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log_level")
}

func TestMain_Run_FormatsListsEverything(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := newMain(t).Run(context.Background(), []string{"formats"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	for _, f := range docsearch.Formats {
		assert.Contains(t, stdout.String(), "."+string(f))
	}
}

func TestMain_Run_UsesInjectedServices(t *testing.T) {
	t.Parallel()

	m := newMain(t)
	m.SearchService = &mock.SearchService{
		SearchFn: func(_ context.Context, opts docsearch.SearchOptions) (*docsearch.SearchResult, error) {
			return &docsearch.SearchResult{Matches: []docsearch.Match{{Path: "a.pdf", Label: "page 1", Line: opts.Pattern}}}, nil
		},
	}
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"grep", "/nowhere", "needle", "-n", "3"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "a.pdf:page 1:needle\n", stdout.String())
}
