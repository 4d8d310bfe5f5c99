package docsearch_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/fwojciec/docsearch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docsearch.Errorf(docsearch.ENOTFOUND, "file %q not found", "a.pdf")

	assert.Equal(t, docsearch.ENOTFOUND, docsearch.ErrorCode(err))
	assert.Equal(t, "file \"a.pdf\" not found", docsearch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docsearch.ErrorCode(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extract: %w", docsearch.Errorf(docsearch.ECORRUPT, "bad zip"))

	assert.Equal(t, docsearch.ECORRUPT, docsearch.ErrorCode(err))
	assert.Equal(t, "bad zip", docsearch.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, docsearch.EINTERNAL, docsearch.ErrorCode(err))
	assert.Equal(t, "boom", docsearch.ErrorMessage(err))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docsearch.ErrorMessage(nil))
}

func TestOpenError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"missing file", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, docsearch.ENOTFOUND},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, docsearch.EPERMISSION},
		{"parse failure", errors.New("zip: not a valid zip file"), docsearch.ECORRUPT},
		{"application error passes through", docsearch.Errorf(docsearch.EUNSUPPORTED, "no"), docsearch.EUNSUPPORTED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.code, docsearch.ErrorCode(docsearch.OpenError("x", tt.err)))
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, docsearch.OpenError("x", nil))
	})
}
