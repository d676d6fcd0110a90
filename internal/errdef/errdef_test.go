package errdef

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(CodeFetch, nil, "ignored"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeFilesystem, cause, "create %s", ".tmp")

	require.Error(t, err)
	assert.Equal(t, "create .tmp: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeFilesystem, CodeOf(err))
}

func TestCodeOfThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeUsage, "bad flag %q", "--nope"))
	assert.Equal(t, CodeUsage, CodeOf(err))
	assert.True(t, Is(err, CodeUsage))
	assert.False(t, Is(err, CodeFetch))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", New(CodeUsage, "x"), 2},
		{"fetch", Wrap(CodeFetch, errors.New("x"), ""), 2},
		{"filesystem", Wrap(CodeFilesystem, errors.New("x"), ""), 1},
		{"plain", errors.New("x"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestEmptyCodeBecomesUnknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(New("", "x")))
}

func TestIsNilAndZeroValue(t *testing.T) {
	assert.False(t, Is(nil, CodeUnknown))
	assert.True(t, Is(&Error{}, CodeUnknown))
	assert.True(t, Is(&Error{}, ""))
	assert.Equal(t, 1, ExitCode(&Error{}))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("run: %w", &Error{Code: CodeFetch})))
}
