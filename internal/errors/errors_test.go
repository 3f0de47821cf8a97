package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscope/internal/errors"
)

var errSentinel = stderrors.New("sentinel")

func TestWithStackTraceNil(t *testing.T) {
	assert.NoError(t, errors.WithStackTrace(nil))
}

func TestWithStackTraceKeepsIdentity(t *testing.T) {
	err := errors.WithStackTrace(fmt.Errorf("lookup: %w", errSentinel))
	require.Error(t, err)
	assert.True(t, errors.IsError(err, errSentinel))
	assert.ErrorIs(t, err, errSentinel)
	assert.Equal(t, "lookup: sentinel", err.Error())
}

func TestErrorStackContainsCaller(t *testing.T) {
	err := errors.Errorf("thread %d missing", 7)
	assert.Contains(t, errors.ErrorStack(err), "thread 7 missing")
	assert.Contains(t, errors.ErrorStack(err), "errors_test.go")
}

func TestErrorStackPlainError(t *testing.T) {
	assert.Equal(t, "sentinel", errors.ErrorStack(errSentinel))
	assert.Empty(t, errors.ErrorStack(nil))
}
