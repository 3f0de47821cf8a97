package threads

import (
	stderrors "errors"
	"fmt"

	"threadscope/internal/errors"
)

var (
	// ErrInvalidArgument reports an argument with an out-of-range value, such as a non-positive thread id.
	ErrInvalidArgument = stderrors.New("invalid argument")
	// ErrNilArgument reports a missing group, predicate or name.
	ErrNilArgument = stderrors.New("nil argument")
)

func invalidArgument(format string, args ...any) error {
	return errors.WithStackTrace(fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...))
}

func nilArgument(msg string) error {
	return errors.WithStackTrace(fmt.Errorf("%w: %s", ErrNilArgument, msg))
}
