package identity

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every ArgumentError via errors.Is
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a rejected constructor or parser input. Param names the offending parameter.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Param, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func newArgumentError(param, format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{
		Param:  param,
		Reason: fmt.Sprintf(format, args...),
	}
}
