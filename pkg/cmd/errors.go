package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
	// ErrRegistrySealed is returned by Register after Seal.
	ErrRegistrySealed = errors.New("command registry is sealed")
)

// BadArgumentError reports a token that could not be coerced to its
// parameter's type. Token is the literal text the user typed.
type BadArgumentError struct {
	Param string
	Type  ParamType
	Token string
}

func (e *BadArgumentError) Error() string {
	return fmt.Sprintf("argument <%s> must be an %s, got %q", e.Param, e.Type, e.Token)
}

// MissingArgumentError reports a required parameter with no token.
type MissingArgumentError struct {
	Param string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s is a required argument that is missing.", e.Param)
}

// InvalidArgumentError reports a well-formed value that fails a domain
// precondition checked by the handler itself.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string { return e.Msg }

// InvalidArgument builds an *InvalidArgumentError with a formatted message.
func InvalidArgument(format string, a ...any) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, a...)}
}
