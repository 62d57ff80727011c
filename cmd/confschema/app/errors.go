package app

import (
	"errors"
	"fmt"
)

// Tool tags the command an error came from.
type Tool string

const (
	ToolSchemaCheck Tool = "schema check"
	ToolSchemaGen   Tool = "schema gen"
	ToolConv        Tool = "conv"
)

// ErrValidationFailed is returned by schema check when at least one input
// does not conform. It maps to exit code 1.
var ErrValidationFailed = errors.New("validation failed")

// CommandError is a failure of the command itself, as opposed to a
// validation result.
type CommandError struct {
	Tool Tool
	Err  error
}

func (e *CommandError) Error() string { return fmt.Sprintf("%s: %v", e.Tool, e.Err) }

func (e *CommandError) Unwrap() error { return e.Err }

func commandErr(tool Tool, err error) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return err
	}
	return &CommandError{Tool: tool, Err: err}
}

// ExitCode maps a command result onto a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidationFailed):
		return 1
	default:
		return 2
	}
}
