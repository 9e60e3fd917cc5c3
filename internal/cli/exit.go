package cli

import "fmt"

// ExitError is an error that carries a specific process exit code. An
// empty Message means the command already reported the failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func silentExit(code int) *ExitError {
	return &ExitError{Code: code}
}
