package main

import "fmt"

// Exit codes for the dupscan CLI.
const (
	ExitOK             = 0 // No violations.
	ExitViolations     = 1 // At least one violation reported.
	ExitInvalidArgs    = 2 // Invalid arguments or configuration.
	ExitInfrastructure = 3 // Storage, I/O or unreadable scan root.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. An empty message on a failure code is
// replaced by a generic one; ExitViolations stays silent because the report
// already said everything.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitViolations:
		case ExitInvalidArgs:
			msg = "dupscan: invalid arguments"
		case ExitInfrastructure:
			msg = "dupscan: scan failed"
		default:
			msg = "dupscan: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
