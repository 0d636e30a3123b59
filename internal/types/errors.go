package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a category of run failure.
type ErrorCode string

const (
	// ErrorCodeConfigParse marks malformed configuration syntax or patterns.
	ErrorCodeConfigParse ErrorCode = "CONFIG_PARSE"
	// ErrorCodeRootNotFound marks a scan root that is missing or not a directory.
	ErrorCodeRootNotFound ErrorCode = "ROOT_NOT_FOUND"
	// ErrorCodeFileRead marks a selected file that could not be read as text.
	ErrorCodeFileRead ErrorCode = "FILE_READ"
	// ErrorCodePromptLoad marks a configured session prompt that could not be read.
	ErrorCodePromptLoad ErrorCode = "PROMPT_LOAD"
	// ErrorCodeOutputWrite marks a failure writing or renaming the artifact.
	ErrorCodeOutputWrite ErrorCode = "OUTPUT_WRITE"
	// ErrorCodeAborted marks a run stopped by the caller after the selection warning.
	ErrorCodeAborted ErrorCode = "ABORTED"
)

// Sentinels usable with errors.Is.
var (
	ErrConfigParse  = &GatherError{Code: ErrorCodeConfigParse}
	ErrRootNotFound = &GatherError{Code: ErrorCodeRootNotFound}
	ErrFileRead     = &GatherError{Code: ErrorCodeFileRead}
	ErrPromptLoad   = &GatherError{Code: ErrorCodePromptLoad}
	ErrOutputWrite  = &GatherError{Code: ErrorCodeOutputWrite}
	ErrAborted      = &GatherError{Code: ErrorCodeAborted}
)

// GatherError is a categorized failure carrying the offending path and, for
// configuration files, the line number.
type GatherError struct {
	Code    ErrorCode
	Path    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface.
func (gatherError *GatherError) Error() string {
	location := gatherError.Path
	if location != "" && gatherError.Line > 0 {
		location = fmt.Sprintf("%s:%d", location, gatherError.Line)
	}
	message := gatherError.Message
	if message == "" {
		message = string(gatherError.Code)
	}
	if location != "" {
		message = location + ": " + message
	}
	if gatherError.Err != nil {
		return fmt.Sprintf("%s: %v", message, gatherError.Err)
	}
	return message
}

// Unwrap exposes the underlying cause.
func (gatherError *GatherError) Unwrap() error {
	return gatherError.Err
}

// Is matches any GatherError with the same code.
func (gatherError *GatherError) Is(target error) bool {
	var targetError *GatherError
	if errors.As(target, &targetError) {
		return gatherError.Code == targetError.Code
	}
	return false
}

// NewError builds a GatherError with a formatted message.
func NewError(code ErrorCode, path string, format string, arguments ...interface{}) *GatherError {
	return &GatherError{Code: code, Path: path, Message: fmt.Sprintf(format, arguments...)}
}

// WrapError attaches a code and message to an existing error. A nil cause yields nil.
func WrapError(cause error, code ErrorCode, path string, message string) *GatherError {
	if cause == nil {
		return nil
	}
	return &GatherError{Code: code, Path: path, Message: message, Err: cause}
}

// CodeOf returns the code of the first GatherError in the chain, or an empty code.
func CodeOf(err error) ErrorCode {
	var gatherError *GatherError
	if errors.As(err, &gatherError) {
		return gatherError.Code
	}
	return ""
}
