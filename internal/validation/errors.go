package validation

import "fmt"

// RulesetError represents an invalid ruleset extension
type RulesetError struct {
	Message string
	Cause   error
}

func (e *RulesetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ruleset error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ruleset error: %s", e.Message)
}

func (e *RulesetError) Unwrap() error {
	return e.Cause
}

// FileReadError represents an error reading a file
type FileReadError struct {
	Message string
	Cause   error
}

func (e *FileReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("file read error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("file read error: %s", e.Message)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}
