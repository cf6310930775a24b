package utils

import "fmt"

// MissingBoxError reports a file that lacks a box it is required to carry.
type MissingBoxError struct {
	Tag string
}

// Error returns the error message for MissingBoxError.
func (e MissingBoxError) Error() string {
	return fmt.Sprintf("file does not contain %s box", e.Tag)
}

// UnsupportedError reports an operation that is refused for the receiver's kind.
type UnsupportedError struct {
	Operation string
	Reason    string
}

// Error returns the error message for UnsupportedError.
func (e UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is not supported", e.Operation)
	}
	return fmt.Sprintf("%s is not supported: %s", e.Operation, e.Reason)
}
