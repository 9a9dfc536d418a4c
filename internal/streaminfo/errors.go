package streaminfo

import (
	"errors"
	"fmt"
)

// Error categories, named after the subsystem that produced the failure.
const (
	CategoryMedia    = "MEDIA"
	CategoryDRM      = "DRM"
	CategoryManifest = "MANIFEST"
)

type ErrorCode int

const (
	CodeMalformedContainer ErrorCode = iota + 1
	CodeMissingRequiredElement
	CodeConflictingKeyIDs
	CodeNoCommonKeySystem
	CodeMultipleKeyIDsNotSupported
	CodeBadPsshEncoding
)

func (c ErrorCode) String() string {
	switch c {
	case CodeMalformedContainer:
		return "MalformedContainer"
	case CodeMissingRequiredElement:
		return "MissingRequiredElement"
	case CodeConflictingKeyIDs:
		return "ConflictingKeyIds"
	case CodeNoCommonKeySystem:
		return "NoCommonKeySystem"
	case CodeMultipleKeyIDsNotSupported:
		return "MultipleKeyIdsNotSupported"
	case CodeBadPsshEncoding:
		return "BadPsshEncoding"
	default:
		return "Unknown"
	}
}

// Error is a typed, non-retryable parse failure. Nothing in this package
// blocks or retries, so every Error means the input itself is invalid.
type Error struct {
	Category string
	Code     ErrorCode
	// Element carries the missing element name for CodeMissingRequiredElement.
	Element string
	msg     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Category, e.Code, e.msg)
}

// Is matches on category and code so callers can compare against
// sentinel-style values with errors.Is.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Category == other.Category && e.Code == other.Code
}

// IsCode reports whether err is (or wraps) an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var parsed *Error
	if !errors.As(err, &parsed) {
		return false
	}
	return parsed.Code == code
}

func malformedContainer(format string, args ...any) *Error {
	return &Error{
		Category: CategoryMedia,
		Code:     CodeMalformedContainer,
		msg:      fmt.Sprintf(format, args...),
	}
}

func missingElement(name string) *Error {
	return &Error{
		Category: CategoryMedia,
		Code:     CodeMissingRequiredElement,
		Element:  name,
		msg:      fmt.Sprintf("required element %s is missing", name),
	}
}

func drmError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Category: CategoryDRM,
		Code:     code,
		msg:      fmt.Sprintf(format, args...),
	}
}
