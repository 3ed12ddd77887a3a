package extraction

import (
	"errors"
	"fmt"
)

const (
	CodeUnsupportedFormat = "unsupportedFormat"
	CodeExtractionFailed  = "extractionFailed"
)

// ExtractError is the failure type for the extraction stage.
type ExtractError struct {
	Code    string
	Message string
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewUnsupportedFormatError reports a file extension outside the accepted set.
func NewUnsupportedFormatError(ext string) error {
	return &ExtractError{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file extension %q", ext),
	}
}

// NewExtractionFailedError wraps an adapter failure on a corrupt or empty file.
func NewExtractionFailedError(msg string, err error) error {
	return &ExtractError{
		Code:    CodeExtractionFailed,
		Message: msg,
		Err:     err,
	}
}

// IsUnsupportedFormat reports whether err is an unsupported-extension rejection.
func IsUnsupportedFormat(err error) bool {
	var ee *ExtractError
	return errors.As(err, &ee) && ee.Code == CodeUnsupportedFormat
}

// IsExtractionFailed reports whether err is an adapter parse failure.
func IsExtractionFailed(err error) bool {
	var ee *ExtractError
	return errors.As(err, &ee) && ee.Code == CodeExtractionFailed
}
