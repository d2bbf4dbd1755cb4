package domain

import "fmt"

// UploadedFile is one file received from the upload form. The pipeline
// borrows it for the duration of a single request and never stores it.
type UploadedFile struct {
	Filename string
	Size     int64
	Data     []byte
}

// CompositeResult is the terminal artifact of a compose request: the
// encoded output image plus its final pixel dimensions.
type CompositeResult struct {
	PNG    []byte
	Width  int
	Height int
}

// ValidationError reports a rejected upload. Label names the offending
// file ("foreground" or "background") so the diagnostic can be shown
// next to the right form field.
type ValidationError struct {
	Label  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s image rejected: %s", e.Label, e.Reason)
}
