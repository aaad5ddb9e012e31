package report

import "fmt"

// MalformedInputError indicates the payload was not a well-formed report
// object. It is the only engine error that surfaces as a request failure.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed report payload: %s", e.Reason)
}

// SectionRenderError wraps a failure inside a single section renderer. The
// composer recovers it locally: the section is omitted and the rest of the
// document is produced.
type SectionRenderError struct {
	Section string
	Err     error
}

func (e *SectionRenderError) Error() string {
	return fmt.Sprintf("section %q failed to render: %v", e.Section, e.Err)
}

func (e *SectionRenderError) Unwrap() error {
	return e.Err
}

// LayoutOverflowError reports a keep-together group taller than a full page.
// The composer degrades by splitting the group; the error is only logged.
type LayoutOverflowError struct {
	Section string
	Height  float64
}

func (e *LayoutOverflowError) Error() string {
	return fmt.Sprintf("keep-together group in section %q exceeds a full page (%.1fmm), splitting", e.Section, e.Height)
}
