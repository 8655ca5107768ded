package domain

import "fmt"

// DiagnosticKind classifies a recoverable defect found during expansion.
type DiagnosticKind string

const (
	// DiagMalformedArgument is an argument token or line with no '='.
	// The pair is dropped and parsing continues.
	DiagMalformedArgument DiagnosticKind = "malformed_argument"
	// DiagFileReadFailure is a template file the provider could not
	// supply. The original marker text survives in the output.
	DiagFileReadFailure DiagnosticKind = "file_read_failure"
	// DiagDepthExceeded is an inclusion that would nest deeper than the
	// engine's bound. The invocation's output is dropped.
	DiagDepthExceeded DiagnosticKind = "depth_exceeded"
)

// Diagnostic records one recoverable defect. No defect is fatal to the
// document: failures are data alongside a best-effort result, never an
// error that unwinds past the engine's entry point.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`

	// Source is the identity of the document being expanded when the
	// defect was found.
	Source string `json:"source"`

	// Marker is the raw invocation or argument text involved.
	Marker string `json:"marker,omitempty"`

	// Path is the resolved file path, when file resolution was involved.
	Path string `json:"path,omitempty"`

	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Marker != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Source, d.Message, d.Marker)
	}
	return fmt.Sprintf("%s: %s", d.Source, d.Message)
}
