package cii

import (
	"fmt"

	"github.com/rezonia/facturx/internal/model"
)

// SyntaxError reports XML that could not be parsed at all.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid XML: %s", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NewSyntaxError wraps an XML decoder error.
func NewSyntaxError(err error) *SyntaxError {
	return &SyntaxError{Err: err}
}

// NotCIIError reports well-formed XML that is not a Cross Industry
// Invoice: a different root element, or a document context without a
// guideline parameter.
type NotCIIError struct {
	Reason string
}

func (e *NotCIIError) Error() string {
	return fmt.Sprintf("not a Cross Industry Invoice: %s", e.Reason)
}

// NewNotCIIError creates a new NotCIIError.
func NewNotCIIError(reason string) *NotCIIError {
	return &NotCIIError{Reason: reason}
}

// UnsupportedProfileError reports a guideline URN outside the four
// modeled profiles. Known-but-unsupported profiles (EXTENDED, XRechnung)
// report the same way as unknown URNs.
type UnsupportedProfileError struct {
	URN string
}

func (e *UnsupportedProfileError) Error() string {
	return fmt.Sprintf("unsupported profile: %s", e.URN)
}

// NewUnsupportedProfileError creates a new UnsupportedProfileError.
func NewUnsupportedProfileError(urn string) *UnsupportedProfileError {
	return &UnsupportedProfileError{URN: urn}
}

// ProfileViolationError reports an element that is well-formed CII but
// not permitted in the declared profile.
type ProfileViolationError struct {
	Profile model.Profile
	Element string
}

func (e *ProfileViolationError) Error() string {
	return fmt.Sprintf("%s element is not allowed in the %s profile", e.Element, e.Profile)
}

// NewProfileViolationError creates a new ProfileViolationError.
func NewProfileViolationError(profile model.Profile, element string) *ProfileViolationError {
	return &ProfileViolationError{Profile: profile, Element: element}
}

// StructureError reports a structural defect inside a recognized invoice:
// a missing mandatory element, an element without text, or a value that
// does not parse.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid invoice structure: %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid invoice structure: %s", e.Reason)
}

// NewStructureError creates a new StructureError.
func NewStructureError(path, reason string) *StructureError {
	return &StructureError{Path: path, Reason: reason}
}

func errElementNotFound(name string) *StructureError {
	return NewStructureError(name, "element not found")
}

func errNoText(name string) *StructureError {
	return NewStructureError(name, "element has no text")
}
