package pdf

import "fmt"

// ContainerError reports a byte stream that could not be read as a PDF
// document.
type ContainerError struct {
	Err error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("unreadable PDF container: %s", e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// NoInvoiceError reports a readable PDF that carries no embedded invoice
// under any of the recognized attachment names.
type NoInvoiceError struct{}

func (e *NoInvoiceError) Error() string {
	return "no embedded invoice found in PDF"
}

// RelationshipError reports an embedded invoice whose AFRelationship tag
// is not permitted for the declared profile under the given rule set.
type RelationshipError struct {
	Rules        RuleSet
	Relationship Relationship
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("attachment relationship %s is not permitted under the %s rules", e.Relationship, e.Rules)
}
