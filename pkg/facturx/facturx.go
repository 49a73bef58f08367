// Package facturx provides the public API for building, validating,
// generating, and parsing Factur-X / EN 16931 Cross Industry Invoices.
//
// Example usage:
//
//	inv, err := facturx.New(facturx.Invoice{ ... })
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xml, err := facturx.GenerateString(inv)
package facturx

import (
	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdf"
	"github.com/rezonia/facturx/internal/render"
)

// Re-export core types for the public API.
type (
	Invoice                 = model.Invoice
	Profile                 = model.Profile
	TradeParty              = model.TradeParty
	TradeContact            = model.TradeContact
	PostalAddress           = model.PostalAddress
	Money                   = model.Money
	Quantity                = model.Quantity
	Identifier              = model.Identifier
	Period                  = model.Period
	LineItem                = model.LineItem
	Tax                     = model.Tax
	IncludedNote            = model.IncludedNote
	LineAllowanceCharge     = model.LineAllowanceCharge
	DocumentAllowanceCharge = model.DocumentAllowanceCharge
	GrossPrice              = model.GrossPrice
	PaymentMeans            = model.PaymentMeans
	PaymentTerms            = model.PaymentTerms
	BankAccount             = model.BankAccount
	PaymentCard             = model.PaymentCard
	ReferenceDocument       = model.ReferenceDocument
	Attachment              = model.Attachment
	PrecedingInvoice        = model.PrecedingInvoice
	ProcuringProject        = model.ProcuringProject
)

// Re-export the profile constants.
const (
	ProfileMinimum = model.ProfileMinimum
	ProfileBasicWL = model.ProfileBasicWL
	ProfileBasic   = model.ProfileBasic
	ProfileEN16931 = model.ProfileEN16931
)

// Re-export error types. Callers match them with errors.As.
type (
	ModelError              = model.ModelError
	SyntaxError             = cii.SyntaxError
	NotCIIError             = cii.NotCIIError
	UnsupportedProfileError = cii.UnsupportedProfileError
	ProfileViolationError   = cii.ProfileViolationError
	StructureError          = cii.StructureError
	ContainerError          = pdf.ContainerError
	NoInvoiceError          = pdf.NoInvoiceError
	RelationshipError       = pdf.RelationshipError
)

// Re-export the attachment relationship vocabulary.
type (
	Relationship = pdf.Relationship
	RuleSet      = pdf.RuleSet
)

const (
	RelationshipData        = pdf.RelationshipData
	RelationshipSource      = pdf.RelationshipSource
	RelationshipAlternative = pdf.RelationshipAlternative
	RelationshipSupplement  = pdf.RelationshipSupplement

	RulesFrance  = pdf.RulesFrance
	RulesGermany = pdf.RulesGermany
)

// RenderOptions controls the plain-text rendering.
type RenderOptions = render.Options

// New validates the invoice against its profile and returns it. The
// first rule violated wins; the returned error is a *ModelError.
func New(inv Invoice) (*Invoice, error) {
	return model.New(inv)
}

// Parse reads a Cross Industry Invoice XML document.
func Parse(data []byte) (*Invoice, error) {
	return cii.Parse(data)
}

// GenerateString renders a validated invoice as indented XML.
func GenerateString(inv *Invoice) (string, error) {
	return cii.GenerateString(inv)
}

// ExtractXML pulls the embedded invoice XML out of a PDF container.
func ExtractXML(data []byte) ([]byte, Relationship, error) {
	return pdf.Extract(data)
}

// ParsePDF extracts and parses the invoice embedded in a PDF container.
func ParsePDF(data []byte) (*Invoice, Relationship, error) {
	return pdf.ParsePDF(data)
}

// CheckRelationship verifies an attachment relationship against the
// national rule table.
func CheckRelationship(rules RuleSet, profile Profile, rel Relationship) error {
	return pdf.CheckRelationship(rules, profile, rel)
}

// Render writes a plain-text summary of the invoice.
func Render(inv *Invoice, opts RenderOptions) string {
	return render.Render(inv, opts)
}
