package server

import (
	"time"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/render"
)

// InvoiceSummary is the JSON shape of a parsed invoice.
type InvoiceSummary struct {
	Profile      string     `json:"profile"`
	GuidelineURN string     `json:"guideline_urn"`
	Number       string     `json:"number"`
	TypeCode     int        `json:"type_code"`
	TypeName     string     `json:"type_name"`
	IssueDate    string     `json:"issue_date"`
	Currency     string     `json:"currency"`
	Seller       PartyOut   `json:"seller"`
	Buyer        PartyOut   `json:"buyer"`
	LineItems    int        `json:"line_items"`
	GrandTotal   string     `json:"grand_total"`
	DuePayable   string     `json:"due_payable"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// PartyOut is the JSON shape of a trade party.
type PartyOut struct {
	Name      string `json:"name"`
	VATID     string `json:"vat_id,omitempty"`
	TaxNumber string `json:"tax_number,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ParseResponse is the response for the parse endpoint.
type ParseResponse struct {
	Invoice InvoiceSummary `json:"invoice"`
	Text    string         `json:"text,omitempty"`
}

// ValidationResponse is the response for the validate endpoint.
type ValidationResponse struct {
	Valid      bool   `json:"valid"`
	Profile    string `json:"profile,omitempty"`
	ErrorClass string `json:"error_class,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ExtractResponse is the response for the extract endpoint.
type ExtractResponse struct {
	XML          string `json:"xml"`
	Relationship string `json:"relationship"`
}

// InfoResponse is the response for the info endpoint.
type InfoResponse struct {
	Format       string `json:"format"`
	Profile      string `json:"profile,omitempty"`
	GuidelineURN string `json:"guideline_urn,omitempty"`
	Number       string `json:"number,omitempty"`
	Size         int    `json:"size"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error      string `json:"error"`
	ErrorClass string `json:"error_class,omitempty"`
}

func summarize(inv *model.Invoice) InvoiceSummary {
	summary := InvoiceSummary{
		Profile:      inv.Profile.String(),
		GuidelineURN: inv.Profile.URN(),
		Number:       inv.Number,
		TypeCode:     int(inv.TypeCode),
		TypeName:     render.DocumentTypeName(inv.TypeCode),
		IssueDate:    inv.IssueDate.Format("2006-01-02"),
		Currency:     inv.CurrencyCode,
		Seller:       partyOut(&inv.Seller),
		Buyer:        partyOut(&inv.Buyer),
		LineItems:    len(inv.LineItems),
		GrandTotal:   inv.GrandTotal.String(),
		DuePayable:   inv.DuePayable.String(),
	}
	if inv.PaymentTerms != nil {
		summary.DueDate = inv.PaymentTerms.DueDate
	}
	return summary
}

func partyOut(party *model.TradeParty) PartyOut {
	out := PartyOut{
		Name:      party.Name,
		VATID:     party.VATID,
		TaxNumber: party.TaxNumber,
		Email:     party.Email,
	}
	if party.Address != nil {
		out.Country = party.Address.CountryCode
	}
	return out
}
