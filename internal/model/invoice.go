package model

import (
	"fmt"
	"time"
)

// Invoice is a Factur-X invoice at any of the four modeled profiles. One
// struct carries the union of all profile fields; Profile decides which of
// them are legal. Build invoices through New, which validates the whole
// document, and treat the result as immutable.
type Invoice struct {
	Profile      Profile
	Number       string
	TypeCode     DocumentTypeCode
	IssueDate    time.Time
	Seller       TradeParty
	Buyer        TradeParty
	CurrencyCode string

	// Document totals. LineTotal is optional at MINIMUM and required from
	// BASIC WL up. TaxTotals holds at most one entry at MINIMUM and at most
	// two (invoice currency plus tax currency) above it.
	LineTotal      *Money
	TaxBasisTotal  Money
	TaxTotals      []Money
	GrandTotal     Money
	DuePayable     Money
	ChargeTotal    *Money
	AllowanceTotal *Money
	Prepaid        *Money
	Rounding       *Money

	BusinessProcessID string
	BuyerReference    string
	BuyerOrderID      string

	// BASIC WL and up.
	Tax                     []Tax
	Notes                   []IncludedNote
	SellerTaxRepresentative *TradeParty
	ShipTo                  *TradeParty
	Payee                   *TradeParty
	DeliveryDate            *time.Time
	BillingPeriod           *Period
	ContractID              string
	DespatchAdviceID        string
	SepaReference           string
	PaymentReference        string
	PaymentMeans            []PaymentMeans
	PaymentTerms            *PaymentTerms
	AllowanceCharges        []DocumentAllowanceCharge
	PrecedingInvoices       []PrecedingInvoice
	ReceiverAccountingIDs   []string

	// BASIC and up.
	LineItems []LineItem

	// EN 16931 only.
	SellerOrderID     string
	ReceivingAdviceID string
	TaxCurrencyCode   string
	ProcuringProject  *ProcuringProject
	ReferencedDocs    []ReferenceDocument
}

// invoiceGates lists the profile-gated invoice fields in scan order. Fields
// always legal (MINIMUM and up) are not listed.
var invoiceGates = []struct {
	field   string
	min     Profile
	present func(*Invoice) bool
}{
	{"charge total", ProfileBasicWL, func(inv *Invoice) bool { return inv.ChargeTotal != nil }},
	{"allowance total", ProfileBasicWL, func(inv *Invoice) bool { return inv.AllowanceTotal != nil }},
	{"prepaid amount", ProfileBasicWL, func(inv *Invoice) bool { return inv.Prepaid != nil }},
	{"tax entries", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.Tax) > 0 }},
	{"notes", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.Notes) > 0 }},
	{"seller tax representative", ProfileBasicWL, func(inv *Invoice) bool { return inv.SellerTaxRepresentative != nil }},
	{"ship-to party", ProfileBasicWL, func(inv *Invoice) bool { return inv.ShipTo != nil }},
	{"payee party", ProfileBasicWL, func(inv *Invoice) bool { return inv.Payee != nil }},
	{"delivery date", ProfileBasicWL, func(inv *Invoice) bool { return inv.DeliveryDate != nil }},
	{"billing period", ProfileBasicWL, func(inv *Invoice) bool { return inv.BillingPeriod != nil }},
	{"contract reference", ProfileBasicWL, func(inv *Invoice) bool { return inv.ContractID != "" }},
	{"despatch advice reference", ProfileBasicWL, func(inv *Invoice) bool { return inv.DespatchAdviceID != "" }},
	{"SEPA reference", ProfileBasicWL, func(inv *Invoice) bool { return inv.SepaReference != "" }},
	{"payment reference", ProfileBasicWL, func(inv *Invoice) bool { return inv.PaymentReference != "" }},
	{"payment means", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.PaymentMeans) > 0 }},
	{"payment terms", ProfileBasicWL, func(inv *Invoice) bool { return inv.PaymentTerms != nil }},
	{"allowances/charges", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.AllowanceCharges) > 0 }},
	{"preceding invoices", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.PrecedingInvoices) > 0 }},
	{"receiver accounting IDs", ProfileBasicWL, func(inv *Invoice) bool { return len(inv.ReceiverAccountingIDs) > 0 }},
	{"line items", ProfileBasic, func(inv *Invoice) bool { return len(inv.LineItems) > 0 }},
	{"rounding amount", ProfileEN16931, func(inv *Invoice) bool { return inv.Rounding != nil }},
	{"seller order reference", ProfileEN16931, func(inv *Invoice) bool { return inv.SellerOrderID != "" }},
	{"receiving advice reference", ProfileEN16931, func(inv *Invoice) bool { return inv.ReceivingAdviceID != "" }},
	{"tax currency code", ProfileEN16931, func(inv *Invoice) bool { return inv.TaxCurrencyCode != "" }},
	{"procuring project", ProfileEN16931, func(inv *Invoice) bool { return inv.ProcuringProject != nil }},
	{"referenced documents", ProfileEN16931, func(inv *Invoice) bool { return len(inv.ReferencedDocs) > 0 }},
}

// New validates the invoice against its declared profile and returns a
// copy on success. Validation is fail-fast: the first violated rule is
// returned as a *ModelError and nothing further is inspected.
func New(inv Invoice) (*Invoice, error) {
	if err := inv.validate(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (inv *Invoice) validate() error {
	if _, ok := profileNames[inv.Profile]; !ok {
		return NewModelError("profile", fmt.Sprintf("unknown profile: %d", int(inv.Profile)))
	}
	if inv.Number == "" {
		return NewModelError("invoice number", "invoice number is required")
	}
	if !inv.TypeCode.IsInvoiceType() {
		return NewModelError("type code", fmt.Sprintf("invalid invoice type code: %d", inv.TypeCode))
	}
	if inv.IssueDate.IsZero() {
		return NewModelError("issue date", "issue date is required")
	}
	if !ValidCurrencyCode(inv.CurrencyCode) {
		return NewModelError("currency", fmt.Sprintf("invalid ISO 4217 currency code: %q", inv.CurrencyCode))
	}

	if err := inv.Seller.validate(inv.Profile, RoleSeller); err != nil {
		return err
	}
	if err := inv.Buyer.validate(inv.Profile, RoleBuyer); err != nil {
		return err
	}

	if err := inv.validateTotals(); err != nil {
		return err
	}

	for _, gate := range invoiceGates {
		if gate.present(inv) && !inv.Profile.AtLeast(gate.min) {
			return NewModelError(gate.field, fmt.Sprintf("%s are not allowed below the %s profile", gate.field, gate.min))
		}
	}

	if inv.Profile.AtLeast(ProfileBasicWL) {
		if len(inv.Tax) < 1 {
			return NewModelError("tax", "at least one tax entry is required")
		}
	}
	for i := range inv.Tax {
		if err := inv.Tax[i].validate(inv.Profile); err != nil {
			return err
		}
	}
	for _, note := range inv.Notes {
		if err := note.validate(); err != nil {
			return err
		}
	}
	if inv.SellerTaxRepresentative != nil {
		if err := inv.SellerTaxRepresentative.validate(inv.Profile, RoleSellerTaxRepresentative); err != nil {
			return err
		}
	}
	if inv.ShipTo != nil {
		if err := inv.ShipTo.validate(inv.Profile, RoleShipTo); err != nil {
			return err
		}
	}
	if inv.Payee != nil {
		if err := inv.Payee.validate(inv.Profile, RolePayee); err != nil {
			return err
		}
	}
	if inv.BillingPeriod != nil {
		if err := inv.BillingPeriod.Validate(); err != nil {
			return err
		}
	}
	for i := range inv.PaymentMeans {
		if err := inv.PaymentMeans[i].validate(inv.Profile); err != nil {
			return err
		}
	}
	if inv.PaymentTerms != nil {
		if err := inv.PaymentTerms.validate(inv.Profile); err != nil {
			return err
		}
	}
	for i := range inv.AllowanceCharges {
		if err := inv.AllowanceCharges[i].validate(inv.Profile); err != nil {
			return err
		}
	}
	for i := range inv.PrecedingInvoices {
		if inv.PrecedingInvoices[i].ID == "" {
			return NewModelError("preceding invoice", "preceding invoice number is required")
		}
	}

	if inv.Profile.AtLeast(ProfileBasic) && len(inv.LineItems) < 1 {
		return NewModelError("line items", "at least one line item is required")
	}
	for i := range inv.LineItems {
		if err := inv.LineItems[i].validate(inv.Profile); err != nil {
			return err
		}
	}

	if inv.TaxCurrencyCode != "" && !ValidCurrencyCode(inv.TaxCurrencyCode) {
		return NewModelError("tax currency", fmt.Sprintf("invalid ISO 4217 currency code: %q", inv.TaxCurrencyCode))
	}
	if inv.ProcuringProject != nil {
		if inv.ProcuringProject.ID == "" {
			return NewModelError("procuring project", "procuring project ID is required")
		}
		if inv.ProcuringProject.Name == "" {
			return NewModelError("procuring project", "procuring project name is required")
		}
	}
	for i := range inv.ReferencedDocs {
		if err := inv.ReferencedDocs[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (inv *Invoice) validateTotals() error {
	if inv.TaxBasisTotal.Currency == "" {
		return NewModelError("tax basis total", "tax basis total amount is required")
	}
	if inv.GrandTotal.Currency == "" {
		return NewModelError("grand total", "grand total amount is required")
	}
	if inv.DuePayable.Currency == "" {
		return NewModelError("due payable", "due payable amount is required")
	}
	if len(inv.TaxTotals) < 1 {
		return NewModelError("tax total", "at least one tax total amount is required")
	}
	maxTotals := 2
	if inv.Profile == ProfileMinimum {
		maxTotals = 1
	}
	if len(inv.TaxTotals) > maxTotals {
		return NewModelError("tax total", fmt.Sprintf("at most %d tax total amounts are allowed in the %s profile", maxTotals, inv.Profile))
	}
	if inv.LineTotal == nil && inv.Profile.AtLeast(ProfileBasicWL) {
		return NewModelError("line total", fmt.Sprintf("line total amount is required in the %s profile", inv.Profile))
	}
	return nil
}
