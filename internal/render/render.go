// Package render produces a plain-text summary of an invoice. All
// formatting is driven by the Options value passed in; the package keeps
// no process-wide state.
package render

import (
	"fmt"
	"strings"

	"github.com/rezonia/facturx/internal/model"
)

// Options controls the rendered output.
type Options struct {
	// DateFormat is a Go reference-time layout. Empty means ISO 8601
	// dates (2006-01-02).
	DateFormat string
	// LineItems includes the billed line items.
	LineItems bool
	// Notes includes the document-level notes.
	Notes bool
}

// DefaultOptions renders ISO dates with line items and notes included.
func DefaultOptions() Options {
	return Options{LineItems: true, Notes: true}
}

var documentTypeNames = map[model.DocumentTypeCode]string{
	model.DocTypeProFormaInvoice: "Pro forma invoice",
	model.DocTypePartialInvoice:  "Partial invoice",
	model.DocTypeInvoice:         "Invoice",
	model.DocTypeCreditNote:      "Credit note",
	model.DocTypeCorrection:      "Corrected invoice",
	model.DocTypePrepayment:      "Prepayment invoice",
}

// DocumentTypeName returns the human-readable name of an invoice type
// code.
func DocumentTypeName(code model.DocumentTypeCode) string {
	if name, ok := documentTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Document type %d", code)
}

// Render writes a plain-text summary of the invoice.
func Render(inv *model.Invoice, opts Options) string {
	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", DocumentTypeName(inv.TypeCode), inv.Number)
	fmt.Fprintf(&b, "Profile: %s\n", inv.Profile)
	fmt.Fprintf(&b, "Issued: %s\n", inv.IssueDate.Format(dateFormat))
	if inv.DeliveryDate != nil {
		fmt.Fprintf(&b, "Delivered: %s\n", inv.DeliveryDate.Format(dateFormat))
	}
	if inv.BillingPeriod != nil {
		fmt.Fprintf(&b, "Period: %s\n", renderPeriod(inv.BillingPeriod, dateFormat))
	}
	if inv.BuyerReference != "" {
		fmt.Fprintf(&b, "Buyer reference: %s\n", inv.BuyerReference)
	}
	if inv.BuyerOrderID != "" {
		fmt.Fprintf(&b, "Order: %s\n", inv.BuyerOrderID)
	}
	if inv.ContractID != "" {
		fmt.Fprintf(&b, "Contract: %s\n", inv.ContractID)
	}

	b.WriteString("\n")
	writeParty(&b, "Seller", &inv.Seller)
	writeParty(&b, "Buyer", &inv.Buyer)
	if inv.ShipTo != nil {
		writeParty(&b, "Ship to", inv.ShipTo)
	}
	if inv.Payee != nil {
		writeParty(&b, "Payee", inv.Payee)
	}

	if opts.LineItems && len(inv.LineItems) > 0 {
		b.WriteString("Items:\n")
		for i := range inv.LineItems {
			li := &inv.LineItems[i]
			fmt.Fprintf(&b, "  %s  %s  %s %s x %s = %s\n",
				li.ID, li.Name,
				li.BilledQuantity.Amount, li.BilledQuantity.Unit,
				formatMoney(li.NetPrice), formatMoney(li.BilledTotal))
		}
		b.WriteString("\n")
	}

	if inv.LineTotal != nil {
		fmt.Fprintf(&b, "Line total:     %s\n", formatMoney(*inv.LineTotal))
	}
	if inv.AllowanceTotal != nil {
		fmt.Fprintf(&b, "Allowances:     %s\n", formatMoney(*inv.AllowanceTotal))
	}
	if inv.ChargeTotal != nil {
		fmt.Fprintf(&b, "Charges:        %s\n", formatMoney(*inv.ChargeTotal))
	}
	fmt.Fprintf(&b, "Tax basis:      %s\n", formatMoney(inv.TaxBasisTotal))
	for _, total := range inv.TaxTotals {
		fmt.Fprintf(&b, "Tax:            %s\n", formatMoney(total))
	}
	fmt.Fprintf(&b, "Grand total:    %s\n", formatMoney(inv.GrandTotal))
	if inv.Prepaid != nil {
		fmt.Fprintf(&b, "Prepaid:        %s\n", formatMoney(*inv.Prepaid))
	}
	fmt.Fprintf(&b, "Due:            %s\n", formatMoney(inv.DuePayable))

	if inv.PaymentTerms != nil && inv.PaymentTerms.DueDate != nil {
		fmt.Fprintf(&b, "Due date:       %s\n", inv.PaymentTerms.DueDate.Format(dateFormat))
	}

	if opts.Notes && len(inv.Notes) > 0 {
		b.WriteString("\n")
		for _, note := range inv.Notes {
			fmt.Fprintf(&b, "Note: %s\n", note.Content)
		}
	}
	return b.String()
}

func writeParty(b *strings.Builder, label string, party *model.TradeParty) {
	fmt.Fprintf(b, "%s: %s\n", label, party.Name)
	if party.Address != nil {
		if line := formatAddress(party.Address); line != "" {
			fmt.Fprintf(b, "  %s\n", line)
		}
	}
	if party.VATID != "" {
		fmt.Fprintf(b, "  VAT: %s\n", party.VATID)
	}
	if party.Email != "" {
		fmt.Fprintf(b, "  %s\n", party.Email)
	}
	b.WriteString("\n")
}

func formatAddress(a *model.PostalAddress) string {
	parts := make([]string, 0, 4)
	if a.LineOne != "" {
		parts = append(parts, a.LineOne)
	}
	locality := strings.TrimSpace(a.PostCode + " " + a.City)
	if locality != "" {
		parts = append(parts, locality)
	}
	parts = append(parts, a.CountryCode)
	return strings.Join(parts, ", ")
}

func formatMoney(m model.Money) string {
	return m.String()
}

func renderPeriod(p *model.Period, dateFormat string) string {
	return p.Start.Format(dateFormat) + " to " + p.End.Format(dateFormat)
}
