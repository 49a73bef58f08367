package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IncludedNote is a free-text note with an optional UNTDID 4451 subject
// qualifier.
type IncludedNote struct {
	Content     string
	SubjectCode TextSubjectCode
}

func (n IncludedNote) validate() error {
	if n.Content == "" {
		return NewModelError("note", "note content is required")
	}
	if n.SubjectCode != "" && !ValidTextSubjectCode(n.SubjectCode) {
		return NewModelError("note", fmt.Sprintf("invalid text subject code: %q", n.SubjectCode))
	}
	return nil
}

// Tax is a single VAT breakdown entry.
type Tax struct {
	CalculatedAmount    Money
	BasisAmount         Money
	RatePercent         decimal.Decimal
	CategoryCode        TaxCategoryCode
	ExemptionReason     string
	ExemptionReasonCode VATExemptionCode
	TaxPointDate        *time.Time
	DueDateTypeCode     *PaymentTimeCode
}

func (t *Tax) validate(profile Profile) error {
	if !ValidTaxCategoryCode(t.CategoryCode) {
		return NewModelError("tax", fmt.Sprintf("invalid tax category code: %q", t.CategoryCode))
	}
	if t.ExemptionReasonCode != "" && !ValidVATExemptionCode(t.ExemptionReasonCode) {
		return NewModelError("tax", fmt.Sprintf("invalid VAT exemption reason code: %q", t.ExemptionReasonCode))
	}
	if t.DueDateTypeCode != nil && !t.DueDateTypeCode.IsInvoiceDueDate() {
		return NewModelError("tax", fmt.Sprintf("invalid due date type code: %d", *t.DueDateTypeCode))
	}
	if t.TaxPointDate != nil && !profile.AtLeast(ProfileEN16931) {
		return NewModelError("tax", fmt.Sprintf("tax point date is not allowed below the %s profile", ProfileEN16931))
	}
	return nil
}

// LineAllowanceCharge is an allowance (discount) or charge (surcharge)
// applied to a line item. Charge selects between the two disjoint reason
// code lists: surcharges use UNTDID 7161 service codes, allowances use the
// UNTDID 5189 subset.
type LineAllowanceCharge struct {
	Charge          bool
	ActualAmount    Money
	AllowanceReason AllowanceChargeCode
	ChargeReason    SpecialServiceCode
	Reason          string
	Percent         *decimal.Decimal
	BasisAmount     *Money
}

func (ac *LineAllowanceCharge) validate(profile Profile) error {
	if ac.Charge {
		if ac.AllowanceReason != 0 {
			return NewModelError("allowance/charge", "a surcharge must use a special service reason code, not an allowance reason code")
		}
		if ac.ChargeReason != "" && !ValidSpecialServiceCode(ac.ChargeReason) {
			return NewModelError("allowance/charge", fmt.Sprintf("invalid special service code: %q", ac.ChargeReason))
		}
	} else {
		if ac.ChargeReason != "" {
			return NewModelError("allowance/charge", "an allowance must use an allowance reason code, not a special service reason code")
		}
		if ac.AllowanceReason != 0 && !ValidAllowanceChargeCode(ac.AllowanceReason) {
			return NewModelError("allowance/charge", fmt.Sprintf("invalid allowance reason code: %d", ac.AllowanceReason))
		}
	}
	if !profile.AtLeast(ProfileEN16931) {
		if ac.Percent != nil {
			return NewModelError("allowance/charge", fmt.Sprintf("percentage-based allowances/charges are not allowed below the %s profile", ProfileEN16931))
		}
		if ac.BasisAmount != nil {
			return NewModelError("allowance/charge", fmt.Sprintf("basis amounts on allowances/charges are not allowed below the %s profile", ProfileEN16931))
		}
	}
	return nil
}

// DocumentAllowanceCharge is an allowance or charge applied to the whole
// invoice. It additionally carries the VAT treatment of the amount.
type DocumentAllowanceCharge struct {
	LineAllowanceCharge

	TaxCategory TaxCategoryCode
	TaxRate     *decimal.Decimal
}

func (ac *DocumentAllowanceCharge) validate(profile Profile) error {
	if err := ac.LineAllowanceCharge.validate(profile); err != nil {
		return err
	}
	if !ValidTaxCategoryCode(ac.TaxCategory) {
		return NewModelError("allowance/charge", fmt.Sprintf("invalid tax category code: %q", ac.TaxCategory))
	}
	return nil
}

// GrossPrice is the item gross price before price-level discounts. The
// embedded allowance/charge carries only an indicator and an amount; reason
// codes, reason text, percentages and basis amounts are not allowed here.
type GrossPrice struct {
	Amount          decimal.Decimal
	BasisQuantity   *Quantity
	AllowanceCharge *LineAllowanceCharge
}

func (gp *GrossPrice) validate() error {
	ac := gp.AllowanceCharge
	if ac == nil {
		return nil
	}
	if ac.Reason != "" || ac.AllowanceReason != 0 || ac.ChargeReason != "" {
		return NewModelError("gross price", "price-level allowances/charges must not carry a reason")
	}
	if ac.Percent != nil || ac.BasisAmount != nil {
		return NewModelError("gross price", "price-level allowances/charges must not carry a percentage or basis amount")
	}
	return nil
}

// LineItem is one invoice line. A single struct covers both the BASIC and
// the EN 16931 shape; the fields after AllowanceCharges are EN 16931 only.
type LineItem struct {
	ID               string
	Name             string
	NetPrice         Money
	BilledQuantity   Quantity
	BilledTotal      Money
	TaxRate          decimal.Decimal
	TaxCategory      TaxCategoryCode
	GlobalID         *Identifier
	BasisQuantity    *Quantity
	AllowanceCharges []LineAllowanceCharge

	Description       string
	Note              *IncludedNote
	GrossPrice        *GrossPrice
	SellerAssignedID  string
	BuyerAssignedID   string
	Characteristics   []ProductCharacteristic
	Classifications   []ProductClassification
	OriginCountry     string
	BuyerOrderLineID  string
	BillingPeriod     *Period
	DocRef            *DocRef
	TradeAccountingID string
}

// lineItemGates lists the EN 16931-only line item fields in scan order.
var lineItemGates = []struct {
	field   string
	present func(*LineItem) bool
}{
	{"description", func(li *LineItem) bool { return li.Description != "" }},
	{"note", func(li *LineItem) bool { return li.Note != nil }},
	{"gross price", func(li *LineItem) bool { return li.GrossPrice != nil }},
	{"seller assigned ID", func(li *LineItem) bool { return li.SellerAssignedID != "" }},
	{"buyer assigned ID", func(li *LineItem) bool { return li.BuyerAssignedID != "" }},
	{"product characteristics", func(li *LineItem) bool { return len(li.Characteristics) > 0 }},
	{"product classifications", func(li *LineItem) bool { return len(li.Classifications) > 0 }},
	{"origin country", func(li *LineItem) bool { return li.OriginCountry != "" }},
	{"buyer order line ID", func(li *LineItem) bool { return li.BuyerOrderLineID != "" }},
	{"billing period", func(li *LineItem) bool { return li.BillingPeriod != nil }},
	{"referenced document", func(li *LineItem) bool { return li.DocRef != nil }},
	{"trade accounting ID", func(li *LineItem) bool { return li.TradeAccountingID != "" }},
}

func (li *LineItem) validate(profile Profile) error {
	if li.Name == "" {
		return NewModelError("line item", "line item name is required")
	}
	if li.BilledQuantity.Unit == "" {
		return NewModelError("line item", "billed quantity unit is required")
	}
	if !ValidUnitCode(li.BilledQuantity.Unit) {
		return NewModelError("line item", fmt.Sprintf("invalid unit code: %q", li.BilledQuantity.Unit))
	}
	if !ValidTaxCategoryCode(li.TaxCategory) {
		return NewModelError("line item", fmt.Sprintf("invalid tax category code: %q", li.TaxCategory))
	}
	if li.GlobalID != nil {
		if err := checkGlobalID(*li.GlobalID, "line item global ID"); err != nil {
			return err
		}
	}
	for i := range li.AllowanceCharges {
		if err := li.AllowanceCharges[i].validate(profile); err != nil {
			return err
		}
	}
	for _, gate := range lineItemGates {
		if gate.present(li) && !profile.AtLeast(ProfileEN16931) {
			return NewModelError("line item", fmt.Sprintf("line item %s is not allowed below the %s profile", gate.field, ProfileEN16931))
		}
	}
	if li.Note != nil {
		if err := li.Note.validate(); err != nil {
			return err
		}
		if li.Note.SubjectCode != "" {
			return NewModelError("line item", "line item note subject codes are not allowed")
		}
	}
	if li.GrossPrice != nil {
		if err := li.GrossPrice.validate(); err != nil {
			return err
		}
	}
	if li.OriginCountry != "" && !ValidCountryCode(li.OriginCountry) {
		return NewModelError("line item", fmt.Sprintf("invalid ISO 3166-1 alpha-2 country code: %q", li.OriginCountry))
	}
	if li.BillingPeriod != nil {
		if err := li.BillingPeriod.Validate(); err != nil {
			return err
		}
	}
	if li.DocRef != nil {
		if err := li.DocRef.validate(); err != nil {
			return err
		}
	}
	for _, cl := range li.Classifications {
		if cl.ListID != "" && !ValidItemTypeCode(cl.ListID) {
			return NewModelError("line item", fmt.Sprintf("invalid item type code: %q", cl.ListID))
		}
	}
	return nil
}

// ProductCharacteristic is a single named item attribute.
type ProductCharacteristic struct {
	Description string
	Value       string
}

// ProductClassification is a single item classification entry.
type ProductClassification struct {
	ClassCode     string
	ListID        ItemTypeCode
	ListVersionID string
}

// PaymentMeans describes one way the invoice may be paid.
type PaymentMeans struct {
	TypeCode     PaymentMeansCode
	PayeeAccount *BankAccount
	PayeeBIC     string
	Information  string
	Card         *PaymentCard
	PayerIBAN    string
}

func (pm *PaymentMeans) validate(profile Profile) error {
	if !ValidPaymentMeansCode(pm.TypeCode) {
		return NewModelError("payment means", fmt.Sprintf("invalid payment means code: %q", pm.TypeCode))
	}
	if profile.AtLeast(ProfileEN16931) {
		return nil
	}
	if pm.Information != "" {
		return NewModelError("payment means", fmt.Sprintf("payment means information is not allowed below the %s profile", ProfileEN16931))
	}
	if pm.Card != nil {
		return NewModelError("payment means", fmt.Sprintf("payment card information is not allowed below the %s profile", ProfileEN16931))
	}
	if pm.PayeeAccount != nil && pm.PayeeAccount.Name != "" {
		return NewModelError("payment means", fmt.Sprintf("payee account names are not allowed below the %s profile", ProfileEN16931))
	}
	if pm.PayeeBIC != "" {
		return NewModelError("payment means", fmt.Sprintf("payee BICs are not allowed below the %s profile", ProfileEN16931))
	}
	return nil
}

// PaymentTerms describes when and how payment is due.
type PaymentTerms struct {
	Description          string
	DueDate              *time.Time
	DirectDebitMandateID string
}

func (pt *PaymentTerms) validate(profile Profile) error {
	if pt.Description != "" && !profile.AtLeast(ProfileEN16931) {
		return NewModelError("payment terms", fmt.Sprintf("payment terms descriptions are not allowed below the %s profile", ProfileEN16931))
	}
	return nil
}

// BankAccount identifies a payee or payer account.
type BankAccount struct {
	IBAN   string
	Name   string
	BankID string
}

// PaymentCard identifies the card used for payment. The PAN is expected to
// be truncated by the sender per PCI DSS.
type PaymentCard struct {
	PAN        string
	HolderName string
}

// ReferenceDocument is an additional supporting document, optionally with
// an embedded attachment.
type ReferenceDocument struct {
	ID                string
	TypeCode          DocumentTypeCode
	Name              string
	URL               string
	Attachment        *Attachment
	ReferenceTypeCode ReferenceQualifierCode
}

func (rd *ReferenceDocument) validate() error {
	if rd.ID == "" {
		return NewModelError("referenced document", "referenced document ID is required")
	}
	if !rd.TypeCode.IsSupportingDocumentType() {
		return NewModelError("referenced document", fmt.Sprintf("invalid reference document type code: %d", rd.TypeCode))
	}
	if rd.ReferenceTypeCode != "" && !ValidReferenceQualifierCode(rd.ReferenceTypeCode) {
		return NewModelError("referenced document", fmt.Sprintf("invalid reference qualifier code: %q", rd.ReferenceTypeCode))
	}
	if rd.Attachment != nil {
		return rd.Attachment.validate()
	}
	return nil
}

// Attachment is a binary object embedded in a referenced document.
type Attachment struct {
	Content  []byte
	MimeType string
	Filename string
}

func (a *Attachment) validate() error {
	if len(a.Content) == 0 {
		return NewModelError("attachment", "attachment content is required")
	}
	if !AllowedMimeTypes[a.MimeType] {
		return NewModelError("attachment", fmt.Sprintf("attachment MIME type %q is not allowed", a.MimeType))
	}
	if a.Filename == "" {
		return NewModelError("attachment", "attachment filename is required")
	}
	return nil
}

// PrecedingInvoice references an earlier invoice this one corrects or
// follows.
type PrecedingInvoice struct {
	ID        string
	IssueDate *time.Time
}

// ProcuringProject names the project the invoice belongs to.
type ProcuringProject struct {
	ID   string
	Name string
}

// DocRef is a bare document reference with an optional qualifier.
type DocRef struct {
	ID                string
	ReferenceTypeCode ReferenceQualifierCode
}

func (d *DocRef) validate() error {
	if d.ID == "" {
		return NewModelError("document reference", "document reference ID is required")
	}
	if d.ReferenceTypeCode != "" && !ValidReferenceQualifierCode(d.ReferenceTypeCode) {
		return NewModelError("document reference", fmt.Sprintf("invalid reference qualifier code: %q", d.ReferenceTypeCode))
	}
	return nil
}
