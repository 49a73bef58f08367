package cii

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/rezonia/facturx/internal/model"
)

// Parse reads a Cross Industry Invoice document. The whole element
// superset is extracted first, then anything the declared profile does
// not permit is rejected, and finally the assembled invoice passes
// through model.New. Four error classes leave this function: SyntaxError,
// NotCIIError, UnsupportedProfileError / ProfileViolationError /
// StructureError, and model.ModelError.
func Parse(data []byte) (*model.Invoice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, NewSyntaxError(err)
	}
	root := doc.Root()
	if root == nil {
		return nil, NewNotCIIError("document has no root element")
	}
	if root.Tag != "CrossIndustryInvoice" || root.NamespaceURI() != nsRSM {
		return nil, NewNotCIIError("root element is not a Cross Industry Invoice")
	}

	ctx := childElement(root, nsRSM, "ExchangedDocumentContext")
	if ctx == nil {
		return nil, NewNotCIIError("ExchangedDocumentContext element not found")
	}
	guideline := childElement(ctx, nsRAM, "GuidelineSpecifiedDocumentContextParameter")
	if guideline == nil {
		return nil, NewNotCIIError("guideline document context parameter not found")
	}
	urn, err := findText(guideline, nsRAM, "ID")
	if err != nil {
		return nil, NewNotCIIError("guideline profile ID not found")
	}
	profile, ok := model.ProfileFromURN(urn)
	if !ok {
		return nil, NewUnsupportedProfileError(urn)
	}

	inv := model.Invoice{Profile: profile}
	if process := childElement(ctx, nsRAM, "BusinessProcessSpecifiedDocumentContextParameter"); process != nil {
		if inv.BusinessProcessID, err = findText(process, nsRAM, "ID"); err != nil {
			return nil, err
		}
	}
	if err := parseDoc(root, &inv); err != nil {
		return nil, err
	}
	tx := childElement(root, nsRSM, "SupplyChainTradeTransaction")
	if tx == nil {
		return nil, errElementNotFound("SupplyChainTradeTransaction")
	}
	if err := parseSettlement(tx, &inv); err != nil {
		return nil, err
	}
	if err := parseAgreement(tx, &inv); err != nil {
		return nil, err
	}
	if err := parseDelivery(tx, &inv); err != nil {
		return nil, err
	}
	if err := parseLineItems(tx, &inv); err != nil {
		return nil, err
	}

	if err := checkProfile(&inv); err != nil {
		return nil, err
	}
	return model.New(inv)
}

// forbiddenElements maps extracted invoice content back to the CII
// element that carried it, with the lowest profile allowed to carry it.
// The scan runs before model validation so that profile violations
// report the element name, not the model field.
var forbiddenElements = []struct {
	element string
	min     model.Profile
	present func(*model.Invoice) bool
}{
	{"IncludedNote", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.Notes) > 0 }},
	{"SellerTaxRepresentativeTradeParty", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.SellerTaxRepresentative != nil }},
	{"ContractReferencedDocument", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.ContractID != "" }},
	{"SellerOrderReferencedDocument", model.ProfileEN16931, func(inv *model.Invoice) bool { return inv.SellerOrderID != "" }},
	{"AdditionalReferencedDocument", model.ProfileEN16931, func(inv *model.Invoice) bool { return len(inv.ReferencedDocs) > 0 }},
	{"SpecifiedProcuringProject", model.ProfileEN16931, func(inv *model.Invoice) bool { return inv.ProcuringProject != nil }},
	{"ShipToTradeParty", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.ShipTo != nil }},
	{"ActualDeliverySupplyChainEvent", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.DeliveryDate != nil }},
	{"DespatchAdviceReferencedDocument", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.DespatchAdviceID != "" }},
	{"ReceivingAdviceReferencedDocument", model.ProfileEN16931, func(inv *model.Invoice) bool { return inv.ReceivingAdviceID != "" }},
	{"CreditorReferenceID", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.SepaReference != "" }},
	{"PaymentReference", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.PaymentReference != "" }},
	{"TaxCurrencyCode", model.ProfileEN16931, func(inv *model.Invoice) bool { return inv.TaxCurrencyCode != "" }},
	{"PayeeTradeParty", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.Payee != nil }},
	{"SpecifiedTradeSettlementPaymentMeans", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.PaymentMeans) > 0 }},
	{"ApplicableTradeTax", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.Tax) > 0 }},
	{"BillingSpecifiedPeriod", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.BillingPeriod != nil }},
	{"SpecifiedTradeAllowanceCharge", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.AllowanceCharges) > 0 }},
	{"SpecifiedTradePaymentTerms", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.PaymentTerms != nil }},
	{"ChargeTotalAmount", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.ChargeTotal != nil }},
	{"AllowanceTotalAmount", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.AllowanceTotal != nil }},
	{"TotalPrepaidAmount", model.ProfileBasicWL, func(inv *model.Invoice) bool { return inv.Prepaid != nil }},
	{"RoundingAmount", model.ProfileEN16931, func(inv *model.Invoice) bool { return inv.Rounding != nil }},
	{"InvoiceReferencedDocument", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.PrecedingInvoices) > 0 }},
	{"ReceivableSpecifiedTradeAccountingAccount", model.ProfileBasicWL, func(inv *model.Invoice) bool { return len(inv.ReceiverAccountingIDs) > 0 }},
	{"IncludedSupplyChainTradeLineItem", model.ProfileBasic, func(inv *model.Invoice) bool { return len(inv.LineItems) > 0 }},
}

// forbiddenLineElements lists line item content only the EN 16931
// profile may carry.
var forbiddenLineElements = []struct {
	element string
	present func(*model.LineItem) bool
}{
	{"IncludedNote", func(li *model.LineItem) bool { return li.Note != nil }},
	{"SellerAssignedID", func(li *model.LineItem) bool { return li.SellerAssignedID != "" }},
	{"BuyerAssignedID", func(li *model.LineItem) bool { return li.BuyerAssignedID != "" }},
	{"Description", func(li *model.LineItem) bool { return li.Description != "" }},
	{"ApplicableProductCharacteristic", func(li *model.LineItem) bool { return len(li.Characteristics) > 0 }},
	{"DesignatedProductClassification", func(li *model.LineItem) bool { return len(li.Classifications) > 0 }},
	{"OriginTradeCountry", func(li *model.LineItem) bool { return li.OriginCountry != "" }},
	{"BuyerOrderReferencedDocument", func(li *model.LineItem) bool { return li.BuyerOrderLineID != "" }},
	{"GrossPriceProductTradePrice", func(li *model.LineItem) bool { return li.GrossPrice != nil }},
	{"BillingSpecifiedPeriod", func(li *model.LineItem) bool { return li.BillingPeriod != nil }},
	{"AdditionalReferencedDocument", func(li *model.LineItem) bool { return li.DocRef != nil }},
	{"ReceivableSpecifiedTradeAccountingAccount", func(li *model.LineItem) bool { return li.TradeAccountingID != "" }},
}

func checkProfile(inv *model.Invoice) error {
	for _, f := range forbiddenElements {
		if f.present(inv) && !inv.Profile.AtLeast(f.min) {
			return NewProfileViolationError(inv.Profile, f.element)
		}
	}
	if !inv.Profile.AtLeast(model.ProfileEN16931) {
		for i := range inv.LineItems {
			for _, f := range forbiddenLineElements {
				if f.present(&inv.LineItems[i]) {
					return NewProfileViolationError(inv.Profile, f.element)
				}
			}
		}
	}
	return nil
}

func parseDoc(root *etree.Element, inv *model.Invoice) error {
	doc := childElement(root, nsRSM, "ExchangedDocument")
	if doc == nil {
		return errElementNotFound("ExchangedDocument")
	}
	var err error
	if inv.Number, err = findText(doc, nsRAM, "ID"); err != nil {
		return err
	}
	typeCode, err := findText(doc, nsRAM, "TypeCode")
	if err != nil {
		return err
	}
	code, convErr := strconv.Atoi(typeCode)
	if convErr != nil || !model.ValidDocumentTypeCode(model.DocumentTypeCode(code)) {
		return NewStructureError("TypeCode", fmt.Sprintf("invalid document type code: %q", typeCode))
	}
	inv.TypeCode = model.DocumentTypeCode(code)
	issueDate, err := findDate(doc, "IssueDateTime")
	if err != nil {
		return err
	}
	inv.IssueDate = issueDate
	for _, noteEl := range childElements(doc, nsRAM, "IncludedNote") {
		note, err := parseNote(noteEl)
		if err != nil {
			return err
		}
		inv.Notes = append(inv.Notes, note)
	}
	return nil
}

func parseNote(el *etree.Element) (model.IncludedNote, error) {
	content, err := findText(el, nsRAM, "Content")
	if err != nil {
		return model.IncludedNote{}, err
	}
	code, err := findTextOptional(el, nsRAM, "SubjectCode")
	if err != nil {
		return model.IncludedNote{}, err
	}
	if code != "" && !model.ValidTextSubjectCode(model.TextSubjectCode(code)) {
		return model.IncludedNote{}, NewStructureError("SubjectCode", fmt.Sprintf("invalid text subject code: %q", code))
	}
	return model.IncludedNote{Content: content, SubjectCode: model.TextSubjectCode(code)}, nil
}

func parseAgreement(tx *etree.Element, inv *model.Invoice) error {
	el := childElement(tx, nsRAM, "ApplicableHeaderTradeAgreement")
	if el == nil {
		return errElementNotFound("ApplicableHeaderTradeAgreement")
	}
	var err error
	if inv.BuyerReference, err = findTextOptional(el, nsRAM, "BuyerReference"); err != nil {
		return err
	}
	seller, err := parseTradeParty(el, "SellerTradeParty")
	if err != nil {
		return err
	}
	if seller == nil {
		return errElementNotFound("SellerTradeParty")
	}
	inv.Seller = *seller
	buyer, err := parseTradeParty(el, "BuyerTradeParty")
	if err != nil {
		return err
	}
	if buyer == nil {
		return errElementNotFound("BuyerTradeParty")
	}
	inv.Buyer = *buyer
	if inv.SellerTaxRepresentative, err = parseTradeParty(el, "SellerTaxRepresentativeTradeParty"); err != nil {
		return err
	}
	if inv.SellerOrderID, err = findRefDocID(el, "SellerOrderReferencedDocument"); err != nil {
		return err
	}
	if inv.BuyerOrderID, err = findRefDocID(el, "BuyerOrderReferencedDocument"); err != nil {
		return err
	}
	if inv.ContractID, err = findRefDocID(el, "ContractReferencedDocument"); err != nil {
		return err
	}
	for _, docEl := range childElements(el, nsRAM, "AdditionalReferencedDocument") {
		doc, err := parseReferenceDocument(docEl)
		if err != nil {
			return err
		}
		inv.ReferencedDocs = append(inv.ReferencedDocs, doc)
	}
	if projectEl := childElement(el, nsRAM, "SpecifiedProcuringProject"); projectEl != nil {
		id, err := findText(projectEl, nsRAM, "ID")
		if err != nil {
			return err
		}
		name, err := findText(projectEl, nsRAM, "Name")
		if err != nil {
			return err
		}
		inv.ProcuringProject = &model.ProcuringProject{ID: id, Name: name}
	}
	return nil
}

func parseReferenceDocument(el *etree.Element) (model.ReferenceDocument, error) {
	var doc model.ReferenceDocument
	var err error
	if doc.ID, err = findText(el, nsRAM, "IssuerAssignedID"); err != nil {
		return doc, err
	}
	typeCode, err := findText(el, nsRAM, "TypeCode")
	if err != nil {
		return doc, err
	}
	code, convErr := strconv.Atoi(typeCode)
	if convErr != nil || !model.ValidDocumentTypeCode(model.DocumentTypeCode(code)) {
		return doc, NewStructureError("AdditionalReferencedDocument", fmt.Sprintf("invalid document type code: %q", typeCode))
	}
	doc.TypeCode = model.DocumentTypeCode(code)
	if doc.URL, err = findTextOptional(el, nsRAM, "URIID"); err != nil {
		return doc, err
	}
	if doc.Name, err = findTextOptional(el, nsRAM, "Name"); err != nil {
		return doc, err
	}
	if doc.Attachment, err = parseAttachment(el); err != nil {
		return doc, err
	}
	refType, err := findTextOptional(el, nsRAM, "ReferenceTypeCode")
	if err != nil {
		return doc, err
	}
	if refType != "" && !model.ValidReferenceQualifierCode(model.ReferenceQualifierCode(refType)) {
		return doc, NewStructureError("ReferenceTypeCode", fmt.Sprintf("invalid reference qualifier code: %q", refType))
	}
	doc.ReferenceTypeCode = model.ReferenceQualifierCode(refType)
	return doc, nil
}

func parseAttachment(parent *etree.Element) (*model.Attachment, error) {
	el := childElement(parent, nsRAM, "AttachmentBinaryObject")
	if el == nil {
		return nil, nil
	}
	if el.Text() == "" {
		return nil, errNoText("AttachmentBinaryObject")
	}
	mimeType := el.SelectAttrValue("mimeCode", "")
	if mimeType == "" {
		return nil, NewStructureError("AttachmentBinaryObject", "mimeCode attribute not found")
	}
	if !model.AllowedMimeTypes[mimeType] {
		return nil, NewStructureError("AttachmentBinaryObject", fmt.Sprintf("MIME type not allowed: %q", mimeType))
	}
	filename := el.SelectAttrValue("filename", "")
	if filename == "" {
		return nil, NewStructureError("AttachmentBinaryObject", "filename attribute not found")
	}
	content, err := base64.StdEncoding.DecodeString(el.Text())
	if err != nil {
		return nil, NewStructureError("AttachmentBinaryObject", "invalid base64 content")
	}
	return &model.Attachment{Content: content, MimeType: mimeType, Filename: filename}, nil
}

func parseDelivery(tx *etree.Element, inv *model.Invoice) error {
	el := childElement(tx, nsRAM, "ApplicableHeaderTradeDelivery")
	if el == nil {
		return errElementNotFound("ApplicableHeaderTradeDelivery")
	}
	var err error
	if inv.ShipTo, err = parseTradeParty(el, "ShipToTradeParty"); err != nil {
		return err
	}
	if eventEl := childElement(el, nsRAM, "ActualDeliverySupplyChainEvent"); eventEl != nil {
		date, err := findDate(eventEl, "OccurrenceDateTime")
		if err != nil {
			return err
		}
		inv.DeliveryDate = &date
	}
	if inv.DespatchAdviceID, err = findRefDocID(el, "DespatchAdviceReferencedDocument"); err != nil {
		return err
	}
	if inv.ReceivingAdviceID, err = findRefDocID(el, "ReceivingAdviceReferencedDocument"); err != nil {
		return err
	}
	return nil
}

func parseSettlement(tx *etree.Element, inv *model.Invoice) error {
	el := childElement(tx, nsRAM, "ApplicableHeaderTradeSettlement")
	if el == nil {
		return errElementNotFound("ApplicableHeaderTradeSettlement")
	}
	var err error
	if inv.CurrencyCode, err = findText(el, nsRAM, "InvoiceCurrencyCode"); err != nil {
		return err
	}
	if inv.SepaReference, err = findTextOptional(el, nsRAM, "CreditorReferenceID"); err != nil {
		return err
	}
	if inv.PaymentReference, err = findTextOptional(el, nsRAM, "PaymentReference"); err != nil {
		return err
	}
	if inv.TaxCurrencyCode, err = findTextOptional(el, nsRAM, "TaxCurrencyCode"); err != nil {
		return err
	}
	if inv.Payee, err = parseTradeParty(el, "PayeeTradeParty"); err != nil {
		return err
	}
	for _, meansEl := range childElements(el, nsRAM, "SpecifiedTradeSettlementPaymentMeans") {
		means, err := parsePaymentMeans(meansEl)
		if err != nil {
			return err
		}
		inv.PaymentMeans = append(inv.PaymentMeans, means)
	}
	for _, taxEl := range childElements(el, nsRAM, "ApplicableTradeTax") {
		tax, err := parseTax(taxEl, inv.CurrencyCode)
		if err != nil {
			return err
		}
		inv.Tax = append(inv.Tax, tax)
	}
	if inv.BillingPeriod, err = parseBillingPeriod(el); err != nil {
		return err
	}
	for _, acEl := range childElements(el, nsRAM, "SpecifiedTradeAllowanceCharge") {
		ac, err := parseDocumentAllowanceCharge(acEl, inv.CurrencyCode)
		if err != nil {
			return err
		}
		inv.AllowanceCharges = append(inv.AllowanceCharges, ac)
	}
	if termsEl := childElement(el, nsRAM, "SpecifiedTradePaymentTerms"); termsEl != nil {
		terms, err := parsePaymentTerms(termsEl)
		if err != nil {
			return err
		}
		inv.PaymentTerms = terms
	}
	if err := parseSummation(el, inv); err != nil {
		return err
	}
	for _, prevEl := range childElements(el, nsRAM, "InvoiceReferencedDocument") {
		id, err := findText(prevEl, nsRAM, "IssuerAssignedID")
		if err != nil {
			return err
		}
		issueDate, err := findDateOptional(prevEl, "FormattedIssueDateTime")
		if err != nil {
			return err
		}
		inv.PrecedingInvoices = append(inv.PrecedingInvoices, model.PrecedingInvoice{ID: id, IssueDate: issueDate})
	}
	for _, accountEl := range childElements(el, nsRAM, "ReceivableSpecifiedTradeAccountingAccount") {
		id, err := findText(accountEl, nsRAM, "ID")
		if err != nil {
			return err
		}
		inv.ReceiverAccountingIDs = append(inv.ReceiverAccountingIDs, id)
	}
	return nil
}

func parseSummation(parent *etree.Element, inv *model.Invoice) error {
	el := childElement(parent, nsRAM, "SpecifiedTradeSettlementHeaderMonetarySummation")
	if el == nil {
		return errElementNotFound("SpecifiedTradeSettlementHeaderMonetarySummation")
	}
	currency := inv.CurrencyCode
	var err error
	if inv.LineTotal, err = findAmountOptional(el, "LineTotalAmount", currency); err != nil {
		return err
	}
	if inv.ChargeTotal, err = findAmountOptional(el, "ChargeTotalAmount", currency); err != nil {
		return err
	}
	if inv.AllowanceTotal, err = findAmountOptional(el, "AllowanceTotalAmount", currency); err != nil {
		return err
	}
	if inv.TaxBasisTotal, err = findAmount(el, "TaxBasisTotalAmount", currency); err != nil {
		return err
	}
	if inv.TaxTotals, err = findAllAmounts(el, "TaxTotalAmount", currency); err != nil {
		return err
	}
	if inv.Rounding, err = findAmountOptional(el, "RoundingAmount", currency); err != nil {
		return err
	}
	if inv.GrandTotal, err = findAmount(el, "GrandTotalAmount", currency); err != nil {
		return err
	}
	if inv.Prepaid, err = findAmountOptional(el, "TotalPrepaidAmount", currency); err != nil {
		return err
	}
	if inv.DuePayable, err = findAmount(el, "DuePayableAmount", currency); err != nil {
		return err
	}
	return nil
}

func parsePaymentMeans(el *etree.Element) (model.PaymentMeans, error) {
	var means model.PaymentMeans
	typeCode, err := findText(el, nsRAM, "TypeCode")
	if err != nil {
		return means, err
	}
	if !model.ValidPaymentMeansCode(model.PaymentMeansCode(typeCode)) {
		return means, NewStructureError("SpecifiedTradeSettlementPaymentMeans", fmt.Sprintf("invalid payment means code: %q", typeCode))
	}
	means.TypeCode = model.PaymentMeansCode(typeCode)
	if means.Information, err = findTextOptional(el, nsRAM, "Information"); err != nil {
		return means, err
	}
	if cardEl := childElement(el, nsRAM, "ApplicableTradeSettlementFinancialCard"); cardEl != nil {
		pan, err := findText(cardEl, nsRAM, "ID")
		if err != nil {
			return means, err
		}
		holder, err := findTextOptional(cardEl, nsRAM, "CardholderName")
		if err != nil {
			return means, err
		}
		means.Card = &model.PaymentCard{PAN: pan, HolderName: holder}
	}
	if payerEl := childElement(el, nsRAM, "PayerPartyDebtorFinancialAccount"); payerEl != nil {
		if means.PayerIBAN, err = findTextOptional(payerEl, nsRAM, "IBANID"); err != nil {
			return means, err
		}
	}
	if accountEl := childElement(el, nsRAM, "PayeePartyCreditorFinancialAccount"); accountEl != nil {
		account := &model.BankAccount{}
		if account.IBAN, err = findTextOptional(accountEl, nsRAM, "IBANID"); err != nil {
			return means, err
		}
		if account.Name, err = findTextOptional(accountEl, nsRAM, "AccountName"); err != nil {
			return means, err
		}
		if account.BankID, err = findTextOptional(accountEl, nsRAM, "ProprietaryID"); err != nil {
			return means, err
		}
		means.PayeeAccount = account
	}
	if instEl := childElement(el, nsRAM, "PayeeSpecifiedCreditorFinancialInstitution"); instEl != nil {
		if means.PayeeBIC, err = findTextOptional(instEl, nsRAM, "BICID"); err != nil {
			return means, err
		}
	}
	return means, nil
}

func parseTax(el *etree.Element, defaultCurrency string) (model.Tax, error) {
	var tax model.Tax
	category, rate, err := parseTaxCategoryRate(el)
	if err != nil {
		return tax, err
	}
	tax.CategoryCode = category
	if rate != nil {
		tax.RatePercent = *rate
	}
	if tax.CalculatedAmount, err = findAmount(el, "CalculatedAmount", defaultCurrency); err != nil {
		return tax, err
	}
	if tax.BasisAmount, err = findAmount(el, "BasisAmount", defaultCurrency); err != nil {
		return tax, err
	}
	if tax.ExemptionReason, err = findTextOptional(el, nsRAM, "ExemptionReason"); err != nil {
		return tax, err
	}
	reasonCode, err := findTextOptional(el, nsRAM, "ExemptionReasonCode")
	if err != nil {
		return tax, err
	}
	if reasonCode != "" && !model.ValidVATExemptionCode(model.VATExemptionCode(reasonCode)) {
		return tax, NewStructureError("ExemptionReasonCode", fmt.Sprintf("invalid VAT exemption reason code: %q", reasonCode))
	}
	tax.ExemptionReasonCode = model.VATExemptionCode(reasonCode)
	if tax.TaxPointDate, err = findDateOptional(el, "TaxPointDate"); err != nil {
		return tax, err
	}
	dueDateCode, err := findTextOptional(el, nsRAM, "DueDateTypeCode")
	if err != nil {
		return tax, err
	}
	if dueDateCode != "" {
		code, convErr := strconv.Atoi(dueDateCode)
		if convErr != nil || !model.PaymentTimeCode(code).IsInvoiceDueDate() {
			return tax, NewStructureError("DueDateTypeCode", fmt.Sprintf("invalid due date type code: %q", dueDateCode))
		}
		paymentTime := model.PaymentTimeCode(code)
		tax.DueDateTypeCode = &paymentTime
	}
	return tax, nil
}

// parseTaxCategoryRate reads the shared core of ApplicableTradeTax and
// CategoryTradeTax: the fixed VAT type code, the category, and the rate.
func parseTaxCategoryRate(el *etree.Element) (model.TaxCategoryCode, *decimal.Decimal, error) {
	typeCode, err := findText(el, nsRAM, "TypeCode")
	if err != nil {
		return "", nil, err
	}
	if typeCode != "VAT" {
		return "", nil, NewStructureError("TypeCode", fmt.Sprintf("invalid tax type code: %q", typeCode))
	}
	category, err := findText(el, nsRAM, "CategoryCode")
	if err != nil {
		return "", nil, err
	}
	if !model.ValidTaxCategoryCode(model.TaxCategoryCode(category)) {
		return "", nil, NewStructureError("CategoryCode", fmt.Sprintf("invalid tax category code: %q", category))
	}
	rate, err := findDecimalOptional(el, "RateApplicablePercent")
	if err != nil {
		return "", nil, err
	}
	return model.TaxCategoryCode(category), rate, nil
}

func parseBillingPeriod(parent *etree.Element) (*model.Period, error) {
	el := childElement(parent, nsRAM, "BillingSpecifiedPeriod")
	if el == nil {
		return nil, nil
	}
	start, err := findDate(el, "StartDateTime")
	if err != nil {
		return nil, err
	}
	end, err := findDate(el, "EndDateTime")
	if err != nil {
		return nil, err
	}
	return &model.Period{Start: start, End: end}, nil
}

func parseAllowanceCharge(el *etree.Element, defaultCurrency string) (model.LineAllowanceCharge, error) {
	var ac model.LineAllowanceCharge
	charge, err := findIndicator(el, "ChargeIndicator")
	if err != nil {
		return ac, err
	}
	ac.Charge = charge
	if ac.Percent, err = findDecimalOptional(el, "CalculationPercent"); err != nil {
		return ac, err
	}
	if ac.BasisAmount, err = findAmountOptional(el, "BasisAmount", defaultCurrency); err != nil {
		return ac, err
	}
	if ac.ActualAmount, err = findAmount(el, "ActualAmount", defaultCurrency); err != nil {
		return ac, err
	}
	reasonCode, err := findTextOptional(el, nsRAM, "ReasonCode")
	if err != nil {
		return ac, err
	}
	if reasonCode != "" {
		if charge {
			if !model.ValidSpecialServiceCode(model.SpecialServiceCode(reasonCode)) {
				return ac, NewStructureError("ReasonCode", fmt.Sprintf("invalid special service code: %q", reasonCode))
			}
			ac.ChargeReason = model.SpecialServiceCode(reasonCode)
		} else {
			code, convErr := strconv.Atoi(reasonCode)
			if convErr != nil || !model.ValidAllowanceChargeCode(model.AllowanceChargeCode(code)) {
				return ac, NewStructureError("ReasonCode", fmt.Sprintf("invalid allowance reason code: %q", reasonCode))
			}
			ac.AllowanceReason = model.AllowanceChargeCode(code)
		}
	}
	if ac.Reason, err = findTextOptional(el, nsRAM, "Reason"); err != nil {
		return ac, err
	}
	return ac, nil
}

func parseDocumentAllowanceCharge(el *etree.Element, defaultCurrency string) (model.DocumentAllowanceCharge, error) {
	var ac model.DocumentAllowanceCharge
	base, err := parseAllowanceCharge(el, defaultCurrency)
	if err != nil {
		return ac, err
	}
	ac.LineAllowanceCharge = base
	taxEl := childElement(el, nsRAM, "CategoryTradeTax")
	if taxEl == nil {
		return ac, errElementNotFound("CategoryTradeTax")
	}
	category, rate, err := parseTaxCategoryRate(taxEl)
	if err != nil {
		return ac, err
	}
	ac.TaxCategory = category
	ac.TaxRate = rate
	return ac, nil
}

func parsePaymentTerms(el *etree.Element) (*model.PaymentTerms, error) {
	var terms model.PaymentTerms
	var err error
	if terms.Description, err = findTextOptional(el, nsRAM, "Description"); err != nil {
		return nil, err
	}
	if terms.DueDate, err = findDateOptional(el, "DueDateDateTime"); err != nil {
		return nil, err
	}
	if terms.DirectDebitMandateID, err = findTextOptional(el, nsRAM, "DirectDebitMandateID"); err != nil {
		return nil, err
	}
	return &terms, nil
}

func parseLineItems(tx *etree.Element, inv *model.Invoice) error {
	for _, liEl := range childElements(tx, nsRAM, "IncludedSupplyChainTradeLineItem") {
		li, err := parseLineItem(liEl, inv.CurrencyCode)
		if err != nil {
			return err
		}
		inv.LineItems = append(inv.LineItems, li)
	}
	return nil
}

func parseLineItem(el *etree.Element, defaultCurrency string) (model.LineItem, error) {
	var li model.LineItem

	doc := childElement(el, nsRAM, "AssociatedDocumentLineDocument")
	if doc == nil {
		return li, errElementNotFound("AssociatedDocumentLineDocument")
	}
	var err error
	if li.ID, err = findText(doc, nsRAM, "LineID"); err != nil {
		return li, err
	}
	if noteEl := childElement(doc, nsRAM, "IncludedNote"); noteEl != nil {
		note, err := parseNote(noteEl)
		if err != nil {
			return li, err
		}
		li.Note = &note
	}

	product := childElement(el, nsRAM, "SpecifiedTradeProduct")
	if product == nil {
		return li, errElementNotFound("SpecifiedTradeProduct")
	}
	if li.GlobalID, err = findIdentifierOptional(product, "GlobalID"); err != nil {
		return li, err
	}
	if li.Name, err = findText(product, nsRAM, "Name"); err != nil {
		return li, err
	}
	if li.SellerAssignedID, err = findTextOptional(product, nsRAM, "SellerAssignedID"); err != nil {
		return li, err
	}
	if li.BuyerAssignedID, err = findTextOptional(product, nsRAM, "BuyerAssignedID"); err != nil {
		return li, err
	}
	if li.Description, err = findTextOptional(product, nsRAM, "Description"); err != nil {
		return li, err
	}
	for _, pcEl := range childElements(product, nsRAM, "ApplicableProductCharacteristic") {
		description, err := findText(pcEl, nsRAM, "Description")
		if err != nil {
			return li, err
		}
		value, err := findText(pcEl, nsRAM, "Value")
		if err != nil {
			return li, err
		}
		li.Characteristics = append(li.Characteristics, model.ProductCharacteristic{Description: description, Value: value})
	}
	for _, clEl := range childElements(product, nsRAM, "DesignatedProductClassification") {
		classification, err := parseClassification(clEl)
		if err != nil {
			return li, err
		}
		li.Classifications = append(li.Classifications, classification)
	}
	if countryEl := childElement(product, nsRAM, "OriginTradeCountry"); countryEl != nil {
		if li.OriginCountry, err = findText(countryEl, nsRAM, "ID"); err != nil {
			return li, err
		}
	}

	agreement := childElement(el, nsRAM, "SpecifiedLineTradeAgreement")
	if agreement == nil {
		return li, errElementNotFound("SpecifiedLineTradeAgreement")
	}
	if orderEl := childElement(agreement, nsRAM, "BuyerOrderReferencedDocument"); orderEl != nil {
		if li.BuyerOrderLineID, err = findText(orderEl, nsRAM, "LineID"); err != nil {
			return li, err
		}
	}
	if li.GrossPrice, err = parseGrossPrice(agreement, defaultCurrency); err != nil {
		return li, err
	}
	netPriceEl := childElement(agreement, nsRAM, "NetPriceProductTradePrice")
	if netPriceEl == nil {
		return li, errElementNotFound("NetPriceProductTradePrice")
	}
	if li.NetPrice, err = findAmount(netPriceEl, "ChargeAmount", defaultCurrency); err != nil {
		return li, err
	}
	if li.BasisQuantity, err = findQuantityOptional(netPriceEl, "BasisQuantity"); err != nil {
		return li, err
	}

	delivery := childElement(el, nsRAM, "SpecifiedLineTradeDelivery")
	if delivery == nil {
		return li, errElementNotFound("SpecifiedLineTradeDelivery")
	}
	if li.BilledQuantity, err = findQuantity(delivery, "BilledQuantity"); err != nil {
		return li, err
	}

	settlement := childElement(el, nsRAM, "SpecifiedLineTradeSettlement")
	if settlement == nil {
		return li, errElementNotFound("SpecifiedLineTradeSettlement")
	}
	taxEl := childElement(settlement, nsRAM, "ApplicableTradeTax")
	if taxEl == nil {
		return li, errElementNotFound("ApplicableTradeTax")
	}
	category, rate, err := parseTaxCategoryRate(taxEl)
	if err != nil {
		return li, err
	}
	li.TaxCategory = category
	if rate != nil {
		li.TaxRate = *rate
	}
	if li.BillingPeriod, err = parseBillingPeriod(settlement); err != nil {
		return li, err
	}
	for _, acEl := range childElements(settlement, nsRAM, "SpecifiedTradeAllowanceCharge") {
		ac, err := parseAllowanceCharge(acEl, defaultCurrency)
		if err != nil {
			return li, err
		}
		li.AllowanceCharges = append(li.AllowanceCharges, ac)
	}
	if refDocEl := childElement(settlement, nsRAM, "AdditionalReferencedDocument"); refDocEl != nil {
		docRef, err := parseDocRef(refDocEl)
		if err != nil {
			return li, err
		}
		li.DocRef = docRef
	}
	if accountEl := childElement(settlement, nsRAM, "ReceivableSpecifiedTradeAccountingAccount"); accountEl != nil {
		if li.TradeAccountingID, err = findText(accountEl, nsRAM, "ID"); err != nil {
			return li, err
		}
	}
	summationEl := childElement(settlement, nsRAM, "SpecifiedTradeSettlementLineMonetarySummation")
	if summationEl == nil {
		return li, errElementNotFound("SpecifiedTradeSettlementLineMonetarySummation")
	}
	if li.BilledTotal, err = findAmount(summationEl, "LineTotalAmount", defaultCurrency); err != nil {
		return li, err
	}
	return li, nil
}

func parseGrossPrice(agreement *etree.Element, defaultCurrency string) (*model.GrossPrice, error) {
	el := childElement(agreement, nsRAM, "GrossPriceProductTradePrice")
	if el == nil {
		return nil, nil
	}
	amount, err := findText(el, nsRAM, "ChargeAmount")
	if err != nil {
		return nil, err
	}
	d, convErr := decimal.NewFromString(amount)
	if convErr != nil {
		return nil, NewStructureError("ChargeAmount", fmt.Sprintf("invalid decimal: %q", amount))
	}
	gross := &model.GrossPrice{Amount: d}
	if gross.BasisQuantity, err = findQuantityOptional(el, "BasisQuantity"); err != nil {
		return nil, err
	}
	if acEl := childElement(el, nsRAM, "AppliedTradeAllowanceCharge"); acEl != nil {
		ac, err := parseAllowanceCharge(acEl, defaultCurrency)
		if err != nil {
			return nil, err
		}
		gross.AllowanceCharge = &ac
	}
	return gross, nil
}

func parseClassification(parent *etree.Element) (model.ProductClassification, error) {
	classCodeEl := childElement(parent, nsRAM, "ClassCode")
	if classCodeEl == nil {
		return model.ProductClassification{}, errElementNotFound("ClassCode")
	}
	if classCodeEl.Text() == "" {
		return model.ProductClassification{}, errNoText("ClassCode")
	}
	listID := classCodeEl.SelectAttrValue("listID", "")
	if listID != "" && !model.ValidItemTypeCode(model.ItemTypeCode(listID)) {
		return model.ProductClassification{}, NewStructureError("ClassCode", fmt.Sprintf("invalid item type code: %q", listID))
	}
	return model.ProductClassification{
		ClassCode:     classCodeEl.Text(),
		ListID:        model.ItemTypeCode(listID),
		ListVersionID: classCodeEl.SelectAttrValue("listVersionID", ""),
	}, nil
}

func parseDocRef(el *etree.Element) (*model.DocRef, error) {
	id, err := findTextOptional(el, nsRAM, "IssuerAssignedID")
	if err != nil {
		return nil, err
	}
	typeCode, err := findText(el, nsRAM, "TypeCode")
	if err != nil {
		return nil, err
	}
	if typeCode != strconv.Itoa(int(model.DocTypeInvoicingDataSheet)) {
		return nil, NewStructureError("AdditionalReferencedDocument", fmt.Sprintf("invalid document type code: %q", typeCode))
	}
	refType, err := findTextOptional(el, nsRAM, "ReferenceTypeCode")
	if err != nil {
		return nil, err
	}
	if refType != "" && !model.ValidReferenceQualifierCode(model.ReferenceQualifierCode(refType)) {
		return nil, NewStructureError("ReferenceTypeCode", fmt.Sprintf("invalid reference qualifier code: %q", refType))
	}
	return &model.DocRef{ID: id, ReferenceTypeCode: model.ReferenceQualifierCode(refType)}, nil
}

func parseTradeParty(parent *etree.Element, local string) (*model.TradeParty, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return nil, nil
	}
	var party model.TradeParty
	var err error
	if party.IDs, err = findAllTexts(el, nsRAM, "ID"); err != nil {
		return nil, err
	}
	if party.GlobalIDs, err = findAllIdentifiers(el, "GlobalID"); err != nil {
		return nil, err
	}
	if party.Name, err = findTextOptional(el, nsRAM, "Name"); err != nil {
		return nil, err
	}
	if party.Description, err = findTextOptional(el, nsRAM, "Description"); err != nil {
		return nil, err
	}
	if legalEl := childElement(el, nsRAM, "SpecifiedLegalOrganization"); legalEl != nil {
		if party.LegalID, err = findIdentifierOptional(legalEl, "ID"); err != nil {
			return nil, err
		}
		if party.TradingBusinessName, err = findTextOptional(legalEl, nsRAM, "TradingBusinessName"); err != nil {
			return nil, err
		}
	}
	for _, contactEl := range childElements(el, nsRAM, "DefinedTradeContact") {
		contact, err := parseTradeContact(contactEl)
		if err != nil {
			return nil, err
		}
		party.Contacts = append(party.Contacts, contact)
	}
	if party.Address, err = parseAddress(el); err != nil {
		return nil, err
	}
	if party.Email, err = parseEmail(el, "URIUniversalCommunication"); err != nil {
		return nil, err
	}
	for _, regEl := range childElements(el, nsRAM, "SpecifiedTaxRegistration") {
		idEl := childElement(regEl, nsRAM, "ID")
		if idEl == nil {
			return nil, errElementNotFound("SpecifiedTaxRegistration/ID")
		}
		if idEl.Text() == "" {
			return nil, errNoText("SpecifiedTaxRegistration/ID")
		}
		switch scheme := idEl.SelectAttrValue("schemeID", ""); scheme {
		case "FC":
			if party.TaxNumber != "" {
				return nil, NewStructureError("SpecifiedTaxRegistration", "multiple tax numbers found")
			}
			party.TaxNumber = idEl.Text()
		case "VA":
			if party.VATID != "" {
				return nil, NewStructureError("SpecifiedTaxRegistration", "multiple VAT IDs found")
			}
			party.VATID = idEl.Text()
		default:
			return nil, NewStructureError("SpecifiedTaxRegistration", fmt.Sprintf("invalid schemeID: %q", scheme))
		}
	}
	return &party, nil
}

func parseTradeContact(el *etree.Element) (model.TradeContact, error) {
	var contact model.TradeContact
	var err error
	if contact.PersonName, err = findTextOptional(el, nsRAM, "PersonName"); err != nil {
		return contact, err
	}
	if contact.DepartmentName, err = findTextOptional(el, nsRAM, "DepartmentName"); err != nil {
		return contact, err
	}
	if phoneEl := childElement(el, nsRAM, "TelephoneUniversalCommunication"); phoneEl != nil {
		if contact.Phone, err = findTextOptional(phoneEl, nsRAM, "CompleteNumber"); err != nil {
			return contact, err
		}
	}
	if contact.Email, err = parseEmail(el, "EmailURIUniversalCommunication"); err != nil {
		return contact, err
	}
	return contact, nil
}

func parseAddress(parent *etree.Element) (*model.PostalAddress, error) {
	el := childElement(parent, nsRAM, "PostalTradeAddress")
	if el == nil {
		return nil, nil
	}
	var address model.PostalAddress
	var err error
	if address.PostCode, err = findTextOptional(el, nsRAM, "PostcodeCode"); err != nil {
		return nil, err
	}
	if address.LineOne, err = findTextOptional(el, nsRAM, "LineOne"); err != nil {
		return nil, err
	}
	if address.LineTwo, err = findTextOptional(el, nsRAM, "LineTwo"); err != nil {
		return nil, err
	}
	if address.LineThree, err = findTextOptional(el, nsRAM, "LineThree"); err != nil {
		return nil, err
	}
	if address.City, err = findTextOptional(el, nsRAM, "CityName"); err != nil {
		return nil, err
	}
	if address.CountryCode, err = findText(el, nsRAM, "CountryID"); err != nil {
		return nil, err
	}
	if address.CountrySubdivision, err = findTextOptional(el, nsRAM, "CountrySubDivisionName"); err != nil {
		return nil, err
	}
	return &address, nil
}

// parseEmail reads a URIUniversalCommunication wrapper, requiring the EM
// scheme and stripping the mailto prefix the generator adds.
func parseEmail(parent *etree.Element, local string) (string, error) {
	el := childElement(parent, nsRAM, local)
	if el == nil {
		return "", nil
	}
	uri := childElement(el, nsRAM, "URIID")
	if uri == nil {
		return "", errElementNotFound(local + "/URIID")
	}
	if uri.SelectAttrValue("schemeID", "") != "EM" {
		return "", NewStructureError(local, "invalid schemeID for email address")
	}
	if uri.Text() == "" {
		return "", errNoText(local + "/URIID")
	}
	return strings.TrimPrefix(uri.Text(), "mailto:"), nil
}
