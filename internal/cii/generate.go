package cii

import (
	"encoding/base64"
	"strconv"

	"github.com/beevik/etree"

	"github.com/rezonia/facturx/internal/model"
)

// Generate writes the invoice to a Cross Industry Invoice element tree.
// It is total for invoices built through model.New: every validated
// invoice generates, and the result parses back to an equal invoice.
func Generate(inv *model.Invoice) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", nsRSM)
	root.CreateAttr("xmlns:ram", nsRAM)
	root.CreateAttr("xmlns:udt", nsUDT)

	writeDocContext(root, inv)
	writeDoc(root, inv)
	writeTransaction(root, inv)
	return doc
}

// GenerateString renders the invoice as an indented XML document.
func GenerateString(inv *model.Invoice) (string, error) {
	doc := Generate(inv)
	doc.Indent(2)
	return doc.WriteToString()
}

func writeDocContext(parent *etree.Element, inv *model.Invoice) {
	ctx := parent.CreateElement("rsm:ExchangedDocumentContext")
	if inv.BusinessProcessID != "" {
		process := ctx.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter")
		addText(process, "ram:ID", inv.BusinessProcessID)
	}
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	addText(guideline, "ram:ID", inv.Profile.URN())
}

func writeDoc(parent *etree.Element, inv *model.Invoice) {
	doc := parent.CreateElement("rsm:ExchangedDocument")
	addText(doc, "ram:ID", inv.Number)
	addText(doc, "ram:TypeCode", strconv.Itoa(int(inv.TypeCode)))
	addDate(doc, "ram:IssueDateTime", inv.IssueDate)
	for _, note := range inv.Notes {
		writeNote(doc, note)
	}
}

func writeNote(parent *etree.Element, note model.IncludedNote) {
	el := parent.CreateElement("ram:IncludedNote")
	addText(el, "ram:Content", note.Content)
	if note.SubjectCode != "" {
		addText(el, "ram:SubjectCode", string(note.SubjectCode))
	}
}

func writeTransaction(parent *etree.Element, inv *model.Invoice) {
	tx := parent.CreateElement("rsm:SupplyChainTradeTransaction")
	for i := range inv.LineItems {
		writeLineItem(tx, inv, &inv.LineItems[i], i+1)
	}
	writeAgreement(tx, inv)
	writeDelivery(tx, inv)
	writeSettlement(tx, inv)
}

func writeLineItem(parent *etree.Element, inv *model.Invoice, li *model.LineItem, index int) {
	el := parent.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	doc := el.CreateElement("ram:AssociatedDocumentLineDocument")
	lineID := li.ID
	if lineID == "" {
		lineID = strconv.Itoa(index)
	}
	addText(doc, "ram:LineID", lineID)
	if li.Note != nil {
		writeNote(doc, *li.Note)
	}

	product := el.CreateElement("ram:SpecifiedTradeProduct")
	if li.GlobalID != nil {
		addIdentifier(product, "ram:GlobalID", *li.GlobalID)
	}
	addText(product, "ram:Name", li.Name)
	if li.SellerAssignedID != "" {
		addText(product, "ram:SellerAssignedID", li.SellerAssignedID)
	}
	if li.BuyerAssignedID != "" {
		addText(product, "ram:BuyerAssignedID", li.BuyerAssignedID)
	}
	if li.Description != "" {
		addText(product, "ram:Description", li.Description)
	}
	for _, c := range li.Characteristics {
		cEl := product.CreateElement("ram:ApplicableProductCharacteristic")
		addText(cEl, "ram:Description", c.Description)
		addText(cEl, "ram:Value", c.Value)
	}
	for _, cl := range li.Classifications {
		clEl := product.CreateElement("ram:DesignatedProductClassification")
		ccEl := addText(clEl, "ram:ClassCode", cl.ClassCode)
		if cl.ListID != "" {
			ccEl.CreateAttr("listID", string(cl.ListID))
		}
		if cl.ListVersionID != "" {
			ccEl.CreateAttr("listVersionID", cl.ListVersionID)
		}
	}
	if li.OriginCountry != "" {
		country := product.CreateElement("ram:OriginTradeCountry")
		addText(country, "ram:ID", li.OriginCountry)
	}

	agreement := el.CreateElement("ram:SpecifiedLineTradeAgreement")
	if li.BuyerOrderLineID != "" {
		orderDoc := agreement.CreateElement("ram:BuyerOrderReferencedDocument")
		addText(orderDoc, "ram:LineID", li.BuyerOrderLineID)
	}
	if li.GrossPrice != nil {
		gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
		addText(gross, "ram:ChargeAmount", model.DecimalText(li.GrossPrice.Amount))
		if li.GrossPrice.BasisQuantity != nil {
			addQuantity(gross, "ram:BasisQuantity", *li.GrossPrice.BasisQuantity)
		}
		if ac := li.GrossPrice.AllowanceCharge; ac != nil {
			acEl := gross.CreateElement("ram:AppliedTradeAllowanceCharge")
			writeChargeIndicator(acEl, ac.Charge)
			addAmount(acEl, "ram:ActualAmount", ac.ActualAmount, inv.CurrencyCode)
		}
	}
	netPrice := agreement.CreateElement("ram:NetPriceProductTradePrice")
	addAmount(netPrice, "ram:ChargeAmount", li.NetPrice, inv.CurrencyCode)
	if li.BasisQuantity != nil {
		addQuantity(netPrice, "ram:BasisQuantity", *li.BasisQuantity)
	}

	delivery := el.CreateElement("ram:SpecifiedLineTradeDelivery")
	addQuantity(delivery, "ram:BilledQuantity", li.BilledQuantity)

	settlement := el.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	addText(tax, "ram:TypeCode", "VAT")
	addText(tax, "ram:CategoryCode", string(li.TaxCategory))
	addText(tax, "ram:RateApplicablePercent", model.DecimalText(li.TaxRate))
	if li.BillingPeriod != nil {
		period := settlement.CreateElement("ram:BillingSpecifiedPeriod")
		addDate(period, "ram:StartDateTime", li.BillingPeriod.Start)
		addDate(period, "ram:EndDateTime", li.BillingPeriod.End)
	}
	for i := range li.AllowanceCharges {
		writeAllowanceCharge(settlement, &li.AllowanceCharges[i], inv.CurrencyCode)
	}
	if li.DocRef != nil {
		refDoc := settlement.CreateElement("ram:AdditionalReferencedDocument")
		addText(refDoc, "ram:IssuerAssignedID", li.DocRef.ID)
		addText(refDoc, "ram:TypeCode", strconv.Itoa(int(model.DocTypeInvoicingDataSheet)))
		if li.DocRef.ReferenceTypeCode != "" {
			addText(refDoc, "ram:ReferenceTypeCode", string(li.DocRef.ReferenceTypeCode))
		}
	}
	if li.TradeAccountingID != "" {
		account := settlement.CreateElement("ram:ReceivableSpecifiedTradeAccountingAccount")
		addText(account, "ram:ID", li.TradeAccountingID)
	}
	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	addAmount(summation, "ram:LineTotalAmount", li.BilledTotal, inv.CurrencyCode)
}

// writeChargeIndicator marks the entry as a surcharge (true) or an
// allowance (false).
func writeChargeIndicator(parent *etree.Element, charge bool) {
	el := parent.CreateElement("ram:ChargeIndicator")
	addText(el, "udt:Indicator", strconv.FormatBool(charge))
}

func writeAllowanceCharge(parent *etree.Element, ac *model.LineAllowanceCharge, invoiceCurrency string) *etree.Element {
	el := parent.CreateElement("ram:SpecifiedTradeAllowanceCharge")
	writeChargeIndicator(el, ac.Charge)
	if ac.Percent != nil {
		addText(el, "ram:CalculationPercent", model.DecimalText(*ac.Percent))
	}
	if ac.BasisAmount != nil {
		addAmount(el, "ram:BasisAmount", *ac.BasisAmount, invoiceCurrency)
	}
	addAmount(el, "ram:ActualAmount", ac.ActualAmount, invoiceCurrency)
	if ac.Charge {
		if ac.ChargeReason != "" {
			addText(el, "ram:ReasonCode", string(ac.ChargeReason))
		}
	} else if ac.AllowanceReason != 0 {
		addText(el, "ram:ReasonCode", strconv.Itoa(int(ac.AllowanceReason)))
	}
	if ac.Reason != "" {
		addText(el, "ram:Reason", ac.Reason)
	}
	return el
}

func writeAgreement(parent *etree.Element, inv *model.Invoice) {
	el := parent.CreateElement("ram:ApplicableHeaderTradeAgreement")
	if inv.BuyerReference != "" {
		addText(el, "ram:BuyerReference", inv.BuyerReference)
	}
	writeTradeParty(el, "ram:SellerTradeParty", &inv.Seller)
	writeTradeParty(el, "ram:BuyerTradeParty", &inv.Buyer)
	if inv.SellerTaxRepresentative != nil {
		writeTradeParty(el, "ram:SellerTaxRepresentativeTradeParty", inv.SellerTaxRepresentative)
	}
	addRefDoc(el, "ram:SellerOrderReferencedDocument", inv.SellerOrderID)
	addRefDoc(el, "ram:BuyerOrderReferencedDocument", inv.BuyerOrderID)
	addRefDoc(el, "ram:ContractReferencedDocument", inv.ContractID)
	for i := range inv.ReferencedDocs {
		writeReferencedDoc(el, &inv.ReferencedDocs[i])
	}
	if inv.ProcuringProject != nil {
		project := el.CreateElement("ram:SpecifiedProcuringProject")
		addText(project, "ram:ID", inv.ProcuringProject.ID)
		addText(project, "ram:Name", inv.ProcuringProject.Name)
	}
}

func writeReferencedDoc(parent *etree.Element, doc *model.ReferenceDocument) {
	el := parent.CreateElement("ram:AdditionalReferencedDocument")
	addText(el, "ram:IssuerAssignedID", doc.ID)
	if doc.URL != "" {
		addText(el, "ram:URIID", doc.URL)
	}
	addText(el, "ram:TypeCode", strconv.Itoa(int(doc.TypeCode)))
	if doc.Name != "" {
		addText(el, "ram:Name", doc.Name)
	}
	if doc.Attachment != nil {
		attach := el.CreateElement("ram:AttachmentBinaryObject")
		attach.CreateAttr("mimeCode", doc.Attachment.MimeType)
		attach.CreateAttr("filename", doc.Attachment.Filename)
		attach.SetText(base64.StdEncoding.EncodeToString(doc.Attachment.Content))
	}
	if doc.ReferenceTypeCode != "" {
		addText(el, "ram:ReferenceTypeCode", string(doc.ReferenceTypeCode))
	}
}

func writeDelivery(parent *etree.Element, inv *model.Invoice) {
	el := parent.CreateElement("ram:ApplicableHeaderTradeDelivery")
	if inv.ShipTo != nil {
		writeTradeParty(el, "ram:ShipToTradeParty", inv.ShipTo)
	}
	if inv.DeliveryDate != nil {
		event := el.CreateElement("ram:ActualDeliverySupplyChainEvent")
		addDate(event, "ram:OccurrenceDateTime", *inv.DeliveryDate)
	}
	addRefDoc(el, "ram:DespatchAdviceReferencedDocument", inv.DespatchAdviceID)
	addRefDoc(el, "ram:ReceivingAdviceReferencedDocument", inv.ReceivingAdviceID)
}

func writeSettlement(parent *etree.Element, inv *model.Invoice) {
	el := parent.CreateElement("ram:ApplicableHeaderTradeSettlement")
	if inv.SepaReference != "" {
		addText(el, "ram:CreditorReferenceID", inv.SepaReference)
	}
	if inv.PaymentReference != "" {
		addText(el, "ram:PaymentReference", inv.PaymentReference)
	}
	if inv.TaxCurrencyCode != "" {
		addText(el, "ram:TaxCurrencyCode", inv.TaxCurrencyCode)
	}
	addText(el, "ram:InvoiceCurrencyCode", inv.CurrencyCode)
	if inv.Payee != nil {
		writeTradeParty(el, "ram:PayeeTradeParty", inv.Payee)
	}
	for i := range inv.PaymentMeans {
		writePaymentMeans(el, &inv.PaymentMeans[i])
	}
	for i := range inv.Tax {
		writeTax(el, &inv.Tax[i], inv.CurrencyCode)
	}
	if inv.BillingPeriod != nil {
		period := el.CreateElement("ram:BillingSpecifiedPeriod")
		addDate(period, "ram:StartDateTime", inv.BillingPeriod.Start)
		addDate(period, "ram:EndDateTime", inv.BillingPeriod.End)
	}
	for i := range inv.AllowanceCharges {
		ac := &inv.AllowanceCharges[i]
		acEl := writeAllowanceCharge(el, &ac.LineAllowanceCharge, inv.CurrencyCode)
		taxEl := acEl.CreateElement("ram:CategoryTradeTax")
		addText(taxEl, "ram:TypeCode", "VAT")
		addText(taxEl, "ram:CategoryCode", string(ac.TaxCategory))
		if ac.TaxRate != nil {
			addText(taxEl, "ram:RateApplicablePercent", model.DecimalText(*ac.TaxRate))
		}
	}
	if inv.PaymentTerms != nil {
		terms := el.CreateElement("ram:SpecifiedTradePaymentTerms")
		if inv.PaymentTerms.Description != "" {
			addText(terms, "ram:Description", inv.PaymentTerms.Description)
		}
		if inv.PaymentTerms.DueDate != nil {
			addDate(terms, "ram:DueDateDateTime", *inv.PaymentTerms.DueDate)
		}
		if inv.PaymentTerms.DirectDebitMandateID != "" {
			addText(terms, "ram:DirectDebitMandateID", inv.PaymentTerms.DirectDebitMandateID)
		}
	}
	writeSummation(el, inv)
	for _, prev := range inv.PrecedingInvoices {
		prevEl := el.CreateElement("ram:InvoiceReferencedDocument")
		addText(prevEl, "ram:IssuerAssignedID", prev.ID)
		if prev.IssueDate != nil {
			addDate(prevEl, "ram:FormattedIssueDateTime", *prev.IssueDate)
		}
	}
	for _, id := range inv.ReceiverAccountingIDs {
		account := el.CreateElement("ram:ReceivableSpecifiedTradeAccountingAccount")
		addText(account, "ram:ID", id)
	}
}

func writePaymentMeans(parent *etree.Element, means *model.PaymentMeans) {
	el := parent.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	addText(el, "ram:TypeCode", string(means.TypeCode))
	if means.Information != "" {
		addText(el, "ram:Information", means.Information)
	}
	if means.Card != nil {
		card := el.CreateElement("ram:ApplicableTradeSettlementFinancialCard")
		addText(card, "ram:ID", means.Card.PAN)
		if means.Card.HolderName != "" {
			addText(card, "ram:CardholderName", means.Card.HolderName)
		}
	}
	if means.PayerIBAN != "" {
		account := el.CreateElement("ram:PayerPartyDebtorFinancialAccount")
		addText(account, "ram:IBANID", means.PayerIBAN)
	}
	if means.PayeeAccount != nil {
		account := el.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		if means.PayeeAccount.IBAN != "" {
			addText(account, "ram:IBANID", means.PayeeAccount.IBAN)
		}
		if means.PayeeAccount.Name != "" {
			addText(account, "ram:AccountName", means.PayeeAccount.Name)
		}
		if means.PayeeAccount.BankID != "" {
			addText(account, "ram:ProprietaryID", means.PayeeAccount.BankID)
		}
	}
	if means.PayeeBIC != "" {
		inst := el.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
		addText(inst, "ram:BICID", means.PayeeBIC)
	}
}

func writeTax(parent *etree.Element, tax *model.Tax, invoiceCurrency string) {
	el := parent.CreateElement("ram:ApplicableTradeTax")
	addAmount(el, "ram:CalculatedAmount", tax.CalculatedAmount, invoiceCurrency)
	addText(el, "ram:TypeCode", "VAT")
	if tax.ExemptionReason != "" {
		addText(el, "ram:ExemptionReason", tax.ExemptionReason)
	}
	addAmount(el, "ram:BasisAmount", tax.BasisAmount, invoiceCurrency)
	addText(el, "ram:CategoryCode", string(tax.CategoryCode))
	if tax.ExemptionReasonCode != "" {
		addText(el, "ram:ExemptionReasonCode", string(tax.ExemptionReasonCode))
	}
	if tax.TaxPointDate != nil {
		addDate(el, "ram:TaxPointDate", *tax.TaxPointDate)
	}
	if tax.DueDateTypeCode != nil {
		addText(el, "ram:DueDateTypeCode", strconv.Itoa(int(*tax.DueDateTypeCode)))
	}
	addText(el, "ram:RateApplicablePercent", model.DecimalText(tax.RatePercent))
}

func writeSummation(parent *etree.Element, inv *model.Invoice) {
	el := parent.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	if inv.LineTotal != nil {
		addAmount(el, "ram:LineTotalAmount", *inv.LineTotal, inv.CurrencyCode)
	}
	if inv.ChargeTotal != nil {
		addAmount(el, "ram:ChargeTotalAmount", *inv.ChargeTotal, inv.CurrencyCode)
	}
	if inv.AllowanceTotal != nil {
		addAmount(el, "ram:AllowanceTotalAmount", *inv.AllowanceTotal, inv.CurrencyCode)
	}
	addAmount(el, "ram:TaxBasisTotalAmount", inv.TaxBasisTotal, inv.CurrencyCode)
	for _, total := range inv.TaxTotals {
		addAmount(el, "ram:TaxTotalAmount", total, inv.CurrencyCode)
	}
	if inv.Rounding != nil {
		addAmount(el, "ram:RoundingAmount", *inv.Rounding, inv.CurrencyCode)
	}
	addAmount(el, "ram:GrandTotalAmount", inv.GrandTotal, inv.CurrencyCode)
	if inv.Prepaid != nil {
		addAmount(el, "ram:TotalPrepaidAmount", *inv.Prepaid, inv.CurrencyCode)
	}
	addAmount(el, "ram:DuePayableAmount", inv.DuePayable, inv.CurrencyCode)
}

func writeTradeParty(parent *etree.Element, tag string, party *model.TradeParty) {
	el := parent.CreateElement(tag)
	for _, id := range party.IDs {
		addText(el, "ram:ID", id)
	}
	for _, globalID := range party.GlobalIDs {
		addIdentifier(el, "ram:GlobalID", globalID)
	}
	if party.Name != "" {
		addText(el, "ram:Name", party.Name)
	}
	if party.Description != "" {
		addText(el, "ram:Description", party.Description)
	}
	if party.LegalID != nil || party.TradingBusinessName != "" {
		legal := el.CreateElement("ram:SpecifiedLegalOrganization")
		if party.LegalID != nil {
			addIdentifier(legal, "ram:ID", *party.LegalID)
		}
		if party.TradingBusinessName != "" {
			addText(legal, "ram:TradingBusinessName", party.TradingBusinessName)
		}
	}
	for _, contact := range party.Contacts {
		writeTradeContact(el, contact)
	}
	if party.Address != nil {
		writeAddress(el, party.Address)
	}
	if party.Email != "" {
		addEmail(el, "ram:URIUniversalCommunication", party.Email)
	}
	if party.TaxNumber != "" {
		reg := el.CreateElement("ram:SpecifiedTaxRegistration")
		id := addText(reg, "ram:ID", party.TaxNumber)
		id.CreateAttr("schemeID", "FC")
	}
	if party.VATID != "" {
		reg := el.CreateElement("ram:SpecifiedTaxRegistration")
		id := addText(reg, "ram:ID", party.VATID)
		id.CreateAttr("schemeID", "VA")
	}
}

func writeTradeContact(parent *etree.Element, contact model.TradeContact) {
	el := parent.CreateElement("ram:DefinedTradeContact")
	if contact.PersonName != "" {
		addText(el, "ram:PersonName", contact.PersonName)
	}
	if contact.DepartmentName != "" {
		addText(el, "ram:DepartmentName", contact.DepartmentName)
	}
	if contact.Phone != "" {
		phone := el.CreateElement("ram:TelephoneUniversalCommunication")
		addText(phone, "ram:CompleteNumber", contact.Phone)
	}
	if contact.Email != "" {
		addEmail(el, "ram:EmailURIUniversalCommunication", contact.Email)
	}
}

func writeAddress(parent *etree.Element, address *model.PostalAddress) {
	el := parent.CreateElement("ram:PostalTradeAddress")
	if address.PostCode != "" {
		addText(el, "ram:PostcodeCode", address.PostCode)
	}
	if address.LineOne != "" {
		addText(el, "ram:LineOne", address.LineOne)
	}
	if address.LineTwo != "" {
		addText(el, "ram:LineTwo", address.LineTwo)
	}
	if address.LineThree != "" {
		addText(el, "ram:LineThree", address.LineThree)
	}
	if address.City != "" {
		addText(el, "ram:CityName", address.City)
	}
	addText(el, "ram:CountryID", address.CountryCode)
	if address.CountrySubdivision != "" {
		addText(el, "ram:CountrySubDivisionName", address.CountrySubdivision)
	}
}
