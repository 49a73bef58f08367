package model

// UNTDID and related code list subsets used by the Factur-X profiles.
// Only the codes the profiles actually permit are listed; parsers reject
// anything else as a structural error.

// UnitCode is a quantity unit from UNECE/CEFACT Trade Facilitation
// Recommendations No. 20 and No. 21.
type UnitCode string

const (
	UnitOne         UnitCode = "C62" // aka "unit"
	UnitPiece       UnitCode = "H87" // aka "item"
	UnitHour        UnitCode = "HUR"
	UnitDay         UnitCode = "DAY"
	UnitLiter       UnitCode = "LTR"
	UnitCubicMeters UnitCode = "MTQ"
	UnitKilogram    UnitCode = "KGM"
	UnitMeters      UnitCode = "MTR"
	UnitTon         UnitCode = "TNE"
)

var validUnitCodes = map[UnitCode]bool{
	UnitOne: true, UnitPiece: true, UnitHour: true, UnitDay: true,
	UnitLiter: true, UnitCubicMeters: true, UnitKilogram: true,
	UnitMeters: true, UnitTon: true,
}

// ValidUnitCode reports whether the unit code is in the supported subset.
func ValidUnitCode(c UnitCode) bool {
	return validUnitCodes[c]
}

// IdentifierSchemeCode is an identifier scheme from the ISO/IEC 6523 list.
type IdentifierSchemeCode string

const (
	SchemeSIRENE         IdentifierSchemeCode = "0002"
	SchemeSIRET          IdentifierSchemeCode = "0009"
	SchemeSWIFT          IdentifierSchemeCode = "0021"
	SchemeDUNS           IdentifierSchemeCode = "0060"
	SchemeGLN            IdentifierSchemeCode = "0088"
	SchemeGTIN           IdentifierSchemeCode = "0160"
	SchemeODETTE         IdentifierSchemeCode = "0177"
	SchemeNumeroNational IdentifierSchemeCode = "0183"
	SchemeUIDB           IdentifierSchemeCode = "0188"
	SchemeKVK            IdentifierSchemeCode = "0192"
	SchemeETA            IdentifierSchemeCode = "0198"
	SchemeLEI            IdentifierSchemeCode = "0199"
	SchemeLeitwegID      IdentifierSchemeCode = "0204"
)

var validSchemeCodes = map[IdentifierSchemeCode]bool{
	SchemeSIRENE: true, SchemeSIRET: true, SchemeSWIFT: true,
	SchemeDUNS: true, SchemeGLN: true, SchemeGTIN: true,
	SchemeODETTE: true, SchemeNumeroNational: true, SchemeUIDB: true,
	SchemeKVK: true, SchemeETA: true, SchemeLEI: true, SchemeLeitwegID: true,
}

// ValidSchemeCode reports whether the scheme code is in the supported
// ISO/IEC 6523 subset.
func ValidSchemeCode(c IdentifierSchemeCode) bool {
	return validSchemeCodes[c]
}

// DocumentTypeCode is a document type from UNTDID 1001.
type DocumentTypeCode int

const (
	DocTypeValidatedPricedTender DocumentTypeCode = 50
	DocTypeInvoicingDataSheet    DocumentTypeCode = 130
	DocTypeProFormaInvoice       DocumentTypeCode = 325
	DocTypePartialInvoice        DocumentTypeCode = 326
	DocTypeInvoice               DocumentTypeCode = 380
	DocTypeCreditNote            DocumentTypeCode = 381
	DocTypeCorrection            DocumentTypeCode = 384
	DocTypePrepayment            DocumentTypeCode = 386
	DocTypeRelatedDocument       DocumentTypeCode = 916
)

// IsInvoiceType reports whether the code may appear as an invoice's own
// type code.
func (c DocumentTypeCode) IsInvoiceType() bool {
	switch c {
	case DocTypeProFormaInvoice, DocTypePartialInvoice, DocTypeInvoice,
		DocTypeCreditNote, DocTypeCorrection, DocTypePrepayment:
		return true
	}
	return false
}

// IsSupportingDocumentType reports whether the code may appear on an
// additional referenced document.
func (c DocumentTypeCode) IsSupportingDocumentType() bool {
	switch c {
	case DocTypeValidatedPricedTender, DocTypeInvoicingDataSheet, DocTypeRelatedDocument:
		return true
	}
	return false
}

// ValidDocumentTypeCode reports whether the code belongs to the supported
// UNTDID 1001 subset at all.
func ValidDocumentTypeCode(c DocumentTypeCode) bool {
	return c.IsInvoiceType() || c.IsSupportingDocumentType()
}

// ReferenceQualifierCode is a reference qualifier from UNTDID 1153.
type ReferenceQualifierCode string

const (
	RefQualifierPriceListVersion ReferenceQualifierCode = "PI"
)

// ValidReferenceQualifierCode reports membership in the UNTDID 1153 subset.
func ValidReferenceQualifierCode(c ReferenceQualifierCode) bool {
	return c == RefQualifierPriceListVersion
}

// PaymentTimeCode is a payment time reference from UNTDID 2475.
type PaymentTimeCode int

const (
	PaymentTimeInvoiceDate  PaymentTimeCode = 5
	PaymentTimeDeliveryDate PaymentTimeCode = 29
	PaymentTimePaymentDate  PaymentTimeCode = 72
)

// IsInvoiceDueDate reports whether the code is one of the due date type
// codes permitted on a tax entry.
func (c PaymentTimeCode) IsInvoiceDueDate() bool {
	switch c {
	case PaymentTimeInvoiceDate, PaymentTimeDeliveryDate, PaymentTimePaymentDate:
		return true
	}
	return false
}

// TextSubjectCode is a text subject qualifier from UNTDID 4451.
type TextSubjectCode string

const (
	SubjectGeneralInformation    TextSubjectCode = "AAI"
	SubjectCommentsBySeller      TextSubjectCode = "SUR"
	SubjectRegulatoryInformation TextSubjectCode = "REG"
	SubjectLegalInformation      TextSubjectCode = "ABL"
	SubjectTaxInformation        TextSubjectCode = "TXD"
	SubjectCustomsInformation    TextSubjectCode = "CUS"
)

var validSubjectCodes = map[TextSubjectCode]bool{
	SubjectGeneralInformation: true, SubjectCommentsBySeller: true,
	SubjectRegulatoryInformation: true, SubjectLegalInformation: true,
	SubjectTaxInformation: true, SubjectCustomsInformation: true,
}

// ValidTextSubjectCode reports membership in the UNTDID 4451 subset.
func ValidTextSubjectCode(c TextSubjectCode) bool {
	return validSubjectCodes[c]
}

// PaymentMeansCode is a payment means type from UNTDID 4461.
type PaymentMeansCode string

const (
	PaymentMeansSpecies            PaymentMeansCode = "10"
	PaymentMeansCheck              PaymentMeansCode = "20"
	PaymentMeansTransfer           PaymentMeansCode = "30"
	PaymentMeansBankPayment        PaymentMeansCode = "42"
	PaymentMeansCreditCard         PaymentMeansCode = "48"
	PaymentMeansDirectDebit        PaymentMeansCode = "49"
	PaymentMeansStandingAgreement  PaymentMeansCode = "57"
	PaymentMeansSEPACreditTransfer PaymentMeansCode = "58"
	PaymentMeansSEPADirectDebit    PaymentMeansCode = "59"
	PaymentMeansReport             PaymentMeansCode = "97"
	PaymentMeansInterimAgreement   PaymentMeansCode = "ZZZ"
)

var validPaymentMeansCodes = map[PaymentMeansCode]bool{
	PaymentMeansSpecies: true, PaymentMeansCheck: true,
	PaymentMeansTransfer: true, PaymentMeansBankPayment: true,
	PaymentMeansCreditCard: true, PaymentMeansDirectDebit: true,
	PaymentMeansStandingAgreement: true, PaymentMeansSEPACreditTransfer: true,
	PaymentMeansSEPADirectDebit: true, PaymentMeansReport: true,
	PaymentMeansInterimAgreement: true,
}

// ValidPaymentMeansCode reports membership in the UNTDID 4461 subset.
func ValidPaymentMeansCode(c PaymentMeansCode) bool {
	return validPaymentMeansCodes[c]
}

// AllowanceChargeCode is an allowance reason code from the EN 16931 subset
// of UNTDID 5189. The allowance and surcharge code sets are disjoint.
type AllowanceChargeCode int

const (
	AllowanceAheadOfSchedule AllowanceChargeCode = 41
	AllowanceDiscount        AllowanceChargeCode = 95
	AllowanceStandard        AllowanceChargeCode = 100
	AllowanceTemporary       AllowanceChargeCode = 102
)

var validAllowanceCodes = map[AllowanceChargeCode]bool{
	AllowanceAheadOfSchedule: true, AllowanceDiscount: true,
	AllowanceStandard: true, AllowanceTemporary: true,
}

// ValidAllowanceChargeCode reports membership in the allowance reason
// code set.
func ValidAllowanceChargeCode(c AllowanceChargeCode) bool {
	return validAllowanceCodes[c]
}

// SpecialServiceCode is a surcharge reason code from UNTDID 7161.
type SpecialServiceCode string

const (
	ServiceMaterialSurcharge SpecialServiceCode = "MC"
	ServiceMiscellaneous     SpecialServiceCode = "ABK"
	ServiceFreight           SpecialServiceCode = "FC"
	ServicePacking           SpecialServiceCode = "PC"
)

var validSpecialServiceCodes = map[SpecialServiceCode]bool{
	ServiceMaterialSurcharge: true, ServiceMiscellaneous: true,
	ServiceFreight: true, ServicePacking: true,
}

// ValidSpecialServiceCode reports membership in the surcharge reason
// code set.
func ValidSpecialServiceCode(c SpecialServiceCode) bool {
	return validSpecialServiceCodes[c]
}

// TaxCategoryCode is a duty/tax/fee category from UNTDID 5305 plus the
// categories EN 16931 defines on top of it.
type TaxCategoryCode string

const (
	TaxReverseCharge        TaxCategoryCode = "AE"
	TaxExempt               TaxCategoryCode = "E"
	TaxFreeExport           TaxCategoryCode = "G"
	TaxIntraCommunityExempt TaxCategoryCode = "K"
	TaxCanaryIslands        TaxCategoryCode = "L"
	TaxCeutaMelilla         TaxCategoryCode = "M"
	TaxOutOfScope           TaxCategoryCode = "O"
	TaxStandardRate         TaxCategoryCode = "S"
	TaxZeroRate             TaxCategoryCode = "Z"
)

var validTaxCategoryCodes = map[TaxCategoryCode]bool{
	TaxReverseCharge: true, TaxExempt: true, TaxFreeExport: true,
	TaxIntraCommunityExempt: true, TaxCanaryIslands: true,
	TaxCeutaMelilla: true, TaxOutOfScope: true, TaxStandardRate: true,
	TaxZeroRate: true,
}

// ValidTaxCategoryCode reports membership in the UNTDID 5305 subset.
func ValidTaxCategoryCode(c TaxCategoryCode) bool {
	return validTaxCategoryCodes[c]
}

// ItemTypeCode is an item type identification code from UNTDID 7143.
type ItemTypeCode string

const (
	ItemTypeISBN ItemTypeCode = "IB"
	ItemTypeISSN ItemTypeCode = "IS"
)

// ValidItemTypeCode reports membership in the UNTDID 7143 subset.
func ValidItemTypeCode(c ItemTypeCode) bool {
	return c == ItemTypeISBN || c == ItemTypeISSN
}

// VATExemptionCode is a VAT exemption reason code defined by the
// Connecting Europe Facility. The CEF list is open-ended, so values are
// carried verbatim and only checked for the VATEX prefix.
type VATExemptionCode string

// ValidVATExemptionCode reports whether the code looks like a CEF VATEX
// code.
func ValidVATExemptionCode(c VATExemptionCode) bool {
	return len(c) > 6 && c[:6] == "VATEX-"
}

// AllowedMimeTypes is the attachment MIME type allow-list from EN 16931.
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"text/csv":        true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.oasis.opendocument.spreadsheet":                    true,
}
