// Package cii implements the Cross Industry Invoice XML codec for the
// four modeled Factur-X profiles. Generate writes a validated invoice to
// an element tree; Parse reads one back, rejecting anything the declared
// profile does not permit.
package cii

// UN/CEFACT namespaces used by the D16B Cross Industry Invoice syntax.
const (
	nsRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	nsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	nsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// dateFormat is the only DateTimeString format qualifier the profiles
// allow: calendar dates as YYYYMMDD.
const dateFormat = "102"
