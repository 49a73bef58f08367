package cii_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
)

func generate(t *testing.T, inv model.Invoice) string {
	t.Helper()
	validated, err := model.New(inv)
	require.NoError(t, err)
	xml, err := cii.GenerateString(validated)
	require.NoError(t, err)
	return xml
}

func TestGenerateEnvelope(t *testing.T) {
	xml := generate(t, minimumInvoice())
	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xml, `xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"`)
	assert.Contains(t, xml, "<ram:ID>urn:factur-x.eu:1p0:minimum</ram:ID>")
	assert.Contains(t, xml, "<ram:TypeCode>380</ram:TypeCode>")
	assert.Contains(t, xml, `<udt:DateTimeString format="102">20240305</udt:DateTimeString>`)
	assert.Contains(t, xml, "<ram:InvoiceCurrencyCode>EUR</ram:InvoiceCurrencyCode>")
}

func TestGenerateProfileURNs(t *testing.T) {
	tests := []struct {
		inv model.Invoice
		urn string
	}{
		{minimumInvoice(), model.URNMinimum},
		{basicWLInvoice(), model.URNBasicWL},
		{basicInvoice(), model.URNBasic},
		{en16931Invoice(), model.URNEN16931},
	}
	for _, tt := range tests {
		t.Run(tt.urn, func(t *testing.T) {
			xml := generate(t, tt.inv)
			assert.Contains(t, xml, "<ram:ID>"+tt.urn+"</ram:ID>")
		})
	}
}

func TestGenerateOmitsEmptyOptionals(t *testing.T) {
	xml := generate(t, minimumInvoice())
	assert.NotContains(t, xml, "LineTotalAmount")
	assert.NotContains(t, xml, "PostalTradeAddress></ram:BuyerTradeParty")
	assert.NotContains(t, xml, "BusinessProcessSpecifiedDocumentContextParameter")
	assert.NotContains(t, xml, "IncludedSupplyChainTradeLineItem")
}

// A surcharge is flagged true and an allowance false on the wire.
func TestGenerateChargeIndicatorPolarity(t *testing.T) {
	xml := generate(t, en16931Invoice())

	charge := strings.Index(xml, "<ram:ReasonCode>FC</ram:ReasonCode>")
	allowance := strings.Index(xml, "<ram:ReasonCode>95</ram:ReasonCode>")
	require.Positive(t, charge)
	require.Positive(t, allowance)

	chargeIndicator := strings.LastIndex(xml[:charge], "<udt:Indicator>")
	allowanceIndicator := strings.LastIndex(xml[:allowance], "<udt:Indicator>")
	assert.True(t, strings.HasPrefix(xml[chargeIndicator:], "<udt:Indicator>true<"))
	assert.True(t, strings.HasPrefix(xml[allowanceIndicator:], "<udt:Indicator>false<"))
}

func TestGenerateEmailScheme(t *testing.T) {
	xml := generate(t, en16931Invoice())
	assert.Contains(t, xml, `<ram:URIID schemeID="EM">mailto:rechnung@lieferant.example</ram:URIID>`)

	parsed, err := cii.Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "rechnung@lieferant.example", parsed.Seller.Email)
}

func TestGenerateTaxRegistrationSchemes(t *testing.T) {
	xml := generate(t, en16931Invoice())
	assert.Contains(t, xml, `<ram:ID schemeID="FC">201/113/40209</ram:ID>`)
	assert.Contains(t, xml, `<ram:ID schemeID="VA">DE123456789</ram:ID>`)
}

// Amounts in the invoice currency carry no currencyID attribute.
func TestGenerateCurrencyAttribute(t *testing.T) {
	xml := generate(t, minimumInvoice())
	assert.Contains(t, xml, "<ram:GrandTotalAmount>235.62</ram:GrandTotalAmount>")
	assert.NotContains(t, xml, `currencyID="EUR"`)
}

func TestGenerateLineIDFallback(t *testing.T) {
	inv := basicInvoice()
	inv.LineItems[0].ID = ""
	xml := generate(t, inv)
	assert.Contains(t, xml, "<ram:LineID>1</ram:LineID>")
}
