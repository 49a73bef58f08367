package facturx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/pkg/facturx"
)

func TestPublicRoundTrip(t *testing.T) {
	inv, err := facturx.New(facturx.Invoice{
		Profile:   facturx.ProfileMinimum,
		Number:    "RE-2024-0815",
		TypeCode:  model.DocTypeInvoice,
		IssueDate: model.Date(2024, time.March, 5),
		Seller: facturx.TradeParty{
			Name:    "Lieferant GmbH",
			VATID:   "DE123456789",
			Address: &facturx.PostalAddress{CountryCode: "DE"},
		},
		Buyer:         facturx.TradeParty{Name: "Kunde AG"},
		CurrencyCode:  "EUR",
		TaxBasisTotal: model.MustMoney("198.00", "EUR"),
		TaxTotals:     []facturx.Money{model.MustMoney("37.62", "EUR")},
		GrandTotal:    model.MustMoney("235.62", "EUR"),
		DuePayable:    model.MustMoney("235.62", "EUR"),
	})
	require.NoError(t, err)

	xml, err := facturx.GenerateString(inv)
	require.NoError(t, err)

	parsed, err := facturx.Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-0815", parsed.Number)
	assert.Equal(t, facturx.ProfileMinimum, parsed.Profile)

	text := facturx.Render(parsed, facturx.RenderOptions{})
	assert.Contains(t, text, "Invoice RE-2024-0815")
}

func TestPublicErrorTypes(t *testing.T) {
	_, err := facturx.New(facturx.Invoice{Profile: facturx.ProfileMinimum})
	var modelErr *facturx.ModelError
	require.ErrorAs(t, err, &modelErr)

	_, err = facturx.Parse([]byte("<oops"))
	var syntaxErr *facturx.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	_, _, err = facturx.ExtractXML([]byte("not a pdf"))
	var containerErr *facturx.ContainerError
	require.True(t, errors.As(err, &containerErr))
}
