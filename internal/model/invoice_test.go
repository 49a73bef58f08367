package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/model"
)

func minimumInvoice() model.Invoice {
	return model.Invoice{
		Profile:   model.ProfileMinimum,
		Number:    "RE-2024-0815",
		TypeCode:  model.DocTypeInvoice,
		IssueDate: model.Date(2024, time.March, 5),
		Seller: model.TradeParty{
			Name:    "Lieferant GmbH",
			VATID:   "DE123456789",
			Address: &model.PostalAddress{CountryCode: "DE"},
		},
		Buyer:         model.TradeParty{Name: "Kunde AG"},
		CurrencyCode:  "EUR",
		TaxBasisTotal: model.MustMoney("198.00", "EUR"),
		TaxTotals:     []model.Money{model.MustMoney("37.62", "EUR")},
		GrandTotal:    model.MustMoney("235.62", "EUR"),
		DuePayable:    model.MustMoney("235.62", "EUR"),
	}
}

func basicWLInvoice() model.Invoice {
	inv := minimumInvoice()
	inv.Profile = model.ProfileBasicWL
	inv.Buyer.Address = &model.PostalAddress{CountryCode: "DE", City: "Berlin", PostCode: "10115"}
	lineTotal := model.MustMoney("198.00", "EUR")
	inv.LineTotal = &lineTotal
	inv.Tax = []model.Tax{
		{
			CalculatedAmount: model.MustMoney("37.62", "EUR"),
			BasisAmount:      model.MustMoney("198.00", "EUR"),
			RatePercent:      decimal.New(19, 0),
			CategoryCode:     model.TaxStandardRate,
		},
	}
	return inv
}

func basicInvoice() model.Invoice {
	inv := basicWLInvoice()
	inv.Profile = model.ProfileBasic
	inv.LineItems = []model.LineItem{
		{
			ID:             "1",
			Name:           "Trennblätter A4",
			NetPrice:       model.MustMoney("9.90", "EUR"),
			BilledQuantity: model.Quantity{Amount: decimal.New(20, 0), Unit: model.UnitPiece},
			BilledTotal:    model.MustMoney("198.00", "EUR"),
			TaxRate:        decimal.New(19, 0),
			TaxCategory:    model.TaxStandardRate,
		},
	}
	return inv
}

func en16931Invoice() model.Invoice {
	inv := basicInvoice()
	inv.Profile = model.ProfileEN16931
	return inv
}

func TestNewValidInvoices(t *testing.T) {
	tests := []struct {
		name string
		inv  model.Invoice
	}{
		{"minimum", minimumInvoice()},
		{"basic wl", basicWLInvoice()},
		{"basic", basicInvoice()},
		{"en16931", en16931Invoice()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.New(tt.inv)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.inv.Number, got.Number)
		})
	}
}

func TestNewRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Invoice)
		wantErr string
	}{
		{
			"missing number",
			func(inv *model.Invoice) { inv.Number = "" },
			"invoice number is required",
		},
		{
			"non-invoice type code",
			func(inv *model.Invoice) { inv.TypeCode = model.DocTypeRelatedDocument },
			"invalid invoice type code",
		},
		{
			"missing issue date",
			func(inv *model.Invoice) { inv.IssueDate = time.Time{} },
			"issue date is required",
		},
		{
			"bad currency",
			func(inv *model.Invoice) { inv.CurrencyCode = "euro" },
			"invalid ISO 4217 currency code",
		},
		{
			"missing seller name",
			func(inv *model.Invoice) { inv.Seller.Name = "" },
			"seller name is required",
		},
		{
			"missing seller address",
			func(inv *model.Invoice) { inv.Seller.Address = nil },
			"seller address is required",
		},
		{
			"missing buyer name",
			func(inv *model.Invoice) { inv.Buyer.Name = "" },
			"buyer name is required",
		},
		{
			"no tax total",
			func(inv *model.Invoice) { inv.TaxTotals = nil },
			"at least one tax total amount is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := minimumInvoice()
			tt.mutate(&inv)
			_, err := model.New(inv)
			require.Error(t, err)
			var merr *model.ModelError
			require.ErrorAs(t, err, &merr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewPartyMatrix(t *testing.T) {
	tests := []struct {
		name    string
		inv     func() model.Invoice
		mutate  func(*model.Invoice)
		wantErr string
	}{
		{
			"buyer VAT ID below basic wl",
			minimumInvoice,
			func(inv *model.Invoice) { inv.Buyer.VATID = "DE987654321" },
			"buyer VAT ID is not allowed below the BASIC WL profile",
		},
		{
			"buyer tax number below basic wl",
			minimumInvoice,
			func(inv *model.Invoice) { inv.Buyer.TaxNumber = "201/113/40209" },
			"buyer tax number is not allowed below the BASIC WL profile",
		},
		{
			"seller email below basic wl",
			minimumInvoice,
			func(inv *model.Invoice) { inv.Seller.Email = "billing@example.com" },
			"seller email is not allowed below the BASIC WL profile",
		},
		{
			"seller IDs below basic wl",
			minimumInvoice,
			func(inv *model.Invoice) { inv.Seller.IDs = []string{"S-1"} },
			"seller IDs is not allowed below the BASIC WL profile",
		},
		{
			"seller description below en16931",
			basicInvoice,
			func(inv *model.Invoice) { inv.Seller.Description = "Kleinunternehmer" },
			"seller description is not allowed below the EN 16931 profile",
		},
		{
			"buyer description never allowed",
			en16931Invoice,
			func(inv *model.Invoice) { inv.Buyer.Description = "n/a" },
			"buyer description is not allowed",
		},
		{
			"buyer trading business name below en16931",
			basicWLInvoice,
			func(inv *model.Invoice) { inv.Buyer.TradingBusinessName = "Kunde Handel" },
			"buyer trading business name is not allowed below the EN 16931 profile",
		},
		{
			"seller contacts below en16931",
			basicInvoice,
			func(inv *model.Invoice) { inv.Seller.Contacts = []model.TradeContact{{PersonName: "M. Muster"}} },
			"seller contacts is not allowed below the EN 16931 profile",
		},
		{
			"second buyer global ID",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.Buyer.GlobalIDs = []model.Identifier{
					{Value: "4000001123452", Scheme: model.SchemeGLN},
					{Value: "4000001123453", Scheme: model.SchemeGLN},
				}
			},
			"only one buyer global IDs entry is allowed",
		},
		{
			"payee address never allowed",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.Payee = &model.TradeParty{
					Name:    "Factoring AG",
					Address: &model.PostalAddress{CountryCode: "DE"},
				}
			},
			"payee address is not allowed",
		},
		{
			"tax representative without VAT ID",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.SellerTaxRepresentative = &model.TradeParty{
					Name:    "Vertretung GmbH",
					Address: &model.PostalAddress{CountryCode: "DE"},
				}
			},
			"seller tax representative VAT ID is required",
		},
		{
			"tax representative tax number never allowed",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.SellerTaxRepresentative = &model.TradeParty{
					Name:      "Vertretung GmbH",
					VATID:     "DE555555555",
					TaxNumber: "201/113/40209",
					Address:   &model.PostalAddress{CountryCode: "DE"},
				}
			},
			"seller tax representative tax number is not allowed",
		},
		{
			"ship-to with two IDs",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.ShipTo = &model.TradeParty{IDs: []string{"W-1", "W-2"}}
			},
			"only one ship-to IDs entry is allowed",
		},
		{
			"global ID without scheme",
			basicWLInvoice,
			func(inv *model.Invoice) {
				inv.Seller.GlobalIDs = []model.Identifier{{Value: "4000001123452"}}
			},
			"global identifiers require a scheme code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.inv()
			tt.mutate(&inv)
			_, err := model.New(inv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewMinimumAddressFields(t *testing.T) {
	inv := minimumInvoice()
	inv.Seller.Address = &model.PostalAddress{CountryCode: "DE", City: "Berlin"}
	_, err := model.New(inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address fields beyond the country code are not allowed in the MINIMUM profile")

	// The same address is fine from BASIC WL up.
	inv = basicWLInvoice()
	inv.Seller.Address = &model.PostalAddress{CountryCode: "DE", City: "Berlin"}
	_, err = model.New(inv)
	require.NoError(t, err)
}

func TestNewTaxTotalCardinality(t *testing.T) {
	inv := minimumInvoice()
	inv.TaxTotals = []model.Money{
		model.MustMoney("37.62", "EUR"),
		model.MustMoney("41.50", "CHF"),
	}
	_, err := model.New(inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 1 tax total amounts are allowed in the MINIMUM profile")

	inv = basicWLInvoice()
	inv.TaxTotals = []model.Money{
		model.MustMoney("37.62", "EUR"),
		model.MustMoney("41.50", "CHF"),
	}
	_, err = model.New(inv)
	require.NoError(t, err)

	inv.TaxTotals = append(inv.TaxTotals, model.MustMoney("35.00", "USD"))
	_, err = model.New(inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 tax total amounts are allowed")
}

func TestNewProfileGates(t *testing.T) {
	lineTotal := model.MustMoney("198.00", "EUR")
	tests := []struct {
		name    string
		mutate  func(*model.Invoice)
		wantErr string
	}{
		{
			"tax entry at minimum",
			func(inv *model.Invoice) {
				inv.Tax = []model.Tax{{
					CalculatedAmount: model.MustMoney("37.62", "EUR"),
					BasisAmount:      model.MustMoney("198.00", "EUR"),
					CategoryCode:     model.TaxStandardRate,
				}}
			},
			"tax entries are not allowed below the BASIC WL profile",
		},
		{
			"payee at minimum",
			func(inv *model.Invoice) { inv.Payee = &model.TradeParty{Name: "Factoring AG"} },
			"payee party are not allowed below the BASIC WL profile",
		},
		{
			"line items at minimum",
			func(inv *model.Invoice) {
				inv.LineItems = basicInvoice().LineItems
			},
			"line items are not allowed below the BASIC profile",
		},
		{
			"rounding at minimum",
			func(inv *model.Invoice) { inv.Rounding = &lineTotal },
			"rounding amount are not allowed below the EN 16931 profile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := minimumInvoice()
			tt.mutate(&inv)
			_, err := model.New(inv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("line items at basic wl", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.LineItems = basicInvoice().LineItems
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line items are not allowed below the BASIC profile")
	})

	t.Run("basic requires line items", func(t *testing.T) {
		inv := basicInvoice()
		inv.LineItems = nil
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one line item is required")
	})

	t.Run("basic wl requires line total", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.LineTotal = nil
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line total amount is required in the BASIC WL profile")
	})

	t.Run("basic wl requires tax", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.Tax = nil
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one tax entry is required")
	})

	t.Run("basic wl requires buyer address", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.Buyer.Address = nil
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "buyer address is required")
	})
}

func TestLineItemGates(t *testing.T) {
	t.Run("description below en16931", func(t *testing.T) {
		inv := basicInvoice()
		inv.LineItems[0].Description = "500 Blatt, 80g/m²"
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line item description is not allowed below the EN 16931 profile")
	})

	t.Run("description at en16931", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].Description = "500 Blatt, 80g/m²"
		_, err := model.New(inv)
		require.NoError(t, err)
	})

	t.Run("missing quantity unit", func(t *testing.T) {
		inv := basicInvoice()
		inv.LineItems[0].BilledQuantity.Unit = ""
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "billed quantity unit is required")
	})

	t.Run("note subject code", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].Note = &model.IncludedNote{
			Content:     "Sonderposten",
			SubjectCode: model.SubjectGeneralInformation,
		}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line item note subject codes are not allowed")
	})

	t.Run("gross price allowance with reason", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].GrossPrice = &model.GrossPrice{
			Amount: decimal.RequireFromString("11.90"),
			AllowanceCharge: &model.LineAllowanceCharge{
				ActualAmount: model.MustMoney("2.00", "EUR"),
				Reason:       "Rabatt",
			},
		}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price-level allowances/charges must not carry a reason")
	})

	t.Run("bad origin country", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].OriginCountry = "Germany"
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid ISO 3166-1 alpha-2 country code")
	})
}

func TestAllowanceChargeReasonCodes(t *testing.T) {
	percent := decimal.New(5, 0)

	t.Run("surcharge with allowance code", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.AllowanceCharges = []model.DocumentAllowanceCharge{{
			LineAllowanceCharge: model.LineAllowanceCharge{
				Charge:          true,
				ActualAmount:    model.MustMoney("5.00", "EUR"),
				AllowanceReason: model.AllowanceDiscount,
			},
			TaxCategory: model.TaxStandardRate,
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "surcharge must use a special service reason code")
	})

	t.Run("allowance with service code", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.AllowanceCharges = []model.DocumentAllowanceCharge{{
			LineAllowanceCharge: model.LineAllowanceCharge{
				ActualAmount: model.MustMoney("5.00", "EUR"),
				ChargeReason: model.ServiceFreight,
			},
			TaxCategory: model.TaxStandardRate,
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allowance must use an allowance reason code")
	})

	t.Run("percent below en16931", func(t *testing.T) {
		inv := basicInvoice()
		inv.LineItems[0].AllowanceCharges = []model.LineAllowanceCharge{{
			ActualAmount: model.MustMoney("2.00", "EUR"),
			Percent:      &percent,
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "percentage-based allowances/charges are not allowed")
	})

	t.Run("percent at en16931", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].AllowanceCharges = []model.LineAllowanceCharge{{
			ActualAmount: model.MustMoney("2.00", "EUR"),
			Percent:      &percent,
		}}
		_, err := model.New(inv)
		require.NoError(t, err)
	})
}

func TestTaxValidation(t *testing.T) {
	t.Run("tax point date below en16931", func(t *testing.T) {
		inv := basicWLInvoice()
		d := model.Date(2024, time.February, 29)
		inv.Tax[0].TaxPointDate = &d
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax point date is not allowed below the EN 16931 profile")
	})

	t.Run("tax point date at en16931", func(t *testing.T) {
		inv := en16931Invoice()
		d := model.Date(2024, time.February, 29)
		inv.Tax[0].TaxPointDate = &d
		_, err := model.New(inv)
		require.NoError(t, err)
	})

	t.Run("bad due date type code", func(t *testing.T) {
		inv := basicWLInvoice()
		code := model.PaymentTimeCode(99)
		inv.Tax[0].DueDateTypeCode = &code
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid due date type code")
	})

	t.Run("bad exemption code", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.Tax[0].ExemptionReasonCode = "NOT-A-CODE"
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid VAT exemption reason code")
	})
}

func TestPaymentGates(t *testing.T) {
	t.Run("payment means information below en16931", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.PaymentMeans = []model.PaymentMeans{{
			TypeCode:    model.PaymentMeansSEPACreditTransfer,
			Information: "Überweisung",
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payment means information is not allowed")
	})

	t.Run("payee account name below en16931", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.PaymentMeans = []model.PaymentMeans{{
			TypeCode:     model.PaymentMeansSEPACreditTransfer,
			PayeeAccount: &model.BankAccount{IBAN: "DE02120300000000202051", Name: "Lieferant GmbH"},
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payee account names are not allowed")
	})

	t.Run("payment terms description below en16931", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.PaymentTerms = &model.PaymentTerms{Description: "Zahlbar innerhalb 30 Tagen"}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payment terms descriptions are not allowed")
	})

	t.Run("sepa transfer at basic wl", func(t *testing.T) {
		inv := basicWLInvoice()
		inv.PaymentMeans = []model.PaymentMeans{{
			TypeCode:     model.PaymentMeansSEPACreditTransfer,
			PayeeAccount: &model.BankAccount{IBAN: "DE02120300000000202051"},
		}}
		_, err := model.New(inv)
		require.NoError(t, err)
	})
}

func TestReferenceDocuments(t *testing.T) {
	t.Run("valid attachment", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ReferencedDocs = []model.ReferenceDocument{{
			ID:       "A-1",
			TypeCode: model.DocTypeRelatedDocument,
			Attachment: &model.Attachment{
				Content:  []byte("%PDF-1.7"),
				MimeType: "application/pdf",
				Filename: "timesheet.pdf",
			},
		}}
		_, err := model.New(inv)
		require.NoError(t, err)
	})

	t.Run("invoice type code on reference", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ReferencedDocs = []model.ReferenceDocument{{ID: "A-1", TypeCode: model.DocTypeInvoice}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid reference document type code")
	})

	t.Run("forbidden mime type", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ReferencedDocs = []model.ReferenceDocument{{
			ID:       "A-1",
			TypeCode: model.DocTypeRelatedDocument,
			Attachment: &model.Attachment{
				Content:  []byte("<svg/>"),
				MimeType: "image/svg+xml",
				Filename: "logo.svg",
			},
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not allowed")
	})

	t.Run("below en16931", func(t *testing.T) {
		inv := basicInvoice()
		inv.ReferencedDocs = []model.ReferenceDocument{{ID: "A-1", TypeCode: model.DocTypeRelatedDocument}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "referenced documents are not allowed below the EN 16931 profile")
	})

	t.Run("empty attachment content", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ReferencedDocs = []model.ReferenceDocument{{
			ID:       "A-1",
			TypeCode: model.DocTypeRelatedDocument,
			Attachment: &model.Attachment{
				MimeType: "application/pdf",
				Filename: "timesheet.pdf",
			},
		}}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "attachment content is required")
	})
}

func TestLineDocRefValidation(t *testing.T) {
	t.Run("missing ID", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].DocRef = &model.DocRef{}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document reference ID is required")
	})

	t.Run("bad qualifier", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].DocRef = &model.DocRef{ID: "LD-1", ReferenceTypeCode: "XX"}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid reference qualifier code")
	})

	t.Run("valid", func(t *testing.T) {
		inv := en16931Invoice()
		inv.LineItems[0].DocRef = &model.DocRef{ID: "LD-1", ReferenceTypeCode: model.RefQualifierPriceListVersion}
		_, err := model.New(inv)
		require.NoError(t, err)
	})
}

func TestProcuringProjectValidation(t *testing.T) {
	t.Run("missing ID", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ProcuringProject = &model.ProcuringProject{Name: "Neubau Halle 3"}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "procuring project ID is required")
	})

	t.Run("missing name", func(t *testing.T) {
		inv := en16931Invoice()
		inv.ProcuringProject = &model.ProcuringProject{ID: "PRJ-1"}
		_, err := model.New(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "procuring project name is required")
	})
}
