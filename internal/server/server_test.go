package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/server"
)

func newTestServer() *server.Server {
	return server.NewServer(&server.Config{
		Address: ":0",
		Logger:  zerolog.Nop(),
	})
}

func sampleXML(t *testing.T) []byte {
	t.Helper()
	inv, err := model.New(model.Invoice{
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
	})
	require.NoError(t, err)
	xml, err := cii.GenerateString(inv)
	require.NoError(t, err)
	return []byte(xml)
}

func post(t *testing.T, srv *server.Server, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestParse(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/v1/parse", sampleXML(t))

	require.Equal(t, http.StatusOK, w.Code)
	var response server.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "RE-2024-0815", response.Invoice.Number)
	assert.Equal(t, "MINIMUM", response.Invoice.Profile)
	assert.Equal(t, "Lieferant GmbH", response.Invoice.Seller.Name)
	assert.Equal(t, "235.62 EUR", response.Invoice.GrandTotal)
	assert.Empty(t, response.Text)
}

func TestParseWithText(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/v1/parse?text=true", sampleXML(t))

	require.Equal(t, http.StatusOK, w.Code)
	var response server.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Text, "Invoice RE-2024-0815")
}

func TestParseErrors(t *testing.T) {
	srv := newTestServer()
	tests := []struct {
		name   string
		body   []byte
		status int
		class  string
	}{
		{"empty body", nil, http.StatusBadRequest, ""},
		{"garbage", []byte("<oops"), http.StatusUnprocessableEntity, "syntax"},
		{"not cii", []byte("<Invoice/>"), http.StatusUnprocessableEntity, "not-cii"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, srv, "/api/v1/parse", tt.body)
			require.Equal(t, tt.status, w.Code)
			if tt.class != "" {
				var response server.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.class, response.ErrorClass)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer()

	w := post(t, srv, "/api/v1/validate", sampleXML(t))
	require.Equal(t, http.StatusOK, w.Code)
	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Valid)
	assert.Equal(t, "MINIMUM", response.Profile)

	w = post(t, srv, "/api/v1/validate", []byte("<Invoice/>"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	assert.Equal(t, "not-cii", response.ErrorClass)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/v1/extract", sampleXML(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInfoXML(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/v1/info", sampleXML(t))

	require.Equal(t, http.StatusOK, w.Code)
	var response server.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "xml", response.Format)
	assert.Equal(t, "MINIMUM", response.Profile)
	assert.Equal(t, model.URNMinimum, response.GuidelineURN)
	assert.Equal(t, "RE-2024-0815", response.Number)
}

func TestInfoUnparseable(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/v1/info", []byte("<whatever/>"))

	require.Equal(t, http.StatusOK, w.Code)
	var response server.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "xml", response.Format)
	assert.Empty(t, response.Profile)
}
