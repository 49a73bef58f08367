package pdf_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/pdf"
)

// minimalPDF builds a one-page PDF with a correct cross reference table.
func minimalPDF() []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")
	offsets := make([]int, 4)
	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>\nendobj\n")
	start := b.Len()
	b.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", start)
	return b.Bytes()
}

// containerWith returns a PDF embedding the given payload under the
// given attachment name.
func containerWith(t *testing.T, name string, payload []byte) []byte {
	t.Helper()
	dir := t.TempDir()
	inFile := filepath.Join(dir, "plain.pdf")
	outFile := filepath.Join(dir, "container.pdf")
	attachment := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(inFile, minimalPDF(), 0o644))
	require.NoError(t, os.WriteFile(attachment, payload, 0o644))

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	require.NoError(t, api.AddAttachmentsFile(inFile, outFile, []string{attachment}, false, conf))

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	return data
}

func TestExtract(t *testing.T) {
	payload := []byte("<rsm:CrossIndustryInvoice/>")
	data := containerWith(t, "factur-x.xml", payload)

	xml, _, err := pdf.Extract(data)
	require.NoError(t, err)
	assert.Equal(t, payload, xml)
}

func TestExtractXRechnungName(t *testing.T) {
	payload := []byte("<rsm:CrossIndustryInvoice/>")
	data := containerWith(t, "xrechnung.xml", payload)

	xml, _, err := pdf.Extract(data)
	require.NoError(t, err)
	assert.Equal(t, payload, xml)
}

func TestExtractNotAPDF(t *testing.T) {
	_, _, err := pdf.Extract([]byte("definitely not a PDF"))
	var containerErr *pdf.ContainerError
	require.ErrorAs(t, err, &containerErr)
}

func TestExtractNoInvoice(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"no attachments", func(t *testing.T) []byte { return minimalPDF() }},
		{
			"unrelated attachment",
			func(t *testing.T) []byte { return containerWith(t, "notes.txt", []byte("hello")) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pdf.Extract(tt.data(t))
			var noInvoice *pdf.NoInvoiceError
			require.ErrorAs(t, err, &noInvoice)
		})
	}
}
