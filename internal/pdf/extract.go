// Package pdf extracts embedded Factur-X invoices from PDF/A-3
// containers.
package pdf

import (
	"bytes"
	"io"
	"regexp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
)

// invoiceFilenames are the attachment names recognized as the embedded
// invoice, in lookup order.
var invoiceFilenames = []string{"factur-x.xml", "xrechnung.xml", "zugferd-invoice.xml"}

var relationshipRe = regexp.MustCompile(`/AFRelationship\s*/(Data|Source|Alternative|Supplement|Unspecified)`)

// Extract pulls the embedded invoice XML out of a PDF container and
// recovers its AFRelationship tag when one is present.
func Extract(data []byte) ([]byte, Relationship, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	attachments, err := api.ExtractAttachmentsRaw(bytes.NewReader(data), "", nil, conf)
	if err != nil {
		return nil, RelationshipUnknown, &ContainerError{Err: err}
	}
	for _, name := range invoiceFilenames {
		for _, attachment := range attachments {
			if attachment.FileName != name {
				continue
			}
			xml, err := io.ReadAll(attachment)
			if err != nil {
				return nil, RelationshipUnknown, &ContainerError{Err: err}
			}
			return xml, findRelationship(data, name), nil
		}
	}
	return nil, RelationshipUnknown, &NoInvoiceError{}
}

// findRelationship scans the raw PDF for the AFRelationship tag of the
// named attachment. pdfcpu does not surface the tag, so it is recovered
// from the file specification dictionary nearest to the attachment name.
// The window covers small dictionaries between the name and the tag;
// writers that place them further apart report RelationshipUnknown.
func findRelationship(data []byte, filename string) Relationship {
	const window = 2048
	for offset := 0; offset < len(data); {
		i := bytes.Index(data[offset:], []byte(filename))
		if i < 0 {
			break
		}
		i += offset
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi > len(data) {
			hi = len(data)
		}
		if m := relationshipRe.FindSubmatch(data[lo:hi]); m != nil {
			if rel := Relationship(m[1]); rel != "Unspecified" {
				return rel
			}
			return RelationshipUnknown
		}
		offset = i + len(filename)
	}
	return RelationshipUnknown
}

// ParsePDF extracts the embedded invoice and parses it. The returned
// relationship lets callers apply CheckRelationship afterwards.
func ParsePDF(data []byte) (*model.Invoice, Relationship, error) {
	xml, rel, err := Extract(data)
	if err != nil {
		return nil, rel, err
	}
	inv, err := cii.Parse(xml)
	if err != nil {
		return nil, rel, err
	}
	return inv, rel, nil
}
