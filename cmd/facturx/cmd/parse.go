package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/render"
	"github.com/rezonia/facturx/pkg/facturx"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an invoice and print its contents",
	Long: `Parse a Factur-X invoice from an XML file or a PDF/A-3 container
and print a human-readable summary or the full model as JSON.

Examples:
  facturx parse invoice.xml
  facturx parse invoice.pdf --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	inv, _, err := loadInvoice(args[0])
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(inv)
	}

	fmt.Print(facturx.Render(inv, render.DefaultOptions()))
	return nil
}

// loadInvoice reads an invoice from an XML file or a PDF container,
// picking the decoder by the file magic.
func loadInvoice(path string) (*facturx.Invoice, facturx.Relationship, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if isPDF(data) {
		log.Debug().Str("file", path).Msg("extracting embedded invoice from PDF")
		return facturx.ParsePDF(data)
	}
	inv, err := facturx.Parse(data)
	return inv, "", err
}

func isPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}
