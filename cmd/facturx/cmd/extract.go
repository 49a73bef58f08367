package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/pkg/facturx"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract the embedded invoice XML from a PDF container",
	Long: `Extract the embedded Factur-X XML from a PDF/A-3 container.

The XML is written to stdout unless -o names an output file.

Examples:
  facturx extract invoice.pdf
  facturx extract invoice.pdf -o factur-x.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the XML to this file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if !isPDF(data) {
		return fmt.Errorf("%s is not a PDF file", args[0])
	}

	xml, rel, err := facturx.ExtractXML(data)
	if err != nil {
		return err
	}
	log.Debug().Str("relationship", rel.String()).Int("bytes", len(xml)).Msg("extracted embedded invoice")

	if extractOutput != "" {
		return os.WriteFile(extractOutput, xml, 0o644)
	}
	_, err = os.Stdout.Write(xml)
	return err
}
