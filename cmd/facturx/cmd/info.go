package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/render"
	"github.com/rezonia/facturx/pkg/facturx"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about invoice files",
	Long: `Display information about invoice files without printing their
full contents.

Shows:
  - Detected container format (XML or PDF)
  - Declared profile and guideline URN
  - Document number and type

Examples:
  facturx info invoice.xml
  facturx info *.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	for _, file := range args {
		printFileInfo(file)
		fmt.Println()
	}
	return nil
}

func printFileInfo(path string) {
	fmt.Printf("File: %s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Size: %d bytes\n", len(data))

	format := "XML"
	rel := facturx.Relationship("")
	if isPDF(data) {
		format = "PDF"
	}
	fmt.Printf("  Format: %s\n", format)

	var inv *facturx.Invoice
	if format == "PDF" {
		inv, rel, err = facturx.ParsePDF(data)
	} else {
		inv, err = facturx.Parse(data)
	}
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Profile: %s\n", inv.Profile)
	fmt.Printf("  Guideline: %s\n", inv.Profile.URN())
	fmt.Printf("  Document: %s %s\n", render.DocumentTypeName(inv.TypeCode), inv.Number)
	fmt.Printf("  Issued: %s\n", inv.IssueDate.Format("2006-01-02"))
	if rel != "" {
		fmt.Printf("  Attachment relationship: %s\n", rel)
	}
}
