package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/pkg/facturx"
)

var relationshipRules string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files",
	Long: `Validate one or more Factur-X invoices against their declared
profile.

Checks performed:
  - XML well-formedness and Cross Industry Invoice structure
  - Declared profile is one of the four supported ones
  - No element exceeds what the declared profile allows
  - All profile- and role-dependent business rules

Examples:
  facturx validate invoice.xml
  facturx validate *.xml --format json
  facturx validate invoice.pdf --rules DE`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&relationshipRules, "rules", "", "Check the PDF attachment relationship against national rules (FR or DE)")
}

// ValidationResult holds the result of validating a single file.
type ValidationResult struct {
	File       string `json:"file"`
	Valid      bool   `json:"valid"`
	Profile    string `json:"profile,omitempty"`
	ErrorClass string `json:"error_class,omitempty"`
	Error      string `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := make([]ValidationResult, 0, len(args))
	allValid := true
	for _, file := range args {
		result := validateFile(file)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID (%s)\n", r.File, r.Profile)
			} else {
				fmt.Printf("✗ %s: INVALID [%s]\n", r.File, r.ErrorClass)
				fmt.Printf("  - %s\n", r.Error)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.ErrorClass = "io"
		result.Error = err.Error()
		return result
	}

	var (
		inv *facturx.Invoice
		rel facturx.Relationship
	)
	if isPDF(data) {
		inv, rel, err = facturx.ParsePDF(data)
	} else {
		inv, err = facturx.Parse(data)
	}
	if err == nil && relationshipRules != "" && rel != "" {
		err = facturx.CheckRelationship(facturx.RuleSet(relationshipRules), inv.Profile, rel)
	}
	if err != nil {
		result.ErrorClass = errorClass(err)
		result.Error = err.Error()
		return result
	}

	result.Valid = true
	result.Profile = inv.Profile.String()
	return result
}

// errorClass names the outcome class of a failure for reporting.
func errorClass(err error) string {
	var (
		syntaxErr    *facturx.SyntaxError
		notCII       *facturx.NotCIIError
		unsupported  *facturx.UnsupportedProfileError
		violation    *facturx.ProfileViolationError
		structureErr *facturx.StructureError
		modelErr     *facturx.ModelError
		containerErr *facturx.ContainerError
		noInvoiceErr *facturx.NoInvoiceError
		relErr       *facturx.RelationshipError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return "syntax"
	case errors.As(err, &notCII):
		return "not-cii"
	case errors.As(err, &unsupported):
		return "unsupported-profile"
	case errors.As(err, &violation):
		return "profile-violation"
	case errors.As(err, &structureErr):
		return "structure"
	case errors.As(err, &modelErr):
		return "model"
	case errors.As(err, &containerErr):
		return "container"
	case errors.As(err, &noInvoiceErr):
		return "no-invoice"
	case errors.As(err, &relErr):
		return "relationship"
	}
	return "internal"
}
