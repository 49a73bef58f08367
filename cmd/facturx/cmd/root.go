package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Build, validate, and extract Factur-X electronic invoices",
	Long: `facturx works with Factur-X / EN 16931 Cross Industry Invoices.

Supports:
  - Profiles: MINIMUM, BASIC WL, BASIC, EN 16931
  - XML invoices and PDF/A-3 containers with embedded XML
  - Profile-aware validation with precise error classes

Examples:
  # Parse an invoice and print a summary
  facturx parse invoice.xml

  # Validate several invoices
  facturx validate *.xml

  # Pull the embedded XML out of a hybrid PDF
  facturx extract invoice.pdf -o factur-x.xml`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env file is optional; flags and real env vars win.
	_ = godotenv.Load()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
