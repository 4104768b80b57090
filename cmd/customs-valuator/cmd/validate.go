package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/customs-valuator/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice files",
	Long: `Validate one or more invoices against the Incoterm valuation rules.

Each file holds one invoice in JSON (.json) or YAML (.yaml, .yml):

  incoterm: CIF
  goodsValueAUD: 1000
  elements:
    OFT: 50
    ONS: 20

Checks performed:
  - Incoterm is supported and element codes are known
  - No forbidden element is present
  - Every mandatory element is present
  - Amounts are numeric

Exits non-zero when any file is invalid.

Output formats: json (default), yaml, table. Table prints one line per
file followed by its violations.

Examples:
  customs-valuator validate invoice.yaml
  customs-valuator validate invoices/*.json -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// invoiceFile is the on-disk invoice layout. Missing or null amounts
// become NaN so validation reports them.
type invoiceFile struct {
	Incoterm      string              `json:"incoterm" yaml:"incoterm"`
	GoodsValueAUD *float64            `json:"goodsValueAUD" yaml:"goodsValueAUD"`
	Elements      map[string]*float64 `json:"elements" yaml:"elements"`
}

func (f invoiceFile) invoice() model.Invoice {
	amount := func(v *float64) float64 {
		if v == nil {
			return math.NaN()
		}
		return *v
	}

	elements := make(map[model.Element]float64, len(f.Elements))
	for code, v := range f.Elements {
		elements[model.Element(strings.ToUpper(strings.TrimSpace(code)))] = amount(v)
	}
	return model.Invoice{
		Incoterm:      model.Incoterm(strings.ToUpper(strings.TrimSpace(f.Incoterm))),
		GoodsValueAUD: amount(f.GoodsValueAUD),
		Elements:      elements,
	}
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File            string   `json:"file" yaml:"file"`
	Valid           bool     `json:"valid" yaml:"valid"`
	CustomsValueAUD *float64 `json:"customsValueAUD,omitempty" yaml:"customsValueAUD,omitempty"`
	Errors          []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

var validateFormats = []string{"json", "yaml", "table"}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(cmd, outputFormat, validateFormats...); err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	validator := newProcessor().Validator()
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		printVerbose("Validating: %s\n", file)
		result := &ValidationResult{File: file}

		var f invoiceFile
		if err := decodeFile(file, &f); err != nil {
			result.Errors = []string{err.Error()}
		} else {
			r := validator.Validate(f.invoice())
			result.Valid = r.Valid
			result.CustomsValueAUD = r.CustomsValueAUD
			result.Errors = r.Errors
		}

		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if err := writeValidation(cmd.OutOrStdout(), outputFormat, results); err != nil {
		return err
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func writeValidation(w io.Writer, format string, results []*ValidationResult) error {
	switch format {
	case "json":
		return outputJSON(w, results)
	case "yaml":
		return outputYAML(w, results)
	case "table":
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s: VALID (customs value %.2f AUD)\n", r.File, *r.CustomsValueAUD)
				continue
			}
			fmt.Fprintf(w, "✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
