package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/pkg/valuationlib"
)

var (
	outputFile  string
	concurrency int
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [files...]",
	Short: "Calculate customs value for declaration files",
	Long: `Calculate the customs value of one or more declaration payloads.

Each file holds one payload in JSON (.json) or YAML (.yaml, .yml):

  incoterm: CIF
  fxRate: 0.65
  valuation:
    ITOT: 10000
    OFT: 100
  lines:
    - id: A
      itot: 6000
      dutyRate: 5
  allocationMethod: Value

Overseas insurance is always derived from ITOT and the insurance factor.

Output formats: json (default), yaml, table, csv.

Examples:
  customs-valuator calculate declaration.json
  customs-valuator calculate *.yaml -o results.json
  customs-valuator calculate declarations/ -f table
  customs-valuator calculate declaration.json --insurance-factor 0.01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	calculateCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Declarations valued at once (default: GOMAXPROCS)")
}

// CalculateResult holds the result of calculating a single file
type CalculateResult struct {
	File        string             `json:"file" yaml:"file"`
	Declaration *model.Declaration `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// calculateFormats lists the formats writeResults understands
var calculateFormats = []string{"json", "yaml", "table", "csv"}

func runCalculate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(cmd, outputFormat, calculateFormats...); err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to calculate")
	}

	printVerbose("Found %d files to calculate\n", len(files))

	results := make([]*CalculateResult, len(files))
	payloads := make([]model.DeclarationPayload, 0, len(files))
	index := make([]int, 0, len(files))
	for i, file := range files {
		results[i] = &CalculateResult{File: file}

		payload, err := loadPayload(file)
		if err != nil {
			results[i].Error = err.Error()
			printVerbose("  %s: %s\n", file, err)
			continue
		}
		payloads = append(payloads, payload)
		index = append(index, i)
	}

	proc := valuationlib.NewProcessor(valuationlib.Options{
		InsuranceFactor: appConfig.Valuation.InsuranceFactor,
		Concurrency:     concurrency,
		Logger:          log,
	})
	decls, err := proc.ProcessBatch(cmd.Context(), payloads)
	if err != nil {
		return err
	}
	for j, decl := range decls {
		results[index[j]].Declaration = &decl
		log.Debug("declaration calculated",
			zap.String("file", results[index[j]].File),
			zap.Bool("valid", decl.Result.Valid),
		)
	}

	return outputResults(results)
}

// loadPayload reads a declaration file. Incoterm and valuation codes are
// upper-cased.
func loadPayload(path string) (model.DeclarationPayload, error) {
	var payload model.DeclarationPayload
	if err := decodeFile(path, &payload); err != nil {
		return payload, err
	}

	payload.Incoterm = model.Incoterm(strings.ToUpper(strings.TrimSpace(string(payload.Incoterm))))
	valuation := make(map[string]*float64, len(payload.Valuation))
	for code, v := range payload.Valuation {
		valuation[strings.ToUpper(strings.TrimSpace(code))] = v
	}
	payload.Valuation = valuation
	return payload, nil
}

func outputResults(results []*CalculateResult) error {
	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	return writeResults(writer, outputFormat, results)
}

func writeResults(w io.Writer, format string, results []*CalculateResult) error {
	switch format {
	case "json":
		return outputJSON(w, results)
	case "yaml":
		return outputYAML(w, results)
	case "table":
		return outputTable(w, results)
	case "csv":
		return outputCSV(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func outputTable(w io.Writer, results []*CalculateResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tINCOTERM\tVALID\tCUSTOMS VALUE\tFOB\tCIF\tLINES")
	fmt.Fprintln(tw, "----\t--------\t-----\t-------------\t---\t---\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}

		d := r.Declaration
		if !d.Result.Valid {
			fmt.Fprintf(tw, "%s\t%s\tno\t%s\t\t\t\n", r.File, d.Incoterm, strings.Join(d.Result.Errors, "; "))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\tyes\t%.2f\t%.2f\t%.2f\t%d\n",
			r.File,
			d.Incoterm,
			*d.Result.CustomsValueAUD,
			d.FobCif.FOB,
			d.FobCif.CIF,
			len(d.Lines),
		)
	}

	return tw.Flush()
}

func outputCSV(w io.Writer, results []*CalculateResult) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"file", "incoterm", "valid", "customs_value_aud", "fob", "cif", "line_id", "line_share", "line_customs_value_aud", "line_duty_aud", "error"})

	money := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

	for _, r := range results {
		if r.Error != "" {
			_ = cw.Write([]string{r.File, "", "", "", "", "", "", "", "", "", r.Error})
			continue
		}

		d := r.Declaration
		if !d.Result.Valid {
			_ = cw.Write([]string{r.File, d.Incoterm.String(), "false", "", "", "", "", "", "", "", strings.Join(d.Result.Errors, "; ")})
			continue
		}

		header := []string{r.File, d.Incoterm.String(), "true", money(*d.Result.CustomsValueAUD), money(d.FobCif.FOB), money(d.FobCif.CIF)}
		if len(d.Lines) == 0 {
			_ = cw.Write(append(header, "", "", "", "", ""))
			continue
		}
		// One row per line, repeating the header values
		for _, l := range d.Lines {
			row := append(append([]string{}, header...),
				l.ID,
				strconv.FormatFloat(l.Share, 'f', -1, 64),
				money(l.CustomsValueAUD),
				money(l.DutyAUD),
				"",
			)
			_ = cw.Write(row)
		}
	}

	cw.Flush()
	return cw.Error()
}
