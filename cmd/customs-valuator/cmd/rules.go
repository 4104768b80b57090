package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/rules"
	"github.com/rezonia/customs-valuator/internal/valuation"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [incoterms...]",
	Short: "Show the Incoterm valuation rules",
	Long: `Display the rule matrix: for each Incoterm, whether each valuation
element is mandatory (M), optional (O) or forbidden (X).

Elements:
  PC    Packing Costs           LCH   Landing Charges
  FIF   Foreign Inland Freight  COMM  Commission
  ONS   Overseas Insurance      OTA   Other Additions
  OFT   Overseas Freight        OTD   Other Deductions
                                DSC   Discount

Output formats: json (default), yaml, table. Table prints the matrix
grid; json and yaml print per-term summaries.

Examples:
  customs-valuator rules -f table
  customs-valuator rules CIF DAP -f json`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

// RuleSummary describes the rules of one Incoterm
type RuleSummary struct {
	Incoterm  model.Incoterm    `json:"incoterm" yaml:"incoterm"`
	Group     string            `json:"group" yaml:"group"`
	Legacy    bool              `json:"legacy" yaml:"legacy"`
	Mandatory []model.Element   `json:"mandatory" yaml:"mandatory"`
	Forbidden []model.Element   `json:"forbidden" yaml:"forbidden"`
	Display   rules.DisplayHint `json:"display" yaml:"display"`
}

var rulesFormats = []string{"json", "yaml", "table"}

func runRules(cmd *cobra.Command, args []string) error {
	if err := checkFormat(cmd, outputFormat, rulesFormats...); err != nil {
		return err
	}
	terms, err := selectIncoterms(args)
	if err != nil {
		return err
	}

	return writeRules(cmd.OutOrStdout(), outputFormat, newProcessor().Validator().Matrix(), terms)
}

func writeRules(out io.Writer, format string, mx *rules.Matrix, terms []model.Incoterm) error {
	switch format {
	case "json", "yaml":
		summaries := make([]RuleSummary, 0, len(terms))
		for _, t := range terms {
			summaries = append(summaries, RuleSummary{
				Incoterm:  t,
				Group:     valuation.GroupOf(t).String(),
				Legacy:    t.IsLegacy(),
				Mandatory: mx.Mandatory(t),
				Forbidden: mx.Forbidden(t),
				Display:   rules.Display(t),
			})
		}
		if format == "yaml" {
			return outputYAML(out, summaries)
		}
		return outputJSON(out, summaries)
	case "table":
		return printMatrix(out, mx, terms)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// selectIncoterms parses the named terms, or returns all of them
func selectIncoterms(args []string) ([]model.Incoterm, error) {
	if len(args) == 0 {
		return model.Incoterms(), nil
	}

	terms := make([]model.Incoterm, 0, len(args))
	for _, arg := range args {
		t, err := model.ParseIncoterm(arg)
		if err != nil {
			return nil, fmt.Errorf("unknown Incoterm %q", arg)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

func printMatrix(w io.Writer, mx *rules.Matrix, terms []model.Incoterm) error {
	elements := model.Elements()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"INCOTERM", "GROUP"}
	for _, el := range elements {
		header = append(header, el.String())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, t := range terms {
		name := t.String()
		if t.IsLegacy() {
			name += "*"
		}
		row := []string{name, valuation.GroupOf(t).String()}
		for _, el := range elements {
			row = append(row, string(mx.RuleFor(t, el)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "\n* legacy Incoterm")
	return nil
}
