// Package convert handles the single statement conversion command
package convert

import (
	"edocta/edocta-csv/cmd/common"
	"edocta/edocta-csv/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement PDF to CSV",
	Long: `Convert one bank statement PDF to CSV.

The output file defaults to the input name with a .csv extension. A statement that
cannot be read produces no output; pages without a transaction table are skipped.

Example:
  edocta-csv convert --bank bbva-debito -i estado_marzo.pdf -o marzo.csv`,
	RunE: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) error {
	if err := common.RequireInput(root.SharedFlags.Input, "statement file"); err != nil {
		return err
	}
	prof, err := root.ResolveProfile()
	if err != nil {
		return err
	}

	c := root.GetContainer()
	output := common.DefaultOutput(root.SharedFlags.Input, root.SharedFlags.Output)

	result, err := common.ConvertFile(cmd.Context(), c.GetPipeline(), c.GetCSVWriter(), root.SharedFlags.Input, output, prof)
	if err != nil {
		return err
	}

	common.PrintSummary(cmd.OutOrStdout(), root.SharedFlags.Input, output, result)
	return nil
}
