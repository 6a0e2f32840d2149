// Package batch handles batch processing of statement directories
package batch

import (
	"context"
	"fmt"
	"os"

	"edocta/edocta-csv/cmd/common"
	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/batch"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Batch process every *.pdf statement in an input directory and write one CSV per
statement into another directory.

Each statement is processed independently: a statement that fails is reported with
its error kind and the run continues. The command exits with an error when any
statement failed.

Example:
  edocta-csv batch --bank santander-debito -i estados/ -o csv/`,
	RunE: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	if err := common.RequireInput(inputDir, "directory"); err != nil {
		return err
	}
	if err := validation.RequireDirectory(inputDir); err != nil {
		return err
	}
	outputDir := root.SharedFlags.Output
	if outputDir == "" {
		outputDir = inputDir
	}
	prof, err := root.ResolveProfile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	c := root.GetContainer()
	writer := c.GetCSVWriter()
	sink := func(_ context.Context, path string, result pipeline.Result) (string, error) {
		output := batch.OutputPath(path, outputDir)
		return output, writer.WriteFile(output, result.Transactions)
	}

	report, err := c.GetBatchProcessor().Run(cmd.Context(), inputDir, prof, sink)
	if err != nil {
		return err
	}

	common.PrintBatchReport(cmd.OutOrStdout(), report)
	return common.BatchError(report)
}
