// Package importer handles importing statements into the transaction store
package importer

import (
	"context"
	"fmt"

	"edocta/edocta-csv/cmd/common"
	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/validation"

	"github.com/spf13/cobra"
)

// UserID owns the imported transactions.
var UserID string

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import statements into the transaction store",
	Long: `Import one statement PDF, or every *.pdf in a directory, into the transaction store
configured under store.driver and store.dsn.

Every statement is stored as a single unit: if any row fails to insert, none of the
statement's rows are kept and the statement is reported as failed.

Example:
  edocta-csv import --bank bbva-credito --user 42 -i estado_abril.pdf`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&UserID, "user", "u", "", "User id that owns the imported transactions")
}

func importFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if err := common.RequireInput(input, "statement file or directory"); err != nil {
		return err
	}
	if UserID == "" {
		return &parsererror.ValidationError{Reason: "--user is required"}
	}
	prof, err := root.ResolveProfile()
	if err != nil {
		return err
	}
	isDir, err := validation.IsValidPath(input)
	if err != nil {
		return err
	}

	c := root.GetContainer()
	repo, err := c.GetRepository()
	if err != nil {
		return err
	}

	sink := func(ctx context.Context, path string, result pipeline.Result) (string, error) {
		stored, err := repo.InsertBatch(ctx, path, UserID, result.Transactions)
		if err != nil {
			return "", err
		}
		return "import " + stored.ImportID, nil
	}

	if isDir {
		report, err := c.GetBatchProcessor().Run(cmd.Context(), input, prof, sink)
		if err != nil {
			return err
		}
		common.PrintBatchReport(cmd.OutOrStdout(), report)
		return common.BatchError(report)
	}

	result, err := c.GetPipeline().Process(cmd.Context(), input, prof)
	if err != nil {
		return err
	}
	destination, err := sink(cmd.Context(), input, result)
	if err != nil {
		return err
	}
	common.PrintSummary(cmd.OutOrStdout(), input, destination, result)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  stored for user %s\n", UserID)
	return nil
}
