// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"strings"

	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/parsererror"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [description...]",
	Short: "Categorize transaction descriptions",
	Long: `Categorize one or more transaction descriptions with the loaded category mapping.

The longest matching keyword wins. Descriptions without a match fall back to the AI
model when ai.enabled is set, and to "Other" otherwise.

Example:
  edocta-csv categorize "TRANSFERENCIA SPEI ENVIADA" "OXXO INSURGENTES"`,
	Args: cobra.ArbitraryArgs,
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &parsererror.ValidationError{Reason: "at least one description is required"}
	}

	cat := root.GetContainer().GetCategorizer()
	for _, description := range args {
		match := cat.Categorize(cmd.Context(), description)
		line := fmt.Sprintf("%s\t%s", strings.TrimSpace(description), match.Category)
		switch {
		case match.Keyword != "":
			line += fmt.Sprintf("\t(%s: %q)", match.Strategy, match.Keyword)
		case match.Strategy != "":
			line += fmt.Sprintf("\t(%s)", match.Strategy)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
