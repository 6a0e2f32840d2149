// Package profiles lists the supported statement profiles
package profiles

import (
	"fmt"
	"text/tabwriter"

	"edocta/edocta-csv/internal/profile"

	"github.com/spf13/cobra"
)

// Cmd represents the profiles command
var Cmd = &cobra.Command{
	Use:   "profiles",
	Short: "List supported statement profiles",
	Long:  `List the bank statement profiles accepted by --bank, with the pages they read and their date notation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tPAGES\tDATES")
		for _, p := range profile.All() {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Kind, p.Name, p.Pages, p.DateMode)
		}
		return w.Flush()
	},
}
