package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/winery/svc/fermentation"
)

func newTransitionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions",
		Short: "Print the allowed fermentation status changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return PrintTransitions(cmd.OutOrStdout(), fermentation.NewLifecycleValidator())
		},
	}
}

// PrintTransitions writes one line per status with the statuses reachable from it.
func PrintTransitions(w io.Writer, v *fermentation.LifecycleValidator) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO")
	for _, s := range fermentation.Statuses() {
		targets := v.Targets(s)
		to := "(terminal)"
		if len(targets) > 0 {
			names := make([]string, len(targets))
			for i, t := range targets {
				names[i] = string(t)
			}
			to = strings.Join(names, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\n", s, to)
	}
	return tw.Flush()
}
