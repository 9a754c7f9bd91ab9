package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/aedificium/oracle"
	"github.com/katalvlaran/aedificium/walk"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the known problems and their query budgets",
	Args:  cobra.NoArgs,
	RunE:  runProblems,
}

func runProblems(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tROOMS\tDOORS/PLAN")
	for _, p := range oracle.Problems {
		fmt.Fprintf(w, "%s\t%d\t%d\n", p.Name, p.Rooms, walk.PlanBudgetFactor*p.Rooms)
	}

	return w.Flush()
}
