package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// inspectResult is the JSON form of the inspect command.
type inspectResult struct {
	core.Stats
	Nutrients []string `json:"nutrients"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load the catalog and print a summary",
		Long: `Inspect loads and validates every table, then reports the snapshot
identifier, row counts and the recognized nutrient columns. It exits
non-zero if any table is missing or malformed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			svc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			cat, err := svc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			result := inspectResult{Stats: cat.Stats(), Nutrients: core.NutrientColumns()}
			if a.asJSON {
				return a.printJSON(result)
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Snapshot:\t%s\n", result.SnapshotID)
			fmt.Fprintf(w, "Source:\t%s\n", result.Source)
			fmt.Fprintf(w, "Loaded:\t%s\n", result.LoadedAt.Format(time.RFC3339))
			fmt.Fprintf(w, "Reduced:\t%t\n", result.Reduced)
			fmt.Fprintf(w, "Foods:\t%d\n", result.Foods)
			fmt.Fprintf(w, "Menus:\t%d\n", result.Menus)
			fmt.Fprintf(w, "Unnamed foods:\t%d\n", result.Orphans)
			fmt.Fprintf(w, "Nutrients:\t%s\n", strings.Join(result.Nutrients, ", "))
			return w.Flush()
		},
	}
}
