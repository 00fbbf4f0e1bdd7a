package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>...",
		Short: "Find foods whose name or description contains text",
		Long: `Search matches the text, case-insensitively, against food names and
descriptions. Multiple arguments are joined with single spaces.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, strings.Join(args, " "), core.ModeTextMatch)
		},
	}
}

func newNutrientCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nutrient <name>",
		Short: "Find foods that have a value for a nutrient",
		Long: fmt.Sprintf("Nutrient lists foods with a value in the named column.\nKnown nutrients: %s.",
			strings.Join(core.NutrientColumns(), ", ")),
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args[0], core.ModeNutrientPresence)
		},
	}
}

func (a *app) runQuery(cmd *cobra.Command, query string, mode core.Mode) error {
	defer a.close()
	svc, err := a.session(cmd.Context())
	if err != nil {
		return err
	}
	page, err := svc.Query(cmd.Context(), query, mode)
	if err != nil {
		return err
	}

	if a.asJSON {
		return a.printJSON(page)
	}
	return a.printPage(page)
}

func (a *app) printPage(page core.Page) error {
	if len(page.Results) == 0 {
		fmt.Fprintln(a.out, "no matches")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tMENUS")
	for _, r := range page.Results {
		name := "-"
		if r.FoodName.Valid {
			name = r.FoodName.String
		}
		price := "-"
		if r.Price.Valid {
			price = strconv.FormatFloat(r.Price.Float64, 'f', 2, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.FoodID, name, price, r.MenuCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d of %d matches, %d more page(s)\n",
		len(page.Results), page.Total, max(page.PagesLeft, 0))
	return nil
}
