// Package templates renders the HTML search page.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/foodsearch/internal/core"
)

// SearchPageParams holds everything the search page shows.
type SearchPageParams struct {
	Query      string
	Mode       core.Mode
	Nutrients  []string
	Searched   bool // A query was submitted
	Page       core.Page
	SnapshotID string
	Error      *core.UserMessage
}

// SearchPage renders the full search page: form, then results or an error.
func SearchPage(p SearchPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return render(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>Food search</title></head><body>`,
			`<main><h1>Food search</h1>`,
			func(w io.Writer) error { return searchForm(p).Render(ctx, w) },
			func(w io.Writer) error {
				if p.Error != nil {
					return ErrorAlert(p.Error.Message, p.Error.Action, p.Error.Code).Render(ctx, w)
				}
				if !p.Searched {
					return nil
				}
				return ResultsTable(p.Page).Render(ctx, w)
			},
			func(w io.Writer) error {
				if p.SnapshotID == "" {
					return nil
				}
				return render(w, `<footer><small>snapshot `, templ.EscapeString(p.SnapshotID), `</small></footer>`)
			},
			`</main></body></html>`,
		)
	})
}

func searchForm(p SearchPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return render(w,
			`<form method="get" action="/">`,
			`<input type="search" name="q" value="`, templ.EscapeString(p.Query), `" placeholder="apple, vitamin_c, ...">`,
			`<select name="mode">`,
			option("text", "Name or description", p.Mode == core.ModeTextMatch),
			option("nutrient", "Has nutrient", p.Mode == core.ModeNutrientPresence),
			`</select>`,
			`<button type="submit">Search</button>`,
			func(w io.Writer) error {
				if len(p.Nutrients) == 0 {
					return nil
				}
				if err := render(w, `<p><small>Nutrients:`); err != nil {
					return err
				}
				for _, n := range p.Nutrients {
					if err := render(w, ` <code>`, templ.EscapeString(n), `</code>`); err != nil {
						return err
					}
				}
				return render(w, `</small></p>`)
			},
			`</form>`,
		)
	})
}

// ResultsTable renders a page of results and the pages-left note.
func ResultsTable(page core.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(page.Results) == 0 {
			return render(w, `<p class="empty">No foods matched.</p>`)
		}
		if err := render(w,
			`<table><thead><tr><th>ID</th><th>Name</th><th>Price</th><th>Menus</th></tr></thead><tbody>`,
		); err != nil {
			return err
		}
		for _, row := range page.Results {
			if err := render(w,
				`<tr><td>`, strconv.FormatInt(row.FoodID, 10),
				`</td><td>`, textCell(row.FoodName.String, row.FoodName.Valid),
				`</td><td>`, priceCell(row.Price.Float64, row.Price.Valid),
				`</td><td>`, strconv.Itoa(row.MenuCount),
				`</td></tr>`,
			); err != nil {
				return err
			}
		}
		return render(w,
			`</tbody></table>`,
			`<p><small>`, strconv.Itoa(page.Total), ` matched, `, strconv.Itoa(page.PagesLeft), ` more page(s)</small></p>`,
		)
	})
}

// ErrorAlert renders a user-facing error with its code and suggested action.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return render(w,
			`<div class="error" role="alert"><strong>`, templ.EscapeString(message), `</strong>`,
			func(w io.Writer) error {
				if action == "" {
					return nil
				}
				return render(w, `<p>`, templ.EscapeString(action), `</p>`)
			},
			`<p><small>Code: `, templ.EscapeString(code), `</small></p></div>`,
		)
	})
}

func option(value, label string, selected bool) string {
	sel := ""
	if selected {
		sel = ` selected`
	}
	return `<option value="` + templ.EscapeString(value) + `"` + sel + `>` + templ.EscapeString(label) + `</option>`
}

func textCell(s string, valid bool) string {
	if !valid {
		return `<em>unnamed</em>`
	}
	return templ.EscapeString(s)
}

func priceCell(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

// render writes strings verbatim and calls writer funcs in order.
func render(w io.Writer, parts ...any) error {
	for _, part := range parts {
		var err error
		switch p := part.(type) {
		case string:
			_, err = io.WriteString(w, p)
		case func(io.Writer) error:
			err = p(w)
		default:
			err = fmt.Errorf("templates: unsupported part %T", part)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
