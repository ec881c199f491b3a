package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/classportal/core"
)

const orderingParam = "ordering"

// bindOrdering reads `?ordering=name,-created_at`; a leading "-" orders descending.
func bindOrdering(ctx echo.Context) []core.DBOrdering {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	var orderings []core.DBOrdering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			orderings = append(orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
	return orderings
}
