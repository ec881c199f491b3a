package core

import "strings"

// DBOrdering is one `ORDER BY` term.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// FilterOrderings drops the orderings whose Field is not one of the allowed fields.
func FilterOrderings(ordering []DBOrdering, allowed ...string) []DBOrdering {
	var kept []DBOrdering
	for _, ord := range ordering {
		for _, f := range allowed {
			if strings.EqualFold(ord.Field, f) {
				kept = append(kept, DBOrdering{Field: f, Ascending: ord.Ascending})
				break
			}
		}
	}
	return kept
}
