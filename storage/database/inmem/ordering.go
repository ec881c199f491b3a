package inmemdb

import (
	"sort"
	"strings"
	"time"

	"github.com/trezcool/classportal/core"
)

// compareFunc compares the field of rows i & j: <0 if i comes first, >0 if j does, 0 if equal.
type compareFunc func(i, j int, field string) int

// sortRows stable-sorts n rows (through swap) by the successive orderings.
func sortRows(n int, ordering []core.DBOrdering, cmp compareFunc, swap func(i, j int)) {
	if len(ordering) == 0 {
		return
	}
	sort.Stable(rowSorter{n: n, ordering: ordering, cmp: cmp, swap: swap})
}

type rowSorter struct {
	n        int
	ordering []core.DBOrdering
	cmp      compareFunc
	swap     func(i, j int)
}

func (rs rowSorter) Len() int      { return rs.n }
func (rs rowSorter) Swap(i, j int) { rs.swap(i, j) }
func (rs rowSorter) Less(i, j int) bool {
	for _, ord := range rs.ordering {
		c := rs.cmp(i, j, ord.Field)
		if c == 0 {
			continue
		}
		if ord.Ascending {
			return c < 0
		}
		return c > 0
	}
	return false
}

func compareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
