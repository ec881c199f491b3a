// Package sqlxrepos implements the repositories on top of jmoiron/sqlx.
// Queries are written with `?` placeholders and rebound for the driver in use.
package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/classportal/core"
)

// isUniqueViolation reports whether err is a unique constraint violation, on either engine.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// conditions accumulates AND-ed WHERE clauses & their args.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

// in adds a clause holding a single `IN (?)` bindvar, expanded to vals; vals must not be empty.
func (c *conditions) in(clause string, vals interface{}) error {
	clause, args, err := sqlx.In(clause, vals)
	if err != nil {
		return err
	}
	c.add(clause, args...)
	return nil
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// likeArg builds a case-insensitive `contains` argument to compare against LOWER(column).
func likeArg(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

// orderBy joins ordering into an `ORDER BY` clause, falling back to dflt when ordering is empty.
// ordering fields must have been checked against the allowed columns already.
func orderBy(ordering []core.DBOrdering, dflt string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + dflt
	}
	terms := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		terms = append(terms, ord.String())
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}
