package repository

import (
	"fmt"
	"strings"
)

// DefaultPageSize applies when a caller asks for no limit.
const DefaultPageSize = 10

// MaxPageSize caps list queries.
const MaxPageSize = 100

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// whereClause accumulates positional SQL predicates.
type whereClause struct {
	clauses []string
	args    []any
}

// add appends a predicate. format receives the new argument position as its
// only verb, e.g. "status=$%d" or "(a ILIKE $%[1]d OR b ILIKE $%[1]d)".
func (w *whereClause) add(format string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereClause) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// nextArg returns the placeholder for an argument appended after the filters.
func (w *whereClause) nextArg(value any) string {
	w.args = append(w.args, value)
	return fmt.Sprintf("$%d", len(w.args))
}

func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(term))
	return "%" + escaped + "%"
}
