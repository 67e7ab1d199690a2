package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

// arg appends v and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) eq(col string, v any) {
	w.clauses = append(w.clauses, col+" = "+w.arg(v))
}

func (w *whereBuilder) cmp(col, op string, v any) {
	w.clauses = append(w.clauses, col+" "+op+" "+w.arg(v))
}

// ilike adds a case-insensitive substring match over one or more columns,
// OR-ed together.
func (w *whereBuilder) ilike(v string, cols ...string) {
	p := w.arg("%" + escapeLike(v) + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	if len(parts) == 1 {
		w.clauses = append(w.clauses, parts[0])
		return
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// setBuilder accumulates column assignments for an UPDATE.
type setBuilder struct {
	whereBuilder
	sets []string
}

func (b *setBuilder) set(col string, v any) {
	b.sets = append(b.sets, col+" = "+b.arg(v))
}

func (b *setBuilder) sql() string {
	return strings.Join(append(b.sets, "updated_at = NOW()"), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
