package repo

import (
	"fmt"
	"strings"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"
)

// buildWhere renders the filter as a SQL predicate over the todos alias "t".
// Placeholders start at $start. Find and Count both go through here so the
// paged rows and the total always agree.
func buildWhere(f dom.TodoFilter, start int) (string, []any) {
	n := start
	conds := []string{fmt.Sprintf("t.user_id = $%d", n)}
	args := []any{f.OwnerID}
	n++

	if f.Completed != nil {
		conds = append(conds, fmt.Sprintf("t.completed = $%d", n))
		args = append(args, *f.Completed)
		n++
	}
	if f.Priority != nil {
		conds = append(conds, fmt.Sprintf("t.priority = $%d", n))
		args = append(args, string(*f.Priority))
		n++
	}
	if f.Search != "" {
		conds = append(conds, fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
		args = append(args, likePattern(f.Search))
	}
	return strings.Join(conds, " AND "), args
}

var orderColumns = map[dom.OrderField]string{
	dom.OrderPinned:    "t.is_pinned",
	dom.OrderCreatedAt: "t.created_at",
	dom.OrderDueDate:   "t.due_date",
	dom.OrderTitle:     `t.title COLLATE "C"`,
}

// buildOrderBy renders ORDER BY terms. t.id is always appended last so that
// pages never overlap on ties.
func buildOrderBy(order []dom.OrderTerm) (string, error) {
	parts := make([]string, 0, len(order)+1)
	for _, o := range order {
		col, ok := orderColumns[o.Field]
		if !ok {
			return "", fmt.Errorf("unsupported order field %q", o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "t.id ASC")
	return strings.Join(parts, ", "), nil
}

// likePattern wraps s in % after escaping LIKE metacharacters, so a search
// for "50%" matches the literal text.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
