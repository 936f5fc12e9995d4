package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField is one ORDER BY term. Field names a projected field.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads a comma-separated list such as "status,-created_at".
// A leading "-" sorts descending. Blank entries are ignored.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates filter and sort state for a projection and renders
// SELECT statements with $n placeholders.
type Builder struct {
	projection *ProjectionMap
	where      []string
	args       []any
	sort       []SortField
	fallback   []SortField
}

// NewBuilder returns a Builder that orders by defaultSort unless
// OrderByFields supplies an explicit order.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection: projection,
		fallback:   defaultSort,
	}
}

// WhereEquals filters field to value. Nil values, including typed nil
// pointers, add no condition.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.args = append(b.args, value)
	b.where = append(b.where, fmt.Sprintf("%s = $%d", b.projection.Column(field), len(b.args)))
	return b
}

// OrderByFields replaces the default order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// BuildCount renders a COUNT(*) over the filtered rows.
func (b *Builder) BuildCount() (string, []any) {
	return "SELECT COUNT(*) FROM " + b.projection.Table() + b.whereClause(), b.args
}

// BuildPage renders the filtered, ordered select list limited to one page.
func (b *Builder) BuildPage(limit, offset int) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.Table(),
		b.whereClause(),
		b.orderClause(),
		limit,
		offset,
	)
	return sql, b.args
}

// BuildSingle renders a lookup of one row by idField. Accumulated filters
// are not applied.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.fallback
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		terms[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
