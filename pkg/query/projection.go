// Package query builds the parameterized SELECT statements used by the
// repositories, translating view field names into table columns.
package query

import "strings"

// ProjectionMap binds view field names to alias-qualified columns of one table.
// Columns are selected in the order they were projected.
type ProjectionMap struct {
	schema string
	table  string
	alias  string
	fields map[string]string
	order  []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
// An empty schema leaves the table unqualified, which SQLite requires.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project maps the column to field and appends it to the select list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.fields[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// Table is the FROM target, including the alias.
func (p *ProjectionMap) Table() string {
	name := p.table
	if p.schema != "" {
		name = p.schema + "." + name
	}
	return name + " " + p.alias
}

// Column resolves field to its qualified column. Unknown fields pass through.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.fields[field]; ok {
		return col
	}
	return field
}

// Columns is the comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
