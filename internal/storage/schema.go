package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is the logical type of a mapped column. Each Dialect
// renders it to its own SQL type.
type ColumnType int

const (
	Integer ColumnType = iota
	Text
)

// Column maps one struct field to one table column.
type Column struct {
	Name       string
	Field      string
	Type       ColumnType
	PrimaryKey bool
	Indexed    bool
	NotNull    bool
}

// Table is the persistence mapping of one entity.
type Table struct {
	Name    string
	Columns []Column
}

// PersonTable maps types.Person onto the "person" table. Every column is
// indexed; none is unique apart from the primary key.
var PersonTable = Table{
	Name: "person",
	Columns: []Column{
		{Name: "id", Field: "ID", Type: Integer, PrimaryKey: true, Indexed: true},
		{Name: "name", Field: "Name", Type: Text, Indexed: true, NotNull: true},
		{Name: "email", Field: "Email", Type: Text, Indexed: true, NotNull: true},
	},
}

// Dialect holds the bits of SQL that differ between backends.
type Dialect struct {
	// DriverName is the name registered with database/sql.
	DriverName string

	IntegerType string
	TextType    string

	// SerialPrimaryKey is the full column definition of an
	// auto-assigned integer primary key.
	SerialPrimaryKey string

	placeholder func(n int) string
}

var (
	SQLite = Dialect{
		DriverName:       "sqlite3",
		IntegerType:      "INTEGER",
		TextType:         "TEXT",
		SerialPrimaryKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
		placeholder:      func(int) string { return "?" },
	}

	Postgres = Dialect{
		DriverName:       "pgx",
		IntegerType:      "BIGINT",
		TextType:         "TEXT",
		SerialPrimaryKey: "BIGSERIAL PRIMARY KEY",
		placeholder:      func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	return d.placeholder(n)
}

func (d Dialect) columnDef(c Column) string {
	if c.PrimaryKey && c.Type == Integer {
		return c.Name + " " + d.SerialPrimaryKey
	}

	typ := d.TextType
	if c.Type == Integer {
		typ = d.IntegerType
	}

	def := c.Name + " " + typ
	if c.PrimaryKey {
		def += " PRIMARY KEY"
	}
	if c.NotNull {
		def += " NOT NULL"
	}
	return def
}

// PrimaryKey returns the primary-key column. Every mapped table has one.
func (t Table) PrimaryKey() Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	panic(fmt.Sprintf("storage: table %s has no primary key", t.Name))
}

// ColumnNames returns every column name in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// DataColumnNames returns every non-key column name in declaration order.
func (t Table) DataColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.PrimaryKey {
			names = append(names, c.Name)
		}
	}
	return names
}

// CreateStatements renders idempotent DDL for the table and one index
// per indexed column. Index names follow the ix_<table>_<column> form.
func (t Table) CreateStatements(d Dialect) []string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, "\t"+d.columnDef(c))
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", t.Name, strings.Join(defs, ",\n")),
	}
	for _, c := range t.Columns {
		if c.Indexed {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS ix_%s_%s ON %s (%s)", t.Name, c.Name, t.Name, c.Name))
		}
	}
	return stmts
}

// InsertSQL inserts the data columns, leaving the key to the database.
func (t Table) InsertSQL(d Dialect) string {
	cols := t.DataColumnNames()
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// SelectSQL lists every row, ordered by key.
func (t Table) SelectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(t.ColumnNames(), ", "), t.Name, t.PrimaryKey().Name)
}

// SelectByIDSQL reads one row by primary key.
func (t Table) SelectByIDSQL(d Dialect) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s LIMIT 1",
		strings.Join(t.ColumnNames(), ", "), t.Name, t.PrimaryKey().Name, d.Placeholder(1))
}

// UpdateByIDSQL sets every data column; the key is the last argument.
func (t Table) UpdateByIDSQL(d Dialect) string {
	cols := t.DataColumnNames()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = %s", c, d.Placeholder(i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		t.Name, strings.Join(sets, ", "), t.PrimaryKey().Name, d.Placeholder(len(cols)+1))
}

// DeleteByIDSQL removes one row by primary key.
func (t Table) DeleteByIDSQL(d Dialect) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		t.Name, t.PrimaryKey().Name, d.Placeholder(1))
}
