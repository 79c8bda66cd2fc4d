// Package ddl renders the forum schema as idempotent CREATE TABLE
// statements for MySQL-compatible engines and executes them.
package ddl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forodb/forodb/pkg/schema"
)

// innodbFulltextVersion is the first server version whose InnoDB supports
// FULLTEXT keys. Older servers get MyISAM for the full-text tables.
const innodbFulltextVersion = "5.6.4"

// quoteIdent quotes a MySQL identifier to handle reserved words such as
// `order` and `like`.
func quoteIdent(name string) string {
	return "`" + name + "`"
}

// Options configures DDL generation.
type Options struct {
	// Charset and Collation are emitted as the table default character
	// set clause. Either may be empty.
	Charset   string
	Collation string

	// ServerVersion drives engine selection for full-text tables.
	// Empty assumes a modern server.
	ServerVersion string

	// Names maps logical to physical table names. The zero value means
	// the stock prefix.
	Names schema.TableNames
}

// Statement is one rendered DDL statement.
type Statement struct {
	Table string `json:"table"` // physical table name
	SQL   string `json:"sql"`
}

// Generator renders CREATE TABLE IF NOT EXISTS statements from table
// metadata. Re-running the output against an existing schema is a no-op.
type Generator struct {
	opts Options
}

// NewGenerator creates a Generator. A zero Names mapping falls back to
// DefaultNames.
func NewGenerator(opts Options) *Generator {
	if opts.Names == (schema.TableNames{}) {
		opts.Names = schema.DefaultNames("")
	}
	return &Generator{opts: opts}
}

// Names returns the table-name mapping in effect.
func (g *Generator) Names() schema.TableNames {
	return g.opts.Names
}

// CreateStatements renders the whole schema in creation order.
func (g *Generator) CreateStatements() ([]Statement, error) {
	tables := schema.Tables()
	stmts := make([]Statement, 0, len(tables))
	for _, t := range tables {
		stmt, err := g.CreateTable(t)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// CreateTable renders a single CREATE TABLE IF NOT EXISTS statement.
func (g *Generator) CreateTable(t *schema.TableMetadata) (Statement, error) {
	physical, err := g.opts.Names.Physical(t.Name)
	if err != nil {
		return Statement{}, err
	}

	var parts []string
	for _, col := range t.Columns {
		parts = append(parts, "  "+g.columnDefinition(col))
	}

	if len(t.PrimaryKey) > 0 {
		cols := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			cols[i] = quoteIdent(c)
		}
		parts = append(parts, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(cols, ",")))
	}

	for _, key := range t.Keys {
		parts = append(parts, "  "+g.keyDefinition(key))
	}

	sql := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n) ENGINE=%s%s",
		quoteIdent(physical),
		strings.Join(parts, ",\n"),
		g.engineFor(t),
		g.charsetClause(),
	)

	return Statement{Table: physical, SQL: sql}, nil
}

// columnDefinition renders one column.
func (g *Generator) columnDefinition(col schema.ColumnMetadata) string {
	parts := []string{quoteIdent(col.Name), col.SQLType}

	switch {
	case !col.Nullable:
		parts = append(parts, "NOT NULL")
	case col.Default == "NULL":
		// Explicitly-nullable columns with a NULL default spell it out,
		// matching the layout of existing dumps.
		parts = append(parts, "NULL")
	}

	if col.AutoIncrement {
		parts = append(parts, "AUTO_INCREMENT")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT", col.Default)
	}
	if col.Comment != "" {
		parts = append(parts, fmt.Sprintf("COMMENT '%s'", strings.ReplaceAll(col.Comment, "'", "''")))
	}

	return strings.Join(parts, " ")
}

// keyDefinition renders one secondary, unique or full-text key.
func (g *Generator) keyDefinition(key schema.KeyMetadata) string {
	cols := make([]string, len(key.Parts))
	for i, p := range key.Parts {
		cols[i] = quoteIdent(p.Column)
		if p.Prefix > 0 {
			cols[i] += fmt.Sprintf("(%d)", p.Prefix)
		}
	}

	kind := "KEY"
	switch {
	case key.Unique:
		kind = "UNIQUE KEY"
	case key.Fulltext:
		kind = "FULLTEXT KEY"
	}

	if key.Name == "" {
		return fmt.Sprintf("%s (%s)", kind, strings.Join(cols, ","))
	}
	return fmt.Sprintf("%s %s (%s)", kind, quoteIdent(key.Name), strings.Join(cols, ","))
}

// engineFor resolves the storage engine for a table against the configured
// server version.
func (g *Generator) engineFor(t *schema.TableMetadata) string {
	switch t.Engine {
	case schema.EngineMyISAM:
		return "MyISAM"
	case schema.EngineFulltext:
		if supportsInnoDBFulltext(g.opts.ServerVersion) {
			return "InnoDB"
		}
		return "MyISAM"
	default:
		return "InnoDB"
	}
}

// charsetClause renders the trailing character set / collation clause.
func (g *Generator) charsetClause() string {
	var b strings.Builder
	if g.opts.Charset != "" {
		b.WriteString(" DEFAULT CHARACTER SET ")
		b.WriteString(g.opts.Charset)
	}
	if g.opts.Collation != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(g.opts.Collation)
	}
	return b.String()
}

// supportsInnoDBFulltext reports whether the given server version has
// InnoDB full-text indexes. An empty version assumes a modern server.
func supportsInnoDBFulltext(version string) bool {
	if version == "" {
		return true
	}
	return compareVersions(version, innodbFulltextVersion) >= 0
}

// compareVersions compares dotted numeric versions. Non-numeric segments
// compare as zero.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
