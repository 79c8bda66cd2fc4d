// Package schema defines the canonical forum table layouts: exact column
// names, types and key names form the compatibility contract with existing
// data dumps and must not drift.
package schema

// Engine selects the storage engine class for a table. The concrete engine
// is resolved at DDL-generation time from the server version.
type Engine int

const (
	// EngineDefault is the general-purpose transactional engine (InnoDB).
	EngineDefault Engine = iota

	// EngineFulltext marks tables that carry FULLTEXT keys. Servers with
	// InnoDB full-text support (5.6.4+) use InnoDB, older ones fall back
	// to MyISAM.
	EngineFulltext

	// EngineMyISAM is for rebuildable lookup data where transactional
	// guarantees are not worth the cost (phrases).
	EngineMyISAM
)

// DeletePolicy declares how rows of a table are removed.
type DeletePolicy int

const (
	// DeleteTombstone keeps the row and flips its status flag.
	DeleteTombstone DeletePolicy = iota

	// DeletePhysical removes the row. Used by the toggle tables
	// (likes, votes, views, visits) where absence is the state.
	DeletePhysical
)

// TableMetadata describes one table of the forum schema.
type TableMetadata struct {
	Name         string // logical name; physical name comes from TableNames
	Columns      []ColumnMetadata
	PrimaryKey   []string
	Keys         []KeyMetadata
	Engine       Engine
	DeletePolicy DeletePolicy
}

// ColumnMetadata describes a single column.
type ColumnMetadata struct {
	Name          string
	SQLType       string // dialect type as written in the DDL, e.g. "INT UNSIGNED"
	Nullable      bool
	Default       string // literal DDL default ("0", "''", "'active'"), empty for none
	AutoIncrement bool
	Comment       string
}

// KeyPart is one column of a key, with an optional index prefix length
// (slug(191)-style) for long text columns.
type KeyPart struct {
	Column string
	Prefix int
}

// KeyMetadata describes a secondary, unique or full-text key.
type KeyMetadata struct {
	Name     string // empty for engine-assigned names
	Parts    []KeyPart
	Unique   bool
	Fulltext bool
}

// Key builds a plain secondary key over whole columns.
func Key(name string, columns ...string) KeyMetadata {
	return KeyMetadata{Name: name, Parts: parts(columns)}
}

// UniqueKey builds a unique key over whole columns.
func UniqueKey(name string, columns ...string) KeyMetadata {
	return KeyMetadata{Name: name, Parts: parts(columns), Unique: true}
}

// FulltextKey builds a FULLTEXT key over whole columns.
func FulltextKey(name string, columns ...string) KeyMetadata {
	return KeyMetadata{Name: name, Parts: parts(columns), Fulltext: true}
}

func parts(columns []string) []KeyPart {
	ps := make([]KeyPart, len(columns))
	for i, c := range columns {
		ps[i] = KeyPart{Column: c}
	}
	return ps
}

// Column looks up a column by name. Returns nil when absent.
func (t *TableMetadata) Column(name string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// KeyByName looks up a key by name. Returns nil when absent.
func (t *TableMetadata) KeyByName(name string) *KeyMetadata {
	for i := range t.Keys {
		if t.Keys[i].Name == name {
			return &t.Keys[i]
		}
	}
	return nil
}

// HasFulltext reports whether the table carries any FULLTEXT key.
func (t *TableMetadata) HasFulltext() bool {
	for _, k := range t.Keys {
		if k.Fulltext {
			return true
		}
	}
	return false
}
