package schema

// Activity is the polymorphic event log, queried by
// (type, itemid, itemtype[, userid]).
func Activity() *TableMetadata {
	return &TableMetadata{
		Name: "activity",
		Columns: []ColumnMetadata{
			{Name: "id", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "type", SQLType: "VARCHAR(60)"},
			{Name: "itemid", SQLType: "BIGINT UNSIGNED"},
			{Name: "itemtype", SQLType: "VARCHAR(60)"},
			{Name: "itemid_second", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "userid", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "name", SQLType: "VARCHAR(60)", Default: "''"},
			{Name: "email", SQLType: "VARCHAR(70)", Default: "''"},
			{Name: "date", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "content", SQLType: "TEXT", Nullable: true},
			{Name: "permalink", SQLType: "VARCHAR(1024)", Default: "''"},
			{Name: "new", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
		},
		PrimaryKey: []string{"id"},
		Keys: []KeyMetadata{
			Key("type", "type"),
			Key("type_objid_objtype", "type", "itemid", "itemtype"),
			Key("type_objid_objtype_userid", "type", "itemid", "itemtype", "userid"),
			Key("itemtype_userid_new", "itemtype", "userid", "new"),
			Key("date", "date"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// PostRevisions keeps edit history, ordered by version per
// (postid, textareaid).
func PostRevisions() *TableMetadata {
	return &TableMetadata{
		Name: "post_revisions",
		Columns: []ColumnMetadata{
			{Name: "revisionid", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "userid", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "textareaid", SQLType: "VARCHAR(50)"},
			{Name: "postid", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "body", SQLType: "LONGTEXT", Nullable: true},
			{Name: "created", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "version", SQLType: "SMALLINT", Default: "0"},
			{Name: "email", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "url", SQLType: "TEXT", Nullable: true},
		},
		PrimaryKey: []string{"revisionid"},
		Keys: []KeyMetadata{
			{Name: "userid_textareaid_postid_email", Parts: []KeyPart{
				{Column: "userid"},
				{Column: "textareaid"},
				{Column: "postid"},
				{Column: "email"},
				{Column: "url", Prefix: 70},
			}},
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Tags holds the unique tag vocabulary with a usage counter.
func Tags() *TableMetadata {
	return &TableMetadata{
		Name: "tags",
		Columns: []ColumnMetadata{
			{Name: "tagid", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "tag", SQLType: "VARCHAR(255)"},
			{Name: "prefix", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "count", SQLType: "INT UNSIGNED", Default: "0"},
		},
		PrimaryKey: []string{"tagid"},
		Keys: []KeyMetadata{
			{Name: "tag", Parts: []KeyPart{{Column: "tag", Prefix: 190}}, Unique: true},
			{Parts: []KeyPart{{Column: "prefix"}}},
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Languages names the installed translation languages.
func Languages() *TableMetadata {
	return &TableMetadata{
		Name: "languages",
		Columns: []ColumnMetadata{
			{Name: "langid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "name", SQLType: "VARCHAR(255)"},
		},
		PrimaryKey: []string{"langid"},
		Keys: []KeyMetadata{
			{Name: "UNIQUE language name", Parts: []KeyPart{{Column: "name", Prefix: 191}}, Unique: true},
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Phrases is the translation string table. It is rebuildable from language
// packages, which is why it tolerates an engine without transactional
// guarantees.
func Phrases() *TableMetadata {
	return &TableMetadata{
		Name: "phrases",
		Columns: []ColumnMetadata{
			{Name: "phraseid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "langid", SQLType: "INT UNSIGNED"},
			{Name: "phrase_key", SQLType: "TEXT"},
			{Name: "phrase_value", SQLType: "TEXT"},
			{Name: "package", SQLType: "VARCHAR(255)", Default: "'wpforo'"},
		},
		PrimaryKey: []string{"phraseid"},
		Keys: []KeyMetadata{
			Key("langid", "langid"),
			{Name: "phrase_key", Parts: []KeyPart{{Column: "phrase_key", Prefix: 191}}},
			{Name: "lng_and_key_uniq", Parts: []KeyPart{
				{Column: "langid"},
				{Column: "phrase_key", Prefix: 191},
			}, Unique: true},
		},
		Engine:       EngineMyISAM,
		DeletePolicy: DeletePhysical,
	}
}
