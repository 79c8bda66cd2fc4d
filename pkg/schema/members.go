package schema

// Profiles is the 1:1 extension of an external user account. The
// posts/questions/answers/comments columns are denormalized counters.
func Profiles() *TableMetadata {
	return &TableMetadata{
		Name: "profiles",
		Columns: []ColumnMetadata{
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "title", SQLType: "VARCHAR(255)", Default: "'member'"},
			{Name: "username", SQLType: "VARCHAR(255)"},
			{Name: "groupid", SQLType: "INT UNSIGNED"},
			{Name: "posts", SQLType: "INT", Default: "0"},
			{Name: "questions", SQLType: "INT", Default: "0"},
			{Name: "answers", SQLType: "INT", Default: "0"},
			{Name: "comments", SQLType: "INT", Default: "0"},
			{Name: "site", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "icq", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "aim", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "yahoo", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "msn", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "facebook", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "twitter", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "gtalk", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "skype", SQLType: "VARCHAR(50)", Nullable: true},
			{Name: "avatar", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "signature", SQLType: "TEXT", Nullable: true},
			{Name: "about", SQLType: "TEXT", Nullable: true},
			{Name: "occupation", SQLType: "TEXT", Nullable: true},
			{Name: "location", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "last_login", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "online_time", SQLType: "INT UNSIGNED", Nullable: true},
			{Name: "rank", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "like", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "status", SQLType: "VARCHAR(8)", Nullable: true, Default: "'active'", Comment: "active, blocked, trashed, spamer"},
			{Name: "timezone", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "is_email_confirmed", SQLType: "TINYINT(1)", Default: "0"},
			{Name: "secondary_groups", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "fields", SQLType: "LONGTEXT", Nullable: true},
		},
		PrimaryKey: []string{"userid"},
		Keys: []KeyMetadata{
			Key("groupid", "groupid"),
			Key("online_time", "online_time"),
			Key("posts", "posts"),
			Key("status", "status"),
			Key("is_email_confirmed", "is_email_confirmed"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeleteTombstone,
	}
}

// Usergroups holds the permission groups profiles belong to.
func Usergroups() *TableMetadata {
	return &TableMetadata{
		Name: "usergroups",
		Columns: []ColumnMetadata{
			{Name: "groupid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "name", SQLType: "VARCHAR(255)"},
			{Name: "cans", SQLType: "LONGTEXT", Comment: "board permissions"},
			{Name: "description", SQLType: "TEXT", Nullable: true},
			{Name: "utitle", SQLType: "VARCHAR(100)", Default: "''"},
			{Name: "role", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "access", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "color", SQLType: "VARCHAR(7)", Default: "''"},
			{Name: "visible", SQLType: "TINYINT(1) UNSIGNED", Default: "1"},
			{Name: "secondary", SQLType: "TINYINT(1) UNSIGNED", Default: "1"},
		},
		PrimaryKey: []string{"groupid"},
		Keys: []KeyMetadata{
			Key("visible", "visible"),
			Key("secondary", "secondary"),
			{Name: "UNIQUE_GROUP_NAME", Parts: []KeyPart{{Column: "name", Prefix: 191}}, Unique: true},
		},
		Engine:       EngineDefault,
		DeletePolicy: DeleteTombstone,
	}
}

// Accesses holds named per-forum permission sets referenced by role
// assignment.
func Accesses() *TableMetadata {
	return &TableMetadata{
		Name: "accesses",
		Columns: []ColumnMetadata{
			{Name: "accessid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "access", SQLType: "VARCHAR(255)"},
			{Name: "title", SQLType: "VARCHAR(255)"},
			{Name: "cans", SQLType: "LONGTEXT", Comment: "forum permissions"},
		},
		PrimaryKey: []string{"accessid"},
		Keys: []KeyMetadata{
			{Parts: []KeyPart{{Column: "access", Prefix: 191}}, Unique: true},
		},
		Engine:       EngineDefault,
		DeletePolicy: DeleteTombstone,
	}
}
