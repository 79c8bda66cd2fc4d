package schema

// Tables returns the full forum schema in creation order.
func Tables() []*TableMetadata {
	return []*TableMetadata{
		Forums(),
		Topics(),
		Posts(),
		Profiles(),
		Usergroups(),
		Languages(),
		Phrases(),
		Likes(),
		Views(),
		Votes(),
		Accesses(),
		Subscribes(),
		Visits(),
		Activity(),
		PostRevisions(),
		Tags(),
	}
}

// Forums is the hierarchical container table. parentid self-references
// forums, with 0 standing for the root. The topics/posts columns are
// denormalized counters over the non-deleted rows below the forum.
func Forums() *TableMetadata {
	return &TableMetadata{
		Name: "forums",
		Columns: []ColumnMetadata{
			{Name: "forumid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "title", SQLType: "VARCHAR(255)"},
			{Name: "slug", SQLType: "VARCHAR(255)"},
			{Name: "description", SQLType: "LONGTEXT", Nullable: true},
			{Name: "parentid", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "icon", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "last_topicid", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "last_postid", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "last_userid", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "last_post_date", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "topics", SQLType: "INT", Default: "0"},
			{Name: "posts", SQLType: "INT", Default: "0"},
			{Name: "permissions", SQLType: "TEXT", Nullable: true},
			{Name: "meta_key", SQLType: "TEXT", Nullable: true},
			{Name: "meta_desc", SQLType: "TEXT", Nullable: true},
			{Name: "status", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "is_cat", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "cat_layout", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "order", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "color", SQLType: "VARCHAR(7)", Default: "''"},
		},
		PrimaryKey: []string{"forumid"},
		Keys: []KeyMetadata{
			{Name: "UNIQUE SLUG", Parts: []KeyPart{{Column: "slug", Prefix: 191}}, Unique: true},
			Key("order", "order"),
			Key("status", "status"),
			Key("parentid", "parentid"),
			Key("last_postid", "last_postid"),
			Key("is_cat", "is_cat"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeleteTombstone,
	}
}

// Topics is one discussion thread per row. first_postid points at the post
// with is_first_post=1; posts/votes/answers/views are denormalized counters.
func Topics() *TableMetadata {
	return &TableMetadata{
		Name: "topics",
		Columns: []ColumnMetadata{
			{Name: "topicid", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "forumid", SQLType: "INT UNSIGNED"},
			{Name: "first_postid", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "title", SQLType: "VARCHAR(255)"},
			{Name: "slug", SQLType: "VARCHAR(255)"},
			{Name: "created", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "modified", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "last_post", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "posts", SQLType: "INT", Default: "0"},
			{Name: "votes", SQLType: "INT", Default: "0"},
			{Name: "answers", SQLType: "INT", Default: "0"},
			{Name: "views", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "meta_key", SQLType: "TEXT", Nullable: true},
			{Name: "meta_desc", SQLType: "TEXT", Nullable: true},
			{Name: "type", SQLType: "TINYINT", Default: "0"},
			{Name: "solved", SQLType: "TINYINT(1)", Default: "0"},
			{Name: "closed", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "has_attach", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "private", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "status", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "name", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "email", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "prefix", SQLType: "VARCHAR(100)", Default: "''"},
			{Name: "tags", SQLType: "TEXT", Nullable: true},
		},
		PrimaryKey: []string{"topicid"},
		Keys: []KeyMetadata{
			{Name: "slug", Parts: []KeyPart{{Column: "slug", Prefix: 191}}},
			FulltextKey("title", "title"),
			Key("forumid", "forumid"),
			Key("first_postid", "first_postid"),
			Key("created", "created"),
			Key("modified", "modified"),
			Key("last_post", "last_post"),
			Key("type", "type"),
			Key("status", "status"),
			Key("email", "email"),
			Key("solved", "solved"),
			Key("is_private", "private"),
			Key("own_private", "userid", "private"),
			Key("forumid_status", "forumid", "status"),
			Key("forumid_status_private", "forumid", "status", "private"),
			Key("prefix", "prefix"),
		},
		Engine:       EngineFulltext,
		DeletePolicy: DeleteTombstone,
	}
}

// Posts holds the messages. parentid threads replies within a topic,
// forumid is denormalized off the topic as a query shortcut, and the three
// FULLTEXT keys serve the title / body / title+body search modes without
// recomputation.
func Posts() *TableMetadata {
	return &TableMetadata{
		Name: "posts",
		Columns: []ColumnMetadata{
			{Name: "postid", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "parentid", SQLType: "BIGINT UNSIGNED", Default: "0"},
			{Name: "forumid", SQLType: "INT UNSIGNED"},
			{Name: "topicid", SQLType: "BIGINT UNSIGNED"},
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "title", SQLType: "VARCHAR(255)", Nullable: true},
			{Name: "body", SQLType: "LONGTEXT", Nullable: true},
			{Name: "created", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "modified", SQLType: "DATETIME", Default: "'0000-00-00 00:00:00'"},
			{Name: "likes", SQLType: "INT UNSIGNED", Default: "0"},
			{Name: "votes", SQLType: "INT", Default: "0"},
			{Name: "is_answer", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "is_first_post", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "status", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "name", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "email", SQLType: "VARCHAR(50)", Default: "''"},
			{Name: "private", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "root", SQLType: "BIGINT", Nullable: true, Default: "NULL"},
		},
		PrimaryKey: []string{"postid"},
		Keys: []KeyMetadata{
			{Name: "title", Parts: []KeyPart{{Column: "title", Prefix: 191}}, Fulltext: true},
			FulltextKey("body", "body"),
			FulltextKey("title_plus_body", "title", "body"),
			Key("topicid", "topicid"),
			Key("forumid", "forumid"),
			Key("userid", "userid"),
			Key("created", "created"),
			Key("parentid", "parentid"),
			Key("is_answer", "is_answer"),
			Key("is_first_post", "is_first_post"),
			Key("status", "status"),
			Key("email", "email"),
			Key("is_private", "private"),
			Key("root", "root"),
			Key("forumid_status", "forumid", "status"),
			Key("topicid_status", "topicid", "status"),
			Key("topicid_solved", "topicid", "is_answer"),
			Key("topicid_parentid", "topicid", "parentid"),
			Key("forumid_status_private", "forumid", "status", "private"),
			Key("forumid_answer_first", "forumid", "is_answer", "is_first_post"),
		},
		Engine:       EngineFulltext,
		DeletePolicy: DeleteTombstone,
	}
}
