package schema

// Likes is a toggle table: presence of a (userid, postid) row is the
// "liked" state, enforced by the unique key. The same key serves the
// point lookup used as the dedupe check.
func Likes() *TableMetadata {
	return &TableMetadata{
		Name: "likes",
		Columns: []ColumnMetadata{
			{Name: "likeid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "postid", SQLType: "INT UNSIGNED"},
			{Name: "post_userid", SQLType: "INT UNSIGNED"},
		},
		PrimaryKey: []string{"likeid"},
		Keys: []KeyMetadata{
			UniqueKey("userid", "userid", "postid"),
			Key("post_userid", "post_userid"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Views tracks which user has seen which topic, one row per pair.
func Views() *TableMetadata {
	return &TableMetadata{
		Name: "views",
		Columns: []ColumnMetadata{
			{Name: "vid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "topicid", SQLType: "INT UNSIGNED"},
			{Name: "created", SQLType: "INT UNSIGNED"},
		},
		PrimaryKey: []string{"vid"},
		Keys: []KeyMetadata{
			Key("userid", "userid"),
			Key("topicid", "topicid"),
			UniqueKey("user_topic", "userid", "topicid"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Votes is the signed counterpart of Likes; reaction holds the sign.
func Votes() *TableMetadata {
	return &TableMetadata{
		Name: "votes",
		Columns: []ColumnMetadata{
			{Name: "voteid", SQLType: "INT UNSIGNED", AutoIncrement: true},
			{Name: "userid", SQLType: "INT UNSIGNED"},
			{Name: "postid", SQLType: "INT UNSIGNED"},
			{Name: "reaction", SQLType: "TINYINT", Default: "1"},
			{Name: "post_userid", SQLType: "INT UNSIGNED"},
		},
		PrimaryKey: []string{"voteid"},
		Keys: []KeyMetadata{
			UniqueKey("userid", "userid", "postid"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Subscribes holds notification subscriptions against a polymorphic item
// (forum or topic). confirmkey is globally unique so a bare confirmation
// link can resolve the subscription.
func Subscribes() *TableMetadata {
	return &TableMetadata{
		Name: "subscribes",
		Columns: []ColumnMetadata{
			{Name: "subid", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "itemid", SQLType: "BIGINT UNSIGNED"},
			{Name: "type", SQLType: "VARCHAR(5)"},
			{Name: "confirmkey", SQLType: "VARCHAR(32)"},
			{Name: "userid", SQLType: "BIGINT UNSIGNED"},
			{Name: "active", SQLType: "TINYINT(1) UNSIGNED", Default: "0"},
			{Name: "user_name", SQLType: "VARCHAR(60)"},
			{Name: "user_email", SQLType: "VARCHAR(60)"},
		},
		PrimaryKey: []string{"subid"},
		Keys: []KeyMetadata{
			{Name: "fld_group_unq", Parts: []KeyPart{
				{Column: "itemid"},
				{Column: "type"},
				{Column: "userid"},
				{Column: "user_email", Prefix: 60},
			}, Unique: true},
			UniqueKey("confirmkey", "confirmkey"),
			Key("itemid_2", "itemid"),
			Key("userid", "userid"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}

// Visits dedupes tracking rows on (userid, ip, forumid, topicid).
func Visits() *TableMetadata {
	return &TableMetadata{
		Name: "visits",
		Columns: []ColumnMetadata{
			{Name: "id", SQLType: "BIGINT UNSIGNED", AutoIncrement: true},
			{Name: "userid", SQLType: "BIGINT UNSIGNED"},
			{Name: "name", SQLType: "VARCHAR(60)"},
			{Name: "ip", SQLType: "VARCHAR(60)"},
			{Name: "time", SQLType: "INT UNSIGNED"},
			{Name: "forumid", SQLType: "INT UNSIGNED"},
			{Name: "topicid", SQLType: "BIGINT UNSIGNED"},
		},
		PrimaryKey: []string{"id"},
		Keys: []KeyMetadata{
			Key("userid", "userid"),
			Key("forumid", "forumid"),
			Key("topicid", "topicid"),
			Key("time", "time"),
			Key("ip", "ip"),
			Key("time_forumid", "time", "forumid"),
			Key("time_topicid", "time", "topicid"),
			UniqueKey("unique_tracking", "userid", "ip", "forumid", "topicid"),
		},
		Engine:       EngineDefault,
		DeletePolicy: DeletePhysical,
	}
}
