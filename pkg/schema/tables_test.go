package schema

import "testing"

func TestTablesAreInternallyConsistent(t *testing.T) {
	tables := Tables()
	if len(tables) != 16 {
		t.Fatalf("expected 16 tables, got %d", len(tables))
	}

	seen := make(map[string]bool)
	for _, tbl := range tables {
		if seen[tbl.Name] {
			t.Errorf("duplicate table name %s", tbl.Name)
		}
		seen[tbl.Name] = true

		if len(tbl.PrimaryKey) == 0 {
			t.Errorf("table %s has no primary key", tbl.Name)
		}
		for _, pk := range tbl.PrimaryKey {
			if tbl.Column(pk) == nil {
				t.Errorf("table %s: primary key column %s not defined", tbl.Name, pk)
			}
		}

		cols := make(map[string]bool)
		for _, col := range tbl.Columns {
			if cols[col.Name] {
				t.Errorf("table %s: duplicate column %s", tbl.Name, col.Name)
			}
			cols[col.Name] = true
		}

		for _, key := range tbl.Keys {
			for _, part := range key.Parts {
				if !cols[part.Column] {
					t.Errorf("table %s: key %q references unknown column %s", tbl.Name, key.Name, part.Column)
				}
			}
			if key.Fulltext && tbl.Engine == EngineDefault {
				t.Errorf("table %s: fulltext key %q on a table not marked for fulltext", tbl.Name, key.Name)
			}
		}
	}
}

func TestAutoIncrementColumnsAreNotNullable(t *testing.T) {
	for _, tbl := range Tables() {
		for _, col := range tbl.Columns {
			if col.AutoIncrement && col.Nullable {
				t.Errorf("table %s: auto-increment column %s marked nullable", tbl.Name, col.Name)
			}
		}
	}
}

func TestFulltextTables(t *testing.T) {
	// Only topics and posts carry version-dependent fulltext keys;
	// phrases is pinned to MyISAM outright.
	engines := map[string]Engine{}
	for _, tbl := range Tables() {
		engines[tbl.Name] = tbl.Engine
	}

	if engines["topics"] != EngineFulltext {
		t.Errorf("topics should be a fulltext table")
	}
	if engines["posts"] != EngineFulltext {
		t.Errorf("posts should be a fulltext table")
	}
	if engines["phrases"] != EngineMyISAM {
		t.Errorf("phrases should be pinned to MyISAM")
	}
	for name, engine := range engines {
		if engine == EngineFulltext && name != "topics" && name != "posts" {
			t.Errorf("unexpected fulltext table %s", name)
		}
	}
}

func TestTombstonePolicy(t *testing.T) {
	// Content and identity rows tombstone; engagement and rebuildable
	// rows delete physically.
	tombstoned := map[string]bool{
		"forums": true, "topics": true, "posts": true,
		"profiles": true, "usergroups": true, "accesses": true,
	}
	for _, tbl := range Tables() {
		want := DeletePhysical
		if tombstoned[tbl.Name] {
			want = DeleteTombstone
		}
		if tbl.DeletePolicy != want {
			t.Errorf("table %s: delete policy %v, want %v", tbl.Name, tbl.DeletePolicy, want)
		}
	}
}

func TestPostsSearchKeys(t *testing.T) {
	posts := Posts()
	if !posts.HasFulltext() {
		t.Fatal("posts should have fulltext keys")
	}

	// One key per search scope.
	for _, name := range []string{"title", "body", "title_plus_body"} {
		key := posts.KeyByName(name)
		if key == nil {
			t.Errorf("posts: missing fulltext key %s", name)
			continue
		}
		if !key.Fulltext {
			t.Errorf("posts: key %s is not fulltext", name)
		}
	}

	combined := posts.KeyByName("title_plus_body")
	if combined != nil && len(combined.Parts) != 2 {
		t.Errorf("title_plus_body should span two columns, got %d", len(combined.Parts))
	}
}

func TestDefaultNames(t *testing.T) {
	names := DefaultNames("")
	if names.Forums != "wpforo_forums" {
		t.Errorf("expected wpforo_forums, got %s", names.Forums)
	}
	if names.PostRevisions != "wpforo_post_revisions" {
		t.Errorf("expected wpforo_post_revisions, got %s", names.PostRevisions)
	}

	custom := DefaultNames("board_")
	if custom.Phrases != "board_phrases" {
		t.Errorf("expected board_phrases, got %s", custom.Phrases)
	}
}

func TestPhysicalNameLookup(t *testing.T) {
	names := DefaultNames("")
	for _, tbl := range Tables() {
		physical, err := names.Physical(tbl.Name)
		if err != nil {
			t.Errorf("Physical(%q) failed: %v", tbl.Name, err)
			continue
		}
		if physical != DefaultPrefix+tbl.Name {
			t.Errorf("Physical(%q) = %s, want %s", tbl.Name, physical, DefaultPrefix+tbl.Name)
		}
	}

	if _, err := names.Physical("nonexistent"); err == nil {
		t.Error("expected error for unknown logical name")
	}
}
