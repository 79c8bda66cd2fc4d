package ddl

import (
	"strings"
	"testing"

	"github.com/forodb/forodb/pkg/schema"
)

func TestCreateTableForums(t *testing.T) {
	gen := NewGenerator(Options{})
	stmt, err := gen.CreateTable(schema.Forums())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	if stmt.Table != "wpforo_forums" {
		t.Errorf("expected physical name wpforo_forums, got %s", stmt.Table)
	}
	if !strings.Contains(stmt.SQL, "CREATE TABLE IF NOT EXISTS `wpforo_forums`") {
		t.Errorf("expected CREATE TABLE IF NOT EXISTS, got:\n%s", stmt.SQL)
	}
	if !strings.Contains(stmt.SQL, "`forumid` INT UNSIGNED NOT NULL AUTO_INCREMENT") {
		t.Errorf("expected auto-increment primary key column, got:\n%s", stmt.SQL)
	}
	if !strings.Contains(stmt.SQL, "PRIMARY KEY (`forumid`)") {
		t.Errorf("expected primary key clause, got:\n%s", stmt.SQL)
	}
	// The unique slug key keeps its historical name, space included.
	if !strings.Contains(stmt.SQL, "UNIQUE KEY `UNIQUE SLUG` (`slug`(191))") {
		t.Errorf("expected named unique slug key with prefix, got:\n%s", stmt.SQL)
	}
	// Reserved word columns must be quoted.
	if !strings.Contains(stmt.SQL, "`order` INT UNSIGNED NOT NULL DEFAULT 0") {
		t.Errorf("expected quoted order column, got:\n%s", stmt.SQL)
	}
	if !strings.Contains(stmt.SQL, "ENGINE=InnoDB") {
		t.Errorf("expected InnoDB engine, got:\n%s", stmt.SQL)
	}
}

func TestCreateTablePostsFulltextKeys(t *testing.T) {
	gen := NewGenerator(Options{})
	stmt, err := gen.CreateTable(schema.Posts())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	// One fulltext key per search scope.
	for _, key := range []string{
		"FULLTEXT KEY `title` (`title`(191))",
		"FULLTEXT KEY `body` (`body`)",
		"FULLTEXT KEY `title_plus_body` (`title`,`body`)",
	} {
		if !strings.Contains(stmt.SQL, key) {
			t.Errorf("expected %q, got:\n%s", key, stmt.SQL)
		}
	}

	// Composite access-pattern keys.
	for _, key := range []string{
		"KEY `topicid_status` (`topicid`,`status`)",
		"KEY `topicid_parentid` (`topicid`,`parentid`)",
		"KEY `forumid_answer_first` (`forumid`,`is_answer`,`is_first_post`)",
	} {
		if !strings.Contains(stmt.SQL, key) {
			t.Errorf("expected %q, got:\n%s", key, stmt.SQL)
		}
	}

	// The nullable threading root spells its NULL default out.
	if !strings.Contains(stmt.SQL, "`root` BIGINT NULL DEFAULT NULL") {
		t.Errorf("expected explicit NULL default on root, got:\n%s", stmt.SQL)
	}
}

func TestEngineSelectionByServerVersion(t *testing.T) {
	tests := []struct {
		version string
		engine  string
	}{
		{"", "InnoDB"},
		{"5.5.40", "MyISAM"},
		{"5.6.3", "MyISAM"},
		{"5.6.4", "InnoDB"},
		{"5.7.44", "InnoDB"},
		{"8.0.36", "InnoDB"},
		{"10.6.16-MariaDB", "InnoDB"},
	}

	for _, tt := range tests {
		gen := NewGenerator(Options{ServerVersion: tt.version})
		stmt, err := gen.CreateTable(schema.Topics())
		if err != nil {
			t.Fatalf("CreateTable failed: %v", err)
		}
		if !strings.Contains(stmt.SQL, "ENGINE="+tt.engine) {
			t.Errorf("version %q: expected ENGINE=%s, got:\n%s", tt.version, tt.engine, stmt.SQL)
		}
	}
}

func TestPhrasesAlwaysMyISAM(t *testing.T) {
	// The phrases table stays MyISAM regardless of server version.
	for _, version := range []string{"", "5.5.40", "8.0.36"} {
		gen := NewGenerator(Options{ServerVersion: version})
		stmt, err := gen.CreateTable(schema.Phrases())
		if err != nil {
			t.Fatalf("CreateTable failed: %v", err)
		}
		if !strings.Contains(stmt.SQL, "ENGINE=MyISAM") {
			t.Errorf("version %q: expected ENGINE=MyISAM for phrases, got:\n%s", version, stmt.SQL)
		}
	}
}

func TestNonFulltextTablesIgnoreVersion(t *testing.T) {
	gen := NewGenerator(Options{ServerVersion: "5.5.40"})
	stmt, err := gen.CreateTable(schema.Likes())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.Contains(stmt.SQL, "ENGINE=InnoDB") {
		t.Errorf("expected InnoDB for likes on any version, got:\n%s", stmt.SQL)
	}
}

func TestCharsetClause(t *testing.T) {
	gen := NewGenerator(Options{Charset: "utf8mb4", Collation: "utf8mb4_unicode_ci"})
	stmt, err := gen.CreateTable(schema.Tags())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.HasSuffix(stmt.SQL, "DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci") {
		t.Errorf("expected charset clause suffix, got:\n%s", stmt.SQL)
	}

	gen = NewGenerator(Options{})
	stmt, err = gen.CreateTable(schema.Tags())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if strings.Contains(stmt.SQL, "CHARACTER SET") || strings.Contains(stmt.SQL, "COLLATE") {
		t.Errorf("expected no charset clause without options, got:\n%s", stmt.SQL)
	}
}

func TestCustomPrefix(t *testing.T) {
	gen := NewGenerator(Options{Names: schema.DefaultNames("myboard_")})
	stmt, err := gen.CreateTable(schema.Topics())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if stmt.Table != "myboard_topics" {
		t.Errorf("expected myboard_topics, got %s", stmt.Table)
	}
	if !strings.Contains(stmt.SQL, "`myboard_topics`") {
		t.Errorf("expected prefixed table name in SQL, got:\n%s", stmt.SQL)
	}
}

func TestUnnamedKeys(t *testing.T) {
	gen := NewGenerator(Options{})

	stmt, err := gen.CreateTable(schema.Accesses())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.Contains(stmt.SQL, "UNIQUE KEY (`access`(191))") {
		t.Errorf("expected unnamed unique key on access, got:\n%s", stmt.SQL)
	}

	stmt, err = gen.CreateTable(schema.Tags())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.Contains(stmt.SQL, "KEY (`prefix`)") {
		t.Errorf("expected unnamed key on prefix, got:\n%s", stmt.SQL)
	}
}

func TestColumnCommentEscaping(t *testing.T) {
	gen := NewGenerator(Options{})
	stmt, err := gen.CreateTable(schema.Profiles())
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if !strings.Contains(stmt.SQL, "COMMENT 'active, blocked, trashed, spamer'") {
		t.Errorf("expected status column comment, got:\n%s", stmt.SQL)
	}
}

func TestCreateStatementsCoversWholeSchema(t *testing.T) {
	gen := NewGenerator(Options{})
	stmts, err := gen.CreateStatements()
	if err != nil {
		t.Fatalf("CreateStatements failed: %v", err)
	}
	if len(stmts) != 16 {
		t.Fatalf("expected 16 statements, got %d", len(stmts))
	}
	if stmts[0].Table != "wpforo_forums" {
		t.Errorf("expected forums first, got %s", stmts[0].Table)
	}

	seen := make(map[string]bool)
	for _, stmt := range stmts {
		if seen[stmt.Table] {
			t.Errorf("duplicate table %s", stmt.Table)
		}
		seen[stmt.Table] = true
		if !strings.HasPrefix(stmt.SQL, "CREATE TABLE IF NOT EXISTS") {
			t.Errorf("statement for %s is not idempotent:\n%s", stmt.Table, stmt.SQL)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"5.6.4", "5.6.4", 0},
		{"5.6.3", "5.6.4", -1},
		{"5.7", "5.6.4", 1},
		{"8.0.36-0ubuntu0.22.04.1", "5.6.4", 1},
		{"5.6", "5.6.4", -1},
		{"10.6.16-MariaDB", "5.6.4", 1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
