package store

import (
	"strings"
	"testing"

	"github.com/forodb/forodb/pkg/schema"
)

func TestSearchQueryScopes(t *testing.T) {
	s := New(nil, schema.TableNames{})

	tests := []struct {
		scope SearchScope
		match string
	}{
		{ScopeTitle, "MATCH(`title`) AGAINST"},
		{ScopeBody, "MATCH(`body`) AGAINST"},
		{ScopeTitleBody, "MATCH(`title`, `body`) AGAINST"},
	}

	for _, tt := range tests {
		query, args, err := s.searchQuery(tt.scope, "sqlite vs mysql", 20)
		if err != nil {
			t.Fatalf("scope %v: %v", tt.scope, err)
		}
		if !strings.Contains(query, tt.match) {
			t.Errorf("scope %v: expected %q in:\n%s", tt.scope, tt.match, query)
		}
		// The MATCH column list must exactly mirror one of the three
		// fulltext keys or the engine falls back to a table scan.
		if strings.Count(query, "MATCH(") != 2 {
			t.Errorf("scope %v: expected MATCH in filter and ranking, got:\n%s", tt.scope, query)
		}
		if !strings.Contains(query, "`status` = 0") {
			t.Errorf("scope %v: expected live-rows filter, got:\n%s", tt.scope, query)
		}
		if !strings.Contains(query, "NATURAL LANGUAGE MODE") {
			t.Errorf("scope %v: expected natural language mode, got:\n%s", tt.scope, query)
		}
		if len(args) != 3 {
			t.Errorf("scope %v: expected 3 args, got %d", tt.scope, len(args))
		}
		if !strings.Contains(query, "`wpforo_posts`") {
			t.Errorf("scope %v: expected default table name, got:\n%s", tt.scope, query)
		}
	}
}

func TestSearchQueryUnknownScope(t *testing.T) {
	s := New(nil, schema.TableNames{})
	if _, _, err := s.searchQuery(SearchScope(99), "x", 10); err == nil {
		t.Error("expected error for unknown scope")
	}
}

func TestSearchScopeString(t *testing.T) {
	if ScopeTitle.String() != "title" || ScopeBody.String() != "body" || ScopeTitleBody.String() != "title+body" {
		t.Error("unexpected scope names")
	}
}

func TestNewDefaultsTableNames(t *testing.T) {
	s := New(nil, schema.TableNames{})
	if s.Names().Posts != "wpforo_posts" {
		t.Errorf("expected default names, got %s", s.Names().Posts)
	}

	custom := New(nil, schema.DefaultNames("board_"))
	if custom.Names().Posts != "board_posts" {
		t.Errorf("expected custom names, got %s", custom.Names().Posts)
	}
}
