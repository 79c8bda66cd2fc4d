package store

import (
	"context"
	"fmt"
)

// SearchScope selects which FULLTEXT key serves a post search. Each scope
// maps onto one of the three fulltext indexes on posts, so the MATCH
// column list must name exactly the indexed columns.
type SearchScope int

const (
	// ScopeTitle searches post titles only.
	ScopeTitle SearchScope = iota
	// ScopeBody searches post bodies only.
	ScopeBody
	// ScopeTitleBody searches titles and bodies through the combined key.
	ScopeTitleBody
)

func (sc SearchScope) String() string {
	switch sc {
	case ScopeTitle:
		return "title"
	case ScopeBody:
		return "body"
	case ScopeTitleBody:
		return "title+body"
	default:
		return fmt.Sprintf("SearchScope(%d)", int(sc))
	}
}

// matchExpr returns the MATCH column list for the scope.
func (sc SearchScope) matchExpr() (string, error) {
	switch sc {
	case ScopeTitle:
		return "MATCH(`title`)", nil
	case ScopeBody:
		return "MATCH(`body`)", nil
	case ScopeTitleBody:
		return "MATCH(`title`, `body`)", nil
	default:
		return "", fmt.Errorf("unknown search scope %d", int(sc))
	}
}

// searchQuery builds the post search statement. Split off of SearchPosts
// so the generated SQL can be inspected without a live connection.
func (s *Store) searchQuery(scope SearchScope, terms string, limit int) (string, []any, error) {
	match, err := scope.matchExpr()
	if err != nil {
		return "", nil, err
	}
	query := fmt.Sprintf(
		"%s WHERE %s AGAINST (? IN NATURAL LANGUAGE MODE) AND `status` = 0 ORDER BY %s AGAINST (? IN NATURAL LANGUAGE MODE) DESC LIMIT ?",
		s.postSelect(), match, match,
	)
	return query, []any{terms, terms, limit}, nil
}

// SearchPosts runs a natural-language fulltext search over live posts,
// ranked by relevance.
func (s *Store) SearchPosts(ctx context.Context, scope SearchScope, terms string, limit int) ([]Post, error) {
	query, args, err := s.searchQuery(scope, terms, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := s.scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// SearchTopics runs a natural-language fulltext search over live topic
// titles through the topics table's own FULLTEXT key.
func (s *Store) SearchTopics(ctx context.Context, terms string, limit int) ([]Topic, error) {
	query := fmt.Sprintf(
		"%s WHERE MATCH(`title`) AGAINST (? IN NATURAL LANGUAGE MODE) AND `status` = 0 LIMIT ?",
		s.topicSelect(),
	)
	rows, err := s.db.QueryContext(ctx, query, terms, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		t, err := s.scanTopicRow(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, *t)
	}
	return topics, rows.Err()
}
