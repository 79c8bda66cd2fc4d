package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateForum inserts a forum node. The slug is unique within its 191-byte
// index prefix; a collision surfaces as ErrDuplicate.
func (s *Store) CreateForum(ctx context.Context, f *Forum) error {
	query := fmt.Sprintf(
		"INSERT INTO `%s` (`title`, `slug`, `description`, `parentid`, `status`, `is_cat`, `order`, `color`, `last_post_date`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.names.Forums,
	)
	res, err := s.db.ExecContext(ctx, query,
		f.Title, f.Slug, f.Description, f.ParentID, f.Status, f.IsCategory, f.Order, f.Color, time.Now(),
	)
	if err != nil {
		return classify(err)
	}
	f.ForumID, err = res.LastInsertId()
	return err
}

// GetForum fetches a forum by id.
func (s *Store) GetForum(ctx context.Context, forumID int64) (*Forum, error) {
	return s.scanForum(s.db.QueryRowContext(ctx, s.forumSelect()+" WHERE `forumid` = ?", forumID))
}

// ForumBySlug resolves a forum by its unique slug.
func (s *Store) ForumBySlug(ctx context.Context, slug string) (*Forum, error) {
	return s.scanForum(s.db.QueryRowContext(ctx, s.forumSelect()+" WHERE `slug` = ?", slug))
}

// ListForums returns the forums under a parent, ordered by their explicit
// position. A nil status returns every forum regardless of visibility.
func (s *Store) ListForums(ctx context.Context, parentID int64, status *bool) ([]Forum, error) {
	query := s.forumSelect() + " WHERE `parentid` = ?"
	args := []any{parentID}
	if status != nil {
		query += " AND `status` = ?"
		args = append(args, *status)
	}
	query += " ORDER BY `order` ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var forums []Forum
	for rows.Next() {
		f, err := s.scanForumRow(rows)
		if err != nil {
			return nil, err
		}
		forums = append(forums, *f)
	}
	return forums, rows.Err()
}

// SetForumStatus tombstones or restores a forum. Forum deletion is a
// status change, never a physical removal.
func (s *Store) SetForumStatus(ctx context.Context, forumID int64, status bool) error {
	query := fmt.Sprintf("UPDATE `%s` SET `status` = ? WHERE `forumid` = ?", s.names.Forums)
	res, err := s.db.ExecContext(ctx, query, status, forumID)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// forumSelect is the shared column list for forum scans.
func (s *Store) forumSelect() string {
	return fmt.Sprintf(
		"SELECT `forumid`, `title`, `slug`, COALESCE(`description`, ''), `parentid`, `last_topicid`, `last_postid`, `last_userid`, `last_post_date`, `topics`, `posts`, `status`, `is_cat`, `order`, `color` FROM `%s`",
		s.names.Forums,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanForum(row rowScanner) (*Forum, error) {
	f, err := s.scanForumRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *Store) scanForumRow(row rowScanner) (*Forum, error) {
	var f Forum
	err := row.Scan(
		&f.ForumID, &f.Title, &f.Slug, &f.Description, &f.ParentID,
		&f.LastTopicID, &f.LastPostID, &f.LastUserID, &f.LastPostDate,
		&f.Topics, &f.Posts, &f.Status, &f.IsCategory, &f.Order, &f.Color,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// requireAffected converts a zero-row update into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
