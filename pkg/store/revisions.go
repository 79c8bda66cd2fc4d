package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AddRevision snapshots a post body into the edit history. The version
// number is the next in sequence for the (postid, textareaid) pair,
// assigned inside a transaction so concurrent edits cannot share one.
func (s *Store) AddRevision(ctx context.Context, r *Revision) error {
	if r.Created == 0 {
		r.Created = time.Now().Unix()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT COALESCE(MAX(`version`), 0) + 1 FROM `%s` WHERE `postid` = ? AND `textareaid` = ? FOR UPDATE",
			s.names.PostRevisions,
		), r.PostID, r.TextareaID).Scan(&r.Version)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`userid`, `textareaid`, `postid`, `body`, `created`, `version`, `email`, `url`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			s.names.PostRevisions,
		), r.UserID, r.TextareaID, r.PostID, r.Body, r.Created, r.Version, r.Email, r.URL)
		if err != nil {
			return err
		}
		r.RevisionID, err = res.LastInsertId()
		return err
	})
}

// Revisions lists a post's edit history for one editing surface, newest
// version first.
func (s *Store) Revisions(ctx context.Context, postID int64, textareaID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT `revisionid`, `userid`, `textareaid`, `postid`, COALESCE(`body`, ''), `created`, `version`, `email`, COALESCE(`url`, '') FROM `%s` WHERE `postid` = ? AND `textareaid` = ? ORDER BY `version` DESC",
		s.names.PostRevisions,
	), postID, textareaID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		err := rows.Scan(
			&r.RevisionID, &r.UserID, &r.TextareaID, &r.PostID, &r.Body,
			&r.Created, &r.Version, &r.Email, &r.URL,
		)
		if err != nil {
			return nil, err
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// DropRevisions discards a post's edit history. Used when a post is
// physically purged.
func (s *Store) DropRevisions(ctx context.Context, postID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `postid` = ?",
		s.names.PostRevisions,
	), postID)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
