package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forodb/forodb/pkg/schema"
)

// CreateTopic opens a thread. The topic row and its first post are written
// in one transaction together with the counter and last-post bumps on the
// parent forum and the author profile, so a reader never observes a topic
// without a first post.
func (s *Store) CreateTopic(ctx context.Context, t *Topic, body string) (*Post, error) {
	now := time.Now()
	var first Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var forumStatus bool
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf("SELECT `status` FROM `%s` WHERE `forumid` = ?", s.names.Forums),
			t.ForumID,
		).Scan(&forumStatus)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("forum %d: %w", t.ForumID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`forumid`, `userid`, `title`, `slug`, `created`, `modified`, `posts`, `type`, `private`, `status`, `name`, `email`) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?)",
			s.names.Topics,
		), t.ForumID, t.UserID, t.Title, t.Slug, now, now, t.Type, t.Private, t.Status, "", "")
		if err != nil {
			return err
		}
		t.TopicID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		first = Post{
			ForumID:     t.ForumID,
			TopicID:     t.TopicID,
			UserID:      t.UserID,
			Title:       t.Title,
			Body:        body,
			Created:     now,
			Modified:    now,
			IsFirstPost: true,
			Status:      t.Status,
			Private:     t.Private,
		}
		res, err = tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`forumid`, `topicid`, `userid`, `title`, `body`, `created`, `modified`, `is_first_post`, `status`, `private`, `name`, `email`) VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?)",
			s.names.Posts,
		), first.ForumID, first.TopicID, first.UserID, first.Title, first.Body, now, now, first.Status, first.Private, "", "")
		if err != nil {
			return err
		}
		first.PostID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `first_postid` = ?, `last_post` = ? WHERE `topicid` = ?",
			s.names.Topics,
		), first.PostID, first.PostID, t.TopicID)
		if err != nil {
			return err
		}
		t.FirstPostID = first.PostID
		t.LastPostID = first.PostID
		t.Created = now
		t.Modified = now
		t.Posts = 1

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `topics` = `topics` + 1, `posts` = `posts` + 1, `last_topicid` = ?, `last_postid` = ?, `last_userid` = ?, `last_post_date` = ? WHERE `forumid` = ?",
			s.names.Forums,
		), t.TopicID, first.PostID, t.UserID, now, t.ForumID)
		if err != nil {
			return err
		}

		profileBump := "`posts` = `posts` + 1"
		if t.Type == schema.TopicQuestion {
			profileBump += ", `questions` = `questions` + 1"
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET %s WHERE `userid` = ?",
			s.names.Profiles, profileBump,
		), t.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &first, nil
}

// GetTopic fetches a topic by id.
func (s *Store) GetTopic(ctx context.Context, topicID int64) (*Topic, error) {
	return s.scanTopic(s.db.QueryRowContext(ctx, s.topicSelect()+" WHERE `topicid` = ?", topicID))
}

// ListTopics pages through the topics of a forum, newest activity first.
// The (forumid, status) walk rides the forumid_status key; excluding
// private topics narrows it onto forumid_status_private instead.
func (s *Store) ListTopics(ctx context.Context, forumID int64, status, includePrivate bool, limit, offset int) ([]Topic, error) {
	query := s.topicSelect() + " WHERE `forumid` = ? AND `status` = ?"
	args := []any{forumID, status}
	if !includePrivate {
		query += " AND `private` = 0"
	}
	query += " ORDER BY `last_post` DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// SetTopicStatus tombstones or restores a topic and keeps the forum
// counters consistent with the transition. Posts under the topic keep
// their own status.
func (s *Store) SetTopicStatus(ctx context.Context, topicID int64, status bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var forumID int64
		var current bool
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT `forumid`, `status` FROM `%s` WHERE `topicid` = ? FOR UPDATE",
			s.names.Topics,
		), topicID).Scan(&forumID, &current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current == status {
			return nil
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `status` = ? WHERE `topicid` = ?",
			s.names.Topics,
		), status, topicID)
		if err != nil {
			return err
		}

		// status false is the live state, so restoring adds the topic
		// back into the forum counter and tombstoning removes it.
		delta := "+ 1"
		if status {
			delta = "- 1"
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `topics` = `topics` %s WHERE `forumid` = ?",
			s.names.Forums, delta,
		), forumID)
		return err
	})
}

// CloseTopic toggles the closed flag. Closed topics reject new posts at
// the application layer; existing rows are untouched.
func (s *Store) CloseTopic(ctx context.Context, topicID int64, closed bool) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `closed` = ? WHERE `topicid` = ?",
		s.names.Topics,
	), closed, topicID)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

func (s *Store) topicSelect() string {
	return fmt.Sprintf(
		"SELECT `topicid`, `forumid`, `first_postid`, `userid`, `title`, `slug`, `created`, `modified`, `last_post`, `posts`, `votes`, `answers`, `views`, `type`, `solved`, `closed`, `private`, `status` FROM `%s`",
		s.names.Topics,
	)
}

func (s *Store) scanTopic(row rowScanner) (*Topic, error) {
	t, err := s.scanTopicRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *Store) scanTopicRow(row rowScanner) (*Topic, error) {
	var t Topic
	err := row.Scan(
		&t.TopicID, &t.ForumID, &t.FirstPostID, &t.UserID, &t.Title, &t.Slug,
		&t.Created, &t.Modified, &t.LastPostID, &t.Posts, &t.Votes, &t.Answers,
		&t.Views, &t.Type, &t.Solved, &t.Closed, &t.Private, &t.Status,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
