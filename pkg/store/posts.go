package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forodb/forodb/pkg/schema"
)

// CreatePost appends a reply to a topic. The post's forumid must agree
// with the topic's; counter bumps on the topic, forum, and author profile
// ride the same transaction.
func (s *Store) CreatePost(ctx context.Context, p *Post) error {
	now := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		topic, err := s.lockTopic(ctx, tx, p.TopicID)
		if err != nil {
			return err
		}
		if topic.Status {
			// Tombstoned topics are hidden; posting into one would
			// resurrect it in the counters without restoring the row.
			return fmt.Errorf("topic %d: %w", p.TopicID, ErrNotFound)
		}
		if topic.Closed {
			return fmt.Errorf("topic %d is closed: %w", p.TopicID, ErrTopicClosed)
		}
		if p.ForumID == 0 {
			p.ForumID = topic.ForumID
		}
		ref := schema.PostRef{
			ForumID: p.ForumID,
			TopicID: p.TopicID,
		}
		topicRef := schema.TopicRef{
			TopicID: topic.TopicID,
			ForumID: topic.ForumID,
			Type:    topic.Type,
		}
		if err := schema.ValidatePostInTopic(ref, topicRef); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`parentid`, `forumid`, `topicid`, `userid`, `title`, `body`, `created`, `modified`, `status`, `private`, `root`, `name`, `email`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			s.names.Posts,
		), p.ParentID, p.ForumID, p.TopicID, p.UserID, p.Title, p.Body, now, now, p.Status, p.Private, p.RootID, "", "")
		if err != nil {
			return err
		}
		p.PostID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		p.Created = now
		p.Modified = now

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `posts` = `posts` + 1, `last_post` = ?, `modified` = ? WHERE `topicid` = ?",
			s.names.Topics,
		), p.PostID, now, p.TopicID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `posts` = `posts` + 1, `last_postid` = ?, `last_topicid` = ?, `last_userid` = ?, `last_post_date` = ? WHERE `forumid` = ?",
			s.names.Forums,
		), p.PostID, p.TopicID, p.UserID, now, p.ForumID)
		if err != nil {
			return err
		}

		// Posts with a parent are comments in the threaded layouts;
		// they count in both profile columns.
		profileBump := "`posts` = `posts` + 1"
		if p.ParentID > 0 {
			profileBump += ", `comments` = `comments` + 1"
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET %s WHERE `userid` = ?",
			s.names.Profiles, profileBump,
		), p.UserID)
		return err
	})
}

// GetPost fetches a post by id.
func (s *Store) GetPost(ctx context.Context, postID int64) (*Post, error) {
	return s.scanPost(s.db.QueryRowContext(ctx, s.postSelect()+" WHERE `postid` = ?", postID))
}

// ListPosts pages through the posts of a topic in creation order. The
// (topicid, status) filter rides the topicid_status key.
func (s *Store) ListPosts(ctx context.Context, topicID int64, status bool, limit, offset int) ([]Post, error) {
	query := s.postSelect() + " WHERE `topicid` = ? AND `status` = ? ORDER BY `created` ASC, `postid` ASC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, topicID, status, limit, offset)
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

// Replies lists the direct children of one post within a topic, riding
// the topicid_parentid key.
func (s *Store) Replies(ctx context.Context, topicID, parentID int64) ([]Post, error) {
	query := s.postSelect() + " WHERE `topicid` = ? AND `parentid` = ? ORDER BY `created` ASC, `postid` ASC"
	rows, err := s.db.QueryContext(ctx, query, topicID, parentID)
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

// Answers lists the accepted answers of a topic, riding the
// topicid_solved key.
func (s *Store) Answers(ctx context.Context, topicID int64) ([]Post, error) {
	query := s.postSelect() + " WHERE `topicid` = ? AND `is_answer` = 1 ORDER BY `created` ASC"
	rows, err := s.db.QueryContext(ctx, query, topicID)
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

// EditPost replaces a post body, refreshing the modified stamp. Revision
// bookkeeping is the caller's concern, see AddRevision.
func (s *Store) EditPost(ctx context.Context, postID int64, title, body string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `title` = ?, `body` = ?, `modified` = ? WHERE `postid` = ?",
		s.names.Posts,
	), title, body, time.Now(), postID)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// SetPostStatus tombstones or restores a post and keeps the topic, forum,
// and author counters consistent. The first post of a topic cannot be
// tombstoned on its own; tombstone the topic instead.
func (s *Store) SetPostStatus(ctx context.Context, postID int64, status bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var p Post
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT `parentid`, `forumid`, `topicid`, `userid`, `is_first_post`, `status` FROM `%s` WHERE `postid` = ? FOR UPDATE",
			s.names.Posts,
		), postID).Scan(&p.ParentID, &p.ForumID, &p.TopicID, &p.UserID, &p.IsFirstPost, &p.Status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if p.Status == status {
			return nil
		}
		if p.IsFirstPost && status {
			return fmt.Errorf("post %d: %w", postID, schema.ErrNotFirstPost)
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `status` = ? WHERE `postid` = ?",
			s.names.Posts,
		), status, postID)
		if err != nil {
			return err
		}

		delta := "+ 1"
		if status {
			delta = "- 1"
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `posts` = `posts` %s WHERE `topicid` = ?",
			s.names.Topics, delta,
		), p.TopicID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `posts` = `posts` %s WHERE `forumid` = ?",
			s.names.Forums, delta,
		), p.ForumID)
		if err != nil {
			return err
		}

		profileBump := fmt.Sprintf("`posts` = `posts` %s", delta)
		if p.ParentID > 0 {
			profileBump += fmt.Sprintf(", `comments` = `comments` %s", delta)
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET %s WHERE `userid` = ?",
			s.names.Profiles, profileBump,
		), p.UserID)
		return err
	})
}

// MarkAnswer flags a post as the accepted answer of a question topic,
// marks the topic solved, and credits the post author. Marking a post in
// a discussion topic fails with ErrAnswerOnDiscussion.
func (s *Store) MarkAnswer(ctx context.Context, postID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var topicID, userID int64
		var isAnswer bool
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT `topicid`, `userid`, `is_answer` FROM `%s` WHERE `postid` = ? FOR UPDATE",
			s.names.Posts,
		), postID).Scan(&topicID, &userID, &isAnswer)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if isAnswer {
			return nil
		}

		topic, err := s.lockTopic(ctx, tx, topicID)
		if err != nil {
			return err
		}
		if !topic.Type.AllowsAnswers() {
			return fmt.Errorf("topic %d: %w", topicID, schema.ErrAnswerOnDiscussion)
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `is_answer` = 1 WHERE `postid` = ?",
			s.names.Posts,
		), postID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `answers` = `answers` + 1, `solved` = 1 WHERE `topicid` = ?",
			s.names.Topics,
		), topicID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `answers` = `answers` + 1 WHERE `userid` = ?",
			s.names.Profiles,
		), userID)
		return err
	})
}

// lockTopic reads a topic row under FOR UPDATE inside tx.
func (s *Store) lockTopic(ctx context.Context, tx *sql.Tx, topicID int64) (*Topic, error) {
	var t Topic
	err := tx.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `topicid`, `forumid`, `first_postid`, `userid`, `type`, `closed`, `status` FROM `%s` WHERE `topicid` = ? FOR UPDATE",
		s.names.Topics,
	), topicID).Scan(&t.TopicID, &t.ForumID, &t.FirstPostID, &t.UserID, &t.Type, &t.Closed, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %d: %w", topicID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) postSelect() string {
	return fmt.Sprintf(
		"SELECT `postid`, `parentid`, `forumid`, `topicid`, `userid`, COALESCE(`title`, ''), COALESCE(`body`, ''), `created`, `modified`, `likes`, `votes`, `is_answer`, `is_first_post`, `status`, `private`, `root` FROM `%s`",
		s.names.Posts,
	)
}

func (s *Store) scanPost(row rowScanner) (*Post, error) {
	p, err := s.scanPostRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *Store) scanPostRow(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.PostID, &p.ParentID, &p.ForumID, &p.TopicID, &p.UserID, &p.Title,
		&p.Body, &p.Created, &p.Modified, &p.Likes, &p.Votes, &p.IsAnswer,
		&p.IsFirstPost, &p.Status, &p.Private, &p.RootID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
