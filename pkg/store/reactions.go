package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ToggleLike flips a user's like on a post. The insert into likes is the
// atomicity point: the unique (userid, postid) key decides the toggle
// direction, so concurrent calls for the same pair settle on one winner.
// The counter on posts and the `like` tally of the post author move in
// the same transaction as the row. Returns true when the like now exists.
func (s *Store) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	var liked bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var postUserID int64
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT `userid` FROM `%s` WHERE `postid` = ?",
			s.names.Posts,
		), postID).Scan(&postUserID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`userid`, `postid`, `post_userid`) VALUES (?, ?, ?)",
			s.names.Likes,
		), userID, postID, postUserID)
		switch {
		case err == nil:
			liked = true
		case isDuplicate(err):
			// Row already there: this toggle removes it.
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				"DELETE FROM `%s` WHERE `userid` = ? AND `postid` = ?",
				s.names.Likes,
			), userID, postID)
			if err != nil {
				return err
			}
			liked = false
		default:
			return err
		}

		if liked {
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				"UPDATE `%s` SET `likes` = `likes` + 1 WHERE `postid` = ?",
				s.names.Posts,
			), postID)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				"UPDATE `%s` SET `like` = `like` + 1 WHERE `userid` = ?",
				s.names.Profiles,
			), postUserID)
			return err
		}

		// The guards keep a racing double-removal from driving the
		// counters below zero on unsigned columns.
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `likes` = `likes` - 1 WHERE `postid` = ? AND `likes` > 0",
			s.names.Posts,
		), postID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `like` = `like` - 1 WHERE `userid` = ? AND `like` > 0",
			s.names.Profiles,
		), postUserID)
		return err
	})
	return liked, err
}

// ToggleVote records a signed reaction (+1 or -1) on a post, or removes
// it when the same user votes again. Removing reverses the reaction that
// was actually stored, not the one passed in, so an up-then-down sequence
// nets out exactly. Votes on a first post mirror onto the topic's votes
// counter. Returns true when the vote now exists.
func (s *Store) ToggleVote(ctx context.Context, userID, postID int64, reaction int8) (bool, error) {
	if reaction != 1 && reaction != -1 {
		return false, fmt.Errorf("reaction must be +1 or -1, got %d", reaction)
	}
	var voted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var postUserID int64
		var isFirst bool
		var topicID int64
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT `userid`, `is_first_post`, `topicid` FROM `%s` WHERE `postid` = ?",
			s.names.Posts,
		), postID).Scan(&postUserID, &isFirst, &topicID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		delta := reaction
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`userid`, `postid`, `reaction`, `post_userid`) VALUES (?, ?, ?, ?)",
			s.names.Votes,
		), userID, postID, reaction, postUserID)
		switch {
		case err == nil:
			voted = true
		case isDuplicate(err):
			var stored int8
			err = tx.QueryRowContext(ctx, fmt.Sprintf(
				"SELECT `reaction` FROM `%s` WHERE `userid` = ? AND `postid` = ?",
				s.names.Votes,
			), userID, postID).Scan(&stored)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				"DELETE FROM `%s` WHERE `userid` = ? AND `postid` = ?",
				s.names.Votes,
			), userID, postID)
			if err != nil {
				return err
			}
			voted = false
			delta = -stored
		default:
			return err
		}

		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `votes` = `votes` + ? WHERE `postid` = ?",
			s.names.Posts,
		), delta, postID)
		if err != nil {
			return err
		}
		if isFirst {
			_, err = tx.ExecContext(ctx, fmt.Sprintf(
				"UPDATE `%s` SET `votes` = `votes` + ? WHERE `topicid` = ?",
				s.names.Topics,
			), delta, topicID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return voted, err
}

// ViewTopic records that a user has seen a topic. The first sighting of a
// (userid, topicid) pair inserts a row and bumps the topic's view
// counter; later sightings are absorbed by the unique key and change
// nothing. Returns true on the first sighting.
func (s *Store) ViewTopic(ctx context.Context, userID, topicID int64) (bool, error) {
	var first bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, fmt.Sprintf(
			"INSERT INTO `%s` (`userid`, `topicid`, `created`) VALUES (?, ?, ?)",
			s.names.Views,
		), userID, topicID, time.Now().Unix())
		if isDuplicate(err) {
			first = false
			return nil
		}
		if err != nil {
			return err
		}
		first = true
		_, err = tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `views` = `views` + 1 WHERE `topicid` = ?",
			s.names.Topics,
		), topicID)
		return err
	})
	return first, err
}

// TrackVisit upserts a presence row keyed on (userid, ip, forumid,
// topicid). A repeat visit refreshes the timestamp and display name in
// place through the unique tracking key.
func (s *Store) TrackVisit(ctx context.Context, userID int64, name, ip string, forumID, topicID int64) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`userid`, `name`, `ip`, `time`, `forumid`, `topicid`) VALUES (?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE `time` = VALUES(`time`), `name` = VALUES(`name`)",
		s.names.Visits,
	), userID, name, ip, time.Now().Unix(), forumID, topicID)
	return classify(err)
}

// OnlineCount reports distinct visitors seen since the cutoff, riding the
// time key.
func (s *Store) OnlineCount(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM `%s` WHERE `time` >= ?",
		s.names.Visits,
	), since.Unix()).Scan(&n)
	return n, err
}
