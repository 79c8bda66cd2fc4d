package schema

import (
	"errors"
	"fmt"
)

// The storage engine declares no native foreign keys, so referential
// consistency is caller discipline. Validator centralizes those checks so
// every write path applies the same rules.

var (
	// ErrForumMismatch is returned when a post's denormalized forumid
	// does not match the forum of its topic.
	ErrForumMismatch = errors.New("post forumid does not match topic forumid")

	// ErrNotFirstPost is returned when a topic's first_postid resolves to
	// a post without is_first_post set.
	ErrNotFirstPost = errors.New("first_postid does not reference a first post")

	// ErrAnswerOnDiscussion is returned when a post is marked is_answer
	// inside a topic that is not a question.
	ErrAnswerOnDiscussion = errors.New("is_answer requires a question topic")
)

// TopicRef is the subset of a topic row the validator needs.
type TopicRef struct {
	TopicID     int64
	ForumID     int64
	FirstPostID int64
	Type        TopicType
}

// PostRef is the subset of a post row the validator needs.
type PostRef struct {
	PostID      int64
	ForumID     int64
	TopicID     int64
	IsFirstPost bool
	IsAnswer    bool
}

// ValidatePostInTopic checks the cross-table rules between a post and the
// topic it belongs to.
func ValidatePostInTopic(post PostRef, topic TopicRef) error {
	if post.TopicID != topic.TopicID {
		return fmt.Errorf("post %d belongs to topic %d, not %d", post.PostID, post.TopicID, topic.TopicID)
	}
	if post.ForumID != topic.ForumID {
		return fmt.Errorf("post %d: %w (post %d, topic %d)", post.PostID, ErrForumMismatch, post.ForumID, topic.ForumID)
	}
	if post.IsAnswer && !topic.Type.AllowsAnswers() {
		return fmt.Errorf("post %d: %w", post.PostID, ErrAnswerOnDiscussion)
	}
	return nil
}

// ValidateFirstPost checks that a topic's first_postid linkage resolves to
// a post flagged is_first_post with a matching forum.
func ValidateFirstPost(topic TopicRef, first PostRef) error {
	if topic.FirstPostID != first.PostID {
		return fmt.Errorf("topic %d first_postid is %d, got post %d", topic.TopicID, topic.FirstPostID, first.PostID)
	}
	if !first.IsFirstPost {
		return fmt.Errorf("topic %d: %w", topic.TopicID, ErrNotFirstPost)
	}
	return ValidatePostInTopic(first, topic)
}

// ValidateProfileStatus checks the restricted status set of profiles.
func ValidateProfileStatus(status string) error {
	if !ProfileStatus(status).Valid() {
		return fmt.Errorf("invalid profile status %q", status)
	}
	return nil
}
