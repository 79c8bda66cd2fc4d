package schema

import (
	"errors"
	"testing"
)

func TestValidatePostInTopic(t *testing.T) {
	topic := TopicRef{TopicID: 10, ForumID: 3, FirstPostID: 100, Type: TopicDiscussion}

	ok := PostRef{PostID: 101, ForumID: 3, TopicID: 10}
	if err := ValidatePostInTopic(ok, topic); err != nil {
		t.Errorf("valid post rejected: %v", err)
	}

	mismatch := PostRef{PostID: 102, ForumID: 4, TopicID: 10}
	if err := ValidatePostInTopic(mismatch, topic); !errors.Is(err, ErrForumMismatch) {
		t.Errorf("expected ErrForumMismatch, got %v", err)
	}

	wrongTopic := PostRef{PostID: 103, ForumID: 3, TopicID: 11}
	if err := ValidatePostInTopic(wrongTopic, topic); err == nil {
		t.Error("expected error for post in wrong topic")
	}
}

func TestValidatePostInTopicAnswers(t *testing.T) {
	discussion := TopicRef{TopicID: 10, ForumID: 3, Type: TopicDiscussion}
	question := TopicRef{TopicID: 11, ForumID: 3, Type: TopicQuestion}

	answer := PostRef{PostID: 200, ForumID: 3, TopicID: 10, IsAnswer: true}
	if err := ValidatePostInTopic(answer, discussion); !errors.Is(err, ErrAnswerOnDiscussion) {
		t.Errorf("expected ErrAnswerOnDiscussion, got %v", err)
	}

	answer.TopicID = 11
	if err := ValidatePostInTopic(answer, question); err != nil {
		t.Errorf("answer on question rejected: %v", err)
	}
}

func TestValidateFirstPost(t *testing.T) {
	topic := TopicRef{TopicID: 10, ForumID: 3, FirstPostID: 100}

	first := PostRef{PostID: 100, ForumID: 3, TopicID: 10, IsFirstPost: true}
	if err := ValidateFirstPost(topic, first); err != nil {
		t.Errorf("valid first post rejected: %v", err)
	}

	notFlagged := PostRef{PostID: 100, ForumID: 3, TopicID: 10}
	if err := ValidateFirstPost(topic, notFlagged); !errors.Is(err, ErrNotFirstPost) {
		t.Errorf("expected ErrNotFirstPost, got %v", err)
	}

	wrongPost := PostRef{PostID: 101, ForumID: 3, TopicID: 10, IsFirstPost: true}
	if err := ValidateFirstPost(topic, wrongPost); err == nil {
		t.Error("expected error when first_postid does not match")
	}

	wrongForum := PostRef{PostID: 100, ForumID: 4, TopicID: 10, IsFirstPost: true}
	if err := ValidateFirstPost(topic, wrongForum); !errors.Is(err, ErrForumMismatch) {
		t.Errorf("expected ErrForumMismatch, got %v", err)
	}
}

func TestValidateProfileStatus(t *testing.T) {
	for _, status := range []string{"active", "blocked", "trashed", "spamer"} {
		if err := ValidateProfileStatus(status); err != nil {
			t.Errorf("status %q rejected: %v", status, err)
		}
	}
	// The historical misspelling is the canonical value; the corrected
	// spelling is not in the set.
	if err := ValidateProfileStatus("spammer"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := ValidateProfileStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}
