package schema

import "testing"

func TestParseItemType(t *testing.T) {
	for _, s := range []string{"forum", "topic", "post"} {
		it, err := ParseItemType(s)
		if err != nil {
			t.Errorf("ParseItemType(%q) failed: %v", s, err)
		}
		if string(it) != s {
			t.Errorf("ParseItemType(%q) = %q", s, it)
		}
	}

	if _, err := ParseItemType("comment"); err == nil {
		t.Error("expected error for unknown item type")
	}
	if _, err := ParseItemType(""); err == nil {
		t.Error("expected error for empty item type")
	}
}

func TestTopicTypeAllowsAnswers(t *testing.T) {
	if TopicDiscussion.AllowsAnswers() {
		t.Error("discussions should not allow answers")
	}
	if !TopicQuestion.AllowsAnswers() {
		t.Error("questions should allow answers")
	}
}
