package schema

import "fmt"

// ItemType identifies the entity kind a polymorphic reference points at
// (subscription targets, activity items). Keeping it an enumerated type
// rather than free text gives exhaustiveness over the small fixed set.
type ItemType string

const (
	ItemForum ItemType = "forum"
	ItemTopic ItemType = "topic"
	ItemPost  ItemType = "post"
)

// Valid reports whether the value is one of the known item kinds.
func (t ItemType) Valid() bool {
	switch t {
	case ItemForum, ItemTopic, ItemPost:
		return true
	}
	return false
}

// ParseItemType converts a stored column value into an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown item type %q", s)
	}
	return t, nil
}

// ProfileStatus is the restricted status set of the profiles table.
type ProfileStatus string

const (
	ProfileActive  ProfileStatus = "active"
	ProfileBlocked ProfileStatus = "blocked"
	ProfileTrashed ProfileStatus = "trashed"
	// ProfileSpamer keeps the historical spelling used in existing dumps.
	ProfileSpamer ProfileStatus = "spamer"
)

// Valid reports whether the value is one of the enumerated statuses.
func (s ProfileStatus) Valid() bool {
	switch s {
	case ProfileActive, ProfileBlocked, ProfileTrashed, ProfileSpamer:
		return true
	}
	return false
}

// TopicType is the discussion kind stored in topics.type.
type TopicType int8

const (
	TopicDiscussion TopicType = 0
	TopicQuestion   TopicType = 1
)

// AllowsAnswers reports whether posts in a topic of this type may be
// marked is_answer.
func (t TopicType) AllowsAnswers() bool {
	return t == TopicQuestion
}
