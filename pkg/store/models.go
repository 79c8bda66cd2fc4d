package store

import (
	"time"

	"github.com/forodb/forodb/pkg/schema"
)

// Forum is one node of the forum tree. ParentID 0 marks a root forum.
// Topics and Posts are denormalized counters over the live rows beneath.
type Forum struct {
	ForumID      int64
	Title        string
	Slug         string
	Description  string
	ParentID     int64
	LastTopicID  int64
	LastPostID   int64
	LastUserID   int64
	LastPostDate time.Time
	Topics       int64
	Posts        int64
	Status       bool
	IsCategory   bool
	Order        int64
	Color        string
}

// Topic is one discussion thread.
type Topic struct {
	TopicID     int64
	ForumID     int64
	FirstPostID int64
	UserID      int64
	Title       string
	Slug        string
	Created     time.Time
	Modified    time.Time
	LastPostID  int64
	Posts       int64
	Votes       int64
	Answers     int64
	Views       int64
	Type        schema.TopicType
	Solved      bool
	Closed      bool
	Private     bool
	Status      bool
}

// Post is one message. ParentID threads replies; RootID points at the
// top of the reply chain for deep threads.
type Post struct {
	PostID      int64
	ParentID    int64
	ForumID     int64
	TopicID     int64
	UserID      int64
	Title       string
	Body        string
	Created     time.Time
	Modified    time.Time
	Likes       int64
	Votes       int64
	IsAnswer    bool
	IsFirstPost bool
	Status      bool
	Private     bool
	RootID      *int64
}

// Profile is the forum-side extension of an external user account.
type Profile struct {
	UserID    int64
	Title     string
	Username  string
	GroupID   int64
	Posts     int64
	Questions int64
	Answers   int64
	Comments  int64
	Likes     int64
	Status    schema.ProfileStatus
}

// Usergroup is a named permission group.
type Usergroup struct {
	GroupID   int64
	Name      string
	Cans      string
	Role      string
	Visible   bool
	Secondary bool
}

// Access is a named per-forum permission set.
type Access struct {
	AccessID int64
	Access   string
	Title    string
	Cans     string
}

// Subscription links a user or bare email address to a forum or topic.
type Subscription struct {
	SubID      int64
	ItemID     int64
	Type       schema.ItemType
	ConfirmKey string
	UserID     int64
	Active     bool
	UserName   string
	UserEmail  string
}

// ActivityEntry is one row of the polymorphic event log.
type ActivityEntry struct {
	ID           int64
	Type         string
	ItemID       int64
	ItemType     schema.ItemType
	SecondItemID int64
	UserID       int64
	Name         string
	Email        string
	Date         int64
	Content      string
	Permalink    string
	New          bool
}

// Revision is one saved edit of a post body.
type Revision struct {
	RevisionID int64
	UserID     int64
	TextareaID string
	PostID     int64
	Body       string
	Created    int64
	Version    int64
	Email      string
	URL        string
}

// Tag is one entry of the tag vocabulary with its usage count.
type Tag struct {
	TagID  int64
	Tag    string
	Prefix bool
	Count  int64
}
