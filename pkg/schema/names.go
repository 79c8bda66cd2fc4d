package schema

import "fmt"

// DefaultPrefix is the table prefix used by stock deployments.
const DefaultPrefix = "wpforo_"

// TableNames maps the logical table names to their physical names, so
// deployments can namespace tables per site or installation.
type TableNames struct {
	Forums        string
	Topics        string
	Posts         string
	Profiles      string
	Usergroups    string
	Languages     string
	Phrases       string
	Likes         string
	Views         string
	Votes         string
	Accesses      string
	Subscribes    string
	Visits        string
	Activity      string
	PostRevisions string
	Tags          string
}

// DefaultNames returns the table-name mapping for the given prefix.
// An empty prefix uses DefaultPrefix.
func DefaultNames(prefix string) TableNames {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return TableNames{
		Forums:        prefix + "forums",
		Topics:        prefix + "topics",
		Posts:         prefix + "posts",
		Profiles:      prefix + "profiles",
		Usergroups:    prefix + "usergroups",
		Languages:     prefix + "languages",
		Phrases:       prefix + "phrases",
		Likes:         prefix + "likes",
		Views:         prefix + "views",
		Votes:         prefix + "votes",
		Accesses:      prefix + "accesses",
		Subscribes:    prefix + "subscribes",
		Visits:        prefix + "visits",
		Activity:      prefix + "activity",
		PostRevisions: prefix + "post_revisions",
		Tags:          prefix + "tags",
	}
}

// Physical resolves a logical table name to its physical name.
func (n TableNames) Physical(logical string) (string, error) {
	switch logical {
	case "forums":
		return n.Forums, nil
	case "topics":
		return n.Topics, nil
	case "posts":
		return n.Posts, nil
	case "profiles":
		return n.Profiles, nil
	case "usergroups":
		return n.Usergroups, nil
	case "languages":
		return n.Languages, nil
	case "phrases":
		return n.Phrases, nil
	case "likes":
		return n.Likes, nil
	case "views":
		return n.Views, nil
	case "votes":
		return n.Votes, nil
	case "accesses":
		return n.Accesses, nil
	case "subscribes":
		return n.Subscribes, nil
	case "visits":
		return n.Visits, nil
	case "activity":
		return n.Activity, nil
	case "post_revisions":
		return n.PostRevisions, nil
	case "tags":
		return n.Tags, nil
	}
	return "", fmt.Errorf("unknown logical table name %q", logical)
}
