package store

import (
	"context"
	"fmt"
)

// ReconcileReport counts the rows whose denormalized counters were
// corrected, per counter.
type ReconcileReport struct {
	TopicPosts      int64 `json:"topic_posts"`
	ForumTopics     int64 `json:"forum_topics"`
	ForumPosts      int64 `json:"forum_posts"`
	PostLikes       int64 `json:"post_likes"`
	TopicViews      int64 `json:"topic_views"`
	ProfilePosts    int64 `json:"profile_posts"`
	ProfileComments int64 `json:"profile_comments"`
}

// Total returns the number of corrected rows across all counters.
func (r ReconcileReport) Total() int64 {
	return r.TopicPosts + r.ForumTopics + r.ForumPosts + r.PostLikes + r.TopicViews + r.ProfilePosts + r.ProfileComments
}

// Reconcile recomputes every denormalized counter from the rows it
// summarizes and rewrites the ones that drifted. Counter drift is
// expected on shared storage where other writers bypass this package;
// reconciliation is the recovery path, run offline or during quiet
// periods since it scans the content tables.
//
// Live rows are the ones with status 0; tombstoned content does not
// count.
func (s *Store) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	var report ReconcileReport

	steps := []struct {
		target *int64
		query  string
	}{
		{&report.TopicPosts, fmt.Sprintf(
			"UPDATE `%[1]s` t LEFT JOIN (SELECT `topicid`, COUNT(*) n FROM `%[2]s` WHERE `status` = 0 GROUP BY `topicid`) p ON p.`topicid` = t.`topicid` SET t.`posts` = COALESCE(p.n, 0) WHERE t.`posts` <> COALESCE(p.n, 0)",
			s.names.Topics, s.names.Posts)},
		{&report.ForumTopics, fmt.Sprintf(
			"UPDATE `%[1]s` f LEFT JOIN (SELECT `forumid`, COUNT(*) n FROM `%[2]s` WHERE `status` = 0 GROUP BY `forumid`) t ON t.`forumid` = f.`forumid` SET f.`topics` = COALESCE(t.n, 0) WHERE f.`topics` <> COALESCE(t.n, 0)",
			s.names.Forums, s.names.Topics)},
		{&report.ForumPosts, fmt.Sprintf(
			"UPDATE `%[1]s` f LEFT JOIN (SELECT `forumid`, COUNT(*) n FROM `%[2]s` WHERE `status` = 0 GROUP BY `forumid`) p ON p.`forumid` = f.`forumid` SET f.`posts` = COALESCE(p.n, 0) WHERE f.`posts` <> COALESCE(p.n, 0)",
			s.names.Forums, s.names.Posts)},
		{&report.PostLikes, fmt.Sprintf(
			"UPDATE `%[1]s` p LEFT JOIN (SELECT `postid`, COUNT(*) n FROM `%[2]s` GROUP BY `postid`) l ON l.`postid` = p.`postid` SET p.`likes` = COALESCE(l.n, 0) WHERE p.`likes` <> COALESCE(l.n, 0)",
			s.names.Posts, s.names.Likes)},
		{&report.TopicViews, fmt.Sprintf(
			"UPDATE `%[1]s` t LEFT JOIN (SELECT `topicid`, COUNT(*) n FROM `%[2]s` GROUP BY `topicid`) v ON v.`topicid` = t.`topicid` SET t.`views` = COALESCE(v.n, 0) WHERE t.`views` <> COALESCE(v.n, 0)",
			s.names.Topics, s.names.Views)},
		{&report.ProfilePosts, fmt.Sprintf(
			"UPDATE `%[1]s` m LEFT JOIN (SELECT `userid`, COUNT(*) n FROM `%[2]s` WHERE `status` = 0 GROUP BY `userid`) p ON p.`userid` = m.`userid` SET m.`posts` = COALESCE(p.n, 0) WHERE m.`posts` <> COALESCE(p.n, 0)",
			s.names.Profiles, s.names.Posts)},
		{&report.ProfileComments, fmt.Sprintf(
			"UPDATE `%[1]s` m LEFT JOIN (SELECT `userid`, COUNT(*) n FROM `%[2]s` WHERE `status` = 0 AND `parentid` > 0 GROUP BY `userid`) c ON c.`userid` = m.`userid` SET m.`comments` = COALESCE(c.n, 0) WHERE m.`comments` <> COALESCE(c.n, 0)",
			s.names.Profiles, s.names.Posts)},
	}

	for _, step := range steps {
		res, err := s.db.ExecContext(ctx, step.query)
		if err != nil {
			return nil, classify(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		*step.target = n
	}
	return &report, nil
}

// VerifyLinkage scans for topics whose first_postid does not resolve to
// a post flagged is_first_post in the same forum and topic. Returns the
// offending topic ids. An empty result is the healthy state.
func (s *Store) VerifyLinkage(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT t.`topicid` FROM `%[1]s` t LEFT JOIN `%[2]s` p ON p.`postid` = t.`first_postid` WHERE p.`postid` IS NULL OR p.`is_first_post` = 0 OR p.`topicid` <> t.`topicid` OR p.`forumid` <> t.`forumid` ORDER BY t.`topicid`",
		s.names.Topics, s.names.Posts,
	))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var broken []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		broken = append(broken, id)
	}
	return broken, rows.Err()
}
