//go:build integration
// +build integration

package forodb_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/forodb/forodb/pkg/ddl"
	"github.com/forodb/forodb/pkg/schema"
	"github.com/forodb/forodb/pkg/store"
)

// setupTestDB creates a MySQL container and returns connection details
func setupTestDB(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("testuser"),
		mysql.WithPassword("testpass"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}

	// parseTime maps DATETIME columns onto time.Time; the sql_mode
	// override permits the zero-date column defaults the schema carries.
	connStr, err := container.ConnectionString(ctx,
		"parseTime=true",
		"sql_mode=%27NO_ENGINE_SUBSTITUTION%27",
	)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return connStr, cleanup
}

// installSchema opens a handle and creates all sixteen tables
func installSchema(t *testing.T, connStr string) *sql.DB {
	ctx := context.Background()

	db, err := sql.Open("mysql", connStr)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))

	installer := ddl.NewInstaller(db, ddl.Options{})
	require.NoError(t, installer.EnsureSchema(ctx))
	return db
}

// seedBoard creates a forum, an author profile, and a topic with one reply
func seedBoard(t *testing.T, st *store.Store) (*store.Forum, *store.Topic, *store.Post) {
	ctx := context.Background()

	require.NoError(t, st.CreateProfile(ctx, &store.Profile{UserID: 1, Username: "alice", Title: "member", GroupID: 1}))
	require.NoError(t, st.CreateProfile(ctx, &store.Profile{UserID: 2, Username: "bob", Title: "member", GroupID: 1}))

	forum := &store.Forum{Title: "General", Slug: "general"}
	require.NoError(t, st.CreateForum(ctx, forum))

	topic := &store.Topic{ForumID: forum.ForumID, UserID: 1, Title: "Welcome thread", Slug: "welcome-thread"}
	first, err := st.CreateTopic(ctx, topic, "Welcome everyone to the board.")
	require.NoError(t, err)

	reply := &store.Post{TopicID: topic.TopicID, UserID: 2, Title: "RE: Welcome thread", Body: "Happy to be here."}
	require.NoError(t, st.CreatePost(ctx, reply))

	return forum, topic, first
}

func TestInstallIsIdempotent(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()

	installer := ddl.NewInstaller(db, ddl.Options{})

	// Second run must be a no-op, not an error.
	require.NoError(t, installer.EnsureSchema(ctx))

	installed, err := installer.InstalledTables(ctx)
	require.NoError(t, err)
	require.Len(t, installed, 16)
	for table, ok := range installed {
		require.True(t, ok, "table %s missing after install", table)
	}
}

func TestCreateTopicLinkageAndCounters(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	forum, topic, first := seedBoard(t, st)

	require.True(t, first.IsFirstPost)
	require.Equal(t, first.PostID, topic.FirstPostID)

	got, err := st.GetTopic(ctx, topic.TopicID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Posts)
	require.Equal(t, first.PostID, got.FirstPostID)

	f, err := st.GetForum(ctx, forum.ForumID)
	require.NoError(t, err)
	require.Equal(t, int64(1), f.Topics)
	require.Equal(t, int64(2), f.Posts)
	require.NotEqual(t, int64(0), f.LastPostID)

	alice, err := st.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.Posts)

	broken, err := st.VerifyLinkage(ctx)
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestDuplicateSlugRejected(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	require.NoError(t, st.CreateForum(ctx, &store.Forum{Title: "General", Slug: "general"}))

	err := st.CreateForum(ctx, &store.Forum{Title: "General Two", Slug: "general"})
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestReplyToWrongForumRejected(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, _ := seedBoard(t, st)

	other := &store.Forum{Title: "Offtopic", Slug: "offtopic"}
	require.NoError(t, st.CreateForum(ctx, other))

	err := st.CreatePost(ctx, &store.Post{
		TopicID: topic.TopicID,
		ForumID: other.ForumID,
		UserID:  2,
		Body:    "posted into the wrong forum",
	})
	require.ErrorIs(t, err, schema.ErrForumMismatch)
}

func TestConcurrentLikeToggleSettlesOnOneRow(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, _, first := seedBoard(t, st)

	// The same user hammers the toggle concurrently. Whatever interleaving
	// the engine picks, the row count and the counter must agree at the end.
	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if _, err := st.ToggleLike(ctx, 2, first.PostID); err != nil && !errors.Is(err, store.ErrRetryable) {
					t.Errorf("ToggleLike: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	var rowCount int64
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM `wpforo_likes` WHERE `userid` = 2 AND `postid` = ?", first.PostID,
	).Scan(&rowCount))
	require.LessOrEqual(t, rowCount, int64(1), "unique key must cap likes at one row per pair")

	post, err := st.GetPost(ctx, first.PostID)
	require.NoError(t, err)
	require.Equal(t, rowCount, post.Likes, "likes counter must match the rows")
}

func TestConcurrentVotesAllCount(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, first := seedBoard(t, st)

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		userID := int64(100 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := st.ToggleVote(ctx, userID, first.PostID, 1)
				if err == nil {
					return
				}
				if errors.Is(err, store.ErrRetryable) {
					continue
				}
				t.Errorf("ToggleVote: %v", err)
				return
			}
		}()
	}
	wg.Wait()

	post, err := st.GetPost(ctx, first.PostID)
	require.NoError(t, err)
	require.Equal(t, int64(voters), post.Votes, "every distinct voter must count")

	// Votes on the first post mirror onto the topic.
	got, err := st.GetTopic(ctx, topic.TopicID)
	require.NoError(t, err)
	require.Equal(t, int64(voters), got.Votes)
}

func TestVoteToggleReversesStoredReaction(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, _, first := seedBoard(t, st)

	voted, err := st.ToggleVote(ctx, 50, first.PostID, 1)
	require.NoError(t, err)
	require.True(t, voted)

	// The second toggle removes the stored +1 even though -1 was passed.
	voted, err = st.ToggleVote(ctx, 50, first.PostID, -1)
	require.NoError(t, err)
	require.False(t, voted)

	post, err := st.GetPost(ctx, first.PostID)
	require.NoError(t, err)
	require.Equal(t, int64(0), post.Votes)
}

func TestViewTopicCountsEachUserOnce(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, _ := seedBoard(t, st)

	first, err := st.ViewTopic(ctx, 2, topic.TopicID)
	require.NoError(t, err)
	require.True(t, first)

	again, err := st.ViewTopic(ctx, 2, topic.TopicID)
	require.NoError(t, err)
	require.False(t, again)

	got, err := st.GetTopic(ctx, topic.TopicID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Views)
}

func TestFulltextSearchScopes(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, _ := seedBoard(t, st)

	post := &store.Post{
		TopicID: topic.TopicID,
		UserID:  2,
		Title:   "Kubernetes deployment checklist",
		Body:    "Remember liveness probes before rollout.",
	}
	require.NoError(t, st.CreatePost(ctx, post))

	// Word only in the title.
	hits, err := st.SearchPosts(ctx, store.ScopeTitle, "kubernetes", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, post.PostID, hits[0].PostID)

	hits, err = st.SearchPosts(ctx, store.ScopeBody, "kubernetes", 10)
	require.NoError(t, err)
	require.Empty(t, hits)

	// Word only in the body.
	hits, err = st.SearchPosts(ctx, store.ScopeBody, "liveness", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Combined scope sees both.
	for _, term := range []string{"kubernetes", "liveness"} {
		hits, err = st.SearchPosts(ctx, store.ScopeTitleBody, term, 10)
		require.NoError(t, err)
		require.Len(t, hits, 1, "combined scope should match %q", term)
	}
}

func TestQuestionAnswerFlow(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	require.NoError(t, st.CreateProfile(ctx, &store.Profile{UserID: 1, Username: "alice", GroupID: 1}))
	require.NoError(t, st.CreateProfile(ctx, &store.Profile{UserID: 2, Username: "bob", GroupID: 1}))

	forum := &store.Forum{Title: "Help", Slug: "help"}
	require.NoError(t, st.CreateForum(ctx, forum))

	question := &store.Topic{ForumID: forum.ForumID, UserID: 1, Title: "How to tune fulltext indexes", Slug: "tune-fulltext", Type: schema.TopicQuestion}
	_, err := st.CreateTopic(ctx, question, "Searches feel slow, what should I check first?")
	require.NoError(t, err)

	answer := &store.Post{TopicID: question.TopicID, UserID: 2, Body: "Check innodb_ft_min_token_size."}
	require.NoError(t, st.CreatePost(ctx, answer))

	require.NoError(t, st.MarkAnswer(ctx, answer.PostID))

	got, err := st.GetTopic(ctx, question.TopicID)
	require.NoError(t, err)
	require.True(t, got.Solved)
	require.Equal(t, int64(1), got.Answers)

	bob, err := st.GetProfile(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), bob.Answers)

	// Marking an answer in a discussion topic must fail.
	discussion := &store.Topic{ForumID: forum.ForumID, UserID: 1, Title: "Random chatter", Slug: "random-chatter"}
	chatFirst, err := st.CreateTopic(ctx, discussion, "Anything goes here.")
	require.NoError(t, err)
	require.ErrorIs(t, st.MarkAnswer(ctx, chatFirst.PostID), schema.ErrAnswerOnDiscussion)
}

func TestSubscriptionLifecycle(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, _ := seedBoard(t, st)

	sub := &store.Subscription{ItemID: topic.TopicID, Type: schema.ItemTopic, UserID: 2, UserEmail: "bob@example.com"}
	require.NoError(t, st.Subscribe(ctx, sub))
	require.Len(t, sub.ConfirmKey, 32)

	// Re-subscribing hands back the same row and key.
	again := &store.Subscription{ItemID: topic.TopicID, Type: schema.ItemTopic, UserID: 2, UserEmail: "bob@example.com"}
	require.NoError(t, st.Subscribe(ctx, again))
	require.Equal(t, sub.SubID, again.SubID)
	require.Equal(t, sub.ConfirmKey, again.ConfirmKey)

	require.NoError(t, st.Confirm(ctx, sub.ConfirmKey))

	subs, err := st.Subscribers(ctx, topic.TopicID, schema.ItemTopic)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.True(t, subs[0].Active)

	require.NoError(t, st.Unsubscribe(ctx, sub.ConfirmKey))
	require.ErrorIs(t, st.Confirm(ctx, sub.ConfirmKey), store.ErrNotFound)
}

func TestTagCounting(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	const uses = 10
	var wg sync.WaitGroup
	for i := 0; i < uses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := st.EnsureTag(ctx, "golang")
				if err == nil || !errors.Is(err, store.ErrRetryable) {
					if err != nil {
						t.Errorf("EnsureTag: %v", err)
					}
					return
				}
			}
		}()
	}
	wg.Wait()

	tag, err := st.TagByName(ctx, "golang")
	require.NoError(t, err)
	require.Equal(t, int64(uses), tag.Count, "concurrent first uses must converge on one row")

	require.NoError(t, st.ReleaseTag(ctx, "golang"))
	tag, err = st.TagByName(ctx, "golang")
	require.NoError(t, err)
	require.Equal(t, int64(uses-1), tag.Count)
}

func TestReconcileCorrectsDrift(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	forum, topic, _ := seedBoard(t, st)

	// Nothing to correct on a healthy board.
	report, err := st.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), report.Total())

	// Simulate an out-of-band writer breaking the counters.
	_, err = db.ExecContext(ctx, "UPDATE `wpforo_forums` SET `posts` = 99 WHERE `forumid` = ?", forum.ForumID)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE `wpforo_topics` SET `posts` = 0 WHERE `topicid` = ?", topic.TopicID)
	require.NoError(t, err)

	report, err = st.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), report.ForumPosts)
	require.Equal(t, int64(1), report.TopicPosts)

	f, err := st.GetForum(ctx, forum.ForumID)
	require.NoError(t, err)
	require.Equal(t, int64(2), f.Posts)
}

func TestTombstoneKeepsCountersConsistent(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	forum, topic, first := seedBoard(t, st)

	reply := &store.Post{TopicID: topic.TopicID, UserID: 2, ParentID: first.PostID, Body: "A second reply for tombstoning."}
	require.NoError(t, st.CreatePost(ctx, reply))

	author, err := st.GetProfile(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), author.Posts)
	require.Equal(t, int64(1), author.Comments, "a reply with a parent counts as a comment")

	require.NoError(t, st.SetPostStatus(ctx, reply.PostID, true))

	got, err := st.GetTopic(ctx, topic.TopicID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Posts)

	// The author's counters move in the same transaction.
	author, err = st.GetProfile(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), author.Posts)
	require.Equal(t, int64(0), author.Comments)

	// The post row survives as a tombstone.
	hidden, err := st.GetPost(ctx, reply.PostID)
	require.NoError(t, err)
	require.True(t, hidden.Status)

	// First posts cannot be tombstoned on their own.
	require.ErrorIs(t, st.SetPostStatus(ctx, first.PostID, true), schema.ErrNotFirstPost)

	// Tombstoning the topic removes it from the forum counter.
	require.NoError(t, st.SetTopicStatus(ctx, topic.TopicID, true))
	f, err := st.GetForum(ctx, forum.ForumID)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.Topics)

	// A tombstoned topic no longer accepts posts.
	late := &store.Post{TopicID: topic.TopicID, UserID: 2, Body: "Too late."}
	require.ErrorIs(t, st.CreatePost(ctx, late), store.ErrNotFound)

	// Reconcile finds nothing to correct: the write path already kept
	// every counter consistent with the tombstone view of the world.
	report, err := st.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), report.Total())
}

func TestVisitTrackingUpserts(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, _ := seedBoard(t, st)

	for i := 0; i < 3; i++ {
		require.NoError(t, st.TrackVisit(ctx, 2, "bob", "10.0.0.7", topic.ForumID, topic.TopicID))
	}

	var rows int64
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM `wpforo_visits` WHERE `userid` = 2",
	).Scan(&rows))
	require.Equal(t, int64(1), rows, "repeat visits must update in place")

	n, err := st.OnlineCount(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestPhrasesRoundTrip(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	langID, err := st.AddLanguage(ctx, "English")
	require.NoError(t, err)

	require.NoError(t, st.SetPhrase(ctx, langID, "welcome", "Welcome"))
	require.NoError(t, st.SetPhrase(ctx, langID, "welcome", "Welcome back"))

	value, err := st.Phrase(ctx, langID, "welcome")
	require.NoError(t, err)
	require.Equal(t, "Welcome back", value)

	all, err := st.PhrasesForLanguage(ctx, langID)
	require.NoError(t, err)
	require.Len(t, all, 1)

	// Duplicate language names are rejected by the unique key.
	_, err = st.AddLanguage(ctx, "English")
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestActivityLogLifecycle(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, topic, first := seedBoard(t, st)

	bad := &store.ActivityEntry{Type: "new_topic", ItemID: topic.TopicID, ItemType: "thread", UserID: 1}
	require.Error(t, st.LogActivity(ctx, bad))

	entries := []*store.ActivityEntry{
		{Type: "new_topic", ItemID: topic.TopicID, ItemType: schema.ItemTopic, UserID: 1, Content: "Welcome thread", New: true},
		{Type: "new_reply", ItemID: first.PostID, ItemType: schema.ItemPost, SecondItemID: topic.TopicID, UserID: 2, Content: "Happy to be here.", New: true},
		{Type: "new_reply", ItemID: first.PostID, ItemType: schema.ItemPost, SecondItemID: topic.TopicID, UserID: 1, Content: "Glad you joined.", New: true},
	}
	for _, e := range entries {
		require.NoError(t, st.LogActivity(ctx, e))
		require.NotZero(t, e.ID)
		require.NotZero(t, e.Date, "a zero date is stamped on insert")
	}

	replies, err := st.ActivityForItem(ctx, "new_reply", first.PostID, schema.ItemPost, 10)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	require.Equal(t, entries[2].ID, replies[0].ID, "newest entry comes first")

	mine, err := st.ActivityForItemByUser(ctx, "new_reply", first.PostID, schema.ItemPost, 2, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Happy to be here.", mine[0].Content)

	unread, err := st.UnreadActivity(ctx, 1, schema.ItemPost, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	cleared, err := st.MarkActivityRead(ctx, 1, schema.ItemPost)
	require.NoError(t, err)
	require.Equal(t, int64(1), cleared)

	unread, err = st.UnreadActivity(ctx, 1, schema.ItemPost, 10)
	require.NoError(t, err)
	require.Empty(t, unread)

	// Clearing is idempotent; the topic entry is untouched.
	cleared, err = st.MarkActivityRead(ctx, 1, schema.ItemPost)
	require.NoError(t, err)
	require.Zero(t, cleared)
	unread, err = st.UnreadActivity(ctx, 1, schema.ItemTopic, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	pruned, err := st.PruneActivity(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(3), pruned)
}

func TestRevisionVersionsAreSequential(t *testing.T) {
	connStr, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	db := installSchema(t, connStr)
	defer db.Close()
	st := store.New(db, schema.TableNames{})

	_, _, first := seedBoard(t, st)

	for i := 1; i <= 3; i++ {
		rev := &store.Revision{UserID: 1, TextareaID: "postbody", PostID: first.PostID, Body: fmt.Sprintf("edit %d", i)}
		require.NoError(t, st.AddRevision(ctx, rev))
		require.Equal(t, int64(i), rev.Version)
	}

	revs, err := st.Revisions(ctx, first.PostID, "postbody")
	require.NoError(t, err)
	require.Len(t, revs, 3)
	require.Equal(t, int64(3), revs[0].Version)
}
