package store

import (
	"context"
	"fmt"
	"time"

	"github.com/forodb/forodb/pkg/schema"
)

// LogActivity appends one row to the event log. The date column carries a
// unix timestamp; a zero Date is stamped with the current time.
func (s *Store) LogActivity(ctx context.Context, e *ActivityEntry) error {
	if !e.ItemType.Valid() {
		return fmt.Errorf("activity item type %q: invalid", e.ItemType)
	}
	if e.Date == 0 {
		e.Date = time.Now().Unix()
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`type`, `itemid`, `itemtype`, `itemid_second`, `userid`, `name`, `email`, `date`, `content`, `permalink`, `new`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.names.Activity,
	), e.Type, e.ItemID, e.ItemType, e.SecondItemID, e.UserID, e.Name, e.Email, e.Date, e.Content, e.Permalink, e.New)
	if err != nil {
		return classify(err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

// ActivityForItem lists log rows for one event type against one item,
// newest first, riding the type_objid_objtype key.
func (s *Store) ActivityForItem(ctx context.Context, eventType string, itemID int64, itemType schema.ItemType, limit int) ([]ActivityEntry, error) {
	query := s.activitySelect() +
		" WHERE `type` = ? AND `itemid` = ? AND `itemtype` = ? ORDER BY `date` DESC, `id` DESC LIMIT ?"
	return s.queryActivity(ctx, query, eventType, itemID, itemType, limit)
}

// ActivityForItemByUser narrows ActivityForItem to one actor, riding
// the type_objid_objtype_userid key.
func (s *Store) ActivityForItemByUser(ctx context.Context, eventType string, itemID int64, itemType schema.ItemType, userID int64, limit int) ([]ActivityEntry, error) {
	query := s.activitySelect() +
		" WHERE `type` = ? AND `itemid` = ? AND `itemtype` = ? AND `userid` = ? ORDER BY `date` DESC, `id` DESC LIMIT ?"
	return s.queryActivity(ctx, query, eventType, itemID, itemType, userID, limit)
}

// UnreadActivity lists the rows still flagged new for one user and item
// kind, riding the itemtype_userid_new key.
func (s *Store) UnreadActivity(ctx context.Context, userID int64, itemType schema.ItemType, limit int) ([]ActivityEntry, error) {
	query := s.activitySelect() +
		" WHERE `itemtype` = ? AND `userid` = ? AND `new` = 1 ORDER BY `date` DESC, `id` DESC LIMIT ?"
	return s.queryActivity(ctx, query, itemType, userID, limit)
}

// MarkActivityRead clears the new flag on a user's rows for one item
// kind. Returns the number of rows cleared.
func (s *Store) MarkActivityRead(ctx context.Context, userID int64, itemType schema.ItemType) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `new` = 0 WHERE `itemtype` = ? AND `userid` = ? AND `new` = 1",
		s.names.Activity,
	), itemType, userID)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// PruneActivity deletes log rows older than the cutoff. The log has no
// tombstone state; pruning is how it stays bounded.
func (s *Store) PruneActivity(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `date` < ?",
		s.names.Activity,
	), before.Unix())
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

func (s *Store) activitySelect() string {
	return fmt.Sprintf(
		"SELECT `id`, `type`, `itemid`, `itemtype`, `itemid_second`, `userid`, `name`, `email`, `date`, COALESCE(`content`, ''), `permalink`, `new` FROM `%s`",
		s.names.Activity,
	)
}

func (s *Store) queryActivity(ctx context.Context, query string, args ...any) ([]ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		err := rows.Scan(
			&e.ID, &e.Type, &e.ItemID, &e.ItemType, &e.SecondItemID,
			&e.UserID, &e.Name, &e.Email, &e.Date, &e.Content,
			&e.Permalink, &e.New,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
