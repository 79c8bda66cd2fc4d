package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/forodb/forodb/pkg/schema"
)

// newConfirmKey mints the 32-character opaque token a confirmation link
// carries. A bare UUID with the dashes stripped fits the column exactly.
func newConfirmKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Subscribe registers a user or bare email for notifications on a forum
// or topic. Re-subscribing the same (item, type, user, email) tuple is
// absorbed by the unique group key and hands back the existing
// subscription instead of a second row.
func (s *Store) Subscribe(ctx context.Context, sub *Subscription) error {
	if !sub.Type.Valid() || sub.Type == schema.ItemPost {
		return fmt.Errorf("cannot subscribe to item type %q", sub.Type)
	}
	sub.ConfirmKey = newConfirmKey()
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`itemid`, `type`, `confirmkey`, `userid`, `active`, `user_name`, `user_email`) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.names.Subscribes,
	), sub.ItemID, sub.Type, sub.ConfirmKey, sub.UserID, sub.Active, sub.UserName, sub.UserEmail)
	if isDuplicate(err) {
		existing, lookupErr := s.subscriptionByGroup(ctx, sub)
		if lookupErr != nil {
			return lookupErr
		}
		*sub = *existing
		return nil
	}
	if err != nil {
		return classify(err)
	}
	sub.SubID, err = res.LastInsertId()
	return err
}

// Confirm activates the subscription behind a confirmation key.
func (s *Store) Confirm(ctx context.Context, confirmKey string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `active` = 1 WHERE `confirmkey` = ?",
		s.names.Subscribes,
	), confirmKey)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// Unsubscribe removes the subscription behind a confirmation key. The
// row goes away physically; there is no tombstone state for
// subscriptions.
func (s *Store) Unsubscribe(ctx context.Context, confirmKey string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `confirmkey` = ?",
		s.names.Subscribes,
	), confirmKey)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// Subscribers lists the active subscriptions on one item, riding the
// itemid key.
func (s *Store) Subscribers(ctx context.Context, itemID int64, itemType schema.ItemType) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, s.subscriptionSelect()+
		" WHERE `itemid` = ? AND `type` = ? AND `active` = 1", itemID, itemType)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// SubscriptionByKey resolves a confirmation key to its subscription.
func (s *Store) SubscriptionByKey(ctx context.Context, confirmKey string) (*Subscription, error) {
	sub, err := scanSubscription(s.db.QueryRowContext(ctx,
		s.subscriptionSelect()+" WHERE `confirmkey` = ?", confirmKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sub, err
}

func (s *Store) subscriptionByGroup(ctx context.Context, sub *Subscription) (*Subscription, error) {
	existing, err := scanSubscription(s.db.QueryRowContext(ctx, s.subscriptionSelect()+
		" WHERE `itemid` = ? AND `type` = ? AND `userid` = ? AND `user_email` = ?",
		sub.ItemID, sub.Type, sub.UserID, sub.UserEmail))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return existing, err
}

func (s *Store) subscriptionSelect() string {
	return fmt.Sprintf(
		"SELECT `subid`, `itemid`, `type`, `confirmkey`, `userid`, `active`, `user_name`, `user_email` FROM `%s`",
		s.names.Subscribes,
	)
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var sub Subscription
	err := row.Scan(
		&sub.SubID, &sub.ItemID, &sub.Type, &sub.ConfirmKey,
		&sub.UserID, &sub.Active, &sub.UserName, &sub.UserEmail,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
