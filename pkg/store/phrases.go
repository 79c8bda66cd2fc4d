package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddLanguage registers a translation language. Names are unique.
func (s *Store) AddLanguage(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`name`) VALUES (?)",
		s.names.Languages,
	), name)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// LanguageID resolves a language name to its id.
func (s *Store) LanguageID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `langid` FROM `%s` WHERE `name` = ?",
		s.names.Languages,
	), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// SetPhrase writes one translation string, replacing any existing value
// for the (langid, key) pair through the unique key. The phrases table
// runs on a non-transactional engine, so the upsert is the whole
// operation.
func (s *Store) SetPhrase(ctx context.Context, langID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`langid`, `phrase_key`, `phrase_value`) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE `phrase_value` = VALUES(`phrase_value`)",
		s.names.Phrases,
	), langID, key, value)
	return classify(err)
}

// Phrase looks up one translation string.
func (s *Store) Phrase(ctx context.Context, langID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `phrase_value` FROM `%s` WHERE `langid` = ? AND `phrase_key` = ?",
		s.names.Phrases,
	), langID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// PhrasesForLanguage loads a whole language as a key/value map, riding
// the langid key. Used to warm an in-process cache at startup.
func (s *Store) PhrasesForLanguage(ctx context.Context, langID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT `phrase_key`, `phrase_value` FROM `%s` WHERE `langid` = ?",
		s.names.Phrases,
	), langID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	phrases := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		phrases[key] = value
	}
	return phrases, rows.Err()
}

// DropLanguage removes a language and its phrases. Phrase rows are
// rebuildable from language packages, so this is a physical delete.
func (s *Store) DropLanguage(ctx context.Context, langID int64) error {
	// No transaction here: phrases run on MyISAM, which would ignore
	// the rollback anyway. Delete phrases first so a failure leaves the
	// language row behind as the marker of the partial state.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `langid` = ?",
		s.names.Phrases,
	), langID); err != nil {
		return classify(err)
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `langid` = ?",
		s.names.Languages,
	), langID)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}
