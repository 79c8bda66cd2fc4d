package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureTag registers one use of a tag. The first use inserts the
// vocabulary row with count 1; later uses bump the counter through the
// unique key in a single upsert, so concurrent first uses cannot race
// into two rows.
func (s *Store) EnsureTag(ctx context.Context, tag string) (*Tag, error) {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`tag`, `count`) VALUES (?, 1) ON DUPLICATE KEY UPDATE `count` = `count` + 1",
		s.names.Tags,
	), tag)
	if err != nil {
		return nil, classify(err)
	}
	return s.TagByName(ctx, tag)
}

// ReleaseTag drops one use of a tag. The decrement is guarded so racing
// releases cannot push the unsigned counter below zero; a tag at zero
// stays in the vocabulary until PruneTags.
func (s *Store) ReleaseTag(ctx context.Context, tag string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `count` = `count` - 1 WHERE `tag` = ? AND `count` > 0",
		s.names.Tags,
	), tag)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// TagByName resolves a tag by its unique name.
func (s *Store) TagByName(ctx context.Context, tag string) (*Tag, error) {
	var t Tag
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `tagid`, `tag`, `prefix`, `count` FROM `%s` WHERE `tag` = ?",
		s.names.Tags,
	), tag).Scan(&t.TagID, &t.Tag, &t.Prefix, &t.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PopularTags lists the most used tags.
func (s *Store) PopularTags(ctx context.Context, limit int) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT `tagid`, `tag`, `prefix`, `count` FROM `%s` WHERE `count` > 0 ORDER BY `count` DESC, `tag` ASC LIMIT ?",
		s.names.Tags,
	), limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.TagID, &t.Tag, &t.Prefix, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// PruneTags deletes vocabulary rows whose counter has reached zero.
func (s *Store) PruneTags(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM `%s` WHERE `count` = 0",
		s.names.Tags,
	))
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}
