package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forodb/forodb/pkg/schema"
)

// CreateProfile attaches a forum profile to an external user account.
// The userid is the external account's id, not generated here, so a
// second profile for the same account fails with ErrDuplicate.
func (s *Store) CreateProfile(ctx context.Context, p *Profile) error {
	if p.Status == "" {
		p.Status = schema.ProfileActive
	}
	if err := schema.ValidateProfileStatus(string(p.Status)); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`userid`, `title`, `username`, `groupid`, `status`) VALUES (?, ?, ?, ?, ?)",
		s.names.Profiles,
	), p.UserID, p.Title, p.Username, p.GroupID, p.Status)
	return classify(err)
}

// GetProfile fetches a profile by the external user id.
func (s *Store) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `userid`, `title`, `username`, `groupid`, `posts`, `questions`, `answers`, `comments`, `like`, COALESCE(`status`, '') FROM `%s` WHERE `userid` = ?",
		s.names.Profiles,
	), userID).Scan(
		&p.UserID, &p.Title, &p.Username, &p.GroupID, &p.Posts,
		&p.Questions, &p.Answers, &p.Comments, &p.Likes, &p.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProfileStatus moves a profile through its moderation states. Only
// the enumerated statuses are accepted.
func (s *Store) SetProfileStatus(ctx context.Context, userID int64, status schema.ProfileStatus) error {
	if err := schema.ValidateProfileStatus(string(status)); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE `%s` SET `status` = ? WHERE `userid` = ?",
		s.names.Profiles,
	), status, userID)
	if err != nil {
		return classify(err)
	}
	return requireAffected(res)
}

// AssignGroup moves a profile into a usergroup. The group must exist.
func (s *Store) AssignGroup(ctx context.Context, userID, groupID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, fmt.Sprintf(
			"SELECT 1 FROM `%s` WHERE `groupid` = ?",
			s.names.Usergroups,
		), groupID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("usergroup %d: %w", groupID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			"UPDATE `%s` SET `groupid` = ? WHERE `userid` = ?",
			s.names.Profiles,
		), groupID, userID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// CreateUsergroup registers a permission group. Group names are unique;
// a collision surfaces as ErrDuplicate.
func (s *Store) CreateUsergroup(ctx context.Context, g *Usergroup) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`name`, `cans`, `role`, `visible`, `secondary`) VALUES (?, ?, ?, ?, ?)",
		s.names.Usergroups,
	), g.Name, g.Cans, g.Role, g.Visible, g.Secondary)
	if err != nil {
		return classify(err)
	}
	g.GroupID, err = res.LastInsertId()
	return err
}

// ListUsergroups returns the visible permission groups.
func (s *Store) ListUsergroups(ctx context.Context) ([]Usergroup, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT `groupid`, `name`, `cans`, `role`, `visible`, `secondary` FROM `%s` WHERE `visible` = 1 ORDER BY `groupid` ASC",
		s.names.Usergroups,
	))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var groups []Usergroup
	for rows.Next() {
		var g Usergroup
		if err := rows.Scan(&g.GroupID, &g.Name, &g.Cans, &g.Role, &g.Visible, &g.Secondary); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateAccess registers a named per-forum permission set. The access
// slug is unique.
func (s *Store) CreateAccess(ctx context.Context, a *Access) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO `%s` (`access`, `title`, `cans`) VALUES (?, ?, ?)",
		s.names.Accesses,
	), a.Access, a.Title, a.Cans)
	if err != nil {
		return classify(err)
	}
	a.AccessID, err = res.LastInsertId()
	return err
}

// AccessBySlug resolves a permission set by its unique access slug.
func (s *Store) AccessBySlug(ctx context.Context, access string) (*Access, error) {
	var a Access
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT `accessid`, `access`, `title`, `cans` FROM `%s` WHERE `access` = ?",
		s.names.Accesses,
	), access).Scan(&a.AccessID, &a.Access, &a.Title, &a.Cans)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
