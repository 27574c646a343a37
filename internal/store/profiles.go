package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// GetProfile loads a profile. A missing profile yields defaults, not an error.
func (s *Store) GetProfile(ctx context.Context, userID string) (_ model.Profile, err error) {
	started := time.Now()
	defer func() { s.observe("get_profile", started, err) }()

	var (
		p                    model.Profile
		prefs                string
		createdAt, updatedAt string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name, bio, goals, preferences, created_at, updated_at
		 FROM profiles WHERE id = ?`, userID,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Bio, &p.Goals, &prefs, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{ID: userID, Preferences: model.DefaultPreferences()}, nil
	}
	if err != nil {
		return model.Profile{}, err
	}
	if p.Preferences, err = model.DecodePreferences(prefs); err != nil {
		return model.Profile{}, fmt.Errorf("profile %s: %w", userID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Profile{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// UpsertProfile creates or updates a profile.
func (s *Store) UpsertProfile(ctx context.Context, p model.Profile) (_ model.Profile, err error) {
	started := time.Now()
	defer func() { s.observe("upsert_profile", started, err) }()

	if p.ID == "" {
		return model.Profile{}, fmt.Errorf("profile needs an id")
	}
	prefs, err := model.EncodePreferences(p.Preferences)
	if err != nil {
		return model.Profile{}, err
	}
	now := s.now()
	p.CreatedAt = s.stamp(p.CreatedAt)
	p.UpdatedAt = now
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, full_name, bio, goals, preferences, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			full_name = excluded.full_name,
			bio = excluded.bio,
			goals = excluded.goals,
			preferences = excluded.preferences,
			updated_at = excluded.updated_at`,
		p.ID, p.Email, p.FullName, p.Bio, p.Goals, prefs, formatTime(p.CreatedAt), formatTime(now),
	)
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}
