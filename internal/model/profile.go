package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPreferences reports preferences that fail validation.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Theme is the preferred color theme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Profile holds per-user settings.
type Profile struct {
	ID          string
	Email       string
	FullName    string
	Bio         string
	Goals       string
	Preferences Preferences
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Preferences are the typed user preferences.
type Preferences struct {
	Notifications     bool   `json:"notifications"`
	EmailUpdates      bool   `json:"email_updates"`
	PracticeReminders bool   `json:"practice_reminders"`
	Theme             Theme  `json:"theme"`
	Language          string `json:"language"`
}

// DefaultPreferences returns the preferences used for new profiles.
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications:     true,
		EmailUpdates:      true,
		PracticeReminders: true,
		Theme:             ThemeSystem,
		Language:          "en",
	}
}

// Validate checks enumerated fields.
func (p Preferences) Validate() error {
	switch p.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidPreferences, p.Theme)
	}
	if p.Language == "" {
		return fmt.Errorf("%w: language must not be empty", ErrInvalidPreferences)
	}
	return nil
}

// EncodePreferences serializes validated preferences.
func EncodePreferences(p Preferences) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(data), nil
}

// DecodePreferences parses stored preferences. Missing keys keep their defaults.
func DecodePreferences(raw string) (Preferences, error) {
	prefs := DefaultPreferences()
	if raw == "" || raw == "null" {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return Preferences{}, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	if err := prefs.Validate(); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}
