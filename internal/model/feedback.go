package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidFeedback reports a feedback value whose payload does not match its kind.
var ErrInvalidFeedback = errors.New("invalid feedback")

// FeedbackKind discriminates Feedback payloads.
type FeedbackKind string

const (
	FeedbackPractice FeedbackKind = "practice"
	FeedbackDebate   FeedbackKind = "debate"
)

// Feedback is review text attached to a session. Exactly one payload is set,
// matching Kind.
type Feedback struct {
	Kind     FeedbackKind      `json:"kind"`
	Practice *PracticeFeedback `json:"practice,omitempty"`
	Debate   *DebateFeedback   `json:"debate,omitempty"`
}

// PracticeFeedback is review text for a speech practice session.
type PracticeFeedback struct {
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// DebateFeedback is review text for a debate session.
type DebateFeedback struct {
	Summary      string   `json:"summary,omitempty"`
	UserPoints   int      `json:"user_points"`
	OpponentPts  int      `json:"opponent_points"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// NewPracticeFeedback wraps a practice payload.
func NewPracticeFeedback(p PracticeFeedback) *Feedback {
	return &Feedback{Kind: FeedbackPractice, Practice: &p}
}

// NewDebateFeedback wraps a debate payload.
func NewDebateFeedback(d DebateFeedback) *Feedback {
	return &Feedback{Kind: FeedbackDebate, Debate: &d}
}

// Validate checks that the payload matches the kind.
func (f *Feedback) Validate() error {
	if f == nil {
		return nil
	}
	switch f.Kind {
	case FeedbackPractice:
		if f.Practice == nil || f.Debate != nil {
			return fmt.Errorf("%w: practice kind needs only a practice payload", ErrInvalidFeedback)
		}
	case FeedbackDebate:
		if f.Debate == nil || f.Practice != nil {
			return fmt.Errorf("%w: debate kind needs only a debate payload", ErrInvalidFeedback)
		}
		if f.Debate.UserPoints < 0 || f.Debate.OpponentPts < 0 {
			return fmt.Errorf("%w: negative point count", ErrInvalidFeedback)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFeedback, f.Kind)
	}
	return nil
}

// EncodeFeedback serializes feedback for storage. Nil encodes as empty.
func EncodeFeedback(f *Feedback) (string, error) {
	if f == nil {
		return "", nil
	}
	if err := f.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode feedback: %w", err)
	}
	return string(data), nil
}

// DecodeFeedback parses stored feedback. Empty input decodes as nil.
func DecodeFeedback(raw string) (*Feedback, error) {
	if raw == "" || raw == "null" || raw == "{}" {
		return nil, nil
	}
	var f Feedback
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
