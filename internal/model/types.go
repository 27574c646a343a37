// Package model defines shared data structures.
package model

import "time"

// SessionKind tags a session as practice or debate.
type SessionKind string

const (
	KindPractice SessionKind = "practice"
	KindDebate   SessionKind = "debate"
)

// PracticeConfig defines practice (speech recording) settings.
type PracticeConfig struct {
	UserID        string
	LimitSeconds  int
	TopicFile     string
	MaxDifficulty int
}

// DebateConfig defines debate settings.
type DebateConfig struct {
	UserID   string
	Minutes  int
	Position string
	Topic    string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	UserID string
	Window string
	Recent int
}

// PracticeSession is a single recorded speech practice attempt.
// Nil numeric fields were never recorded.
type PracticeSession struct {
	ID              string
	UserID          string
	TopicID         string
	Title           string
	Transcript      string
	DurationSeconds *int64
	ClarityScore    *float64
	PaceScore       *float64
	VolumeScore     *float64
	ToneScore       *float64
	EngagementScore *float64
	OverallScore    *float64
	Feedback        *Feedback
	CreatedAt       time.Time
}

// DebateSession is a single debate attempt against an opponent.
type DebateSession struct {
	ID              string
	UserID          string
	TopicID         string
	Position        string
	OpponentNotes   string
	DurationSeconds *int64
	UserScore       *float64
	AIScore         *float64
	Feedback        *Feedback
	CreatedAt       time.Time
}

// MemberRole is a team member's role.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Team groups users under a leader.
type Team struct {
	ID          string
	Name        string
	Description string
	LeaderID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Members     []TeamMember
}

// TeamMember links a user to a team.
type TeamMember struct {
	ID       string
	TeamID   string
	UserID   string
	Role     MemberRole
	JoinedAt time.Time
}

// Topic is a practice or debate prompt.
type Topic struct {
	ID          string
	Title       string
	Description string
	Category    string
	Difficulty  int
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
