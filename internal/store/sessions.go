package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// InsertPracticeSession stores a practice session. Empty ID and zero
// CreatedAt are filled in; the stored row is returned.
func (s *Store) InsertPracticeSession(ctx context.Context, ps model.PracticeSession) (_ model.PracticeSession, err error) {
	started := time.Now()
	defer func() { s.observe("insert_practice", started, err) }()

	if ps.UserID == "" {
		return model.PracticeSession{}, fmt.Errorf("practice session needs a user id")
	}
	feedback, err := model.EncodeFeedback(ps.Feedback)
	if err != nil {
		return model.PracticeSession{}, err
	}
	if ps.ID == "" {
		ps.ID = newID()
	}
	ps.CreatedAt = s.stamp(ps.CreatedAt)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO practice_sessions (id, user_id, topic_id, title, transcript, duration_seconds,
			clarity_score, pace_score, volume_score, tone_score, engagement_score, overall_score,
			feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ps.ID,
		ps.UserID,
		ps.TopicID,
		ps.Title,
		ps.Transcript,
		nullInt(ps.DurationSeconds),
		nullFloat(ps.ClarityScore),
		nullFloat(ps.PaceScore),
		nullFloat(ps.VolumeScore),
		nullFloat(ps.ToneScore),
		nullFloat(ps.EngagementScore),
		nullFloat(ps.OverallScore),
		feedback,
		formatTime(ps.CreatedAt),
	)
	if err != nil {
		return model.PracticeSession{}, err
	}
	ps.ClarityScore = floatPtr(nullFloat(ps.ClarityScore))
	ps.PaceScore = floatPtr(nullFloat(ps.PaceScore))
	ps.VolumeScore = floatPtr(nullFloat(ps.VolumeScore))
	ps.ToneScore = floatPtr(nullFloat(ps.ToneScore))
	ps.EngagementScore = floatPtr(nullFloat(ps.EngagementScore))
	ps.OverallScore = floatPtr(nullFloat(ps.OverallScore))
	return ps, nil
}

// InsertDebateSession stores a debate session.
func (s *Store) InsertDebateSession(ctx context.Context, ds model.DebateSession) (_ model.DebateSession, err error) {
	started := time.Now()
	defer func() { s.observe("insert_debate", started, err) }()

	if ds.UserID == "" {
		return model.DebateSession{}, fmt.Errorf("debate session needs a user id")
	}
	if ds.Position == "" {
		return model.DebateSession{}, fmt.Errorf("debate session needs a position")
	}
	feedback, err := model.EncodeFeedback(ds.Feedback)
	if err != nil {
		return model.DebateSession{}, err
	}
	if ds.ID == "" {
		ds.ID = newID()
	}
	ds.CreatedAt = s.stamp(ds.CreatedAt)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO debate_sessions (id, user_id, topic_id, position, opponent_notes, duration_seconds,
			user_score, ai_score, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ds.ID,
		ds.UserID,
		ds.TopicID,
		ds.Position,
		ds.OpponentNotes,
		nullInt(ds.DurationSeconds),
		nullFloat(ds.UserScore),
		nullFloat(ds.AIScore),
		feedback,
		formatTime(ds.CreatedAt),
	)
	if err != nil {
		return model.DebateSession{}, err
	}
	ds.UserScore = floatPtr(nullFloat(ds.UserScore))
	ds.AIScore = floatPtr(nullFloat(ds.AIScore))
	return ds, nil
}

// ListPracticeSessions returns a user's practice sessions.
func (s *Store) ListPracticeSessions(ctx context.Context, q Query) (_ []model.PracticeSession, err error) {
	started := time.Now()
	defer func() { s.observe("list_practice", started, err) }()

	tail, args := listClauses(q)
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, topic_id, title, transcript, duration_seconds,
		clarity_score, pace_score, volume_score, tone_score, engagement_score, overall_score,
		feedback, created_at
		FROM practice_sessions `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.PracticeSession
	for rows.Next() {
		var (
			ps                                  model.PracticeSession
			duration                            sql.NullInt64
			clarity, pace, volume, tone, engage sql.NullFloat64
			overall                             sql.NullFloat64
			feedback, createdAt                 string
		)
		if err := rows.Scan(&ps.ID, &ps.UserID, &ps.TopicID, &ps.Title, &ps.Transcript, &duration,
			&clarity, &pace, &volume, &tone, &engage, &overall, &feedback, &createdAt); err != nil {
			return nil, err
		}
		ps.DurationSeconds = intPtr(duration)
		ps.ClarityScore = floatPtr(clarity)
		ps.PaceScore = floatPtr(pace)
		ps.VolumeScore = floatPtr(volume)
		ps.ToneScore = floatPtr(tone)
		ps.EngagementScore = floatPtr(engage)
		ps.OverallScore = floatPtr(overall)
		if ps.Feedback, err = model.DecodeFeedback(feedback); err != nil {
			return nil, fmt.Errorf("practice session %s: %w", ps.ID, err)
		}
		if ps.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListDebateSessions returns a user's debate sessions.
func (s *Store) ListDebateSessions(ctx context.Context, q Query) (_ []model.DebateSession, err error) {
	started := time.Now()
	defer func() { s.observe("list_debate", started, err) }()

	tail, args := listClauses(q)
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, topic_id, position, opponent_notes, duration_seconds,
		user_score, ai_score, feedback, created_at
		FROM debate_sessions `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.DebateSession
	for rows.Next() {
		var (
			ds                  model.DebateSession
			duration            sql.NullInt64
			userScore, aiScore  sql.NullFloat64
			feedback, createdAt string
		)
		if err := rows.Scan(&ds.ID, &ds.UserID, &ds.TopicID, &ds.Position, &ds.OpponentNotes, &duration,
			&userScore, &aiScore, &feedback, &createdAt); err != nil {
			return nil, err
		}
		ds.DurationSeconds = intPtr(duration)
		ds.UserScore = floatPtr(userScore)
		ds.AIScore = floatPtr(aiScore)
		if ds.Feedback, err = model.DecodeFeedback(feedback); err != nil {
			return nil, fmt.Errorf("debate session %s: %w", ds.ID, err)
		}
		if ds.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
