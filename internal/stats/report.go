package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/store"
)

// Source is the data access a report needs. *store.Store satisfies it.
type Source interface {
	ListPracticeSessions(ctx context.Context, q store.Query) ([]model.PracticeSession, error)
	ListDebateSessions(ctx context.Context, q store.Query) ([]model.DebateSession, error)
	ListTeams(ctx context.Context, userID string) ([]model.Team, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	UserID       string
	GeneratedAt  time.Time
	Practice     []model.PracticeSession
	Debate       []model.DebateSession
	Teams        []model.Team
	Summary      Summary
	Analytics    Analytics
	Recent       []Activity
	Streak       int
	Achievements []Achievement
	TopTopics    []TopicStat
	WeakSkills   []SkillScore
	ScoreTrend   []float64
}

// BuildReport fetches sessions and teams concurrently, waits for all of them,
// then aggregates. Any fetch failure fails the whole report.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig, now time.Time, loc *time.Location) (Report, error) {
	window, err := ParseWindow(cfg.Window)
	if err != nil {
		return Report{}, err
	}
	if loc == nil {
		loc = time.Local
	}

	var (
		practice []model.PracticeSession
		debate   []model.DebateSession
		teams    []model.Team
	)
	q := store.Query{UserID: cfg.UserID, Order: store.NewestFirst}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if practice, err = src.ListPracticeSessions(gctx, q); err != nil {
			return fmt.Errorf("failed to load practice sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if debate, err = src.ListDebateSessions(gctx, q); err != nil {
			return fmt.Errorf("failed to load debate sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if teams, err = src.ListTeams(gctx, cfg.UserID); err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{
		UserID:       cfg.UserID,
		GeneratedAt:  now,
		Practice:     practice,
		Debate:       debate,
		Teams:        teams,
		Summary:      Summarize(practice, debate),
		Analytics:    Analyze(practice, debate, window, now, loc),
		Recent:       RecentActivity(practice, debate, cfg.Recent),
		Streak:       PracticeStreak(practice, debate, now, loc),
		Achievements: Achievements(practice, debate, now),
		TopTopics:    TopTopics(practice, debate, 5),
		WeakSkills:   SelectWeakSkills(practice, 10, 2),
		ScoreTrend:   ScoreTrend(practice, 5),
	}, nil
}

// Reanalyze recomputes the windowed view of an existing report.
func (r Report) Reanalyze(w Window, loc *time.Location) Report {
	if loc == nil {
		loc = time.Local
	}
	r.Analytics = Analyze(r.Practice, r.Debate, w, r.GeneratedAt, loc)
	return r
}
