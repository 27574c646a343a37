package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// CreateTeam creates a team led by userID and records the leader membership
// in the same transaction.
func (s *Store) CreateTeam(ctx context.Context, userID, name, description string) (_ model.Team, err error) {
	started := time.Now()
	defer func() { s.observe("create_team", started, err) }()

	name = strings.TrimSpace(name)
	if userID == "" {
		return model.Team{}, fmt.Errorf("team needs a leader id")
	}
	if name == "" {
		return model.Team{}, fmt.Errorf("team name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Team{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	now := s.now()
	team := model.Team{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		LeaderID:    userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO teams (id, name, description, leader_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		team.ID, team.Name, team.Description, team.LeaderID, formatTime(now), formatTime(now),
	); err != nil {
		return model.Team{}, err
	}

	leader := model.TeamMember{
		ID:       newID(),
		TeamID:   team.ID,
		UserID:   userID,
		Role:     model.RoleLeader,
		JoinedAt: now,
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO team_members (id, team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)`,
		leader.ID, leader.TeamID, leader.UserID, string(leader.Role), formatTime(now),
	); err != nil {
		return model.Team{}, err
	}

	if err = tx.Commit(); err != nil {
		return model.Team{}, err
	}
	team.Members = []model.TeamMember{leader}
	return team, nil
}

// JoinTeam adds userID to a team as a member.
func (s *Store) JoinTeam(ctx context.Context, userID, teamID string) (_ model.TeamMember, err error) {
	started := time.Now()
	defer func() { s.observe("join_team", started, err) }()

	teamID = strings.TrimSpace(teamID)
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM teams WHERE id = ?`, teamID).Scan(&exists)
	if err != nil {
		return model.TeamMember{}, err
	}
	if exists == 0 {
		return model.TeamMember{}, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	var existing string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID).Scan(&existing)
	switch {
	case err == nil:
		return model.TeamMember{}, ErrAlreadyMember
	case !errors.Is(err, sql.ErrNoRows):
		return model.TeamMember{}, err
	}

	member := model.TeamMember{
		ID:       newID(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     model.RoleMember,
		JoinedAt: s.now(),
	}
	if _, err = s.db.ExecContext(ctx,
		`INSERT INTO team_members (id, team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?, ?)`,
		member.ID, member.TeamID, member.UserID, string(member.Role), formatTime(member.JoinedAt),
	); err != nil {
		return model.TeamMember{}, err
	}
	return member, nil
}

// ListTeams returns the teams userID belongs to, newest first, with all members.
func (s *Store) ListTeams(ctx context.Context, userID string) (_ []model.Team, err error) {
	started := time.Now()
	defer func() { s.observe("list_teams", started, err) }()

	rows, err := s.db.QueryContext(ctx, `SELECT t.id, t.name, t.description, t.leader_id, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = ?
		ORDER BY t.created_at DESC, t.rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var teams []model.Team
	index := map[string]int{}
	for rows.Next() {
		var team model.Team
		var createdAt, updatedAt string
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.LeaderID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if team.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if team.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		index[team.ID] = len(teams)
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(teams))
	args := make([]any, len(teams))
	for i, team := range teams {
		placeholders[i] = "?"
		args[i] = team.ID
	}
	memberRows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id IN (%s)
		ORDER BY joined_at ASC, rowid ASC`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(memberRows)

	for memberRows.Next() {
		var member model.TeamMember
		var role, joinedAt string
		if err := memberRows.Scan(&member.ID, &member.TeamID, &member.UserID, &role, &joinedAt); err != nil {
			return nil, err
		}
		member.Role = model.MemberRole(role)
		if member.JoinedAt, err = parseTime(joinedAt); err != nil {
			return nil, err
		}
		i := index[member.TeamID]
		teams[i].Members = append(teams[i].Members, member)
	}
	if err := memberRows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
