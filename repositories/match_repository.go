package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/esportsfed/platform/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchChampionshipInvalid = errors.New("match championship conflict or invalid")
	ErrMatchTeamInvalid         = errors.New("match team conflict or invalid")
	ErrMatchSameTeam            = errors.New("match requires two distinct teams")
	// ErrMatchNotSettleable is returned by the conditional finalize when
	// the match exists but is already finished or canceled.
	ErrMatchNotSettleable = errors.New("match is already finished or canceled")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int, statusFilter *models.MatchStatus) ([]*models.Match, error)
	// Finalize records the result and flips the match to finished as one
	// conditional UPDATE. The status guard is inside the statement so
	// only one of two racing finalize calls can take effect.
	Finalize(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int, winnerTeamID *int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from []models.MatchStatus, to models.MatchStatus) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, championship_id, team_a_id, team_b_id, score_a, score_b, winner_team_id, scheduled_at, status, created_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.ChampionshipID, &m.TeamAID, &m.TeamBID,
		&m.ScoreA, &m.ScoreB, &m.WinnerTeamID, &m.ScheduledAt, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (championship_id, team_a_id, team_b_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.ChampionshipID,
		match.TeamAID,
		match.TeamBID,
		match.ScheduledAt,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "matches_championship_id_fkey":
					return ErrMatchChampionshipInvalid
				case "matches_team_a_id_fkey", "matches_team_b_id_fkey":
					return ErrMatchTeamInvalid
				}
			case "23514": // check_violation
				if pqErr.Constraint == "chk_match_distinct_teams" {
					return ErrMatchSameTeam
				}
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE championship_id = $1`
	args := []interface{}{championshipID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY scheduled_at ASC`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Finalize(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int, winnerTeamID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET score_a = $1, score_b = $2, winner_team_id = $3, status = $4
		WHERE id = $5 AND status NOT IN ($6, $7)`

	result, err := executor.ExecContext(ctx, query,
		scoreA, scoreB, winnerTeamID, models.MatchFinished,
		id, models.MatchFinished, models.MatchCanceled,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize match: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotSettleable)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from []models.MatchStatus, to models.MatchStatus) error {
	executor := r.getExecutor(exec)
	fromValues := make([]string, len(from))
	for i, s := range from {
		fromValues[i] = string(s)
	}
	query := `UPDATE matches SET status = $1 WHERE id = $2 AND status = ANY($3)`

	result, err := executor.ExecContext(ctx, query, to, id, pq.Array(fromValues))
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotSettleable)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
