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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already in use")
	ErrTeamSlugConflict = errors.New("team slug is already in use")
	// ErrTeamInUse guards deletion of a team still referenced by a match
	// or registration.
	ErrTeamInUse = errors.New("team is referenced by a match or registration")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Team, error)
	GetAll(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// UpdateRecord writes only the competitive accumulators of one team.
	UpdateRecord(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// UpdateRanks persists rank_position and previous_rank_position for
	// every team after a standings recompute.
	UpdateRanks(ctx context.Context, exec SQLExecutor, teams []*models.Team) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, slug, captain_id, wins, losses, draws, points, rank_position, previous_rank_position, created_at, logo_key`

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.CaptainID,
		&t.Wins, &t.Losses, &t.Draws, &t.Points,
		&t.RankPosition, &t.PreviousRankPosition, &t.CreatedAt, &t.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (name, slug, captain_id)
		VALUES ($1, $2, $3)
		RETURNING id, wins, losses, draws, points, rank_position, previous_rank_position, created_at`

	err := executor.QueryRowContext(ctx, query, team.Name, team.Slug, team.CaptainID).Scan(
		&team.ID, &team.Wins, &team.Losses, &team.Draws, &team.Points,
		&team.RankPosition, &team.PreviousRankPosition, &team.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "teams_name_key":
				return ErrTeamNameConflict
			case "teams_slug_key":
				return ErrTeamSlugConflict
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams WHERE slug = $1`
	return r.scanTeam(executor.QueryRowContext(ctx, query, slug))
}

func (r *postgresTeamRepository) GetAll(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	// Ordered by id so teams tied on points and wins keep a stable,
	// enumeration-dependent order across recomputes.
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, errScan := r.scanTeam(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET name = $1, slug = $2, captain_id = $3 WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, team.Name, team.Slug, team.CaptainID, team.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "teams_name_key":
				return ErrTeamNameConflict
			case "teams_slug_key":
				return ErrTeamSlugConflict
			}
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateRecord(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET wins = $1, losses = $2, draws = $3, points = $4 WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, team.Wins, team.Losses, team.Draws, team.Points, team.ID)
	if err != nil {
		return fmt.Errorf("failed to update team record: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateRanks(ctx context.Context, exec SQLExecutor, teams []*models.Team) error {
	executor := r.getExecutor(exec)
	if len(teams) == 0 {
		return nil
	}

	query := `UPDATE teams SET rank_position = $1, previous_rank_position = $2 WHERE id = $3`
	for _, team := range teams {
		result, err := executor.ExecContext(ctx, query, team.RankPosition, team.PreviousRankPosition, team.ID)
		if err != nil {
			return fmt.Errorf("failed to update rank for team %d: %w", team.ID, err)
		}
		if err := checkAffectedRows(result, ErrTeamNotFound); err != nil {
			return fmt.Errorf("rank update for team %d: %w", team.ID, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update team logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTeamInUse
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
