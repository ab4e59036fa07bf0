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
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerTeamInvalid    = errors.New("player team conflict or invalid")
	ErrPlayerHandleConflict = errors.New("player handle is already taken in this team")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, user_id, handle, real_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(ctx, query, player.TeamID, player.UserID, player.Handle, player.RealName).
		Scan(&player.ID, &player.JoinedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "players_team_id_handle_key" {
					return ErrPlayerHandleConflict
				}
			case "23503":
				if pqErr.Constraint == "players_team_id_fkey" {
					return ErrPlayerTeamInvalid
				}
			}
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, team_id, user_id, handle, real_name, joined_at FROM players WHERE id = $1`
	var p models.Player
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.TeamID, &p.UserID, &p.Handle, &p.RealName, &p.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `SELECT id, team_id, user_id, handle, real_name, joined_at FROM players WHERE team_id = $1 ORDER BY joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.UserID, &p.Handle, &p.RealName, &p.JoinedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
