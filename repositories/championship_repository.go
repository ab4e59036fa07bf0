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
	ErrChampionshipNotFound      = errors.New("championship not found")
	ErrChampionshipSlugConflict  = errors.New("championship slug is already in use")
	ErrChampionshipFull          = errors.New("championship has no free slots")
	ErrChampionshipOrganizerInvalid = errors.New("championship organizer conflict or invalid")
)

type ChampionshipRepository interface {
	Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error)
	GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Championship, error)
	List(ctx context.Context, exec SQLExecutor, limit, offset int) ([]models.Championship, error)
	Update(ctx context.Context, exec SQLExecutor, c *models.Championship) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ChampionshipStatus) error
	// IncrementSlotsFilled consumes one slot as a single conditional
	// read-modify-write. Zero rows affected means the championship is
	// either missing or already full.
	IncrementSlotsFilled(ctx context.Context, exec SQLExecutor, id int) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

func (r *postgresChampionshipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const championshipColumns = `id, name, slug, description, discipline, organizer_id, slots_total, slots_filled,
       registration_deadline, start_date, end_date, status, created_at, logo_key`

func (r *postgresChampionshipRepository) scanChampionship(rowScanner interface{ Scan(...interface{}) error }) (*models.Championship, error) {
	var c models.Championship
	err := rowScanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Discipline, &c.OrganizerID,
		&c.SlotsTotal, &c.SlotsFilled, &c.RegistrationDeadline, &c.StartDate,
		&c.EndDate, &c.Status, &c.CreatedAt, &c.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresChampionshipRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO championships
			(name, slug, description, discipline, organizer_id, slots_total, slots_filled,
			 registration_deadline, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10)
		RETURNING id, slots_filled, created_at`

	err := executor.QueryRowContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Discipline, c.OrganizerID, c.SlotsTotal,
		c.RegistrationDeadline, c.StartDate, c.EndDate, c.Status,
	).Scan(&c.ID, &c.SlotsFilled, &c.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "championships_slug_key" {
					return ErrChampionshipSlugConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "championships_organizer_id_fkey" {
					return ErrChampionshipOrganizerInvalid
				}
			}
		}
		return fmt.Errorf("failed to create championship: %w", err)
	}
	return nil
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Championship, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1`
	return r.scanChampionship(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresChampionshipRepository) GetBySlug(ctx context.Context, exec SQLExecutor, slug string) (*models.Championship, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE slug = $1`
	return r.scanChampionship(executor.QueryRowContext(ctx, query, slug))
}

func (r *postgresChampionshipRepository) List(ctx context.Context, exec SQLExecutor, limit, offset int) ([]models.Championship, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + championshipColumns + ` FROM championships ORDER BY start_date DESC LIMIT $1 OFFSET $2`

	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}
	defer rows.Close()

	championships := make([]models.Championship, 0)
	for rows.Next() {
		c, errScan := r.scanChampionship(rows)
		if errScan != nil {
			return nil, errScan
		}
		championships = append(championships, *c)
	}
	return championships, rows.Err()
}

func (r *postgresChampionshipRepository) Update(ctx context.Context, exec SQLExecutor, c *models.Championship) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE championships SET
			name = $1, description = $2, discipline = $3, slots_total = $4,
			registration_deadline = $5, start_date = $6, end_date = $7
		WHERE id = $8`

	result, err := executor.ExecContext(ctx, query,
		c.Name, c.Description, c.Discipline, c.SlotsTotal,
		c.RegistrationDeadline, c.StartDate, c.EndDate, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update championship: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ChampionshipStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE championships SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update championship status: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) IncrementSlotsFilled(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	// The slots_filled < slots_total guard rides inside the UPDATE so two
	// concurrent approvals cannot both pass a stale read of the counter.
	query := `
		UPDATE championships
		SET slots_filled = slots_filled + 1
		WHERE id = $1 AND slots_filled < slots_total`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment filled slots: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipFull)
}

func (r *postgresChampionshipRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE championships SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update championship logo key: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM championships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete championship: %w", err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}
