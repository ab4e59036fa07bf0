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
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrRegistrationConflict surfaces the (championship_id, team_id)
	// unique constraint: one registration per team per championship.
	ErrRegistrationConflict            = errors.New("team is already registered for this championship")
	ErrRegistrationTeamInvalid         = errors.New("registration team conflict or invalid")
	ErrRegistrationChampionshipInvalid = errors.New("registration championship conflict or invalid")
	// ErrRegistrationNotPending is returned by the conditional status
	// update when the registration exists but already left pending.
	ErrRegistrationNotPending = errors.New("registration is not pending")
)

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error)
	FindByChampionshipAndTeam(ctx context.Context, exec SQLExecutor, championshipID, teamID int) (*models.Registration, error)
	ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int, statusFilter *models.RegistrationStatus) ([]*models.Registration, error)
	// UpdateStatusIfPending moves a registration out of pending. The
	// status = 'pending' guard is part of the UPDATE itself, so a
	// concurrent approve/reject on the same registration cannot both
	// succeed.
	UpdateStatusIfPending(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus, rejectReason *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO registrations (championship_id, team_id, status, contact_email, contact_phone, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		reg.ChampionshipID,
		reg.TeamID,
		reg.Status,
		reg.ContactEmail,
		reg.ContactPhone,
		reg.RegisteredAt,
	).Scan(&reg.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_championship_id_team_id_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "registrations_team_id_fkey":
					return ErrRegistrationTeamInvalid
				case "registrations_championship_id_fkey":
					return ErrRegistrationChampionshipInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) scanRegistration(rowScanner interface{ Scan(...interface{}) error }) (*models.Registration, error) {
	var reg models.Registration
	err := rowScanner.Scan(
		&reg.ID, &reg.ChampionshipID, &reg.TeamID, &reg.Status,
		&reg.ContactEmail, &reg.ContactPhone, &reg.RejectReason, &reg.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

const registrationColumns = `id, championship_id, team_id, status, contact_email, contact_phone, reject_reason, registered_at`

func (r *postgresRegistrationRepository) FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Registration, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return r.scanRegistration(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresRegistrationRepository) FindByChampionshipAndTeam(ctx context.Context, exec SQLExecutor, championshipID, teamID int) (*models.Registration, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE championship_id = $1 AND team_id = $2`
	return r.scanRegistration(executor.QueryRowContext(ctx, query, championshipID, teamID))
}

func (r *postgresRegistrationRepository) ListByChampionship(ctx context.Context, exec SQLExecutor, championshipID int, statusFilter *models.RegistrationStatus) ([]*models.Registration, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE championship_id = $1`
	args := []interface{}{championshipID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY registered_at ASC`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		reg, errScan := r.scanRegistration(rows)
		if errScan != nil {
			return nil, errScan
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateStatusIfPending(ctx context.Context, exec SQLExecutor, id int, status models.RegistrationStatus, rejectReason *string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE registrations
		SET status = $1, reject_reason = $2
		WHERE id = $3 AND status = $4`

	result, err := executor.ExecContext(ctx, query, status, rejectReason, id, models.RegistrationPending)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotPending)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}
