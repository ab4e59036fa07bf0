package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
)

type RegistrationService interface {
	SubmitRegistration(ctx context.Context, input SubmitRegistrationInput) (*models.Registration, error)
	ApproveRegistration(ctx context.Context, registrationID int) (*models.Registration, error)
	RejectRegistration(ctx context.Context, registrationID int, reason *string) (*models.Registration, error)
	GetRegistrationByID(ctx context.Context, id int) (*models.Registration, error)
	ListByChampionship(ctx context.Context, championshipID int, statusFilter *models.RegistrationStatus) ([]*models.Registration, error)
}

type SubmitRegistrationInput struct {
	ChampionshipID int
	TeamID         int
	ContactEmail   string
	ContactPhone   *string
}

type registrationService struct {
	txRunner  repositories.TxRunner
	regRepo   repositories.RegistrationRepository
	champRepo repositories.ChampionshipRepository
	teamRepo  repositories.TeamRepository
	now       func() time.Time
}

func NewRegistrationService(
	txRunner repositories.TxRunner,
	regRepo repositories.RegistrationRepository,
	champRepo repositories.ChampionshipRepository,
	teamRepo repositories.TeamRepository,
) RegistrationService {
	return &registrationService{
		txRunner:  txRunner,
		regRepo:   regRepo,
		champRepo: champRepo,
		teamRepo:  teamRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRegistration files a pending registration for a team. All rules
// are checked before anything is written, so a failed submission leaves
// no state behind. A pending registration does not consume a slot:
// capacity is only spent on approval, which lets pending requests be
// rejected without wasting a place.
func (s *registrationService) SubmitRegistration(ctx context.Context, input SubmitRegistrationInput) (*models.Registration, error) {
	championship, err := s.champRepo.GetByID(ctx, nil, input.ChampionshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to load championship %d: %w", input.ChampionshipID, err)
	}

	if championship.Status != models.ChampionshipOpen {
		return nil, ErrRegistrationClosed
	}
	if s.now().After(championship.RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}
	if championship.SlotsFilled >= championship.SlotsTotal {
		return nil, ErrChampionshipFull
	}

	if _, err := s.teamRepo.GetByID(ctx, nil, input.TeamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", input.TeamID, err)
	}

	existing, err := s.regRepo.FindByChampionshipAndTeam(ctx, nil, input.ChampionshipID, input.TeamID)
	if err != nil && !errors.Is(err, repositories.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if existing != nil {
		return nil, ErrRegistrationConflict
	}

	registration := &models.Registration{
		ChampionshipID: input.ChampionshipID,
		TeamID:         input.TeamID,
		Status:         models.RegistrationPending,
		ContactEmail:   input.ContactEmail,
		ContactPhone:   input.ContactPhone,
		RegisteredAt:   s.now(),
	}
	if err := s.regRepo.Create(ctx, nil, registration); err != nil {
		// The unique constraint catches the race between the check above
		// and the insert.
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, err
	}
	return registration, nil
}

// ApproveRegistration confirms a pending registration and consumes one
// championship slot. Both writes run in a single transaction: either the
// registration flips to approved and the counter moves, or neither
// happens. The slot counter is a conditional increment, so concurrent
// approvals past capacity fail with ErrChampionshipFull and leave the
// registration pending.
func (s *registrationService) ApproveRegistration(ctx context.Context, registrationID int) (*models.Registration, error) {
	var approved *models.Registration
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		registration, err := s.regRepo.FindByID(ctx, exec, registrationID)
		if err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if registration.Status != models.RegistrationPending {
			return ErrInvalidRegistrationTransition
		}

		if err := s.champRepo.IncrementSlotsFilled(ctx, exec, registration.ChampionshipID); err != nil {
			if errors.Is(err, repositories.ErrChampionshipFull) {
				return ErrChampionshipFull
			}
			return err
		}

		if err := s.regRepo.UpdateStatusIfPending(ctx, exec, registrationID, models.RegistrationApproved, nil); err != nil {
			if errors.Is(err, repositories.ErrRegistrationNotPending) {
				return ErrInvalidRegistrationTransition
			}
			return err
		}

		registration.Status = models.RegistrationApproved
		approved = registration
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectRegistration turns down a pending registration. No capacity
// effect; the optional reason is stored as free text.
func (s *registrationService) RejectRegistration(ctx context.Context, registrationID int, reason *string) (*models.Registration, error) {
	registration, err := s.regRepo.FindByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	if registration.Status != models.RegistrationPending {
		return nil, ErrInvalidRegistrationTransition
	}

	if err := s.regRepo.UpdateStatusIfPending(ctx, nil, registrationID, models.RegistrationRejected, reason); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotPending) {
			return nil, ErrInvalidRegistrationTransition
		}
		return nil, err
	}

	registration.Status = models.RegistrationRejected
	registration.RejectReason = reason
	return registration, nil
}

func (s *registrationService) GetRegistrationByID(ctx context.Context, id int) (*models.Registration, error) {
	registration, err := s.regRepo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return registration, nil
}

func (s *registrationService) ListByChampionship(ctx context.Context, championshipID int, statusFilter *models.RegistrationStatus) ([]*models.Registration, error) {
	registrations, err := s.regRepo.ListByChampionship(ctx, nil, championshipID, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for championship %d: %w", championshipID, err)
	}
	return registrations, nil
}
