package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
	"github.com/esportsfed/platform/storage"
	"github.com/esportsfed/platform/utils"
	"golang.org/x/sync/errgroup"
)

type ChampionshipService interface {
	CreateChampionship(ctx context.Context, input CreateChampionshipInput) (*models.Championship, error)
	GetChampionshipByID(ctx context.Context, id int) (*models.Championship, error)
	GetChampionshipDetails(ctx context.Context, id int) (*models.Championship, error)
	ListChampionships(ctx context.Context, limit, offset int) ([]models.Championship, error)
	UpdateChampionship(ctx context.Context, id int, input UpdateChampionshipInput) (*models.Championship, error)
	UpdateStatus(ctx context.Context, id int, next models.ChampionshipStatus) (*models.Championship, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Championship, error)
	DeleteChampionship(ctx context.Context, id int) error
}

type CreateChampionshipInput struct {
	Name                 string
	Description          *string
	Discipline           string
	OrganizerID          int
	SlotsTotal           int
	RegistrationDeadline time.Time
	StartDate            time.Time
	EndDate              time.Time
}

type UpdateChampionshipInput struct {
	Name                 *string
	Description          *string
	Discipline           *string
	SlotsTotal           *int
	RegistrationDeadline *time.Time
	StartDate            *time.Time
	EndDate              *time.Time
}

type championshipService struct {
	champRepo repositories.ChampionshipRepository
	regRepo   repositories.RegistrationRepository
	matchRepo repositories.MatchRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewChampionshipService(
	champRepo repositories.ChampionshipRepository,
	regRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ChampionshipService {
	return &championshipService{
		champRepo: champRepo,
		regRepo:   regRepo,
		matchRepo: matchRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *championshipService) CreateChampionship(ctx context.Context, input CreateChampionshipInput) (*models.Championship, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if input.SlotsTotal <= 0 {
		return nil, ErrChampionshipInvalidCapacity
	}
	if err := validateChampionshipDates(input.RegistrationDeadline, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	championship := &models.Championship{
		Name:                 input.Name,
		Slug:                 utils.Slugify(input.Name),
		Description:          input.Description,
		Discipline:           input.Discipline,
		OrganizerID:          input.OrganizerID,
		SlotsTotal:           input.SlotsTotal,
		RegistrationDeadline: input.RegistrationDeadline,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		Status:               models.ChampionshipUpcoming,
	}
	if err := s.champRepo.Create(ctx, nil, championship); err != nil {
		if errors.Is(err, repositories.ErrChampionshipSlugConflict) {
			return nil, ErrChampionshipSlugConflict
		}
		return nil, err
	}
	return championship, nil
}

func (s *championshipService) GetChampionshipByID(ctx context.Context, id int) (*models.Championship, error) {
	championship, err := s.champRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	populateChampionshipLogoURL(championship, s.uploader)
	return championship, nil
}

// GetChampionshipDetails returns the championship with its registrations
// and matches, loaded concurrently.
func (s *championshipService) GetChampionshipDetails(ctx context.Context, id int) (*models.Championship, error) {
	championship, err := s.GetChampionshipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	var registrations []*models.Registration
	g.Go(func() error {
		var errList error
		registrations, errList = s.regRepo.ListByChampionship(gctx, nil, id, nil)
		if errList != nil {
			return fmt.Errorf("failed to list registrations: %w", errList)
		}
		return nil
	})

	var matches []*models.Match
	g.Go(func() error {
		var errList error
		matches, errList = s.matchRepo.ListByChampionship(gctx, nil, id, nil)
		if errList != nil {
			return fmt.Errorf("failed to list matches: %w", errList)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	championship.Registrations = registrationsToValues(registrations)
	championship.Matches = matchesToValues(matches)
	return championship, nil
}

func (s *championshipService) ListChampionships(ctx context.Context, limit, offset int) ([]models.Championship, error) {
	championships, err := s.champRepo.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range championships {
		populateChampionshipLogoURL(&championships[i], s.uploader)
	}
	return championships, nil
}

func (s *championshipService) UpdateChampionship(ctx context.Context, id int, input UpdateChampionshipInput) (*models.Championship, error) {
	championship, err := s.GetChampionshipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		championship.Name = *input.Name
	}
	if input.Description != nil {
		championship.Description = input.Description
	}
	if input.Discipline != nil {
		championship.Discipline = *input.Discipline
	}
	if input.SlotsTotal != nil {
		if *input.SlotsTotal <= 0 {
			return nil, ErrChampionshipInvalidCapacity
		}
		// Shrinking below the already-confirmed count would break the
		// capacity invariant.
		if *input.SlotsTotal < championship.SlotsFilled {
			return nil, fmt.Errorf("%w: %d slots already filled", ErrChampionshipInvalidCapacity, championship.SlotsFilled)
		}
		championship.SlotsTotal = *input.SlotsTotal
	}
	if input.RegistrationDeadline != nil {
		championship.RegistrationDeadline = *input.RegistrationDeadline
	}
	if input.StartDate != nil {
		championship.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		championship.EndDate = *input.EndDate
	}
	if err := validateChampionshipDates(championship.RegistrationDeadline, championship.StartDate, championship.EndDate); err != nil {
		return nil, err
	}

	if err := s.champRepo.Update(ctx, nil, championship); err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return championship, nil
}

// UpdateStatus moves the championship along its lifecycle. Transitions
// outside the allowed map are rejected; admission control reads the
// resulting status as its own precondition.
func (s *championshipService) UpdateStatus(ctx context.Context, id int, next models.ChampionshipStatus) (*models.Championship, error) {
	switch next {
	case models.ChampionshipUpcoming, models.ChampionshipOpen, models.ChampionshipInProgress,
		models.ChampionshipCompleted, models.ChampionshipCanceled:
	default:
		return nil, ErrInvalidChampionshipStatus
	}

	championship, err := s.GetChampionshipByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidChampionshipStatusTransition(championship.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidChampionshipStatusTransition, championship.Status, next)
	}
	if championship.Status == next {
		return championship, nil
	}

	if err := s.champRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}

	s.logger.Info("championship status changed",
		slog.Int("championship_id", id),
		slog.String("from", string(championship.Status)),
		slog.String("to", string(next)))

	championship.Status = next
	return championship, nil
}

func (s *championshipService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Championship, error) {
	championship, err := s.GetChampionshipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("championships/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload championship logo: %w", err)
	}

	if err := s.champRepo.UpdateLogoKey(ctx, nil, id, &result.Key); err != nil {
		return nil, err
	}
	championship.LogoKey = &result.Key
	populateChampionshipLogoURL(championship, s.uploader)
	return championship, nil
}

func (s *championshipService) DeleteChampionship(ctx context.Context, id int) error {
	if err := s.champRepo.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return ErrChampionshipNotFound
		}
		return err
	}
	return nil
}
