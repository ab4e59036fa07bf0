package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
	"github.com/esportsfed/platform/storage"
	"github.com/esportsfed/platform/utils"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	GetTeamBySlug(ctx context.Context, slug string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
	AddPlayer(ctx context.Context, teamID int, input AddPlayerInput) (*models.Player, error)
	RemovePlayer(ctx context.Context, teamID, playerID int) error
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name      string
	CaptainID *int
}

type UpdateTeamInput struct {
	Name      *string
	CaptainID *int
}

type AddPlayerInput struct {
	Handle   string
	UserID   *int
	RealName *string
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	userRepo   repositories.UserRepository
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		userRepo:   userRepo,
		uploader:   uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.CaptainID != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.CaptainID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	team := &models.Team{
		Name:      input.Name,
		Slug:      utils.Slugify(input.Name),
		CaptainID: input.CaptainID,
	}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) || errors.Is(err, repositories.ErrTeamSlugConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for team %d: %w", id, err)
	}
	team.Players = players
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) GetTeamBySlug(ctx context.Context, slug string) (*models.Team, error) {
	team, err := s.teamRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		populateTeamLogoURL(team, s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = *input.Name
		team.Slug = utils.Slugify(*input.Name)
	}
	if input.CaptainID != nil {
		team.CaptainID = input.CaptainID
	}

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) || errors.Is(err, repositories.ErrTeamSlugConflict) {
			return nil, ErrTeamNameConflict
		}
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		// A team referenced by matches or registrations stays.
		if errors.Is(err, repositories.ErrTeamInUse) {
			return ErrForbiddenOperation
		}
		return err
	}
	return nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID int, input AddPlayerInput) (*models.Player, error) {
	if input.Handle == "" {
		return nil, fmt.Errorf("%w: player handle is required", ErrValidationFailed)
	}
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	player := &models.Player{
		TeamID:   teamID,
		UserID:   input.UserID,
		Handle:   input.Handle,
		RealName: input.RealName,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *teamService) RemovePlayer(ctx context.Context, teamID, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if player.TeamID != teamID {
		return ErrPlayerNotFound
	}
	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, nil, id, &result.Key); err != nil {
		return nil, err
	}
	team.LogoKey = &result.Key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}
