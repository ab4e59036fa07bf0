package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
)

// StandingsService owns the federation ranking table. The recompute is a
// full pass over every team: O(n log n), invoked after each settlement.
// An incremental re-rank could replace RecomputeAll behind the same
// signature, but would change the visible order of teams tied on both
// points and wins, so it is deliberately not implemented.
type StandingsService interface {
	RecomputeAll(ctx context.Context, exec repositories.SQLExecutor) error
	FederationTable(ctx context.Context) ([]*models.Team, error)
	ChampionshipTable(ctx context.Context, championshipID int) ([]*models.Team, error)
}

type standingsService struct {
	teamRepo repositories.TeamRepository
	regRepo  repositories.RegistrationRepository
}

func NewStandingsService(
	teamRepo repositories.TeamRepository,
	regRepo repositories.RegistrationRepository,
) StandingsService {
	return &standingsService{
		teamRepo: teamRepo,
		regRepo:  regRepo,
	}
}

// RankTeams orders teams by points descending, then wins descending, and
// assigns 1-based positions. Each team's old position is preserved in
// PreviousRankPosition before being overwritten, so callers get a
// moved-up/moved-down signal for free.
//
// Teams tied on both points and wins keep their relative input order
// (the sort is stable). That order depends on how the caller enumerated
// the teams, which is a known limitation, not a tie-break rule.
func RankTeams(teams []*models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Points != teams[j].Points {
			return teams[i].Points > teams[j].Points
		}
		return teams[i].Wins > teams[j].Wins
	})
	for i, team := range teams {
		team.PreviousRankPosition = team.RankPosition
		team.RankPosition = i + 1
	}
}

// RecomputeAll reloads every team, re-ranks them and persists the new
// positions. When exec is a transaction the whole recompute commits or
// rolls back with the caller's operation.
func (s *standingsService) RecomputeAll(ctx context.Context, exec repositories.SQLExecutor) error {
	teams, err := s.teamRepo.GetAll(ctx, exec)
	if err != nil {
		return fmt.Errorf("failed to load teams for ranking: %w", err)
	}
	RankTeams(teams)
	if err := s.teamRepo.UpdateRanks(ctx, exec, teams); err != nil {
		return fmt.Errorf("failed to persist rankings: %w", err)
	}
	return nil
}

func (s *standingsService) FederationTable(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load federation table: %w", err)
	}
	sortByRecord(teams)
	return teams, nil
}

// ChampionshipTable filters the federation table down to the teams with
// an approved registration in the given championship. Positions are the
// federation-wide ones; only the selection is scoped.
func (s *standingsService) ChampionshipTable(ctx context.Context, championshipID int) ([]*models.Team, error) {
	approved := models.RegistrationApproved
	registrations, err := s.regRepo.ListByChampionship(ctx, nil, championshipID, &approved)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations for championship %d: %w", championshipID, err)
	}

	teams := make([]*models.Team, 0, len(registrations))
	for _, reg := range registrations {
		team, err := s.teamRepo.GetByID(ctx, nil, reg.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team %d: %w", reg.TeamID, err)
		}
		teams = append(teams, team)
	}
	sortByRecord(teams)
	return teams, nil
}

// sortByRecord applies the ranking order without reassigning positions.
func sortByRecord(teams []*models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Points != teams[j].Points {
			return teams[i].Points > teams[j].Points
		}
		return teams[i].Wins > teams[j].Wins
	})
}
