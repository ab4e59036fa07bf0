package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/esportsfed/platform/live"
	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
)

// League scoring: win 3, draw 1, loss 0.
const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// Broadcaster pushes settlement results to live subscribers. *live.Hub
// satisfies it; a nil broadcaster disables pushes.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByChampionship(ctx context.Context, championshipID int, statusFilter *models.MatchStatus) ([]*models.Match, error)
	FinalizeMatch(ctx context.Context, matchID int, winnerTeamID *int, scoreA, scoreB int) (*models.Match, error)
	PostponeMatch(ctx context.Context, matchID int, newTime *time.Time) error
	CancelMatch(ctx context.Context, matchID int) error
}

type CreateMatchInput struct {
	ChampionshipID int
	TeamAID        int
	TeamBID        int
	ScheduledAt    time.Time
}

type matchService struct {
	txRunner  repositories.TxRunner
	matchRepo repositories.MatchRepository
	teamRepo  repositories.TeamRepository
	champRepo repositories.ChampionshipRepository
	standings StandingsService
	hub       Broadcaster
	logger    *slog.Logger
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	champRepo repositories.ChampionshipRepository,
	standings StandingsService,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:  txRunner,
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		champRepo: champRepo,
		standings: standings,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.TeamAID == input.TeamBID {
		return nil, ErrChampionshipTeamsConflict
	}
	if _, err := s.champRepo.GetByID(ctx, nil, input.ChampionshipID); err != nil {
		return nil, mapChampionshipRepoError(err)
	}
	for _, teamID := range []int{input.TeamAID, input.TeamBID} {
		if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
	}

	match := &models.Match{
		ChampionshipID: input.ChampionshipID,
		TeamAID:        input.TeamAID,
		TeamBID:        input.TeamBID,
		ScheduledAt:    input.ScheduledAt,
		Status:         models.MatchScheduled,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchChampionshipInvalid):
			return nil, ErrChampionshipNotFound
		case errors.Is(err, repositories.ErrMatchTeamInvalid):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrMatchSameTeam):
			return nil, ErrChampionshipTeamsConflict
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListMatchesByChampionship(ctx context.Context, championshipID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByChampionship(ctx, nil, championshipID, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for championship %d: %w", championshipID, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// FinalizeMatch settles a match with its final score. The status flip,
// both team record updates and the full ranking recompute happen inside
// one transaction; the commit is the atomicity boundary, so a failure on
// any write leaves no visible partial effect.
//
// The winner is derived from the score comparison. The caller-supplied
// winnerTeamID is display-level denormalization only; when it disagrees
// with the scores it is discarded.
//
// The championship status is intentionally not checked here: a finalize
// call succeeds even for a canceled or completed championship.
func (s *matchService) FinalizeMatch(ctx context.Context, matchID int, winnerTeamID *int, scoreA, scoreB int) (*models.Match, error) {
	if scoreA < 0 || scoreB < 0 {
		return nil, ErrInvalidScore
	}

	var settled *models.Match
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if match.Status == models.MatchFinished || match.Status == models.MatchCanceled {
			return ErrMatchAlreadyFinished
		}

		winner := resolveWinner(match, scoreA, scoreB)
		if winnerTeamID != nil && (winner == nil || *winnerTeamID != *winner) {
			s.logger.Warn("advisory winner disagrees with score, using score comparison",
				slog.Int("match_id", matchID),
				slog.Int("claimed_winner", *winnerTeamID))
		}

		// Conditional update: a concurrent finalize that got past the
		// status read above loses here and rolls back.
		if err := s.matchRepo.Finalize(ctx, exec, matchID, scoreA, scoreB, winner); err != nil {
			if errors.Is(err, repositories.ErrMatchNotSettleable) {
				return ErrMatchAlreadyFinished
			}
			return err
		}

		teamA, err := s.teamRepo.GetByID(ctx, exec, match.TeamAID)
		if err != nil {
			return fmt.Errorf("failed to load team %d: %w", match.TeamAID, err)
		}
		teamB, err := s.teamRepo.GetByID(ctx, exec, match.TeamBID)
		if err != nil {
			return fmt.Errorf("failed to load team %d: %w", match.TeamBID, err)
		}

		applyScore(teamA, teamB, scoreA, scoreB)

		if err := s.teamRepo.UpdateRecord(ctx, exec, teamA); err != nil {
			return fmt.Errorf("failed to update record of team %d: %w", teamA.ID, err)
		}
		if err := s.teamRepo.UpdateRecord(ctx, exec, teamB); err != nil {
			return fmt.Errorf("failed to update record of team %d: %w", teamB.ID, err)
		}

		// Recompute inside the same transaction so callers observing the
		// response already see up-to-date positions.
		if err := s.standings.RecomputeAll(ctx, exec); err != nil {
			return err
		}

		match.ScoreA = &scoreA
		match.ScoreB = &scoreB
		match.WinnerTeamID = winner
		match.Status = models.MatchFinished
		settled = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match finalized",
		slog.Int("match_id", settled.ID),
		slog.Int("championship_id", settled.ChampionshipID),
		slog.Int("score_a", scoreA),
		slog.Int("score_b", scoreB))

	s.broadcastSettlement(ctx, settled)
	return settled, nil
}

func (s *matchService) PostponeMatch(ctx context.Context, matchID int, newTime *time.Time) error {
	from := []models.MatchStatus{models.MatchScheduled, models.MatchInProgress}
	err := s.matchRepo.UpdateStatus(ctx, nil, matchID, from, models.MatchPostponed)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotSettleable) {
			return ErrInvalidMatchTransition
		}
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

func (s *matchService) CancelMatch(ctx context.Context, matchID int) error {
	from := []models.MatchStatus{models.MatchScheduled, models.MatchInProgress, models.MatchPostponed}
	err := s.matchRepo.UpdateStatus(ctx, nil, matchID, from, models.MatchCanceled)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotSettleable) {
			return ErrInvalidMatchTransition
		}
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	return nil
}

// resolveWinner derives the winning team from the final score; nil means
// a draw.
func resolveWinner(match *models.Match, scoreA, scoreB int) *int {
	switch {
	case scoreA > scoreB:
		return &match.TeamAID
	case scoreB > scoreA:
		return &match.TeamBID
	default:
		return nil
	}
}

// applyScore mutates both teams' accumulators exactly once per settled
// match.
func applyScore(teamA, teamB *models.Team, scoreA, scoreB int) {
	switch {
	case scoreA > scoreB:
		teamA.Wins++
		teamA.Points += pointsPerWin
		teamB.Losses++
	case scoreB > scoreA:
		teamB.Wins++
		teamB.Points += pointsPerWin
		teamA.Losses++
	default:
		teamA.Draws++
		teamA.Points += pointsPerDraw
		teamB.Draws++
		teamB.Points += pointsPerDraw
	}
}

func (s *matchService) broadcastSettlement(ctx context.Context, match *models.Match) {
	if s.hub == nil {
		return
	}
	room := strconv.Itoa(match.ChampionshipID)
	s.hub.BroadcastToRoom(room, live.Message{
		Type:    live.MessageMatchFinished,
		Payload: match,
		RoomID:  room,
	})

	table, err := s.standings.FederationTable(ctx)
	if err != nil {
		s.logger.Error("failed to load standings for broadcast", slog.Any("error", err))
		return
	}
	s.hub.BroadcastToRoom(room, live.Message{
		Type:    live.MessageStandingsUpdated,
		Payload: table,
		RoomID:  room,
	})
}

func mapChampionshipRepoError(err error) error {
	if errors.Is(err, repositories.ErrChampionshipNotFound) {
		return ErrChampionshipNotFound
	}
	return err
}
