package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/esportsfed/platform/live"
	"github.com/esportsfed/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	txRunner  *fakeTxRunner
	matchRepo *fakeMatchRepo
	teamRepo  *fakeTeamRepo
	champRepo *fakeChampionshipRepo
	hub       *recordingBroadcaster
	svc       MatchService
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	f := &matchFixture{
		txRunner:  &fakeTxRunner{},
		matchRepo: newFakeMatchRepo(),
		teamRepo:  newFakeTeamRepo(),
		champRepo: newFakeChampionshipRepo(),
		hub:       &recordingBroadcaster{},
	}
	standings := NewStandingsService(f.teamRepo, newFakeRegistrationRepo())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewMatchService(f.txRunner, f.matchRepo, f.teamRepo, f.champRepo, standings, f.hub, logger)
	return f
}

func (f *matchFixture) seedMatch(t *testing.T) (*models.Match, *models.Team, *models.Team) {
	t.Helper()
	f.champRepo.add(&models.Championship{ID: 1, Name: "Spring Cup", Status: models.ChampionshipInProgress})
	teamA := f.teamRepo.add(&models.Team{Name: "Alpha"})
	teamB := f.teamRepo.add(&models.Team{Name: "Bravo"})
	match := f.matchRepo.add(&models.Match{
		ChampionshipID: 1,
		TeamAID:        teamA.ID,
		TeamBID:        teamB.ID,
		ScheduledAt:    time.Now(),
		Status:         models.MatchScheduled,
	})
	return match, teamA, teamB
}

func TestFinalizeMatchWin(t *testing.T) {
	f := newMatchFixture(t)
	match, teamA, teamB := f.seedMatch(t)

	settled, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, 3, 1)
	require.NoError(t, err)

	require.NotNil(t, settled.WinnerTeamID)
	assert.Equal(t, teamA.ID, *settled.WinnerTeamID)
	assert.Equal(t, models.MatchFinished, settled.Status)

	assert.Equal(t, 1, teamA.Wins)
	assert.Equal(t, 3, teamA.Points)
	assert.Equal(t, 0, teamA.Losses)
	assert.Equal(t, 1, teamB.Losses)
	assert.Equal(t, 0, teamB.Points)

	// The recompute ran inside the settlement transaction.
	assert.Equal(t, 1, teamA.RankPosition)
	assert.Equal(t, 2, teamB.RankPosition)
	assert.Equal(t, 1, f.txRunner.calls)
}

func TestFinalizeMatchDraw(t *testing.T) {
	f := newMatchFixture(t)
	match, teamA, teamB := f.seedMatch(t)

	settled, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, 2, 2)
	require.NoError(t, err)

	assert.Nil(t, settled.WinnerTeamID)
	assert.Equal(t, 1, teamA.Draws)
	assert.Equal(t, 1, teamA.Points)
	assert.Equal(t, 1, teamB.Draws)
	assert.Equal(t, 1, teamB.Points)
}

func TestFinalizeMatchIdempotent(t *testing.T) {
	f := newMatchFixture(t)
	match, teamA, teamB := f.seedMatch(t)

	_, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, 3, 1)
	require.NoError(t, err)

	_, err = f.svc.FinalizeMatch(context.Background(), match.ID, nil, 3, 1)
	assert.ErrorIs(t, err, ErrMatchAlreadyFinished)

	// Ledger effects applied exactly once.
	assert.Equal(t, 1, teamA.Wins)
	assert.Equal(t, 3, teamA.Points)
	assert.Equal(t, 1, teamB.Losses)
}

func TestFinalizeMatchIgnoresAdvisoryWinner(t *testing.T) {
	f := newMatchFixture(t)
	match, teamA, teamB := f.seedMatch(t)

	// Caller claims teamB won, scores say otherwise.
	settled, err := f.svc.FinalizeMatch(context.Background(), match.ID, &teamB.ID, 4, 0)
	require.NoError(t, err)

	require.NotNil(t, settled.WinnerTeamID)
	assert.Equal(t, teamA.ID, *settled.WinnerTeamID)
}

func TestFinalizeMatchRejectsNegativeScore(t *testing.T) {
	f := newMatchFixture(t)
	match, _, _ := f.seedMatch(t)

	_, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.Equal(t, 0, f.txRunner.calls)
}

func TestFinalizeMatchNotFound(t *testing.T) {
	f := newMatchFixture(t)
	_, err := f.svc.FinalizeMatch(context.Background(), 404, nil, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestFinalizeMatchBroadcasts(t *testing.T) {
	f := newMatchFixture(t)
	match, _, _ := f.seedMatch(t)

	_, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, 1, 0)
	require.NoError(t, err)

	require.Len(t, f.hub.messages, 2)
	first, ok := f.hub.messages[0].(live.Message)
	require.True(t, ok)
	assert.Equal(t, live.MessageMatchFinished, first.Type)
	second, ok := f.hub.messages[1].(live.Message)
	require.True(t, ok)
	assert.Equal(t, live.MessageStandingsUpdated, second.Type)
}

func TestCreateMatchRejectsSameTeam(t *testing.T) {
	f := newMatchFixture(t)
	f.seedMatch(t)

	_, err := f.svc.CreateMatch(context.Background(), CreateMatchInput{
		ChampionshipID: 1,
		TeamAID:        1,
		TeamBID:        1,
		ScheduledAt:    time.Now(),
	})
	assert.ErrorIs(t, err, ErrChampionshipTeamsConflict)
}

func TestCancelFinishedMatch(t *testing.T) {
	f := newMatchFixture(t)
	match, _, _ := f.seedMatch(t)

	_, err := f.svc.FinalizeMatch(context.Background(), match.ID, nil, 1, 0)
	require.NoError(t, err)

	err = f.svc.CancelMatch(context.Background(), match.ID)
	assert.ErrorIs(t, err, ErrInvalidMatchTransition)
}

func TestPostponeMatch(t *testing.T) {
	f := newMatchFixture(t)
	match, _, _ := f.seedMatch(t)

	require.NoError(t, f.svc.PostponeMatch(context.Background(), match.ID, nil))
	assert.Equal(t, models.MatchPostponed, match.Status)

	// A postponed match can still be canceled but not postponed again.
	assert.ErrorIs(t, f.svc.PostponeMatch(context.Background(), match.ID, nil), ErrInvalidMatchTransition)
	require.NoError(t, f.svc.CancelMatch(context.Background(), match.ID))
}
