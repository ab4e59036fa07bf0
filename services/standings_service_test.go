package services

import (
	"context"
	"testing"

	"github.com/esportsfed/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTeams(t *testing.T) {
	t.Run("orders by points then wins", func(t *testing.T) {
		alpha := &models.Team{ID: 1, Name: "Alpha", Points: 10, Wins: 2}
		bravo := &models.Team{ID: 2, Name: "Bravo", Points: 10, Wins: 3}
		charlie := &models.Team{ID: 3, Name: "Charlie", Points: 7, Wins: 1}

		teams := []*models.Team{alpha, bravo, charlie}
		RankTeams(teams)

		assert.Equal(t, "Bravo", teams[0].Name)
		assert.Equal(t, "Alpha", teams[1].Name)
		assert.Equal(t, "Charlie", teams[2].Name)
		assert.Equal(t, 1, bravo.RankPosition)
		assert.Equal(t, 2, alpha.RankPosition)
		assert.Equal(t, 3, charlie.RankPosition)
	})

	t.Run("preserves input order for full ties", func(t *testing.T) {
		first := &models.Team{ID: 1, Points: 5, Wins: 1}
		second := &models.Team{ID: 2, Points: 5, Wins: 1}

		teams := []*models.Team{first, second}
		RankTeams(teams)

		assert.Equal(t, 1, first.RankPosition)
		assert.Equal(t, 2, second.RankPosition)
	})

	t.Run("captures previous positions before reassigning", func(t *testing.T) {
		leader := &models.Team{ID: 1, Points: 3, RankPosition: 2}
		chaser := &models.Team{ID: 2, Points: 6, RankPosition: 1}

		RankTeams([]*models.Team{leader, chaser})

		assert.Equal(t, 2, leader.RankPosition)
		assert.Equal(t, 2, leader.PreviousRankPosition)
		assert.Equal(t, 1, chaser.RankPosition)
		assert.Equal(t, 1, chaser.PreviousRankPosition)

		// Now invert the balance and re-rank: previous positions must
		// reflect the standings before this recompute.
		leader.Points = 9
		RankTeams([]*models.Team{leader, chaser})

		assert.Equal(t, 1, leader.RankPosition)
		assert.Equal(t, 2, leader.PreviousRankPosition)
		assert.Equal(t, 2, chaser.RankPosition)
		assert.Equal(t, 1, chaser.PreviousRankPosition)
	})

	t.Run("unranked teams start from zero previous position", func(t *testing.T) {
		rookie := &models.Team{ID: 1}
		RankTeams([]*models.Team{rookie})

		assert.Equal(t, 1, rookie.RankPosition)
		assert.Equal(t, 0, rookie.PreviousRankPosition)
	})
}

func TestStandingsServiceRecomputeAll(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	regRepo := newFakeRegistrationRepo()

	teamRepo.add(&models.Team{Name: "Alpha", Points: 4, Wins: 1})
	teamRepo.add(&models.Team{Name: "Bravo", Points: 9, Wins: 3})
	teamRepo.add(&models.Team{Name: "Charlie", Points: 4, Wins: 2})

	svc := NewStandingsService(teamRepo, regRepo)
	require.NoError(t, svc.RecomputeAll(context.Background(), nil))

	table, err := svc.FederationTable(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, "Bravo", table[0].Name)
	assert.Equal(t, 1, table[0].RankPosition)
	assert.Equal(t, "Charlie", table[1].Name)
	assert.Equal(t, 2, table[1].RankPosition)
	assert.Equal(t, "Alpha", table[2].Name)
	assert.Equal(t, 3, table[2].RankPosition)
}

func TestStandingsServiceChampionshipTable(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	regRepo := newFakeRegistrationRepo()

	inTable := teamRepo.add(&models.Team{Name: "Alpha", Points: 6, RankPosition: 1})
	outOfTable := teamRepo.add(&models.Team{Name: "Bravo", Points: 3, RankPosition: 2})
	pendingOnly := teamRepo.add(&models.Team{Name: "Charlie", Points: 9})

	regRepo.add(&models.Registration{ChampionshipID: 7, TeamID: inTable.ID, Status: models.RegistrationApproved})
	regRepo.add(&models.Registration{ChampionshipID: 7, TeamID: pendingOnly.ID, Status: models.RegistrationPending})
	regRepo.add(&models.Registration{ChampionshipID: 8, TeamID: outOfTable.ID, Status: models.RegistrationApproved})

	svc := NewStandingsService(teamRepo, regRepo)
	table, err := svc.ChampionshipTable(context.Background(), 7)
	require.NoError(t, err)

	// Only the approved entry of championship 7 makes the cut.
	require.Len(t, table, 1)
	assert.Equal(t, "Alpha", table[0].Name)
	assert.Equal(t, 1, table[0].RankPosition)
}
