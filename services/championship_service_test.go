package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChampionshipService(champRepo *fakeChampionshipRepo) ChampionshipService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChampionshipService(champRepo, newFakeRegistrationRepo(), newFakeMatchRepo(), nil, logger)
}

func validCreateInput() CreateChampionshipInput {
	start := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	return CreateChampionshipInput{
		Name:                 "Autumn Invitational",
		Discipline:           "cs2",
		OrganizerID:          1,
		SlotsTotal:           16,
		RegistrationDeadline: start.Add(-48 * time.Hour),
		StartDate:            start,
		EndDate:              start.Add(72 * time.Hour),
	}
}

func TestCreateChampionship(t *testing.T) {
	svc := newChampionshipService(newFakeChampionshipRepo())

	champ, err := svc.CreateChampionship(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, models.ChampionshipUpcoming, champ.Status)
	assert.Equal(t, "autumn-invitational", champ.Slug)
	assert.Equal(t, 0, champ.SlotsFilled)
}

func TestCreateChampionshipValidation(t *testing.T) {
	svc := newChampionshipService(newFakeChampionshipRepo())

	t.Run("slots must be positive", func(t *testing.T) {
		input := validCreateInput()
		input.SlotsTotal = 0
		_, err := svc.CreateChampionship(context.Background(), input)
		assert.ErrorIs(t, err, ErrChampionshipInvalidCapacity)
	})

	t.Run("deadline after start", func(t *testing.T) {
		input := validCreateInput()
		input.RegistrationDeadline = input.StartDate.Add(time.Hour)
		_, err := svc.CreateChampionship(context.Background(), input)
		assert.ErrorIs(t, err, ErrChampionshipInvalidDeadline)
	})

	t.Run("end before start", func(t *testing.T) {
		input := validCreateInput()
		input.EndDate = input.StartDate.Add(-time.Hour)
		_, err := svc.CreateChampionship(context.Background(), input)
		assert.ErrorIs(t, err, ErrChampionshipInvalidDateRange)
	})
}

func TestChampionshipStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.ChampionshipStatus
		to      models.ChampionshipStatus
		allowed bool
	}{
		{models.ChampionshipUpcoming, models.ChampionshipOpen, true},
		{models.ChampionshipUpcoming, models.ChampionshipCanceled, true},
		{models.ChampionshipUpcoming, models.ChampionshipInProgress, false},
		{models.ChampionshipUpcoming, models.ChampionshipCompleted, false},
		{models.ChampionshipOpen, models.ChampionshipInProgress, true},
		{models.ChampionshipOpen, models.ChampionshipCanceled, true},
		{models.ChampionshipOpen, models.ChampionshipUpcoming, false},
		{models.ChampionshipOpen, models.ChampionshipCompleted, false},
		{models.ChampionshipInProgress, models.ChampionshipCompleted, true},
		{models.ChampionshipInProgress, models.ChampionshipCanceled, true},
		{models.ChampionshipInProgress, models.ChampionshipOpen, false},
		{models.ChampionshipCompleted, models.ChampionshipCanceled, false},
		{models.ChampionshipCompleted, models.ChampionshipOpen, false},
		{models.ChampionshipCanceled, models.ChampionshipOpen, false},
	}

	for _, tc := range cases {
		name := string(tc.from) + " to " + string(tc.to)
		t.Run(name, func(t *testing.T) {
			champRepo := newFakeChampionshipRepo()
			champ := champRepo.add(&models.Championship{Name: "Cup", Status: tc.from})
			svc := newChampionshipService(champRepo)

			updated, err := svc.UpdateStatus(context.Background(), champ.ID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, updated.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidChampionshipStatusTransition)
				assert.Equal(t, tc.from, champ.Status)
			}
		})
	}
}

func TestChampionshipStatusSelfTransition(t *testing.T) {
	champRepo := newFakeChampionshipRepo()
	champ := champRepo.add(&models.Championship{Name: "Cup", Status: models.ChampionshipOpen})
	svc := newChampionshipService(champRepo)

	updated, err := svc.UpdateStatus(context.Background(), champ.ID, models.ChampionshipOpen)
	require.NoError(t, err)
	assert.Equal(t, models.ChampionshipOpen, updated.Status)
}

func TestChampionshipStatusUnknownValue(t *testing.T) {
	champRepo := newFakeChampionshipRepo()
	champ := champRepo.add(&models.Championship{Name: "Cup", Status: models.ChampionshipOpen})
	svc := newChampionshipService(champRepo)

	_, err := svc.UpdateStatus(context.Background(), champ.ID, models.ChampionshipStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidChampionshipStatus)
}

func TestUpdateChampionshipCannotShrinkBelowFilled(t *testing.T) {
	champRepo := newFakeChampionshipRepo()
	champ := champRepo.add(&models.Championship{
		Name:                 "Cup",
		Status:               models.ChampionshipOpen,
		SlotsTotal:           16,
		SlotsFilled:          10,
		RegistrationDeadline: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartDate:            time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	})
	svc := newChampionshipService(champRepo)

	smaller := 8
	_, err := svc.UpdateChampionship(context.Background(), champ.ID, UpdateChampionshipInput{SlotsTotal: &smaller})
	assert.ErrorIs(t, err, ErrChampionshipInvalidCapacity)

	larger := 32
	updated, err := svc.UpdateChampionship(context.Background(), champ.ID, UpdateChampionshipInput{SlotsTotal: &larger})
	require.NoError(t, err)
	assert.Equal(t, 32, updated.SlotsTotal)
}
