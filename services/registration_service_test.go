package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	txRunner  *fakeTxRunner
	regRepo   *fakeRegistrationRepo
	champRepo *fakeChampionshipRepo
	teamRepo  *fakeTeamRepo
	svc       *registrationService
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	f := &registrationFixture{
		txRunner:  &fakeTxRunner{},
		regRepo:   newFakeRegistrationRepo(),
		champRepo: newFakeChampionshipRepo(),
		teamRepo:  newFakeTeamRepo(),
	}
	svc := NewRegistrationService(f.txRunner, f.regRepo, f.champRepo, f.teamRepo)
	f.svc = svc.(*registrationService)
	return f
}

func (f *registrationFixture) seedOpenChampionship(slots int) *models.Championship {
	return f.champRepo.add(&models.Championship{
		Name:                 "Summer Open",
		Slug:                 "summer-open",
		Status:               models.ChampionshipOpen,
		SlotsTotal:           slots,
		RegistrationDeadline: time.Now().Add(24 * time.Hour),
	})
}

func TestSubmitRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	reg, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationPending, reg.Status)
	assert.NotZero(t, reg.ID)
	// Submission does not consume a slot.
	assert.Equal(t, 0, champ.SlotsFilled)
}

func TestSubmitRegistrationClosed(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	champ.Status = models.ChampionshipUpcoming
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	_, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestSubmitRegistrationDeadlinePassed(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	f.svc.now = func() time.Time { return champ.RegistrationDeadline.Add(time.Minute) }

	_, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	})
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestSubmitRegistrationAtDeadline(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	// The deadline instant itself is still accepted.
	f.svc.now = func() time.Time { return champ.RegistrationDeadline }

	_, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	})
	assert.NoError(t, err)
}

func TestSubmitRegistrationDuplicate(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	input := SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	}
	_, err := f.svc.SubmitRegistration(context.Background(), input)
	require.NoError(t, err)

	_, err = f.svc.SubmitRegistration(context.Background(), input)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestSubmitRegistrationUnknownChampionship(t *testing.T) {
	f := newRegistrationFixture(t)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})

	_, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: 404,
		TeamID:         team.ID,
		ContactEmail:   "captain@alpha.gg",
	})
	assert.ErrorIs(t, err, ErrChampionshipNotFound)
}

func TestApproveRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	team := f.teamRepo.add(&models.Team{Name: "Alpha"})
	reg := f.regRepo.add(&models.Registration{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		Status:         models.RegistrationPending,
	})

	approved, err := f.svc.ApproveRegistration(context.Background(), reg.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationApproved, approved.Status)
	assert.Equal(t, 1, champ.SlotsFilled)
	assert.Equal(t, 1, f.txRunner.calls)
}

func TestApproveRegistrationNotPending(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	reg := f.regRepo.add(&models.Registration{
		ChampionshipID: champ.ID,
		TeamID:         1,
		Status:         models.RegistrationRejected,
	})

	_, err := f.svc.ApproveRegistration(context.Background(), reg.ID)
	assert.ErrorIs(t, err, ErrInvalidRegistrationTransition)
	assert.Equal(t, 0, champ.SlotsFilled)
}

func TestApproveRegistrationCapacity(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(2)

	var regs []*models.Registration
	for i := 0; i < 3; i++ {
		team := f.teamRepo.add(&models.Team{Name: fmt.Sprintf("Team %d", i)})
		regs = append(regs, f.regRepo.add(&models.Registration{
			ChampionshipID: champ.ID,
			TeamID:         team.ID,
			Status:         models.RegistrationPending,
		}))
	}

	_, err := f.svc.ApproveRegistration(context.Background(), regs[0].ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveRegistration(context.Background(), regs[1].ID)
	require.NoError(t, err)

	// Third approval hits the slot ceiling and leaves the registration
	// pending.
	_, err = f.svc.ApproveRegistration(context.Background(), regs[2].ID)
	assert.ErrorIs(t, err, ErrChampionshipFull)
	assert.Equal(t, 2, champ.SlotsFilled)
	assert.Equal(t, models.RegistrationPending, regs[2].Status)
}

func TestAdmissionEndToEnd(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(2)

	submit := func(name string) *models.Registration {
		team := f.teamRepo.add(&models.Team{Name: name})
		reg, err := f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
			ChampionshipID: champ.ID,
			TeamID:         team.ID,
			ContactEmail:   "captain@" + name + ".gg",
		})
		require.NoError(t, err)
		return reg
	}

	// All three submissions land as pending: capacity is spent on
	// approval, not submission.
	regA := submit("alpha")
	regB := submit("bravo")
	regC := submit("charlie")
	assert.Equal(t, 0, champ.SlotsFilled)

	_, err := f.svc.ApproveRegistration(context.Background(), regA.ID)
	require.NoError(t, err)
	_, err = f.svc.ApproveRegistration(context.Background(), regB.ID)
	require.NoError(t, err)

	_, err = f.svc.ApproveRegistration(context.Background(), regC.ID)
	assert.ErrorIs(t, err, ErrChampionshipFull)
	assert.Equal(t, models.RegistrationPending, regC.Status)
	assert.Equal(t, 2, champ.SlotsFilled)

	// Once full, new submissions are refused outright.
	team := f.teamRepo.add(&models.Team{Name: "delta"})
	_, err = f.svc.SubmitRegistration(context.Background(), SubmitRegistrationInput{
		ChampionshipID: champ.ID,
		TeamID:         team.ID,
		ContactEmail:   "captain@delta.gg",
	})
	assert.ErrorIs(t, err, ErrChampionshipFull)
}

func TestRejectRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	champ := f.seedOpenChampionship(8)
	reg := f.regRepo.add(&models.Registration{
		ChampionshipID: champ.ID,
		TeamID:         1,
		Status:         models.RegistrationPending,
	})

	reason := "incomplete roster"
	rejected, err := f.svc.RejectRegistration(context.Background(), reg.ID, &reason)
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationRejected, rejected.Status)
	require.NotNil(t, rejected.RejectReason)
	assert.Equal(t, reason, *rejected.RejectReason)
	assert.Equal(t, 0, champ.SlotsFilled)

	// Terminal: a rejected registration cannot be approved afterwards.
	_, err = f.svc.ApproveRegistration(context.Background(), reg.ID)
	assert.ErrorIs(t, err, ErrInvalidRegistrationTransition)
}
