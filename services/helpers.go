package services

import (
	"fmt"
	"time"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateChampionshipDates(deadline, start, end time.Time) error {
	if deadline.IsZero() || start.IsZero() || end.IsZero() {
		return ErrChampionshipDatesRequired
	}
	if deadline.After(start) {
		return fmt.Errorf("%w: deadline (%s) is after start date (%s)",
			ErrChampionshipInvalidDeadline, deadline.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) must be before end date (%s)",
			ErrChampionshipInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidChampionshipStatusTransition(current, next models.ChampionshipStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.ChampionshipStatus][]models.ChampionshipStatus{
		models.ChampionshipUpcoming:   {models.ChampionshipOpen, models.ChampionshipCanceled},
		models.ChampionshipOpen:       {models.ChampionshipInProgress, models.ChampionshipCanceled},
		models.ChampionshipInProgress: {models.ChampionshipCompleted, models.ChampionshipCanceled},
		models.ChampionshipCompleted:  {},
		models.ChampionshipCanceled:   {},
	}
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateChampionshipLogoURL(c *models.Championship, uploader storage.FileUploader) {
	if c != nil && c.LogoKey != nil && *c.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*c.LogoKey)
		if url != "" {
			c.LogoURL = &url
		}
	}
}

func registrationsToValues(slice []*models.Registration) []models.Registration {
	if slice == nil {
		return []models.Registration{}
	}
	result := make([]models.Registration, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}

func matchesToValues(slice []*models.Match) []models.Match {
	if slice == nil {
		return []models.Match{}
	}
	result := make([]models.Match, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}
