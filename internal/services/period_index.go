package services

import "github.com/terraincognita07/redrecon/internal/models"

// FindContainingPeriod returns the actual period containing date, or nil.
// An open period runs through today and never into the future. When several
// periods overlap the one with the latest start wins.
func FindContainingPeriod(periods []models.PeriodLog, date models.CivilDate, today models.CivilDate) *models.PeriodLog {
	var found *models.PeriodLog
	for index := range periods {
		period := &periods[index]
		if !periodContains(period, date, today) {
			continue
		}
		if found == nil || period.StartDate.After(found.StartDate) {
			found = period
		}
	}
	return found
}

func periodContains(period *models.PeriodLog, date models.CivilDate, today models.CivilDate) bool {
	if period.IsPredicted || date.Before(period.StartDate) {
		return false
	}
	if period.EndDate != nil {
		return !date.After(*period.EndDate)
	}
	return !date.After(today)
}

func IsPeriodStartDate(period *models.PeriodLog, date models.CivilDate) bool {
	return period != nil && period.StartDate.Equal(date)
}

func IsPeriodEndDate(period *models.PeriodLog, date models.CivilDate) bool {
	return period != nil && period.EndDate != nil && period.EndDate.Equal(date)
}

// LatestActualPeriodStart returns the most recent non-predicted start date.
func LatestActualPeriodStart(periods []models.PeriodLog) (models.CivilDate, bool) {
	latest := models.CivilDate{}
	found := false
	for _, period := range periods {
		if period.IsPredicted {
			continue
		}
		if !found || period.StartDate.After(latest) {
			latest = period.StartDate
			found = true
		}
	}
	return latest, found
}

// ResolveCycleAnchor picks the day-1 reference for projections: the later of
// the latest logged period and the profile's bootstrap start.
func ResolveCycleAnchor(periods []models.PeriodLog, profile *models.Partner) *models.CivilDate {
	latest, found := LatestActualPeriodStart(periods)
	if profile != nil && profile.LastPeriodStart != nil && !profile.LastPeriodStart.IsZero() {
		if !found || profile.LastPeriodStart.After(latest) {
			latest = *profile.LastPeriodStart
			found = true
		}
	}
	if !found {
		return nil
	}
	return &latest
}
