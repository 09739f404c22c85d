package services

import (
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
)

// DailyLogIndex maps each logged day to its mood ("" when no mood was set).
type DailyLogIndex map[models.CivilDate]string

func NewDailyLogIndex(logs []models.DailyLog) DailyLogIndex {
	index := make(DailyLogIndex, len(logs))
	for _, entry := range logs {
		index[entry.LogDate] = entry.Mood
	}
	return index
}

type CalendarDayCell struct {
	Date              models.CivilDate `json:"date"`
	CycleDay          *int             `json:"cycle_day"`
	Phase             CyclePhase       `json:"phase"`
	IsPeriod          bool             `json:"is_period"`
	IsPredictedPeriod bool             `json:"is_predicted_period"`
	HasLog            bool             `json:"has_daily_log"`
	Mood              *string          `json:"mood"`
}

// BuildCalendarMonth annotates every day of the month, in date order.
// Actual period days are never also marked as predicted.
func BuildCalendarMonth(year int, month time.Month, periods []models.PeriodLog, profile *models.Partner, logs DailyLogIndex, today models.CivilDate) []CalendarDayCell {
	cycleLength, periodLength := models.DefaultCycleLength, models.DefaultPeriodLength
	if profile != nil {
		cycleLength, periodLength = profile.AverageCycleLength, profile.AveragePeriodLength
	}

	anchor := ResolveCycleAnchor(periods, profile)
	predictedDays := predictedPeriodDays(anchor, cycleLength, periodLength, periods)

	daysInMonth := models.DaysInMonth(year, month)
	cells := make([]CalendarDayCell, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := models.NewCivilDate(year, month, day)
		projection := ProjectCycle(dayAnchor(anchor, periods, date), cycleLength, periodLength, date)

		cell := CalendarDayCell{
			Date:     date,
			Phase:    projection.Phase,
			IsPeriod: FindContainingPeriod(periods, date, today) != nil,
		}
		if projection.Anchor != nil {
			cycleDay := projection.CurrentDay
			cell.CycleDay = &cycleDay
		}
		cell.IsPredictedPeriod = !cell.IsPeriod && predictedDays[date]
		if mood, ok := logs[date]; ok {
			cell.HasLog = true
			if mood != "" {
				moodValue := mood
				cell.Mood = &moodValue
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

// dayAnchor picks the period start a calendar day is counted from. Days before
// the current anchor fall back to the latest actual start on or before them,
// and days before every known start have no anchor.
func dayAnchor(anchor *models.CivilDate, periods []models.PeriodLog, date models.CivilDate) *models.CivilDate {
	if anchor == nil || !date.Before(*anchor) {
		return anchor
	}

	var earlier *models.CivilDate
	for index := range periods {
		start := periods[index].StartDate
		if periods[index].IsPredicted || start.After(date) {
			continue
		}
		if earlier == nil || start.After(*earlier) {
			earlier = &periods[index].StartDate
		}
	}
	return earlier
}

func predictedPeriodDays(anchor *models.CivilDate, cycleLength int, periodLength int, periods []models.PeriodLog) map[models.CivilDate]bool {
	days := make(map[models.CivilDate]bool)
	if anchor != nil {
		projection := ProjectCycle(anchor, cycleLength, periodLength, *anchor)
		if projection.PredictedPeriodStart != nil {
			markDays(days, *projection.PredictedPeriodStart, projection.PeriodLength)
		}
	}

	for _, period := range periods {
		if !period.IsPredicted {
			continue
		}
		length := max(periodLength, 1)
		if period.EndDate != nil && !period.EndDate.Before(period.StartDate) {
			length = models.DaysBetween(period.StartDate, *period.EndDate) + 1
		}
		markDays(days, period.StartDate, length)
	}
	return days
}

func markDays(days map[models.CivilDate]bool, start models.CivilDate, length int) {
	for offset := 0; offset < length; offset++ {
		days[start.AddDays(offset)] = true
	}
}

// PadCalendarWeeks lays cells out on a Sunday-first grid of whole weeks,
// filling leading and trailing slots with nil.
func PadCalendarWeeks(cells []CalendarDayCell) []*CalendarDayCell {
	if len(cells) == 0 {
		return nil
	}

	leading := int(cells[0].Date.Weekday())
	total := leading + len(cells)
	if remainder := total % 7; remainder != 0 {
		total += 7 - remainder
	}

	grid := make([]*CalendarDayCell, total)
	for index := range cells {
		grid[leading+index] = &cells[index]
	}
	return grid
}
