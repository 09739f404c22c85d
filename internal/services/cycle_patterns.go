package services

import (
	"math"

	"github.com/terraincognita07/redrecon/internal/models"
)

const maxCommonSymptomsPerPhase = 5

type CyclePattern struct {
	AverageCycleLength    float64                 `json:"average_cycle_length"`
	CycleLengthRange      [2]int                  `json:"cycle_length_range"`
	AveragePeriodLength   float64                 `json:"average_period_length"`
	CommonSymptomsByPhase map[CyclePhase][]string `json:"common_symptoms_by_phase"`
	MoodTrendsByPhase     map[CyclePhase]*string  `json:"mood_trends_by_phase"`
}

// BuildCyclePattern summarises logged history. Averages fall back to the
// profile when no cycle lengths or closed periods are recorded.
func BuildCyclePattern(periods []models.PeriodLog, logs []models.DailyLog, profile *models.Partner) CyclePattern {
	cycleLength, periodLength := models.DefaultCycleLength, models.DefaultPeriodLength
	if profile != nil {
		cycleLength, periodLength = profile.AverageCycleLength, profile.AveragePeriodLength
	}

	pattern := CyclePattern{
		AverageCycleLength:    float64(cycleLength),
		CycleLengthRange:      [2]int{cycleLength, cycleLength},
		AveragePeriodLength:   float64(periodLength),
		CommonSymptomsByPhase: map[CyclePhase][]string{},
		MoodTrendsByPhase:     map[CyclePhase]*string{},
	}

	cycleLengths := make([]int, 0, len(periods))
	periodLengths := make([]int, 0, len(periods))
	for _, period := range periods {
		if period.IsPredicted {
			continue
		}
		if period.CycleLength != nil {
			cycleLengths = append(cycleLengths, *period.CycleLength)
		}
		if period.EndDate != nil {
			periodLengths = append(periodLengths, models.DaysBetween(period.StartDate, *period.EndDate)+1)
		}
	}
	if len(cycleLengths) > 0 {
		pattern.AverageCycleLength = roundOneDecimal(averageInts(cycleLengths))
		pattern.CycleLengthRange = [2]int{minInts(cycleLengths), maxInts(cycleLengths)}
	}
	if len(periodLengths) > 0 {
		pattern.AveragePeriodLength = roundOneDecimal(averageInts(periodLengths))
	}

	anchor := ResolveCycleAnchor(periods, profile)
	if anchor == nil {
		return pattern
	}

	moodCounts := map[CyclePhase]map[string]int{}
	for _, entry := range logs {
		if entry.LogDate.Before(*anchor) {
			continue
		}
		phase := ProjectCycle(anchor, cycleLength, periodLength, entry.LogDate).Phase

		for _, symptom := range entry.Symptoms {
			if !containsString(pattern.CommonSymptomsByPhase[phase], symptom) {
				pattern.CommonSymptomsByPhase[phase] = append(pattern.CommonSymptomsByPhase[phase], symptom)
			}
		}
		if entry.Mood != "" {
			if moodCounts[phase] == nil {
				moodCounts[phase] = map[string]int{}
			}
			moodCounts[phase][entry.Mood]++
		}
	}

	for phase, symptoms := range pattern.CommonSymptomsByPhase {
		if len(symptoms) > maxCommonSymptomsPerPhase {
			pattern.CommonSymptomsByPhase[phase] = symptoms[:maxCommonSymptomsPerPhase]
		}
	}
	for phase, counts := range moodCounts {
		pattern.MoodTrendsByPhase[phase] = dominantMood(counts)
	}
	return pattern
}

// dominantMood returns the most frequent mood; ties go to the earlier mood in display order.
func dominantMood(counts map[string]int) *string {
	best := ""
	bestCount := 0
	for _, mood := range models.Moods() {
		if counts[mood] > bestCount {
			best = mood
			bestCount = counts[mood]
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func minInts(values []int) int {
	result := values[0]
	for _, value := range values[1:] {
		result = min(result, value)
	}
	return result
}

func maxInts(values []int) int {
	result := values[0]
	for _, value := range values[1:] {
		result = max(result, value)
	}
	return result
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}

func containsString(values []string, needle string) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
