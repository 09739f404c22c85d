package services

import "github.com/terraincognita07/redrecon/internal/models"

type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "menstrual"
	PhaseFollicular CyclePhase = "follicular"
	PhaseOvulation  CyclePhase = "ovulation"
	PhaseLuteal     CyclePhase = "luteal"
	PhaseUnknown    CyclePhase = "unknown"
)

const lutealPhaseDays = 14

type CycleProjection struct {
	CurrentDay           int               `json:"current_day"`
	CycleLength          int               `json:"cycle_length"`
	PeriodLength         int               `json:"period_length"`
	Phase                CyclePhase        `json:"phase"`
	PhaseDay             int               `json:"phase_day"`
	DaysUntilPeriod      *int              `json:"days_until_period"`
	PredictedPeriodStart *models.CivilDate `json:"predicted_period_start"`
	Anchor               *models.CivilDate `json:"last_period_start"`
	IsPeriodActive       bool              `json:"is_period_active"`
	Windows              PhaseWindows      `json:"-"`
}

// PhaseWindow is an inclusive range of cycle days. Empty when End < Start.
type PhaseWindow struct {
	Phase CyclePhase `json:"phase"`
	Start int        `json:"start_day"`
	End   int        `json:"end_day"`
}

func (window PhaseWindow) Empty() bool {
	return window.End < window.Start
}

func (window PhaseWindow) Contains(day int) bool {
	return day >= window.Start && day <= window.End
}

type PhaseWindows struct {
	Menstrual  PhaseWindow
	Follicular PhaseWindow
	Ovulation  PhaseWindow
	Luteal     PhaseWindow
}

// Ordered returns the windows in cycle order, empty ones included.
func (windows PhaseWindows) Ordered() []PhaseWindow {
	return []PhaseWindow{windows.Menstrual, windows.Follicular, windows.Ovulation, windows.Luteal}
}

// OvulationDay is the day lutealPhaseDays before the next expected start.
func OvulationDay(cycleLength int) int {
	return cycleLength - lutealPhaseDays
}

// BuildPhaseWindows partitions days 1..cycleLength into the four phases.
// The ovulation window is three days around the ovulation day, pushed past the
// menstrual window and collapsed to a single day when the cycle is too short.
func BuildPhaseWindows(cycleLength int, periodLength int) PhaseWindows {
	cycleLength = max(cycleLength, 1)
	periodLength = max(periodLength, 1)

	menstrualEnd := min(periodLength, cycleLength)
	ovulationDay := OvulationDay(cycleLength)
	ovulationStart := clampInt(ovulationDay-1, menstrualEnd+1, cycleLength)
	ovulationEnd := clampInt(ovulationDay+1, ovulationStart, cycleLength)
	if menstrualEnd == cycleLength {
		ovulationStart, ovulationEnd = cycleLength+1, cycleLength
	}

	return PhaseWindows{
		Menstrual:  PhaseWindow{Phase: PhaseMenstrual, Start: 1, End: menstrualEnd},
		Follicular: PhaseWindow{Phase: PhaseFollicular, Start: menstrualEnd + 1, End: ovulationStart - 1},
		Ovulation:  PhaseWindow{Phase: PhaseOvulation, Start: ovulationStart, End: ovulationEnd},
		Luteal:     PhaseWindow{Phase: PhaseLuteal, Start: ovulationEnd + 1, End: cycleLength},
	}
}

// PhaseForDay returns the phase owning cycleDay and the 1-indexed day within it.
func (windows PhaseWindows) PhaseForDay(cycleDay int) (CyclePhase, int) {
	for _, window := range windows.Ordered() {
		if !window.Empty() && window.Contains(cycleDay) {
			return window.Phase, cycleDay - window.Start + 1
		}
	}
	return PhaseLuteal, max(cycleDay-windows.Luteal.Start+1, 1)
}

// ProjectCycle derives the cycle position of reference from the anchor period.
//
// Once more than one cycle length has passed without a new period the cycle day
// wraps modulo cycleLength, so a missed log still yields a usable phase. The
// predicted start is always anchor + cycleLength and ignores the wrap.
func ProjectCycle(anchor *models.CivilDate, cycleLength int, periodLength int, reference models.CivilDate) CycleProjection {
	cycleLength = max(cycleLength, 1)
	periodLength = max(periodLength, 1)
	windows := BuildPhaseWindows(cycleLength, periodLength)

	projection := CycleProjection{
		CurrentDay:   1,
		CycleLength:  cycleLength,
		PeriodLength: periodLength,
		Phase:        PhaseUnknown,
		PhaseDay:     1,
		Windows:      windows,
	}
	if anchor == nil || anchor.IsZero() {
		return projection
	}

	anchorDay := *anchor
	projection.Anchor = &anchorDay

	elapsed := models.DaysBetween(anchorDay, reference)
	projection.CurrentDay = floorMod(elapsed, cycleLength) + 1
	projection.IsPeriodActive = projection.CurrentDay <= periodLength
	projection.Phase, projection.PhaseDay = windows.PhaseForDay(projection.CurrentDay)

	predicted := anchorDay.AddDays(cycleLength)
	projection.PredictedPeriodStart = &predicted
	daysUntil := max(models.DaysBetween(reference, predicted), 0)
	projection.DaysUntilPeriod = &daysUntil

	return projection
}

// PhaseStartDate maps the first day of window onto the calendar of the anchor cycle.
func PhaseStartDate(anchor models.CivilDate, window PhaseWindow) models.CivilDate {
	return anchor.AddDays(window.Start - 1)
}

func floorMod(value int, modulus int) int {
	result := value % modulus
	if result < 0 {
		result += modulus
	}
	return result
}

func clampInt(value int, low int, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
