package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
)

var ErrInvalidCalendarMonth = errors.New("invalid calendar month")

const (
	minCalendarYear = 1900
	maxCalendarYear = 2200
)

type PhaseInfo struct {
	Phase    CyclePhase `json:"phase"`
	StartDay int        `json:"start_day"`
	EndDay   int        `json:"end_day"`
	Days     int        `json:"days"`
}

type CalendarMonth struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Days  []CalendarDayCell `json:"days"`
}

// CycleSnapshot is everything the cycle views need about one partner.
type CycleSnapshot struct {
	Partner models.Partner
	Periods []models.PeriodLog
	Today   models.CivilDate
}

type CycleService struct {
	partners PartnerRepository
	periods  PeriodLogRepository
	logs     DailyLogRepository
	now      func() time.Time
}

func NewCycleService(partners PartnerRepository, periods PeriodLogRepository, logs DailyLogRepository) *CycleService {
	return &CycleService{partners: partners, periods: periods, logs: logs, now: time.Now}
}

func (service *CycleService) Snapshot(userID uint) (CycleSnapshot, error) {
	partner, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return CycleSnapshot{}, fmt.Errorf("load partner: %w", err)
	}
	if !found {
		return CycleSnapshot{}, ErrPartnerNotFound
	}
	return service.snapshotFor(partner)
}

func (service *CycleService) snapshotFor(partner models.Partner) (CycleSnapshot, error) {
	periods, err := service.periods.ListByPartner(partner.ID, 0, 0)
	if err != nil {
		return CycleSnapshot{}, fmt.Errorf("load periods: %w", err)
	}
	return CycleSnapshot{
		Partner: partner,
		Periods: periods,
		Today:   models.Today(service.now(), partner.Location()),
	}, nil
}

// Projection projects the snapshot onto its own today.
func (snapshot CycleSnapshot) Projection() CycleProjection {
	anchor := ResolveCycleAnchor(snapshot.Periods, &snapshot.Partner)
	return ProjectCycle(anchor, snapshot.Partner.AverageCycleLength, snapshot.Partner.AveragePeriodLength, snapshot.Today)
}

// Status is the dashboard projection for today in the partner's timezone.
func (service *CycleService) Status(userID uint) (CycleProjection, error) {
	snapshot, err := service.Snapshot(userID)
	if err != nil {
		return CycleProjection{}, err
	}
	return snapshot.Projection(), nil
}

// PhaseWindows lists the four phases of the partner's average cycle. Empty
// phases are kept with Days = 0.
func (service *CycleService) PhaseWindows(userID uint) ([]PhaseInfo, error) {
	partner, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load partner: %w", err)
	}
	if !found {
		return nil, ErrPartnerNotFound
	}

	windows := BuildPhaseWindows(partner.AverageCycleLength, partner.AveragePeriodLength)
	phases := make([]PhaseInfo, 0, 4)
	for _, window := range windows.Ordered() {
		phases = append(phases, PhaseInfo{
			Phase:    window.Phase,
			StartDay: window.Start,
			EndDay:   window.End,
			Days:     max(window.End-window.Start+1, 0),
		})
	}
	return phases, nil
}

func (service *CycleService) CalendarMonth(userID uint, year int, month int) (CalendarMonth, error) {
	if year < minCalendarYear || year > maxCalendarYear || month < 1 || month > 12 {
		return CalendarMonth{}, ErrInvalidCalendarMonth
	}

	snapshot, err := service.Snapshot(userID)
	if err != nil {
		return CalendarMonth{}, err
	}

	first, last := dailyLogWindow(year, time.Month(month))
	logs, err := service.logs.ListByPartnerRange(snapshot.Partner.ID, &first, &last)
	if err != nil {
		return CalendarMonth{}, fmt.Errorf("load daily logs: %w", err)
	}

	days := BuildCalendarMonth(year, time.Month(month), snapshot.Periods, &snapshot.Partner, NewDailyLogIndex(logs), snapshot.Today)
	return CalendarMonth{Year: year, Month: month, Days: days}, nil
}

func (service *CycleService) Patterns(userID uint) (CyclePattern, error) {
	snapshot, err := service.Snapshot(userID)
	if err != nil {
		return CyclePattern{}, err
	}
	logs, err := service.logs.ListByPartnerRange(snapshot.Partner.ID, nil, nil)
	if err != nil {
		return CyclePattern{}, fmt.Errorf("load daily logs: %w", err)
	}
	return BuildCyclePattern(snapshot.Periods, logs, &snapshot.Partner), nil
}
