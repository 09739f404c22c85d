package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/redrecon/internal/models"
)

const (
	minRecordedCycleLength = 21
	maxRecordedCycleLength = 45

	DefaultPeriodListLimit = 20
	MaxPeriodListLimit     = 100
)

var (
	ErrPeriodLogNotFound      = errors.New("period log not found")
	ErrPeriodLogAlreadyExists = errors.New("period log already exists for start date")
	ErrPeriodStartRequired    = errors.New("period start date required")
	ErrPeriodStartInFuture    = errors.New("period start date is in the future")
	ErrPeriodEndBeforeStart   = errors.New("period end date before start date")
	ErrInvalidFlowIntensity   = errors.New("invalid flow intensity")
	ErrNotesTooLong           = errors.New("notes too long")
	ErrInvalidPagination      = errors.New("invalid pagination")
)

type PeriodLogRepository interface {
	ListByPartner(partnerID uint, skip int, limit int) ([]models.PeriodLog, error)
	FindByID(partnerID uint, id string) (models.PeriodLog, bool, error)
	ExistsActualByStartDate(partnerID uint, start models.CivilDate) (bool, error)
	LatestActualBefore(partnerID uint, start models.CivilDate) (models.PeriodLog, bool, error)
	CreateActual(entry *models.PeriodLog) error
	Save(entry *models.PeriodLog) error
	Delete(partnerID uint, id string) error
}

type PeriodLogCreateInput struct {
	StartDate     models.CivilDate  `json:"start_date"`
	EndDate       *models.CivilDate `json:"end_date"`
	FlowIntensity string            `json:"flow_intensity"`
	Notes         string            `json:"notes"`
}

type PeriodLogUpdateInput struct {
	EndDate       *models.CivilDate `json:"end_date"`
	FlowIntensity *string           `json:"flow_intensity"`
	Notes         *string           `json:"notes"`
}

// PeriodDayStatus answers "is this day inside a logged period".
type PeriodDayStatus struct {
	Date        models.CivilDate  `json:"date"`
	Period      *models.PeriodLog `json:"period"`
	IsStartDate bool              `json:"is_start_date"`
	IsEndDate   bool              `json:"is_end_date"`
}

type PeriodLogService struct {
	partners PartnerRepository
	periods  PeriodLogRepository
	now      func() time.Time
}

func NewPeriodLogService(partners PartnerRepository, periods PeriodLogRepository) *PeriodLogService {
	return &PeriodLogService{partners: partners, periods: periods, now: time.Now}
}

// Create records an actual period. The cycle length is derived from the
// previous actual start, predicted logs from the new start onward are
// discarded, and the partner's last period start moves forward.
func (service *PeriodLogService) Create(userID uint, input PeriodLogCreateInput) (models.PeriodLog, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return models.PeriodLog{}, err
	}

	entry := models.PeriodLog{
		PartnerID:     partner.ID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		FlowIntensity: strings.TrimSpace(input.FlowIntensity),
		Notes:         strings.TrimSpace(input.Notes),
	}
	if err := service.validate(entry, partner.Location()); err != nil {
		return models.PeriodLog{}, err
	}

	exists, err := service.periods.ExistsActualByStartDate(partner.ID, entry.StartDate)
	if err != nil {
		return models.PeriodLog{}, fmt.Errorf("check period start: %w", err)
	}
	if exists {
		return models.PeriodLog{}, ErrPeriodLogAlreadyExists
	}

	previous, found, err := service.periods.LatestActualBefore(partner.ID, entry.StartDate)
	if err != nil {
		return models.PeriodLog{}, fmt.Errorf("load previous period: %w", err)
	}
	if found {
		entry.CycleLength = recordedCycleLength(previous.StartDate, entry.StartDate)
	}

	if err := service.periods.CreateActual(&entry); err != nil {
		return models.PeriodLog{}, fmt.Errorf("create period log: %w", err)
	}

	if partner.LastPeriodStart == nil || entry.StartDate.After(*partner.LastPeriodStart) {
		if err := service.partners.UpdateLastPeriodStart(partner.ID, entry.StartDate); err != nil {
			return models.PeriodLog{}, fmt.Errorf("advance last period start: %w", err)
		}
	}
	return entry, nil
}

func recordedCycleLength(previous models.CivilDate, start models.CivilDate) *int {
	days := models.DaysBetween(previous, start)
	if days < minRecordedCycleLength || days > maxRecordedCycleLength {
		return nil
	}
	return &days
}

// List returns the partner's periods newest first. A zero limit uses the default.
func (service *PeriodLogService) List(userID uint, skip int, limit int) ([]models.PeriodLog, error) {
	if skip < 0 || limit < 0 || limit > MaxPeriodListLimit {
		return nil, ErrInvalidPagination
	}
	if limit == 0 {
		limit = DefaultPeriodListLimit
	}

	partner, err := service.partner(userID)
	if err != nil {
		return nil, err
	}
	return service.periods.ListByPartner(partner.ID, skip, limit)
}

// History returns every period of the partner, predicted ones included.
func (service *PeriodLogService) History(partnerID uint) ([]models.PeriodLog, error) {
	return service.periods.ListByPartner(partnerID, 0, 0)
}

func (service *PeriodLogService) Get(userID uint, id string) (models.PeriodLog, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return models.PeriodLog{}, err
	}
	return service.find(partner.ID, id)
}

func (service *PeriodLogService) Update(userID uint, id string, input PeriodLogUpdateInput) (models.PeriodLog, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return models.PeriodLog{}, err
	}
	entry, err := service.find(partner.ID, id)
	if err != nil {
		return models.PeriodLog{}, err
	}

	if input.EndDate != nil {
		if input.EndDate.IsZero() {
			entry.EndDate = nil
		} else {
			end := *input.EndDate
			entry.EndDate = &end
		}
	}
	if input.FlowIntensity != nil {
		entry.FlowIntensity = strings.TrimSpace(*input.FlowIntensity)
	}
	if input.Notes != nil {
		entry.Notes = strings.TrimSpace(*input.Notes)
	}
	if err := service.validateDetails(entry); err != nil {
		return models.PeriodLog{}, err
	}

	if err := service.periods.Save(&entry); err != nil {
		return models.PeriodLog{}, fmt.Errorf("save period log: %w", err)
	}
	return entry, nil
}

// End closes a period on endDate.
func (service *PeriodLogService) End(userID uint, id string, endDate models.CivilDate) (models.PeriodLog, error) {
	if endDate.IsZero() {
		return models.PeriodLog{}, ErrPeriodEndBeforeStart
	}
	return service.Update(userID, id, PeriodLogUpdateInput{EndDate: &endDate})
}

func (service *PeriodLogService) Delete(userID uint, id string) error {
	partner, err := service.partner(userID)
	if err != nil {
		return err
	}
	if _, err := service.find(partner.ID, id); err != nil {
		return err
	}
	if err := service.periods.Delete(partner.ID, id); err != nil {
		return fmt.Errorf("delete period log: %w", err)
	}
	return nil
}

// PeriodForDate looks date up in the partner's actual periods. Open periods
// extend through today in the partner's timezone.
func (service *PeriodLogService) PeriodForDate(userID uint, date models.CivilDate) (PeriodDayStatus, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return PeriodDayStatus{}, err
	}
	periods, err := service.History(partner.ID)
	if err != nil {
		return PeriodDayStatus{}, fmt.Errorf("load periods: %w", err)
	}

	today := models.Today(service.now(), partner.Location())
	period := FindContainingPeriod(periods, date, today)
	return PeriodDayStatus{
		Date:        date,
		Period:      period,
		IsStartDate: IsPeriodStartDate(period, date),
		IsEndDate:   IsPeriodEndDate(period, date),
	}, nil
}

func (service *PeriodLogService) partner(userID uint) (models.Partner, error) {
	partner, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return models.Partner{}, fmt.Errorf("load partner: %w", err)
	}
	if !found {
		return models.Partner{}, ErrPartnerNotFound
	}
	return partner, nil
}

func (service *PeriodLogService) find(partnerID uint, id string) (models.PeriodLog, error) {
	entry, found, err := service.periods.FindByID(partnerID, strings.TrimSpace(id))
	if err != nil {
		return models.PeriodLog{}, fmt.Errorf("load period log: %w", err)
	}
	if !found {
		return models.PeriodLog{}, ErrPeriodLogNotFound
	}
	return entry, nil
}

func (service *PeriodLogService) validate(entry models.PeriodLog, location *time.Location) error {
	if entry.StartDate.IsZero() {
		return ErrPeriodStartRequired
	}
	if entry.StartDate.After(models.Today(service.now(), location)) {
		return ErrPeriodStartInFuture
	}
	return service.validateDetails(entry)
}

func (service *PeriodLogService) validateDetails(entry models.PeriodLog) error {
	if entry.EndDate != nil && entry.EndDate.Before(entry.StartDate) {
		return ErrPeriodEndBeforeStart
	}
	if !models.IsValidFlowIntensity(entry.FlowIntensity) {
		return ErrInvalidFlowIntensity
	}
	if utf8.RuneCountInString(entry.Notes) > models.MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}
