package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/redrecon/internal/models"
)

var (
	ErrDailyLogNotFound      = errors.New("daily log not found")
	ErrDailyLogAlreadyExists = errors.New("daily log already exists for date")
	ErrDailyLogDateRequired  = errors.New("daily log date required")
	ErrInvalidMood           = errors.New("invalid mood")
	ErrInvalidEnergyLevel    = errors.New("invalid energy level")
	ErrInvalidSymptom        = errors.New("invalid symptom")
	ErrInvalidDateRange      = errors.New("invalid date range")
)

type DailyLogRepository interface {
	ListByPartnerRange(partnerID uint, from *models.CivilDate, to *models.CivilDate) ([]models.DailyLog, error)
	FindByDate(partnerID uint, date models.CivilDate) (models.DailyLog, bool, error)
	Create(entry *models.DailyLog) error
	Save(entry *models.DailyLog) error
	DeleteByDate(partnerID uint, date models.CivilDate) error
}

type DailyLogInput struct {
	LogDate     models.CivilDate `json:"log_date"`
	Mood        *string          `json:"mood"`
	EnergyLevel *int             `json:"energy_level"`
	Symptoms    []string         `json:"symptoms"`
	Notes       *string          `json:"notes"`
}

type DailyLogService struct {
	partners PartnerRepository
	logs     DailyLogRepository
}

func NewDailyLogService(partners PartnerRepository, logs DailyLogRepository) *DailyLogService {
	return &DailyLogService{partners: partners, logs: logs}
}

func (service *DailyLogService) Create(userID uint, input DailyLogInput) (models.DailyLog, error) {
	if input.LogDate.IsZero() {
		return models.DailyLog{}, ErrDailyLogDateRequired
	}
	partner, err := service.partner(userID)
	if err != nil {
		return models.DailyLog{}, err
	}

	_, found, err := service.logs.FindByDate(partner.ID, input.LogDate)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("load daily log: %w", err)
	}
	if found {
		return models.DailyLog{}, ErrDailyLogAlreadyExists
	}

	entry := models.DailyLog{PartnerID: partner.ID, LogDate: input.LogDate, Symptoms: []string{}}
	if err := applyDailyLogInput(&entry, input); err != nil {
		return models.DailyLog{}, err
	}
	if err := service.logs.Create(&entry); err != nil {
		return models.DailyLog{}, fmt.Errorf("create daily log: %w", err)
	}
	return entry, nil
}

// List returns logs in [from, to], oldest first. Either bound may be nil.
func (service *DailyLogService) List(userID uint, from *models.CivilDate, to *models.CivilDate) ([]models.DailyLog, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrInvalidDateRange
	}
	partner, err := service.partner(userID)
	if err != nil {
		return nil, err
	}
	return service.logs.ListByPartnerRange(partner.ID, from, to)
}

func (service *DailyLogService) Get(userID uint, date models.CivilDate) (models.DailyLog, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return models.DailyLog{}, err
	}
	return service.find(partner.ID, date)
}

// Update applies the non-nil fields of input to the log of date.
func (service *DailyLogService) Update(userID uint, date models.CivilDate, input DailyLogInput) (models.DailyLog, error) {
	partner, err := service.partner(userID)
	if err != nil {
		return models.DailyLog{}, err
	}
	entry, err := service.find(partner.ID, date)
	if err != nil {
		return models.DailyLog{}, err
	}

	if err := applyDailyLogInput(&entry, input); err != nil {
		return models.DailyLog{}, err
	}
	if err := service.logs.Save(&entry); err != nil {
		return models.DailyLog{}, fmt.Errorf("save daily log: %w", err)
	}
	return entry, nil
}

func (service *DailyLogService) Delete(userID uint, date models.CivilDate) error {
	partner, err := service.partner(userID)
	if err != nil {
		return err
	}
	if _, err := service.find(partner.ID, date); err != nil {
		return err
	}
	if err := service.logs.DeleteByDate(partner.ID, date); err != nil {
		return fmt.Errorf("delete daily log: %w", err)
	}
	return nil
}

// ListForPartner feeds pattern and calendar builders.
func (service *DailyLogService) ListForPartner(partnerID uint, from *models.CivilDate, to *models.CivilDate) ([]models.DailyLog, error) {
	return service.logs.ListByPartnerRange(partnerID, from, to)
}

func (service *DailyLogService) partner(userID uint) (models.Partner, error) {
	partner, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return models.Partner{}, fmt.Errorf("load partner: %w", err)
	}
	if !found {
		return models.Partner{}, ErrPartnerNotFound
	}
	return partner, nil
}

func (service *DailyLogService) find(partnerID uint, date models.CivilDate) (models.DailyLog, error) {
	entry, found, err := service.logs.FindByDate(partnerID, date)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("load daily log: %w", err)
	}
	if !found {
		return models.DailyLog{}, ErrDailyLogNotFound
	}
	return entry, nil
}

func applyDailyLogInput(entry *models.DailyLog, input DailyLogInput) error {
	if input.Mood != nil {
		mood := strings.TrimSpace(*input.Mood)
		if !models.IsValidMood(mood) {
			return ErrInvalidMood
		}
		entry.Mood = mood
	}
	if input.EnergyLevel != nil {
		level := *input.EnergyLevel
		if level < models.MinEnergyLevel || level > models.MaxEnergyLevel {
			return ErrInvalidEnergyLevel
		}
		entry.EnergyLevel = &level
	}
	if input.Symptoms != nil {
		symptoms, err := normalizeSymptoms(input.Symptoms)
		if err != nil {
			return err
		}
		entry.Symptoms = symptoms
	}
	if input.Notes != nil {
		notes := strings.TrimSpace(*input.Notes)
		if utf8.RuneCountInString(notes) > models.MaxNotesLength {
			return ErrNotesTooLong
		}
		entry.Notes = notes
	}
	return nil
}

// normalizeSymptoms lowercases, validates and de-duplicates, keeping input order.
func normalizeSymptoms(raw []string) ([]string, error) {
	symptoms := make([]string, 0, len(raw))
	for _, value := range raw {
		symptom := strings.ToLower(strings.TrimSpace(value))
		if !models.IsValidSymptom(symptom) {
			return nil, ErrInvalidSymptom
		}
		if !containsString(symptoms, symptom) {
			symptoms = append(symptoms, symptom)
		}
	}
	return symptoms, nil
}

func dailyLogWindow(year int, month time.Month) (models.CivilDate, models.CivilDate) {
	first := models.NewCivilDate(year, month, 1)
	return first, first.AddDays(models.DaysInMonth(year, month) - 1)
}
