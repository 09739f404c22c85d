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
	ErrPartnerNotFound         = errors.New("partner not found")
	ErrPartnerAlreadyExists    = errors.New("partner already exists")
	ErrPartnerNameRequired     = errors.New("partner name required")
	ErrPartnerNameTooLong      = errors.New("partner name too long")
	ErrInvalidCycleLength      = errors.New("invalid average cycle length")
	ErrInvalidPeriodLength     = errors.New("invalid average period length")
	ErrInvalidCycleRegularity  = errors.New("invalid cycle regularity")
	ErrInvalidReminderDays     = errors.New("invalid reminder days before")
	ErrInvalidTimezone         = errors.New("invalid timezone")
	ErrLastPeriodStartInFuture = errors.New("last period start is in the future")
)

type PartnerRepository interface {
	FindByUserID(userID uint) (models.Partner, bool, error)
	ListAll() ([]models.Partner, error)
	Create(partner *models.Partner) error
	Save(partner *models.Partner) error
	UpdateLastPeriodStart(partnerID uint, start models.CivilDate) error
	DeleteWithLogs(partnerID uint) error
}

// PartnerInput carries a create or partial update. Nil fields are left alone
// on update and take their defaults on create.
type PartnerInput struct {
	Name                       *string           `json:"name"`
	AverageCycleLength         *int              `json:"average_cycle_length"`
	AveragePeriodLength        *int              `json:"average_period_length"`
	CycleRegularity            *string           `json:"cycle_regularity"`
	LastPeriodStart            *models.CivilDate `json:"last_period_start"`
	NotificationPeriodReminder *bool             `json:"notification_period_reminder"`
	NotificationPMSAlert       *bool             `json:"notification_pms_alert"`
	NotificationOvulationAlert *bool             `json:"notification_ovulation_alert"`
	ReminderDaysBefore         *int              `json:"reminder_days_before"`
	Timezone                   *string           `json:"timezone"`
}

type PartnerService struct {
	partners PartnerRepository
	now      func() time.Time
}

func NewPartnerService(partners PartnerRepository) *PartnerService {
	return &PartnerService{partners: partners, now: time.Now}
}

func NewPartnerProfile(userID uint) models.Partner {
	return models.Partner{
		UserID:                     userID,
		AverageCycleLength:         models.DefaultCycleLength,
		AveragePeriodLength:        models.DefaultPeriodLength,
		CycleRegularity:            models.RegularityRegular,
		NotificationPeriodReminder: true,
		NotificationPMSAlert:       true,
		NotificationOvulationAlert: false,
		ReminderDaysBefore:         models.DefaultReminderDaysBefore,
		Timezone:                   models.DefaultTimezone,
	}
}

func (service *PartnerService) Get(userID uint) (models.Partner, error) {
	partner, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return models.Partner{}, fmt.Errorf("load partner: %w", err)
	}
	if !found {
		return models.Partner{}, ErrPartnerNotFound
	}
	return partner, nil
}

func (service *PartnerService) Create(userID uint, input PartnerInput) (models.Partner, error) {
	_, found, err := service.partners.FindByUserID(userID)
	if err != nil {
		return models.Partner{}, fmt.Errorf("load partner: %w", err)
	}
	if found {
		return models.Partner{}, ErrPartnerAlreadyExists
	}

	partner := NewPartnerProfile(userID)
	applyPartnerInput(&partner, input)
	if err := service.ValidateProfile(partner); err != nil {
		return models.Partner{}, err
	}
	if err := service.partners.Create(&partner); err != nil {
		return models.Partner{}, fmt.Errorf("create partner: %w", err)
	}
	return partner, nil
}

func (service *PartnerService) Update(userID uint, input PartnerInput) (models.Partner, error) {
	partner, err := service.Get(userID)
	if err != nil {
		return models.Partner{}, err
	}

	applyPartnerInput(&partner, input)
	if err := service.ValidateProfile(partner); err != nil {
		return models.Partner{}, err
	}
	if err := service.partners.Save(&partner); err != nil {
		return models.Partner{}, fmt.Errorf("save partner: %w", err)
	}
	return partner, nil
}

// Delete removes the partner and every log recorded for them.
func (service *PartnerService) Delete(userID uint) error {
	partner, err := service.Get(userID)
	if err != nil {
		return err
	}
	if err := service.partners.DeleteWithLogs(partner.ID); err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	return nil
}

// ValidateProfile rejects profiles the projector must never see.
func (service *PartnerService) ValidateProfile(partner models.Partner) error {
	name := strings.TrimSpace(partner.Name)
	switch {
	case name == "":
		return ErrPartnerNameRequired
	case utf8.RuneCountInString(name) > models.MaxPartnerNameLength:
		return ErrPartnerNameTooLong
	case partner.AverageCycleLength < models.MinCycleLength || partner.AverageCycleLength > models.MaxCycleLength:
		return ErrInvalidCycleLength
	case partner.AveragePeriodLength < models.MinPeriodLength || partner.AveragePeriodLength > models.MaxPeriodLength:
		return ErrInvalidPeriodLength
	case !models.IsValidCycleRegularity(partner.CycleRegularity):
		return ErrInvalidCycleRegularity
	case partner.ReminderDaysBefore < models.MinReminderDaysBefore || partner.ReminderDaysBefore > models.MaxReminderDaysBefore:
		return ErrInvalidReminderDays
	}

	if len(partner.Timezone) > models.MaxTimezoneLength {
		return ErrInvalidTimezone
	}
	location, err := time.LoadLocation(partner.Timezone)
	if err != nil || partner.Timezone == "" {
		return ErrInvalidTimezone
	}
	if partner.LastPeriodStart != nil && partner.LastPeriodStart.After(models.Today(service.now(), location)) {
		return ErrLastPeriodStartInFuture
	}
	return nil
}

func applyPartnerInput(partner *models.Partner, input PartnerInput) {
	if input.Name != nil {
		partner.Name = strings.TrimSpace(*input.Name)
	}
	if input.AverageCycleLength != nil {
		partner.AverageCycleLength = *input.AverageCycleLength
	}
	if input.AveragePeriodLength != nil {
		partner.AveragePeriodLength = *input.AveragePeriodLength
	}
	if input.CycleRegularity != nil {
		partner.CycleRegularity = strings.TrimSpace(*input.CycleRegularity)
	}
	if input.LastPeriodStart != nil {
		if input.LastPeriodStart.IsZero() {
			partner.LastPeriodStart = nil
		} else {
			start := *input.LastPeriodStart
			partner.LastPeriodStart = &start
		}
	}
	if input.NotificationPeriodReminder != nil {
		partner.NotificationPeriodReminder = *input.NotificationPeriodReminder
	}
	if input.NotificationPMSAlert != nil {
		partner.NotificationPMSAlert = *input.NotificationPMSAlert
	}
	if input.NotificationOvulationAlert != nil {
		partner.NotificationOvulationAlert = *input.NotificationOvulationAlert
	}
	if input.ReminderDaysBefore != nil {
		partner.ReminderDaysBefore = *input.ReminderDaysBefore
	}
	if input.Timezone != nil {
		partner.Timezone = strings.TrimSpace(*input.Timezone)
	}
}
