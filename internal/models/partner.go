package models

import "time"

const (
	DefaultCycleLength        = 28
	DefaultPeriodLength       = 5
	DefaultReminderDaysBefore = 3
	DefaultTimezone           = "UTC"

	MinCycleLength        = 21
	MaxCycleLength        = 35
	MinPeriodLength       = 3
	MaxPeriodLength       = 7
	MinReminderDaysBefore = 1
	MaxReminderDaysBefore = 7
	MaxPartnerNameLength  = 50
	MaxTimezoneLength     = 50
)

const (
	RegularityRegular           = "regular"
	RegularitySomewhatIrregular = "somewhat_irregular"
	RegularityIrregular         = "irregular"
)

// Partner is the cycle profile of the tracked person. One per user.
type Partner struct {
	ID                         uint       `gorm:"primaryKey" json:"id"`
	UserID                     uint       `gorm:"not null;uniqueIndex" json:"-"`
	Name                       string     `gorm:"not null" json:"name"`
	AverageCycleLength         int        `gorm:"not null" json:"average_cycle_length"`
	AveragePeriodLength        int        `gorm:"not null" json:"average_period_length"`
	CycleRegularity            string     `gorm:"not null" json:"cycle_regularity"`
	LastPeriodStart            *CivilDate `gorm:"type:text" json:"last_period_start"`
	NotificationPeriodReminder bool       `gorm:"not null" json:"notification_period_reminder"`
	NotificationPMSAlert       bool       `gorm:"column:notification_pms_alert;not null" json:"notification_pms_alert"`
	NotificationOvulationAlert bool       `gorm:"not null" json:"notification_ovulation_alert"`
	ReminderDaysBefore         int        `gorm:"not null" json:"reminder_days_before"`
	Timezone                   string     `gorm:"not null" json:"timezone"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// Location resolves the stored IANA zone, falling back to UTC.
func (partner *Partner) Location() *time.Location {
	if partner == nil || partner.Timezone == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(partner.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func IsValidCycleRegularity(value string) bool {
	switch value {
	case RegularityRegular, RegularitySomewhatIrregular, RegularityIrregular:
		return true
	default:
		return false
	}
}
