package models

import "time"

const (
	MoodGreat           = "great"
	MoodGood            = "good"
	MoodMeh             = "meh"
	MoodRough           = "rough"
	MoodJustNod         = "just_nod"
	MoodPickYourBattles = "pick_your_battles"

	MinEnergyLevel = 1
	MaxEnergyLevel = 5
)

type DailyLog struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	PartnerID   uint      `gorm:"not null;uniqueIndex:uidx_daily_partner_date" json:"partner_id"`
	LogDate     CivilDate `gorm:"type:text;not null;uniqueIndex:uidx_daily_partner_date" json:"log_date"`
	Mood        string    `gorm:"not null" json:"mood,omitempty"`
	EnergyLevel *int      `json:"energy_level"`
	Symptoms    []string  `gorm:"serializer:json" json:"symptoms"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Moods lists the moods in display order.
func Moods() []string {
	return []string{MoodGreat, MoodGood, MoodMeh, MoodRough, MoodJustNod, MoodPickYourBattles}
}

func IsValidMood(value string) bool {
	if value == "" {
		return true
	}
	for _, mood := range Moods() {
		if mood == value {
			return true
		}
	}
	return false
}

// Symptoms lists the symptom keys a daily log may carry.
func Symptoms() []string {
	return []string{
		"cramps",
		"headache",
		"tired",
		"moody",
		"cravings",
		"bloated",
		"backache",
		"anxious",
		"nausea",
		"insomnia",
	}
}

func IsValidSymptom(value string) bool {
	for _, symptom := range Symptoms() {
		if symptom == value {
			return true
		}
	}
	return false
}
