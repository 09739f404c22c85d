package models

import "time"

const (
	FlowLight  = "light"
	FlowMedium = "medium"
	FlowHeavy  = "heavy"

	MaxNotesLength = 500
)

// PeriodLog is one menstrual period. Predicted logs are system projections
// and never count as actual period days.
type PeriodLog struct {
	ID            string     `gorm:"primaryKey" json:"id,omitempty"`
	PartnerID     uint       `gorm:"not null;index;uniqueIndex:uidx_period_partner_start" json:"partner_id"`
	StartDate     CivilDate  `gorm:"type:text;not null;uniqueIndex:uidx_period_partner_start" json:"start_date"`
	EndDate       *CivilDate `gorm:"type:text" json:"end_date"`
	CycleLength   *int       `json:"cycle_length"`
	FlowIntensity string     `gorm:"not null" json:"flow_intensity,omitempty"`
	IsPredicted   bool       `gorm:"not null" json:"is_predicted"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func IsValidFlowIntensity(value string) bool {
	switch value {
	case "", FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}
