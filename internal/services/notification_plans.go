package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
)

type NotificationType string

const (
	NotificationPeriodReminder NotificationType = "period_reminder"
	NotificationPMSAlert       NotificationType = "pms_alert"
	NotificationOvulationAlert NotificationType = "ovulation_alert"
)

const (
	PeriodReminderIdentifier = "red-recon-period-reminder"
	PMSAlertIdentifier       = "red-recon-pms-alert"
	OvulationAlertIdentifier = "red-recon-ovulation-alert"

	notificationHour = 9
)

// NotificationIdentifiers lists the one slot each notification type owns.
func NotificationIdentifiers() []string {
	return []string{PeriodReminderIdentifier, PMSAlertIdentifier, OvulationAlertIdentifier}
}

type NotificationPlan struct {
	Type       NotificationType `json:"type"`
	Identifier string           `json:"identifier"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	TriggerAt  time.Time        `json:"trigger_at"`
}

// ComputeNotificationPlans derives the reminders that should currently be
// scheduled. Triggers at or before now are dropped, never fired late.
func ComputeNotificationPlans(projection CycleProjection, profile *models.Partner, now time.Time) []NotificationPlan {
	if profile == nil || projection.Anchor == nil {
		return nil
	}
	location := profile.Location()
	plans := make([]NotificationPlan, 0, 3)

	if profile.NotificationPeriodReminder && projection.PredictedPeriodStart != nil {
		triggerDay := projection.PredictedPeriodStart.AddDays(-profile.ReminderDaysBefore)
		plans = appendFuturePlan(plans, now, NotificationPlan{
			Type:       NotificationPeriodReminder,
			Identifier: PeriodReminderIdentifier,
			Title:      "CODE RED IMMINENT",
			Body:       periodReminderBody(profile.ReminderDaysBefore),
			TriggerAt:  triggerDay.At(notificationHour, 0, location),
		})
	}

	if profile.NotificationPMSAlert && !projection.Windows.Luteal.Empty() {
		triggerDay := PhaseStartDate(*projection.Anchor, projection.Windows.Luteal)
		plans = appendFuturePlan(plans, now, NotificationPlan{
			Type:       NotificationPMSAlert,
			Identifier: PMSAlertIdentifier,
			Title:      "DEFCON 2 - STORM WARNING",
			Body:       "PMS has entered the chat. everything you say will be held against you. tread lightly king.",
			TriggerAt:  triggerDay.At(notificationHour, 0, location),
		})
	}

	if profile.NotificationOvulationAlert && !projection.Windows.Ovulation.Empty() {
		triggerDay := PhaseStartDate(*projection.Anchor, projection.Windows.Ovulation)
		plans = appendFuturePlan(plans, now, NotificationPlan{
			Type:       NotificationOvulationAlert,
			Identifier: OvulationAlertIdentifier,
			Title:      "THE GLOW UP ERA",
			Body:       "she's in her hot girl phase. compliments are mandatory. don't be weird about it.",
			TriggerAt:  triggerDay.At(notificationHour, 0, location),
		})
	}

	return plans
}

func appendFuturePlan(plans []NotificationPlan, now time.Time, plan NotificationPlan) []NotificationPlan {
	if !plan.TriggerAt.After(now) {
		return plans
	}
	return append(plans, plan)
}

func periodReminderBody(days int) string {
	if days == 1 {
		return "this is not a drill. period starts TOMORROW. acquire snacks or perish."
	}
	return fmt.Sprintf("T-minus %d days. stock up on chocolate and emotional resilience. godspeed.", days)
}
