package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
)

func notificationProfile(t *testing.T, anchor string) *models.Partner {
	t.Helper()
	profile := NewPartnerProfile(1)
	profile.Name = "Sam"
	profile.NotificationOvulationAlert = true
	start := mustDate(t, anchor)
	profile.LastPeriodStart = &start
	return &profile
}

func planFor(plans []NotificationPlan, notificationType NotificationType) *NotificationPlan {
	for index := range plans {
		if plans[index].Type == notificationType {
			return &plans[index]
		}
	}
	return nil
}

func TestComputeNotificationPlansPeriodReminder(t *testing.T) {
	profile := notificationProfile(t, "2025-01-01")
	projection := ProjectCycle(profile.LastPeriodStart, 28, 5, mustDate(t, "2025-01-20"))

	plans := ComputeNotificationPlans(projection, profile, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
	reminder := planFor(plans, NotificationPeriodReminder)
	if reminder == nil {
		t.Fatalf("expected period reminder, got %+v", plans)
	}
	want := time.Date(2025, time.January, 26, 9, 0, 0, 0, time.UTC)
	if !reminder.TriggerAt.Equal(want) {
		t.Fatalf("expected trigger %s, got %s", want, reminder.TriggerAt)
	}
	if reminder.Identifier != PeriodReminderIdentifier {
		t.Fatalf("unexpected identifier %q", reminder.Identifier)
	}

	plans = ComputeNotificationPlans(projection, profile, time.Date(2025, time.January, 27, 0, 0, 0, 0, time.UTC))
	if planFor(plans, NotificationPeriodReminder) != nil {
		t.Fatalf("expected past reminder to be dropped, got %+v", plans)
	}
}

func TestComputeNotificationPlansAllTypesInOrder(t *testing.T) {
	profile := notificationProfile(t, "2025-01-01")
	projection := ProjectCycle(profile.LastPeriodStart, 28, 5, mustDate(t, "2025-01-01"))
	now := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)

	plans := ComputeNotificationPlans(projection, profile, now)
	if len(plans) != 3 {
		t.Fatalf("expected three plans, got %+v", plans)
	}

	expected := []struct {
		notificationType NotificationType
		trigger          time.Time
	}{
		{NotificationPeriodReminder, time.Date(2025, time.January, 26, 9, 0, 0, 0, time.UTC)},
		{NotificationPMSAlert, time.Date(2025, time.January, 16, 9, 0, 0, 0, time.UTC)},
		{NotificationOvulationAlert, time.Date(2025, time.January, 13, 9, 0, 0, 0, time.UTC)},
	}
	for index, want := range expected {
		if plans[index].Type != want.notificationType || !plans[index].TriggerAt.Equal(want.trigger) {
			t.Fatalf("plan %d: expected %s at %s, got %s at %s", index, want.notificationType, want.trigger, plans[index].Type, plans[index].TriggerAt)
		}
	}
}

func TestComputeNotificationPlansRespectsPreferences(t *testing.T) {
	profile := notificationProfile(t, "2025-01-01")
	profile.NotificationPeriodReminder = false
	profile.NotificationPMSAlert = false
	profile.NotificationOvulationAlert = false
	projection := ProjectCycle(profile.LastPeriodStart, 28, 5, mustDate(t, "2025-01-01"))

	if plans := ComputeNotificationPlans(projection, profile, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)); len(plans) != 0 {
		t.Fatalf("expected no plans, got %+v", plans)
	}
}

func TestComputeNotificationPlansWithoutAnchor(t *testing.T) {
	profile := NewPartnerProfile(1)
	projection := ProjectCycle(nil, 28, 5, mustDate(t, "2025-01-01"))

	if plans := ComputeNotificationPlans(projection, &profile, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)); plans != nil {
		t.Fatalf("expected no plans without anchor, got %+v", plans)
	}
	if plans := ComputeNotificationPlans(projection, nil, time.Now()); plans != nil {
		t.Fatalf("expected no plans without profile, got %+v", plans)
	}
}

func TestComputeNotificationPlansUsesPartnerTimezone(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	profile := notificationProfile(t, "2025-01-01")
	profile.Timezone = "America/New_York"
	projection := ProjectCycle(profile.LastPeriodStart, 28, 5, mustDate(t, "2025-01-20"))

	plans := ComputeNotificationPlans(projection, profile, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))
	reminder := planFor(plans, NotificationPeriodReminder)
	if reminder == nil {
		t.Fatal("expected period reminder")
	}
	want := time.Date(2025, time.January, 26, 9, 0, 0, 0, location)
	if !reminder.TriggerAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, reminder.TriggerAt)
	}
}

func TestComputeNotificationPlansFutureOnlyAndIdempotent(t *testing.T) {
	profile := notificationProfile(t, "2025-01-01")
	base := time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC)

	for hours := 0; hours < 24*50; hours += 7 {
		now := base.Add(time.Duration(hours) * time.Hour)
		projection := ProjectCycle(profile.LastPeriodStart, 28, 5, models.CivilDateOf(now))

		first := ComputeNotificationPlans(projection, profile, now)
		second := ComputeNotificationPlans(projection, profile, now)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: plans differ between calls", now)
		}
		for _, plan := range first {
			if !plan.TriggerAt.After(now) {
				t.Fatalf("%s: plan %s triggers at %s, not in the future", now, plan.Type, plan.TriggerAt)
			}
		}
	}
}

func TestPeriodReminderBody(t *testing.T) {
	if body := periodReminderBody(1); body != "this is not a drill. period starts TOMORROW. acquire snacks or perish." {
		t.Fatalf("unexpected one-day body %q", body)
	}
	if body := periodReminderBody(3); body != "T-minus 3 days. stock up on chocolate and emotional resilience. godspeed." {
		t.Fatalf("unexpected multi-day body %q", body)
	}
}
