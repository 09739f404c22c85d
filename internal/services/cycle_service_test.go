package services

import (
	"errors"
	"testing"
	"time"
)

func TestCycleServiceStatusUsesPartnerToday(t *testing.T) {
	fixture := newServiceFixture(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	fixture.seedPartner(1, "2025-01-01")

	status, err := fixture.cycleService().Status(1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CurrentDay != 15 || status.Phase != PhaseOvulation || status.PhaseDay != 3 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Anchor == nil || status.Anchor.String() != "2025-01-01" {
		t.Fatalf("expected anchor 2025-01-01, got %v", status.Anchor)
	}

	if _, err := fixture.cycleService().Status(2); !errors.Is(err, ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}
}

func TestCycleServiceStatusWithoutHistory(t *testing.T) {
	fixture := newServiceFixture(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	fixture.seedPartner(1, "")

	status, err := fixture.cycleService().Status(1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Phase != PhaseUnknown || status.PredictedPeriodStart != nil {
		t.Fatalf("expected unknown status, got %+v", status)
	}
}

func TestCycleServicePhaseWindows(t *testing.T) {
	fixture := newServiceFixture(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	fixture.seedPartner(1, "2025-01-01")

	phases, err := fixture.cycleService().PhaseWindows(1)
	if err != nil {
		t.Fatalf("phase windows: %v", err)
	}

	expected := []PhaseInfo{
		{Phase: PhaseMenstrual, StartDay: 1, EndDay: 5},
		{Phase: PhaseFollicular, StartDay: 6, EndDay: 12},
		{Phase: PhaseOvulation, StartDay: 13, EndDay: 15},
		{Phase: PhaseLuteal, StartDay: 16, EndDay: 28},
	}
	if len(phases) != len(expected) {
		t.Fatalf("expected %d phases, got %d", len(expected), len(phases))
	}
	for index, want := range expected {
		got := phases[index]
		if got.Phase != want.Phase || got.StartDay != want.StartDay || got.EndDay != want.EndDay {
			t.Fatalf("phase %d: expected %+v, got %+v", index, want, got)
		}
		if got.Days != want.EndDay-want.StartDay+1 {
			t.Fatalf("phase %s: expected %d days, got %d", got.Phase, want.EndDay-want.StartDay+1, got.Days)
		}
	}
}

func TestCycleServiceCalendarMonth(t *testing.T) {
	fixture := newServiceFixture(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	fixture.seedPartner(1, "2025-01-01")
	service := NewDailyLogService(fixture.partners, fixture.logs)
	if _, err := service.Create(1, DailyLogInput{LogDate: mustDate(t, "2025-01-03"), Mood: stringPtr("meh")}); err != nil {
		t.Fatalf("seed daily log: %v", err)
	}
	if _, err := service.Create(1, DailyLogInput{LogDate: mustDate(t, "2025-02-03")}); err != nil {
		t.Fatalf("seed daily log: %v", err)
	}

	month, err := fixture.cycleService().CalendarMonth(1, 2025, 1)
	if err != nil {
		t.Fatalf("calendar month: %v", err)
	}
	if month.Year != 2025 || month.Month != 1 || len(month.Days) != 31 {
		t.Fatalf("unexpected month header %d-%d with %d days", month.Year, month.Month, len(month.Days))
	}
	if !month.Days[2].HasLog || month.Days[2].Mood == nil || *month.Days[2].Mood != "meh" {
		t.Fatalf("expected logged mood on 2025-01-03, got %+v", month.Days[2])
	}
	if !month.Days[28].IsPredictedPeriod {
		t.Fatalf("expected predicted period on 2025-01-29, got %+v", month.Days[28])
	}

	for _, invalid := range []int{0, 13} {
		if _, err := fixture.cycleService().CalendarMonth(1, 2025, invalid); !errors.Is(err, ErrInvalidCalendarMonth) {
			t.Fatalf("month %d: expected ErrInvalidCalendarMonth, got %v", invalid, err)
		}
	}
}

func TestCycleServicePatterns(t *testing.T) {
	fixture := newServiceFixture(time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC))
	fixture.seedPartner(1, "")
	periods := fixture.periodService()
	createPeriod(t, periods, 1, "2025-01-01")
	createPeriod(t, periods, 1, "2025-01-30")

	pattern, err := fixture.cycleService().Patterns(1)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}
	if pattern.AverageCycleLength != 29 || pattern.CycleLengthRange != [2]int{29, 29} {
		t.Fatalf("unexpected pattern %+v", pattern)
	}
}
