package services

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/terraincognita07/redrecon/internal/models"
)

const (
	calendarFeedProductID = "-//redrecon//cycle feed//EN"
	notificationEventSpan = 30 * time.Minute
)

type CalendarFeedService struct {
	cycles *CycleService
}

func NewCalendarFeedService(cycles *CycleService) *CalendarFeedService {
	return &CalendarFeedService{cycles: cycles}
}

// Feed renders the predicted period window and the pending notifications as
// an iCalendar document.
func (service *CalendarFeedService) Feed(userID uint, now time.Time) (string, error) {
	snapshot, err := service.cycles.Snapshot(userID)
	if err != nil {
		return "", err
	}
	return BuildCalendarFeed(snapshot, now), nil
}

func BuildCalendarFeed(snapshot CycleSnapshot, now time.Time) string {
	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId(calendarFeedProductID)
	calendar.SetXWRCalName(fmt.Sprintf("%s - cycle", snapshot.Partner.Name))

	location := snapshot.Partner.Location()
	snapshot.Today = models.Today(now, location)
	projection := snapshot.Projection()
	stamp := now.UTC()

	if projection.PredictedPeriodStart != nil {
		start := *projection.PredictedPeriodStart
		event := calendar.AddEvent(fmt.Sprintf("predicted-period-%d-%s@redrecon", snapshot.Partner.ID, start))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(start.Time(location))
		event.SetAllDayEndAt(start.AddDays(projection.PeriodLength).Time(location))
		event.SetSummary("Predicted period")
		event.SetDescription(fmt.Sprintf("Expected to last %d days.", projection.PeriodLength))
	}

	for _, plan := range ComputeNotificationPlans(projection, &snapshot.Partner, now) {
		event := calendar.AddEvent(fmt.Sprintf("%s-%d@redrecon", plan.Identifier, snapshot.Partner.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(plan.TriggerAt)
		event.SetEndAt(plan.TriggerAt.Add(notificationEventSpan))
		event.SetSummary(plan.Title)
		event.SetDescription(plan.Body)
	}

	return calendar.Serialize()
}
