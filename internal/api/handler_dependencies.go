package api

import (
	"github.com/terraincognita07/redrecon/internal/db"
	"github.com/terraincognita07/redrecon/internal/services"
)

// NewServices wires every service over the sqlite repositories. A nil
// delivery keeps notification plans computable without scheduling them.
func NewServices(repositories *db.Repositories, delivery services.NotificationDelivery) Services {
	cycles := services.NewCycleService(repositories.Partners, repositories.PeriodLogs, repositories.DailyLogs)
	return Services{
		Auth:          services.NewAuthService(repositories.Users),
		Partners:      services.NewPartnerService(repositories.Partners),
		Periods:       services.NewPeriodLogService(repositories.Partners, repositories.PeriodLogs),
		DailyLogs:     services.NewDailyLogService(repositories.Partners, repositories.DailyLogs),
		Cycles:        cycles,
		Notifications: services.NewNotificationService(repositories.Partners, cycles, delivery),
		Feed:          services.NewCalendarFeedService(cycles),
	}
}
