package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Put("/me/telegram", handler.AuthRequired, handler.LinkTelegram)

	partner := api.Group("/partner", handler.AuthRequired)
	partner.Get("", handler.GetPartner)
	partner.Post("", handler.CreatePartner)
	partner.Patch("", handler.UpdatePartner)
	partner.Delete("", handler.DeletePartner)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Get("", handler.ListPeriods)
	periods.Post("", handler.CreatePeriod)
	periods.Get("/on/:date", handler.PeriodOnDate)
	periods.Get("/:id", handler.GetPeriod)
	periods.Patch("/:id", handler.UpdatePeriod)
	periods.Delete("/:id", handler.DeletePeriod)
	periods.Post("/:id/end", handler.EndPeriod)

	dailyLogs := api.Group("/daily-logs", handler.AuthRequired)
	dailyLogs.Get("", handler.ListDailyLogs)
	dailyLogs.Post("", handler.CreateDailyLog)
	dailyLogs.Get("/:date", handler.GetDailyLog)
	dailyLogs.Put("/:date", handler.UpdateDailyLog)
	dailyLogs.Delete("/:date", handler.DeleteDailyLog)

	cycle := api.Group("/cycle", handler.AuthRequired)
	cycle.Get("/status", handler.CycleStatus)
	cycle.Get("/phases", handler.CyclePhases)
	cycle.Get("/calendar/:year/:month", handler.CycleCalendar)
	cycle.Get("/patterns", handler.CyclePatterns)
	cycle.Get("/feed.ics", handler.CalendarFeed)

	notifications := api.Group("/notifications", handler.AuthRequired)
	notifications.Get("/plans", handler.NotificationPlans)
	notifications.Post("/sync", handler.SyncNotifications)
}
