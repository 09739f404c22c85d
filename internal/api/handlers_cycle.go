package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/services"
)

func (handler *Handler) CycleStatus(c *fiber.Ctx) error {
	status, err := handler.services.Cycles.Status(currentUserID(c))
	if err != nil {
		return serviceError(c, err, "failed to load cycle status")
	}
	return c.JSON(status)
}

func (handler *Handler) CyclePhases(c *fiber.Ctx) error {
	phases, err := handler.services.Cycles.PhaseWindows(currentUserID(c))
	if err != nil {
		return serviceError(c, err, "failed to load phases")
	}
	return c.JSON(phases)
}

func (handler *Handler) CycleCalendar(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, services.ErrInvalidCalendarMonth.Error())
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, services.ErrInvalidCalendarMonth.Error())
	}

	calendar, err := handler.services.Cycles.CalendarMonth(currentUserID(c), year, month)
	if err != nil {
		return serviceError(c, err, "failed to build calendar")
	}
	if !c.QueryBool("grid") {
		return c.JSON(calendar)
	}
	return c.JSON(fiber.Map{
		"year":  calendar.Year,
		"month": calendar.Month,
		"weeks": calendarWeeks(services.PadCalendarWeeks(calendar.Days)),
	})
}

func calendarWeeks(grid []*services.CalendarDayCell) [][]*services.CalendarDayCell {
	weeks := make([][]*services.CalendarDayCell, 0, len(grid)/7)
	for start := 0; start+7 <= len(grid); start += 7 {
		weeks = append(weeks, grid[start:start+7])
	}
	return weeks
}

func (handler *Handler) CyclePatterns(c *fiber.Ctx) error {
	pattern, err := handler.services.Cycles.Patterns(currentUserID(c))
	if err != nil {
		return serviceError(c, err, "failed to load patterns")
	}
	return c.JSON(pattern)
}

func (handler *Handler) CalendarFeed(c *fiber.Ctx) error {
	feed, err := handler.services.Feed.Feed(currentUserID(c), handler.now())
	if err != nil {
		return serviceError(c, err, "failed to build calendar feed")
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="redrecon.ics"`)
	return c.SendString(feed)
}
