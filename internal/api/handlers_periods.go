package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/models"
	"github.com/terraincognita07/redrecon/internal/services"
)

type endPeriodInput struct {
	EndDate models.CivilDate `json:"end_date"`
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	skip, err := parseIntQuery(c, "skip", 0)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid skip")
	}
	limit, err := parseIntQuery(c, "limit", services.DefaultPeriodListLimit)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	periods, err := handler.services.Periods.List(currentUserID(c), skip, limit)
	if err != nil {
		return serviceError(c, err, "failed to load periods")
	}
	return c.JSON(periods)
}

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	var input services.PeriodLogCreateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	period, err := handler.services.Periods.Create(userID, input)
	if err != nil {
		return serviceError(c, err, "failed to log period")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.Status(fiber.StatusCreated).JSON(period)
}

func (handler *Handler) GetPeriod(c *fiber.Ctx) error {
	period, err := handler.services.Periods.Get(currentUserID(c), periodIDParam(c))
	if err != nil {
		return serviceError(c, err, "failed to load period")
	}
	return c.JSON(period)
}

func (handler *Handler) UpdatePeriod(c *fiber.Ctx) error {
	var input services.PeriodLogUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	period, err := handler.services.Periods.Update(userID, periodIDParam(c), input)
	if err != nil {
		return serviceError(c, err, "failed to update period")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.JSON(period)
}

func (handler *Handler) EndPeriod(c *fiber.Ctx) error {
	var input endPeriodInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.EndDate.IsZero() {
		return apiError(c, fiber.StatusUnprocessableEntity, "end_date is required")
	}

	userID := currentUserID(c)
	period, err := handler.services.Periods.End(userID, periodIDParam(c), input.EndDate)
	if err != nil {
		return serviceError(c, err, "failed to end period")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.JSON(period)
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := handler.services.Periods.Delete(userID, periodIDParam(c)); err != nil {
		return serviceError(c, err, "failed to delete period")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) PeriodOnDate(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	status, err := handler.services.Periods.PeriodForDate(currentUserID(c), date)
	if err != nil {
		return serviceError(c, err, "failed to load period")
	}
	return c.JSON(status)
}

func periodIDParam(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Params("id"))
}
