package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/services"
)

func (handler *Handler) ListDailyLogs(c *fiber.Ctx) error {
	from, err := parseOptionalDateQuery(c, "from")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseOptionalDateQuery(c, "to")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}

	logs, err := handler.services.DailyLogs.List(currentUserID(c), from, to)
	if err != nil {
		return serviceError(c, err, "failed to load daily logs")
	}
	return c.JSON(logs)
}

func (handler *Handler) CreateDailyLog(c *fiber.Ctx) error {
	var input services.DailyLogInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.services.DailyLogs.Create(currentUserID(c), input)
	if err != nil {
		return serviceError(c, err, "failed to save daily log")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) GetDailyLog(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.services.DailyLogs.Get(currentUserID(c), date)
	if err != nil {
		return serviceError(c, err, "failed to load daily log")
	}
	return c.JSON(entry)
}

func (handler *Handler) UpdateDailyLog(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	var input services.DailyLogInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.services.DailyLogs.Update(currentUserID(c), date, input)
	if err != nil {
		return serviceError(c, err, "failed to update daily log")
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteDailyLog(c *fiber.Ctx) error {
	date, err := parseDateParam(c, "date")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.services.DailyLogs.Delete(currentUserID(c), date); err != nil {
		return serviceError(c, err, "failed to delete daily log")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
