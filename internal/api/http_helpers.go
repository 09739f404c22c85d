package api

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/models"
	"github.com/terraincognita07/redrecon/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

var errorStatuses = map[error]int{
	services.ErrAuthCredentialsInvalid:  fiber.StatusBadRequest,
	services.ErrWeakPassword:            fiber.StatusBadRequest,
	services.ErrAuthEmailTaken:          fiber.StatusConflict,
	services.ErrAuthInvalidLogin:        fiber.StatusUnauthorized,
	services.ErrTelegramChatID:          fiber.StatusUnprocessableEntity,
	services.ErrPartnerNotFound:         fiber.StatusNotFound,
	services.ErrPartnerAlreadyExists:    fiber.StatusConflict,
	services.ErrPartnerNameRequired:     fiber.StatusUnprocessableEntity,
	services.ErrPartnerNameTooLong:      fiber.StatusUnprocessableEntity,
	services.ErrInvalidCycleLength:      fiber.StatusUnprocessableEntity,
	services.ErrInvalidPeriodLength:     fiber.StatusUnprocessableEntity,
	services.ErrInvalidCycleRegularity:  fiber.StatusUnprocessableEntity,
	services.ErrInvalidReminderDays:     fiber.StatusUnprocessableEntity,
	services.ErrInvalidTimezone:         fiber.StatusUnprocessableEntity,
	services.ErrLastPeriodStartInFuture: fiber.StatusUnprocessableEntity,
	services.ErrPeriodLogNotFound:       fiber.StatusNotFound,
	services.ErrPeriodLogAlreadyExists:  fiber.StatusConflict,
	services.ErrPeriodStartRequired:     fiber.StatusUnprocessableEntity,
	services.ErrPeriodStartInFuture:     fiber.StatusUnprocessableEntity,
	services.ErrPeriodEndBeforeStart:    fiber.StatusUnprocessableEntity,
	services.ErrInvalidFlowIntensity:    fiber.StatusUnprocessableEntity,
	services.ErrNotesTooLong:            fiber.StatusUnprocessableEntity,
	services.ErrInvalidPagination:       fiber.StatusBadRequest,
	services.ErrDailyLogNotFound:        fiber.StatusNotFound,
	services.ErrDailyLogAlreadyExists:   fiber.StatusConflict,
	services.ErrDailyLogDateRequired:    fiber.StatusUnprocessableEntity,
	services.ErrInvalidMood:             fiber.StatusUnprocessableEntity,
	services.ErrInvalidEnergyLevel:      fiber.StatusUnprocessableEntity,
	services.ErrInvalidSymptom:          fiber.StatusUnprocessableEntity,
	services.ErrInvalidDateRange:        fiber.StatusBadRequest,
	services.ErrInvalidCalendarMonth:    fiber.StatusBadRequest,
}

// serviceError maps known service errors onto their status and hides the rest.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	for target, status := range errorStatuses {
		if errors.Is(err, target) {
			return apiError(c, status, target.Error())
		}
	}
	log.Printf("api: %s %s: %v", c.Method(), c.Path(), err)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

func parseDateParam(c *fiber.Ctx, name string) (models.CivilDate, error) {
	return models.ParseCivilDate(strings.TrimSpace(c.Params(name)))
}

func parseOptionalDateQuery(c *fiber.Ctx, name string) (*models.CivilDate, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	date, err := models.ParseCivilDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseIntQuery(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
