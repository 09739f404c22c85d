package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/services"
)

func (handler *Handler) NotificationPlans(c *fiber.Ctx) error {
	plans, err := handler.services.Notifications.Plans(currentUserID(c), handler.now())
	if err != nil {
		return serviceError(c, err, "failed to compute notifications")
	}
	return c.JSON(nonNilPlans(plans))
}

func (handler *Handler) SyncNotifications(c *fiber.Ctx) error {
	plans, err := handler.services.Notifications.Sync(c.UserContext(), currentUserID(c), handler.now())
	if err != nil {
		return serviceError(c, err, "failed to sync notifications")
	}
	return c.JSON(fiber.Map{"scheduled": nonNilPlans(plans)})
}

func nonNilPlans(plans []services.NotificationPlan) []services.NotificationPlan {
	if plans == nil {
		return []services.NotificationPlan{}
	}
	return plans
}
