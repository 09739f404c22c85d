package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/services"
)

func (handler *Handler) GetPartner(c *fiber.Ctx) error {
	partner, err := handler.services.Partners.Get(currentUserID(c))
	if err != nil {
		return serviceError(c, err, "failed to load partner")
	}
	return c.JSON(partner)
}

func (handler *Handler) CreatePartner(c *fiber.Ctx) error {
	var input services.PartnerInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	partner, err := handler.services.Partners.Create(userID, input)
	if err != nil {
		return serviceError(c, err, "failed to create partner")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.Status(fiber.StatusCreated).JSON(partner)
}

func (handler *Handler) UpdatePartner(c *fiber.Ctx) error {
	var input services.PartnerInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	partner, err := handler.services.Partners.Update(userID, input)
	if err != nil {
		return serviceError(c, err, "failed to update partner")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.JSON(partner)
}

func (handler *Handler) DeletePartner(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := handler.services.Partners.Delete(userID); err != nil {
		return serviceError(c, err, "failed to delete partner")
	}
	handler.syncNotifications(c.UserContext(), userID)
	return c.SendStatus(fiber.StatusNoContent)
}
