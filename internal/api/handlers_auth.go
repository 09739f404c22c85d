package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/redrecon/internal/models"
	"github.com/terraincognita07/redrecon/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return credentialsInput{}, err
	}
	input.Email = strings.TrimSpace(input.Email)
	return input, nil
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.services.Auth.Register(credentials.Email, credentials.Password)
	if err != nil {
		return serviceError(c, err, "failed to create account")
	}
	return handler.respondWithToken(c, &user, fiber.StatusCreated)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := loginLimiterKey(c, credentials.Email)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.services.Auth.Authenticate(credentials.Email, credentials.Password)
	if errors.Is(err, services.ErrAuthInvalidLogin) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return serviceError(c, err, "failed to sign in")
	}

	handler.loginLimiter.reset(limiterKey)
	return handler.respondWithToken(c, &user, fiber.StatusOK)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"id": user.ID, "email": user.Email, "telegram_chat_id": user.TelegramChatID})
}

type telegramLinkInput struct {
	ChatID *int64 `json:"chat_id"`
}

// LinkTelegram sets the chat notifications go to; a null chat_id unlinks it.
func (handler *Handler) LinkTelegram(c *fiber.Ctx) error {
	var input telegramLinkInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.services.Auth.SetTelegramChatID(currentUserID(c), input.ChatID); err != nil {
		return serviceError(c, err, "failed to link telegram chat")
	}
	return c.JSON(fiber.Map{"telegram_chat_id": input.ChatID})
}

func (handler *Handler) respondWithToken(c *fiber.Ctx, user *models.User, status int) error {
	token, err := handler.buildToken(user, handler.tokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(status).JSON(fiber.Map{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": handler.now().Add(handler.tokenTTL).UTC().Format(time.RFC3339),
	})
}
