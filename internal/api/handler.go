package api

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/terraincognita07/redrecon/internal/services"
)

const defaultAuthTokenTTL = 30 * 24 * time.Hour

// Services bundles everything the handlers call into.
type Services struct {
	Auth          *services.AuthService
	Partners      *services.PartnerService
	Periods       *services.PeriodLogService
	DailyLogs     *services.DailyLogService
	Cycles        *services.CycleService
	Notifications *services.NotificationService
	Feed          *services.CalendarFeedService
}

type Handler struct {
	services     Services
	secretKey    []byte
	tokenTTL     time.Duration
	loginLimiter *attemptLimiter
	now          func() time.Time
}

func NewHandler(deps Services, secret string) (*Handler, error) {
	if len(secret) == 0 {
		return nil, errors.New("secret key is required")
	}
	if deps.Auth == nil || deps.Partners == nil || deps.Periods == nil || deps.DailyLogs == nil ||
		deps.Cycles == nil || deps.Notifications == nil || deps.Feed == nil {
		return nil, errors.New("all services are required")
	}

	return &Handler{
		services:     deps,
		secretKey:    []byte(secret),
		tokenTTL:     defaultAuthTokenTTL,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		now:          time.Now,
	}, nil
}

// syncNotifications reschedules the user's reminders after a change. Failures
// are logged and never fail the request that triggered them.
func (handler *Handler) syncNotifications(ctx context.Context, userID uint) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := handler.services.Notifications.Sync(ctx, userID, handler.now()); err != nil {
		log.Printf("notifications: sync user %d: %v", userID, err)
	}
}
