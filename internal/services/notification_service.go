package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/redrecon/internal/models"
)

// ScheduledNotification is a plan addressed to one user. Key is unique per
// user and notification slot, so scheduling it replaces the previous one.
type ScheduledNotification struct {
	Key    string
	UserID uint
	Plan   NotificationPlan
}

// NotificationDelivery owns the actual timers. Implementations must treat a
// ScheduleAt for an existing key as a replacement.
type NotificationDelivery interface {
	CancelByIdentifier(ctx context.Context, key string) error
	ScheduleAt(ctx context.Context, notification ScheduledNotification) error
}

func DeliveryKey(userID uint, identifier string) string {
	return fmt.Sprintf("%s:%d", identifier, userID)
}

type NotificationService struct {
	partners PartnerRepository
	cycles   *CycleService
	delivery NotificationDelivery
}

func NewNotificationService(partners PartnerRepository, cycles *CycleService, delivery NotificationDelivery) *NotificationService {
	return &NotificationService{partners: partners, cycles: cycles, delivery: delivery}
}

// Plans re-derives the notifications that should be pending at now.
func (service *NotificationService) Plans(userID uint, now time.Time) ([]NotificationPlan, error) {
	snapshot, err := service.cycles.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	return plansFor(snapshot, now), nil
}

func plansFor(snapshot CycleSnapshot, now time.Time) []NotificationPlan {
	snapshot.Today = models.Today(now, snapshot.Partner.Location())
	return ComputeNotificationPlans(snapshot.Projection(), &snapshot.Partner, now)
}

// Sync cancels every slot of the user and schedules the current plans.
// A user without a partner ends up with nothing scheduled.
func (service *NotificationService) Sync(ctx context.Context, userID uint, now time.Time) ([]NotificationPlan, error) {
	plans, err := service.Plans(userID, now)
	if err != nil && !errors.Is(err, ErrPartnerNotFound) {
		return nil, err
	}
	if err := service.replace(ctx, userID, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SyncAll re-derives and reschedules notifications for every partner.
func (service *NotificationService) SyncAll(ctx context.Context, now time.Time) error {
	partners, err := service.partners.ListAll()
	if err != nil {
		return fmt.Errorf("list partners: %w", err)
	}

	var syncErrs []error
	for _, partner := range partners {
		if err := ctx.Err(); err != nil {
			return err
		}
		snapshot, err := service.cycles.snapshotFor(partner)
		if err != nil {
			syncErrs = append(syncErrs, fmt.Errorf("partner %d: %w", partner.ID, err))
			continue
		}
		if err := service.replace(ctx, partner.UserID, plansFor(snapshot, now)); err != nil {
			syncErrs = append(syncErrs, fmt.Errorf("partner %d: %w", partner.ID, err))
		}
	}
	return errors.Join(syncErrs...)
}

func (service *NotificationService) replace(ctx context.Context, userID uint, plans []NotificationPlan) error {
	if service.delivery == nil {
		return nil
	}
	for _, identifier := range NotificationIdentifiers() {
		if err := service.delivery.CancelByIdentifier(ctx, DeliveryKey(userID, identifier)); err != nil {
			return fmt.Errorf("cancel %s: %w", identifier, err)
		}
	}
	for _, plan := range plans {
		notification := ScheduledNotification{
			Key:    DeliveryKey(userID, plan.Identifier),
			UserID: userID,
			Plan:   plan,
		}
		if err := service.delivery.ScheduleAt(ctx, notification); err != nil {
			return fmt.Errorf("schedule %s: %w", plan.Identifier, err)
		}
	}
	return nil
}
