package notify

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/terraincognita07/redrecon/internal/services"
)

const (
	deliveryTimeout = 30 * time.Second
	resyncJobName   = "notification-resync"
)

// Dispatcher turns scheduled notifications into one-time gocron jobs, one per
// key. Jobs live in memory only; the periodic resync rebuilds them after a restart.
type Dispatcher struct {
	scheduler gocron.Scheduler
	sender    Sender
	now       func() time.Time
}

func NewDispatcher(sender Sender) (*Dispatcher, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if sender == nil {
		sender = LogSender{}
	}
	return &Dispatcher{scheduler: scheduler, sender: sender, now: time.Now}, nil
}

func (dispatcher *Dispatcher) Start() {
	dispatcher.scheduler.Start()
}

func (dispatcher *Dispatcher) Shutdown() error {
	return dispatcher.scheduler.Shutdown()
}

func (dispatcher *Dispatcher) CancelByIdentifier(_ context.Context, key string) error {
	dispatcher.scheduler.RemoveByTags(key)
	return nil
}

// ScheduleAt replaces any job for the same key. Triggers that are already in
// the past are dropped.
func (dispatcher *Dispatcher) ScheduleAt(_ context.Context, notification services.ScheduledNotification) error {
	dispatcher.scheduler.RemoveByTags(notification.Key)
	if !notification.Plan.TriggerAt.After(dispatcher.now()) {
		return nil
	}

	_, err := dispatcher.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(notification.Plan.TriggerAt)),
		gocron.NewTask(dispatcher.deliver, notification),
		gocron.WithName(notification.Key),
		gocron.WithTags(notification.Key),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", notification.Key, err)
	}
	return nil
}

func (dispatcher *Dispatcher) deliver(notification services.ScheduledNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	text := notification.Plan.Title + "\n" + notification.Plan.Body
	if err := dispatcher.sender.Send(ctx, notification.UserID, text); err != nil {
		log.Printf("notifications: deliver %s: %v", notification.Key, err)
	}
}

// Pending lists the keys with a job waiting to fire, sorted.
func (dispatcher *Dispatcher) Pending() []string {
	keys := make([]string, 0)
	for _, job := range dispatcher.scheduler.Jobs() {
		if job.Name() == resyncJobName {
			continue
		}
		keys = append(keys, job.Tags()...)
	}
	slices.Sort(keys)
	return keys
}

// StartResync runs sync immediately and then every interval.
func (dispatcher *Dispatcher) StartResync(interval time.Duration, sync func(ctx context.Context, now time.Time) error) error {
	_, err := dispatcher.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := sync(context.Background(), dispatcher.now()); err != nil {
				log.Printf("notifications: resync: %v", err)
			}
		}),
		gocron.WithName(resyncJobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register resync job: %w", err)
	}
	return nil
}
