package service

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"roomly/internal/model"
	"roomly/internal/repository"
)

// Notifier queues user-facing notifications for reservation lifecycle
// events. Enqueueing never blocks and never fails the calling operation.
type Notifier interface {
	Notify(ctx context.Context, kind model.NotificationKind, reservation *model.Reservation, recipient *model.User)
}

type notificationService struct {
	notifications repository.NotificationRepository
	queue         chan model.Notification
}

// NewNotificationService creates a notification service and starts its
// background worker.
func NewNotificationService(notifications repository.NotificationRepository) Notifier {
	s := &notificationService{
		notifications: notifications,
		queue:         make(chan model.Notification, 100),
	}

	// Start async delivery worker
	go s.worker(context.Background())

	return s
}

// worker drains the queue in small batches, flushing periodically.
func (s *notificationService) worker(ctx context.Context) {
	batch := make([]model.Notification, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-s.queue:
			if !ok {
				if len(batch) > 0 {
					_ = s.notifications.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, n)
			if len(batch) >= 10 {
				if err := s.notifications.CreateBatch(ctx, batch); err != nil {
					log.Errorf("notification batch write failed: %v", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := s.notifications.CreateBatch(ctx, batch); err != nil {
					log.Errorf("notification batch write failed: %v", err)
				}
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// Notify enqueues a notification, falling back to a synchronous write when
// the queue is full. Failures are logged only.
func (s *notificationService) Notify(ctx context.Context, kind model.NotificationKind, reservation *model.Reservation, recipient *model.User) {
	n := model.Notification{
		ReservationID: reservation.ID,
		UserID:        recipient.ID,
		Kind:          kind,
		Message:       notificationMessage(kind, reservation),
	}

	select {
	case s.queue <- n:
	default:
		if err := s.notifications.Create(ctx, &n); err != nil {
			log.Errorf("notification write failed for reservation %s: %v", reservation.ID, err)
		}
	}
}

func notificationMessage(kind model.NotificationKind, reservation *model.Reservation) string {
	window := fmt.Sprintf("%s, %s - %s",
		reservation.Location,
		reservation.StartAt.Format("2006-01-02 15:04"),
		reservation.EndAt.Format("15:04"),
	)
	switch kind {
	case model.NotificationConfirmation:
		return fmt.Sprintf("Your reservation %q is booked (%s).", reservation.Title, window)
	case model.NotificationChange:
		return fmt.Sprintf("Your reservation %q was updated (%s).", reservation.Title, window)
	case model.NotificationCancellation:
		return fmt.Sprintf("Your reservation %q was cancelled (%s).", reservation.Title, window)
	default:
		return fmt.Sprintf("Update for reservation %q (%s).", reservation.Title, window)
	}
}
