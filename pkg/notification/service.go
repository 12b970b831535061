package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gatherhub/event-manager/pkg/model"
)

func NewService(logger *slog.Logger, repository *repository, broker *Broker, queue queue, userService userService, batchSize int) *Service {
	return &Service{
		logger:      logger,
		repository:  repository,
		broker:      broker,
		queue:       queue,
		userService: userService,
		batchSize:   batchSize,
	}
}

type queue interface {
	Publish(ctx context.Context, broadcast Broadcast) error
}

type userService interface {
	FindRecipients(ctx context.Context, exceptID uint, afterID uint, limit int) ([]model.User, error)
}

type Service struct {
	logger      *slog.Logger
	repository  *repository
	broker      *Broker
	queue       queue
	userService userService
	batchSize   int
}

// Create persists one notification and pushes it to the recipient's live
// stream if they are subscribed.
func (s Service) Create(ctx context.Context, userID uint, message string, notificationType model.NotificationType, link string) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
		Link:    link,
	}

	err := s.repository.create(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %v", err)
	}

	s.broker.Publish(*notification)

	return notification, nil
}

// NotifyRSVP creates the notifications for a committed RSVP: one to the
// RSVPing user, and one to the event's creator unless they are the same
// user. The RSVP has already been committed so failures are only logged.
func (s Service) NotifyRSVP(ctx context.Context, user *model.User, event *model.Event, status model.RSVPStatus) {
	link := fmt.Sprintf("/events/%d", event.ID)

	message := fmt.Sprintf("You RSVP'd to %s as %s.", event.Title, status)
	_, err := s.Create(ctx, user.ID, message, model.NotificationTypeRSVP, link)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create RSVP notification", "error", err, "user", user.ID, "event", event.ID)
	}

	if event.CreatedBy == user.ID {
		return
	}

	message = fmt.Sprintf("%s RSVP'd to your event: %s as %s.", user.DisplayName(), event.Title, status)
	_, err = s.Create(ctx, event.CreatedBy, message, model.NotificationTypeEvent, link)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create creator notification", "error", err, "creator", event.CreatedBy, "event", event.ID)
	}
}

// BroadcastEventCreated queues the fan-out to all other users. The actual
// notification rows are written by [Service.HandleBroadcast] on the consumer
// side, in bounded batches.
func (s Service) BroadcastEventCreated(ctx context.Context, event *model.Event) error {
	return s.queue.Publish(ctx, Broadcast{
		EventID:    event.ID,
		EventTitle: event.Title,
		CreatorID:  event.CreatedBy,
		Link:       fmt.Sprintf("/events/%d", event.ID),
	})
}

// HandleBroadcast writes one EVENT notification per user except the creator.
// Recipients are paged so the user table is never loaded at once.
func (s Service) HandleBroadcast(ctx context.Context, broadcast Broadcast) error {
	message := fmt.Sprintf("New event created: %s.", broadcast.EventTitle)

	var afterID uint
	for {
		recipients, err := s.userService.FindRecipients(ctx, broadcast.CreatorID, afterID, s.batchSize)
		if err != nil {
			return fmt.Errorf("failed to find broadcast recipients: %v", err)
		}
		if len(recipients) == 0 {
			return nil
		}

		notifications := make([]model.Notification, len(recipients))
		for i, recipient := range recipients {
			notifications[i] = model.Notification{
				UserID:  recipient.ID,
				Message: message,
				Type:    model.NotificationTypeEvent,
				Link:    broadcast.Link,
			}
		}

		if err := s.repository.createInBatches(ctx, notifications, s.batchSize); err != nil {
			return fmt.Errorf("failed to create broadcast notifications: %v", err)
		}

		for _, notification := range notifications {
			s.broker.Publish(notification)
		}

		afterID = recipients[len(recipients)-1].ID
	}
}

func (s Service) FindByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.repository.findByUser(ctx, userID)
}

func (s Service) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repository.markRead(ctx, id, userID)
}
