package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gatherhub/event-manager/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingQueue struct {
	broadcasts []Broadcast
}

func (q *recordingQueue) Publish(_ context.Context, broadcast Broadcast) error {
	q.broadcasts = append(q.broadcasts, broadcast)
	return nil
}

func newTestService(t *testing.T) (*Service, *Broker, *recordingQueue, *gorm.DB) {
	t.Helper()

	// named shared in-memory database so every pooled connection sees the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Event{}, &model.Notification{}))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := NewBroker()
	queue := &recordingQueue{}
	userService := user.NewService(user.NewRepository(db))
	service := NewService(log, NewRepository(db), broker, queue, userService, 2)
	return service, broker, queue, db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	u := &model.User{Email: email, Password: "hash", FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCreatePublishesToSubscribedUser(t *testing.T) {
	service, broker, _, db := newTestService(t)
	ctx := context.Background()
	recipient := createUser(t, db, "recipient@x.org")

	channel := broker.Subscribe(recipient.ID)

	notification, err := service.Create(ctx, recipient.ID, "hello", model.NotificationTypeEvent, "/events/1")
	require.NoError(t, err)
	assert.NotZero(t, notification.ID)

	select {
	case received := <-channel:
		assert.Equal(t, "hello", received.Message)
		assert.Equal(t, recipient.ID, received.UserID)
	default:
		t.Fatal("expected a notification on the live stream")
	}
}

func TestNotifyRSVPNotifiesUserAndCreator(t *testing.T) {
	service, _, _, db := newTestService(t)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")
	attendee := createUser(t, db, "attendee@x.org")
	event := &model.Event{Title: "some event", EventDate: time.Now(), CreatedBy: creator.ID}
	require.NoError(t, db.Create(event).Error)

	service.NotifyRSVP(ctx, attendee, event, model.RSVPStatusAttending)

	own, err := service.FindByUser(ctx, attendee.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, model.NotificationTypeRSVP, own[0].Type)
	assert.Equal(t, "You RSVP'd to some event as attending.", own[0].Message)

	creators, err := service.FindByUser(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, model.NotificationTypeEvent, creators[0].Type)
	assert.Contains(t, creators[0].Message, "RSVP'd to your event: some event")
}

func TestNotifyRSVPOwnEventNotifiesOnlyOnce(t *testing.T) {
	service, _, _, db := newTestService(t)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")
	event := &model.Event{Title: "some event", EventDate: time.Now(), CreatedBy: creator.ID}
	require.NoError(t, db.Create(event).Error)

	service.NotifyRSVP(ctx, creator, event, model.RSVPStatusMaybe)

	notifications, err := service.FindByUser(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeRSVP, notifications[0].Type)
}

func TestBroadcastEventCreatedQueuesFanOut(t *testing.T) {
	service, _, queue, db := newTestService(t)
	creator := createUser(t, db, "creator@x.org")
	event := &model.Event{Title: "some event", EventDate: time.Now(), CreatedBy: creator.ID}
	require.NoError(t, db.Create(event).Error)

	err := service.BroadcastEventCreated(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, queue.broadcasts, 1)
	broadcast := queue.broadcasts[0]
	assert.Equal(t, event.ID, broadcast.EventID)
	assert.Equal(t, "some event", broadcast.EventTitle)
	assert.Equal(t, creator.ID, broadcast.CreatorID)
	assert.Equal(t, fmt.Sprintf("/events/%d", event.ID), broadcast.Link)
}

func TestHandleBroadcastNotifiesEveryoneButTheCreator(t *testing.T) {
	service, _, _, db := newTestService(t)
	ctx := context.Background()

	creator := createUser(t, db, "creator@x.org")
	recipients := make([]*model.User, 0, 5)
	for i := 0; i < 5; i++ {
		recipients = append(recipients, createUser(t, db, fmt.Sprintf("user%d@x.org", i)))
	}

	// batch size is 2 so this fans out over multiple pages
	err := service.HandleBroadcast(ctx, Broadcast{
		EventID:    1,
		EventTitle: "some event",
		CreatorID:  creator.ID,
		Link:       "/events/1",
	})
	require.NoError(t, err)

	own, err := service.FindByUser(ctx, creator.ID)
	require.NoError(t, err)
	assert.Empty(t, own)

	for _, recipient := range recipients {
		notifications, err := service.FindByUser(ctx, recipient.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "New event created: some event.", notifications[0].Message)
		assert.Equal(t, model.NotificationTypeEvent, notifications[0].Type)
	}
}

func TestMarkRead(t *testing.T) {
	service, _, _, db := newTestService(t)
	ctx := context.Background()
	recipient := createUser(t, db, "recipient@x.org")

	notification, err := service.Create(ctx, recipient.ID, "hello", model.NotificationTypeEvent, "")
	require.NoError(t, err)

	require.NoError(t, service.MarkRead(ctx, notification.ID, recipient.ID))

	notifications, err := service.FindByUser(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)
}

func TestMarkReadOtherUsersNotification(t *testing.T) {
	service, _, _, db := newTestService(t)
	ctx := context.Background()
	recipient := createUser(t, db, "recipient@x.org")
	other := createUser(t, db, "other@x.org")

	notification, err := service.Create(ctx, recipient.ID, "hello", model.NotificationTypeEvent, "")
	require.NoError(t, err)

	err = service.MarkRead(ctx, notification.ID, other.ID)
	assert.True(t, errdef.IsNotFound(err))
}
