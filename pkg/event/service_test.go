package event

import (
	"context"
	"testing"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyRSVP(ctx context.Context, user *model.User, event *model.Event, status model.RSVPStatus) {
	m.Called(ctx, user, event, status)
}

func (m *mockNotifier) BroadcastEventCreated(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestCreateBroadcastsAfterCommit(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("BroadcastEventCreated", mock.Anything, mock.Anything).Return(nil)
	service := NewService(NewRepository(db), notifier, 20)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")

	event, err := service.Create(ctx, creator, "some event", "description", time.Now().Add(time.Hour), "some venue", 50)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.Equal(t, creator.ID, event.CreatedBy)

	notifier.AssertCalled(t, "BroadcastEventCreated", mock.Anything, event)
}

func TestSubmitRSVPNotifiesAfterUpsert(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("BroadcastEventCreated", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyRSVP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	service := NewService(NewRepository(db), notifier, 20)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")
	attendee := createUser(t, db, "attendee@x.org")

	event, err := service.Create(ctx, creator, "some event", "", time.Now().Add(time.Hour), "some venue", 0)
	require.NoError(t, err)

	err = service.SubmitRSVP(ctx, attendee, event.ID, model.RSVPStatusAttending, "count me in")
	require.NoError(t, err)

	notifier.AssertCalled(t, "NotifyRSVP", mock.Anything, attendee, mock.Anything, model.RSVPStatusAttending)

	rsvp, err := service.FindRSVP(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "count me in", rsvp.Notes)
}

func TestSubmitRSVPUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	service := NewService(NewRepository(db), notifier, 20)
	attendee := createUser(t, db, "attendee@x.org")

	err := service.SubmitRSVP(context.Background(), attendee, 42, model.RSVPStatusAttending, "")
	assert.True(t, errdef.IsNotFound(err))
	notifier.AssertNotCalled(t, "NotifyRSVP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOverwritesAllMutableFields(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("BroadcastEventCreated", mock.Anything, mock.Anything).Return(nil)
	service := NewService(NewRepository(db), notifier, 20)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")

	event, err := service.Create(ctx, creator, "old title", "old description", time.Now().Add(time.Hour), "old venue", 10)
	require.NoError(t, err)

	newDate := time.Now().Add(48 * time.Hour)
	updated, err := service.Update(ctx, event.ID, "new title", "new description", newDate, "new venue", 20)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, "new venue", updated.Venue)
	assert.EqualValues(t, 20, updated.MaxAttendees)
	assert.Equal(t, creator.ID, updated.CreatedBy)
}

func TestUpdateUnknownEvent(t *testing.T) {
	db := newTestDB(t)
	service := NewService(NewRepository(db), &mockNotifier{}, 20)

	_, err := service.Update(context.Background(), 42, "title", "", time.Now(), "venue", 0)
	assert.True(t, errdef.IsNotFound(err))
}

func TestDeleteRemovesEvent(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("BroadcastEventCreated", mock.Anything, mock.Anything).Return(nil)
	service := NewService(NewRepository(db), notifier, 20)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")

	event, err := service.Create(ctx, creator, "some event", "", time.Now().Add(time.Hour), "some venue", 0)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, event.ID))

	_, err = service.FindById(ctx, event.ID)
	assert.True(t, errdef.IsNotFound(err))
}

func TestFindAllPagination(t *testing.T) {
	db := newTestDB(t)
	notifier := &mockNotifier{}
	notifier.On("BroadcastEventCreated", mock.Anything, mock.Anything).Return(nil)
	service := NewService(NewRepository(db), notifier, 20)
	ctx := context.Background()
	creator := createUser(t, db, "creator@x.org")

	for i := 0; i < 25; i++ {
		_, err := service.Create(ctx, creator, "some event", "", time.Now().Add(time.Duration(i+1)*time.Hour), "some venue", 0)
		require.NoError(t, err)
	}

	page, err := service.FindAll(ctx, false, 1)
	require.NoError(t, err)
	assert.Len(t, page.Events, 20)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.TotalPages)

	// malformed page numbers default to the first page
	page, err = service.FindAll(ctx, false, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Events, 20)
}
