package event

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherhub/event-manager/pkg/model"
)

func NewService(repository *repository, notifier notifier, eventsPerPage int) *Service {
	return &Service{
		repository:    repository,
		notifier:      notifier,
		eventsPerPage: eventsPerPage,
	}
}

// notifier fans notifications out after the triggering write has been
// committed. Failures are the notifier's problem, they never affect the
// committed write.
type notifier interface {
	NotifyRSVP(ctx context.Context, user *model.User, event *model.Event, status model.RSVPStatus)
	BroadcastEventCreated(ctx context.Context, event *model.Event) error
}

type Service struct {
	repository    *repository
	notifier      notifier
	eventsPerPage int
}

// RSVPCounts are the per status totals shown on the event detail page.
type RSVPCounts struct {
	Attending    int
	NotAttending int
	Maybe        int
}

// Page is one page of the event listing.
type Page struct {
	Events     []model.Event
	Number     int
	TotalPages int
	Past       bool
}

func (s Service) FindAll(ctx context.Context, past bool, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	events, total, err := s.repository.findAll(ctx, past, time.Now(), (page-1)*s.eventsPerPage, s.eventsPerPage)
	if err != nil {
		return Page{}, err
	}

	totalPages := int((total + int64(s.eventsPerPage) - 1) / int64(s.eventsPerPage))

	return Page{
		Events:     events,
		Number:     page,
		TotalPages: totalPages,
		Past:       past,
	}, nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.findById(ctx, id)
}

func (s Service) FindRSVP(ctx context.Context, userID, eventID uint) (*model.RSVP, error) {
	return s.repository.findRSVP(ctx, userID, eventID)
}

func (s Service) CountRSVPs(ctx context.Context, eventID uint) (RSVPCounts, error) {
	return s.repository.countRSVPs(ctx, eventID)
}

// Create persists an event owned by user and broadcasts it to all other
// users. The broadcast happens after the commit, asynchronously, in bounded
// batches.
func (s Service) Create(ctx context.Context, user *model.User, title, description string, eventDate time.Time, venue string, maxAttendees uint) (*model.Event, error) {
	event := &model.Event{
		Title:        title,
		Description:  description,
		EventDate:    eventDate,
		Venue:        venue,
		MaxAttendees: maxAttendees,
		CreatedBy:    user.ID,
	}

	err := s.repository.create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %v", err)
	}

	err = s.notifier.BroadcastEventCreated(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast event creation: %v", err)
	}

	return event, nil
}

// Update overwrites all mutable fields. There is no optimistic concurrency
// check, concurrent edits last-write-win.
func (s Service) Update(ctx context.Context, id uint, title, description string, eventDate time.Time, venue string, maxAttendees uint) (*model.Event, error) {
	event, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = title
	event.Description = description
	event.EventDate = eventDate
	event.Venue = venue
	event.MaxAttendees = maxAttendees

	err = s.repository.save(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %v", err)
	}

	return event, nil
}

// Delete removes the event. Dependent RSVPs and notifications are removed by
// the database's ON DELETE CASCADE configuration.
func (s Service) Delete(ctx context.Context, id uint) error {
	return s.repository.delete(ctx, id)
}

// SubmitRSVP upserts the RSVP for (user, event) and fans out notifications
// once the RSVP is committed. The RSVP wins on partial failure, notifications
// are best-effort.
func (s Service) SubmitRSVP(ctx context.Context, user *model.User, eventID uint, status model.RSVPStatus, notes string) error {
	event, err := s.repository.findById(ctx, eventID)
	if err != nil {
		return err
	}

	rsvp := &model.RSVP{
		UserID:  user.ID,
		EventID: event.ID,
		Status:  status,
		Notes:   notes,
	}

	err = s.repository.upsertRSVP(ctx, rsvp)
	if err != nil {
		return fmt.Errorf("failed to upsert RSVP: %v", err)
	}

	s.notifier.NotifyRSVP(ctx, user, event, status)

	return nil
}
