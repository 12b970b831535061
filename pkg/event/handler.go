package event

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/internal/handler"
	"github.com/gatherhub/event-manager/internal/util"
	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(eventService eventService) Handler {
	return Handler{
		eventService: eventService,
	}
}

type Handler struct {
	eventService eventService
}

type eventService interface {
	FindAll(ctx context.Context, past bool, page int) (Page, error)
	FindById(ctx context.Context, id uint) (*model.Event, error)
	FindRSVP(ctx context.Context, userID, eventID uint) (*model.RSVP, error)
	CountRSVPs(ctx context.Context, eventID uint) (RSVPCounts, error)
	Create(ctx context.Context, user *model.User, title, description string, eventDate time.Time, venue string, maxAttendees uint) (*model.Event, error)
	Update(ctx context.Context, id uint, title, description string, eventDate time.Time, venue string, maxAttendees uint) (*model.Event, error)
	Delete(ctx context.Context, id uint) error
	SubmitRSVP(ctx context.Context, user *model.User, eventID uint, status model.RSVPStatus, notes string) error
}

// List renders the paginated event listing. Malformed page numbers fall back
// to page 1, past=true lists events strictly before now.
func (h Handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	past, err := strconv.ParseBool(c.Query("past"))
	if err != nil {
		past = false
	}

	events, err := h.eventService.FindAll(c.Request.Context(), past, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Render(c, http.StatusOK, "list.html", gin.H{
		"Title":  "Events",
		"Events": events,
	})
}

// Detail renders one event with its RSVP counts. If the requester is signed
// in and has an RSVP the form is pre-filled with it.
func (h Handler) Detail(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.renderDetail(c, http.StatusOK, event, "")
}

func (h Handler) renderDetail(c *gin.Context, status int, event *model.Event, formError string) {
	ctx := c.Request.Context()

	counts, err := h.eventService.CountRSVPs(ctx, event.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var rsvp *model.RSVP
	if user, ok := model.GetUserFromContext(ctx); ok {
		rsvp, err = h.eventService.FindRSVP(ctx, user.ID, event.ID)
		if err != nil && !errdef.IsNotFound(err) {
			_ = c.Error(err)
			return
		}
	}

	handler.Render(c, status, "detail.html", gin.H{
		"Title":  event.Title,
		"Event":  event,
		"RSVP":   rsvp,
		"Counts": counts,
		"Error":  formError,
	})
}

type RSVPRequest struct {
	Status model.RSVPStatus `form:"status" binding:"required,rsvpstatus"`
	// Notes is optional, a missing field is not an error.
	Notes *string `form:"notes"`
}

// SubmitRSVP upserts the signed in user's RSVP for the event.
func (h Handler) SubmitRSVP(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request RSVPRequest
	if err := handler.BindForm(c, &request); err != nil {
		event, findErr := h.eventService.FindById(c.Request.Context(), id)
		if findErr != nil {
			_ = c.Error(findErr)
			return
		}
		h.renderDetail(c, http.StatusBadRequest, event, err.Error())
		return
	}

	notes := ""
	if request.Notes != nil {
		notes = *request.Notes
	}

	err = h.eventService.SubmitRSVP(c.Request.Context(), user, id, request.Status, notes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetFlash(c, "success", "Your RSVP has been updated")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/events/%d", id))
}

// CreatePage renders the event creation form.
func (h Handler) CreatePage(c *gin.Context) {
	handler.Render(c, http.StatusOK, "create.html", gin.H{"Title": "Create Event"})
}

type EventRequest struct {
	Title        string    `form:"title" binding:"required"`
	Description  string    `form:"description"`
	EventDate    time.Time `form:"event_date" time_format:"2006-01-02T15:04" binding:"required"`
	Venue        string    `form:"venue" binding:"required"`
	MaxAttendees uint      `form:"max_attendees"`
}

// Create persists a new event owned by the signed in user and broadcasts it.
func (h Handler) Create(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request EventRequest
	if err := handler.BindForm(c, &request); err != nil {
		handler.Render(c, http.StatusBadRequest, "create.html", gin.H{
			"Title": "Create Event",
			"Error": err.Error(),
		})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), user, request.Title, request.Description, request.EventDate, request.Venue, request.MaxAttendees)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetFlash(c, "success", "Event created successfully!")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/events/%d", event.ID))
}

// EditPage renders the edit form pre-filled with the event.
func (h Handler) EditPage(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Render(c, http.StatusOK, "edit.html", gin.H{
		"Title": "Edit Event",
		"Event": event,
	})
}

// Edit overwrites all mutable fields of the event.
func (h Handler) Edit(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request EventRequest
	if err := handler.BindForm(c, &request); err != nil {
		event, findErr := h.eventService.FindById(c.Request.Context(), id)
		if findErr != nil {
			_ = c.Error(findErr)
			return
		}
		handler.Render(c, http.StatusBadRequest, "edit.html", gin.H{
			"Title": "Edit Event",
			"Event": event,
			"Error": err.Error(),
		})
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, request.Title, request.Description, request.EventDate, request.Venue, request.MaxAttendees)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetFlash(c, "success", "Event updated successfully!")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/events/%d", event.ID))
}

// Delete removes the event and redirects to the listing.
func (h Handler) Delete(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	err := h.eventService.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetFlash(c, "success", "Event deleted successfully")
	c.Redirect(http.StatusSeeOther, "/events")
}
