package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gatherhub/event-manager/internal/handler"
	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(notificationService notificationService, broker *Broker) Handler {
	return Handler{
		notificationService: notificationService,
		broker:              broker,
	}
}

type Handler struct {
	notificationService notificationService
	broker              *Broker
}

type notificationService interface {
	FindByUser(ctx context.Context, userID uint) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

// List renders the signed in user's notifications, newest first.
func (h Handler) List(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	notifications, err := h.notificationService.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Render(c, http.StatusOK, "notifications.html", gin.H{
		"Title":         "Notifications",
		"Notifications": notifications,
	})
}

// MarkRead marks one of the signed in user's notifications as read.
func (h Handler) MarkRead(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	err = h.notificationService.MarkRead(c.Request.Context(), id, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/notifications")
}

// Stream pushes the signed in user's notifications over server-sent events as
// they are created.
func (h Handler) Stream(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	channel := h.broker.Subscribe(user.ID)
	defer h.broker.Unsubscribe(user.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case notification, ok := <-channel:
			if !ok {
				return false
			}
			body, err := json.Marshal(notification)
			if err != nil {
				return false
			}
			c.SSEvent(string(notification.Type), string(body))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
