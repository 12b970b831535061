package handler

import (
	"github.com/gatherhub/event-manager/internal/util"
	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

// Render renders an HTML template with the common page data every template
// expects: the signed in user (if any) and the pending flash message.
func Render(c *gin.Context, status int, template string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if user, ok := model.GetUserFromContext(c.Request.Context()); ok {
		data["User"] = user
	}

	if flash, ok := util.PopFlash(c); ok {
		data["Flash"] = flash
	}

	c.HTML(status, template, data)
}
