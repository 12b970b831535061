package middleware

import (
	"fmt"
	"net/http"

	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

// ErrorHandler maps errors collected on the context to one rendered error
// page. All handlers report failures the same way, raw persistence errors are
// never shown to the user.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}

		status := c.Writer.Status()
		message := err.Error()

		// nolint:gocritic
		if errdef.IsBadRequest(err) {
			status = http.StatusBadRequest
		} else if errdef.IsUnauthorized(err) {
			status = http.StatusUnauthorized
		} else if errdef.IsForbidden(err) {
			status = http.StatusForbidden
		} else if errdef.IsNotFound(err) {
			status = http.StatusNotFound
		} else if errdef.IsDuplicated(err) {
			status = http.StatusConflict
		} else if status == http.StatusOK {
			id := sloggin.GetRequestID(c)
			status = http.StatusInternalServerError
			message = fmt.Sprintf("something went wrong. We'll look into it if you send us the id %q :)", id)
		}

		if c.Writer.Written() {
			return
		}

		c.HTML(status, "error.html", gin.H{
			"Title":   "Error",
			"Status":  status,
			"Message": message,
		})
	}
}
