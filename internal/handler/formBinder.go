package handler

import (
	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gin-gonic/gin"
)

// BindForm binds a submitted form into req. Binding and validation failures
// are reported as bad requests so pages can re-render the form with the
// field errors instead of failing the request.
func BindForm(c *gin.Context, req any) error {
	if err := c.ShouldBind(req); err != nil {
		return errdef.NewBadRequest("error binding data: %v", err)
	}

	return nil
}
