package notification

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	RequireAuthentication(c *gin.Context)
}

func Routes(r *gin.RouterGroup, authenticationMiddleware AuthenticationMiddleware, handler Handler) {
	authenticatedRouter := r.Group("")
	authenticatedRouter.Use(authenticationMiddleware.RequireAuthentication)
	authenticatedRouter.GET("/notifications", handler.List)
	authenticatedRouter.POST("/notifications/:id/read", handler.MarkRead)
	authenticatedRouter.GET("/notifications/stream", handler.Stream)
}
