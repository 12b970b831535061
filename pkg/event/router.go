package event

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	RequireAuthentication(c *gin.Context)
}

type AuthorizationMiddleware interface {
	RequireAdministrator(c *gin.Context)
}

func Routes(r *gin.RouterGroup, authenticationMiddleware AuthenticationMiddleware, authorizationMiddleware AuthorizationMiddleware, handler Handler) {
	r.GET("/events", handler.List)

	authenticatedRouter := r.Group("")
	authenticatedRouter.Use(authenticationMiddleware.RequireAuthentication)
	authenticatedRouter.GET("/events/create", handler.CreatePage)
	authenticatedRouter.POST("/events/create", handler.Create)
	authenticatedRouter.POST("/events/:id", handler.SubmitRSVP)

	administratorRestrictedRouter := authenticatedRouter.Group("")
	administratorRestrictedRouter.Use(authorizationMiddleware.RequireAdministrator)
	administratorRestrictedRouter.GET("/events/:id/edit", handler.EditPage)
	administratorRestrictedRouter.POST("/events/:id/edit", handler.Edit)
	administratorRestrictedRouter.POST("/events/:id/delete", handler.Delete)

	// registered last so /events/create wins over the wildcard
	r.GET("/events/:id", handler.Detail)
}
