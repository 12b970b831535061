package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gatherhub/event-manager/internal/middleware"
	"github.com/gatherhub/event-manager/pkg/event"
	"github.com/gatherhub/event-manager/pkg/health"
	"github.com/gatherhub/event-manager/pkg/notification"
	"github.com/gatherhub/event-manager/pkg/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

func GetEngine(
	logger *slog.Logger,
	templatesGlob string,
	eventHandler event.Handler,
	userHandler user.Handler,
	notificationHandler notification.Handler,
	authenticationMiddleware middleware.AuthenticationMiddleware,
	authorizationMiddleware middleware.AuthorizationMiddleware,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	r.LoadHTMLGlob(templatesGlob)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middleware.CorrelationID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())
	r.Use(authenticationMiddleware.Authenticate)

	router := r.Group("")

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/events")
	})
	router.GET("/health", health.Health)

	user.Routes(router, userHandler)
	event.Routes(router, authenticationMiddleware, authorizationMiddleware, eventHandler)
	notification.Routes(router, authenticationMiddleware, notificationHandler)

	return r
}
