package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gatherhub/event-manager/internal/handler"
	"github.com/gatherhub/event-manager/internal/log"
	"github.com/gatherhub/event-manager/internal/middleware"
	"github.com/gatherhub/event-manager/internal/server"
	"github.com/gatherhub/event-manager/pkg/config"
	"github.com/gatherhub/event-manager/pkg/event"
	"github.com/gatherhub/event-manager/pkg/notification"
	"github.com/gatherhub/event-manager/pkg/storage"
	"github.com/gatherhub/event-manager/pkg/token"
	"github.com/gatherhub/event-manager/pkg/user"
)

func main() {
	logger := slog.New(log.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Failed to start", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	db, err := storage.NewDatabase(cfg.Postgresql, logger)
	if err != nil {
		return err
	}

	privateKey, err := cfg.Authentication.GetPrivateKey()
	if err != nil {
		return err
	}

	userRepository := user.NewRepository(db)
	userService := user.NewService(userRepository)
	tokenService := token.NewService(privateKey, cfg.Authentication.AccessTokenTtl)
	userHandler := user.NewHandler(cfg.Hostname, userService, tokenService)

	queue, err := notification.NewQueue(cfg.RabbitMQ.GetURL(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Error("Failed to close queue", "error", err)
		}
	}()

	broker := notification.NewBroker()
	defer broker.Close()

	notificationRepository := notification.NewRepository(db)
	notificationService := notification.NewService(logger, notificationRepository, broker, queue, userService, cfg.BroadcastBatchSize)
	notificationHandler := notification.NewHandler(notificationService, broker)

	err = queue.Consume(notificationService.HandleBroadcast)
	if err != nil {
		return err
	}

	eventRepository := event.NewRepository(db)
	eventService := event.NewService(eventRepository, notificationService, cfg.EventsPerPage)
	eventHandler := event.NewHandler(eventService)

	authenticationMiddleware := middleware.NewAuthentication(&privateKey.PublicKey)
	authorizationMiddleware := middleware.NewAuthorization(logger, userService)

	r := server.GetEngine(logger, "./web/templates/*.html", eventHandler, userHandler, notificationHandler, authenticationMiddleware, authorizationMiddleware)
	return r.Run(fmt.Sprintf(":%d", cfg.ServerPort))
}
