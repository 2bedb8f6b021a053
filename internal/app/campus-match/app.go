// Package campusmatch собирает приложение: хранилище, кеш, очередь
// модерации, сервисы и HTTP-сервер.
package campusmatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/campus-match/internal/cache"
	"github.com/magabrotheeeer/campus-match/internal/config"
	libjwt "github.com/magabrotheeeer/campus-match/internal/lib/jwt"
	"github.com/magabrotheeeer/campus-match/internal/lib/sl"
	"github.com/magabrotheeeer/campus-match/internal/migrations"
	"github.com/magabrotheeeer/campus-match/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/campus-match/internal/services/auth"
	discoveryservice "github.com/magabrotheeeer/campus-match/internal/services/discovery"
	interactionservice "github.com/magabrotheeeer/campus-match/internal/services/interaction"
	safetyservice "github.com/magabrotheeeer/campus-match/internal/services/safety"
	throttleservice "github.com/magabrotheeeer/campus-match/internal/services/throttle"
	"github.com/magabrotheeeer/campus-match/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние ресурсы приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	rabbitConn *amqp.Connection
}

// New инициализирует все зависимости приложения. RabbitMQ опционален:
// при пустой строке подключения события жалоб не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var rabbitConn *amqp.Connection
	var publisher interactionservice.ReportPublisher
	if cfg.RabbitConnectionString != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetModerationQueues())
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq connection string is empty, report events will not be published")
	}

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker, logger)
	safetyService := safetyservice.New(db, logger)
	discoveryService := discoveryservice.New(db, cacheRedis, logger)
	throttleService := throttleservice.New(db, cfg.Throttle.Quotas, cfg.Throttle.CooldownTTL, logger)
	interactionService := interactionservice.New(safetyService, throttleService, db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, jwtMaker, db,
		authService, safetyService, discoveryService, interactionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		if a.rabbitConn != nil {
			if cerr := a.rabbitConn.Close(); cerr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(cerr))
			}
		}
		return err
	}
}
