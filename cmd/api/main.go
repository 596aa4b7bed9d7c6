// Command api serves the TaskNestle REST API.
//
//	@title						TaskNestle API
//	@version					1.0
//	@description				Project and task management for small teams: projects, members, tasks, comments and email invitations.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/tasknestle/tasknestle/docs"
	"github.com/tasknestle/tasknestle/internal/api"
	"github.com/tasknestle/tasknestle/internal/core/service"
	mongodb "github.com/tasknestle/tasknestle/internal/infrastructure/db/mongo"
	redisdb "github.com/tasknestle/tasknestle/internal/infrastructure/db/redis"
	"github.com/tasknestle/tasknestle/internal/infrastructure/http/handlers"
	"github.com/tasknestle/tasknestle/internal/infrastructure/mail"
	"github.com/tasknestle/tasknestle/internal/infrastructure/queue"
	"github.com/tasknestle/tasknestle/internal/pkg/config"
	"github.com/tasknestle/tasknestle/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "tasknestle-api",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	projects := mongodb.NewProjectRepository(db)
	tasks := mongodb.NewTaskRepository(db)
	comments := mongodb.NewCommentRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, projects, tasks, comments); err != nil {
		return err
	}

	// --- Notifications ---
	sender, closeSender, err := mail.NewSender(mail.Config{
		Driver: cfg.Mail.Driver,
		SMTP: mail.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.User,
			Password: cfg.Mail.Password,
		},
		AMQPURL: cfg.Mail.AMQPURL,
		Queue:   cfg.Mail.Queue,
	}, logger.Component("mail"))
	if err != nil {
		return err
	}
	defer closeSender()

	mailer := mail.NewMailer(mail.NewComposer(cfg.Mail.From, cfg.FrontendURL), sender, logger.Component("mail"))
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailer, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Use cases ---
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.InvitationTTL)
	userService := service.NewUserService(users, projects, tasks, dispatcher, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("bootstrap admin created")
		}
	}

	router := api.NewRouter(api.Services{
		Auth:        service.NewAuthService(users, tokens, log),
		Users:       userService,
		Projects:    service.NewProjectService(projects, users, log),
		Tasks:       service.NewTaskService(tasks, projects, users, dispatcher, log),
		Comments:    service.NewCommentService(comments, tasks, projects, users, log),
		Invitations: service.NewInvitationService(projects, users, tokens, redisdb.NewRedemptionStore(rdb), dispatcher, log),
	}, api.Options{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		}),
	})

	// --- Serve ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
