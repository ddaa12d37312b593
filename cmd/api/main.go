package main

import (
	"bizbook/cmd/internal/chatmemory"
	"bizbook/cmd/internal/config"
	"bizbook/cmd/internal/domain/sqlite"
	"bizbook/cmd/internal/domain/sqlite/repository"
	"bizbook/cmd/internal/roster"
	"bizbook/cmd/internal/routes"
	"bizbook/cmd/internal/service"
	"bizbook/cmd/internal/utils/validators"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	validators.Register(validate)

	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal("failed to load .env file", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("invalid configuration", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	policies, err := config.LoadTierPolicies(cfg.TierPolicyFile)
	if err != nil {
		log.Fatal("failed to load tier policies", err)
	}

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	invRepo := repository.NewInvitationRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Staff rosters are polled rather than pushed
	rosterCache := roster.NewCache(staffRepo)
	if err := rosterCache.Start(cfg.RosterRefresh); err != nil {
		log.Fatal("invalid roster refresh schedule", err)
	}
	defer rosterCache.Stop()

	// Getting services
	userService := service.NewUserService(userRepo)
	apptService := service.NewAppointmentService(service.Repositories{
		Appointments: apptRepo,
		Invitations:  invRepo,
		Recurring:    recurringRepo,
		Users:        userRepo,
	}, rosterCache, policies, validate)
	chatMemory := chatmemory.NewPersistentStore(chatRepo)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	chatRoutes := routes.NewChatDefault(chatMemory)
	taskRoutes := routes.NewTaskDefault(validate)

	limiter := routes.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()
	limited := limiter.Middleware()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(routes.Session(cfg.JWTSecret))

	// Appointments
	e.GET("/api/appointments", apptRoutes.GetAppointments)
	e.POST("/api/appointments", apptRoutes.CreateAppointment, limited)
	e.DELETE("/api/appointments/:id", apptRoutes.DeleteAppointment, limited)
	e.POST("/api/appointments/:id/invitation", apptRoutes.RespondToInvitation, limited)
	e.POST("/api/recurrence/preview", apptRoutes.PreviewRecurrence)

	// iCalendar feed of the caller's appointments
	e.GET("/api/calendar", apptRoutes.GetCalendar)

	// Users
	e.GET("/api/users/:id", userRoutes.GetUser)

	// Assistant
	e.GET("/api/chat/:mode/history", chatRoutes.GetHistory)
	e.PUT("/api/chat/:mode/history", chatRoutes.PutHistory, limited)
	e.POST("/api/tasks/parse", taskRoutes.ParseTask)

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", err)
	}
}

func logLevel(name string) log.Lvl {
	switch name {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
