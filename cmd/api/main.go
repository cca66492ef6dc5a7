package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/config"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/jwt"
	api "github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/repository/tableapi"
	serviceAuth "github.com/cmlabs-hris/shift-scheduler-go/internal/service/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
	calendarService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/calendar"
	scheduleService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/schedule"
	userService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/user"
	"github.com/cmlabs-hris/shift-scheduler-go/migrations"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	users    user.UserRepository
	shifts   shift.ShiftRepository
	requests shift.ShiftRequestRepository
	tx       database.Transactor
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-scheduler"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer repos.close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Invalid JWT configuration:", err)
	}

	dataCache := cache.New(repos.users, repos.shifts, repos.requests, cache.WithTTL(cfg.Cache.TTL))

	scheduler := cron.NewScheduler()
	cron.RegisterCacheWarmer(scheduler, dataCache, cfg.Cache.WarmInterval, cfg.TableAPI.Timeout)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	authService := serviceAuth.NewAuthService(repos.users, JWTService)
	usersService := userService.NewUserService(repos.users, repos.shifts, repos.requests, repos.tx, dataCache)
	schedulesService := scheduleService.NewScheduleService(repos.requests, repos.shifts, repos.users, dataCache)
	calendarsService := calendarService.NewCalendarService(dataCache)

	router := appHTTP.NewRouter(logger, cfg.App.CORSAllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:     appHTTP.NewAuthHandler(authService),
		Shift:    appHTTP.NewShiftHandler(schedulesService),
		User:     appHTTP.NewUserHandler(usersService),
		Calendar: appHTTP.NewCalendarHandler(calendarsService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr, "storage", cfg.Storage.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func newRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				db.Close()
				return nil, err
			}
			slog.Info("database schema up to date")
		}
		return &repositories{
			users:    postgresql.NewUserRepository(db),
			shifts:   postgresql.NewShiftRepository(db),
			requests: postgresql.NewShiftRequestRepository(db),
			tx:       postgresql.NewTransactor(db),
			close:    db.Close,
		}, nil

	case config.BackendMemory:
		store := memory.NewStore()
		hash, err := userService.HashPassword(cfg.Storage.SeedPassword)
		if err != nil {
			return nil, err
		}
		ids, err := fixtures.SeedDefaultUsers(ctx, store.Users(), hash, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		slog.Warn("using in-memory storage; data is lost on restart", "seeded_users", len(ids))
		return &repositories{
			users:    store.Users(),
			shifts:   store.Shifts(),
			requests: store.ShiftRequests(),
			tx:       database.NoopTransactor(),
			close:    func() {},
		}, nil

	default:
		client, err := api.NewClient(api.Config{
			BaseURL:      cfg.TableAPI.BaseURL,
			Timeout:      cfg.TableAPI.Timeout,
			MaxRetries:   cfg.TableAPI.MaxRetries,
			RetryBackoff: cfg.TableAPI.RetryBackoff,
			ListLimit:    cfg.TableAPI.ListLimit,
		}, nil)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:    tableapi.NewUserRepository(client),
			shifts:   tableapi.NewShiftRepository(client),
			requests: tableapi.NewShiftRequestRepository(client),
			tx:       database.NoopTransactor(),
			close:    func() {},
		}, nil
	}
}
