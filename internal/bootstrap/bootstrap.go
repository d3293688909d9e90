// Package bootstrap wires the application together: configuration, logging,
// database, repositories, services, controllers and the HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appauth "github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/controllers"
	"github.com/meeras/brigadier/internal/app/migrations"
	"github.com/meeras/brigadier/internal/app/repositories"
	"github.com/meeras/brigadier/internal/app/routes"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/config"
	"github.com/meeras/brigadier/internal/db"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/auth"
	"github.com/meeras/brigadier/internal/pkg/helpers"
	"github.com/meeras/brigadier/internal/pkg/logger"
	"github.com/meeras/brigadier/internal/pkg/websocket"
	"github.com/meeras/brigadier/internal/seed"
)

// Dependencies holds everything BuildDependencies constructs.
type Dependencies struct {
	Config   *config.Config
	Database *db.PostgresDB
	Cache    *db.Redis

	Repos      *repositories.Repositories
	JWTService *auth.JWTService
	Scopes     *appauth.ScopeResolver
	Hub        *websocket.Hub

	AuthService         *services.AuthService
	UserService         *services.UserService
	StudentService      *services.StudentService
	BrigadeService      *services.BrigadeService
	EventService        *services.EventService
	AttendanceService   *services.AttendanceService
	NotificationService *services.NotificationService
	AnalyticsService    *services.AnalyticsService

	Controllers routes.Controllers
}

// LoadConfigAndSetupLogger loads the configuration file and configures the
// global logger according to it.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	logger.Info().
		Str("mode", cfg.Server.Mode).
		Str("port", cfg.Server.Port).
		Msg("Configuration loaded")

	return cfg, nil
}

// SetupDatabase connects to postgres, runs pending migrations and seeds the
// default admin account.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.ApplyDirectory(ctx, "migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, database.Pool); err != nil {
		// A failed seed should not keep the server from starting.
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	return database, nil
}

// BuildDependencies constructs repositories, services and controllers on top
// of the database connection.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	repos := repositories.NewRepositories(database.Pool)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	scopes := appauth.NewScopeResolver(repos.BrigadeRepository, repos.StudentRepository)

	var cache *db.Redis
	if cfg.Redis.Enabled {
		cache = db.NewRedis(cfg.Redis.Addr)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache enabled")
	}

	hub := websocket.NewHub()
	go hub.Run()

	authService := services.NewAuthService(repos.UserRepository, repos.StudentRepository, repos.BrigadeRepository, jwtService)
	userService := services.NewUserService(repos.UserRepository)
	studentService := services.NewStudentService(repos.StudentRepository, repos.UserRepository, repos.AttendanceRepository)
	brigadeService := services.NewBrigadeService(repos.BrigadeRepository, repos.UserRepository, repos.StudentRepository)
	eventService := services.NewEventService(repos.EventRepository)
	attendanceService := services.NewAttendanceService(repos.AttendanceRepository, repos.StudentRepository, repos.EventRepository)
	notificationService := services.NewNotificationService(repos.NotificationRepository, repos.UserRepository, cache, hub)
	analyticsService := services.NewAnalyticsService(repos.UserRepository, repos.StudentRepository, repos.BrigadeRepository, repos.EventRepository, repos.AttendanceRepository)

	ctrl := routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		User:         controllers.NewUserController(userService),
		Student:      controllers.NewStudentController(studentService, scopes),
		Brigade:      controllers.NewBrigadeController(brigadeService, scopes),
		Event:        controllers.NewEventController(eventService),
		Attendance:   controllers.NewAttendanceController(attendanceService, scopes),
		Notification: controllers.NewNotificationController(notificationService),
		Analytics:    controllers.NewAnalyticsController(analyticsService),
		Health:       controllers.NewHealthController(database, cache, cfg.Server.Mode),
		WS:           websocket.ServeWS(hub),
	}

	return &Dependencies{
		Config:   cfg,
		Database: database,
		Cache:    cache,

		Repos:      repos,
		JWTService: jwtService,
		Scopes:     scopes,
		Hub:        hub,

		AuthService:         authService,
		UserService:         userService,
		StudentService:      studentService,
		BrigadeService:      brigadeService,
		EventService:        eventService,
		AttendanceService:   attendanceService,
		NotificationService: notificationService,
		AnalyticsService:    analyticsService,

		Controllers: ctrl,
	}, nil
}

// SetupRouter builds the gin engine with the middleware chain and all routes.
func SetupRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	middleware.SetProductionMode(deps.Config.IsProduction())

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Session windows arrive as "HH:MM" strings.
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return helpers.ValidClock(fl.Field().String())
		})
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger("/api/health", "/metrics"))
	router.Use(middleware.CORS(nil))
	router.Use(middleware.Metrics())

	routes.SetupRouter(router, deps.Controllers, deps.JWTService, deps.Repos.UserRepository)

	return router
}
