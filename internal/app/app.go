package app

import (
	"context"

	"hseinspect/config"
	"hseinspect/internal/controllers"
	"hseinspect/internal/database"
	"hseinspect/internal/events"
	"hseinspect/internal/handlers/middleware"
	"hseinspect/internal/jobs"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"
	"hseinspect/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	repos := repositories.New(db)

	service, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(service, repos, eventBus, config, db)
	middleware := middleware.New(db, service.Auth, config, repos)

	websocket, err := websockets.New(db, eventBus, service.Auth, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(
		service.Scheduler,
		config,
		service,
		repos,
		db,
		controllers.Assignment,
	); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:     db,
		Config:       config,
		Middleware:   middleware,
		Websocket:    websocket,
		EventBus:     eventBus,
		Services:     service,
		Repositories: repos,
		Controllers:  controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]bool{
		"websocket":            a.Websocket == nil,
		"eventBus":             a.EventBus == nil,
		"authService":          a.Services.Auth == nil,
		"transactionService":   a.Services.Transaction == nil,
		"schedulerService":     a.Services.Scheduler == nil,
		"uploadService":        a.Services.Upload == nil,
		"userRepository":       a.Repositories.User == nil,
		"inspectionRepository": a.Repositories.Inspection == nil,
		"assignmentRepository": a.Repositories.Assignment == nil,
		"assignmentController": a.Controllers.Assignment == nil,
	}

	for name, isNil := range nilChecks {
		if isNil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
