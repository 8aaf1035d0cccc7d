package controllers

import (
	"hseinspect/config"
	"hseinspect/internal/database"
	"hseinspect/internal/events"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"

	adminController "hseinspect/internal/controllers/admin"
	assignmentController "hseinspect/internal/controllers/assignments"
	authController "hseinspect/internal/controllers/auth"
	inspectionController "hseinspect/internal/controllers/inspections"
	loggingController "hseinspect/internal/controllers/logging"
	templateController "hseinspect/internal/controllers/templates"
	uploadController "hseinspect/internal/controllers/uploads"
	userController "hseinspect/internal/controllers/users"
)

type Controllers struct {
	Auth       authController.AuthControllerInterface
	User       userController.UserControllerInterface
	Template   templateController.TemplateControllerInterface
	Inspection inspectionController.InspectionControllerInterface
	Assignment assignmentController.AssignmentControllerInterface
	Upload     uploadController.UploadControllerInterface
	Logging    loggingController.LoggingControllerInterface
	Admin      adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus events.Publisher,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:       authController.New(repos.User, services.Auth, db, config),
		User:       userController.New(repos.User, services.Auth, eventBus, db),
		Template:   templateController.New(repos.Template, db),
		Inspection: inspectionController.New(repos, services.Transaction, eventBus, db),
		Assignment: assignmentController.New(repos, services.Transaction, eventBus, db),
		Upload:     uploadController.New(services.Upload),
		Logging:    loggingController.New(services.Logging, config.Environment != "production"),
		Admin:      adminController.New(services.Scheduler),
	}
}
