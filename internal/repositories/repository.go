package repositories

import (
	"hseinspect/internal/database"
)

type Repository struct {
	User       UserRepository
	Template   TemplateRepository
	Inspection InspectionRepository
	Assignment AssignmentRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:       NewUserRepository(db.Cache.User),
		Template:   NewTemplateRepository(db.Cache.Template),
		Inspection: NewInspectionRepository(),
		Assignment: NewAssignmentRepository(),
	}
}
