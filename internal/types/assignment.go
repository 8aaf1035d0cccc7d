package types

import (
	"time"

	"hseinspect/internal/models"

	"github.com/google/uuid"
)

type CreateAssignmentRequest struct {
	InspectionID uuid.UUID       `json:"inspectionId" validate:"required"`
	AssignedTo   uuid.UUID       `json:"assignedTo"   validate:"required"`
	DueDate      time.Time       `json:"dueDate"      validate:"required"`
	Priority     models.Priority `json:"priority"     validate:"omitempty,oneof=low medium high critical"`
	Notes        string          `json:"notes"        validate:"max=2000"`
}

type UpdateAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status" validate:"required,oneof=assigned in_progress completed"`
}

type UpdateAssignmentRequest struct {
	DueDate  *time.Time       `json:"dueDate"`
	Priority *models.Priority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Notes    *string          `json:"notes"    validate:"omitempty,max=2000"`
}

type AssignmentListQuery struct {
	Status string `query:"status"`
}
