package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentOverdue    AssignmentStatus = "overdue"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted, AssignmentOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change requested by a user is allowed.
// Overdue is only ever set by the scheduler.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case AssignmentAssigned:
		return next == AssignmentInProgress || next == AssignmentCompleted
	case AssignmentInProgress:
		return next == AssignmentCompleted
	case AssignmentOverdue:
		return next == AssignmentInProgress || next == AssignmentCompleted
	}
	return false
}

// InspectionAssignment links an inspection to the user who must perform it.
// Deleting the assignment deletes the inspection with it.
type InspectionAssignment struct {
	BaseUUIDModel
	InspectionID uuid.UUID        `gorm:"type:uuid;not null;index"                  json:"inspectionId"`
	AssignedTo   uuid.UUID        `gorm:"type:uuid;not null;index"                  json:"assignedTo"`
	AssignedBy   uuid.UUID        `gorm:"type:uuid;not null"                        json:"assignedBy"`
	DueDate      time.Time        `gorm:"type:timestamp;not null;index"             json:"dueDate"`
	Priority     Priority         `gorm:"type:text;not null;default:'medium'"       json:"priority"`
	Status       AssignmentStatus `gorm:"type:text;not null;default:'assigned';index" json:"status"`
	Notes        string           `gorm:"type:text"                                 json:"notes"`
	Inspection   *Inspection      `gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE" json:"inspection,omitempty"`
	Assignee     *User            `gorm:"foreignKey:AssignedTo"                     json:"-"`
	Assigner     *User            `gorm:"foreignKey:AssignedBy"                     json:"-"`
}

func (a *InspectionAssignment) IsOverdueAt(now time.Time) bool {
	if a.Status == AssignmentCompleted {
		return false
	}
	return now.After(a.DueDate)
}
