package repositories

import (
	"context"
	"time"

	. "hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentFilter struct {
	AssignedTo   *uuid.UUID
	InspectionID *uuid.UUID
	Status       AssignmentStatus
}

type AssignmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*InspectionAssignment, error)
	List(ctx context.Context, tx *gorm.DB, filter AssignmentFilter) ([]*InspectionAssignment, error)
	IsAssigned(ctx context.Context, tx *gorm.DB, inspectionID uuid.UUID, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, assignment *InspectionAssignment) error
	Update(ctx context.Context, tx *gorm.DB, assignment *InspectionAssignment) error
	Delete(ctx context.Context, tx *gorm.DB, assignment *InspectionAssignment) error
	MarkOverdue(ctx context.Context, tx *gorm.DB, now time.Time) ([]*InspectionAssignment, error)
	CountOverdue(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (int64, error)
}

type assignmentRepository struct {
	log logger.Logger
}

func NewAssignmentRepository() AssignmentRepository {
	return &assignmentRepository{
		log: logger.New("assignmentRepository"),
	}
}

func (r *assignmentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*InspectionAssignment, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	assignment, err := gorm.G[InspectionAssignment](tx).
		Preload("Inspection", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to get assignment", err, "assignmentID", id)
	}

	return &assignment, nil
}

func (r *assignmentRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter AssignmentFilter,
) ([]*InspectionAssignment, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Preload("Inspection")
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.InspectionID != nil {
		query = query.Where("inspection_id = ?", *filter.InspectionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var assignments []*InspectionAssignment
	if err := query.Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, log.Err("failed to list assignments", err)
	}

	return assignments, nil
}

func (r *assignmentRepository) IsAssigned(
	ctx context.Context,
	tx *gorm.DB,
	inspectionID uuid.UUID,
	userID uuid.UUID,
) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("IsAssigned")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&InspectionAssignment{}).
		Where("inspection_id = ? AND assigned_to = ?", inspectionID, userID).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check assignment", err, "inspectionID", inspectionID)
	}

	return count > 0, nil
}

func (r *assignmentRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	assignment *InspectionAssignment,
) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error; err != nil {
		return log.Err("failed to create assignment", err, "inspectionID", assignment.InspectionID)
	}

	return nil
}

func (r *assignmentRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	assignment *InspectionAssignment,
) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(assignment).Error; err != nil {
		return log.Err("failed to update assignment", err, "assignmentID", assignment.ID)
	}

	return nil
}

// Delete removes the assignment and the inspection it points at. The
// inspection is marked as a cascade deletion so the purge job may later remove
// it for good. Callers run it inside a transaction so both go or neither does.
func (r *assignmentRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	assignment *InspectionAssignment,
) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	if err := tx.WithContext(ctx).
		Where("id = ?", assignment.ID).
		Delete(&InspectionAssignment{}).Error; err != nil {
		return log.Err("failed to delete assignment", err, "assignmentID", assignment.ID)
	}

	if err := tx.WithContext(ctx).
		Model(&Inspection{}).
		Where("id = ?", assignment.InspectionID).
		Updates(map[string]any{
			"deleted_at":      time.Now(),
			"deletion_reason": DeletionAssignmentCascade,
		}).Error; err != nil {
		return log.Err(
			"failed to delete assigned inspection",
			err,
			"assignmentID", assignment.ID,
			"inspectionID", assignment.InspectionID,
		)
	}

	return nil
}

// MarkOverdue flips open assignments past their due date to overdue and
// returns the rows it changed.
func (r *assignmentRepository) MarkOverdue(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) ([]*InspectionAssignment, error) {
	log := r.log.TraceFromContext(ctx).Function("MarkOverdue")

	var updated []*InspectionAssignment
	if err := tx.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("status IN ? AND due_date < ?",
			[]AssignmentStatus{AssignmentAssigned, AssignmentInProgress}, now).
		Updates(map[string]any{
			"status":     AssignmentOverdue,
			"updated_at": now,
		}).Error; err != nil {
		return nil, log.Err("failed to mark assignments overdue", err)
	}

	return updated, nil
}

func (r *assignmentRepository) CountOverdue(
	ctx context.Context,
	tx *gorm.DB,
	userID *uuid.UUID,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountOverdue")

	query := tx.WithContext(ctx).
		Model(&InspectionAssignment{}).
		Where("status = ?", AssignmentOverdue)
	if userID != nil {
		query = query.Where("assigned_to = ?", *userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count overdue assignments", err)
	}

	return count, nil
}
