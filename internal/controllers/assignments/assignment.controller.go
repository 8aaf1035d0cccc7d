package assignmentController

import (
	"context"
	"strings"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/events"
	. "hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentControllerInterface interface {
	Create(ctx context.Context, user *User, req types.CreateAssignmentRequest) (*InspectionAssignment, error)
	ListMine(ctx context.Context, user *User, query types.AssignmentListQuery) ([]*InspectionAssignment, error)
	ListAll(ctx context.Context, user *User, query types.AssignmentListQuery) ([]*InspectionAssignment, error)
	Get(ctx context.Context, user *User, id uuid.UUID) (*InspectionAssignment, error)
	UpdateStatus(
		ctx context.Context,
		user *User,
		id uuid.UUID,
		req types.UpdateAssignmentStatusRequest,
	) (*InspectionAssignment, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req types.UpdateAssignmentRequest) (*InspectionAssignment, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
	MarkOverdue(ctx context.Context) (int, error)
}

type AssignmentController struct {
	assignmentRepo repositories.AssignmentRepository
	inspectionRepo repositories.InspectionRepository
	userRepo       repositories.UserRepository
	transaction    services.TransactionExecutor
	publisher      events.Publisher
	db             database.DB
	now            func() time.Time
	log            logger.Logger
}

func New(
	repos repositories.Repository,
	transaction services.TransactionExecutor,
	publisher events.Publisher,
	db database.DB,
) AssignmentControllerInterface {
	return &AssignmentController{
		assignmentRepo: repos.Assignment,
		inspectionRepo: repos.Inspection,
		userRepo:       repos.User,
		transaction:    transaction,
		publisher:      publisher,
		db:             db,
		now:            time.Now,
		log:            logger.New("assignmentController"),
	}
}

func statusFilter(query types.AssignmentListQuery) (AssignmentStatus, error) {
	status := AssignmentStatus(strings.TrimSpace(query.Status))
	if status != "" && !status.Valid() {
		return "", apperrors.Validation("Unknown assignment status", "status")
	}
	return status, nil
}

func (c *AssignmentController) Create(
	ctx context.Context,
	user *User,
	req types.CreateAssignmentRequest,
) (*InspectionAssignment, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if !permissions.For(user).CanAssignInspections {
		return nil, apperrors.ErrForbidden
	}
	if req.DueDate.IsZero() {
		return nil, apperrors.Validation("Due date is required", "dueDate")
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, apperrors.Validation("Unknown priority", "priority")
	}

	inspection, err := c.inspectionRepo.GetByID(ctx, c.db.SQL, req.InspectionID)
	if err != nil {
		if apperrors.Classify(err) == apperrors.KindNotFound {
			return nil, apperrors.Validation("Inspection does not exist", "inspectionId")
		}
		return nil, err
	}

	assignee, err := c.userRepo.GetByID(ctx, c.db.SQL, req.AssignedTo)
	if err != nil {
		if apperrors.Classify(err) == apperrors.KindNotFound {
			return nil, apperrors.Validation("Assignee does not exist", "assignedTo")
		}
		return nil, err
	}
	if !assignee.IsApproved() {
		return nil, apperrors.Validation("Assignee must be an approved user", "assignedTo")
	}

	assignment := &InspectionAssignment{
		InspectionID: inspection.ID,
		AssignedTo:   assignee.ID,
		AssignedBy:   user.ID,
		DueDate:      req.DueDate.UTC(),
		Priority:     req.Priority,
		Status:       AssignmentAssigned,
		Notes:        strings.TrimSpace(req.Notes),
	}
	if assignment.Priority == "" {
		assignment.Priority = inspection.Priority
	}
	if !assignment.Priority.Valid() {
		assignment.Priority = PriorityMedium
	}
	if assignment.IsOverdueAt(c.now()) {
		assignment.Status = AssignmentOverdue
	}

	if err := c.assignmentRepo.Create(ctx, c.db.SQL, assignment); err != nil {
		return nil, err
	}
	assignment.Inspection = inspection

	c.publish(ctx, assignment.AssignedTo, user, events.ASSIGNMENT_CREATED, assignment)
	log.Info("inspection assigned",
		"assignmentID", assignment.ID,
		"inspectionID", inspection.ID,
		"assignedTo", assignee.ID,
	)
	return assignment, nil
}

func (c *AssignmentController) ListMine(
	ctx context.Context,
	user *User,
	query types.AssignmentListQuery,
) ([]*InspectionAssignment, error) {
	status, err := statusFilter(query)
	if err != nil {
		return nil, err
	}

	return c.assignmentRepo.List(ctx, c.db.SQL, repositories.AssignmentFilter{
		AssignedTo: &user.ID,
		Status:     status,
	})
}

func (c *AssignmentController) ListAll(
	ctx context.Context,
	user *User,
	query types.AssignmentListQuery,
) ([]*InspectionAssignment, error) {
	perms := permissions.For(user)
	if !perms.CanAssignInspections && !perms.CanViewAllInspections {
		return nil, apperrors.ErrForbidden
	}

	status, err := statusFilter(query)
	if err != nil {
		return nil, err
	}

	return c.assignmentRepo.List(ctx, c.db.SQL, repositories.AssignmentFilter{Status: status})
}

func canView(user *User, assignment *InspectionAssignment) bool {
	if user.ID == assignment.AssignedTo || user.ID == assignment.AssignedBy {
		return true
	}
	return permissions.For(user).CanViewAllInspections
}

func (c *AssignmentController) Get(ctx context.Context, user *User, id uuid.UUID) (*InspectionAssignment, error) {
	assignment, err := c.assignmentRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}
	if !canView(user, assignment) {
		return nil, apperrors.ErrForbidden
	}
	return assignment, nil
}

// UpdateStatus moves the assignment along its lifecycle. Completing it also
// completes the inspection in the same transaction. Work still open past the
// due date stays overdue.
func (c *AssignmentController) UpdateStatus(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req types.UpdateAssignmentStatusRequest,
) (*InspectionAssignment, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateStatus")

	assignment, err := c.assignmentRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanUpdateAssignment(user, assignment.AssignedTo, assignment.AssignedBy) {
		return nil, apperrors.ErrForbidden
	}
	if !req.Status.Valid() || req.Status == AssignmentOverdue {
		return nil, apperrors.Validation("Status must be assigned, in_progress or completed", "status")
	}
	if !assignment.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.Validation(
			"Cannot move assignment from "+string(assignment.Status)+" to "+string(req.Status),
			"status",
		)
	}

	now := c.now()
	assignment.Status = req.Status
	if req.Status != AssignmentCompleted && assignment.IsOverdueAt(now) {
		assignment.Status = AssignmentOverdue
	}

	if err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.assignmentRepo.Update(ctx, tx, assignment); err != nil {
			return err
		}
		return c.syncInspection(ctx, tx, assignment, now)
	}); err != nil {
		return nil, err
	}

	c.publish(ctx, assignment.AssignedTo, user, events.ASSIGNMENT_UPDATED, assignment)
	if assignment.AssignedBy != assignment.AssignedTo {
		c.publish(ctx, assignment.AssignedBy, user, events.ASSIGNMENT_UPDATED, assignment)
	}
	log.Info("assignment status changed", "assignmentID", id, "status", assignment.Status)
	return assignment, nil
}

// syncInspection carries an assignment's progress onto its inspection.
func (c *AssignmentController) syncInspection(
	ctx context.Context,
	tx *gorm.DB,
	assignment *InspectionAssignment,
	now time.Time,
) error {
	if assignment.Status != AssignmentCompleted && assignment.Status != AssignmentInProgress {
		return nil
	}

	inspection, err := c.inspectionRepo.GetByID(ctx, tx, assignment.InspectionID)
	if err != nil {
		return err
	}

	switch {
	case assignment.Status == AssignmentCompleted && inspection.Status != InspectionCompleted:
		inspection.MarkCompleted(now)
	case assignment.Status == AssignmentInProgress && inspection.Status == InspectionDraft:
		inspection.Status = InspectionInProgress
		if inspection.StartedAt == nil {
			inspection.StartedAt = &now
		}
	default:
		return nil
	}

	if err := c.inspectionRepo.Update(ctx, tx, inspection); err != nil {
		return err
	}
	assignment.Inspection = inspection
	return nil
}

func (c *AssignmentController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req types.UpdateAssignmentRequest,
) (*InspectionAssignment, error) {
	assignment, err := c.assignmentRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}
	if user.ID != assignment.AssignedBy && !permissions.For(user).CanAssignInspections {
		return nil, apperrors.ErrForbidden
	}

	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, apperrors.Validation("Unknown priority", "priority")
		}
		assignment.Priority = *req.Priority
	}
	if req.Notes != nil {
		assignment.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return nil, apperrors.Validation("Due date is required", "dueDate")
		}
		assignment.DueDate = req.DueDate.UTC()

		switch now := c.now(); {
		case assignment.Status == AssignmentOverdue && !assignment.IsOverdueAt(now):
			assignment.Status = AssignmentAssigned
		case assignment.Status != AssignmentCompleted && assignment.IsOverdueAt(now):
			assignment.Status = AssignmentOverdue
		}
	}

	if err := c.assignmentRepo.Update(ctx, c.db.SQL, assignment); err != nil {
		return nil, err
	}

	c.publish(ctx, assignment.AssignedTo, user, events.ASSIGNMENT_UPDATED, assignment)
	return assignment, nil
}

// Delete removes the assignment together with its inspection.
func (c *AssignmentController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	assignment, err := c.assignmentRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return err
	}
	if user.ID != assignment.AssignedBy && !permissions.For(user).CanAssignInspections {
		return apperrors.ErrForbidden
	}

	if err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.assignmentRepo.Delete(ctx, tx, assignment)
	}); err != nil {
		return err
	}

	c.publish(ctx, assignment.AssignedTo, user, events.ASSIGNMENT_DELETED, assignment)
	log.Info("assignment deleted with its inspection",
		"assignmentID", id,
		"inspectionID", assignment.InspectionID,
		"userID", user.ID,
	)
	return nil
}

// MarkOverdue flags open assignments past their due date and tells each
// assignee. It returns how many assignments changed.
func (c *AssignmentController) MarkOverdue(ctx context.Context) (int, error) {
	log := c.log.TraceFromContext(ctx).Function("MarkOverdue")

	updated, err := c.assignmentRepo.MarkOverdue(ctx, c.db.SQL, c.now())
	if err != nil {
		return 0, err
	}

	for _, assignment := range updated {
		c.publish(ctx, assignment.AssignedTo, nil, events.ASSIGNMENT_UPDATED, assignment)
	}

	if len(updated) > 0 {
		log.Info("assignments marked overdue", "count", len(updated))
	}
	return len(updated), nil
}

// publish notifies recipient unless they are the one who made the change.
func (c *AssignmentController) publish(
	ctx context.Context,
	recipient uuid.UUID,
	actor *User,
	eventType events.MessageType,
	assignment *InspectionAssignment,
) {
	if actor != nil && actor.ID == recipient {
		return
	}

	if err := c.publisher.PublishToUser(recipient, eventType, map[string]any{
		"assignmentId": assignment.ID.String(),
		"inspectionId": assignment.InspectionID.String(),
		"status":       string(assignment.Status),
		"dueDate":      assignment.DueDate,
	}); err != nil {
		c.log.TraceFromContext(ctx).Function("publish").
			Warn("failed to publish assignment event", "userID", recipient, "type", eventType, "error", err)
	}
}
