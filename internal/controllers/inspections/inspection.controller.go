package inspectionController

import (
	"context"
	"strings"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/events"
	"hseinspect/internal/forms"
	. "hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/reports"
	"hseinspect/internal/repositories"
	"hseinspect/internal/services"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

var maxScore = decimal.NewFromInt(100)

type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type InspectionControllerInterface interface {
	List(ctx context.Context, user *User, query types.InspectionListQuery) ([]*Inspection, error)
	Get(ctx context.Context, user *User, id uuid.UUID) (*Inspection, error)
	Create(ctx context.Context, user *User, req types.InspectionRequest) (*types.InspectionResult, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req types.InspectionRequest) (*types.InspectionResult, error)
	Complete(ctx context.Context, user *User, id uuid.UUID) (*Inspection, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
	Stats(ctx context.Context, user *User) (*types.InspectionStats, error)
	Report(ctx context.Context, user *User, id uuid.UUID, format string) (*ReportFile, error)
}

type InspectionController struct {
	inspectionRepo repositories.InspectionRepository
	templateRepo   repositories.TemplateRepository
	assignmentRepo repositories.AssignmentRepository
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
) InspectionControllerInterface {
	return &InspectionController{
		inspectionRepo: repos.Inspection,
		templateRepo:   repos.Template,
		assignmentRepo: repos.Assignment,
		transaction:    transaction,
		publisher:      publisher,
		db:             db,
		now:            time.Now,
		log:            logger.New("inspectionController"),
	}
}

func parseDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(forms.DateLayout, value)
	if err != nil {
		return nil, apperrors.Validation("Dates must use YYYY-MM-DD", field)
	}
	return &parsed, nil
}

func visibleTo(user *User) *uuid.UUID {
	if permissions.For(user).CanViewAllInspections {
		return nil
	}
	return &user.ID
}

func (c *InspectionController) List(
	ctx context.Context,
	user *User,
	query types.InspectionListQuery,
) ([]*Inspection, error) {
	filter := repositories.InspectionFilter{
		Status:    InspectionStatus(query.Status),
		Priority:  Priority(query.Priority),
		VisibleTo: visibleTo(user),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Unknown inspection status", "status")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, apperrors.Validation("Unknown priority", "priority")
	}
	if query.TemplateID != "" {
		templateID, err := uuid.Parse(query.TemplateID)
		if err != nil {
			return nil, apperrors.Validation("Invalid template id", "templateId")
		}
		filter.TemplateID = &templateID
	}

	var err error
	if filter.From, err = parseDate(query.From, "from"); err != nil {
		return nil, err
	}
	if filter.To, err = parseDate(query.To, "to"); err != nil {
		return nil, err
	}

	return c.inspectionRepo.List(ctx, c.db.SQL, filter)
}

// load fetches an inspection and reports whether the user is assigned to it.
func (c *InspectionController) load(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*Inspection, bool, error) {
	inspection, err := c.inspectionRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, false, err
	}

	assigned := false
	if !permissions.For(user).CanViewAllInspections && inspection.CreatedBy != user.ID {
		assigned, err = c.assignmentRepo.IsAssigned(ctx, c.db.SQL, id, user.ID)
		if err != nil {
			return nil, false, err
		}
	}

	if !permissions.CanViewInspection(user, inspection, assigned) {
		return nil, false, apperrors.ErrForbidden
	}
	return inspection, assigned, nil
}

func (c *InspectionController) Get(ctx context.Context, user *User, id uuid.UUID) (*Inspection, error) {
	inspection, _, err := c.load(ctx, user, id)
	return inspection, err
}

func (c *InspectionController) loadTemplate(ctx context.Context, id *uuid.UUID) (*InspectionTemplate, error) {
	if id == nil {
		return nil, nil
	}
	template, err := c.templateRepo.GetByID(ctx, c.db.SQL, *id)
	if err != nil {
		if apperrors.Classify(err) == apperrors.KindNotFound {
			return nil, apperrors.Validation("Template does not exist", "templateId")
		}
		return nil, err
	}
	return template, nil
}

// apply copies req onto inspection, checks the responses against template and
// fills in score and issues when the client did not send them.
func (c *InspectionController) apply(
	inspection *Inspection,
	template *InspectionTemplate,
	req types.InspectionRequest,
) (forms.ResponseCheck, error) {
	now := c.now()

	inspection.TemplateID = req.TemplateID
	inspection.Title = strings.TrimSpace(req.Title)
	inspection.Location = strings.TrimSpace(req.Location)
	inspection.Inspector = strings.TrimSpace(req.Inspector)
	inspection.Time = req.Time
	inspection.Categories = pq.StringArray(req.Categories)
	inspection.Photos = pq.StringArray(req.Photos)

	date, err := parseDate(req.Date, "date")
	if err != nil {
		return forms.ResponseCheck{}, err
	}
	if date == nil {
		today := now.UTC().Truncate(24 * time.Hour)
		date = &today
	}
	inspection.Date = *date

	inspection.Priority = req.Priority
	if inspection.Priority == "" {
		inspection.Priority = PriorityMedium
	}

	inspection.SetResponses(req.Responses)
	check := forms.CheckResponses(template, inspection.Responses)

	summary := forms.Summarize(template, inspection.Responses)
	inspection.Score = summary.Score
	if req.Score != nil {
		if req.Score.IsNegative() || req.Score.GreaterThan(maxScore) {
			return check, apperrors.Validation("Score must be between 0 and 100", "score")
		}
		inspection.Score = req.Score.Round(2)
	}
	inspection.Issues = summary.Issues
	if req.Issues != nil {
		inspection.Issues = *req.Issues
	}

	status := req.Status
	if status == "" {
		status = InspectionDraft
	}
	switch status {
	case InspectionCompleted, InspectionRequiresAction:
		if inspection.CompletedAt == nil {
			inspection.MarkCompleted(now)
		}
		inspection.Status = status
	case InspectionInProgress:
		if inspection.StartedAt == nil {
			inspection.StartedAt = &now
		}
		inspection.Status = status
	default:
		inspection.Status = status
	}

	return check, nil
}

func result(inspection *Inspection, check forms.ResponseCheck) *types.InspectionResult {
	return &types.InspectionResult{
		Inspection:    inspection,
		MissingFields: check.Missing,
		UnknownFields: check.Unknown,
		InvalidFields: check.Invalid,
	}
}

func (c *InspectionController) Create(
	ctx context.Context,
	user *User,
	req types.InspectionRequest,
) (*types.InspectionResult, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	template, err := c.loadTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	inspection := &Inspection{CreatedBy: user.ID}
	check, err := c.apply(inspection, template, req)
	if err != nil {
		return nil, err
	}

	if err := c.inspectionRepo.Create(ctx, c.db.SQL, inspection); err != nil {
		return nil, err
	}

	if len(check.Unknown) > 0 {
		log.Warn("inspection saved with responses outside its template",
			"inspectionID", inspection.ID, "unknown", check.Unknown)
	}
	log.Info("inspection created", "inspectionID", inspection.ID, "userID", user.ID)
	return result(inspection, check), nil
}

func (c *InspectionController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req types.InspectionRequest,
) (*types.InspectionResult, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	inspection, assigned, err := c.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditInspection(user, inspection, assigned) {
		return nil, apperrors.ErrForbidden
	}

	template, err := c.loadTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	check, err := c.apply(inspection, template, req)
	if err != nil {
		return nil, err
	}

	if err := c.inspectionRepo.Update(ctx, c.db.SQL, inspection); err != nil {
		return nil, err
	}

	c.notify(ctx, user, inspection)
	log.Info("inspection updated", "inspectionID", inspection.ID, "userID", user.ID)
	return result(inspection, check), nil
}

func (c *InspectionController) Complete(ctx context.Context, user *User, id uuid.UUID) (*Inspection, error) {
	inspection, assigned, err := c.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditInspection(user, inspection, assigned) {
		return nil, apperrors.ErrForbidden
	}
	if inspection.Status == InspectionCompleted {
		return inspection, nil
	}

	inspection.MarkCompleted(c.now())
	if err := c.inspectionRepo.Update(ctx, c.db.SQL, inspection); err != nil {
		return nil, err
	}

	c.notify(ctx, user, inspection)
	return inspection, nil
}

func (c *InspectionController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	if !permissions.For(user).CanDeleteInspections {
		return apperrors.ErrForbidden
	}

	if err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.inspectionRepo.Delete(ctx, tx, id)
	}); err != nil {
		return err
	}

	log.Info("inspection deleted", "inspectionID", id, "userID", user.ID)
	return nil
}

func (c *InspectionController) Stats(ctx context.Context, user *User) (*types.InspectionStats, error) {
	scope := visibleTo(user)

	stats, err := c.inspectionRepo.Stats(ctx, c.db.SQL, scope)
	if err != nil {
		return nil, err
	}

	overdue, err := c.assignmentRepo.CountOverdue(ctx, c.db.SQL, scope)
	if err != nil {
		return nil, err
	}
	stats.OverdueAssignments = overdue

	return stats, nil
}

// Report renders the inspection as pdf or html. An inspection whose template
// is gone is reported as a flat list of its responses.
func (c *InspectionController) Report(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	format string,
) (*ReportFile, error) {
	log := c.log.TraceFromContext(ctx).Function("Report")

	if !permissions.For(user).CanExportReports {
		return nil, apperrors.ErrForbidden
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatHTML {
		return nil, apperrors.Validation("Report format must be pdf or html", "format")
	}

	inspection, _, err := c.load(ctx, user, id)
	if err != nil {
		return nil, err
	}

	var template *InspectionTemplate
	if inspection.TemplateID != nil {
		template, err = c.templateRepo.GetByID(ctx, c.db.SQL, *inspection.TemplateID)
		if err != nil {
			if apperrors.Classify(err) != apperrors.KindNotFound {
				return nil, err
			}
			log.Warn("template missing, using flat report", "inspectionID", id)
			template = nil
		}
	}

	report := reports.Build(inspection, template, c.now())

	var file ReportFile
	switch format {
	case FormatHTML:
		file.Data, err = reports.RenderHTML(report)
		file.ContentType = "text/html; charset=utf-8"
	default:
		file.Data, err = reports.RenderPDF(report)
		file.ContentType = "application/pdf"
	}
	if err != nil {
		return nil, log.Err("failed to render report", err, "inspectionID", id, "format", format)
	}
	file.Filename = report.Filename(format)

	return &file, nil
}

// notify tells the creator and assignees of an inspection, except the actor,
// that it changed.
func (c *InspectionController) notify(ctx context.Context, actor *User, inspection *Inspection) {
	log := c.log.TraceFromContext(ctx).Function("notify")

	recipients := map[uuid.UUID]bool{inspection.CreatedBy: true}
	assignments, err := c.assignmentRepo.List(ctx, c.db.SQL, repositories.AssignmentFilter{
		InspectionID: &inspection.ID,
	})
	if err != nil {
		log.Warn("failed to load assignees", "inspectionID", inspection.ID, "error", err)
	}
	for _, assignment := range assignments {
		recipients[assignment.AssignedTo] = true
		recipients[assignment.AssignedBy] = true
	}
	delete(recipients, actor.ID)

	for userID := range recipients {
		if err := c.publisher.PublishToUser(userID, events.INSPECTION_UPDATED, map[string]any{
			"inspectionId": inspection.ID.String(),
			"status":       string(inspection.Status),
		}); err != nil {
			log.Warn("failed to publish inspection update", "userID", userID, "error", err)
		}
	}
}
