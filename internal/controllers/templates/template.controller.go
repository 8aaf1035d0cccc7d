package templateController

import (
	"context"
	"strings"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/forms"
	. "hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/repositories"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const copySuffix = " (Copy)"

type TemplateControllerInterface interface {
	List(ctx context.Context, query types.TemplateListQuery) ([]*InspectionTemplate, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id uuid.UUID) (*InspectionTemplate, error)
	Create(ctx context.Context, user *User, req types.TemplateRequest) (*InspectionTemplate, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req types.TemplateRequest) (*InspectionTemplate, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
	Duplicate(ctx context.Context, user *User, id uuid.UUID) (*InspectionTemplate, error)
}

type TemplateController struct {
	templateRepo repositories.TemplateRepository
	db           database.DB
	log          logger.Logger
}

func New(templateRepo repositories.TemplateRepository, db database.DB) TemplateControllerInterface {
	return &TemplateController{
		templateRepo: templateRepo,
		db:           db,
		log:          logger.New("templateController"),
	}
}

func normalizeTags(tags []string) pq.StringArray {
	seen := make(map[string]bool, len(tags))
	result := make(pq.StringArray, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// applyRequest copies the request onto template and validates the result.
func applyRequest(template *InspectionTemplate, req types.TemplateRequest) error {
	template.Title = strings.TrimSpace(req.Title)
	template.Description = strings.TrimSpace(req.Description)
	template.Category = strings.TrimSpace(req.Category)
	template.Tags = normalizeTags(req.Tags)

	forms.AssignIDs(req.Sections)
	template.Sections = datatypes.JSONSlice[Section](req.Sections)

	return forms.ValidateTemplate(template)
}

func (c *TemplateController) List(
	ctx context.Context,
	query types.TemplateListQuery,
) ([]*InspectionTemplate, error) {
	return c.templateRepo.List(ctx, c.db.SQL, repositories.TemplateFilter{
		Category: strings.TrimSpace(query.Category),
		Tag:      strings.ToLower(strings.TrimSpace(query.Tag)),
		Search:   query.Search,
	})
}

func (c *TemplateController) Categories(ctx context.Context) ([]string, error) {
	return c.templateRepo.Categories(ctx, c.db.SQL)
}

func (c *TemplateController) Get(ctx context.Context, id uuid.UUID) (*InspectionTemplate, error) {
	return c.templateRepo.GetByID(ctx, c.db.SQL, id)
}

func (c *TemplateController) Create(
	ctx context.Context,
	user *User,
	req types.TemplateRequest,
) (*InspectionTemplate, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if !permissions.For(user).CanCreateTemplates {
		return nil, apperrors.ErrForbidden
	}

	template := &InspectionTemplate{
		CreatedBy: &user.ID,
		IsActive:  true,
	}
	if err := applyRequest(template, req); err != nil {
		return nil, err
	}

	if err := c.templateRepo.Create(ctx, c.db.SQL, template); err != nil {
		return nil, err
	}

	log.Info("template created", "templateID", template.ID, "fields", template.FieldCount())
	return template, nil
}

// Update overwrites the template; earlier versions are not kept.
func (c *TemplateController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req types.TemplateRequest,
) (*InspectionTemplate, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	template, err := c.templateRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}
	if !permissions.CanEditTemplate(user, template) {
		return nil, apperrors.ErrForbidden
	}

	if err := applyRequest(template, req); err != nil {
		return nil, err
	}

	if err := c.templateRepo.Update(ctx, c.db.SQL, template); err != nil {
		return nil, err
	}

	log.Info("template updated", "templateID", template.ID, "userID", user.ID)
	return template, nil
}

func (c *TemplateController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	if !permissions.For(user).CanDeleteTemplates {
		return apperrors.ErrForbidden
	}

	if err := c.templateRepo.Delete(ctx, c.db.SQL, id); err != nil {
		return err
	}

	log.Info("template deleted", "templateID", id, "userID", user.ID)
	return nil
}

// Duplicate copies a template, including prebuilt ones, into a new template
// owned by the caller with fresh section and field ids.
func (c *TemplateController) Duplicate(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*InspectionTemplate, error) {
	log := c.log.TraceFromContext(ctx).Function("Duplicate")

	if !permissions.For(user).CanCreateTemplates {
		return nil, apperrors.ErrForbidden
	}

	source, err := c.templateRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		return nil, err
	}

	duplicate := &InspectionTemplate{
		Title:       source.Title + copySuffix,
		Description: source.Description,
		Category:    source.Category,
		Tags:        append(pq.StringArray(nil), source.Tags...),
		Sections:    datatypes.JSONSlice[Section](forms.CloneSections(source.Sections)),
		CreatedBy:   &user.ID,
		IsActive:    true,
		IsPrebuilt:  false,
	}

	if err := c.templateRepo.Create(ctx, c.db.SQL, duplicate); err != nil {
		return nil, err
	}

	log.Info("template duplicated", "sourceID", source.ID, "templateID", duplicate.ID)
	return duplicate, nil
}
