package repositories

import (
	"context"
	"strings"
	"time"

	"hseinspect/internal/database"
	. "hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TEMPLATE_CACHE_PREFIX      = "template"
	TEMPLATE_LIST_CACHE_PREFIX = "template_list"
	TEMPLATE_LIST_ACTIVE_KEY   = "active"
	TEMPLATE_CACHE_EXPIRY      = 24 * time.Hour
)

type TemplateFilter struct {
	Category string
	Tag      string
	Search   string
}

func (f TemplateFilter) IsZero() bool {
	return f.Category == "" && f.Tag == "" && strings.TrimSpace(f.Search) == ""
}

type TemplateRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*InspectionTemplate, error)
	List(ctx context.Context, tx *gorm.DB, filter TemplateFilter) ([]*InspectionTemplate, error)
	Categories(ctx context.Context, tx *gorm.DB) ([]string, error)
	Create(ctx context.Context, tx *gorm.DB, template *InspectionTemplate) error
	Update(ctx context.Context, tx *gorm.DB, template *InspectionTemplate) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ClearTemplateCache(ctx context.Context, id uuid.UUID)
}

type templateRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewTemplateRepository(cache database.CacheClient) TemplateRepository {
	return &templateRepository{
		cache: cache,
		log:   logger.New("templateRepository"),
	}
}

func (r *templateRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*InspectionTemplate, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var cached InspectionTemplate
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(TEMPLATE_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get template from cache", "templateID", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	template, err := gorm.G[InspectionTemplate](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, log.Err("failed to get template", err, "templateID", id)
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(TEMPLATE_CACHE_PREFIX).
		WithStruct(template).
		WithTTL(TEMPLATE_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache template", "templateID", id, "error", err)
	}

	return &template, nil
}

// List returns active templates, prebuilt ones first. The unfiltered list is
// served from cache.
func (r *templateRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter TemplateFilter,
) ([]*InspectionTemplate, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	if filter.IsZero() {
		var cached []*InspectionTemplate
		found, err := database.NewCacheBuilder(r.cache, TEMPLATE_LIST_ACTIVE_KEY).
			WithContext(ctx).
			WithHash(TEMPLATE_LIST_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get template list from cache", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	query := gorm.G[*InspectionTemplate](tx).Where("is_active = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	templates, err := query.Order("is_prebuilt DESC, title ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list templates", err)
	}

	if filter.IsZero() {
		if err := database.NewCacheBuilder(r.cache, TEMPLATE_LIST_ACTIVE_KEY).
			WithContext(ctx).
			WithHash(TEMPLATE_LIST_CACHE_PREFIX).
			WithStruct(templates).
			WithTTL(TEMPLATE_CACHE_EXPIRY).
			Set(); err != nil {
			log.Warn("failed to cache template list", "error", err)
		}
	}

	return templates, nil
}

func (r *templateRepository) Categories(ctx context.Context, tx *gorm.DB) ([]string, error) {
	log := r.log.TraceFromContext(ctx).Function("Categories")

	var categories []string
	if err := tx.WithContext(ctx).
		Model(&InspectionTemplate{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, log.Err("failed to list template categories", err)
	}

	return categories, nil
}

func (r *templateRepository) Create(ctx context.Context, tx *gorm.DB, template *InspectionTemplate) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := gorm.G[InspectionTemplate](tx).Create(ctx, template); err != nil {
		return log.Err("failed to create template", err, "title", template.Title)
	}

	r.clearListCache(ctx)
	return nil
}

func (r *templateRepository) Update(ctx context.Context, tx *gorm.DB, template *InspectionTemplate) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Save(template).Error; err != nil {
		return log.Err("failed to update template", err, "templateID", template.ID)
	}

	r.ClearTemplateCache(ctx, template.ID)
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	rows, err := gorm.G[InspectionTemplate](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete template", err, "templateID", id)
	}
	if rows == 0 {
		return log.Err("template not found", gorm.ErrRecordNotFound, "templateID", id)
	}

	r.ClearTemplateCache(ctx, id)
	return nil
}

func (r *templateRepository) ClearTemplateCache(ctx context.Context, id uuid.UUID) {
	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(TEMPLATE_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Function("ClearTemplateCache").Warn("failed to clear template cache", "templateID", id, "error", err)
	}
	r.clearListCache(ctx)
}

func (r *templateRepository) clearListCache(ctx context.Context) {
	if err := database.NewCacheBuilder(r.cache, TEMPLATE_LIST_ACTIVE_KEY).
		WithContext(ctx).
		WithHash(TEMPLATE_LIST_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Function("clearListCache").Warn("failed to clear template list cache", "error", err)
	}
}
