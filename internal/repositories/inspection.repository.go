package repositories

import (
	"context"
	"time"

	. "hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InspectionFilter struct {
	Status     InspectionStatus
	Priority   Priority
	TemplateID *uuid.UUID
	From       *time.Time
	To         *time.Time
	// VisibleTo limits results to inspections the user created or is assigned to.
	VisibleTo *uuid.UUID
}

type InspectionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error)
	List(ctx context.Context, tx *gorm.DB, filter InspectionFilter) ([]*Inspection, error)
	Create(ctx context.Context, tx *gorm.DB, inspection *Inspection) error
	Update(ctx context.Context, tx *gorm.DB, inspection *Inspection) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Stats(ctx context.Context, tx *gorm.DB, visibleTo *uuid.UUID) (*types.InspectionStats, error)
	ReferencedPhotos(ctx context.Context, tx *gorm.DB) ([]string, error)
	PurgeDeleted(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error)
}

type inspectionRepository struct {
	log logger.Logger
}

func NewInspectionRepository() InspectionRepository {
	return &inspectionRepository{
		log: logger.New("inspectionRepository"),
	}
}

const assignedToSubquery = "SELECT inspection_id FROM inspection_assignments WHERE assigned_to = ? AND deleted_at IS NULL"

func visibleTo(query *gorm.DB, userID *uuid.UUID) *gorm.DB {
	if userID == nil {
		return query
	}
	return query.Where("created_by = ? OR id IN ("+assignedToSubquery+")", *userID, *userID)
}

func (r *inspectionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	inspection, err := gorm.G[Inspection](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, log.Err("failed to get inspection", err, "inspectionID", id)
	}

	return &inspection, nil
}

func (r *inspectionRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter InspectionFilter,
) ([]*Inspection, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := visibleTo(tx.WithContext(ctx).Model(&Inspection{}), filter.VisibleTo)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var inspections []*Inspection
	if err := query.Order("date DESC, created_at DESC").Find(&inspections).Error; err != nil {
		return nil, log.Err("failed to list inspections", err)
	}

	return inspections, nil
}

func (r *inspectionRepository) Create(ctx context.Context, tx *gorm.DB, inspection *Inspection) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := gorm.G[Inspection](tx).Create(ctx, inspection); err != nil {
		return log.Err("failed to create inspection", err, "title", inspection.Title)
	}

	return nil
}

func (r *inspectionRepository) Update(ctx context.Context, tx *gorm.DB, inspection *Inspection) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Save(inspection).Error; err != nil {
		return log.Err("failed to update inspection", err, "inspectionID", inspection.ID)
	}

	return nil
}

// Delete soft deletes the inspection together with its assignments.
func (r *inspectionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	if err := tx.WithContext(ctx).
		Where("inspection_id = ?", id).
		Delete(&InspectionAssignment{}).Error; err != nil {
		return log.Err("failed to delete inspection assignments", err, "inspectionID", id)
	}

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Inspection{})
	if result.Error != nil {
		return log.Err("failed to delete inspection", result.Error, "inspectionID", id)
	}
	if result.RowsAffected == 0 {
		return log.Err("inspection not found", gorm.ErrRecordNotFound, "inspectionID", id)
	}

	return nil
}

type groupCount struct {
	Key   string
	Count int64
}

type scoreTotals struct {
	Total        int64
	AverageScore decimal.Decimal
	TotalIssues  int64
}

func (r *inspectionRepository) Stats(
	ctx context.Context,
	tx *gorm.DB,
	userID *uuid.UUID,
) (*types.InspectionStats, error) {
	log := r.log.TraceFromContext(ctx).Function("Stats")

	base := func() *gorm.DB {
		return visibleTo(tx.WithContext(ctx).Model(&Inspection{}), userID)
	}

	var totals scoreTotals
	if err := base().
		Select("COUNT(*) AS total, COALESCE(ROUND(AVG(score), 2), 0) AS average_score, COALESCE(SUM(issues), 0) AS total_issues").
		Scan(&totals).Error; err != nil {
		return nil, log.Err("failed to compute inspection totals", err)
	}

	var byStatus []groupCount
	if err := base().
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, log.Err("failed to count inspections by status", err)
	}

	var byPriority []groupCount
	if err := base().
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		return nil, log.Err("failed to count inspections by priority", err)
	}

	return &types.InspectionStats{
		Total:        totals.Total,
		AverageScore: totals.AverageScore,
		TotalIssues:  totals.TotalIssues,
		ByStatus:     countsToMap(byStatus),
		ByPriority:   countsToMap(byPriority),
	}, nil
}

func countsToMap(counts []groupCount) map[string]int64 {
	result := make(map[string]int64, len(counts))
	for _, count := range counts {
		result[count.Key] = count.Count
	}
	return result
}

// referencedPhotosQuery collects photo URIs from the photos column and from
// every response value, whether saved as a list or as a single string.
// Responses of inspections without a template are never coerced, so a lone
// image URI can stay a jsonb string.
const referencedPhotosQuery = `
		SELECT DISTINCT uri FROM (
			SELECT unnest(photos) AS uri FROM inspections
			UNION
			SELECT jsonb_array_elements_text(response->'value') AS uri
			FROM inspections, jsonb_array_elements(COALESCE(responses, '[]'::jsonb)) AS response
			WHERE jsonb_typeof(response->'value') = 'array'
			UNION
			SELECT response->>'value' AS uri
			FROM inspections, jsonb_array_elements(COALESCE(responses, '[]'::jsonb)) AS response
			WHERE jsonb_typeof(response->'value') = 'string'
		) AS referenced
		WHERE uri IS NOT NULL AND uri <> ''`

// ReferencedPhotos lists every photo URI held by any inspection, including
// soft deleted ones, from both the photos column and image responses.
func (r *inspectionRepository) ReferencedPhotos(ctx context.Context, tx *gorm.DB) ([]string, error) {
	log := r.log.TraceFromContext(ctx).Function("ReferencedPhotos")

	var uris []string
	if err := tx.WithContext(ctx).Raw(referencedPhotosQuery).
		Scan(&uris).Error; err != nil {
		return nil, log.Err("failed to list referenced photos", err)
	}

	return uris, nil
}

// PurgeDeleted permanently removes inspections that were soft deleted by an
// assignment deletion before the cutoff. Inspections deleted directly stay
// soft deleted. Their assignments go with them through the foreign key
// cascade.
func (r *inspectionRepository) PurgeDeleted(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("PurgeDeleted")

	result := tx.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ? AND deletion_reason = ?",
			before, DeletionAssignmentCascade).
		Delete(&Inspection{})
	if result.Error != nil {
		return 0, log.Err("failed to purge deleted inspections", result.Error, "before", before)
	}

	return result.RowsAffected, nil
}
