package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hseinspect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestAssignmentRepository_DeleteRemovesInspection(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewAssignmentRepository()

	assignment := &models.InspectionAssignment{InspectionID: uuid.New()}
	assignment.ID = uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_assignments" SET "deleted_at"=`)).
		WithArgs(sqlmock.AnyArg(), assignment.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspections" SET "deleted_at"=$1,"deletion_reason"=$2`)).
		WithArgs(sqlmock.AnyArg(), string(models.DeletionAssignmentCascade), sqlmock.AnyArg(), assignment.InspectionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return repo.Delete(context.Background(), tx, assignment)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_DeleteRollsBackWhenInspectionFails(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewAssignmentRepository()

	assignment := &models.InspectionAssignment{InspectionID: uuid.New()}
	assignment.ID = uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_assignments" SET "deleted_at"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspections" SET "deleted_at"=`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return repo.Delete(context.Background(), tx, assignment)
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_IsAssigned(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewAssignmentRepository()
	inspectionID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inspection_assignments" WHERE (inspection_id = $1 AND assigned_to = $2)`)).
		WithArgs(inspectionID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assigned, err := repo.IsAssigned(context.Background(), gormDB, inspectionID, userID)

	require.NoError(t, err)
	assert.True(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepository_ListVisibleToUsesAssignments(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewInspectionRepository()
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		`(created_by = $1 OR id IN (SELECT inspection_id FROM inspection_assignments WHERE assigned_to = $2 AND deleted_at IS NULL)) AND status = $3`,
	)).
		WithArgs(userID, userID, models.InspectionCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow(uuid.New().String(), "Warehouse", "completed"))

	inspections, err := repo.List(context.Background(), gormDB, InspectionFilter{
		Status:    models.InspectionCompleted,
		VisibleTo: &userID,
	})

	require.NoError(t, err)
	require.Len(t, inspections, 1)
	assert.Equal(t, "Warehouse", inspections[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepository_DeleteNotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewInspectionRepository()
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspection_assignments" SET "deleted_at"=`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inspections" SET "deleted_at"=`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), gormDB, id)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepository_PurgeDeleted(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewInspectionRepository()
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM "inspections" WHERE deleted_at IS NOT NULL AND deleted_at < $1 AND deletion_reason = $2`,
	)).
		WithArgs(cutoff, string(models.DeletionAssignmentCascade)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := repo.PurgeDeleted(context.Background(), gormDB, cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepository_ReferencedPhotosIncludesStringValues(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewInspectionRepository()

	mock.ExpectQuery(`(?s)` + regexp.QuoteMeta(`SELECT response->>'value' AS uri`) +
		`.*` + regexp.QuoteMeta(`WHERE jsonb_typeof(response->'value') = 'string'`)).
		WillReturnRows(sqlmock.NewRows([]string{"uri"}).
			AddRow("/uploads/photos/u1/list.webp").
			AddRow("/uploads/photos/u1/single.webp"))

	uris, err := repo.ReferencedPhotos(context.Background(), gormDB)

	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/photos/u1/list.webp", "/uploads/photos/u1/single.webp"}, uris)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateFilter_IsZero(t *testing.T) {
	assert.True(t, TemplateFilter{Search: "  "}.IsZero())
	assert.False(t, TemplateFilter{Tag: "fire"}.IsZero())
	assert.False(t, TemplateFilter{Category: "Safety"}.IsZero())
}
