package templateController

import (
	"context"
	"testing"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/mocks"
	"hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newController(repo *mocks.TemplateRepository) *TemplateController {
	return &TemplateController{templateRepo: repo, db: database.DB{}, log: logger.New("templateController")}
}

func approved(role models.Role) *models.User {
	user := &models.User{Role: role, ApprovalStatus: models.ApprovalApproved}
	user.ID = uuid.New()
	return user
}

func validRequest() types.TemplateRequest {
	return types.TemplateRequest{
		Title:    " Forklift pre-use ",
		Category: "Equipment",
		Tags:     []string{"Forklift", "forklift", " daily "},
		Sections: []models.Section{{
			Title: "Checks",
			Fields: []models.Field{
				{Label: "Horn works", Type: models.FieldTypeBoolean, Required: true},
				{Label: "Fuel level", Type: models.FieldTypeSelect, Options: []string{"Full", "Half", "Low"}},
			},
		}},
	}
}

func TestCreate_AssignsIDsAndOwner(t *testing.T) {
	repo := &mocks.TemplateRepository{}
	controller := newController(repo)
	user := approved(models.RoleInspector)

	repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.InspectionTemplate")).Return(nil)

	template, err := controller.Create(context.Background(), user, validRequest())

	require.NoError(t, err)
	assert.Equal(t, "Forklift pre-use", template.Title)
	assert.Equal(t, []string{"forklift", "daily"}, []string(template.Tags))
	assert.True(t, template.IsOwnedBy(user.ID))
	assert.True(t, template.IsActive)
	for _, field := range template.Sections[0].Fields {
		assert.NotEmpty(t, field.ID)
	}
	assert.NotEmpty(t, template.Sections[0].ID)
}

func TestCreate_RejectsInvalidStructure(t *testing.T) {
	repo := &mocks.TemplateRepository{}
	controller := newController(repo)

	req := validRequest()
	req.Sections[0].Fields[1].Options = nil

	_, err := controller.Create(context.Background(), approved(models.RoleInspector), req)

	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OnlyOwnerOrManager(t *testing.T) {
	repo := &mocks.TemplateRepository{}
	controller := newController(repo)
	owner := approved(models.RoleInspector)
	other := approved(models.RoleInspector)
	manager := approved(models.RoleManager)

	existing := &models.InspectionTemplate{Title: "Old", CreatedBy: &owner.ID}
	existing.ID = uuid.New()
	repo.On("GetByID", mock.Anything, mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything, existing).Return(nil)

	_, err := controller.Update(context.Background(), other, existing.ID, validRequest())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := controller.Update(context.Background(), manager, existing.ID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Forklift pre-use", updated.Title)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestDelete_RequiresPermission(t *testing.T) {
	repo := &mocks.TemplateRepository{}
	controller := newController(repo)

	err := controller.Delete(context.Background(), approved(models.RoleInspector), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDuplicate_CopiesWithFreshIDs(t *testing.T) {
	repo := &mocks.TemplateRepository{}
	controller := newController(repo)
	user := approved(models.RoleInspector)

	source := &models.InspectionTemplate{
		Title:      "Fire Safety Inspection",
		IsPrebuilt: true,
		Sections: datatypes.JSONSlice[models.Section]{{
			ID:    "s1",
			Title: "Extinguishers",
			Fields: []models.Field{
				{ID: "f1", Label: "Present", Type: models.FieldTypeBoolean},
			},
		}},
	}
	source.ID = uuid.New()
	repo.On("GetByID", mock.Anything, mock.Anything, source.ID).Return(source, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.InspectionTemplate")).Return(nil)

	duplicate, err := controller.Duplicate(context.Background(), user, source.ID)

	require.NoError(t, err)
	assert.Equal(t, "Fire Safety Inspection (Copy)", duplicate.Title)
	assert.False(t, duplicate.IsPrebuilt)
	assert.True(t, duplicate.IsOwnedBy(user.ID))
	assert.NotEqual(t, "s1", duplicate.Sections[0].ID)
	assert.NotEqual(t, "f1", duplicate.Sections[0].Fields[0].ID)
	assert.Equal(t, "s1", source.Sections[0].ID)
}
