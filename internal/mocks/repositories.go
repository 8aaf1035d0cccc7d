// Package mocks holds testify mocks of the repository and event interfaces
// used by controller tests.
package mocks

import (
	"context"
	"time"

	"hseinspect/internal/events"
	"hseinspect/internal/models"
	"hseinspect/internal/repositories"
	"hseinspect/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type UserRepository struct {
	mock.Mock
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	args := m.Called(ctx, tx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	args := m.Called(ctx, tx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *UserRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return m.Called(ctx, tx, user).Error(0)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, tx *gorm.DB, id uuid.UUID, hash string) error {
	return m.Called(ctx, tx, id, hash).Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, tx, id, at).Error(0)
}

func (m *UserRepository) ListByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status models.ApprovalStatus,
) ([]*models.User, error) {
	args := m.Called(ctx, tx, status)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *UserRepository) ListApproved(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	args := m.Called(ctx, tx)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *UserRepository) ClearUserCache(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type TemplateRepository struct {
	mock.Mock
}

var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

func (m *TemplateRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.InspectionTemplate, error) {
	args := m.Called(ctx, tx, id)
	template, _ := args.Get(0).(*models.InspectionTemplate)
	return template, args.Error(1)
}

func (m *TemplateRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.TemplateFilter,
) ([]*models.InspectionTemplate, error) {
	args := m.Called(ctx, tx, filter)
	templates, _ := args.Get(0).([]*models.InspectionTemplate)
	return templates, args.Error(1)
}

func (m *TemplateRepository) Categories(ctx context.Context, tx *gorm.DB) ([]string, error) {
	args := m.Called(ctx, tx)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *TemplateRepository) Create(ctx context.Context, tx *gorm.DB, template *models.InspectionTemplate) error {
	return m.Called(ctx, tx, template).Error(0)
}

func (m *TemplateRepository) Update(ctx context.Context, tx *gorm.DB, template *models.InspectionTemplate) error {
	return m.Called(ctx, tx, template).Error(0)
}

func (m *TemplateRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *TemplateRepository) ClearTemplateCache(ctx context.Context, id uuid.UUID) {
	m.Called(ctx, id)
}

type InspectionRepository struct {
	mock.Mock
}

var _ repositories.InspectionRepository = (*InspectionRepository)(nil)

func (m *InspectionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Inspection, error) {
	args := m.Called(ctx, tx, id)
	inspection, _ := args.Get(0).(*models.Inspection)
	return inspection, args.Error(1)
}

func (m *InspectionRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.InspectionFilter,
) ([]*models.Inspection, error) {
	args := m.Called(ctx, tx, filter)
	inspections, _ := args.Get(0).([]*models.Inspection)
	return inspections, args.Error(1)
}

func (m *InspectionRepository) Create(ctx context.Context, tx *gorm.DB, inspection *models.Inspection) error {
	return m.Called(ctx, tx, inspection).Error(0)
}

func (m *InspectionRepository) Update(ctx context.Context, tx *gorm.DB, inspection *models.Inspection) error {
	return m.Called(ctx, tx, inspection).Error(0)
}

func (m *InspectionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *InspectionRepository) Stats(
	ctx context.Context,
	tx *gorm.DB,
	visibleTo *uuid.UUID,
) (*types.InspectionStats, error) {
	args := m.Called(ctx, tx, visibleTo)
	stats, _ := args.Get(0).(*types.InspectionStats)
	return stats, args.Error(1)
}

func (m *InspectionRepository) ReferencedPhotos(ctx context.Context, tx *gorm.DB) ([]string, error) {
	args := m.Called(ctx, tx)
	uris, _ := args.Get(0).([]string)
	return uris, args.Error(1)
}

func (m *InspectionRepository) PurgeDeleted(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	args := m.Called(ctx, tx, before)
	return args.Get(0).(int64), args.Error(1)
}

type AssignmentRepository struct {
	mock.Mock
}

var _ repositories.AssignmentRepository = (*AssignmentRepository)(nil)

func (m *AssignmentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.InspectionAssignment, error) {
	args := m.Called(ctx, tx, id)
	assignment, _ := args.Get(0).(*models.InspectionAssignment)
	return assignment, args.Error(1)
}

func (m *AssignmentRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.AssignmentFilter,
) ([]*models.InspectionAssignment, error) {
	args := m.Called(ctx, tx, filter)
	assignments, _ := args.Get(0).([]*models.InspectionAssignment)
	return assignments, args.Error(1)
}

func (m *AssignmentRepository) IsAssigned(
	ctx context.Context,
	tx *gorm.DB,
	inspectionID uuid.UUID,
	userID uuid.UUID,
) (bool, error) {
	args := m.Called(ctx, tx, inspectionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AssignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.InspectionAssignment) error {
	return m.Called(ctx, tx, assignment).Error(0)
}

func (m *AssignmentRepository) Update(ctx context.Context, tx *gorm.DB, assignment *models.InspectionAssignment) error {
	return m.Called(ctx, tx, assignment).Error(0)
}

func (m *AssignmentRepository) Delete(ctx context.Context, tx *gorm.DB, assignment *models.InspectionAssignment) error {
	return m.Called(ctx, tx, assignment).Error(0)
}

func (m *AssignmentRepository) MarkOverdue(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) ([]*models.InspectionAssignment, error) {
	args := m.Called(ctx, tx, now)
	assignments, _ := args.Get(0).([]*models.InspectionAssignment)
	return assignments, args.Error(1)
}

func (m *AssignmentRepository) CountOverdue(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type Publisher struct {
	mock.Mock
}

var _ events.Publisher = (*Publisher)(nil)

func (m *Publisher) PublishToUser(userID uuid.UUID, eventType events.MessageType, data map[string]any) error {
	return m.Called(userID, eventType, data).Error(0)
}
