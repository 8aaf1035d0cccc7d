package types

import (
	"hseinspect/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InspectionRequest struct {
	TemplateID *uuid.UUID              `json:"templateId"`
	Title      string                  `json:"title"      validate:"required,max=200"`
	Location   string                  `json:"location"   validate:"max=200"`
	Inspector  string                  `json:"inspector"  validate:"max=120"`
	Date       string                  `json:"date"       validate:"omitempty,datetime=2006-01-02"`
	Time       string                  `json:"time"       validate:"omitempty,datetime=15:04"`
	Status     models.InspectionStatus `json:"status"     validate:"omitempty,oneof=draft in_progress completed requires_action"`
	Priority   models.Priority         `json:"priority"   validate:"omitempty,oneof=low medium high critical"`
	Score      *decimal.Decimal        `json:"score"`
	Issues     *int                    `json:"issues"     validate:"omitempty,min=0"`
	Categories []string                `json:"categories" validate:"max=20"`
	Responses  []models.Response       `json:"responses"`
	Photos     []string                `json:"photos"     validate:"max=100"`
}

type InspectionListQuery struct {
	Status     string `query:"status"`
	Priority   string `query:"priority"`
	TemplateID string `query:"templateId"`
	From       string `query:"from"`
	To         string `query:"to"`
}

// InspectionResult is returned on save. The field lists come from checking
// responses against the template and do not block the save.
type InspectionResult struct {
	Inspection    *models.Inspection `json:"inspection"`
	MissingFields []string           `json:"missingFields,omitempty"`
	UnknownFields []string           `json:"unknownFields,omitempty"`
	InvalidFields []string           `json:"invalidFields,omitempty"`
}

type InspectionStats struct {
	Total              int64            `json:"total"`
	ByStatus           map[string]int64 `json:"byStatus"`
	ByPriority         map[string]int64 `json:"byPriority"`
	AverageScore       decimal.Decimal  `json:"averageScore"`
	TotalIssues        int64            `json:"totalIssues"`
	OverdueAssignments int64            `json:"overdueAssignments"`
}
