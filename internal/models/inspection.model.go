package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InspectionStatus string

const (
	InspectionDraft          InspectionStatus = "draft"
	InspectionInProgress     InspectionStatus = "in_progress"
	InspectionCompleted      InspectionStatus = "completed"
	InspectionRequiresAction InspectionStatus = "requires_action"
)

func (s InspectionStatus) Valid() bool {
	switch s {
	case InspectionDraft, InspectionInProgress, InspectionCompleted, InspectionRequiresAction:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// DeletionReason records why an inspection was soft deleted. It is empty for
// direct deletions. Only inspections removed along with their assignment are
// ever purged for good.
type DeletionReason string

const (
	DeletionAssignmentCascade DeletionReason = "assignment_deleted"
)

// Response is one answer to a template field. Value is whatever the client
// captured: string, number, bool or a list of photo URIs.
type Response struct {
	FieldID   string    `json:"fieldId"`
	Value     any       `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

type Inspection struct {
	BaseUUIDModel
	TemplateID     *uuid.UUID                    `gorm:"type:uuid;index"                      json:"templateId,omitempty"`
	Title          string                        `gorm:"type:text;not null"                   json:"title"`
	Location       string                        `gorm:"type:text"                            json:"location"`
	Inspector      string                        `gorm:"type:text"                            json:"inspector"`
	Date           time.Time                     `gorm:"type:date;index"                      json:"date"`
	Time           string                        `gorm:"type:text"                            json:"time"`
	Status         InspectionStatus              `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Priority       Priority                      `gorm:"type:text;not null;default:'medium'"  json:"priority"`
	Score          decimal.Decimal               `gorm:"type:decimal(5,2);default:0"          json:"score"`
	Issues         int                           `gorm:"type:int;default:0"                   json:"issues"`
	Categories     pq.StringArray                `gorm:"type:text[]"                          json:"categories"`
	Responses      datatypes.JSONSlice[Response] `gorm:"type:jsonb"                           json:"responses"`
	Photos         pq.StringArray                `gorm:"type:text[]"                          json:"photos"`
	CreatedBy      uuid.UUID                     `gorm:"type:uuid;not null;index"             json:"createdBy"`
	StartedAt      *time.Time                    `gorm:"type:timestamp"                       json:"startedAt,omitempty"`
	CompletedAt    *time.Time                    `gorm:"type:timestamp"                       json:"completedAt,omitempty"`
	DeletionReason DeletionReason                `gorm:"type:text;not null;default:''"        json:"-"`
	Template       *InspectionTemplate           `gorm:"foreignKey:TemplateID;constraint:OnDelete:SET NULL" json:"-"`
	Creator        *User                         `gorm:"foreignKey:CreatedBy"                 json:"-"`
}

// SetResponses replaces the responses keeping one entry per field id. The
// last occurrence of a field id wins.
func (i *Inspection) SetResponses(responses []Response) {
	index := make(map[string]int, len(responses))
	deduped := make([]Response, 0, len(responses))
	for _, response := range responses {
		if pos, ok := index[response.FieldID]; ok {
			deduped[pos] = response
			continue
		}
		index[response.FieldID] = len(deduped)
		deduped = append(deduped, response)
	}
	i.Responses = deduped
}

func (i *Inspection) ResponseFor(fieldID string) (Response, bool) {
	for _, response := range i.Responses {
		if response.FieldID == fieldID {
			return response, true
		}
	}
	return Response{}, false
}

func (i *Inspection) MarkCompleted(at time.Time) {
	i.Status = InspectionCompleted
	i.CompletedAt = &at
	if i.StartedAt == nil {
		i.StartedAt = &at
	}
}
