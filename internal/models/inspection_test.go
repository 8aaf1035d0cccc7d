package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInspection_SetResponses(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(time.Minute)

	inspection := &Inspection{}
	inspection.SetResponses([]Response{
		{FieldID: "exits", Value: true, Timestamp: first},
		{FieldID: "notes", Value: "ok", Timestamp: first},
		{FieldID: "exits", Value: false, Timestamp: later},
	})

	assert.Len(t, inspection.Responses, 2)
	assert.Equal(t, "exits", inspection.Responses[0].FieldID)
	assert.Equal(t, false, inspection.Responses[0].Value)
	assert.Equal(t, later, inspection.Responses[0].Timestamp)

	response, ok := inspection.ResponseFor("notes")
	assert.True(t, ok)
	assert.Equal(t, "ok", response.Value)

	_, ok = inspection.ResponseFor("missing")
	assert.False(t, ok)
}

func TestInspection_MarkCompleted(t *testing.T) {
	now := time.Now()
	inspection := &Inspection{Status: InspectionInProgress}

	inspection.MarkCompleted(now)

	assert.Equal(t, InspectionCompleted, inspection.Status)
	assert.Equal(t, &now, inspection.CompletedAt)
	assert.Equal(t, &now, inspection.StartedAt)
}

func TestAssignmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     AssignmentStatus
		to       AssignmentStatus
		expected bool
	}{
		{"start work", AssignmentAssigned, AssignmentInProgress, true},
		{"complete directly", AssignmentAssigned, AssignmentCompleted, true},
		{"finish", AssignmentInProgress, AssignmentCompleted, true},
		{"back to assigned", AssignmentInProgress, AssignmentAssigned, false},
		{"reopen completed", AssignmentCompleted, AssignmentInProgress, false},
		{"user cannot mark overdue", AssignmentAssigned, AssignmentOverdue, false},
		{"overdue can still be completed", AssignmentOverdue, AssignmentCompleted, true},
		{"same status", AssignmentCompleted, AssignmentCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInspectionAssignment_IsOverdueAt(t *testing.T) {
	due := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)

	assignment := &InspectionAssignment{DueDate: due, Status: AssignmentAssigned}
	assert.False(t, assignment.IsOverdueAt(due.Add(-time.Hour)))
	assert.True(t, assignment.IsOverdueAt(due.Add(time.Hour)))

	assignment.Status = AssignmentCompleted
	assert.False(t, assignment.IsOverdueAt(due.Add(time.Hour)))
}

func TestInspectionTemplate_FieldByID(t *testing.T) {
	template := &InspectionTemplate{
		Sections: []Section{
			{ID: "s1", Fields: []Field{{ID: "f1", Label: "Exits clear", Type: FieldTypeBoolean}}},
			{ID: "s2", Fields: []Field{{ID: "f2", Label: "Notes", Type: FieldTypeTextarea}, {ID: "f3", Type: FieldTypeImage}}},
		},
	}

	field, section := template.FieldByID("f2")
	if assert.NotNil(t, field) {
		assert.Equal(t, "Notes", field.Label)
		assert.Equal(t, "s2", section.ID)
	}

	field, section = template.FieldByID("nope")
	assert.Nil(t, field)
	assert.Nil(t, section)
	assert.Equal(t, 3, template.FieldCount())
}
