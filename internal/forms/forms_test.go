package forms

import (
	"errors"
	"testing"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fireSafetyTemplate() *models.InspectionTemplate {
	return &models.InspectionTemplate{
		Title: "Fire Safety",
		Sections: []models.Section{
			{
				ID:    "general",
				Title: "General",
				Fields: []models.Field{
					{ID: "site", Label: "Site name", Type: models.FieldTypeText, Required: true},
					{ID: "date", Label: "Date", Type: models.FieldTypeDate, Required: true},
					{ID: "notes", Label: "Notes", Type: models.FieldTypeTextarea},
				},
			},
			{
				ID:    "equipment",
				Title: "Equipment",
				Fields: []models.Field{
					{ID: "extinguishers", Label: "Extinguishers serviced", Type: models.FieldTypeBoolean, Required: true},
					{ID: "exits", Label: "Exits clear", Type: models.FieldTypeBoolean},
					{ID: "count", Label: "Extinguisher count", Type: models.FieldTypeNumber},
					{ID: "rating", Label: "Condition", Type: models.FieldTypeSelect, Options: []string{"Good", "Fair", "Poor"}},
					{ID: "photos", Label: "Photos", Type: models.FieldTypeImage},
				},
			},
		},
	}
}

func TestCoerce(t *testing.T) {
	template := fireSafetyTemplate()
	field := func(id string) models.Field {
		f, _ := template.FieldByID(id)
		return *f
	}

	tests := []struct {
		name     string
		field    models.Field
		raw      any
		expected any
		wantErr  bool
	}{
		{"number parses", field("count"), "12.5", 12.5, false},
		{"number falls back to zero", field("count"), "twelve", 0.0, false},
		{"number from json float", field("count"), float64(3), 3.0, false},
		{"boolean from string", field("exits"), "yes", true, false},
		{"boolean false", field("exits"), false, false, false},
		{"boolean blank is unanswered", field("exits"), "  ", nil, false},
		{"boolean from one", field("exits"), float64(1), true, false},
		{"boolean unrecognised kept and flagged", field("exits"), "maybe", "maybe", true},
		{"boolean out of range number", field("exits"), 2.5, 2.5, true},
		{"date from rfc3339", field("date"), "2026-03-01T08:30:00Z", "2026-03-01", false},
		{"bad date", field("date"), "yesterday", "yesterday", true},
		{"select option", field("rating"), "Fair", "Fair", false},
		{"select outside options", field("rating"), "Great", "Great", true},
		{"single image uri", field("photos"), "file:///a.jpg", []string{"file:///a.jpg"}, false},
		{"image list", field("photos"), []any{"a.webp", "", "b.webp"}, []string{"a.webp", "b.webp"}, false},
		{"nil stays nil", field("site"), nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Coerce(tt.field, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, []string{tt.field.ID}, apperrors.FieldsOf(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty([]string{}))
	assert.False(t, IsEmpty(false))
	assert.False(t, IsEmpty(0.0))
	assert.False(t, IsEmpty("x"))
}

func TestFiller_EmptyTemplate(t *testing.T) {
	for _, template := range []*models.InspectionTemplate{nil, {Title: "Blank"}} {
		filler := NewFiller(template)

		assert.Equal(t, models.Section{}, filler.Current())
		assert.Zero(t, filler.SectionCount())
		assert.True(t, filler.IsLast())
		assert.NoError(t, filler.Next())
		assert.Error(t, filler.Set("site", "Depot"))

		responses, err := filler.Submit()
		require.NoError(t, err)
		assert.Empty(t, responses)
	}
}

func TestFiller_RequiredFieldBlocksNext(t *testing.T) {
	filler := NewFiller(fireSafetyTemplate())

	require.NoError(t, filler.Set("site", "Warehouse 4"))

	err := filler.Next()
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
	assert.Equal(t, []string{"date"}, apperrors.FieldsOf(err))
	assert.Equal(t, 0, filler.CurrentIndex(), "must stay on the first section")
	assert.True(t, filler.IsFlagged("date"))
	assert.Equal(t, []string{"date"}, filler.Flagged())

	require.NoError(t, filler.Set("date", "2026-03-01"))
	assert.False(t, filler.IsFlagged("date"))

	require.NoError(t, filler.Next())
	assert.Equal(t, 1, filler.CurrentIndex())
	assert.Equal(t, "equipment", filler.Current().ID)
	assert.True(t, filler.IsLast())
}

func TestFiller_FalseSatisfiesRequiredBoolean(t *testing.T) {
	filler := NewFiller(fireSafetyTemplate())
	require.NoError(t, filler.Set("site", "Depot"))
	require.NoError(t, filler.Set("date", "2026-03-01"))
	require.NoError(t, filler.Next())

	require.NoError(t, filler.Set("extinguishers", false))
	assert.NoError(t, filler.Next())
}

func TestFiller_PreviousAndProgress(t *testing.T) {
	filler := NewFiller(fireSafetyTemplate())
	assert.False(t, filler.Previous())
	assert.Equal(t, 0.5, filler.Progress())

	require.NoError(t, filler.Set("site", "Depot"))
	require.NoError(t, filler.Set("date", "2026-03-01"))
	require.NoError(t, filler.Next())
	assert.Equal(t, 1.0, filler.Progress())
	assert.True(t, filler.Previous())
	assert.Equal(t, 0, filler.CurrentIndex())
}

func TestFiller_SetUnknownField(t *testing.T) {
	filler := NewFiller(fireSafetyTemplate())

	err := filler.Set("ghost", "x")

	assert.True(t, errors.Is(err, apperrors.Validation("")))
}

func TestFiller_SubmitJumpsToFirstInvalidSection(t *testing.T) {
	filler := NewFiller(fireSafetyTemplate())
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	filler.now = func() time.Time { return fixed }

	require.NoError(t, filler.Set("site", "Depot"))
	require.NoError(t, filler.Set("date", "2026-03-01"))
	require.NoError(t, filler.Next())

	_, err := filler.Submit()
	require.Error(t, err)
	assert.Equal(t, []string{"extinguishers"}, apperrors.FieldsOf(err))
	assert.Equal(t, 1, filler.CurrentIndex())

	require.NoError(t, filler.Set("extinguishers", true))
	require.NoError(t, filler.Set("count", "4"))

	responses, err := filler.Submit()
	require.NoError(t, err)
	require.Len(t, responses, 4)
	assert.Equal(t, "site", responses[0].FieldID)
	assert.Equal(t, "count", responses[3].FieldID)
	assert.Equal(t, 4.0, responses[3].Value)
	assert.Equal(t, fixed, responses[3].Timestamp)
}

func TestNewFillerFromResponses_DropsUnknownFields(t *testing.T) {
	filler := NewFillerFromResponses(fireSafetyTemplate(), []models.Response{
		{FieldID: "site", Value: "Depot"},
		{FieldID: "removed", Value: "x"},
	})

	value, ok := filler.Value("site")
	assert.True(t, ok)
	assert.Equal(t, "Depot", value)

	_, ok = filler.Value("removed")
	assert.False(t, ok)
}

func TestCheckResponses(t *testing.T) {
	responses := []models.Response{
		{FieldID: "site", Value: "Depot"},
		{FieldID: "count", Value: "7"},
		{FieldID: "rating", Value: "Excellent"},
		{FieldID: "legacy", Value: "kept"},
		{FieldID: "exits", Value: "maybe"},
	}

	check := CheckResponses(fireSafetyTemplate(), responses)

	assert.Equal(t, []string{"date", "extinguishers"}, check.Missing)
	assert.Equal(t, []string{"legacy"}, check.Unknown)
	assert.Equal(t, []string{"rating", "exits"}, check.Invalid)
	assert.Equal(t, "maybe", responses[4].Value)
	assert.False(t, check.OK())
	assert.Equal(t, 7.0, responses[1].Value)
	assert.Equal(t, "kept", responses[3].Value)

	assert.True(t, CheckResponses(nil, responses).OK())
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tpl *models.InspectionTemplate)
		wantErr bool
	}{
		{"valid", func(tpl *models.InspectionTemplate) {}, false},
		{"no title", func(tpl *models.InspectionTemplate) { tpl.Title = " " }, true},
		{"no sections", func(tpl *models.InspectionTemplate) { tpl.Sections = nil }, true},
		{"section without title", func(tpl *models.InspectionTemplate) { tpl.Sections[0].Title = "" }, true},
		{"unknown type", func(tpl *models.InspectionTemplate) { tpl.Sections[0].Fields[0].Type = "signature" }, true},
		{"select without options", func(tpl *models.InspectionTemplate) { tpl.Sections[1].Fields[3].Options = nil }, true},
		{"duplicate ids", func(tpl *models.InspectionTemplate) { tpl.Sections[1].Fields[0].ID = "site" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := fireSafetyTemplate()
			tt.mutate(tpl)
			err := ValidateTemplate(tpl)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignIDsAndCloneSections(t *testing.T) {
	sections := []models.Section{{Title: "A", Fields: []models.Field{{Label: "x", Type: models.FieldTypeText}}}}
	AssignIDs(sections)
	assert.NotEmpty(t, sections[0].ID)
	assert.NotEmpty(t, sections[0].Fields[0].ID)

	original := fireSafetyTemplate().Sections
	cloned := CloneSections(original)
	require.Len(t, cloned, 2)
	assert.NotEqual(t, original[0].ID, cloned[0].ID)
	assert.NotEqual(t, original[1].Fields[0].ID, cloned[1].Fields[0].ID)
	assert.Equal(t, original[1].Fields[3].Options, cloned[1].Fields[3].Options)

	cloned[1].Fields[3].Options[0] = "Changed"
	assert.Equal(t, "Good", original[1].Fields[3].Options[0])
}

func TestSummarize(t *testing.T) {
	template := fireSafetyTemplate()

	summary := Summarize(template, []models.Response{
		{FieldID: "extinguishers", Value: true},
		{FieldID: "exits", Value: "no"},
	})
	assert.Equal(t, "50", summary.Score.String())
	assert.Equal(t, 1, summary.Issues)

	summary = Summarize(template, []models.Response{{FieldID: "extinguishers", Value: true}})
	assert.Equal(t, "50", summary.Score.String(), "unanswered checks do not pass")
	assert.Equal(t, 0, summary.Issues)

	summary = Summarize(nil, []models.Response{{FieldID: "a", Value: "text"}})
	assert.Equal(t, "100", summary.Score.String())

	summary = Summarize(nil, []models.Response{{FieldID: "a", Value: true}, {FieldID: "b", Value: true}, {FieldID: "c", Value: false}})
	assert.Equal(t, "66.67", summary.Score.String())
	assert.Equal(t, 1, summary.Issues)
}
