package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"hseinspect/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func sampleTemplate() *models.InspectionTemplate {
	return &models.InspectionTemplate{
		Title: "Fire Safety",
		Sections: []models.Section{
			{
				ID:    "s1",
				Title: "Equipment",
				Fields: []models.Field{
					{ID: "ext", Label: "Extinguishers serviced", Type: models.FieldTypeBoolean},
					{ID: "count", Label: "Extinguisher count", Type: models.FieldTypeNumber},
					{ID: "notes", Label: "Notes", Type: models.FieldTypeTextarea},
					{ID: "photos", Label: "Photos", Type: models.FieldTypeImage},
				},
			},
		},
	}
}

func sampleInspection() *models.Inspection {
	return &models.Inspection{
		Title:     "Warehouse <Fire> Check",
		Location:  "Depot 4",
		Inspector: "Dana Field",
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Time:      "09:30",
		Status:    models.InspectionRequiresAction,
		Priority:  models.PriorityHigh,
		Score:     decimal.NewFromFloat(87.5),
		Issues:    2,
		Responses: []models.Response{
			{FieldID: "ext", Value: true},
			{FieldID: "count", Value: 4.0},
			{FieldID: "photos", Value: []any{"a.webp", "b.webp"}},
		},
	}
}

func TestBuild_WithTemplate(t *testing.T) {
	report := Build(sampleInspection(), sampleTemplate(), generatedAt)

	require.True(t, report.HasTemplate())
	require.Len(t, report.Sections, 1)
	assert.Equal(t, "Fire Safety", report.TemplateTitle)
	assert.Equal(t, "Requires action", report.Status)
	assert.Equal(t, "2026-03-01", report.Date)
	assert.Equal(t, "87.5", report.Score)

	rows := report.Sections[0].Rows
	assert.Equal(t, Row{Label: "Extinguishers serviced", Value: "Yes"}, rows[0])
	assert.Equal(t, Row{Label: "Extinguisher count", Value: "4"}, rows[1])
	assert.Equal(t, Row{Label: "Notes", Value: "N/A"}, rows[2])
	assert.Equal(t, Row{Label: "Photos", Value: "2 photos"}, rows[3])
	assert.Equal(t, 2, report.PhotoCount)
}

func TestBuild_WithoutTemplateFallsBackToFlatList(t *testing.T) {
	inspection := sampleInspection()
	inspection.Responses = append(inspection.Responses, models.Response{FieldID: "area", Value: "Loading bay"})

	report := Build(inspection, nil, generatedAt)

	assert.False(t, report.HasTemplate())
	assert.Empty(t, report.Sections)
	assert.Equal(t, []Row{
		{Label: "area", Value: "Loading bay"},
		{Label: "count", Value: "4"},
		{Label: "ext", Value: "Yes"},
		{Label: "photos", Value: "a.webp, b.webp"},
	}, report.Flat)

	html, err := RenderHTML(report)
	require.NoError(t, err)
	body := string(html)
	assert.Contains(t, body, "<h2>Responses</h2>")
	assert.Contains(t, body, `<td class="label">area</td><td>Loading bay</td>`)
	assert.NotContains(t, body, "Extinguishers serviced")
}

func TestBuild_WholeScoreHasNoTrailingZeros(t *testing.T) {
	inspection := sampleInspection()
	inspection.Score = decimal.RequireFromString("90.00")

	report := Build(inspection, sampleTemplate(), generatedAt)

	assert.Equal(t, "90", report.Score)
}

func TestBuild_WithoutTemplateCountsOnlyPhotoAnswers(t *testing.T) {
	inspection := sampleInspection()
	inspection.Photos = []string{"/uploads/photos/u1/cover.webp"}
	inspection.Responses = []models.Response{
		{FieldID: "hazards", Value: []any{"Electrical", "Chemical", "Noise"}},
		{FieldID: "gallery", Value: []any{"/uploads/photos/u1/a.webp", "file:///var/mobile/b.JPG"}},
		{FieldID: "signature", Value: "https://cdn.example.com/photos/u1/sig.webp"},
		{FieldID: "area", Value: "Loading bay"},
	}

	report := Build(inspection, nil, generatedAt)

	assert.Equal(t, 4, report.PhotoCount)
}

func TestBuild_NoResponsesWithoutTemplate(t *testing.T) {
	inspection := sampleInspection()
	inspection.Responses = nil

	report := Build(inspection, nil, generatedAt)

	assert.False(t, report.HasTemplate())
	html, err := RenderHTML(report)
	require.NoError(t, err)
	assert.Contains(t, string(html), "No responses recorded")
}

func TestRenderHTML_EscapesValues(t *testing.T) {
	report := Build(sampleInspection(), sampleTemplate(), generatedAt)

	html, err := RenderHTML(report)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Warehouse &lt;Fire&gt; Check")
	assert.NotContains(t, body, "<Fire>")
	assert.Contains(t, body, "<h2>Equipment</h2>")
	assert.Contains(t, body, "2 photo(s) attached")
}

func TestRenderPDF(t *testing.T) {
	report := Build(sampleInspection(), sampleTemplate(), generatedAt)

	pdf, err := RenderPDF(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	flat, err := RenderPDF(Build(sampleInspection(), nil, generatedAt))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(flat, []byte("%PDF-")))
}

func TestRenderPDF_LongReportPaginates(t *testing.T) {
	template := sampleTemplate()
	inspection := sampleInspection()
	for i := 0; i < 120; i++ {
		id := "extra" + strings.Repeat("x", i%5) + string(rune('a'+i%26))
		template.Sections[0].Fields = append(template.Sections[0].Fields, models.Field{
			ID: id, Label: "Checklist item with a fairly long label that wraps", Type: models.FieldTypeText,
		})
	}

	pdf, err := RenderPDF(Build(inspection, template, generatedAt))
	require.NoError(t, err)
	// one entry for the page tree plus one per page
	assert.GreaterOrEqual(t, bytes.Count(pdf, []byte("/Type /Page")), 3)
}

func TestReport_Filename(t *testing.T) {
	report := Build(sampleInspection(), nil, generatedAt)
	assert.Equal(t, "warehouse-fire-check-2026-03-01.pdf", report.Filename("pdf"))
	assert.Equal(t, "warehouse-fire-check-2026-03-01.html", report.Filename(".html"))

	report.Title = "???"
	report.Date = ""
	assert.Equal(t, "inspection-report.pdf", report.Filename("pdf"))
}

func TestFormatValue(t *testing.T) {
	selectField := models.Field{Type: models.FieldTypeSelect}
	assert.Equal(t, "No", FormatValue(models.Field{Type: models.FieldTypeBoolean}, false))
	assert.Equal(t, "12.25", FormatValue(models.Field{Type: models.FieldTypeNumber}, 12.25))
	assert.Equal(t, "1 photo", FormatValue(models.Field{Type: models.FieldTypeImage}, []string{"a"}))
	assert.Equal(t, "N/A", FormatValue(selectField, ""))
	assert.Equal(t, "Good", FormatValue(selectField, "Good"))
}
