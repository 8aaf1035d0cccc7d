// Package reports builds a printable summary of an inspection and renders it
// as HTML or PDF.
package reports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"hseinspect/internal/forms"
	"hseinspect/internal/models"
	"hseinspect/internal/utils"
)

const notAnswered = "N/A"

type Row struct {
	Label string
	Value string
}

type SectionTable struct {
	Title       string
	Description string
	Rows        []Row
}

type Report struct {
	Title         string
	TemplateTitle string
	Location      string
	Inspector     string
	Date          string
	Time          string
	Status        string
	Priority      string
	Score         string
	Issues        int
	Categories    []string
	Sections      []SectionTable
	// Flat holds the raw responses when the inspection has no template.
	Flat        []Row
	PhotoCount  int
	GeneratedAt time.Time
}

func (r Report) HasTemplate() bool {
	return r.Flat == nil
}

func (r Report) Summary() []Row {
	rows := []Row{
		{Label: "Location", Value: orNA(r.Location)},
		{Label: "Inspector", Value: orNA(r.Inspector)},
		{Label: "Date", Value: orNA(strings.TrimSpace(r.Date + " " + r.Time))},
		{Label: "Status", Value: orNA(r.Status)},
		{Label: "Priority", Value: orNA(r.Priority)},
		{Label: "Score", Value: r.Score + "%"},
		{Label: "Issues", Value: strconv.Itoa(r.Issues)},
	}
	if r.TemplateTitle != "" {
		rows = append(rows, Row{Label: "Template", Value: r.TemplateTitle})
	}
	if len(r.Categories) > 0 {
		rows = append(rows, Row{Label: "Categories", Value: strings.Join(r.Categories, ", ")})
	}
	return rows
}

// Filename is the download name for the report, e.g. fire-safety-2026-03-01.pdf.
func (r Report) Filename(ext string) string {
	base := utils.Slugify(r.Title, 60, "inspection-report")
	if r.Date != "" {
		base += "-" + r.Date
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// Build assembles the report for inspection. When template is nil the
// responses are listed as plain field id / value pairs.
func Build(inspection *models.Inspection, template *models.InspectionTemplate, now time.Time) Report {
	report := Report{
		Title:       inspection.Title,
		Location:    inspection.Location,
		Inspector:   inspection.Inspector,
		Time:        inspection.Time,
		Status:      humanize(string(inspection.Status)),
		Priority:    humanize(string(inspection.Priority)),
		Score:       inspection.Score.Round(2).String(),
		Issues:      inspection.Issues,
		Categories:  inspection.Categories,
		PhotoCount:  len(inspection.Photos),
		GeneratedAt: now,
	}
	if !inspection.Date.IsZero() {
		report.Date = inspection.Date.Format(forms.DateLayout)
	}

	if template == nil {
		report.Flat = flatRows(inspection.Responses)
		for _, response := range inspection.Responses {
			report.PhotoCount += countPhotoURIs(response.Value)
		}
		return report
	}

	report.TemplateTitle = template.Title
	for _, section := range template.Sections {
		table := SectionTable{Title: section.Title, Description: section.Description}
		for _, field := range section.Fields {
			row := Row{Label: field.Label, Value: notAnswered}
			if response, ok := inspection.ResponseFor(field.ID); ok {
				value, _ := forms.Coerce(field, response.Value)
				row.Value = FormatValue(field, value)
				if uris, ok := value.([]string); ok {
					report.PhotoCount += len(uris)
				}
			}
			table.Rows = append(table.Rows, row)
		}
		report.Sections = append(report.Sections, table)
	}

	return report
}

var photoExtensions = []string{".webp", ".jpg", ".jpeg", ".png", ".heic"}

// isPhotoURI reports whether s points at an uploaded or on-device photo.
// Without a template this is the only way to tell an image answer from any
// other list of strings.
func isPhotoURI(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "photos/") || strings.Contains(s, "/photos/") {
		return true
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	for _, ext := range photoExtensions {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

func countPhotoURIs(value any) int {
	switch v := value.(type) {
	case string:
		if isPhotoURI(v) {
			return 1
		}
	case []string:
		count := 0
		for _, item := range v {
			if isPhotoURI(item) {
				count++
			}
		}
		return count
	case []any:
		count := 0
		for _, item := range v {
			if s, ok := item.(string); ok && isPhotoURI(s) {
				count++
			}
		}
		return count
	}
	return 0
}

// FormatValue renders a coerced field value as report text.
func FormatValue(field models.Field, value any) string {
	if forms.IsEmpty(value) {
		return notAnswered
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		if field.Type == models.FieldTypeImage {
			return photoCount(len(v))
		}
		return strings.Join(v, ", ")
	case string:
		return v
	}
	return fmt.Sprint(value)
}

func flatRows(responses []models.Response) []Row {
	rows := make([]Row, 0, len(responses))
	for _, response := range responses {
		rows = append(rows, Row{Label: response.FieldID, Value: formatRaw(response.Value)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

func formatRaw(value any) string {
	switch v := value.(type) {
	case nil:
		return notAnswered
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		if strings.TrimSpace(v) == "" {
			return notAnswered
		}
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(value)
}

func photoCount(n int) string {
	if n == 1 {
		return "1 photo"
	}
	return fmt.Sprintf("%d photos", n)
}

func humanize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAnswered
	}
	return s
}
