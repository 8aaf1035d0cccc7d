package forms

import (
	"fmt"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"
)

// Filler walks a template one section at a time, holding the values entered
// so far. It refuses to advance past a section with empty required fields and
// records those fields as flagged.
type Filler struct {
	template *models.InspectionTemplate
	values   map[string]any
	answered map[string]time.Time
	current  int
	flagged  map[string]bool
	now      func() time.Time
}

// NewFiller starts at the first section. A nil template is treated as one
// with no sections.
func NewFiller(template *models.InspectionTemplate) *Filler {
	if template == nil {
		template = &models.InspectionTemplate{}
	}
	return &Filler{
		template: template,
		values:   make(map[string]any),
		answered: make(map[string]time.Time),
		flagged:  make(map[string]bool),
		now:      time.Now,
	}
}

// NewFillerFromResponses resumes a form from saved responses. Responses for
// fields no longer in the template are dropped.
func NewFillerFromResponses(template *models.InspectionTemplate, responses []models.Response) *Filler {
	f := NewFiller(template)
	for _, response := range responses {
		field, _ := f.template.FieldByID(response.FieldID)
		if field == nil {
			continue
		}
		value, _ := Coerce(*field, response.Value)
		f.values[field.ID] = value
		f.answered[field.ID] = response.Timestamp
	}
	return f
}

func (f *Filler) Set(fieldID string, raw any) error {
	field, _ := f.template.FieldByID(fieldID)
	if field == nil {
		return apperrors.Validation(fmt.Sprintf("Unknown field %q", fieldID), fieldID)
	}

	value, err := Coerce(*field, raw)
	if err != nil {
		return err
	}

	f.values[fieldID] = value
	f.answered[fieldID] = f.now()
	if !IsEmpty(value) {
		delete(f.flagged, fieldID)
	}
	return nil
}

func (f *Filler) Value(fieldID string) (any, bool) {
	value, ok := f.values[fieldID]
	return value, ok
}

// Current returns the section being filled, or a zero Section when the
// template has none.
func (f *Filler) Current() models.Section {
	if f.current >= len(f.template.Sections) {
		return models.Section{}
	}
	return f.template.Sections[f.current]
}

func (f *Filler) CurrentIndex() int {
	return f.current
}

func (f *Filler) SectionCount() int {
	return len(f.template.Sections)
}

func (f *Filler) IsLast() bool {
	return f.current >= len(f.template.Sections)-1
}

// Progress is the fraction of sections passed, from 0 to 1.
func (f *Filler) Progress() float64 {
	if len(f.template.Sections) == 0 {
		return 1
	}
	return float64(f.current+1) / float64(len(f.template.Sections))
}

// Flagged returns the flagged field ids in template order.
func (f *Filler) Flagged() []string {
	var flagged []string
	for _, section := range f.template.Sections {
		for _, field := range section.Fields {
			if f.flagged[field.ID] {
				flagged = append(flagged, field.ID)
			}
		}
	}
	return flagged
}

func (f *Filler) IsFlagged(fieldID string) bool {
	return f.flagged[fieldID]
}

// Next validates the current section and moves to the following one. On the
// last section it validates without moving.
func (f *Filler) Next() error {
	if len(f.template.Sections) == 0 {
		return nil
	}

	missing := ValidateSection(f.Current(), f.values)
	if len(missing) > 0 {
		for _, id := range missing {
			f.flagged[id] = true
		}
		return apperrors.Validation("Please fill in all required fields", missing...)
	}

	if !f.IsLast() {
		f.current++
	}
	return nil
}

func (f *Filler) Previous() bool {
	if f.current == 0 {
		return false
	}
	f.current--
	return true
}

// Submit validates every section. On failure the filler moves to the first
// section holding a missing field.
func (f *Filler) Submit() ([]models.Response, error) {
	var missing []string
	firstInvalid := -1
	for i, section := range f.template.Sections {
		sectionMissing := ValidateSection(section, f.values)
		if len(sectionMissing) > 0 && firstInvalid < 0 {
			firstInvalid = i
		}
		missing = append(missing, sectionMissing...)
	}

	if len(missing) > 0 {
		for _, id := range missing {
			f.flagged[id] = true
		}
		f.current = firstInvalid
		return nil, apperrors.Validation("Please fill in all required fields", missing...)
	}

	return f.Responses(), nil
}

// Responses returns one response per answered field in template order.
func (f *Filler) Responses() []models.Response {
	var responses []models.Response
	for _, section := range f.template.Sections {
		for _, field := range section.Fields {
			value, ok := f.values[field.ID]
			if !ok {
				continue
			}
			responses = append(responses, models.Response{
				FieldID:   field.ID,
				Value:     value,
				Timestamp: f.answered[field.ID],
			})
		}
	}
	return responses
}
