package forms

import (
	"fmt"
	"strings"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"

	"github.com/google/uuid"
)

// ValidateSection returns the ids of required fields in section that have no
// value. Only presence is checked.
func ValidateSection(section models.Section, values map[string]any) []string {
	var missing []string
	for _, field := range section.Fields {
		if !field.Required {
			continue
		}
		if IsEmpty(values[field.ID]) {
			missing = append(missing, field.ID)
		}
	}
	return missing
}

// ResponseCheck is the outcome of checking saved responses against a template.
type ResponseCheck struct {
	Missing []string `json:"missing,omitempty"`
	Unknown []string `json:"unknown,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func (r ResponseCheck) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// CheckResponses coerces each response to its field type in place and reports
// missing required fields, invalid values and responses whose field id is not
// part of the template. Unknown responses are kept.
func CheckResponses(template *models.InspectionTemplate, responses []models.Response) ResponseCheck {
	var check ResponseCheck
	if template == nil {
		return check
	}

	values := make(map[string]any, len(responses))
	for i := range responses {
		field, _ := template.FieldByID(responses[i].FieldID)
		if field == nil {
			check.Unknown = append(check.Unknown, responses[i].FieldID)
			continue
		}
		value, err := Coerce(*field, responses[i].Value)
		if err != nil {
			check.Invalid = append(check.Invalid, field.ID)
		}
		responses[i].Value = value
		values[field.ID] = value
	}

	for _, section := range template.Sections {
		check.Missing = append(check.Missing, ValidateSection(section, values)...)
	}

	return check
}

// ValidateTemplate checks the structure of a template before it is stored.
func ValidateTemplate(template *models.InspectionTemplate) error {
	if strings.TrimSpace(template.Title) == "" {
		return apperrors.Validation("Template title is required")
	}
	if len(template.Sections) == 0 {
		return apperrors.Validation("Template needs at least one section")
	}

	seen := make(map[string]bool)
	for si, section := range template.Sections {
		if strings.TrimSpace(section.Title) == "" {
			return apperrors.Validation(fmt.Sprintf("Section %d needs a title", si+1))
		}
		for _, field := range section.Fields {
			if strings.TrimSpace(field.Label) == "" {
				return apperrors.Validation(
					fmt.Sprintf("Every field in %q needs a label", section.Title),
					field.ID,
				)
			}
			if !field.Type.Valid() {
				return apperrors.Validation(
					fmt.Sprintf("Field %q has unknown type %q", field.Label, field.Type),
					field.ID,
				)
			}
			if field.Type == models.FieldTypeSelect && len(field.Options) == 0 {
				return apperrors.Validation(
					fmt.Sprintf("Select field %q needs at least one option", field.Label),
					field.ID,
				)
			}
			if field.ID != "" && seen[field.ID] {
				return apperrors.Validation(
					fmt.Sprintf("Field id %q is used more than once", field.ID),
					field.ID,
				)
			}
			seen[field.ID] = true
		}
	}

	return nil
}

// AssignIDs fills in missing section and field ids.
func AssignIDs(sections []models.Section) {
	for si := range sections {
		if sections[si].ID == "" {
			sections[si].ID = newID()
		}
		for fi := range sections[si].Fields {
			if sections[si].Fields[fi].ID == "" {
				sections[si].Fields[fi].ID = newID()
			}
		}
	}
}

// CloneSections deep copies sections giving every section and field a fresh id.
func CloneSections(sections []models.Section) []models.Section {
	cloned := make([]models.Section, len(sections))
	for si, section := range sections {
		fields := make([]models.Field, len(section.Fields))
		for fi, field := range section.Fields {
			field.ID = newID()
			field.Options = append([]string(nil), field.Options...)
			fields[fi] = field
		}
		section.ID = newID()
		section.Fields = fields
		cloned[si] = section
	}
	return cloned
}

func newID() string {
	return uuid.NewString()
}
