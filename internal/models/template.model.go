package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeSelect   FieldType = "select"
	FieldTypeImage    FieldType = "image"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeDate, FieldTypeTime,
		FieldTypeNumber, FieldTypeBoolean, FieldTypeSelect, FieldTypeImage:
		return true
	}
	return false
}

type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// InspectionTemplate owns its sections; they are stored inline and replaced on update.
type InspectionTemplate struct {
	BaseUUIDModel
	Title       string                       `gorm:"type:text;not null"          json:"title"`
	Description string                       `gorm:"type:text"                   json:"description"`
	Category    string                       `gorm:"type:text;index"             json:"category"`
	Tags        pq.StringArray               `gorm:"type:text[]"                 json:"tags"`
	Sections    datatypes.JSONSlice[Section] `gorm:"type:jsonb;not null"         json:"sections"`
	CreatedBy   *uuid.UUID                   `gorm:"type:uuid;index"             json:"createdBy,omitempty"`
	IsActive    bool                         `gorm:"type:bool;default:true"      json:"isActive"`
	IsPrebuilt  bool                         `gorm:"type:bool;default:false"     json:"isPrebuilt"`
	Creator     *User                        `gorm:"foreignKey:CreatedBy"        json:"-"`
}

// FieldByID returns the field with the given id and the section that holds it.
func (t *InspectionTemplate) FieldByID(id string) (*Field, *Section) {
	for si := range t.Sections {
		section := &t.Sections[si]
		for fi := range section.Fields {
			if section.Fields[fi].ID == id {
				return &section.Fields[fi], section
			}
		}
	}
	return nil, nil
}

func (t *InspectionTemplate) FieldCount() int {
	count := 0
	for _, section := range t.Sections {
		count += len(section.Fields)
	}
	return count
}

func (t *InspectionTemplate) IsOwnedBy(userID uuid.UUID) bool {
	return t.CreatedBy != nil && *t.CreatedBy == userID
}
