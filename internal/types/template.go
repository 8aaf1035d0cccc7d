package types

import "hseinspect/internal/models"

type TemplateRequest struct {
	Title       string           `json:"title"       validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Category    string           `json:"category"    validate:"max=100"`
	Tags        []string         `json:"tags"        validate:"max=20,dive,max=50"`
	Sections    []models.Section `json:"sections"    validate:"required,min=1"`
}

type TemplateListQuery struct {
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Search   string `query:"search"`
}
