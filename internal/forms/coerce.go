// Package forms turns raw client input into typed template responses and
// checks required fields section by section.
package forms

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Coerce converts raw into the value type of field. Numbers that fail to
// parse become 0. A nil raw value stays nil so the field reads as unanswered.
func Coerce(field models.Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch field.Type {
	case models.FieldTypeText, models.FieldTypeTextarea:
		return toString(raw), nil
	case models.FieldTypeNumber:
		return toNumber(raw), nil
	case models.FieldTypeBoolean:
		return toBool(field, raw)
	case models.FieldTypeDate:
		return toDate(field, raw)
	case models.FieldTypeTime:
		return toClock(field, raw)
	case models.FieldTypeSelect:
		value := toString(raw)
		if value == "" || len(field.Options) == 0 || slices.Contains(field.Options, value) {
			return value, nil
		}
		return value, apperrors.Validation(
			fmt.Sprintf("%q is not an option for %s", value, field.Label),
			field.ID,
		)
	case models.FieldTypeImage:
		return toURIs(raw), nil
	}

	return raw, nil
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(raw)
}

func toNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// toBool keeps an unrecognised answer as given and reports it, so the
// client's value is never replaced with null.
func toBool(field models.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return nil, nil
		case "true", "yes", "y", "1", "on":
			return true, nil
		case "false", "no", "n", "0", "off":
			return false, nil
		}
	}
	return raw, apperrors.Validation(fmt.Sprintf("%s must be yes or no", field.Label), field.ID)
}

func toDate(field models.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(DateLayout), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return "", nil
		}
		if d, err := time.Parse(DateLayout, v); err == nil {
			return d.Format(DateLayout), nil
		}
		if d, err := time.Parse(time.RFC3339, v); err == nil {
			return d.Format(DateLayout), nil
		}
		return v, apperrors.Validation(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field.Label), field.ID)
	}
	return nil, apperrors.Validation(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field.Label), field.ID)
}

func toClock(field models.Field, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(TimeLayout), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return "", nil
		}
		for _, layout := range []string{TimeLayout, "15:04:05", "3:04 PM", "3:04PM", time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format(TimeLayout), nil
			}
		}
		return v, apperrors.Validation(fmt.Sprintf("%s must be a time (HH:MM)", field.Label), field.ID)
	}
	return nil, apperrors.Validation(fmt.Sprintf("%s must be a time (HH:MM)", field.Label), field.ID)
}

func toURIs(raw any) []string {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	case []string:
		return v
	case []any:
		uris := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				uris = append(uris, s)
			}
		}
		return uris
	}
	return []string{}
}

// IsEmpty reports whether value counts as unanswered. false and 0 are answers.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}
