package forms

import (
	"hseinspect/internal/models"

	"github.com/shopspring/decimal"
)

type Summary struct {
	Score  decimal.Decimal
	Issues int
}

// Summarize derives a score and issue count from yes/no answers. The score is
// the share of boolean checks answered yes, as a percentage; every check
// answered no is an issue. With no checks the score is 100.
func Summarize(template *models.InspectionTemplate, responses []models.Response) Summary {
	hundred := decimal.NewFromInt(100)

	var total, passed, issues int
	if template != nil {
		values := make(map[string]any, len(responses))
		for _, response := range responses {
			values[response.FieldID] = response.Value
		}
		for _, section := range template.Sections {
			for _, field := range section.Fields {
				if field.Type != models.FieldTypeBoolean {
					continue
				}
				total++
				value, _ := Coerce(field, values[field.ID])
				switch value {
				case true:
					passed++
				case false:
					issues++
				}
			}
		}
	} else {
		for _, response := range responses {
			b, ok := response.Value.(bool)
			if !ok {
				continue
			}
			total++
			if b {
				passed++
			} else {
				issues++
			}
		}
	}

	if total == 0 {
		return Summary{Score: hundred, Issues: 0}
	}

	score := decimal.NewFromInt(int64(passed)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)

	return Summary{Score: score, Issues: issues}
}
