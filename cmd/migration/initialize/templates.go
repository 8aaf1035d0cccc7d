package initialize

import (
	. "hseinspect/internal/models"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

func yesNo(id, label string) Field {
	return Field{ID: id, Label: label, Type: FieldTypeBoolean, Required: true}
}

func notes(id string) Field {
	return Field{ID: id, Label: "Notes", Type: FieldTypeTextarea, Placeholder: "Observations and corrective actions"}
}

func photos(id string) Field {
	return Field{ID: id, Label: "Photos", Type: FieldTypeImage}
}

func prebuiltTemplates() []InspectionTemplate {
	return []InspectionTemplate{
		{
			Title:       "Fire Safety Inspection",
			Description: "Monthly check of fire detection, suppression and escape routes.",
			Category:    "Fire Safety",
			Tags:        pq.StringArray{"fire", "emergency", "monthly"},
			IsActive:    true,
			IsPrebuilt:  true,
			Sections: datatypes.JSONSlice[Section]{
				{
					ID:    "extinguishers",
					Title: "Fire Extinguishers",
					Fields: []Field{
						yesNo("extinguishers_accessible", "Extinguishers are accessible and unobstructed"),
						yesNo("extinguishers_charged", "Pressure gauges in the green zone"),
						yesNo("extinguishers_tagged", "Service tags are current"),
						{ID: "extinguisher_count", Label: "Extinguishers checked", Type: FieldTypeNumber, Required: true},
					},
				},
				{
					ID:    "exits",
					Title: "Emergency Exits",
					Fields: []Field{
						yesNo("exits_clear", "Exit routes are clear"),
						yesNo("exit_signs_lit", "Exit signs are illuminated"),
						yesNo("doors_open_freely", "Exit doors open freely"),
					},
				},
				{
					ID:    "alarms",
					Title: "Detection and Alarms",
					Fields: []Field{
						yesNo("alarm_tested", "Alarm panel shows no faults"),
						{ID: "last_drill", Label: "Date of last fire drill", Type: FieldTypeDate},
						notes("fire_notes"),
						photos("fire_photos"),
					},
				},
			},
		},
		{
			Title:       "PPE Compliance Check",
			Description: "Spot check that workers wear and maintain required protective equipment.",
			Category:    "PPE",
			Tags:        pq.StringArray{"ppe", "compliance"},
			IsActive:    true,
			IsPrebuilt:  true,
			Sections: datatypes.JSONSlice[Section]{
				{
					ID:    "area",
					Title: "Work Area",
					Fields: []Field{
						{ID: "work_area", Label: "Work area", Type: FieldTypeText, Required: true},
						{ID: "workers_observed", Label: "Workers observed", Type: FieldTypeNumber, Required: true},
					},
				},
				{
					ID:    "equipment",
					Title: "Protective Equipment",
					Fields: []Field{
						yesNo("head_protection", "Hard hats worn where required"),
						yesNo("eye_protection", "Eye protection worn where required"),
						yesNo("hearing_protection", "Hearing protection worn in noise zones"),
						yesNo("hi_vis", "High visibility clothing worn"),
						yesNo("footwear", "Safety footwear worn"),
						{
							ID:      "ppe_condition",
							Label:   "Overall PPE condition",
							Type:    FieldTypeSelect,
							Options: []string{"Good", "Fair", "Poor"},
						},
					},
				},
				{
					ID:     "follow_up",
					Title:  "Follow Up",
					Fields: []Field{notes("ppe_notes"), photos("ppe_photos")},
				},
			},
		},
		{
			Title:       "Workplace Hazard Assessment",
			Description: "General walk-through for slip, trip, electrical and chemical hazards.",
			Category:    "General Safety",
			Tags:        pq.StringArray{"hazard", "walkthrough"},
			IsActive:    true,
			IsPrebuilt:  true,
			Sections: datatypes.JSONSlice[Section]{
				{
					ID:    "housekeeping",
					Title: "Housekeeping",
					Fields: []Field{
						yesNo("floors_clear", "Floors are clean and free of trip hazards"),
						yesNo("spills_controlled", "Spills are cleaned up or contained"),
						yesNo("storage_stable", "Materials are stored securely"),
					},
				},
				{
					ID:    "electrical",
					Title: "Electrical",
					Fields: []Field{
						yesNo("cables_intact", "Cables and plugs are undamaged"),
						yesNo("panels_closed", "Electrical panels are closed and labelled"),
					},
				},
				{
					ID:    "chemicals",
					Title: "Chemicals",
					Fields: []Field{
						yesNo("sds_available", "Safety data sheets are available"),
						yesNo("containers_labelled", "Containers are labelled"),
						{
							ID:       "risk_level",
							Label:    "Overall risk level",
							Type:     FieldTypeSelect,
							Required: true,
							Options:  []string{"Low", "Medium", "High", "Critical"},
						},
						notes("hazard_notes"),
						photos("hazard_photos"),
					},
				},
			},
		},
		{
			Title:       "Equipment Pre-Use Inspection",
			Description: "Operator check before using mobile plant or powered equipment.",
			Category:    "Equipment",
			Tags:        pq.StringArray{"equipment", "pre-use", "daily"},
			IsActive:    true,
			IsPrebuilt:  true,
			Sections: datatypes.JSONSlice[Section]{
				{
					ID:    "details",
					Title: "Equipment Details",
					Fields: []Field{
						{ID: "equipment_id", Label: "Equipment ID", Type: FieldTypeText, Required: true},
						{ID: "operator", Label: "Operator", Type: FieldTypeText, Required: true},
						{ID: "hour_meter", Label: "Hour meter reading", Type: FieldTypeNumber},
						{ID: "check_time", Label: "Time of check", Type: FieldTypeTime},
					},
				},
				{
					ID:    "checks",
					Title: "Pre-Use Checks",
					Fields: []Field{
						yesNo("brakes_ok", "Brakes operate correctly"),
						yesNo("lights_ok", "Lights and horn work"),
						yesNo("no_leaks", "No fluid leaks"),
						yesNo("guards_fitted", "Guards and covers are fitted"),
						yesNo("controls_ok", "Controls return to neutral"),
					},
				},
				{
					ID:     "defects",
					Title:  "Defects",
					Fields: []Field{notes("defect_notes"), photos("defect_photos")},
				},
			},
		},
	}
}
