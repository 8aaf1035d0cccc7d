package seed

import (
	"errors"
	"strings"
	"time"

	"hseinspect/config"
	. "hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "Inspect#2024"

// Seed adds a manager and two inspectors on the first allowed domain plus a
// sample inspection assigned to one of them. Development only.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	domains := config.AllowedDomains()
	if len(domains) == 0 {
		return log.ErrMsg("no allowed domains configured")
	}
	domain := domains[0]

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []User{
		{Name: "Morgan Manager", Email: "manager@" + domain, Role: RoleManager},
		{Name: "Ines Inspector", Email: "inspector@" + domain, Role: RoleInspector},
		{Name: "Sam Safety", Email: "sam@" + domain, Role: RoleInspector},
	}

	for i := range users {
		users[i].PasswordHash = string(hash)
		users[i].ApprovalStatus = ApprovalApproved
		users[i].CompanyDomain = domain

		var existing User
		err := db.First(&existing, "email = ?", strings.ToLower(users[i].Email)).Error
		if err == nil {
			users[i] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to look up user", err, "email", users[i].Email)
		}

		log.Info("Seeding user", "email", users[i].Email, "role", users[i].Role)
		if err := db.Create(&users[i]).Error; err != nil {
			return log.Err("failed to create user", err, "email", users[i].Email)
		}
	}

	var template InspectionTemplate
	if err := db.First(&template, "is_prebuilt = ?", true).Error; err != nil {
		return log.Err("failed to find a prebuilt template", err)
	}

	manager, inspector := users[0], users[1]
	today := time.Now().UTC().Truncate(24 * time.Hour)

	return db.Transaction(func(tx *gorm.DB) error {
		inspection := Inspection{
			TemplateID: &template.ID,
			Title:      template.Title + " - Main Warehouse",
			Location:   "Main Warehouse",
			Inspector:  inspector.Name,
			Date:       today,
			Status:     InspectionDraft,
			Priority:   PriorityHigh,
			Score:      decimal.Zero,
			CreatedBy:  manager.ID,
		}
		if err := tx.Create(&inspection).Error; err != nil {
			return log.Err("failed to create sample inspection", err)
		}

		assignment := InspectionAssignment{
			InspectionID: inspection.ID,
			AssignedTo:   inspector.ID,
			AssignedBy:   manager.ID,
			DueDate:      today.Add(7 * 24 * time.Hour),
			Priority:     PriorityHigh,
			Status:       AssignmentAssigned,
			Notes:        "Quarterly walk-through",
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return log.Err("failed to create sample assignment", err)
		}

		log.Info("Seeded sample inspection", "inspectionID", inspection.ID, "assignedTo", inspector.Email)
		return nil
	})
}
