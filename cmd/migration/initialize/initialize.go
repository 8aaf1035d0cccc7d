package initialize

import (
	"errors"
	"strings"

	"hseinspect/config"
	. "hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitializeTables inserts the data every environment needs: the prebuilt
// templates and, when configured, the bootstrap administrator.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeTemplates(db, log); err != nil {
		return log.Err("failed to initialize templates", err)
	}

	if err := initializeAdmin(db, config, log); err != nil {
		return log.Err("failed to initialize admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeTemplates(db *gorm.DB, log logger.Logger) error {
	log = log.Function("initializeTemplates")

	templates := prebuiltTemplates()
	for _, template := range templates {
		var existing InspectionTemplate
		err := db.First(&existing, "title = ? AND is_prebuilt = ?", template.Title, true).Error
		if err == nil {
			log.Debug("Template already exists", "title", template.Title)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to look up template", err, "title", template.Title)
		}

		log.Info("Creating prebuilt template", "title", template.Title)
		if err := db.Create(&template).Error; err != nil {
			return log.Err("failed to create template", err, "title", template.Title)
		}
	}

	log.Info("Prebuilt templates initialized", "count", len(templates))
	return nil
}

// initializeAdmin is the only way an approved administrator comes into being;
// sign-up always produces pending inspectors.
func initializeAdmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("initializeAdmin")

	email := strings.ToLower(strings.TrimSpace(config.SeedAdminEmail))
	if email == "" || config.SeedAdminPassword == "" {
		log.Info("No seed administrator configured")
		return nil
	}

	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return log.Error("seed administrator email is invalid", "email", email)
	}

	var existing User
	err := db.First(&existing, "email = ?", email).Error
	if err == nil {
		log.Debug("Administrator already exists", "email", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up administrator", err, "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash administrator password", err)
	}

	admin := User{
		Name:           "Administrator",
		Email:          email,
		PasswordHash:   string(hash),
		Role:           RoleAdmin,
		ApprovalStatus: ApprovalApproved,
		CompanyDomain:  domain,
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create administrator", err, "email", email)
	}

	log.Info("Created seed administrator", "email", email)
	return nil
}
