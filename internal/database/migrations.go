package database

import (
	"hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every table owned by the API, parents before children.
var Models = []any{
	&models.User{},
	&models.InspectionTemplate{},
	&models.Inspection{},
	&models.InspectionAssignment{},
}

// MigrateModels creates the tables first and adds foreign keys in a second
// pass so the order of Models does not matter for constraints.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, model := range Models {
		if db.SQL.Migrator().HasTable(model) {
			continue
		}
		if err := db.SQL.Migrator().CreateTable(model); err != nil {
			return log.Err("failed to create table", err, "model", model)
		}
	}

	db.SQL.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := db.SQL.AutoMigrate(Models...); err != nil {
		return log.Err("failed to migrate models", err)
	}

	log.Info("Database migration completed")
	return nil
}

// DropModels removes every table, children first.
func (db *DB) DropModels() error {
	log := logger.New("database").Function("DropModels")

	for i := len(Models) - 1; i >= 0; i-- {
		if err := db.SQL.Migrator().DropTable(Models[i]); err != nil {
			return log.Err("failed to drop table", err, "model", Models[i])
		}
	}

	return nil
}
