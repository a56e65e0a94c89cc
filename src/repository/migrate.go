package repository

import (
	"github.com/quickpoll/backend/src/domain"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the gorm models. Postgres deployments
// use the SQL migrations instead; this is for SQLite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
