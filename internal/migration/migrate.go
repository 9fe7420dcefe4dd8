package migration

import (
	"github.com/quillcms/quill-backend/internal/domain"
	"github.com/quillcms/quill-backend/pkg/logger"
	"gorm.io/gorm"
)

// Run applies the schema for every persisted model
func Run(db *gorm.DB) error {
	models := []any{
		&domain.ContentItem{},
		&domain.Schedule{},
		&domain.ContentVersion{},
		&domain.Notification{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}

	logger.GetLogger().Info().Int("models", len(models)).Msg("migration complete")
	return nil
}
