package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddIndexes adds the multi-column indexes that struct tags cannot express
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Top-level comment listing: WHERE task_id = ? ORDER BY created_at, id
		{"comments", "idx_comments_task_created", "task_id, created_at, id"},

		// Dashboard task listing in creation order
		{"tasks", "idx_tasks_dashboard_created", "dashboard_id, created_at, id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logrus.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithField("index", idx.name).Infof("Created index on %s(%s)", idx.table, idx.columns)
	}

	return nil
}
