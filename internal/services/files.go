package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/storage"
)

// purgeStoredFiles removes blobs whose rows were deleted. Failures are logged
// and skipped.
func purgeStoredFiles(store storage.FileStore, log logrus.FieldLogger, names []string) {
	if store == nil {
		return
	}
	for _, name := range names {
		if err := store.Delete(context.Background(), name); err != nil {
			log.WithError(err).WithField("file", name).Warn("Failed to remove stored attachment")
		}
	}
}
