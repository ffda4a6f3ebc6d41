package repository

import (
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"gorm.io/gorm"
)

// collectCommentTree returns roots plus every transitive reply, walking the
// parent links one level per query.
func collectCommentTree(tx *gorm.DB, roots []uint64) ([]uint64, error) {
	all := append([]uint64(nil), roots...)
	seen := make(map[uint64]struct{}, len(roots))
	for _, id := range roots {
		seen[id] = struct{}{}
	}

	frontier := roots
	for len(frontier) > 0 {
		var children []uint64
		if err := tx.Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}

		next := make([]uint64, 0, len(children))
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			next = append(next, id)
		}
		all = append(all, next...)
		frontier = next
	}

	return all, nil
}

// deleteComments removes the given comments, their reply subtrees and attached
// file rows. It returns the storage names of the removed files.
func deleteComments(tx *gorm.DB, roots []uint64) ([]string, error) {
	if len(roots) == 0 {
		return nil, nil
	}

	ids, err := collectCommentTree(tx, roots)
	if err != nil {
		return nil, err
	}

	var paths []string
	if err := tx.Model(&models.File{}).Where("comment_id IN ?", ids).Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("comment_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// deleteTasks removes the given tasks with their assignments and comment trees.
func deleteTasks(tx *gorm.DB, taskIDs []uint64) ([]string, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	var commentIDs []uint64
	if err := tx.Model(&models.Comment{}).
		Where("task_id IN ?", taskIDs).
		Pluck("id", &commentIDs).Error; err != nil {
		return nil, err
	}
	paths, err := deleteComments(tx, commentIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskWorker{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
