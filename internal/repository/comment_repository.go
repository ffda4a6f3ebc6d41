package repository

import (
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("Task", "Author", "Files").Create(comment).Error
}

// CreateFile records an attachment for a comment
func (r *GormCommentRepository) CreateFile(file *models.File) error {
	return r.db.Create(file).Error
}

// FindByID finds a comment by ID with its author and files
func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.
		Preload("Author").
		Preload("Files").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask lists every comment of a task, at all depths, in creation order
func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.
		Preload("Author").
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("files.id ASC")
		}).
		Where("comments.task_id = ?", taskID).
		Order("comments.created_at ASC, comments.id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateStatus sets the review status of a comment
func (r *GormCommentRepository) UpdateStatus(id uint64, status models.CommentStatus) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("status", status).Error
}

// Delete removes a comment, its reply subtree and their files
func (r *GormCommentRepository) Delete(id uint64) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		removed, err := deleteComments(tx, []uint64{id})
		paths = removed
		return err
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
