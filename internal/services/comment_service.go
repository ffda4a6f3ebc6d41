package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/authz"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"github.com/yukikurage/task-dashboard-api/internal/storage"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrParentNotFound       = errors.New("parent comment not found")
	ErrInvalidParent        = errors.New("parent comment belongs to a different task")
	ErrContentRequired      = errors.New("content is required")
	ErrInvalidCommentStatus = errors.New("status must be one of pending, approved, rejected")
	ErrCommentForbidden     = errors.New("only the author or a manager can delete this comment")
	ErrAttachmentStorage    = errors.New("failed to store attachment")
)

// CommentService handles comments, replies and their attachments
type CommentService struct {
	commentRepo   repository.CommentRepository
	taskRepo      repository.TaskRepository
	store         storage.FileStore
	notifications *NotificationService
	log           logrus.FieldLogger
}

// CommentServiceDeps groups the collaborators of CommentService.
type CommentServiceDeps struct {
	Comments      repository.CommentRepository
	Tasks         repository.TaskRepository
	Store         storage.FileStore
	Notifications *NotificationService
	Log           logrus.FieldLogger
}

// NewCommentService creates a new CommentService
func NewCommentService(deps CommentServiceDeps) *CommentService {
	return &CommentService{
		commentRepo:   deps.Comments,
		taskRepo:      deps.Tasks,
		store:         deps.Store,
		notifications: deps.Notifications,
		log:           deps.Log,
	}
}

// Attachment is an uploaded file waiting to be stored.
type Attachment struct {
	FileName string
	Content  io.Reader
}

// CreateCommentInput represents input for posting a comment or reply
type CreateCommentInput struct {
	Content    string
	TaskID     uint64
	Author     *models.User
	ParentID   *uint64
	Attachment *Attachment
}

// ListComments returns the top-level comments of a task in creation order with
// their reply trees, authors and files.
func (s *CommentService) ListComments(taskID uint64) ([]*models.Comment, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}

	flat, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return buildCommentTree(flat), nil
}

// buildCommentTree links every comment under its parent. flat must be in
// creation order; that order is kept at every level.
func buildCommentTree(flat []models.Comment) []*models.Comment {
	index := make(map[uint64]*models.Comment, len(flat))
	for i := range flat {
		flat[i].Replies = nil
		index[flat[i].ID] = &flat[i]
	}

	roots := make([]*models.Comment, 0)
	for i := range flat {
		c := &flat[i]
		if c.ParentID != nil {
			if parent, ok := index[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// CreateComment persists a comment and its optional attachment, then notifies
// the people working on the task. When the attachment cannot be stored the
// comment is kept and returned together with an ErrAttachmentStorage error.
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	task, err := s.findTask(input.TaskID, "Workers", "Dashboard")
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.TaskID != task.ID {
			return nil, ErrInvalidParent
		}
	}

	comment := &models.Comment{
		Content:  content,
		TaskID:   task.ID,
		AuthorID: input.Author.ID,
		ParentID: input.ParentID,
		Status:   models.CommentStatusPending,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if input.Attachment != nil {
		if err := s.attach(ctx, comment.ID, input.Attachment); err != nil {
			s.log.WithError(err).WithField("comment_id", comment.ID).Error("Failed to store attachment")
			return s.reload(comment), fmt.Errorf("%w: %v", ErrAttachmentStorage, err)
		}
	}

	created := s.reload(comment)
	s.notifications.NewComment(task, created, input.Author)
	return created, nil
}

func (s *CommentService) attach(ctx context.Context, commentID uint64, a *Attachment) error {
	name := utils.GenerateStoredFileName(a.FileName)
	if err := s.store.Save(ctx, name, a.Content); err != nil {
		return err
	}

	file := &models.File{
		FileName:  a.FileName,
		FilePath:  name,
		CommentID: commentID,
	}
	if err := s.commentRepo.CreateFile(file); err != nil {
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			s.log.WithError(delErr).WithField("file", name).Warn("Failed to remove unrecorded attachment")
		}
		return fmt.Errorf("failed to record file: %w", err)
	}
	return nil
}

// reload returns the stored comment with author and files, falling back to c.
func (s *CommentService) reload(c *models.Comment) *models.Comment {
	fresh, err := s.commentRepo.FindByID(c.ID)
	if err != nil {
		s.log.WithError(err).WithField("comment_id", c.ID).Warn("Failed to reload comment")
		return c
	}
	return fresh
}

// UpdateCommentStatus sets the review status and tells the author when someone
// else made the change.
func (s *CommentService) UpdateCommentStatus(commentID uint64, status models.CommentStatus, reviewer *models.User) (*models.Comment, error) {
	if !status.Valid() {
		return nil, ErrInvalidCommentStatus
	}

	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateStatus(comment.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update comment status: %w", err)
	}
	comment.Status = status

	task, err := s.taskRepo.FindByID(comment.TaskID)
	if err != nil {
		s.log.WithError(err).WithField("comment_id", comment.ID).Warn("Skipping status notification")
		return comment, nil
	}

	s.notifications.StatusChanged(task, comment, reviewer)
	return comment, nil
}

// DeleteComment removes a comment with its replies and files. Only the author,
// CEOs and managers may do so.
func (s *CommentService) DeleteComment(commentID uint64, caller *models.User) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != caller.ID && !authz.UserHasRole(caller, authz.Leadership...) {
		return ErrCommentForbidden
	}

	removed, err := s.commentRepo.Delete(comment.ID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	purgeStoredFiles(s.store, s.log, removed)
	return nil
}

func (s *CommentService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *CommentService) findComment(commentID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}
