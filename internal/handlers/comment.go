package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/dto"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// ListTaskComments returns the top-level comments of a task with nested replies
func (h *CommentHandler) ListTaskComments(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ListComments(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// CreateComment accepts a multipart form: content, task_id, optional parent_id
// and an optional file.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseUint(c.PostForm("task_id"), 10, 64)
	if err != nil || taskID == 0 {
		apierrors.BadRequest(c, "Invalid task_id")
		return
	}

	var parentID *uint64
	if raw := c.PostForm("parent_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid parent_id")
			return
		}
		parentID = &id
	}

	input := services.CreateCommentInput{
		Content:  c.PostForm("content"),
		TaskID:   taskID,
		Author:   user,
		ParentID: parentID,
	}

	header, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := header.Open()
		if err != nil {
			apierrors.BadRequest(c, "Unreadable file upload")
			return
		}
		defer f.Close()
		input.Attachment = &services.Attachment{FileName: header.Filename, Content: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no attachment
	default:
		apierrors.BadRequest(c, "Invalid file upload")
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), input)
	if errors.Is(err, services.ErrAttachmentStorage) {
		apierrors.StorageError(c, "Comment saved but the attachment could not be stored", gin.H{
			"comment": dto.ToCommentDTO(comment),
		})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(comment))
}

func (h *CommentHandler) UpdateCommentStatus(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.comments.UpdateCommentStatus(id, models.CommentStatus(req.Status), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(id, user); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
