package dto

import (
	"path"
	"time"

	"github.com/yukikurage/task-dashboard-api/internal/constants"
	"github.com/yukikurage/task-dashboard-api/internal/models"
)

type FileDTO struct {
	ID        uint64 `json:"id"`
	FileName  string `json:"file_name"`
	FilePath  string `json:"file_path"`
	URL       string `json:"url"`
	CommentID uint64 `json:"comment_id"`
}

// CommentDTO represents a comment with its reply tree
type CommentDTO struct {
	ID        uint64               `json:"id"`
	Content   string               `json:"content"`
	TaskID    uint64               `json:"task_id"`
	AuthorID  uint64               `json:"author_id"`
	ParentID  *uint64              `json:"parent_id"`
	Status    models.CommentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Author    *UserDTO             `json:"author,omitempty"`
	Files     []FileDTO            `json:"files"`
	Replies   []CommentDTO         `json:"replies"`
}

func ToFileDTO(file models.File) FileDTO {
	return FileDTO{
		ID:        file.ID,
		FileName:  file.FileName,
		FilePath:  file.FilePath,
		URL:       path.Join(constants.UploadURLPrefix, file.FilePath),
		CommentID: file.CommentID,
	}
}

// ToCommentDTO converts a comment and, recursively, its replies
func ToCommentDTO(comment *models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		ParentID:  comment.ParentID,
		Status:    comment.Status,
		CreatedAt: comment.CreatedAt,
		Files:     make([]FileDTO, len(comment.Files)),
		Replies:   ToCommentDTOs(comment.Replies),
	}

	for i, f := range comment.Files {
		dto.Files[i] = ToFileDTO(f)
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

func ToCommentDTOs(comments []*models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}
