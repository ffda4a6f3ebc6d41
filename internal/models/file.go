package models

// File is an attachment. FilePath holds the generated storage name, never the original one.
type File struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	FileName  string `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath  string `gorm:"type:varchar(255);not null;uniqueIndex" json:"file_path"`
	CommentID uint64 `gorm:"not null;index" json:"comment_id"`
}
