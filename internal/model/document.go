package model

import "time"

// Document records one uploaded file. The extracted chunks themselves live in
// the user's vector index namespace; this row only keeps the file metadata.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:64;not null;index" json:"user_id"`
	FileID     string    `gorm:"size:36;not null;uniqueIndex" json:"file_id"`
	Source     string    `gorm:"size:256;not null" json:"source"`
	StoredPath string    `gorm:"size:512;not null" json:"-"`
	ChunkCount int       `gorm:"not null" json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
