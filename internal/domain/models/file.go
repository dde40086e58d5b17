package models

import (
	"time"
)

// File is the metadata row for an object uploaded to the external drive
// provider. FolderID NULL means the file sits at the project root.
// WebLink is the provider's browser-viewable URL, when it reports one.
type File struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	FolderID    *string    `json:"folder_id,omitempty" db:"folder_id"`
	StorageID   string     `json:"storage_id" db:"storage_id"`
	Name        string     `json:"name" db:"name"`
	ContentType string     `json:"content_type" db:"content_type"`
	Size        int64      `json:"size" db:"size"`
	WebLink     *string    `json:"web_link,omitempty" db:"web_link"`
	IsDeleted   bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
