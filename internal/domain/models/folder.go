package models

import (
	"time"
)

// Folder belongs to exactly one project and optionally to a parent folder
// (NULL parent = project root). StorageID references the matching folder
// in the external drive provider.
type Folder struct {
	ID        string     `json:"id" db:"id"`
	ProjectID string     `json:"project_id" db:"project_id"`
	ParentID  *string    `json:"parent_id,omitempty" db:"parent_id"`
	Name      string     `json:"name" db:"name"`
	StorageID string     `json:"storage_id" db:"storage_id"`
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
