package models

import (
	"time"
)

// Project statuses. Status never participates in trash transitions; a
// trashed project keeps the status it had when it was active.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
	ProjectStatusDraft    = "draft"
)

// Project is the top-level container a teacher organizes instructional
// files under. StorageRootID references the matching container in the
// external drive provider and is immutable after creation.
type Project struct {
	ID            string     `json:"id" db:"id"`
	OwnerID       string     `json:"owner_id" db:"owner_id"`
	Title         string     `json:"title" db:"title"`
	Status        string     `json:"status" db:"status"`
	StorageRootID string     `json:"storage_root_id" db:"storage_root_id"`
	IsDeleted     bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
