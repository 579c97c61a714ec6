package model

import (
	"time"

	"github.com/google/uuid"
)

// File describes an uploaded object attached to an assignment. Contents
// live in object storage; only metadata is stored with the assignment.
type File struct {
	Name        string `json:"name"`
	MediaType   string `json:"media_type"`
	StoragePath string `json:"storage_path"`
	Size        int64  `json:"size"`
}

// Assignment belongs to one classroom and is immutable once created.
type Assignment struct {
	ID           uuid.UUID  `json:"id"`
	ClassroomID  uuid.UUID  `json:"classroom_id"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Points       *int       `json:"points,omitempty"`
	Files        []File     `json:"files"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateAssignmentForm is the multipart form for assignment creation.
// Files are read separately from the "files" field.
type CreateAssignmentForm struct {
	ClassroomID  string `form:"classroom_id" binding:"required,uuid"`
	Title        string `form:"title" binding:"notblank,max=200"`
	Instructions string `form:"instructions" binding:"max=10000"`
	DueDate      string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	DueTime      string `form:"due_time" binding:"omitempty,datetime=15:04"`
	Points       *int   `form:"points" binding:"omitempty,min=0,max=10000"`
}
