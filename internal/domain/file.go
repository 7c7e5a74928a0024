package domain

import (
	"path"
	"time"
)

// ProjectFile is an attachment stored in the blob store under FilePath.
type ProjectFile struct {
	ID           string
	ProjectID    *string
	SubprojectID *string
	FilePath     string
	FileType     string
	Description  *string
	SizeBytes    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (f *ProjectFile) Validate() error {
	return validateParent(f.ProjectID, f.SubprojectID)
}

// Name is the base name of the stored object.
func (f *ProjectFile) Name() string {
	return path.Base(f.FilePath)
}
