package schoolRepo

import (
	"context"
	"errors"

	"chronoboard/models"
)

var (
	ErrNotFound      = errors.New("school not found")
	ErrAlreadyExists = errors.New("school already exists")
)

// MutateFunc edits a school in place inside an update. Returning an error
// aborts the update and leaves the stored document unchanged.
type MutateFunc func(school *models.School) error

// SchoolRepository defines methods for tenant document access.
type SchoolRepository interface {
	// GetByID retrieves a school by id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.School, error)
	// List returns every school ordered by id.
	List(ctx context.Context) ([]models.School, error)
	// Create inserts a new school, or fails with ErrAlreadyExists.
	Create(ctx context.Context, school *models.School) error
	// Update reads, mutates and writes a school atomically and returns the stored result.
	Update(ctx context.Context, id string, mutate MutateFunc) (*models.School, error)
	// Delete removes a school, or fails with ErrNotFound.
	Delete(ctx context.Context, id string) error
}
