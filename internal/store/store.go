package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/treeai-operations/alex-cli/internal/model"
)

// ErrNotFound is returned when a lookup matches no assessment.
var ErrNotFound = eris.New("store: assessment not found")

// Store defines the persistence interface for project assessments.
type Store interface {
	SaveAssessment(ctx context.Context, a *model.ProjectAssessment) error
	GetAssessment(ctx context.Context, id string) (*model.ProjectAssessment, error)
	ListAssessments(ctx context.Context, filter model.Filter) ([]model.ProjectAssessment, error)
	DeleteAssessment(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
