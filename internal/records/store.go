// Package records reads members and submissions from their backing store.
package records

import (
	"context"

	"classaction-admin/internal/models"
)

// Store is a read-only record source. Each call returns a snapshot the caller
// may keep; implementations must be safe for concurrent reads.
type Store interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
}
