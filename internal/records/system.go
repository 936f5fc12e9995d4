package records

import (
	"context"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
)

// System defines the public contract for processing record operations.
type System interface {
	Handler() *Handler

	// Create stores a new pending record.
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)

	// Update loads the record, applies fn, and persists the result in one
	// transaction. A status change that is not a legal transition fails with
	// ErrInvalidTransition and leaves the stored record untouched.
	Update(ctx context.Context, id uuid.UUID, fn func(*Record) error) (*Record, error)

	History(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Summary], error)
}
