package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
	"github.com/adityaanikam/AI-agent-project/pkg/query"
	"github.com/adityaanikam/AI-agent-project/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// Option configures the record repository.
type Option func(*repo)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *repo) {
		r.now = now
	}
}

// New creates a record repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "records"),
		pagination: pagination,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	now := r.timestamp()

	format := cmd.InputFormat
	if format == "" {
		format = FormatUnknown
	}

	rec := Record{
		ID:            uuid.New(),
		InputFormat:   format,
		InputMetadata: cmd.InputMetadata,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	cols, err := columns(&rec)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(cols)+3)
	args = append(args, rec.ID)
	args = append(args, cols...)
	args = append(args, rec.CreatedAt, rec.UpdatedAt)

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, insertSQL, args...)
		return struct{}{}, err
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("record created", "id", rec.ID, "format", rec.InputFormat)
	return &rec, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, fn func(*Record) error) (*Record, error) {
	q, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		current, err := repository.QueryOne(ctx, tx, q, findArgs, scanRecord)
		if err != nil {
			return Record{}, err
		}

		next := current
		if err := fn(&next); err != nil {
			return Record{}, err
		}

		next.ID = current.ID
		next.CreatedAt = current.CreatedAt

		if next.Status != current.Status && !current.Status.CanTransition(next.Status) {
			return Record{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next.Status)
		}
		if next.Status != StatusError {
			next.Error = nil
		}

		next.UpdatedAt = r.timestamp()
		if next.UpdatedAt.Before(current.UpdatedAt) {
			next.UpdatedAt = current.UpdatedAt
		}

		cols, err := columns(&next)
		if err != nil {
			return Record{}, err
		}

		args := make([]any, 0, len(cols)+2)
		args = append(args, cols...)
		args = append(args, next.UpdatedAt, next.ID)

		if err := repository.ExecExpectOne(ctx, tx, updateSQL, args...); err != nil {
			return Record{}, err
		}
		return next, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("record updated", "id", rec.ID, "status", rec.Status)
	return &rec, nil
}

func (r *repo) History(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(summaryProjection, defaultSort)
	filters.Apply(qb)

	if sort := sortFields(page.Sort); len(sort) > 0 {
		qb.OrderByFields(sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
