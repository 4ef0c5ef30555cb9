package repository

import (
	"context"

	"github.com/alexanderramin/cotton/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, e *domain.SessionEntry) error
	GetByID(ctx context.Context, id int64) (*domain.SessionEntry, error)
	List(ctx context.Context) ([]*domain.SessionEntry, error)
	ListByDate(ctx context.Context, date string) ([]*domain.SessionEntry, error)
	Update(ctx context.Context, e *domain.SessionEntry) error
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) (int64, error)
}

type HistoryRepo interface {
	Get(ctx context.Context, date string) (*domain.HistoryRecord, error)
	List(ctx context.Context) ([]*domain.HistoryRecord, error)
	Create(ctx context.Context, r *domain.HistoryRecord) error
	Update(ctx context.Context, r *domain.HistoryRecord) error
	Delete(ctx context.Context, date string) error
}

type DraftRepo interface {
	Put(ctx context.Context, d *domain.Draft) error
	Get(ctx context.Context, field domain.DraftField) (*domain.Draft, error)
	List(ctx context.Context) ([]*domain.Draft, error)
	Delete(ctx context.Context, fields ...domain.DraftField) error
}

var (
	_ SessionRepo = (*SQLiteSessionRepo)(nil)
	_ HistoryRepo = (*SQLiteHistoryRepo)(nil)
	_ DraftRepo   = (*SQLiteDraftRepo)(nil)
)
