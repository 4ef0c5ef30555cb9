package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
)

type sessionService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSessionService(sessions repository.SessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SessionService {
	return &sessionService{
		sessions: sessions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sessionService) AddEntry(ctx context.Context, in AddEntryInput) (view *SessionView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": in.Date}
	defer observe(ctx, s.observer, "add-entry", startedAt, fields, &err)

	kg, err := calc.EvalKg(in.KgExpr)
	if err != nil {
		return nil, &domain.ValidationError{Field: "kg", Msg: "cannot evaluate " + quote(in.KgExpr), Err: err}
	}
	entry, err := domain.NewSessionEntry(in.Name, kg, in.Rate, in.Date, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		if err := txSessions.Create(ctx, entry); err != nil {
			return err
		}
		view, err = sessionView(ctx, txSessions, "")
		return err
	})
	if err != nil {
		return nil, classify("adding entry", err)
	}
	fields["entry_id"] = entry.ID
	fields["kg"] = entry.Kg
	return view, nil
}

func (s *sessionService) UpdateEntry(ctx context.Context, id int64, u domain.EntryUpdate) (view *SessionView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_id": id}
	defer observe(ctx, s.observer, "update-entry", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		entry, err := txSessions.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "session entry", itoa(id))
		}
		if err := entry.Apply(u, time.Now().UTC()); err != nil {
			return err
		}
		if err := txSessions.Update(ctx, entry); err != nil {
			return notFound(err, "session entry", itoa(id))
		}
		view, err = sessionView(ctx, txSessions, "")
		return err
	})
	if err != nil {
		return nil, classify("updating entry", err)
	}
	return view, nil
}

func (s *sessionService) DeleteEntry(ctx context.Context, id int64) (view *SessionView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entry_id": id}
	defer observe(ctx, s.observer, "delete-entry", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		if err := txSessions.Delete(ctx, id); err != nil {
			return notFound(err, "session entry", itoa(id))
		}
		view, err = sessionView(ctx, txSessions, "")
		return err
	})
	if err != nil {
		return nil, classify("deleting entry", err)
	}
	return view, nil
}

func (s *sessionService) ClearSession(ctx context.Context) (n int64, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "clear-session", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err = repository.NewSQLiteSessionRepo(tx).Clear(ctx)
		return err
	})
	if err != nil {
		return 0, classify("clearing session", err)
	}
	fields["cleared"] = n
	return n, nil
}

func (s *sessionService) List(ctx context.Context, date string) (*SessionView, error) {
	if date != "" {
		d, err := domain.NormalizeWorkDate(date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	view, err := sessionView(ctx, s.sessions, date)
	if err != nil {
		return nil, classify("listing session", err)
	}
	return view, nil
}

// sessionView re-reads the session and recomputes its stats.
func sessionView(ctx context.Context, sessions repository.SessionRepo, date string) (*SessionView, error) {
	var entries []*domain.SessionEntry
	var err error
	if date == "" {
		entries, err = sessions.List(ctx)
	} else {
		entries, err = sessions.ListByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.SessionEntry{}
	}
	return &SessionView{Entries: entries, Stats: domain.SessionTotals(entries)}, nil
}
