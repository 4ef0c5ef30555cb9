package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
)

type draftService struct {
	drafts  repository.DraftRepo
	fields  []domain.DraftField
	enabled map[domain.DraftField]bool
}

// NewDraftService keeps in-progress values for the given fields only.
func NewDraftService(drafts repository.DraftRepo, fields []domain.DraftField) DraftService {
	enabled := make(map[domain.DraftField]bool, len(fields))
	for _, f := range fields {
		enabled[f] = true
	}
	return &draftService{drafts: drafts, fields: fields, enabled: enabled}
}

func (s *draftService) Fields() []domain.DraftField {
	return append([]domain.DraftField(nil), s.fields...)
}

func (s *draftService) Save(ctx context.Context, field domain.DraftField, value string) error {
	if !domain.ValidDraftFields[field] {
		return &domain.ValidationError{Field: "draft", Msg: "unknown field " + quote(string(field))}
	}
	if !s.enabled[field] {
		return &domain.ValidationError{Field: "draft", Msg: quote(string(field)) + " is not kept as a draft"}
	}
	d := &domain.Draft{Field: field, Value: value, UpdatedAt: time.Now().UTC()}
	return classify("saving draft", s.drafts.Put(ctx, d))
}

// Load returns the saved values of the enabled fields.
func (s *draftService) Load(ctx context.Context) (map[domain.DraftField]string, error) {
	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return nil, classify("loading drafts", err)
	}
	out := make(map[domain.DraftField]string, len(drafts))
	for _, d := range drafts {
		if s.enabled[d.Field] {
			out[d.Field] = d.Value
		}
	}
	return out, nil
}

// Clear removes the given fields, or every field when none are given.
func (s *draftService) Clear(ctx context.Context, fields ...domain.DraftField) error {
	if len(fields) == 0 {
		fields = []domain.DraftField{domain.DraftName, domain.DraftKg, domain.DraftRate}
	}
	return classify("clearing drafts", s.drafts.Delete(ctx, fields...))
}

func (s *draftService) ClearSubmitted(ctx context.Context) error {
	return s.Clear(ctx, domain.DraftName, domain.DraftKg)
}
