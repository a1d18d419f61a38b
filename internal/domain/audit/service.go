package audit

import (
	"context"
	"log/slog"
)

type StoreAPI interface {
	Insert(ctx context.Context, event Event) error
	List(ctx context.Context, companyID string, filter Filter) ([]Event, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Record is best effort; a failed audit write never fails the operation that
// produced it.
func (s *Service) Record(ctx context.Context, event Event) {
	if err := s.Store.Insert(ctx, event); err != nil {
		slog.Warn("audit event insert failed", "action", event.Action, "entityId", event.EntityID, "err", err)
	}
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Event, error) {
	return s.Store.List(ctx, companyID, filter)
}
