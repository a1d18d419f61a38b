package notifications

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, n Notification) error
	ListForEmployee(ctx context.Context, companyID, employeeID string, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, companyID, employeeID string) (int, error)
	MarkRead(ctx context.Context, companyID, employeeID, notificationID string) error
	MarkAllRead(ctx context.Context, companyID, employeeID string) error
}

// Service is the in-app notification feed. It satisfies the Notifier
// contracts of the leave and memo engines.
type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Notify(ctx context.Context, companyID, employeeID, ntype, title, body string) error {
	return s.Store.Insert(ctx, Notification{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Type:       ntype,
		Title:      title,
		Body:       body,
	})
}

func (s *Service) List(ctx context.Context, companyID, employeeID string, unreadOnly bool, limit int) ([]Notification, error) {
	return s.Store.ListForEmployee(ctx, companyID, employeeID, unreadOnly, limit)
}

func (s *Service) UnreadCount(ctx context.Context, companyID, employeeID string) (int, error) {
	return s.Store.CountUnread(ctx, companyID, employeeID)
}

func (s *Service) MarkRead(ctx context.Context, companyID, employeeID, notificationID string) error {
	return s.Store.MarkRead(ctx, companyID, employeeID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, companyID, employeeID string) error {
	return s.Store.MarkAllRead(ctx, companyID, employeeID)
}
