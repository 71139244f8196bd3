package surveillance

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary of the surveillance domain.
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListNotifications(ctx context.Context, week, year int, eventCode string, limit, offset int) ([]*Notification, int, error)
	// WeekNotifications returns every notification of the epidemiological
	// week, unpaginated, for the weekly report line items.
	WeekNotifications(ctx context.Context, week, year int) ([]*Notification, error)
	MarkNotificationSubmitted(ctx context.Context, id uuid.UUID) error

	CreatePharmacoReport(ctx context.Context, p *PharmacoReport) error
	ListPharmacoReports(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*PharmacoReport, int, error)
	MarkPharmacoSubmitted(ctx context.Context, id uuid.UUID) error

	CreateTechnoReport(ctx context.Context, t *TechnoReport) error
	ListTechnoReports(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*TechnoReport, int, error)
	MarkTechnoSubmitted(ctx context.Context, id uuid.UUID) error
}
