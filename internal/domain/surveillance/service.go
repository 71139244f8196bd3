package surveillance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicamia/compliance-api/internal/platform/epiweek"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify registers a notifiable-event notification. The epidemiological week
// and year are derived from the notification date, never taken from input.
// Events present in the catalog fill in their name and type when omitted.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if n.PatientRef == "" {
		return fmt.Errorf("%w: patient reference is required", ErrValidation)
	}
	if n.EventCode == "" {
		return fmt.Errorf("%w: event code is required", ErrValidation)
	}
	if n.NotifiedAt.IsZero() {
		n.NotifiedAt = time.Now().UTC()
	}

	if ev, ok := NotifiableEventByCode(n.EventCode); ok {
		if n.EventName == "" {
			n.EventName = ev.Name
		}
		if n.NotificationType == "" {
			n.NotificationType = ev.Type
		}
	}
	if n.EventName == "" {
		return fmt.Errorf("%w: event %s is not in the catalog, event name is required", ErrValidation, n.EventCode)
	}
	if n.NotificationType == "" {
		n.NotificationType = NotifyWeekly
	}
	if n.NotificationType != NotifyWeekly && n.NotificationType != NotifyImmediate {
		return fmt.Errorf("%w: invalid notification type %q", ErrValidation, n.NotificationType)
	}

	w := epiweek.Of(n.NotifiedAt)
	n.EpiWeek = w.Number
	n.EpiYear = w.Year

	return s.repo.CreateNotification(ctx, n)
}

func (s *Service) GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.GetNotification(ctx, id)
}

func (s *Service) ListNotifications(ctx context.Context, week, year int, eventCode string, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListNotifications(ctx, week, year, eventCode, limit, offset)
}

func (s *Service) MarkNotificationSubmitted(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkNotificationSubmitted(ctx, id)
}

// WeeklyReport returns the week's notifications plus their per-event counts,
// ordered by event code.
func (s *Service) WeeklyReport(ctx context.Context, week, year int) ([]*Notification, []EventCount, error) {
	if week < 1 || week > 53 || year < 1900 {
		return nil, nil, fmt.Errorf("%w: invalid epidemiological week %d/%d", ErrValidation, week, year)
	}

	items, err := s.repo.WeekNotifications(ctx, week, year)
	if err != nil {
		return nil, nil, err
	}

	byCode := map[string]*EventCount{}
	for _, n := range items {
		if c, ok := byCode[n.EventCode]; ok {
			c.Count++
			continue
		}
		byCode[n.EventCode] = &EventCount{EventCode: n.EventCode, EventName: n.EventName, Count: 1}
	}

	counts := make([]EventCount, 0, len(byCode))
	for _, c := range byCode {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].EventCode < counts[j].EventCode })

	return items, counts, nil
}

func (s *Service) ReportPharmaco(ctx context.Context, p *PharmacoReport) error {
	if p.PatientRef == "" || p.ProductRef == "" || p.ReactionDescription == "" {
		return fmt.Errorf("%w: patient, product and reaction description are required", ErrValidation)
	}
	if !p.Severity.Valid() {
		return fmt.Errorf("%w: invalid severity %q", ErrValidation, p.Severity)
	}
	if p.EventDate.IsZero() {
		p.EventDate = time.Now().UTC()
	}
	return s.repo.CreatePharmacoReport(ctx, p)
}

func (s *Service) ListPharmaco(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*PharmacoReport, int, error) {
	return s.repo.ListPharmacoReports(ctx, f, limit, offset)
}

func (s *Service) MarkPharmacoSubmitted(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkPharmacoSubmitted(ctx, id)
}

func (s *Service) ReportTechno(ctx context.Context, t *TechnoReport) error {
	if t.DeviceName == "" || t.IncidentDescription == "" {
		return fmt.Errorf("%w: device name and incident description are required", ErrValidation)
	}
	if !t.Severity.Valid() {
		return fmt.Errorf("%w: invalid severity %q", ErrValidation, t.Severity)
	}
	if t.EventDate.IsZero() {
		t.EventDate = time.Now().UTC()
	}
	return s.repo.CreateTechnoReport(ctx, t)
}

func (s *Service) ListTechno(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*TechnoReport, int, error) {
	return s.repo.ListTechnoReports(ctx, f, limit, offset)
}

func (s *Service) MarkTechnoSubmitted(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkTechnoSubmitted(ctx, id)
}
