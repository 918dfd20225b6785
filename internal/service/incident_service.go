package service

import (
	"context"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
)

type IncidentServicer interface {
	Create(ctx context.Context, in CreateIncidentInput, reportedBy uint64) (*model.Incident, error)
	List(ctx context.Context) ([]model.Incident, error)
}

// CreateIncidentInput carries the 5W2H fields plus descriptors of files the
// handler already saved to disk.
type CreateIncidentInput struct {
	AppointmentID uint64
	What          string
	Why           string
	Where         string
	Who           string
	How           string
	HowMuch       string
	Files         []model.IncidentFile
}

type IncidentService struct {
	incidents    store.IncidentStore
	appointments store.AppointmentStore
	now          func() time.Time
}

func NewIncidentService(incidents store.IncidentStore, appointments store.AppointmentStore) *IncidentService {
	return &IncidentService{incidents: incidents, appointments: appointments, now: time.Now}
}

func (s *IncidentService) Create(ctx context.Context, in CreateIncidentInput, reportedBy uint64) (*model.Incident, error) {
	if in.AppointmentID == 0 {
		return nil, errs.Validation("appointment_id", "is required")
	}
	if in.What == "" || in.Why == "" || in.Where == "" || in.Who == "" || in.How == "" {
		return nil, errs.Validation("what/why/where/who/how", "are required")
	}
	if _, err := s.appointments.GetAppointmentByID(ctx, in.AppointmentID); err != nil {
		return nil, err
	}
	inc := &model.Incident{
		AppointmentID: in.AppointmentID,
		UserID:        reportedBy,
		What:          in.What,
		Why:           in.Why,
		Where:         in.Where,
		Who:           in.Who,
		How:           in.How,
		HowMuch:       in.HowMuch,
		OccurredAt:    s.now(),
		Files:         in.Files,
	}
	if err := s.incidents.CreateIncident(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *IncidentService) List(ctx context.Context) ([]model.Incident, error) {
	return s.incidents.ListIncidents(ctx)
}
