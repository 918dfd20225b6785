package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
)

// DefaultSlotCapacity bounds appointments per clock-hour window.
const DefaultSlotCapacity = 8

var plateRe = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// AppointmentServicer — interface for the HTTP handlers (Dependency Inversion).
type AppointmentServicer interface {
	Create(ctx context.Context, in CreateAppointmentInput, createdBy uint64) (*model.Appointment, error)
	List(ctx context.Context, from, to *time.Time) ([]model.Appointment, error)
	ListMine(ctx context.Context, userID uint64) ([]model.Appointment, error)
	CountInHour(ctx context.Context, t time.Time) (int64, error)
	Advance(ctx context.Context, id uint64, target model.AppointmentStatus) (*model.Appointment, error)
	Confirm(ctx context.Context, id uint64, in ConfirmAppointmentInput, role model.Role) (*model.Appointment, error)
}

type CreateAppointmentInput struct {
	ScheduledAt          time.Time
	TenantID             uint64
	CarrierID            *uint64
	Description          string
	AcceptedTerms        bool
	RequiresConfirmation bool
	Plate                string
	DriverName           string
	DriverNationalID     string
	Companions           []string
}

type ConfirmAppointmentInput struct {
	CarrierID        *uint64
	Description      string
	Plate            string
	DriverName       string
	DriverNationalID string
	Companions       []string
}

type AppointmentService struct {
	appointments store.AppointmentStore
	carriers     store.CarrierStore
	tenants      store.TenantStore
	capacity     int
	now          func() time.Time
}

func NewAppointmentService(appointments store.AppointmentStore, carriers store.CarrierStore, tenants store.TenantStore, capacity int) *AppointmentService {
	if capacity <= 0 {
		capacity = DefaultSlotCapacity
	}
	return &AppointmentService{
		appointments: appointments,
		carriers:     carriers,
		tenants:      tenants,
		capacity:     capacity,
		now:          time.Now,
	}
}

// CountInHour returns the number of appointments already scheduled in the
// clock-hour window enclosing t.
func (s *AppointmentService) CountInHour(ctx context.Context, t time.Time) (int64, error) {
	start, end := HourWindow(t)
	return s.appointments.CountByTimeRange(ctx, start, end)
}

// Create validates the booking, enforces the hour-window capacity and
// persists the appointment with status PENDIENTE. Vehicle and driver fields
// are kept only for direct bookings; confirmation-pending ones store them
// blank until an operator confirms.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput, createdBy uint64) (*model.Appointment, error) {
	if in.ScheduledAt.IsZero() {
		return nil, errs.Validation("scheduled_at", "is required")
	}
	if in.TenantID == 0 {
		return nil, errs.Validation("tenant_id", "is required")
	}
	if !in.AcceptedTerms {
		return nil, errs.Validation("accepted_terms", "must be accepted")
	}
	if !in.RequiresConfirmation {
		if !plateRe.MatchString(in.Plate) {
			return nil, errs.Validation("plate", "must be exactly 6 alphanumeric characters")
		}
		if in.DriverName == "" {
			return nil, errs.Validation("driver_name", "is required")
		}
		if in.DriverNationalID == "" {
			return nil, errs.Validation("driver_national_id", "is required")
		}
	}

	if _, err := s.tenants.GetTenantByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	if in.CarrierID != nil {
		if _, err := s.carriers.GetCarrierByID(ctx, *in.CarrierID); err != nil {
			return nil, err
		}
	}

	appt := &model.Appointment{
		ScheduledAt:          in.ScheduledAt,
		TenantID:             in.TenantID,
		CarrierID:            in.CarrierID,
		Description:          in.Description,
		AcceptedTerms:        in.AcceptedTerms,
		RequiresConfirmation: in.RequiresConfirmation,
		Status:               model.StatusPending,
		CreatedByUserID:      createdBy,
	}
	if !in.RequiresConfirmation {
		appt.Plate = in.Plate
		appt.DriverName = in.DriverName
		appt.DriverNationalID = in.DriverNationalID
		appt.Companions = model.StringList(in.Companions)
	}

	start, end := HourWindow(in.ScheduledAt)
	if err := s.appointments.CreateInWindow(ctx, appt, start, end, s.capacity); err != nil {
		return nil, err
	}
	return s.appointments.GetAppointmentByID(ctx, appt.ID)
}

func (s *AppointmentService) List(ctx context.Context, from, to *time.Time) ([]model.Appointment, error) {
	return s.appointments.ListAppointments(ctx, from, to)
}

// ListMine returns the appointments of the caller's tenant over a fixed
// operational window: a week back, a month ahead.
func (s *AppointmentService) ListMine(ctx context.Context, userID uint64) ([]model.Appointment, error) {
	tenant, err := s.tenants.GetTenantByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.appointments.ListTenantAppointments(ctx, tenant.ID, now.AddDate(0, 0, -7), now.AddDate(0, 0, 30))
}

// Advance sets the appointment's status and stamps the matching lifecycle
// timestamp. Any of the five statuses may be targeted in any order so
// operators can undo a mis-click, but each timestamp is written only once:
// revisiting a status never overwrites the first-reached time.
func (s *AppointmentService) Advance(ctx context.Context, id uint64, target model.AppointmentStatus) (*model.Appointment, error) {
	if !target.Valid() {
		return nil, errs.Validation("status", "is not a valid appointment status")
	}
	appt, err := s.appointments.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]interface{}{"status": target}
	now := s.now()
	switch target {
	case model.StatusArrived:
		if appt.ArrivedAt == nil {
			changes["arrived_at"] = now
		}
	case model.StatusUnloading:
		if appt.UnloadingStartedAt == nil {
			changes["unloading_started_at"] = now
		}
	case model.StatusFinished:
		if appt.FinishedAt == nil {
			changes["finished_at"] = now
		}
	case model.StatusDeparted:
		if appt.DepartedAt == nil {
			changes["departed_at"] = now
		}
	}
	updated, err := s.appointments.UpdateAppointment(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("advance appointment %d: %w", id, err)
	}
	return updated, nil
}

// Confirm completes a confirmation-pending appointment with the deferred
// vehicle, driver and carrier details. Only operators and administrators may
// confirm. Re-confirming simply overwrites the same fields; status and
// lifecycle timestamps are left untouched.
func (s *AppointmentService) Confirm(ctx context.Context, id uint64, in ConfirmAppointmentInput, role model.Role) (*model.Appointment, error) {
	if !role.CanConfirmAppointments() {
		return nil, errs.ErrForbidden
	}
	if !plateRe.MatchString(in.Plate) {
		return nil, errs.Validation("plate", "must be exactly 6 alphanumeric characters")
	}
	if in.CarrierID != nil {
		if _, err := s.carriers.GetCarrierByID(ctx, *in.CarrierID); err != nil {
			return nil, err
		}
	}
	changes := map[string]interface{}{
		"requires_confirmation": false,
		"description":           in.Description,
		"plate":                 in.Plate,
		"driver_name":           in.DriverName,
		"driver_national_id":    in.DriverNationalID,
		"companions":            model.StringList(in.Companions),
	}
	if in.CarrierID != nil {
		changes["carrier_id"] = *in.CarrierID
	}
	return s.appointments.UpdateAppointment(ctx, id, changes)
}
