// Package store declares the record-store contracts the services depend on.
// The postgres subpackage implements them on gorm; tests substitute in-memory
// fakes.
package store

import (
	"context"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/model"
)

// AppointmentStore persists dock appointments.
type AppointmentStore interface {
	// CountByTimeRange counts appointments scheduled in [start, end).
	CountByTimeRange(ctx context.Context, start, end time.Time) (int64, error)

	// CreateInWindow atomically re-counts [windowStart, windowEnd) and
	// inserts appt, returning errs.ErrSlotFull when the window already holds
	// capacity appointments. Concurrent calls for the same window must not
	// race past the cap.
	CreateInWindow(ctx context.Context, appt *model.Appointment, windowStart, windowEnd time.Time, capacity int) error

	// GetAppointmentByID returns the appointment with carrier and tenant
	// joined, or errs.ErrAppointmentNotFound.
	GetAppointmentByID(ctx context.Context, id uint64) (*model.Appointment, error)

	// ListAppointments returns appointments joined with carrier and tenant,
	// ascending by scheduled time. A nil bound leaves that side open.
	ListAppointments(ctx context.Context, from, to *time.Time) ([]model.Appointment, error)

	// ListTenantAppointments returns a tenant's appointments in [from, to]
	// with the carrier joined, newest first.
	ListTenantAppointments(ctx context.Context, tenantID uint64, from, to time.Time) ([]model.Appointment, error)

	// UpdateAppointment applies changes and returns the record re-read with
	// carrier and tenant joined.
	UpdateAppointment(ctx context.Context, id uint64, changes map[string]interface{}) (*model.Appointment, error)
}

// CarrierStore persists carriers and their tenant associations.
type CarrierStore interface {
	GetCarrierByID(ctx context.Context, id uint64) (*model.Carrier, error)
	ListCarriers(ctx context.Context) ([]model.Carrier, error)
	ListCarriersForTenant(ctx context.Context, tenantID uint64) ([]model.Carrier, error)

	// UpsertCarrierByTaxID creates the carrier or updates its name, then
	// associates it with tenantIDs. With replace set, existing associations
	// are dropped first; otherwise new ones are added alongside.
	UpsertCarrierByTaxID(ctx context.Context, name, taxID string, tenantIDs []uint64, replace bool) (*model.Carrier, error)

	// UpdateCarrier renames the carrier and replaces its associations.
	// Returns errs.ErrDuplicateTaxID when taxID belongs to another carrier.
	UpdateCarrier(ctx context.Context, id uint64, name, taxID string, tenantIDs []uint64) (*model.Carrier, error)

	DeleteCarrier(ctx context.Context, id uint64) error
}

// TenantStore persists tenants and their login users.
type TenantStore interface {
	GetTenantByID(ctx context.Context, id uint64) (*model.Tenant, error)
	GetTenantByUserID(ctx context.Context, userID uint64) (*model.Tenant, error)
	ListTenants(ctx context.Context) ([]model.Tenant, error)

	// CreateTenantWithUser inserts the tenant and its login user in one
	// transaction. Returns errs.ErrDuplicateTaxID on tax id or username
	// conflicts.
	CreateTenantWithUser(ctx context.Context, tenant *model.Tenant, user *model.User) error

	UpdateTenant(ctx context.Context, id uint64, name, company, taxID string) (*model.Tenant, error)

	// DeleteTenantCascade removes the tenant together with its carrier
	// associations, appointments (and their incidents), and login user.
	DeleteTenantCascade(ctx context.Context, id uint64) error
}

// IncidentStore persists incident reports and attachment descriptors.
type IncidentStore interface {
	CreateIncident(ctx context.Context, inc *model.Incident) error
	ListIncidents(ctx context.Context) ([]model.Incident, error)
}

// UserStore persists login users.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}
