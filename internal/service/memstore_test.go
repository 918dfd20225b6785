package service

import (
	"context"
	"sync"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
)

// memStore is an in-memory stand-in for the postgres store. A single mutex
// serializes CreateInWindow the way the advisory lock does in production.
type memStore struct {
	mu           sync.Mutex
	nextID       uint64
	appointments map[uint64]*model.Appointment
	carriers     map[uint64]*model.Carrier
	tenants      map[uint64]*model.Tenant
	incidents    map[uint64]*model.Incident
}

func newMemStore() *memStore {
	return &memStore{
		appointments: make(map[uint64]*model.Appointment),
		carriers:     make(map[uint64]*model.Carrier),
		tenants:      make(map[uint64]*model.Tenant),
		incidents:    make(map[uint64]*model.Incident),
	}
}

func (m *memStore) addTenant(t model.Tenant) *model.Tenant {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	m.tenants[t.ID] = &t
	return &t
}

func (m *memStore) addCarrier(c model.Carrier) *model.Carrier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.carriers[c.ID] = &c
	return &c
}

func (m *memStore) countLocked(start, end time.Time) int64 {
	var n int64
	for _, a := range m.appointments {
		if !a.ScheduledAt.Before(start) && a.ScheduledAt.Before(end) {
			n++
		}
	}
	return n
}

func (m *memStore) CountByTimeRange(_ context.Context, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(start, end), nil
}

func (m *memStore) CreateInWindow(_ context.Context, appt *model.Appointment, windowStart, windowEnd time.Time, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countLocked(windowStart, windowEnd) >= int64(capacity) {
		return errs.ErrSlotFull
	}
	m.nextID++
	appt.ID = m.nextID
	cp := *appt
	m.appointments[appt.ID] = &cp
	return nil
}

func (m *memStore) GetAppointmentByID(_ context.Context, id uint64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, errs.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) ListAppointments(_ context.Context, from, to *time.Time) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Appointment
	for _, a := range m.appointments {
		if from != nil && a.ScheduledAt.Before(*from) {
			continue
		}
		if to != nil && a.ScheduledAt.After(*to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) ListTenantAppointments(_ context.Context, tenantID uint64, from, to time.Time) ([]model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Appointment
	for _, a := range m.appointments {
		if a.TenantID != tenantID || a.ScheduledAt.Before(from) || a.ScheduledAt.After(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *memStore) UpdateAppointment(_ context.Context, id uint64, changes map[string]interface{}) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, errs.ErrAppointmentNotFound
	}
	for k, v := range changes {
		switch k {
		case "status":
			a.Status = v.(model.AppointmentStatus)
		case "arrived_at":
			t := v.(time.Time)
			a.ArrivedAt = &t
		case "unloading_started_at":
			t := v.(time.Time)
			a.UnloadingStartedAt = &t
		case "finished_at":
			t := v.(time.Time)
			a.FinishedAt = &t
		case "departed_at":
			t := v.(time.Time)
			a.DepartedAt = &t
		case "requires_confirmation":
			a.RequiresConfirmation = v.(bool)
		case "description":
			a.Description = v.(string)
		case "plate":
			a.Plate = v.(string)
		case "driver_name":
			a.DriverName = v.(string)
		case "driver_national_id":
			a.DriverNationalID = v.(string)
		case "companions":
			a.Companions = v.(model.StringList)
		case "carrier_id":
			cid := v.(uint64)
			a.CarrierID = &cid
		}
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetCarrierByID(_ context.Context, id uint64) (*model.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return nil, errs.ErrCarrierNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCarriers(context.Context) ([]model.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Carrier
	for _, c := range m.carriers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) ListCarriersForTenant(context.Context, uint64) ([]model.Carrier, error) {
	return nil, nil
}

func (m *memStore) UpsertCarrierByTaxID(_ context.Context, name, taxID string, _ []uint64, _ bool) (*model.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carriers {
		if c.TaxID == taxID {
			c.Name = name
			cp := *c
			return &cp, nil
		}
	}
	m.nextID++
	c := &model.Carrier{ID: m.nextID, Name: name, TaxID: taxID}
	m.carriers[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memStore) UpdateCarrier(_ context.Context, id uint64, name, taxID string, _ []uint64) (*model.Carrier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carriers[id]
	if !ok {
		return nil, errs.ErrCarrierNotFound
	}
	for _, other := range m.carriers {
		if other.ID != id && other.TaxID == taxID {
			return nil, errs.ErrDuplicateTaxID
		}
	}
	c.Name, c.TaxID = name, taxID
	cp := *c
	return &cp, nil
}

func (m *memStore) DeleteCarrier(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carriers[id]; !ok {
		return errs.ErrCarrierNotFound
	}
	delete(m.carriers, id)
	return nil
}

func (m *memStore) GetTenantByID(_ context.Context, id uint64) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, errs.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GetTenantByUserID(_ context.Context, userID uint64) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.UserID != nil && *t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errs.ErrTenantNotFound
}

func (m *memStore) ListTenants(context.Context) ([]model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Tenant
	for _, t := range m.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memStore) CreateTenantWithUser(_ context.Context, tenant *model.Tenant, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.TaxID == tenant.TaxID {
			return errs.ErrDuplicateTaxID
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.nextID++
	tenant.ID = m.nextID
	tenant.UserID = &user.ID
	tenant.User = user
	cp := *tenant
	m.tenants[tenant.ID] = &cp
	return nil
}

func (m *memStore) UpdateTenant(_ context.Context, id uint64, name, company, taxID string) (*model.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, errs.ErrTenantNotFound
	}
	t.Name, t.Company, t.TaxID = name, company, taxID
	cp := *t
	return &cp, nil
}

func (m *memStore) DeleteTenantCascade(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[id]; !ok {
		return errs.ErrTenantNotFound
	}
	delete(m.tenants, id)
	return nil
}

func (m *memStore) CreateIncident(_ context.Context, inc *model.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	inc.ID = m.nextID
	cp := *inc
	m.incidents[inc.ID] = &cp
	return nil
}

func (m *memStore) ListIncidents(context.Context) ([]model.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Incident
	for _, inc := range m.incidents {
		out = append(out, *inc)
	}
	return out, nil
}
