// Package postgres implements the store contracts on gorm.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var (
	_ store.AppointmentStore = (*Store)(nil)
	_ store.CarrierStore     = (*Store)(nil)
	_ store.TenantStore      = (*Store)(nil)
	_ store.IncidentStore    = (*Store)(nil)
	_ store.UserStore        = (*Store)(nil)
)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- appointments ---

func (s *Store) CountByTimeRange(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Count(&n).Error
	return n, err
}

// CreateInWindow serializes concurrent admissions into the same hour window
// with a transaction-scoped advisory lock keyed on the window start, so the
// count and the insert cannot interleave across requests. Different windows
// use different keys and do not contend.
func (s *Store) CreateInWindow(ctx context.Context, appt *model.Appointment, windowStart, windowEnd time.Time, capacity int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", windowStart.UTC().Unix()).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Appointment{}).
			Where("scheduled_at >= ? AND scheduled_at < ?", windowStart, windowEnd).
			Count(&n).Error; err != nil {
			return err
		}
		if n >= int64(capacity) {
			return errs.ErrSlotFull
		}
		return tx.Create(appt).Error
	})
}

func (s *Store) GetAppointmentByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	var a model.Appointment
	err := s.db.WithContext(ctx).
		Preload("Carrier").Preload("Tenant").
		First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAppointments(ctx context.Context, from, to *time.Time) ([]model.Appointment, error) {
	tx := s.db.WithContext(ctx).
		Preload("Carrier").Preload("Tenant")
	if from != nil {
		tx = tx.Where("scheduled_at >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("scheduled_at <= ?", *to)
	}
	var items []model.Appointment
	if err := tx.Order("scheduled_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTenantAppointments(ctx context.Context, tenantID uint64, from, to time.Time) ([]model.Appointment, error) {
	var items []model.Appointment
	err := s.db.WithContext(ctx).
		Preload("Carrier").
		Where("tenant_id = ? AND scheduled_at >= ? AND scheduled_at <= ?", tenantID, from, to).
		Order("scheduled_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, id uint64, changes map[string]interface{}) (*model.Appointment, error) {
	var a model.Appointment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAppointmentNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&a).Updates(changes).Error; err != nil {
		return nil, err
	}
	// Re-fetch for the joined entity (Updates does not refresh associations).
	return s.GetAppointmentByID(ctx, id)
}

// --- carriers ---

func (s *Store) GetCarrierByID(ctx context.Context, id uint64) (*model.Carrier, error) {
	var c model.Carrier
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCarrierNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCarriers(ctx context.Context) ([]model.Carrier, error) {
	var items []model.Carrier
	err := s.db.WithContext(ctx).
		Preload("Tenants").Preload("Tenants.Tenant").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListCarriersForTenant(ctx context.Context, tenantID uint64) ([]model.Carrier, error) {
	var items []model.Carrier
	err := s.db.WithContext(ctx).
		Joins("JOIN carrier_tenants ON carrier_tenants.carrier_id = carriers.id").
		Where("carrier_tenants.tenant_id = ?", tenantID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertCarrierByTaxID(ctx context.Context, name, taxID string, tenantIDs []uint64, replace bool) (*model.Carrier, error) {
	var out model.Carrier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Carrier
		err := tx.Where("tax_id = ?", taxID).First(&c).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c = model.Carrier{Name: name, TaxID: taxID}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&c).Update("name", name).Error; err != nil {
				return err
			}
		}
		if replace {
			if err := tx.Where("carrier_id = ?", c.ID).Delete(&model.CarrierTenant{}).Error; err != nil {
				return err
			}
		}
		if len(tenantIDs) > 0 {
			assocs := make([]model.CarrierTenant, 0, len(tenantIDs))
			for _, tid := range tenantIDs {
				assocs = append(assocs, model.CarrierTenant{CarrierID: c.ID, TenantID: tid})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assocs).Error; err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) UpdateCarrier(ctx context.Context, id uint64, name, taxID string, tenantIDs []uint64) (*model.Carrier, error) {
	var out model.Carrier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Carrier
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrCarrierNotFound
			}
			return err
		}
		var dup int64
		if err := tx.Model(&model.Carrier{}).
			Where("tax_id = ? AND id <> ?", taxID, id).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return errs.ErrDuplicateTaxID
		}
		if err := tx.Model(&c).Updates(map[string]interface{}{"name": name, "tax_id": taxID}).Error; err != nil {
			return err
		}
		if err := tx.Where("carrier_id = ?", id).Delete(&model.CarrierTenant{}).Error; err != nil {
			return err
		}
		if len(tenantIDs) > 0 {
			assocs := make([]model.CarrierTenant, 0, len(tenantIDs))
			for _, tid := range tenantIDs {
				assocs = append(assocs, model.CarrierTenant{CarrierID: id, TenantID: tid})
			}
			if err := tx.Create(&assocs).Error; err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) DeleteCarrier(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Carrier{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrCarrierNotFound
		}
		return tx.Where("carrier_id = ?", id).Delete(&model.CarrierTenant{}).Error
	})
}

// --- tenants ---

func (s *Store) GetTenantByID(ctx context.Context, id uint64) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTenantByUserID(ctx context.Context, userID uint64) (*model.Tenant, error) {
	var t model.Tenant
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	var items []model.Tenant
	if err := s.db.WithContext(ctx).Preload("User").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateTenantWithUser(ctx context.Context, tenant *model.Tenant, user *model.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dup int64
		if err := tx.Model(&model.Tenant{}).Where("tax_id = ?", tenant.TaxID).Count(&dup).Error; err != nil {
			return err
		}
		if dup == 0 {
			if err := tx.Model(&model.User{}).Where("username = ?", user.Username).Count(&dup).Error; err != nil {
				return err
			}
		}
		if dup > 0 {
			return errs.ErrDuplicateTaxID
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		tenant.UserID = &user.ID
		return tx.Create(tenant).Error
	})
	if err != nil {
		return err
	}
	tenant.User = user
	return nil
}

func (s *Store) UpdateTenant(ctx context.Context, id uint64, name, company, taxID string) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, err
	}
	var dup int64
	if err := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("tax_id = ? AND id <> ?", taxID, id).
		Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, errs.ErrDuplicateTaxID
	}
	changes := map[string]interface{}{"name": name, "company": company, "tax_id": taxID}
	if err := s.db.WithContext(ctx).Model(&t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) DeleteTenantCascade(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Tenant
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTenantNotFound
			}
			return err
		}
		var apptIDs []uint64
		if err := tx.Model(&model.Appointment{}).
			Where("tenant_id = ?", id).
			Pluck("id", &apptIDs).Error; err != nil {
			return err
		}
		if len(apptIDs) > 0 {
			var incIDs []uint64
			if err := tx.Model(&model.Incident{}).
				Where("appointment_id IN ?", apptIDs).
				Pluck("id", &incIDs).Error; err != nil {
				return err
			}
			if len(incIDs) > 0 {
				if err := tx.Where("incident_id IN ?", incIDs).Delete(&model.IncidentFile{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", incIDs).Delete(&model.Incident{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", apptIDs).Delete(&model.Appointment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&model.CarrierTenant{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Tenant{}, id).Error; err != nil {
			return err
		}
		if t.UserID != nil {
			return tx.Delete(&model.User{}, *t.UserID).Error
		}
		return nil
	})
}

// --- incidents ---

func (s *Store) CreateIncident(ctx context.Context, inc *model.Incident) error {
	// gorm inserts the Files slice alongside the incident.
	return s.db.WithContext(ctx).Create(inc).Error
}

func (s *Store) ListIncidents(ctx context.Context) ([]model.Incident, error) {
	var items []model.Incident
	err := s.db.WithContext(ctx).
		Preload("Appointment").
		Preload("Appointment.Carrier").
		Preload("Appointment.Tenant").
		Preload("User").
		Preload("Files").
		Order("occurred_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
