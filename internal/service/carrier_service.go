package service

import (
	"context"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
)

type CarrierServicer interface {
	List(ctx context.Context) ([]model.Carrier, error)
	ListMine(ctx context.Context, userID uint64) ([]model.Carrier, error)
	Create(ctx context.Context, name, taxID string, tenantIDs []uint64) (*model.Carrier, error)
	CreateForTenantUser(ctx context.Context, name, taxID string, userID uint64) (*model.Carrier, error)
	Update(ctx context.Context, id uint64, name, taxID string, tenantIDs []uint64) (*model.Carrier, error)
	Delete(ctx context.Context, id uint64) error
}

type CarrierService struct {
	carriers store.CarrierStore
	tenants  store.TenantStore
}

func NewCarrierService(carriers store.CarrierStore, tenants store.TenantStore) *CarrierService {
	return &CarrierService{carriers: carriers, tenants: tenants}
}

func (s *CarrierService) List(ctx context.Context) ([]model.Carrier, error) {
	return s.carriers.ListCarriers(ctx)
}

func (s *CarrierService) ListMine(ctx context.Context, userID uint64) ([]model.Carrier, error) {
	tenant, err := s.tenants.GetTenantByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.carriers.ListCarriersForTenant(ctx, tenant.ID)
}

// Create registers a carrier (or refreshes the name of an existing one with
// the same tax id) and associates it with the given tenants.
func (s *CarrierService) Create(ctx context.Context, name, taxID string, tenantIDs []uint64) (*model.Carrier, error) {
	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	if taxID == "" {
		return nil, errs.Validation("ruc", "is required")
	}
	return s.carriers.UpsertCarrierByTaxID(ctx, name, taxID, tenantIDs, false)
}

// CreateForTenantUser registers a carrier on behalf of the tenant logged in
// as userID, associating the two. Used by the booking form.
func (s *CarrierService) CreateForTenantUser(ctx context.Context, name, taxID string, userID uint64) (*model.Carrier, error) {
	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	if taxID == "" {
		return nil, errs.Validation("ruc", "is required")
	}
	tenant, err := s.tenants.GetTenantByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.carriers.UpsertCarrierByTaxID(ctx, name, taxID, []uint64{tenant.ID}, false)
}

func (s *CarrierService) Update(ctx context.Context, id uint64, name, taxID string, tenantIDs []uint64) (*model.Carrier, error) {
	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	if taxID == "" {
		return nil, errs.Validation("ruc", "is required")
	}
	return s.carriers.UpdateCarrier(ctx, id, name, taxID, tenantIDs)
}

func (s *CarrierService) Delete(ctx context.Context, id uint64) error {
	return s.carriers.DeleteCarrier(ctx, id)
}
