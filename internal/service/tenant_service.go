package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type TenantServicer interface {
	List(ctx context.Context) ([]model.Tenant, error)
	GetMine(ctx context.Context, userID uint64) (*model.Tenant, error)
	Create(ctx context.Context, name, company, taxID string) (*model.Tenant, error)
	Update(ctx context.Context, id uint64, name, company, taxID string) (*model.Tenant, error)
	Delete(ctx context.Context, id uint64) error
}

type TenantService struct {
	tenants store.TenantStore
}

func NewTenantService(tenants store.TenantStore) *TenantService {
	return &TenantService{tenants: tenants}
}

func (s *TenantService) List(ctx context.Context) ([]model.Tenant, error) {
	return s.tenants.ListTenants(ctx)
}

func (s *TenantService) GetMine(ctx context.Context, userID uint64) (*model.Tenant, error) {
	return s.tenants.GetTenantByUserID(ctx, userID)
}

// Create registers a tenant together with its login user. The username is
// derived from the tax id; the generated password is printed to the log so
// an operator can hand it over until a mail flow exists.
func (s *TenantService) Create(ctx context.Context, name, company, taxID string) (*model.Tenant, error) {
	if name == "" || company == "" || taxID == "" {
		return nil, errs.Validation("name/company/ruc", "are required")
	}
	password, err := tempPassword()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Name:     name,
		Username: "ruc" + taxID,
		Password: string(hashed),
		Role:     model.RoleTenant,
		Active:   true,
	}
	tenant := &model.Tenant{Name: name, Company: company, TaxID: taxID}
	if err := s.tenants.CreateTenantWithUser(ctx, tenant, user); err != nil {
		return nil, err
	}
	log.Printf("tenant: created login for %s: user=%s pass=%s", name, user.Username, password)
	return tenant, nil
}

func (s *TenantService) Update(ctx context.Context, id uint64, name, company, taxID string) (*model.Tenant, error) {
	if name == "" || company == "" || taxID == "" {
		return nil, errs.Validation("name/company/ruc", "are required")
	}
	return s.tenants.UpdateTenant(ctx, id, name, company, taxID)
}

func (s *TenantService) Delete(ctx context.Context, id uint64) error {
	return s.tenants.DeleteTenantCascade(ctx, id)
}

func tempPassword() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
