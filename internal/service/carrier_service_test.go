package service

import (
	"context"
	"testing"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrierCreateUpsertsByTaxID(t *testing.T) {
	st := newMemStore()
	svc := NewCarrierService(st, st)
	ctx := context.Background()

	first, err := svc.Create(ctx, "Transportes Lima", "20550001111", nil)
	require.NoError(t, err)

	// Same tax id refreshes the name instead of duplicating the carrier.
	second, err := svc.Create(ctx, "Transportes Lima SAC", "20550001111", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Transportes Lima SAC", second.Name)

	_, err = svc.Create(ctx, "", "20550001111", nil)
	assert.True(t, errs.IsValidation(err))
	_, err = svc.Create(ctx, "Transportes Lima", "", nil)
	assert.True(t, errs.IsValidation(err))
}

func TestCarrierUpdateRejectsDuplicateTaxID(t *testing.T) {
	st := newMemStore()
	svc := NewCarrierService(st, st)
	ctx := context.Background()

	a := st.addCarrier(model.Carrier{Name: "A", TaxID: "20550001111"})
	st.addCarrier(model.Carrier{Name: "B", TaxID: "20550002222"})

	_, err := svc.Update(ctx, a.ID, "A", "20550002222", nil)
	assert.ErrorIs(t, err, errs.ErrDuplicateTaxID)

	got, err := svc.Update(ctx, a.ID, "A renamed", "20550001111", nil)
	require.NoError(t, err)
	assert.Equal(t, "A renamed", got.Name)
}

func TestCarrierDelete(t *testing.T) {
	st := newMemStore()
	svc := NewCarrierService(st, st)
	ctx := context.Background()

	c := st.addCarrier(model.Carrier{Name: "A", TaxID: "20550001111"})
	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), errs.ErrCarrierNotFound)
}

func TestTenantCreateProvisionsLogin(t *testing.T) {
	st := newMemStore()
	svc := NewTenantService(st)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, "Almacenes Sur", "Almacenes del Sur SAC", "20112223334")
	require.NoError(t, err)
	require.NotNil(t, tenant.User)
	assert.Equal(t, "ruc20112223334", tenant.User.Username)
	assert.Equal(t, model.RoleTenant, tenant.User.Role)
	// Never the raw password.
	assert.NotEmpty(t, tenant.User.Password)
	assert.Len(t, tenant.User.Password, 60)

	_, err = svc.Create(ctx, "Otro", "Otro SAC", "20112223334")
	assert.ErrorIs(t, err, errs.ErrDuplicateTaxID)
}

func TestIncidentCreateRequiresFiveWFields(t *testing.T) {
	st := newMemStore()
	tenant := st.addTenant(model.Tenant{Name: "T", TaxID: "20112223334"})
	appts := NewAppointmentService(st, st, st, DefaultSlotCapacity)
	svc := NewIncidentService(st, st)
	ctx := context.Background()

	appt, err := appts.Create(ctx, directBooking(tenant.ID, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)), 1)
	require.NoError(t, err)

	in := CreateIncidentInput{
		AppointmentID: appt.ID,
		What:          "pallet dropped",
		Why:           "forklift overloaded",
		Where:         "dock 3",
		Who:           "warehouse crew",
		How:           "during unloading",
	}
	inc, err := svc.Create(ctx, in, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), inc.UserID)
	assert.False(t, inc.OccurredAt.IsZero())

	bad := in
	bad.Where = ""
	_, err = svc.Create(ctx, bad, 42)
	assert.True(t, errs.IsValidation(err))

	bad = in
	bad.AppointmentID = 9999
	_, err = svc.Create(ctx, bad, 42)
	assert.ErrorIs(t, err, errs.ErrAppointmentNotFound)
}
