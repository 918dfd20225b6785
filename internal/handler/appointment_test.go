package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/auth"
	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/middleware"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentService struct {
	createFn  func(ctx context.Context, in service.CreateAppointmentInput, createdBy uint64) (*model.Appointment, error)
	advanceFn func(ctx context.Context, id uint64, target model.AppointmentStatus) (*model.Appointment, error)
	confirmFn func(ctx context.Context, id uint64, in service.ConfirmAppointmentInput, role model.Role) (*model.Appointment, error)
	countFn   func(ctx context.Context, t time.Time) (int64, error)
}

func (s *stubAppointmentService) Create(ctx context.Context, in service.CreateAppointmentInput, createdBy uint64) (*model.Appointment, error) {
	return s.createFn(ctx, in, createdBy)
}

func (s *stubAppointmentService) List(context.Context, *time.Time, *time.Time) ([]model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointmentService) ListMine(context.Context, uint64) ([]model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointmentService) CountInHour(ctx context.Context, t time.Time) (int64, error) {
	return s.countFn(ctx, t)
}

func (s *stubAppointmentService) Advance(ctx context.Context, id uint64, target model.AppointmentStatus) (*model.Appointment, error) {
	return s.advanceFn(ctx, id, target)
}

func (s *stubAppointmentService) Confirm(ctx context.Context, id uint64, in service.ConfirmAppointmentInput, role model.Role) (*model.Appointment, error) {
	return s.confirmFn(ctx, id, in, role)
}

func newTestRouter(t *testing.T, svc service.AppointmentServicer) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewManager("test-secret", time.Hour)
	h := NewAppointmentHandler(svc, service.DefaultSlotCapacity, nil)

	r := gin.New()
	g := r.Group("/", middleware.RequireAuth(tokens))
	g.POST("/citas", h.Create)
	g.GET("/citas/cupo", h.SlotAvailability)
	g.PATCH("/citas/:id", h.Advance)
	g.PATCH("/citas/:id/confirmar", h.Confirm)
	return r, tokens
}

func bearerFor(t *testing.T, tokens *auth.Manager, id uint64, role model.Role) string {
	t.Helper()
	token, err := tokens.Issue(&model.User{ID: id, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	var gotCreatedBy uint64
	svc := &stubAppointmentService{
		createFn: func(_ context.Context, in service.CreateAppointmentInput, createdBy uint64) (*model.Appointment, error) {
			gotCreatedBy = createdBy
			return &model.Appointment{
				ID:          7,
				ScheduledAt: in.ScheduledAt,
				TenantID:    in.TenantID,
				Plate:       in.Plate,
				Status:      model.StatusPending,
			}, nil
		},
	}
	r, tokens := newTestRouter(t, svc)

	body := `{"scheduled_at":"2024-06-01T10:15:00Z","tenant_id":3,"accepted_terms":true,"plate":"ABC123","driver_name":"Juan","driver_national_id":"12345678"}`
	req := httptest.NewRequest(http.MethodPost, "/citas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 55, model.RoleTenant))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint64(55), gotCreatedBy)
	assert.Contains(t, w.Body.String(), `"status":"PENDIENTE"`)
}

func TestCreateAppointmentSlotFull(t *testing.T) {
	svc := &stubAppointmentService{
		createFn: func(context.Context, service.CreateAppointmentInput, uint64) (*model.Appointment, error) {
			return nil, errs.ErrSlotFull
		},
	}
	r, tokens := newTestRouter(t, svc)

	body := `{"scheduled_at":"2024-06-01T10:15:00Z","tenant_id":3,"accepted_terms":true,"plate":"ABC123","driver_name":"Juan","driver_national_id":"12345678"}`
	req := httptest.NewRequest(http.MethodPost, "/citas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 55, model.RoleTenant))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAppointmentRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t, &stubAppointmentService{})

	req := httptest.NewRequest(http.MethodPost, "/citas", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/citas", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSlotAvailabilityEndpoint(t *testing.T) {
	svc := &stubAppointmentService{
		countFn: func(_ context.Context, at time.Time) (int64, error) {
			assert.Equal(t, 2024, at.Year())
			return 6, nil
		},
	}
	r, tokens := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/citas/cupo?fecha=2024-06-01T09:30:00Z", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 1, model.RoleOperator))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":6`)
	assert.Contains(t, w.Body.String(), `"available":2`)
}

func TestAdvanceEndpoint(t *testing.T) {
	svc := &stubAppointmentService{
		advanceFn: func(_ context.Context, id uint64, target model.AppointmentStatus) (*model.Appointment, error) {
			assert.Equal(t, uint64(12), id)
			assert.Equal(t, model.StatusArrived, target)
			now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
			return &model.Appointment{ID: id, Status: target, ArrivedAt: &now}, nil
		},
	}
	r, tokens := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPatch, "/citas/12", strings.NewReader(`{"status":"LLEGO"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 1, model.RoleOperator))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"LLEGO"`)
}

func TestAdvanceEndpointBadID(t *testing.T) {
	r, tokens := newTestRouter(t, &stubAppointmentService{})

	req := httptest.NewRequest(http.MethodPatch, "/citas/nope", strings.NewReader(`{"status":"LLEGO"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 1, model.RoleOperator))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEndpointForwardsRole(t *testing.T) {
	svc := &stubAppointmentService{
		confirmFn: func(_ context.Context, id uint64, in service.ConfirmAppointmentInput, role model.Role) (*model.Appointment, error) {
			if !role.CanConfirmAppointments() {
				return nil, errs.ErrForbidden
			}
			return &model.Appointment{ID: id, Plate: in.Plate, RequiresConfirmation: false}, nil
		},
	}
	r, tokens := newTestRouter(t, svc)
	body := `{"plate":"ABC123","driver_name":"Juan","driver_national_id":"12345678"}`

	req := httptest.NewRequest(http.MethodPatch, "/citas/5/confirmar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, model.RoleTenant))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPatch, "/citas/5/confirmar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, model.RoleOperator))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plate":"ABC123"`)
}
