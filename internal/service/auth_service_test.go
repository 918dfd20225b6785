package service

import (
	"context"
	"testing"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserStore struct {
	nextID uint64
	users  map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (m *memUserStore) CreateUser(_ context.Context, u *model.User) error {
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m *memUserStore) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (m *memUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	st := newMemUserStore()
	svc := NewAuthService(st)

	u, err := svc.Register(context.Background(), "Maria", "mlopez", "s3cret", model.RoleOperator)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.True(t, u.Active)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret")))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newMemUserStore())

	_, err := svc.Register(context.Background(), "", "mlopez", "s3cret", model.RoleOperator)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Register(context.Background(), "Maria", "mlopez", "s3cret", model.Role("SUPERUSER"))
	assert.True(t, errs.IsValidation(err))
}

func TestLogin(t *testing.T) {
	st := newMemUserStore()
	svc := NewAuthService(st)
	_, err := svc.Register(context.Background(), "Maria", "mlopez", "s3cret", model.RoleOperator)
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), "mlopez", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOperator, u.Role)

	_, err = svc.Login(context.Background(), "mlopez", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	// Unknown user looks exactly like a bad password.
	_, err = svc.Login(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	st := newMemUserStore()
	svc := NewAuthService(st)
	_, err := svc.Register(context.Background(), "Maria", "mlopez", "s3cret", model.RoleTenant)
	require.NoError(t, err)
	st.users["mlopez"].Active = false

	_, err = svc.Login(context.Background(), "mlopez", "s3cret")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}
