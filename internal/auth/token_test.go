package auth

import (
	"testing"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	u := &model.User{ID: 42, Role: model.RoleOperator}

	token, err := m.Issue(u)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, model.RoleOperator, claims.Role)
}

func TestVerifyRejectsTampering(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue(&model.User{ID: 1, Role: model.RoleTenant})
	require.NoError(t, err)

	_, err = m.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(&model.User{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	// NewManager clamps non-positive ttls, so build the expired manager by hand.
	m := &Manager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, err := m.Issue(&model.User{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
