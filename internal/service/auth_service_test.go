package service

import (
	"context"
	"testing"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() *AuthService {
	return NewAuthService("test-secret", time.Hour, cache.NewMemorySessionCache(), testDirectory(), testLogger())
}

func TestLoginDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	resp, err := svc.Login(ctx, model.LoginRequest{MunicipalityID: "patos"})
	require.NoError(t, err)
	assert.Equal(t, "user-patos", resp.User.ID)
	assert.Equal(t, "Gestor Municipal", resp.User.Name)
	assert.Equal(t, model.RolePrefeito, resp.User.Role)
	assert.Equal(t, "Patos", resp.Municipality.Name)
	assert.Equal(t, model.RolePrefeito.VisibleTabs(), resp.Tabs)

	session, err := svc.Validate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User, session.User)
}

func TestLoginRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	_, err := svc.Login(ctx, model.LoginRequest{MunicipalityID: "recife"})
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)
	_, err = svc.Login(ctx, model.LoginRequest{MunicipalityID: "patos", Role: "REI"})
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.Login(ctx, model.LoginRequest{MunicipalityID: "patos", Role: model.RoleSecretario, Department: "Esportes"})
	assert.ErrorIs(t, err, ErrInvalidDepartment)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	resp, err := svc.Login(ctx, model.LoginRequest{MunicipalityID: "sousa", Role: model.RoleAdmin})
	require.NoError(t, err)
	session, err := svc.Validate(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	_, err = svc.Validate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	_, err := svc.Validate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService("other-secret", time.Hour, cache.NewMemorySessionCache(), testDirectory(), testLogger())
	resp, err := other.Login(ctx, model.LoginRequest{MunicipalityID: "patos"})
	require.NoError(t, err)
	_, err = svc.Validate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, model.SessionClaims{SessionID: "x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()
	resp, err := svc.Login(ctx, model.LoginRequest{MunicipalityID: "patos"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSwitchMunicipality(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService()

	resp, err := svc.Login(ctx, model.LoginRequest{MunicipalityID: "patos", Name: "Ana", Role: model.RoleAdmin})
	require.NoError(t, err)
	session, err := svc.Validate(ctx, resp.Token)
	require.NoError(t, err)

	switched, err := svc.Switch(ctx, session.ID, session.User, "sousa")
	require.NoError(t, err)
	assert.Equal(t, "sousa", switched.User.MunicipalityID)
	assert.Equal(t, "user-sousa", switched.User.ID)
	assert.Equal(t, "Ana", switched.User.Name)
	assert.Equal(t, model.RoleAdmin, switched.User.Role)

	_, err = svc.Validate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "old session is closed")
	_, err = svc.Validate(ctx, switched.Token)
	require.NoError(t, err)

	_, err = svc.Switch(ctx, session.ID, session.User, "recife")
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)
}
