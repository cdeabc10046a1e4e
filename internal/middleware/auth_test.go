package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estatehub/internal/apperrors"
	"estatehub/internal/auth"
	"estatehub/internal/model"
)

// stubUserRepo satisfies repository.UserRepository for the lookups the gate
// performs; everything else is unused here.
type stubUserRepo struct {
	user *model.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) Create(context.Context, *model.User) error { return nil }
func (s *stubUserRepo) Update(context.Context, *model.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, uuid.UUID) error   { return nil }
func (s *stubUserRepo) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) FindByResetTokenHash(context.Context, string, time.Time) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) List(context.Context) ([]model.User, error)              { return nil, nil }
func (s *stubUserRepo) UpdatePassword(context.Context, uuid.UUID, string) error { return nil }
func (s *stubUserRepo) UpdateLastLogin(context.Context, uuid.UUID, time.Time) error {
	return nil
}
func (s *stubUserRepo) SetResetToken(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}
func (s *stubUserRepo) ClearResetToken(context.Context, uuid.UUID) error { return nil }
func (s *stubUserRepo) SetActive(context.Context, uuid.UUID, bool) error { return nil }

func TestDecide(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name    string
		role    string
		allow   Allow
		ownerID string
		want    bool
	}{
		{
			name:  "role match",
			role:  model.RoleAdmin,
			allow: Admin(),
			want:  true,
		},
		{
			name:  "role mismatch",
			role:  model.RoleManager,
			allow: Admin(),
			want:  false,
		},
		{
			name:    "owner allowed when rule has an owner param",
			role:    model.RoleUser,
			allow:   AdminOrOwner(),
			ownerID: ownerID.String(),
			want:    true,
		},
		{
			name:    "non-owner rejected",
			role:    model.RoleUser,
			allow:   AdminOrOwner(),
			ownerID: uuid.New().String(),
			want:    false,
		},
		{
			name:    "ownership ignored without an owner param",
			role:    model.RoleUser,
			allow:   Admin(),
			ownerID: ownerID.String(),
			want:    false,
		},
		{
			name:    "admin allowed on owner routes regardless of id",
			role:    model.RoleAdmin,
			allow:   AdminOrOwner(),
			ownerID: uuid.New().String(),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := &model.User{ID: ownerID, Role: tt.role}
			assert.Equal(t, tt.want, Decide(principal, tt.allow, tt.ownerID))
		})
	}
}

func newGateTestServer(t *testing.T, user *model.User, allow *Allow) (*echo.Echo, string) {
	t.Helper()

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtService.Issue(user.ID)
	require.NoError(t, err)

	gate := NewGate("test-secret", &stubUserRepo{user: user})

	e := echo.New()
	e.HTTPErrorHandler = apperrors.NewEchoHandler(false)

	middlewares := []echo.MiddlewareFunc{gate.Authenticate(), gate.LoadPrincipal()}
	if allow != nil {
		middlewares = append(middlewares, gate.Authorize(*allow))
	}
	e.GET("/protected/:id", func(c echo.Context) error {
		principal, ok := Principal(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, map[string]any{"id": principal.ID})
	}, middlewares...)

	return e, token
}

func TestGate_BearerHeader(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
	e, token := newGateTestServer(t, user, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_CookieFallback(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
	e, token := newGateTestServer(t, user, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_MissingToken(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
	e, _ := newGateTestServer(t, user, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apperrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Not authorized to access this route", body.Message)
}

func TestGate_DeletedUser(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
	e, _ := newGateTestServer(t, user, nil)

	// Valid token whose subject no longer resolves to a record.
	otherToken, err := auth.NewJWTService("test-secret", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+otherToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apperrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User no longer exists", body.Message)
}

func TestGate_DeactivatedUser(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: false}
	e, token := newGateTestServer(t, user, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body apperrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User account is deactivated", body.Message)
}

func TestGate_Authorize(t *testing.T) {
	t.Run("wrong role", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
		allow := Admin()
		e, token := newGateTestServer(t, user, &allow)

		req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body apperrors.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "User role user is not authorized to access this route", body.Message)
	})

	t.Run("owner passes an owner-gated route", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsActive: true}
		allow := AdminOrOwner()
		e, token := newGateTestServer(t, user, &allow)

		req := httptest.NewRequest(http.MethodGet, "/protected/"+user.ID.String(), nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
