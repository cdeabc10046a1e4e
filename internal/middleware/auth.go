package middleware

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"estatehub/internal/apperrors"
	"estatehub/internal/model"
	"estatehub/internal/repository"
)

const (
	tokenContextKey     = "token"
	principalContextKey = "principal"
)

// Gate authenticates requests and enforces per-route role rules.
type Gate struct {
	secret []byte
	users  repository.UserRepository
}

// NewGate creates an auth gate over the credential store.
func NewGate(secret string, users repository.UserRepository) *Gate {
	return &Gate{secret: []byte(secret), users: users}
}

// Authenticate extracts a bearer token from the Authorization header, falling
// back to the token cookie, and verifies its signature and expiry.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  g.secret,
		ContextKey:  tokenContextKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:token",
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.Unauthorized("Not authorized to access this route")
		},
	})
}

// LoadPrincipal resolves the verified token into a live user record and
// attaches it to the request context. Read-only and idempotent.
func (g *Gate) LoadPrincipal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return apperrors.Unauthorized("Not authorized to access this route")
			}
			userID, err := token.Claims.GetSubject()
			if err != nil || userID == "" {
				return apperrors.Unauthorized("Not authorized to access this route")
			}
			id, err := uuid.Parse(userID)
			if err != nil {
				return apperrors.Unauthorized("Not authorized to access this route")
			}

			user, err := g.users.FindByID(c.Request().Context(), id)
			if err != nil {
				return apperrors.Unauthorized("User no longer exists")
			}
			if !user.IsActive {
				return apperrors.Forbidden("User account is deactivated")
			}

			c.Set(principalContextKey, user)
			return next(c)
		}
	}
}

// Allow lists the roles a route accepts. When OwnerParam is set, a principal
// whose id equals that path parameter is also allowed.
type Allow struct {
	Roles      []string
	OwnerParam string
}

// Admin allows only the admin role.
func Admin() Allow {
	return Allow{Roles: []string{model.RoleAdmin}}
}

// AdminOrOwner allows admins plus the owner of the :id path parameter.
func AdminOrOwner() Allow {
	return Allow{Roles: []string{model.RoleAdmin}, OwnerParam: "id"}
}

// Decide is the pure authorization decision for a principal and resource id.
func Decide(principal *model.User, allow Allow, ownerID string) bool {
	for _, role := range allow.Roles {
		if principal.Role == role {
			return true
		}
	}
	if allow.OwnerParam != "" && ownerID != "" && ownerID == principal.ID.String() {
		return true
	}
	return false
}

// Authorize enforces an Allow rule. It must run after LoadPrincipal.
func (g *Gate) Authorize(allow Allow) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := Principal(c)
			if !ok {
				return apperrors.Unauthorized("Not authorized to access this route")
			}

			var ownerID string
			if allow.OwnerParam != "" {
				ownerID = c.Param(allow.OwnerParam)
			}
			if !Decide(principal, allow, ownerID) {
				return apperrors.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", principal.Role))
			}
			return next(c)
		}
	}
}

// Principal returns the authenticated user attached by LoadPrincipal.
func Principal(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(principalContextKey).(*model.User)
	return user, ok
}
