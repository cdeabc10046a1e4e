package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"estatehub/internal/apperrors"
	"estatehub/internal/config"
	"estatehub/internal/handler"
	"estatehub/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gate *middleware.Gate,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	propertyHandler *handler.PropertyHandler,
	contactHandler *handler.ContactHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: allowCredentials(cfg.AllowedOrigins),
	}))

	e.HTTPErrorHandler = apperrors.NewEchoHandler(cfg.IsProduction())
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	authenticated := []echo.MiddlewareFunc{gate.Authenticate(), gate.LoadPrincipal()}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.PUT("/reset-password/:resetToken", authHandler.ResetPassword)
	authGroup.GET("/logout", authHandler.Logout, authenticated...)
	authGroup.GET("/me", authHandler.Me, authenticated...)
	authGroup.PUT("/change-password", authHandler.ChangePassword, authenticated...)
	authGroup.PUT("/block/:id", authHandler.BlockUser, withAuthorize(authenticated, gate, middleware.Admin())...)
	authGroup.PUT("/unblock/:id", authHandler.UnblockUser, withAuthorize(authenticated, gate, middleware.Admin())...)

	// User routes. Registration is public; everything else is gated.
	userGroup := api.Group("/users")
	userGroup.POST("", userHandler.CreateUser)
	userGroup.GET("", userHandler.ListUsers, withAuthorize(authenticated, gate, middleware.Admin())...)
	userGroup.GET("/:id", userHandler.GetUser, withAuthorize(authenticated, gate, middleware.AdminOrOwner())...)
	userGroup.PUT("/:id", userHandler.UpdateUser, withAuthorize(authenticated, gate, middleware.AdminOrOwner())...)
	userGroup.DELETE("/:id", userHandler.DeleteUser, withAuthorize(authenticated, gate, middleware.Admin())...)
	userGroup.PUT("/:id/password", userHandler.UpdatePassword, withAuthorize(authenticated, gate, middleware.AdminOrOwner())...)
	userGroup.PUT("/:id/last-login", userHandler.UpdateLastLogin, withAuthorize(authenticated, gate, middleware.AdminOrOwner())...)

	// Property routes. Reads are public; writes require authentication, with
	// ownership enforced in the service.
	propertyGroup := api.Group("/property")
	propertyGroup.GET("", propertyHandler.List)
	propertyGroup.GET("/:id", propertyHandler.Get)
	propertyGroup.POST("", propertyHandler.Create, authenticated...)
	propertyGroup.PUT("/:id", propertyHandler.Update, authenticated...)
	propertyGroup.DELETE("/:id", propertyHandler.Delete, authenticated...)
	propertyGroup.POST("/:id/images", propertyHandler.UploadImages, authenticated...)

	// Contact routes. Submitting the form is public; the inbox is gated.
	contactGroup := api.Group("/contact-us")
	contactGroup.POST("", contactHandler.Create)
	contactGroup.GET("", contactHandler.List, authenticated...)
	contactGroup.GET("/:id", contactHandler.Get, authenticated...)
	contactGroup.DELETE("/:id", contactHandler.Delete, authenticated...)
}

func withAuthorize(authenticated []echo.MiddlewareFunc, gate *middleware.Gate, allow middleware.Allow) []echo.MiddlewareFunc {
	chain := make([]echo.MiddlewareFunc, 0, len(authenticated)+1)
	chain = append(chain, authenticated...)
	chain = append(chain, gate.Authorize(allow))
	return chain
}

func allowCredentials(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return false
		}
	}
	return true
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
