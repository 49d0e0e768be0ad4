package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"roomly/internal/auth"
	"roomly/internal/config"
	"roomly/internal/handler"
	"roomly/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	reservationHandler *handler.ReservationHandler,
	calendarHandler *handler.CalendarHandler,
	userHandler *handler.UserHandler,
	locationHandler *handler.LocationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/auth/google/login", authHandler.Login)
	api.GET("/auth/google/callback", authHandler.Callback)

	// Secured routes (require a session JWT)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}), resolveSession(authService))

	secured.POST("/auth/logout", authHandler.Logout)

	// User routes
	secured.GET("/users/me", userHandler.Me)
	secured.GET("/users/me/notifications", userHandler.Notifications)
	secured.GET("/users", userHandler.List)

	// Location routes
	secured.GET("/locations", locationHandler.List)

	// Reservation routes
	secured.POST("/reservations", reservationHandler.Create)
	secured.GET("/reservations", reservationHandler.List)
	secured.GET("/reservations/availability", reservationHandler.CheckAvailability)
	secured.GET("/reservations/:id", reservationHandler.Get)
	secured.PUT("/reservations/:id", reservationHandler.Update)
	secured.DELETE("/reservations/:id", reservationHandler.Delete)
	secured.PATCH("/reservations/:id/status", reservationHandler.UpdateStatus)

	// Calendar routes
	secured.GET("/calendar/events", reservationHandler.ListEvents)
	secured.GET("/calendar/google", calendarHandler.ListGoogleEvents)
}

// resolveSession exchanges validated JWT claims for the user record, after
// checking the server-side session is still alive. A valid signature
// alone is not enough once the session has been revoked.
func resolveSession(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			user, err := authService.ResolveSession(c.Request().Context(), claims.ID, userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
