package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the open auth endpoints and the admin-only account
// management endpoints. authRL is the tight rate limit for credential
// endpoints.
func (h *Handler) RegisterRoutes(api *echo.Group, tokens *auth.TokenManager, authRL echo.MiddlewareFunc) {
	authGroup := api.Group("/auth", authRL)
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	adminGroup := api.Group("/admin", auth.Authenticate(tokens), auth.RequireRole("admin"))
	adminGroup.POST("/create-doctor", h.CreateDoctor)
	adminGroup.GET("/users", h.ListUsers)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("name, email, and password are required")
	}
	result, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("email and password are required")
	}
	result, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var in CreateDoctorInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("name, email, password, and specialization are required")
	}
	result, err := h.svc.CreateDoctor(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
