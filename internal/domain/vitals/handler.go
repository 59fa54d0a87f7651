package vitals

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

func (h *Handler) RegisterRoutes(api *echo.Group, tokens *auth.TokenManager) {
	vitals := api.Group("/vitals", auth.Authenticate(tokens))
	vitals.GET("", h.ListAll)
	vitals.GET("/mine", h.Mine)
}

func (h *Handler) ListAll(c echo.Context) error {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperror.Unauthorizedf("Not authenticated")
	}
	readings, err := h.svc.ListAll(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	if readings == nil {
		readings = []*Reading{}
	}
	return c.JSON(http.StatusOK, readings)
}

func (h *Handler) Mine(c echo.Context) error {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperror.Unauthorizedf("Not authenticated")
	}
	reading, err := h.svc.Mine(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reading)
}
