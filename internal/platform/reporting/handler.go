package reporting

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
)

type Handler struct {
	gen *Generator
}

func NewHandler(gen *Generator) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) RegisterRoutes(api *echo.Group, tokens *auth.TokenManager) {
	reports := api.Group("/reports", auth.Authenticate(tokens))
	reports.GET("/:patientId", h.Download)
}

// Download streams the clinical summary as a PDF attachment.
func (h *Handler) Download(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Patient not found")
	}

	filename, pdf, err := h.gen.Generate(c.Request().Context(), patientID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
