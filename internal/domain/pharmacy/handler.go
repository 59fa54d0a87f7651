package pharmacy

import (
	"net/http"
	"strconv"

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
	medicines := api.Group("/medicines", auth.Authenticate(tokens))
	medicines.GET("", h.ListMedicines)

	prescriptions := api.Group("/prescriptions", auth.Authenticate(tokens))
	prescriptions.GET("", h.ListPrescriptions, auth.RequireRole("pharmacy", "admin"))
	prescriptions.GET("/patient/:id", h.ListForPatient)
	prescriptions.POST("", h.Prescribe, auth.RequireRole("doctor"))
	prescriptions.PATCH("/:id/dispense", h.Dispense, auth.RequireRole("pharmacy", "admin"))
}

func (h *Handler) ListMedicines(c echo.Context) error {
	medicines, err := h.svc.ListMedicines(c.Request().Context())
	if err != nil {
		return err
	}
	if medicines == nil {
		medicines = []*Medicine{}
	}
	return c.JSON(http.StatusOK, medicines)
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	views, err := h.svc.ListPrescriptions(c.Request().Context())
	if err != nil {
		return err
	}
	if views == nil {
		views = []*PrescriptionView{}
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) ListForPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.InvalidInputf("invalid patient id")
	}
	views, err := h.svc.ListForPatient(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	if views == nil {
		views = []*PrescriptionView{}
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Prescribe(c echo.Context) error {
	var in PrescribeInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("patient_id and medicine_id required")
	}
	result, err := h.svc.Prescribe(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Dispense(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Prescription not found")
	}
	if err := h.svc.Dispense(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Dispensed successfully"})
}
