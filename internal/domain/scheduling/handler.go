package scheduling

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

// RegisterRoutes mounts the doctor directory openly and the availability
// and appointment groups behind authentication; finer role decisions live
// in the service so the error messages stay specific.
func (h *Handler) RegisterRoutes(api *echo.Group, tokens *auth.TokenManager) {
	doctors := api.Group("/doctors")
	doctors.GET("", h.ListDoctors)
	doctors.POST("", h.AddDoctor)

	availability := api.Group("/availability", auth.Authenticate(tokens))
	availability.GET("", h.ListAvailability)
	availability.POST("", h.CreateSlot)
	availability.DELETE("/:id", h.DeleteSlot)

	appointments := api.Group("/appointments", auth.Authenticate(tokens))
	appointments.GET("", h.ListAppointments)
	appointments.GET("/:id", h.GetAppointment)
	appointments.POST("", h.CreateAppointment)
	appointments.PUT("/:id", h.UpdateAppointment)
	appointments.DELETE("/:id", h.DeleteAppointment)
}

func identity(c echo.Context) (auth.Identity, error) {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, apperror.Unauthorizedf("Not authenticated")
	}
	return ident, nil
}

// -- Doctors --

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var in struct {
		Name           string `json:"name"`
		Specialization string `json:"specialization"`
	}
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("name and specialization are required")
	}
	d, err := h.svc.AddDoctor(c.Request().Context(), in.Name, in.Specialization)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// -- Availability --

func (h *Handler) ListAvailability(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var doctorID *int64
	if raw := c.QueryParam("doctor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			doctorID = &id
		}
	}

	slots, err := h.svc.ListAvailability(c.Request().Context(), ident, doctorID, c.QueryParam("date"))
	if err != nil {
		return err
	}
	if slots == nil {
		slots = []*SlotView{}
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) CreateSlot(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var in SlotInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("doctor_id, date, start_time, end_time are required")
	}
	slot, err := h.svc.CreateSlot(c.Request().Context(), ident, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, slot)
}

func (h *Handler) DeleteSlot(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Slot not found")
	}
	if err := h.svc.DeleteSlot(c.Request().Context(), ident, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Slot deleted"})
}

// -- Appointments --

func (h *Handler) ListAppointments(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	views, err := h.svc.ListAppointments(c.Request().Context(), ident)
	if err != nil {
		return err
	}
	if views == nil {
		views = []*AppointmentView{}
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Appointment not found")
	}
	view, err := h.svc.GetAppointment(c.Request().Context(), ident, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	var in CreateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("doctor_id and date are required")
	}
	appt, err := h.svc.CreateAppointment(c.Request().Context(), ident, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Appointment not found")
	}
	var in UpdateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("invalid request body")
	}
	appt, err := h.svc.UpdateAppointment(c.Request().Context(), ident, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Appointment not found")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), ident, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted"})
}
