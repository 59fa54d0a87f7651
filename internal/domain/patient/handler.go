package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	patients := api.Group("/patients")
	patients.GET("", h.List)
	patients.GET("/:id", h.Get)
	patients.POST("", h.Create)
	patients.PUT("/:id", h.Update)
	patients.DELETE("/:id", h.Delete)

	notes := api.Group("/consultations")
	notes.GET("", h.ListNotes)
	notes.GET("/patient/:patient_id", h.ListNotesByPatient)
	notes.POST("", h.CreateNote)
	notes.DELETE("/:id", h.DeleteNote)
}

func (h *Handler) List(c echo.Context) error {
	patients, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Patient not found")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c echo.Context) error {
	var in PatientInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("All fields are required")
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Patient not found")
	}
	var in PatientInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("All fields are required")
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Patient not found")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Patient deleted"})
}

// -- Consultation notes --

func (h *Handler) ListNotes(c echo.Context) error {
	notes, err := h.svc.ListNotes(c.Request().Context())
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []*ConsultationNote{}
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) ListNotesByPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Patient not found")
	}
	notes, err := h.svc.ListNotesByPatient(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []*ConsultationNote{}
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *Handler) CreateNote(c echo.Context) error {
	var in NoteInput
	if err := c.Bind(&in); err != nil {
		return apperror.InvalidInputf("patient_id and raw_note are required")
	}
	n, err := h.svc.CreateNote(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) DeleteNote(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperror.NotFoundf("Note not found")
	}
	if err := h.svc.DeleteNote(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Note deleted"})
}
