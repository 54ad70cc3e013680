package visit

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/visitcare/visitcare/internal/platform/auth"
	"github.com/visitcare/visitcare/pkg/pagination"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "nurse")

	api.POST("/patients/:pid/visits", h.CreateVisit, role)
	api.GET("/patients/:pid/visits", h.ListVisits, role)
	api.GET("/visits/:id", h.GetVisit, role)
	api.DELETE("/visits/:id", h.DeleteVisit, role)
}

type visitRequest struct {
	VisitDate       string  `json:"visit_date" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1"`
	StaffName       *string `json:"staff_name"`
	Note            *string `json:"note"`
}

func (h *Handler) CreateVisit(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit_date, expected YYYY-MM-DD")
	}

	rec := &Record{
		PatientID:       pid,
		VisitDate:       d,
		DurationMinutes: req.DurationMinutes,
		StaffName:       req.StaffName,
		Note:            req.Note,
	}
	if err := h.svc.Create(c.Request().Context(), rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListVisits(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	records, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
