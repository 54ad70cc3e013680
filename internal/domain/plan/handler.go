package plan

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

const dateLayout = "2006-01-02"

type Handler struct {
	svc       *Service
	generator ReportGenerator
	validate  *validator.Validate
}

func NewHandler(svc *Service, generator ReportGenerator) *Handler {
	return &Handler{svc: svc, generator: generator, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "nurse")

	g := api.Group("", role)
	g.POST("/patients/:pid/plans", h.CreatePlan)
	g.GET("/patients/:pid/plans", h.ListPlans)
	g.GET("/plans/:id", h.GetPlan)
	g.PUT("/plans/:id", h.UpdatePlan)
	g.DELETE("/plans/:id", h.DeletePlan)
	g.POST("/plans/:id/hospitalize", h.Hospitalize)
	g.POST("/plans/:id/auto-evaluate", h.AutoEvaluate)
	g.GET("/plans/:id/export", h.ExportPlan)
	g.POST("/plans/:id/report", h.RenderReport)
}

// -- request shapes --

type itemRequest struct {
	ID              string  `json:"id"`
	ItemKey         string  `json:"item_key"`
	Label           string  `json:"label"`
	ObservationText *string `json:"observation_text"`
	AssistanceText  *string `json:"assistance_text"`
	SortOrder       int     `json:"sort_order"`
}

type evaluationRequest struct {
	ID     string  `json:"id"`
	Slot   int     `json:"evaluation_slot"`
	Date   string  `json:"evaluation_date"`
	Result string  `json:"result"`
	Note   *string `json:"note"`
}

type createPlanRequest struct {
	StartDate         string              `json:"start_date" validate:"required"`
	EndDate           string              `json:"end_date" validate:"required"`
	LongTermGoal      *string             `json:"long_term_goal"`
	ShortTermGoal     *string             `json:"short_term_goal"`
	NursingPolicy     *string             `json:"nursing_policy"`
	PatientFamilyWish *string             `json:"patient_family_wish"`
	HasProcedure      bool                `json:"has_procedure"`
	ProcedureContent  *string             `json:"procedure_content"`
	MaterialDetails   *string             `json:"material_details"`
	MaterialAmount    *string             `json:"material_amount"`
	ProcedureNote     *string             `json:"procedure_note"`
	Items             []itemRequest       `json:"items"`
	Evaluations       []evaluationRequest `json:"evaluations"`
}

type updatePlanRequest struct {
	Version           int                 `json:"version" validate:"required,min=1"`
	StartDate         *string             `json:"start_date"`
	EndDate           *string             `json:"end_date"`
	LongTermGoal      *string             `json:"long_term_goal"`
	ShortTermGoal     *string             `json:"short_term_goal"`
	NursingPolicy     *string             `json:"nursing_policy"`
	PatientFamilyWish *string             `json:"patient_family_wish"`
	HasProcedure      *bool               `json:"has_procedure"`
	ProcedureContent  *string             `json:"procedure_content"`
	MaterialDetails   *string             `json:"material_details"`
	MaterialAmount    *string             `json:"material_amount"`
	ProcedureNote     *string             `json:"procedure_note"`
	Items             []itemRequest       `json:"items"`
	Evaluations       []evaluationRequest `json:"evaluations"`
}

type hospitalizeRequest struct {
	Version        int     `json:"version" validate:"required,min=1"`
	HospitalizedAt string  `json:"hospitalized_at" validate:"required"`
	Note           *string `json:"note"`
}

type autoEvaluateRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

// -- handlers --

func (h *Handler) CreatePlan(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req createPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
	}

	cp := &CarePlan{
		PatientID:         pid,
		StartDate:         start,
		EndDate:           end,
		LongTermGoal:      req.LongTermGoal,
		ShortTermGoal:     req.ShortTermGoal,
		NursingPolicy:     req.NursingPolicy,
		PatientFamilyWish: req.PatientFamilyWish,
		HasProcedure:      req.HasProcedure,
		ProcedureContent:  req.ProcedureContent,
		MaterialDetails:   req.MaterialDetails,
		MaterialAmount:    req.MaterialAmount,
		ProcedureNote:     req.ProcedureNote,
		Items:             toItems(req.Items),
		Evaluations:       toEvaluations(req.Evaluations),
	}
	if err := h.svc.Create(c.Request().Context(), cp); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, cp)
}

func (h *Handler) GetPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) ListPlans(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var status *Status
	if s := c.QueryParam("status"); s != "" {
		st := Status(s)
		if st != StatusActive && st != StatusEndedByHospitalization {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		status = &st
	}
	pg := pagination.FromContext(c)
	plans, total, err := h.svc.ListByPatient(c.Request().Context(), pid, status, pg.Limit, pg.Offset)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(plans, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updatePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := UpdatePatch{
		LongTermGoal:      req.LongTermGoal,
		ShortTermGoal:     req.ShortTermGoal,
		NursingPolicy:     req.NursingPolicy,
		PatientFamilyWish: req.PatientFamilyWish,
		HasProcedure:      req.HasProcedure,
		ProcedureContent:  req.ProcedureContent,
		MaterialDetails:   req.MaterialDetails,
		MaterialAmount:    req.MaterialAmount,
		ProcedureNote:     req.ProcedureNote,
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		}
		patch.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		}
		patch.EndDate = &d
	}
	if req.Items != nil {
		patch.Items = toItems(req.Items)
	}
	if req.Evaluations != nil {
		patch.Evaluations = toEvaluations(req.Evaluations)
	}

	cp, err := h.svc.Update(c.Request().Context(), id, req.Version, patch)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) DeletePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Hospitalize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req hospitalizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	at, err := parseDate(req.HospitalizedAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospitalized_at, expected YYYY-MM-DD")
	}
	cp, err := h.svc.Hospitalize(c.Request().Context(), id, req.Version, at, req.Note)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) AutoEvaluate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req autoEvaluateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cp, err := h.svc.AutoEvaluate(c.Request().Context(), id, req.Version)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) ExportPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	snap, err := h.svc.Export(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) RenderReport(c echo.Context) error {
	if h.generator == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "document generator not configured")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	snap, err := h.svc.Export(ctx, id)
	if err != nil {
		return domainError(err)
	}
	data, contentType, err := h.generator.Render(ctx, snap)
	if err != nil {
		return domainError(&ExternalServiceError{Service: "document generator", Err: err})
	}
	return c.Blob(http.StatusOK, contentType, data)
}

// domainError maps the plan error taxonomy onto HTTP status codes so the
// caller can render a specific message.
func domainError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "care plan not found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "version conflict: plan was modified by another editor")
	case errors.Is(err, ErrNotEditable):
		return echo.NewHTTPError(http.StatusConflict, "plan has ended and can no longer be modified")
	case IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case IsExternal(err):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func toItems(reqs []itemRequest) []PlanItem {
	items := make([]PlanItem, 0, len(reqs))
	for _, r := range reqs {
		it := PlanItem{
			ItemKey:         r.ItemKey,
			Label:           r.Label,
			ObservationText: r.ObservationText,
			AssistanceText:  r.AssistanceText,
			SortOrder:       r.SortOrder,
		}
		if id, err := uuid.Parse(r.ID); err == nil {
			it.ID = id
		}
		items = append(items, it)
	}
	return items
}

func toEvaluations(reqs []evaluationRequest) []EvaluationSlot {
	evals := make([]EvaluationSlot, 0, len(reqs))
	for _, r := range reqs {
		e := EvaluationSlot{
			Slot:   r.Slot,
			Result: Result(r.Result),
			Note:   r.Note,
		}
		if id, err := uuid.Parse(r.ID); err == nil {
			e.ID = id
		}
		if d, err := parseDate(r.Date); err == nil {
			e.Date = d
		}
		evals = append(evals, e)
	}
	return evals
}
