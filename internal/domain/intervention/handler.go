package intervention

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
)

type Handler struct {
	planner *Planner
}

func NewHandler(planner *Planner) *Handler {
	return &Handler{planner: planner}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/users/:user_id/interventions", h.ProvideIntervention)
	api.POST("/users/:user_id/interventions/check", h.CheckForIntervention)
	api.POST("/interventions/:intervention_id/follow-up", h.ProvideFollowUp)
}

func (h *Handler) ProvideIntervention(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	var body struct {
		TriggerType checkin.TriggerType `json:"trigger_type"`
		Severity    risk.Severity       `json:"severity"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iv := h.planner.ProvideCrisisIntervention(c.Request().Context(), userID, body.TriggerType, body.Severity)
	return c.JSON(http.StatusOK, iv)
}

func (h *Handler) CheckForIntervention(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	iv := h.planner.CheckForCrisisIntervention(c.Request().Context(), userID)
	if iv == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, iv)
}

func (h *Handler) ProvideFollowUp(c echo.Context) error {
	interventionID, err := uuid.Parse(c.Param("intervention_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid intervention_id")
	}
	fu := h.planner.ProvideCrisisFollowUp(interventionID)
	return c.JSON(http.StatusOK, fu)
}
