package risk

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recoverypath/recovery-engine/internal/domain/profile"
)

type Handler struct {
	assessor *Assessor
}

func NewHandler(assessor *Assessor) *Handler {
	return &Handler{assessor: assessor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/users/:user_id/risk/assessment", h.AssessRisk)
	api.GET("/users/:user_id/risk/crisis", h.DetectCrisis)
	api.GET("/users/:user_id/risk/patterns", h.GetPatterns)
}

func (h *Handler) AssessRisk(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	assessment, err := h.assessor.AssessCrisisRisk(c.Request().Context(), userID)
	if errors.Is(err, profile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "recovery profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, assessment)
}

func (h *Handler) DetectCrisis(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	inCrisis, err := h.assessor.DetectImmediateCrisis(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"immediate_crisis": inCrisis})
}

func (h *Handler) GetPatterns(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	patterns := h.assessor.GetRiskPatterns(c.Request().Context(), userID)
	return c.JSON(http.StatusOK, patterns)
}
