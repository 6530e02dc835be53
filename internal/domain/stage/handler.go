package stage

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recoverypath/recovery-engine/internal/domain/profile"
)

type Handler struct {
	tracker *Tracker
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/users/:user_id/stage/evaluate", h.EvaluateProgression)
	api.GET("/users/:user_id/stage/metrics", h.GetMetrics)
	api.GET("/users/:user_id/stage/progression", h.GetProgression)
}

func (h *Handler) EvaluateProgression(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	transition, err := h.tracker.EvaluateStageProgression(c.Request().Context(), userID)
	if errors.Is(err, profile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "recovery profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if transition == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, transition)
}

func (h *Handler) GetMetrics(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	metrics, err := h.tracker.GetStageMetrics(c.Request().Context(), userID)
	if errors.Is(err, profile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "recovery profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, metrics)
}

func (h *Handler) GetProgression(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	progression, err := h.tracker.GetRecoveryProgression(c.Request().Context(), userID)
	if errors.Is(err, profile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "recovery profile not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, progression)
}
