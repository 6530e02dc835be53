package checkin

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/recoverypath/recovery-engine/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/check-ins", h.CreateCheckIn)
	api.GET("/check-ins/:id", h.GetCheckIn)
	api.GET("/users/:user_id/check-ins", h.ListCheckIns)
	api.GET("/users/:user_id/check-ins/recent", h.GetRecentCheckIns)
	api.GET("/users/:user_id/check-ins/averages", h.GetAverageRatings)
	api.GET("/users/:user_id/check-ins/streak", h.GetStreak)
}

func (h *Handler) CreateCheckIn(c echo.Context) error {
	var ci CheckIn
	if err := c.Bind(&ci); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCheckIn(c.Request().Context(), &ci); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ci)
}

func (h *Handler) GetCheckIn(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ci, err := h.svc.GetCheckIn(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "check-in not found")
	}
	return c.JSON(http.StatusOK, ci)
}

func (h *Handler) ListCheckIns(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListCheckIns(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetRecentCheckIns(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.GetRecentCheckIns(c.Request().Context(), userID, days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetAverageRatings(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	days, _ := strconv.Atoi(c.QueryParam("days"))
	avg, err := h.svc.GetAverageRatings(c.Request().Context(), userID, days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, avg)
}

func (h *Handler) GetStreak(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	streak, err := h.svc.GetCheckInStreak(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"streak": streak})
}
