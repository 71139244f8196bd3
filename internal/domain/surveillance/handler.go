package surveillance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicamia/compliance-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/surveillance/events", h.ListNotifiableEvents)

	api.POST("/surveillance/notifications", h.Notify)
	api.GET("/surveillance/notifications", h.ListNotifications)
	api.GET("/surveillance/notifications/:id", h.GetNotification)
	api.POST("/surveillance/notifications/:id/submit", h.SubmitNotification)

	api.POST("/surveillance/pharmaco", h.ReportPharmaco)
	api.GET("/surveillance/pharmaco", h.ListPharmaco)
	api.POST("/surveillance/pharmaco/:id/submit", h.SubmitPharmaco)

	api.POST("/surveillance/techno", h.ReportTechno)
	api.GET("/surveillance/techno", h.ListTechno)
	api.POST("/surveillance/techno/:id/submit", h.SubmitTechno)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListNotifiableEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, NotifiableEvents())
}

func (h *Handler) Notify(c echo.Context) error {
	var n Notification
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Notify(c.Request().Context(), &n); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	pg := pagination.FromContext(c)
	week, _ := strconv.Atoi(c.QueryParam("week"))
	year, _ := strconv.Atoi(c.QueryParam("year"))
	items, total, err := h.svc.ListNotifications(c.Request().Context(), week, year, c.QueryParam("event_code"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.svc.GetNotification(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) SubmitNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkNotificationSubmitted(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReportPharmaco(c echo.Context) error {
	var p PharmacoReport
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ReportPharmaco(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPharmaco(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := vigilanceFilter(c)
	items, total, err := h.svc.ListPharmaco(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SubmitPharmaco(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkPharmacoSubmitted(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReportTechno(c echo.Context) error {
	var tr TechnoReport
	if err := c.Bind(&tr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ReportTechno(c.Request().Context(), &tr); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, tr)
}

func (h *Handler) ListTechno(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := vigilanceFilter(c)
	items, total, err := h.svc.ListTechno(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) SubmitTechno(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkTechnoSubmitted(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func vigilanceFilter(c echo.Context) VigilanceFilter {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))
	return VigilanceFilter{Year: year, Month: month}
}
