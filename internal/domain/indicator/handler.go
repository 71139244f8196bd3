package indicator

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
	api.POST("/indicators", h.CreateIndicator)
	api.GET("/indicators", h.ListIndicators)
	api.GET("/indicators/:id", h.GetIndicator)
	api.PUT("/indicators/:id", h.UpdateIndicator)

	api.POST("/indicators/:id/measurements", h.RegisterMeasurement)
	api.GET("/indicators/:id/measurements/:period", h.GetMeasurement)
	api.GET("/indicators/:id/trend", h.Trend)
	api.POST("/indicators/measurements/mark-reported", h.MarkReported)
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

func (h *Handler) CreateIndicator(c echo.Context) error {
	var ind Indicator
	if err := c.Bind(&ind); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateIndicator(c.Request().Context(), &ind); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, ind)
}

func (h *Handler) ListIndicators(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.ListIndicators(c.Request().Context(), activeOnly, c.QueryParam("domain"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetIndicator(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ind, err := h.svc.GetIndicator(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ind)
}

func (h *Handler) UpdateIndicator(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ind Indicator
	if err := c.Bind(&ind); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ind.ID = id
	if err := h.svc.UpdateIndicator(c.Request().Context(), &ind); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ind)
}

func (h *Handler) RegisterMeasurement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Measurement
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.IndicatorID = id
	if err := h.svc.RegisterMeasurement(c.Request().Context(), &m); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMeasurement(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMeasurement(c.Request().Context(), id, c.Param("period"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Trend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, _ := strconv.Atoi(c.QueryParam("n"))
	items, err := h.svc.Trend(c.Request().Context(), id, n)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkReported(c echo.Context) error {
	var body struct {
		Period string `json:"period"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	count, err := h.svc.MarkReported(c.Request().Context(), body.Period)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"marked": count})
}
