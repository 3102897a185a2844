package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/huangsam/flowdash/core"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/labstack/echo/v4"
)

// handler holds common dependencies for the HTTP handlers.
type handler struct {
	baseCfg *contract.Config
	src     contract.DataSource
	mgr     contract.CacheManager
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// configFor clones the base config for one request: customer from the path,
// optional ?now=YYYY-MM-DD, ?scope_date= and ?locale= from the query.
func (h *handler) configFor(c echo.Context) (*contract.Config, error) {
	cfg := h.baseCfg.CloneWithCustomer(c.Param("customer")).WithCurrentTime(time.Now())

	if n := c.QueryParam("now"); n != "" {
		now, err := time.Parse(contract.DateFormat, n)
		if err != nil {
			return nil, fmt.Errorf("invalid now %q, expected YYYY-MM-DD", n)
		}
		cfg.Now = now
		cfg.NowPinned = true
	}
	if s := c.QueryParam("scope_date"); s != "" {
		field := schema.ScopeDateField(s)
		if _, ok := schema.ValidScopeDateFields[field]; !ok {
			return nil, fmt.Errorf("unknown scope_date %q", s)
		}
		cfg.ScopeDate = field
	}
	if l := c.QueryParam("locale"); l != "" {
		locale := schema.Locale(l)
		if _, ok := schema.ValidLocales[locale]; !ok {
			return nil, fmt.Errorf("unknown locale %q", l)
		}
		cfg.Locale = locale
	}
	return cfg, nil
}

// badRequest reports invalid request parameters.
func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid parameters", Message: err.Error()})
}

// pipelineError maps a pipeline failure to a status. Missing contracts are 404,
// everything else comes from the upstream fetch and is reported as 502.
func pipelineError(c echo.Context, err error) error {
	if errors.Is(err, core.ErrNoContract) {
		return c.JSON(http.StatusNotFound, errorBody{Error: "contract not found", Message: err.Error()})
	}
	return c.JSON(http.StatusBadGateway, errorBody{Error: "upstream fetch failed", Message: err.Error()})
}

func (h *handler) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) hoursBurnup(c echo.Context) error {
	cfg, err := h.configFor(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, _, err := core.GetHoursBurnupResults(core.WithSuppressHeader(c.Request().Context()), cfg, h.src, h.mgr)
	if err != nil {
		return pipelineError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) demandBurnup(c echo.Context) error {
	cfg, err := h.configFor(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, _, err := core.GetDemandBurnupResults(core.WithSuppressHeader(c.Request().Context()), cfg, h.src, h.mgr)
	if err != nil {
		return pipelineError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) leadTimes(c echo.Context) error {
	cfg, err := h.configFor(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, _, err := core.GetLeadTimeResults(core.WithSuppressHeader(c.Request().Context()), cfg, h.src, h.mgr)
	if err != nil {
		return pipelineError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) monthly(c echo.Context) error {
	cfg, err := h.configFor(c)
	if err != nil {
		return badRequest(c, err)
	}
	result, _, err := core.GetMonthlyResults(core.WithSuppressHeader(c.Request().Context()), cfg, h.src, h.mgr)
	if err != nil {
		return pipelineError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
