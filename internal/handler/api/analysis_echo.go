package api

import (
	"encoding/json"
	"time"

	models "FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
	icache "FlowLens/internal/service/cache"
	"FlowLens/internal/service/metrics"
	"FlowLens/internal/service/ratelimit"
	"FlowLens/internal/usecase"
	xhttp "FlowLens/pkg/http"
	xlogger "FlowLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler exposes the analytic engines over HTTP. Market reads are
// cached for a short TTL and token-bucket limited per client.
type AnalysisHandler struct {
	logger      *xlogger.Logger
	svc         *usecase.AnalysisService
	report      *usecase.MarketReportUseCase
	cache       icache.BytesCache
	rl          *ratelimit.Limiter
	analysisTTL time.Duration
	reportTTL   time.Duration
}

func NewAnalysisHandler(logger *xlogger.Logger, svc *usecase.AnalysisService, report *usecase.MarketReportUseCase) *AnalysisHandler {
	metrics.Register()
	return &AnalysisHandler{
		logger:      logger,
		svc:         svc,
		report:      report,
		rl:          ratelimit.New(),
		analysisTTL: 30 * time.Second,
		reportTTL:   60 * time.Second,
	}
}

// SetCache injects the response byte cache.
func (h *AnalysisHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTLs overrides the response cache lifetimes. Zero values keep
// the current setting.
func (h *AnalysisHandler) SetCacheTTLs(analysis, report time.Duration) {
	if analysis > 0 {
		h.analysisTTL = analysis
	}
	if report > 0 {
		h.reportTTL = report
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/profile", h.Profile)
	g.GET("/flow", h.Flow)
	g.GET("/structure", h.Structure)
	g.GET("/report", h.Report)
	g.POST("/risk", h.Risk)
}

// cached responds from the byte cache when possible; compute must return
// the payload to cache and serve on a miss.
func (h *AnalysisHandler) cached(c echo.Context, endpoint, key string, ttl time.Duration, compute func() (interface{}, error)) error {
	start := time.Now()
	defer func() { metrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		h.logger.Warn(endpoint+" rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(key); err != nil {
			h.logger.Warn(endpoint+" cache_get_error", xlogger.Error(err))
		} else if ok {
			metrics.CacheHits.WithLabelValues(endpoint).Inc()
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	res, err := compute()
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(key, b, ttl); err != nil {
				h.logger.Warn(endpoint+" cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Profile(c echo.Context) error {
	req := &models.ProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	key := icache.ProfileKey(req.Symbol, string(tf), req.N, req.Detailed)
	return h.cached(c, "profile", key, h.analysisTTL, func() (interface{}, error) {
		return h.svc.Profile(c.Request().Context(), req.Symbol, req.N, tf, req.Detailed)
	})
}

func (h *AnalysisHandler) Flow(c echo.Context) error {
	req := &models.FlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	key := icache.FlowKey(req.Symbol, string(tf), req.N)
	return h.cached(c, "flow", key, h.analysisTTL, func() (interface{}, error) {
		return h.svc.Flow(c.Request().Context(), req.Symbol, req.N, tf)
	})
}

func (h *AnalysisHandler) Structure(c echo.Context) error {
	req := &models.StructureRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	key := icache.StructureKey(req.Symbol, string(tf), req.N)
	return h.cached(c, "structure", key, h.analysisTTL, func() (interface{}, error) {
		return h.svc.Structure(c.Request().Context(), req.Symbol, req.N, tf)
	})
}

func (h *AnalysisHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)
	key := icache.ReportKey(req.Symbol, string(tf), req.N)
	return h.cached(c, "report", key, h.reportTTL, func() (interface{}, error) {
		return h.report.GetReport(c.Request().Context(), usecase.GetReportParams{
			Symbol: req.Symbol, N: req.N, Timeframe: tf,
		})
	})
}

// Risk is uncached: sizing depends on caller-supplied parameters.
func (h *AnalysisHandler) Risk(c echo.Context) error {
	start := time.Now()
	endpoint := "risk"
	defer func() { metrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	res, err := h.svc.Risk(c.Request().Context(), req.Params(), req.N, tf)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("risk usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
