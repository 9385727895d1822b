package api

import (
	"time"

	models "FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
	"FlowLens/internal/services/features"
	"FlowLens/internal/usecase"
	xhttp "FlowLens/pkg/http"
	xlogger "FlowLens/pkg/logger"
	"FlowLens/pkg/util"

	"github.com/labstack/echo/v4"
)

// CandlesHandler serves raw stored candles.
type CandlesHandler struct {
	logger *xlogger.Logger
	uc     *usecase.CandlesUseCase
}

func NewCandlesHandler(logger *xlogger.Logger, uc *usecase.CandlesUseCase) *CandlesHandler {
	return &CandlesHandler{logger: logger, uc: uc}
}

func (h *CandlesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/candles", h.Candles)
}

func (h *CandlesHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	now := time.Now().UTC()
	from := util.ParseTimeDefault(req.From, now.Add(-6*time.Hour))
	to := util.ParseTimeDefault(req.To, now)
	from, to = features.AlignFromTo(from, to, string(tf))

	res, err := h.uc.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
