package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FlowLens/internal/domain/models"
	domrepo "FlowLens/internal/domain/repository"
)

// MarketReportUseCase assembles the composite report by fanning the three
// market engines out over the same candle window.
type MarketReportUseCase struct {
	svc      *AnalysisService
	timeout  time.Duration
	defaultN int
}

func NewMarketReportUseCase(svc *AnalysisService) *MarketReportUseCase {
	return &MarketReportUseCase{svc: svc, timeout: 10 * time.Second, defaultN: 200}
}

// SetLimits overrides the fan-out timeout and the default window size.
// Zero values keep the current setting.
func (uc *MarketReportUseCase) SetLimits(timeout time.Duration, defaultN int) {
	if timeout > 0 {
		uc.timeout = timeout
	}
	if defaultN > 0 {
		uc.defaultN = defaultN
	}
}

type GetReportParams struct {
	Symbol    string
	N         int
	Timeframe domrepo.Timeframe
}

// GetReport runs the profile, flow and structure engines concurrently.
// A failing engine lands in Errors; the others still report.
func (uc *MarketReportUseCase) GetReport(ctx context.Context, p GetReportParams) (*models.MarketReport, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = uc.defaultN
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.MarketReport{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		Timestamp: time.Now(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.svc.Profile(ctx, p.Symbol, p.N, p.Timeframe, false)
		ch <- item{"profile", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.svc.Flow(ctx, p.Symbol, p.N, p.Timeframe)
		ch <- item{"flow", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.svc.Structure(ctx, p.Symbol, p.N, p.Timeframe)
		ch <- item{"structure", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "profile":
			v := it.val.(models.VolumeProfile)
			res.Profile = &v
		case "flow":
			v := it.val.(models.OrderFlowReport)
			res.Flow = &v
		case "structure":
			v := it.val.(models.StructureReport)
			res.Structure = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
