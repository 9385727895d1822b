package usecase

import (
	"context"
	"testing"
	"time"

	"FlowLens/internal/domain/models"
)

type captureStorage struct {
	stored []*models.Candle
}

func (s *captureStorage) Init(context.Context) error { return nil }
func (s *captureStorage) Store(_ context.Context, c *models.Candle) error {
	s.stored = append(s.stored, c)
	return nil
}
func (s *captureStorage) StoreBatch(_ context.Context, cs []*models.Candle) error {
	s.stored = append(s.stored, cs...)
	return nil
}
func (s *captureStorage) Query(context.Context, string, time.Time, time.Time, int) ([]*models.Candle, error) {
	return nil, nil
}
func (s *captureStorage) Health(context.Context) error { return nil }
func (s *captureStorage) Close() error                 { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(string, string) {}
func (noopMetrics) RecordError(string)               {}
func (noopMetrics) RecordLastPrice(string, float64)  {}
func (noopMetrics) RecordLatency(string, float64)    {}

type captureQueue struct {
	types    []string
	payloads []interface{}
}

func (q *captureQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	q.types = append(q.types, msgType)
	q.payloads = append(q.payloads, payload)
	return nil
}

func TestKafkaCandlesHandlerStoresAndWarms(t *testing.T) {
	st := &captureStorage{}
	q := &captureQueue{}
	h := NewKafkaCandlesHandler("candles", "1m", st, noopMetrics{}, q)

	msg := []byte(`{"symbol":"BTCUSDT","t":1740000000,"o":100,"h":105,"l":99,"c":104,"v":12.5}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(st.stored) != 1 {
		t.Fatalf("stored %d candles", len(st.stored))
	}
	c := st.stored[0]
	if c.Symbol != "BTCUSDT" || c.Open != 100 || c.Close != 104 || c.Volume != 12.5 {
		t.Fatalf("candle = %+v", c)
	}
	if got := c.Time.Unix(); got != 1740000000 {
		t.Fatalf("time = %d", got)
	}

	if len(q.types) != 1 || q.types[0] != ReportWarmType {
		t.Fatalf("warm enqueue = %v", q.types)
	}
	p, ok := q.payloads[0].(ReportWarmPayload)
	if !ok || p.Symbol != "BTCUSDT" || p.TF != "1m" {
		t.Fatalf("warm payload = %#v", q.payloads[0])
	}
}

func TestKafkaCandlesHandlerMillisecondTimestamps(t *testing.T) {
	st := &captureStorage{}
	h := NewKafkaCandlesHandler("candles", "1m", st, noopMetrics{}, nil)

	msg := []byte(`{"symbol":"ETHUSDT","t":1740000000000,"o":1,"h":2,"l":1,"c":2,"v":3}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got := st.stored[0].Time.Unix(); got != 1740000000 {
		t.Fatalf("time = %d, want seconds folded from ms", got)
	}
}

func TestKafkaCandlesHandlerBadPayload(t *testing.T) {
	h := NewKafkaCandlesHandler("candles", "1m", &captureStorage{}, noopMetrics{}, nil)
	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
