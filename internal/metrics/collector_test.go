package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter_Inc(t *testing.T) {
	c := NewCollector()
	ctr := c.Counter("test_total", "help")
	ctr.Inc()
	ctr.Add(2)
	if ctr.Value() != 3 {
		t.Errorf("expected 3, got %d", ctr.Value())
	}
}

func TestCounter_SameNameSameCounter(t *testing.T) {
	c := NewCollector()
	a := c.Counter("dup_total", "help")
	b := c.Counter("dup_total", "help")
	a.Inc()
	if b.Value() != 1 {
		t.Error("counters with the same name must share state")
	}
}

func TestHistogram_Observe(t *testing.T) {
	c := NewCollector()
	h := c.Histogram("lat_seconds", "help", []float64{1, 5})
	h.Observe(0.5)
	h.Observe(3)
	h.Observe(100)
	if h.Count() != 3 {
		t.Errorf("expected 3 observations, got %d", h.Count())
	}
}

func TestHandler_Exposition(t *testing.T) {
	c := NewCollector()
	c.Counter("requests_total", "Total requests").Add(7)
	c.Histogram("lat_seconds", "Latency", []float64{1}).Observe(0.2)

	rr := httptest.NewRecorder()
	c.Handler()(rr, httptest.NewRequest("GET", "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		"sparkbot_uptime_seconds",
		"requests_total 7",
		"# TYPE requests_total counter",
		`lat_seconds_bucket{le="1"} 1`,
		`lat_seconds_bucket{le="+Inf"} 1`,
		"lat_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q\n%s", want, body)
		}
	}
}
