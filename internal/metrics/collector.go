// Package metrics is a small Prometheus-compatible collector. It renders
// text exposition format itself instead of pulling in client_golang.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates the bot's counters and histograms.
type Collector struct {
	mu         sync.Mutex
	counters   map[string]*Counter
	histograms map[string]*Histogram
	startTime  time.Time
}

// Default is the process-wide collector.
var Default = NewCollector()

func NewCollector() *Collector {
	return &Collector{
		counters:   make(map[string]*Counter),
		histograms: make(map[string]*Histogram),
		startTime:  time.Now(),
	}
}

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

func (c *Counter) Inc()         { c.value.Add(1) }
func (c *Counter) Add(n int64)  { c.value.Add(n) }
func (c *Counter) Value() int64 { return c.value.Load() }

// Histogram tracks a value distribution over fixed buckets.
type Histogram struct {
	name    string
	help    string
	mu      sync.Mutex
	count   int64
	sum     float64
	bounds  []float64
	buckets []int64
}

// Observe records one value.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i, le := range h.bounds {
		if v <= le {
			h.buckets[i]++
		}
	}
}

// Count returns the number of observations.
func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Counter returns or creates a counter.
func (c *Collector) Counter(name, help string) *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctr, ok := c.counters[name]; ok {
		return ctr
	}
	ctr := &Counter{name: name, help: help}
	c.counters[name] = ctr
	return ctr
}

// Histogram returns or creates a histogram with the given bucket bounds.
func (c *Collector) Histogram(name, help string, bounds []float64) *Histogram {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.histograms[name]; ok {
		return h
	}
	sort.Float64s(bounds)
	h := &Histogram{name: name, help: help, bounds: bounds, buckets: make([]int64, len(bounds))}
	c.histograms[name] = h
	return h
}

// Handler renders the collector in Prometheus text exposition format.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var sb strings.Builder
		fmt.Fprintf(&sb, "# HELP sparkbot_uptime_seconds Time since start in seconds\n")
		fmt.Fprintf(&sb, "# TYPE sparkbot_uptime_seconds gauge\n")
		fmt.Fprintf(&sb, "sparkbot_uptime_seconds %d\n", int64(time.Since(c.startTime).Seconds()))

		c.mu.Lock()
		counters := make([]*Counter, 0, len(c.counters))
		for _, ctr := range c.counters {
			counters = append(counters, ctr)
		}
		histograms := make([]*Histogram, 0, len(c.histograms))
		for _, h := range c.histograms {
			histograms = append(histograms, h)
		}
		c.mu.Unlock()

		sort.Slice(counters, func(i, j int) bool { return counters[i].name < counters[j].name })
		for _, ctr := range counters {
			fmt.Fprintf(&sb, "# HELP %s %s\n", ctr.name, ctr.help)
			fmt.Fprintf(&sb, "# TYPE %s counter\n", ctr.name)
			fmt.Fprintf(&sb, "%s %d\n", ctr.name, ctr.Value())
		}

		sort.Slice(histograms, func(i, j int) bool { return histograms[i].name < histograms[j].name })
		for _, h := range histograms {
			h.mu.Lock()
			fmt.Fprintf(&sb, "# HELP %s %s\n", h.name, h.help)
			fmt.Fprintf(&sb, "# TYPE %s histogram\n", h.name)
			for i, le := range h.bounds {
				fmt.Fprintf(&sb, "%s_bucket{le=\"%g\"} %d\n", h.name, le, h.buckets[i])
			}
			fmt.Fprintf(&sb, "%s_bucket{le=\"+Inf\"} %d\n", h.name, h.count)
			fmt.Fprintf(&sb, "%s_count %d\n", h.name, h.count)
			fmt.Fprintf(&sb, "%s_sum %f\n", h.name, h.sum)
			h.mu.Unlock()
		}

		fmt.Fprint(w, sb.String())
	}
}

// Metrics used across the bot.
var (
	WebhookRequests   = Default.Counter("sparkbot_webhook_requests_total", "Total inbound webhook requests")
	IntentsMatched    = Default.Counter("sparkbot_intents_matched_total", "Total messages matched to an intent")
	RepliesDispatched = Default.Counter("sparkbot_replies_dispatched_total", "Total replies posted back to a room")
	PipelineFailures  = Default.Counter("sparkbot_pipeline_failures_total", "Total webhook requests that ended in a failure")

	RequestLatency = Default.Histogram("sparkbot_request_latency_seconds", "Webhook request handling latency in seconds",
		[]float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10})
)
