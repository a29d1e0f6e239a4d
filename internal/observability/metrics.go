package observability

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/edugen-backend/internal/platform/envutil"
)

// Metrics holds the process wide counters exposed in Prometheus text format.
type Metrics struct {
	stageDuration *HistogramVec
	stageRuns     *CounterVec
	artifacts     *CounterVec
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the initialized metrics, or nil when Init has not run.
// Every Observe method is nil-safe.
func Current() *Metrics {
	return instance
}

func Init() *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics()
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		stageDuration: NewHistogramVec("edugen_pipeline_stage_seconds", "Pipeline stage duration in seconds", []string{"stage", "status"},
			[]float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}),
		stageRuns: NewCounterVec("edugen_pipeline_stage_total", "Pipeline stage executions", []string{"stage", "status"}),
		artifacts: NewCounterVec("edugen_artifacts_total", "Media artifacts written", []string{"kind"}),
		apiRequests: NewCounterVec("edugen_api_requests_total", "HTTP API requests", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("edugen_api_request_seconds", "HTTP API latency in seconds", []string{"method", "route"}, nil),
	}
}

func (m *Metrics) ObserveStage(stage, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.stageRuns.Inc(stage, status)
	if dur > 0 {
		m.stageDuration.Observe(dur.Seconds(), stage, status)
	}
}

func (m *Metrics) AddArtifacts(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.artifacts.Add(float64(n), kind)
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := m.WritePrometheus(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.stageRuns, m.stageDuration, m.artifacts, m.apiRequests, m.apiLatency,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl] += v
	c.mu.Unlock()
}

func (c *CounterVec) Value(values ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[labelString(c.labelNames, values)]
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", c.name, c.help, c.name); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range sortedKeys(c.values) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", c.name, k, c.values[k]); err != nil {
			return err
		}
	}
	return nil
}

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogram
}

type histogram struct {
	counts []uint64
	sum    float64
	total  uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	}
	return &HistogramVec{name: name, help: help, labelNames: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[lbl]
	if !ok {
		hist = &histogram{counts: make([]uint64, len(h.buckets))}
		h.values[lbl] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range h.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.values))
	for k := range h.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := h.values[k]
		for i, b := range h.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), v.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n%s_sum%s %g\n%s_count%s %d\n",
			h.name, withLe(k, "+Inf"), v.total, h.name, k, v.sum, h.name, k, v.total); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		val := "unknown"
		if i < len(values) && values[i] != "" {
			val = values[i]
		}
		b.WriteString(name)
		b.WriteString("=\"")
		b.WriteString(escapeLabel(val))
		b.WriteString("\"")
	}
	b.WriteString("}")
	return b.String()
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "\"", "\\\"")
	return strings.ReplaceAll(v, "\n", "\\n")
}

func withLe(labels string, le string) string {
	if labels == "" {
		return "{le=\"" + le + "\"}"
	}
	return strings.TrimSuffix(labels, "}") + ",le=\"" + le + "\"}"
}
