package metrics

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric family names.
const (
	RequestsTotal = "creditscore_requests_total"
	ScoreLast     = "creditscore_score_last"
)

type requestKey struct {
	endpoint string
	code     int
}

// Registry accumulates request outcomes per endpoint.
type Registry struct {
	mu        sync.Mutex
	requests  map[requestKey]float64
	lastScore map[string]float64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		requests:  make(map[requestKey]float64),
		lastScore: make(map[string]float64),
	}
}

// ObserveRequest counts one response with the given status code.
func (r *Registry) ObserveRequest(endpoint string, code int) {
	r.mu.Lock()
	r.requests[requestKey{endpoint: endpoint, code: code}]++
	r.mu.Unlock()
}

// ObserveScore records the most recent score served by endpoint.
func (r *Registry) ObserveScore(endpoint string, score int) {
	r.mu.Lock()
	r.lastScore[endpoint] = float64(score)
	r.mu.Unlock()
}

// Gather snapshots the registry as Prometheus metric families.
func (r *Registry) Gather() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	reqKeys := make([]requestKey, 0, len(r.requests))
	for k := range r.requests {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].endpoint != reqKeys[j].endpoint {
			return reqKeys[i].endpoint < reqKeys[j].endpoint
		}
		return reqKeys[i].code < reqKeys[j].code
	})

	reqs := newFamily(RequestsTotal, "Scoring API responses by endpoint and status code.", dto.MetricType_COUNTER)
	for _, k := range reqKeys {
		v := r.requests[k]
		reqs.Metric = append(reqs.Metric, &dto.Metric{
			Label:   labels("endpoint", k.endpoint, "code", strconv.Itoa(k.code)),
			Counter: &dto.Counter{Value: &v},
		})
	}

	endpoints := make([]string, 0, len(r.lastScore))
	for ep := range r.lastScore {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	last := newFamily(ScoreLast, "Most recent credit score served per endpoint.", dto.MetricType_GAUGE)
	for _, ep := range endpoints {
		v := r.lastScore[ep]
		last.Metric = append(last.Metric, &dto.Metric{
			Label: labels("endpoint", ep),
			Gauge: &dto.Gauge{Value: &v},
		})
	}

	var out []*dto.MetricFamily
	for _, mf := range []*dto.MetricFamily{reqs, last} {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

// ServeHTTP writes the registry in the Prometheus text format.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range r.Gather() {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics: encode family", "family", mf.GetName(), "err", err)
			return
		}
	}
}

func newFamily(name, help string, typ dto.MetricType) *dto.MetricFamily {
	return &dto.MetricFamily{Name: &name, Help: &help, Type: typ.Enum()}
}

// labels builds label pairs from alternating name/value arguments.
func labels(kv ...string) []*dto.LabelPair {
	out := make([]*dto.LabelPair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name, value := kv[i], kv[i+1]
		out = append(out, &dto.LabelPair{Name: &name, Value: &value})
	}
	return out
}
