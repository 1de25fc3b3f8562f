package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels used by the refresh, command and recovery counters.
const (
	ResultSuccess      = "success"
	ResultFailed       = "failed"
	ResultNoop         = "noop"
	ResultPrecondition = "precondition"
	ResultAttempt      = "attempt"
)

// Recorder holds the bridge's Prometheus collectors.
type Recorder struct {
	registry       *prom.Registry
	refreshResults *prom.CounterVec
	commands       *prom.CounterVec
	recoveries     *prom.CounterVec
	cachePopulated prom.Gauge
}

// NewRecorder constructs the collectors and registers them on the provided
// registry, or on a fresh private one when nil is given.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{
		registry: reg,
		refreshResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sentra_bridge",
			Name:      "refresh_results_total",
			Help:      "Panel state refresh attempts by outcome",
		}, []string{"result"}),
		commands: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sentra_bridge",
			Name:      "commands_total",
			Help:      "Arming commands by requested state and outcome",
		}, []string{"command", "result"}),
		recoveries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sentra_bridge",
			Name:      "recoveries_total",
			Help:      "Recovery attempts by outcome",
		}, []string{"result"}),
		cachePopulated: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sentra_bridge",
			Name:      "cache_populated",
			Help:      "Whether the snapshot cache currently holds a fresh entry",
		}),
	}

	reg.MustRegister(
		r.refreshResults,
		r.commands,
		r.recoveries,
		r.cachePopulated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// IncRefresh counts one refresh attempt by outcome.
func (r *Recorder) IncRefresh(result string) {
	if r == nil || r.refreshResults == nil {
		return
	}

	r.refreshResults.WithLabelValues(result).Inc()
}

// IncCommand counts one arming command by requested state and outcome.
func (r *Recorder) IncCommand(command, result string) {
	if r == nil || r.commands == nil {
		return
	}

	r.commands.WithLabelValues(command, result).Inc()
}

// IncRecovery counts one recovery attempt by outcome.
func (r *Recorder) IncRecovery(result string) {
	if r == nil || r.recoveries == nil {
		return
	}

	r.recoveries.WithLabelValues(result).Inc()
}

// SetCachePopulated reflects whether the cache currently holds an entry.
func (r *Recorder) SetCachePopulated(populated bool) {
	if r == nil || r.cachePopulated == nil {
		return
	}

	value := 0.0
	if populated {
		value = 1.0
	}

	r.cachePopulated.Set(value)
}

// Handler serves the recorder's registry over HTTP.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.registry == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
