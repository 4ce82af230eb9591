package metrics

// Provider define o contrato para envio de métricas.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pela API (prefixadas pelo namespace do statsd)
const (
	RequestCount    = "http.requests"
	RequestDuration = "http.request.duration_ms"
)
