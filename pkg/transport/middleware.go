package transport

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/raywall/livros-api/pkg/metrics"
	"github.com/raywall/livros-api/pkg/responder"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição
const ContextKeyCorrID ctxKey = "correlation_id"

// Chain aplica, de fora para dentro: recovery, observabilidade e CORS
func Chain(next http.Handler, provider metrics.Provider) http.Handler {
	return RecoveryMiddleware(ObservabilityMiddleware(provider)(CORSMiddleware(next)))
}

// CorrelationID devolve o id propagado pela ObservabilityMiddleware
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

// CORSMiddleware libera todas as origens, como o cors() padrão do express
func CORSMiddleware(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{HeaderCorrelationID, HeaderLatency},
	}).Handler(next)
}

// RecoveryMiddleware converte panics em 500 com o envelope de erros
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic durante a requisição")

			responder.Errors(w, http.StatusInternalServerError, responder.ErrorItem{
				Value: fmt.Sprint(rec),
				Msg:   "Erro interno no servidor",
				Param: "internal",
			})
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, strconv.FormatInt(duration.Milliseconds(), 10))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// ObservabilityMiddleware propaga o correlation id, mede a latência,
// registra o log da requisição e envia as métricas.
func ObservabilityMiddleware(provider metrics.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := log.With().Str("correlation_id", corrID).Logger()
			ctx := logger.WithContext(r.Context())
			ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				startTime:      start,
			}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			latency := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Int64("latency_ms", latency.Milliseconds()).
				Msg("request completed")

			if provider == nil {
				return
			}
			tags := []string{
				"method:" + r.Method,
				"status:" + strconv.Itoa(wrapper.statusCode),
			}
			if err := provider.Count(metrics.RequestCount, 1, tags); err != nil {
				logger.Warn().Err(err).Msg("falha ao enviar métrica")
			}
			_ = provider.Histogram(metrics.RequestDuration, float64(latency.Milliseconds()), tags)
		})
	}
}
