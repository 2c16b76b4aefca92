package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	participanthandler "golfbot/internal/participant/handler"
	"golfbot/internal/platform/health"
	"golfbot/internal/platform/metrics"
	"golfbot/pkg/platform/httputil"
	request "golfbot/pkg/platform/middleware/request"
)

// RootMessage is the body of GET /.
const RootMessage = "server is working!"

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Logger             *slog.Logger
	Participants       *participanthandler.Handler
	Health             *health.Handler
	Registry           *prometheus.Registry
	RequestTimeout     time.Duration
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(cfg.Logger))
	if cfg.Registry != nil {
		r.Use(request.LatencyMiddleware(request.NewMetrics(cfg.Registry)))
	}
	r.Use(request.CORS(cfg.CORSAllowedOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}
	if cfg.MaxBodyBytes > 0 {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteText(w, http.StatusOK, RootMessage)
	})
	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Registry))
	}
	cfg.Participants.Register(r)

	return r
}
