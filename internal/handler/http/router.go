package http_handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bankdemo/internal/app/accounts"
	"bankdemo/internal/app/transactions"
	accounts_http "bankdemo/internal/handler/http/accounts"
	transactions_http "bankdemo/internal/handler/http/transactions"
	"bankdemo/internal/httputil"
)

const APIPrefix = "/api/v1"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(
	cfg RouterConfig,
	accountService accounts.AccountService,
	logService transactions.TransactionLogService,
	pinger Pinger,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLogger(logger.With(zap.String("component", "HTTPAccessLog"))))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler(pinger, logger))

	r.Route(APIPrefix, func(r chi.Router) {
		accounts_http.RegisterRoutes(r, accountService, logger)
		transactions_http.RegisterRoutes(r, logService, logger)
	})

	return r
}

func healthHandler(pinger Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if pinger != nil {
			if err := pinger.PingContext(ctx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				httputil.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		httputil.WriteJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
