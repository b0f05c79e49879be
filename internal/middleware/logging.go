package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/dutchpay/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", procedure,
				"user_id", GetUserID(ctx),
				"request_id", chimw.GetReqID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				slog.Warn("RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC error", append(attrs, "error", err)...)
			}
			return resp, err
		}
	}
}

// MetricsInterceptor records call counts and latency per procedure.
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRPC(req.Spec().Procedure, code, time.Since(start))
			return resp, err
		}
	}
}

// RequestLogger logs every HTTP request that reaches the router.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote_addr", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// CORS adds CORS headers for browser access.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
