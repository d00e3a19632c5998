// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog).
  - Guard: Rate limiting, CORS, and bearer-token authentication.
  - Safe: Panic recovery to prevent server crashes.
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/bizdesk/internal/platform/constants"
	"github.com/taibuivan/bizdesk/internal/platform/ctxutil"
	"github.com/taibuivan/bizdesk/pkg/uuid"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Reuse a well-formed client-supplied ID, otherwise mint one.
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" || len(requestID) > 64 {
				requestID = uuid.New()
			}

			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

// responseRecorder captures what the handler wrote for the access log.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *responseRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseRecorder) Write(body []byte) (int, error) {
	written, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += written
	return written, err
}

// probePaths are polled by orchestrators and logged at debug level only.
var probePaths = map[string]struct{}{"/health": {}, "/ready": {}, "/metrics": {}}

// StructuredLogger writes one http_request_finished line per request and
// injects a request-scoped logger into the context for handlers to use.
//
// The level follows the status: error for 5xx, warn for 4xx, info otherwise.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &responseRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch _, probe := probePaths[request.URL.Path]; {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			case probe:
				level = slog.LevelDebug
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Rate Limiting

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters holds one token bucket per client IP.
type ipLimiters struct {
	mu      sync.Mutex
	clients map[string]*ipLimiter
	limit   rate.Limit
	burst   int
}

// reserve takes a token for ip and returns how long the caller must wait
// when none is available. Zero means the request may proceed.
func (l *ipLimiters) reserve(ip string, now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, found := l.clients[ip]
	if !found {
		client = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return time.Second
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return delay
	}
	return 0
}

func (l *ipLimiters) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, client := range l.clients {
		if now.Sub(client.lastSeen) > constants.RateLimitClientTTL {
			delete(l.clients, ip)
		}
	}
}

// RateLimit limits requests per IP using the token bucket algorithm.
//
// Rejected requests get a 429 whose Retry-After is the bucket's refill delay.
// Idle entries are swept until ctx is cancelled.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := &ipLimiters{
		clients: make(map[string]*ipLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				limiters.sweep(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wait := limiters.reserve(RealIP(request), time.Now())
			if wait > 0 {
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeError(writer, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery turns a handler panic into a 500 envelope and logs the stack.
//
// [http.ErrAbortHandler] is re-raised so net/http can abort the connection.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				requestLogger := ctxutil.GetLogger(request.Context())
				if requestLogger == slog.Default() {
					requestLogger = logger
				}
				requestLogger.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				writeError(writer, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
}

// CORS handles Cross-Origin Resource Sharing based on application environment.
//
// In development every origin is allowed; otherwise only bizdesk.app
// subdomains and the comma-separated extraOrigins are.
func CORS(cfg AppConfig, extraOrigins string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	for _, origin := range strings.Split(extraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			_, isListed := allowed[origin]
			isAllowed := cfg.IsDevelopment() || isListed || strings.HasSuffix(origin, ".bizdesk.app")

			if isAllowed {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", "Origin")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Client Address

/*
ClientIP resolves the caller address once per request and stores it for [RealIP].

Description: X-Real-IP and X-Forwarded-For are honored only when the TCP peer
is inside one of trusted. X-Forwarded-For is walked right to left and the
first hop outside trusted wins. A request from any other peer is attributed
to the peer itself.
*/
func ClientIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithClientIP(request.Context(), resolveClientIP(request, trusted))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func resolveClientIP(request *http.Request, trusted []netip.Prefix) string {
	peer := peerHost(request)
	if !isTrusted(peer, trusted) {
		return peer
	}

	if realIP, ok := parseIP(request.Header.Get(constants.HeaderXRealIP)); ok {
		return realIP
	}

	hops := strings.Split(request.Header.Get(constants.HeaderXForwardedFor), ",")
	resolved := peer
	for index := len(hops) - 1; index >= 0; index-- {
		hop, ok := parseIP(hops[index])
		if !ok {
			break
		}
		resolved = hop
		if !isTrusted(hop, trusted) {
			break
		}
	}
	return resolved
}

func parseIP(raw string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// # Middleware Helpers

// RealIP returns the caller address resolved by [ClientIP], or the TCP peer
// when that middleware did not run.
func RealIP(request *http.Request) string {
	if ip := ctxutil.GetClientIP(request.Context()); ip != "" {
		return ip
	}
	return peerHost(request)
}

func peerHost(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// writeError outputs a JSON error payload using the respond envelope shape.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]any{
		constants.FieldSuccess: false,
		constants.FieldCode:    code,
		constants.FieldError:   message,
	})
}
