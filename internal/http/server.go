// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"budgetplan/internal/auth"
	"budgetplan/internal/cache"
	"budgetplan/internal/log"
	"budgetplan/internal/middleware/ratelimit"
	"budgetplan/internal/middleware/security"
	"budgetplan/internal/middleware/trace"
	"budgetplan/internal/services"
)

// Pinger reports storage health for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type contextKey string

const userIDKey contextKey = "user_id"

const sessionCookieName = "session"

type appMetrics struct {
	totalTransactions int64
	cacheHits         int64
	cacheMisses       int64
	uptime            time.Time
}

type Server struct {
	http.Server
	ledger   *services.LedgerService
	authSvc  *services.AuthService
	sessions *auth.SessionStore
	storage  Pinger
	logger   *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityHeaders  *security.HeadersMiddleware
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	// Per-user dashboard cache, invalidated on every write.
	dashboardCache *cache.LRUCache[services.Dashboard]
	cacheManager   *cache.Manager
	shutdownOnce   sync.Once

	appMetrics appMetrics
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, authSvc *services.AuthService, sessions *auth.SessionStore, storage Pinger, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	headersConfig := security.DefaultHeadersConfig()
	// JSON API: nothing is rendered, so lock the CSP down entirely.
	headersConfig.CSP = "default-src 'none'; frame-ancestors 'none'"

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		authSvc:          authSvc,
		sessions:         sessions,
		storage:          storage,
		logger:           logger.WithComponent(log.ComponentHTTP),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		securityHeaders:  security.NewHeadersMiddleware(headersConfig),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP),
		dashboardCache:   cache.NewLRUCache[services.Dashboard](500, time.Minute),
		cacheManager:     cache.NewManager(),
		appMetrics:       appMetrics{uptime: time.Now()},
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.requireAuth(s.handleSession))

	mux.HandleFunc("GET /api/budget", s.requireAuth(s.handleGetBudget))
	mux.HandleFunc("POST /api/budget", s.requireAuth(s.handleUpdateBudget))
	mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	chain := s.traceMiddleware.Middleware(
		s.securityHeaders.Middleware(
			s.detectSuspicious(
				s.rateLimiter.Middleware(detector.ExtractClientIP, nil)(mux))))
	s.Server.Handler = chain

	return s
}

// detectSuspicious flags requests matching known attack patterns. They
// are logged and counted, never blocked.
func (s *Server) detectSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.securityDetector.DetectSuspiciousRequest(r) {
			s.logger.Warn("Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.securityDetector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth resolves the session cookie and stores the user ID in the
// request context. Missing or expired sessions get a 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		userID, ok := s.sessions.Resolve(cookie.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func (s *Server) dashboardCacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Server) invalidateDashboard(userID int64) {
	s.dashboardCache.Delete(s.dashboardCacheKey(userID))
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		s.sessions.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) countTransaction() {
	atomic.AddInt64(&s.appMetrics.totalTransactions, 1)
}

func (s *Server) countCacheHit() {
	atomic.AddInt64(&s.appMetrics.cacheHits, 1)
}

func (s *Server) countCacheMiss() {
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)
}
