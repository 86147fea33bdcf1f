package http

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
	appweb "fintrack/web"
)

// Ports to the remote backend. *api.Client satisfies all of them; handler
// tests substitute fakes.
type (
	AuthService interface {
		Login(ctx context.Context, username, password string) (string, error)
		Register(ctx context.Context, reg api.Registration) (string, error)
		Logout(ctx context.Context, token string) error
	}

	ProfileService interface {
		Profile(ctx context.Context, token string) (core.UserProfile, error)
		UploadAvatar(ctx context.Context, token, filename string, file io.Reader) (string, error)
	}

	TransactionService interface {
		ListTransactions(ctx context.Context, token string, txType core.TransactionType) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, token string, in api.CreateTransactionInput) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, token string, id int64) error
		Categories(ctx context.Context, token string) ([]string, error)
		Summary(ctx context.Context, token string) (core.Summary, error)
	}

	SessionStore interface {
		Create(ctx context.Context, token string) (session.Session, error)
		Get(ctx context.Context, id string) (session.Session, error)
		Delete(ctx context.Context, id string) error
	}
)

const (
	sessionCookieName = "fintrack_session"
	sessionCookieAge  = 180 * 24 * time.Hour
)

type Server struct {
	http.Server
	templates    *template.Template
	auth         AuthService
	profiles     ProfileService
	transactions TransactionService
	sessions     SessionStore
	secureCookie bool

	authLimiter *rateLimiter

	// Per-session transaction view-state. A miss triggers a full load; a
	// hit lets create/delete apply optimistic updates without a re-fetch.
	ledgerCache *cache.Cache[*core.Ledger]

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, auth AuthService, profiles ProfileService, transactions TransactionService, sessions SessionStore, secureCookie bool) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:         auth,
		profiles:     profiles,
		transactions: transactions,
		sessions:     sessions,
		secureCookie: secureCookie,
		authLimiter:  newRateLimiter(),
		ledgerCache:  cache.New[*core.Ledger](512, 30*time.Minute),
		stopCleanup:  make(chan struct{}),
	}

	go s.runCacheCleanup()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.withRequest(s.handleIndex))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /login", s.withRequest(s.handleLoginForm))
	mux.HandleFunc("POST /login", s.withRequest(s.handleLogin))
	mux.HandleFunc("GET /register", s.withRequest(s.handleRegisterForm))
	mux.HandleFunc("POST /register", s.withRequest(s.handleRegister))
	mux.HandleFunc("POST /logout", s.withRequest(s.withSession(s.handleLogout)))

	mux.HandleFunc("GET /profile", s.withRequest(s.withSession(s.handleProfile)))
	mux.HandleFunc("POST /profile/avatar", s.withRequest(s.withSession(s.handleAvatarUpload)))

	mux.HandleFunc("GET /income", s.withRequest(s.withSession(s.transactionsPage(core.Income))))
	mux.HandleFunc("GET /expenses", s.withRequest(s.withSession(s.transactionsPage(core.Expense))))
	mux.HandleFunc("POST /transactions", s.withRequest(s.withSession(s.handleCreateTransaction)))
	mux.HandleFunc("POST /transactions/{id}/delete", s.withRequest(s.withSession(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /analytics", s.withRequest(s.withSession(s.handleAnalytics)))

	return s
}

// withRequest adds security headers, a request ID, and request logging.
func (s *Server) withRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src * data:; connect-src 'self'")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP(r))
	}
}

// withSession resolves the session cookie and threads the session into the
// handler. A missing or unknown session redirects to the login view without
// touching the backend.
func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			s.redirect(w, r, "/login")
			return
		}
		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			s.redirect(w, r, "/login")
			return
		}
		next(w, r, sess)
	}
}

// expireSession reacts to a 401/403 from the backend: the stored session is
// gone or stale, so drop it and send the user back to the login view.
func (s *Server) expireSession(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete rejected session", applog.FieldSessionID, sess.ID, applog.FieldError, err)
	}
	s.clearSessionCookie(w)
	s.redirect(w, r, "/login")
}

// redirect honors HTMX requests with an HX-Redirect header so partial swaps
// turn into full navigations.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if _, err := s.sessions.Get(r.Context(), cookie.Value); err == nil {
			s.redirect(w, r, "/expenses")
			return
		}
	}
	s.redirect(w, r, "/login")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) runCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.ledgerCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Ledger cache cleanup", "entries_removed", cleaned)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
		s.authLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
