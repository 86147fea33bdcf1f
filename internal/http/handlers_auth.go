package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/api"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
)

type loginPageData struct {
	Error    string
	Username string
}

type registerPageData struct {
	Error     string
	Username  string
	Email     string
	FirstName string
	LastName  string
	BirthDate string
	Gender    string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", loginPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.authLimiter.allow(ip) {
		slog.WarnContext(r.Context(), "Login rate limit exceeded", applog.FieldClientIP, ip)
		s.render(w, r, http.StatusTooManyRequests, "login.html", loginPageData{
			Error: "Too many attempts. Wait a minute and try again.",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", loginPageData{
			Error: "Invalid request format",
		})
		return
	}

	username := sanitizeInput(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", loginPageData{
			Error:    "Enter both username and password.",
			Username: username,
		})
		return
	}

	token, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", applog.FieldUsername, username, applog.FieldClientIP, ip)
		s.render(w, r, http.StatusUnauthorized, "login.html", loginPageData{
			Error:    api.UserMessage(err),
			Username: username,
		})
		return
	}

	sess, err := s.sessions.Create(r.Context(), token)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to store session", applog.FieldError, err)
		s.render(w, r, http.StatusInternalServerError, "login.html", loginPageData{
			Error:    "Something went wrong. Try again.",
			Username: username,
		})
		return
	}

	slog.InfoContext(r.Context(), "User logged in", applog.FieldUsername, username, applog.FieldSessionID, sess.ID)
	s.setSessionCookie(w, sess.ID)
	s.redirect(w, r, "/expenses")
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", registerPageData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.authLimiter.allow(ip) {
		slog.WarnContext(r.Context(), "Register rate limit exceeded", applog.FieldClientIP, ip)
		s.render(w, r, http.StatusTooManyRequests, "register.html", registerPageData{
			Error: "Too many attempts. Wait a minute and try again.",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "register.html", registerPageData{
			Error: "Invalid request format",
		})
		return
	}

	data := registerPageData{
		Username:  sanitizeInput(r.PostForm.Get("username")),
		Email:     sanitizeInput(r.PostForm.Get("email")),
		FirstName: sanitizeInput(r.PostForm.Get("first_name")),
		LastName:  sanitizeInput(r.PostForm.Get("last_name")),
		BirthDate: sanitizeInput(r.PostForm.Get("birth_date")),
		Gender:    sanitizeInput(r.PostForm.Get("gender")),
	}
	password := r.PostForm.Get("password")

	if data.Username == "" || data.Email == "" || password == "" {
		data.Error = "Username, email and password are required."
		s.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	reg := api.Registration{
		Username:  data.Username,
		Email:     data.Email,
		Password:  password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		BirthDate: data.BirthDate,
		Gender:    data.Gender,
	}

	token, err := s.auth.Register(r.Context(), reg)
	if err != nil {
		slog.WarnContext(r.Context(), "Registration failed", applog.FieldUsername, data.Username, applog.FieldClientIP, ip)
		data.Error = api.UserMessage(err)
		s.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	sess, err := s.sessions.Create(r.Context(), token)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to store session", applog.FieldError, err)
		data.Error = "Account created, but sign-in failed. Use the login page."
		s.render(w, r, http.StatusInternalServerError, "register.html", data)
		return
	}

	slog.InfoContext(r.Context(), "User registered", applog.FieldUsername, data.Username, applog.FieldSessionID, sess.ID)
	s.setSessionCookie(w, sess.ID)
	s.redirect(w, r, "/expenses")
}

// handleLogout drops the local session even when the backend revocation fails.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.auth.Logout(r.Context(), sess.Token); err != nil {
		slog.WarnContext(r.Context(), "Backend logout failed", applog.FieldSessionID, sess.ID, applog.FieldError, err)
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete session", applog.FieldSessionID, sess.ID, applog.FieldError, err)
	}
	s.clearSessionCookie(w)
	slog.InfoContext(r.Context(), "User logged out", applog.FieldSessionID, sess.ID)
	s.redirect(w, r, "/login")
}
