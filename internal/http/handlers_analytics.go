package http

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/api"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
)

type analyticsPageData struct {
	PeriodStart string
	PeriodEnd   string
	Income      string
	Expenses    string
	Net         string
	Balance     string
	Error       string
}

// handleAnalytics fetches the period summary and the account balance
// concurrently. Either call failing fails the page as a whole.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, sess session.Session) {
	var (
		summary core.Summary
		profile core.UserProfile
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summary, err = s.transactions.Summary(ctx, sess.Token)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.profiles.Profile(ctx, sess.Token)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.expireSession(w, r, sess)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load analytics", applog.FieldError, err)
		s.render(w, r, http.StatusOK, "analytics.html", analyticsPageData{
			Error: api.UserMessage(err),
		})
		return
	}

	data := analyticsPageData{
		PeriodStart: summary.PeriodStart.String(),
		PeriodEnd:   summary.PeriodEnd.String(),
		Income:      summary.Income,
		Expenses:    summary.Expenses,
		Net:         summary.Balance,
		Balance:     profile.Balance,
	}
	s.render(w, r, http.StatusOK, "analytics.html", data)
}
