package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/api"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
)

type txRow struct {
	ID          int64
	Date        string
	Category    string
	Description string
	Amount      string
	TypeDisplay string
}

type txListData struct {
	Type string
	Rows []txRow
	From string
	To   string
}

type txPageData struct {
	Title      string
	Type       string
	Categories []string
	Today      string
	From       string
	To         string
	LoadError  string
	List       txListData
}

func ledgerCacheKey(sessionID string, txType core.TransactionType) string {
	return sessionID + "|" + string(txType)
}

// loadLedger returns the cached ledger for the session and type, fetching
// from the backend on a cache miss. A load failure leaves no ledger cached.
func (s *Server) loadLedger(r *http.Request, sess session.Session, txType core.TransactionType) (*core.Ledger, bool, error) {
	key := ledgerCacheKey(sess.ID, txType)
	if led, ok := s.ledgerCache.Get(key); ok && led.Loaded() {
		return led, true, nil
	}

	items, err := s.transactions.ListTransactions(r.Context(), sess.Token, txType)
	if err != nil {
		return nil, false, err
	}

	led := core.NewLedger(txType)
	led.Replace(items)
	s.ledgerCache.Set(key, led)
	return led, false, nil
}

func (s *Server) transactionsPage(txType core.TransactionType) func(http.ResponseWriter, *http.Request, session.Session) {
	title := "Income"
	if txType == core.Expense {
		title = "Expenses"
	}

	return func(w http.ResponseWriter, r *http.Request, sess session.Session) {
		data := txPageData{
			Title: title,
			Type:  string(txType),
			Today: core.Today().String(),
			From:  sanitizeInput(r.URL.Query().Get("from")),
			To:    sanitizeInput(r.URL.Query().Get("to")),
		}

		led, _, err := s.loadLedger(r, sess, txType)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				s.expireSession(w, r, sess)
				return
			}
			slog.ErrorContext(r.Context(), "Failed to load transactions", applog.FieldTransactionType, txType, applog.FieldError, err)
			data.LoadError = api.UserMessage(err)
			s.render(w, r, http.StatusOK, "transactions.html", data)
			return
		}

		catalog := core.NewCatalog(core.PredefinedCategories)
		cats, err := s.transactions.Categories(r.Context(), sess.Token)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				s.expireSession(w, r, sess)
				return
			}
			// The entry form still works with predefined and observed names.
			slog.WarnContext(r.Context(), "Failed to load categories", applog.FieldError, err)
		}
		catalog.Observe(cats...)
		catalog.ObserveTransactions(led.Items())

		data.Categories = catalog.All()
		data.List = s.listData(led, string(txType), data.From, data.To)
		s.render(w, r, http.StatusOK, "transactions.html", data)
	}
}

func (s *Server) listData(led *core.Ledger, txType, from, to string) txListData {
	items := led.Filtered(parseDateRange(from, to))
	rows := make([]txRow, 0, len(items))
	for _, t := range items {
		rows = append(rows, txRow{
			ID:          t.ID,
			Date:        t.Date.String(),
			Category:    t.Category,
			Description: t.Description,
			Amount:      t.Amount.String(),
			TypeDisplay: t.TypeDisplay,
		})
	}
	return txListData{Type: txType, Rows: rows, From: from, To: to}
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request, builder *HTMXResponseBuilder, led *core.Ledger, txType, from, to string) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, "transaction_list", s.listData(led, txType, from, to)); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render transaction list", applog.FieldError, err)
		ErrorResponse(http.StatusInternalServerError, "Something went wrong rendering the list.").Write(w)
		return
	}
	builder.BodyHTML(buf.String()).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	form := parseTransactionForm(r.PostForm)
	in, errResp := form.toInput()
	if errResp != nil {
		errResp.Write(w)
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), sess.Token, in)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.expireSession(w, r, sess)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create transaction",
			applog.FieldTransactionType, in.Type, applog.FieldCategory, in.Category, applog.FieldError, err)
		BadGatewayError(api.UserMessage(err)).Write(w)
		return
	}

	// A cached ledger gets the new record appended in place. On a miss the
	// fresh fetch already contains it.
	led, cached, err := s.loadLedger(r, sess, in.Type)
	if err != nil {
		slog.WarnContext(r.Context(), "Created but failed to reload transactions", applog.FieldError, err)
		NewHTMXResponse().
			TriggerTransactionCreated(string(created.Type)).
			TriggerFormReset().
			TriggerSuccessNotification("Transaction recorded.").
			Header("HX-Refresh", "true").
			Write(w)
		return
	}
	if cached {
		led.Append(created)
	}

	slog.InfoContext(r.Context(), "Transaction created",
		applog.FieldTransactionID, created.ID, applog.FieldTransactionType, created.Type,
		applog.FieldCategory, created.Category, applog.FieldAmount, created.Amount.String())

	builder := NewHTMXResponse().
		TriggerTransactionCreated(string(created.Type)).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction recorded.")
	s.renderList(w, r, builder, led, string(in.Type), form.From, form.To)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, sess session.Session) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(http.StatusBadRequest, "Invalid transaction ID").Write(w)
		return
	}

	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	txType := core.TransactionType(sanitizeInput(r.PostForm.Get("transaction_type")))
	if !txType.Valid() {
		ErrorResponse(http.StatusBadRequest, "Invalid transaction type").Write(w)
		return
	}
	from := sanitizeInput(r.PostForm.Get("from"))
	to := sanitizeInput(r.PostForm.Get("to"))

	if err := s.transactions.DeleteTransaction(r.Context(), sess.Token, id); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.expireSession(w, r, sess)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction",
			applog.FieldTransactionID, id, applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, api.UserMessage(err)).
			TriggerErrorNotification(api.UserMessage(err)).
			Write(w)
		return
	}

	led, ok := s.ledgerCache.Get(ledgerCacheKey(sess.ID, txType))
	if !ok {
		// Nothing cached to update. The next page load re-fetches.
		NewHTMXResponse().
			TriggerTransactionDeleted(string(txType)).
			TriggerSuccessNotification("Transaction deleted.").
			Header("HX-Refresh", "true").
			Write(w)
		return
	}
	led.Remove(id)

	slog.InfoContext(r.Context(), "Transaction deleted", applog.FieldTransactionID, id, applog.FieldTransactionType, txType)

	builder := NewHTMXResponse().
		TriggerTransactionDeleted(string(txType)).
		TriggerSuccessNotification("Transaction deleted.")
	s.renderList(w, r, builder, led, string(txType), from, to)
}
