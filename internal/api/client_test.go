package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/token/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "secret", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	token, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, "Invalid credentials", UserMessage(err))
}

func TestListTransactionsSendsTokenAndTypeFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "income", r.URL.Query().Get("transaction_type"))

		_, _ = w.Write([]byte(`{"transactions": [
			{"id": 7, "amount": "1500.00", "transaction_type": "income",
			 "category": "Salary", "description": "March",
			 "date": "2025-03-01", "type_display": "Income"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	items, err := c.ListTransactions(context.Background(), "tok-123", core.Income)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, int64(150000), items[0].Amount.Cents)
	assert.Equal(t, core.Income, items[0].Type)
	assert.Equal(t, "2025-03-01", items[0].Date.String())
}

func TestListTransactionsUnauthorizedClearsNothingButSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.ListTransactions(context.Background(), "stale", core.Expense)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Invalid token.", UserMessage(err))
}

func TestCreateTransactionPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transactions/create", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "12.50", body["amount"])
		assert.Equal(t, "expense", body["transaction_type"])
		assert.Equal(t, "Food", body["category"])
		assert.Equal(t, "2025-08-30", body["date"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "amount": "12.50", "transaction_type": "expense",
			"category": "Food", "description": "lunch", "date": "2025-08-30"}`))
	}))
	defer srv.Close()

	amount, err := core.ParseAmount("12.5")
	require.NoError(t, err)

	c := NewClient(srv.URL, srv.Client())
	created, err := c.CreateTransaction(context.Background(), "tok", CreateTransactionInput{
		Amount:      amount,
		Type:        core.Expense,
		Category:    "Food",
		Description: "lunch",
		Date:        core.NewDate(2025, 8, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "12.50", created.Amount.String())
}

func TestDeleteTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/transactions/42", r.URL.Path)
		assert.Equal(t, "Token tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	require.NoError(t, c.DeleteTransaction(context.Background(), "tok", 42))
}

func TestUploadAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(8<<20))
		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "me.png", header.Filename)

		_ = json.NewEncoder(w).Encode(map[string]string{"avatar": "http://cdn/avatars/me.png"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	url, err := c.UploadAvatar(context.Background(), "tok", "me.png", bytes.NewReader([]byte("fake-png")))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/avatars/me.png", url)
}

func TestProfileDecodesOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profile/", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"username": "alice", "email": "a@example.com",
			"first_name": "Alice", "last_name": "Ivanova",
			"birth_date": null, "gender": "F", "balance": "1024.00",
			"last_login": null, "date_joined": "2024-01-15T10:00:00Z",
			"is_active": true, "avatar": null
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	profile, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "F", profile.Gender)
	assert.Equal(t, "1024.00", profile.Balance)
	assert.Empty(t, profile.BirthDate)
	assert.Empty(t, profile.AvatarURL)
}

func TestSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"income": "3000.00", "expenses": "1250.50",
			"balance": "1749.50", "period_start": "2025-08-01", "period_end": "2025-08-31"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	s, err := c.Summary(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "3000.00", s.Income)
	assert.Equal(t, "1749.50", s.Balance)
	assert.Equal(t, "2025-08-01", s.PeriodStart.String())
}

func TestErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Summary(context.Background(), "tok")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
