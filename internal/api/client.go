// Package api is the client for the remote finance backend. Every remote
// capability maps to one method; calls attach the session's bearer token,
// decode JSON, and surface any non-2xx response as *Error. There is no
// retry and no client-side timeout beyond the transport's defaults; a
// failure is terminal for the attempted operation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a backend client for the given base URL, e.g.
// "http://localhost:8000". A nil httpc falls back to a default client.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/token/", "", body, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return out.Token, nil
}

// Register creates an account and returns the new session's bearer token.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register/", "", reg, &out); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return out.Token, nil
}

// Logout invalidates the bearer token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/logout/", token, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Profile fetches the account profile.
func (c *Client) Profile(ctx context.Context, token string) (core.UserProfile, error) {
	var out profilePayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile/", token, nil, &out); err != nil {
		return core.UserProfile{}, fmt.Errorf("profile: %w", err)
	}
	return out.toDomain(), nil
}

// UploadAvatar sends the image as multipart form data (field "avatar") and
// returns the stored avatar URL.
func (c *Client) UploadAvatar(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	var out avatarResponse
	if err := c.do(ctx, http.MethodPost, "/api/avatar/", token, &buf, mw.FormDataContentType(), &out); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return out.Avatar, nil
}

// ListTransactions fetches the full list, optionally restricted to one
// transaction type. Server order (newest first) is preserved.
func (c *Client) ListTransactions(ctx context.Context, token string, txType core.TransactionType) ([]core.Transaction, error) {
	path := "/api/transactions"
	if txType != "" {
		path += "?transaction_type=" + string(txType)
	}
	var out transactionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	items := make([]core.Transaction, 0, len(out.Transactions))
	for _, p := range out.Transactions {
		t, err := p.toDomain()
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction", "id", p.ID, "error", err)
			continue
		}
		items = append(items, t)
	}
	return items, nil
}

// CreateTransaction submits a new record and returns the server's stored
// version, including its assigned identifier.
func (c *Client) CreateTransaction(ctx context.Context, token string, in CreateTransactionInput) (core.Transaction, error) {
	body := map[string]string{
		"amount":           in.Amount.String(),
		"category":         in.Category,
		"transaction_type": string(in.Type),
		"description":      in.Description,
		"date":             in.Date.String(),
	}
	var out transactionPayload
	if err := c.doJSON(ctx, http.MethodPost, "/api/transactions/create", token, body, &out); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	t, err := out.toDomain()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: decode response: %w", err)
	}
	return t, nil
}

// DeleteTransaction removes the record with the given identifier.
func (c *Client) DeleteTransaction(ctx context.Context, token string, id int64) error {
	path := "/api/transactions/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// Categories fetches the distinct category names present in the user's data.
func (c *Client) Categories(ctx context.Context, token string) ([]string, error) {
	var out categoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/categories", token, nil, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out.Categories, nil
}

// Summary fetches the current-period aggregate.
func (c *Client) Summary(ctx context.Context, token string) (core.Summary, error) {
	var out summaryPayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions/summary", token, nil, &out); err != nil {
		return core.Summary{}, fmt.Errorf("summary: %w", err)
	}
	s := core.Summary{
		Income:   out.Income,
		Expenses: out.Expenses,
		Balance:  out.Balance,
	}
	if d, err := core.ParseDate(out.PeriodStart); err == nil {
		s.PeriodStart = d
	}
	if d, err := core.ParseDate(out.PeriodEnd); err == nil {
		s.PeriodEnd = d
	}
	return s, nil
}

// doJSON marshals body (when non-nil) and issues the request.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, token, reader, "application/json", out)
}

// do issues one request, attaching the token header when present, and
// decodes a 2xx JSON body into out. Any other status becomes *Error.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Error != "" {
				apiErr.Message = eb.Error
			} else if eb.Detail != "" {
				apiErr.Message = eb.Detail
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
