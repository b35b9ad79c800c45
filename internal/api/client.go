package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned on a 401 so callers can drop the stored
// token and prompt for a fresh login.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response with a parseable detail message.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

const defaultTimeout = 30 * time.Second

// Client talks to the Ahmes backend REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL (e.g. "http://localhost:8000/api").
// An empty token means unauthenticated; only register and login work then.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token after a login.
func (c *Client) SetToken(token string) { c.token = token }

// do performs one JSON round-trip. out may be nil for responses without
// a useful body; a 204 never attempts to decode.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ==================== Auth ====================

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	body := map[string]string{"email": email, "password": password}
	var token Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ==================== Emails ====================

func (c *Client) ListEmails(ctx context.Context, filter EmailFilter) ([]EmailSummary, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Urgency != "" {
		query.Set("urgency", filter.Urgency)
	}
	if filter.IsRead != nil {
		query.Set("is_read", strconv.FormatBool(*filter.IsRead))
	}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var emails []EmailSummary
	if err := c.do(ctx, http.MethodGet, "/emails/", query, nil, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) GetEmail(ctx context.Context, id uuid.UUID) (*EmailDetail, error) {
	var email EmailDetail
	if err := c.do(ctx, http.MethodGet, "/emails/"+id.String(), nil, nil, &email); err != nil {
		return nil, err
	}
	return &email, nil
}

func (c *Client) EmailStats(ctx context.Context) (*EmailStats, error) {
	var stats EmailStats
	if err := c.do(ctx, http.MethodGet, "/emails/stats/summary", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ==================== Suggestions ====================

// ActionSuggestion approves, edits, or rejects a reply draft.
// editedText is required for the edit action.
func (c *Client) ActionSuggestion(ctx context.Context, id uuid.UUID, action, editedText string) (*Suggestion, error) {
	body := map[string]string{"action": action}
	if editedText != "" {
		body["edited_text"] = editedText
	}
	var suggestion Suggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions/"+id.String()+"/action", nil, body, &suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (c *Client) SendSuggestion(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	var suggestion Suggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions/"+id.String()+"/send", nil, nil, &suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (c *Client) RefineSuggestion(ctx context.Context, id uuid.UUID, prompt, currentText string) (*RefineResult, error) {
	body := map[string]string{"prompt": prompt}
	if currentText != "" {
		body["current_text"] = currentText
	}
	var result RefineResult
	if err := c.do(ctx, http.MethodPost, "/suggestions/"+id.String()+"/refine", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ==================== Templates ====================

func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if err := c.do(ctx, http.MethodGet, "/templates/", nil, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*Template, error) {
	var tmpl Template
	if err := c.do(ctx, http.MethodPost, "/templates/", nil, input, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*Template, error) {
	var tmpl Template
	if err := c.do(ctx, http.MethodPut, "/templates/"+id.String(), nil, input, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/templates/"+id.String(), nil, nil, nil)
}

// ==================== Knowledge ====================

func (c *Client) ListKnowledge(ctx context.Context, entryType string) ([]KnowledgeEntry, error) {
	query := url.Values{}
	if entryType != "" {
		query.Set("entry_type", entryType)
	}
	var entries []KnowledgeEntry
	if err := c.do(ctx, http.MethodGet, "/knowledge/", query, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateKnowledge(ctx context.Context, input KnowledgeInput) (*KnowledgeEntry, error) {
	var entry KnowledgeEntry
	if err := c.do(ctx, http.MethodPost, "/knowledge/", nil, input, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateKnowledge(ctx context.Context, id uuid.UUID, input KnowledgeInput) (*KnowledgeEntry, error) {
	var entry KnowledgeEntry
	if err := c.do(ctx, http.MethodPut, "/knowledge/"+id.String(), nil, input, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteKnowledge(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/knowledge/"+id.String(), nil, nil, nil)
}

// ==================== Accounts ====================

func (c *Client) ListAccounts(ctx context.Context) ([]MailAccount, error) {
	var accounts []MailAccount
	if err := c.do(ctx, http.MethodGet, "/webhooks/accounts", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) ConnectGmail(ctx context.Context) (*ConnectResult, error) {
	var result ConnectResult
	if err := c.do(ctx, http.MethodGet, "/webhooks/gmail/connect", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ConnectOutlook(ctx context.Context) (*ConnectResult, error) {
	var result ConnectResult
	if err := c.do(ctx, http.MethodGet, "/webhooks/outlook/connect", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DisconnectAccount(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/webhooks/accounts/"+id.String(), nil, nil, nil)
}

// ==================== Command chat ====================

// SendCommand posts a free-text instruction to the command endpoint.
// confirm is true only when replaying a previously proposed pending
// action, in which case pendingAction must be that payload verbatim.
func (c *Client) SendCommand(ctx context.Context, message string, confirm bool, pendingAction map[string]any) (*CommandResponse, error) {
	req := CommandRequest{Message: message, Confirm: confirm, PendingAction: pendingAction}
	var resp CommandResponse
	if err := c.do(ctx, http.MethodPost, "/chat", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
