package api

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated account as returned by /api/auth.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Token is the bearer token issued on login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name,omitempty"`
}

// EmailSummary is one row of the inbox list view.
type EmailSummary struct {
	ID            uuid.UUID  `json:"id"`
	FromAddress   string     `json:"from_address"`
	FromName      string     `json:"from_name"`
	Subject       string     `json:"subject"`
	ReceivedAt    *time.Time `json:"received_at"`
	IsRead        bool       `json:"is_read"`
	IsReplied     bool       `json:"is_replied"`
	Category      string     `json:"category"`
	Urgency       string     `json:"urgency"`
	Topic         string     `json:"topic"`
	HasSuggestion bool       `json:"has_suggestion"`
}

// EmailDetail is the full message, including AI reply suggestions.
type EmailDetail struct {
	ID          uuid.UUID    `json:"id"`
	AccountID   uuid.UUID    `json:"account_id"`
	ProviderID  string       `json:"provider_id"`
	FromAddress string       `json:"from_address"`
	FromName    string       `json:"from_name"`
	ToAddress   string       `json:"to_address"`
	Subject     string       `json:"subject"`
	BodyText    string       `json:"body_text"`
	BodyHTML    string       `json:"body_html"`
	ReceivedAt  *time.Time   `json:"received_at"`
	IsRead      bool         `json:"is_read"`
	IsReplied   bool         `json:"is_replied"`
	Category    string       `json:"category"`
	Urgency     string       `json:"urgency"`
	Topic       string       `json:"topic"`
	Confidence  float64      `json:"confidence"`
	Processed   bool         `json:"processed"`
	CreatedAt   time.Time    `json:"created_at"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is an AI-generated reply draft attached to an email.
type Suggestion struct {
	ID            uuid.UUID  `json:"id"`
	EmailID       uuid.UUID  `json:"email_id"`
	SuggestedText string     `json:"suggested_text"`
	Status        string     `json:"status"` // pending, approved, edited, rejected
	EditedText    string     `json:"edited_text"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RefineResult carries the reworked draft from /suggestions/{id}/refine.
type RefineResult struct {
	SuggestedText string `json:"suggested_text"`
}

// EmailStats is the dashboard summary from /emails/stats/summary.
type EmailStats struct {
	Total      int            `json:"total"`
	Unread     int            `json:"unread"`
	Categories map[string]int `json:"categories"`
	Urgency    map[string]int `json:"urgency"`
}

// EmailFilter narrows the inbox listing.
type EmailFilter struct {
	Category string
	Urgency  string
	IsRead   *bool
	Skip     int
	Limit    int
}

// Template is a reusable reply template.
type Template struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Body       string    `json:"body"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TemplateInput carries create/update fields for a template. On update,
// empty fields are omitted and keep their server-side value.
type TemplateInput struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Body     string `json:"body,omitempty"`
}

// KnowledgeEntry is one item of the company knowledge base.
type KnowledgeEntry struct {
	ID        uuid.UUID `json:"id"`
	EntryType string    `json:"entry_type"` // faq, pricing, hours, tone
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnowledgeInput carries create/update fields for a knowledge entry.
type KnowledgeInput struct {
	EntryType string `json:"entry_type,omitempty"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
}

// MailAccount is a connected Gmail/Outlook mailbox.
type MailAccount struct {
	ID           uuid.UUID `json:"id"`
	Provider     string    `json:"provider"`
	EmailAddress string    `json:"email_address"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConnectResult carries the OAuth authorization URL the user must open.
type ConnectResult struct {
	AuthURL string `json:"auth_url"`
}

// CommandRequest is the command endpoint request body. PendingAction is
// only set when Confirm is true and must be the payload previously
// returned by the endpoint, unmodified.
type CommandRequest struct {
	Message       string         `json:"message"`
	Confirm       bool           `json:"confirm"`
	PendingAction map[string]any `json:"pending_action,omitempty"`
}

// CommandResponse is the command endpoint reply. RequiresConfirmation
// and ActionsTaken are optional on the wire; absent decodes to the zero
// value, which is the defined default.
type CommandResponse struct {
	Response             string         `json:"response"`
	ActionsTaken         []string       `json:"actions_taken"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
	PendingAction        map[string]any `json:"pending_action"`
	Data                 map[string]any `json:"data"`
}
