package sandbox

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmes-app/ahmes/internal/api"
)

// ==================== Auth ====================

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.accounts[req.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	acct := &account{
		user: api.User{
			ID:          uuid.New(),
			Email:       req.Email,
			Name:        req.Name,
			CompanyName: req.CompanyName,
			Role:        "owner",
			CreatedAt:   time.Now(),
		},
		password: req.Password,
	}
	s.store.accounts[req.Email] = acct
	writeJSON(w, http.StatusCreated, acct.user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	acct, ok := s.store.accounts[req.Email]
	if !ok || acct.password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token := newToken()
	s.store.tokens[token] = req.Email
	writeJSON(w, http.StatusOK, api.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	email := s.store.tokens[token]
	acct, ok := s.store.accounts[email]
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

// ==================== Emails ====================

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	summaries := s.store.summaries(parseFilter(r))
	if summaries == nil {
		summaries = []api.EmailSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "emailID")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	email := s.store.findEmail(id)
	if email == nil {
		writeDetail(w, http.StatusNotFound, "Email not found")
		return
	}
	email.IsRead = true
	writeJSON(w, http.StatusOK, email)
}

func (s *Server) handleEmailStats(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	writeJSON(w, http.StatusOK, s.store.stats())
}

// ==================== Suggestions ====================

func (s *Server) handleSuggestionAction(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "suggestionID")
	if !ok {
		return
	}
	var req struct {
		Action     string `json:"action"`
		EditedText string `json:"edited_text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	suggestion, _ := s.store.findSuggestion(id)
	if suggestion == nil {
		writeDetail(w, http.StatusNotFound, "Suggestion not found")
		return
	}

	switch req.Action {
	case "approve":
		suggestion.Status = "approved"
	case "reject":
		suggestion.Status = "rejected"
	case "edit":
		if req.EditedText == "" {
			writeDetail(w, http.StatusUnprocessableEntity, "edited_text is required for edit")
			return
		}
		suggestion.Status = "edited"
		suggestion.EditedText = req.EditedText
	default:
		writeDetail(w, http.StatusUnprocessableEntity, "Unknown action: "+req.Action)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleSuggestionSend(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "suggestionID")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	suggestion, email := s.store.findSuggestion(id)
	if suggestion == nil {
		writeDetail(w, http.StatusNotFound, "Suggestion not found")
		return
	}
	if suggestion.Status == "rejected" {
		writeDetail(w, http.StatusBadRequest, "Cannot send a rejected suggestion")
		return
	}

	now := time.Now()
	suggestion.SentAt = &now
	if suggestion.Status == "pending" {
		suggestion.Status = "approved"
	}
	email.IsReplied = true
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleSuggestionRefine(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "suggestionID")
	if !ok {
		return
	}
	var req struct {
		Prompt      string `json:"prompt"`
		CurrentText string `json:"current_text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	suggestion, _ := s.store.findSuggestion(id)
	if suggestion == nil {
		writeDetail(w, http.StatusNotFound, "Suggestion not found")
		return
	}

	// No model behind the sandbox; make the rework visible instead.
	base := req.CurrentText
	if base == "" {
		base = suggestion.SuggestedText
	}
	refined := fmt.Sprintf("%s\n\n[Omskrevet: %s]", base, req.Prompt)
	writeJSON(w, http.StatusOK, api.RefineResult{SuggestedText: refined})
}

// ==================== Templates ====================

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]api.Template, 0, len(s.store.reserve))
	for _, t := range s.store.reserve {
		out = append(out, *t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input api.TemplateInput
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Name == "" || input.Body == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Name and body are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tmpl := &api.Template{
		ID:        uuid.New(),
		Name:      input.Name,
		Category:  input.Category,
		Body:      input.Body,
		CreatedAt: time.Now(),
	}
	s.store.reserve = append(s.store.reserve, tmpl)
	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "templateID")
	if !ok {
		return
	}
	var input api.TemplateInput
	if !decodeBody(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, tmpl := range s.store.reserve {
		if tmpl.ID != id {
			continue
		}
		if input.Name != "" {
			tmpl.Name = input.Name
		}
		if input.Category != "" {
			tmpl.Category = input.Category
		}
		if input.Body != "" {
			tmpl.Body = input.Body
		}
		writeJSON(w, http.StatusOK, tmpl)
		return
	}
	writeDetail(w, http.StatusNotFound, "Template not found")
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "templateID")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, tmpl := range s.store.reserve {
		if tmpl.ID == id {
			s.store.reserve = append(s.store.reserve[:i], s.store.reserve[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Template not found")
}

// ==================== Knowledge ====================

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	entryType := r.URL.Query().Get("entry_type")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]api.KnowledgeEntry, 0, len(s.store.entries))
	for _, e := range s.store.entries {
		if entryType != "" && e.EntryType != entryType {
			continue
		}
		out = append(out, *e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateKnowledge(w http.ResponseWriter, r *http.Request) {
	var input api.KnowledgeInput
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Title == "" || input.Content == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Title and content are required")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now()
	entry := &api.KnowledgeEntry{
		ID:        uuid.New(),
		EntryType: input.EntryType,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.entries = append(s.store.entries, entry)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "entryID")
	if !ok {
		return
	}
	var input api.KnowledgeInput
	if !decodeBody(w, r, &input) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, entry := range s.store.entries {
		if entry.ID != id {
			continue
		}
		if input.EntryType != "" {
			entry.EntryType = input.EntryType
		}
		if input.Title != "" {
			entry.Title = input.Title
		}
		if input.Content != "" {
			entry.Content = input.Content
		}
		entry.UpdatedAt = time.Now()
		writeJSON(w, http.StatusOK, entry)
		return
	}
	writeDetail(w, http.StatusNotFound, "Knowledge entry not found")
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "entryID")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, entry := range s.store.entries {
		if entry.ID == id {
			s.store.entries = append(s.store.entries[:i], s.store.entries[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Knowledge entry not found")
}

// ==================== Accounts ====================

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	out := make([]api.MailAccount, 0, len(s.store.mailboxes))
	for _, a := range s.store.mailboxes {
		out = append(out, *a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConnect(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The sandbox has no OAuth; hand back a recognizable dummy URL.
		writeJSON(w, http.StatusOK, api.ConnectResult{
			AuthURL: fmt.Sprintf("http://localhost:%d/sandbox/oauth/%s", s.port, provider),
		})
	}
}

func (s *Server) handleDisconnectAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "accountID")
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, a := range s.store.mailboxes {
		if a.ID == id {
			s.store.mailboxes = append(s.store.mailboxes[:i], s.store.mailboxes[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Account not found")
}
