package sandbox

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmes-app/ahmes/internal/api"
)

// handleChat is the sandbox command endpoint. A small keyword interpreter
// stands in for the model: destructive requests come back as a proposal
// with a pending_action payload, and only a confirmed resend executes it.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.CommandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var resp api.CommandResponse
	if req.Confirm && req.PendingAction != nil {
		resp = s.executePending(req.PendingAction)
	} else {
		resp = s.interpret(req.Message)
	}

	if resp.ActionsTaken == nil {
		resp.ActionsTaken = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Keyword groups for the interpreter, Danish first, English alongside.
var (
	deleteWords = []string{"slet", "fjern", "ryd", "delete", "remove", "clean"}
	replyWords  = []string{"besvar", "send svar", "svar på", "reply", "answer"}
	readWords   = []string{"læst", "markér", "marker", "mark", "read"}
	statusWords = []string{"overblik", "opsummer", "status", "overview", "summary", "hvordan ser"}
	searchWords = []string{"find", "søg", "vis", "search", "show"}
)

var categoryWords = map[string]string{
	"nyhedsbrev":    "nyhedsbrev",
	"nyhedsbreve":   "nyhedsbrev",
	"newsletter":    "nyhedsbrev",
	"newsletters":   "nyhedsbrev",
	"reklame":       "nyhedsbrev",
	"faktura":       "faktura",
	"fakturaer":     "faktura",
	"invoice":       "faktura",
	"invoices":      "faktura",
	"support":       "support",
	"reklamation":   "support",
	"forespørgsel":  "forespørgsel",
	"forespørgsler": "forespørgsel",
	"inquiry":       "forespørgsel",
	"inquiries":     "forespørgsel",
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func categoryIn(msg string) string {
	for word, category := range categoryWords {
		if strings.Contains(msg, word) {
			return category
		}
	}
	return ""
}

func (s *Server) interpret(message string) api.CommandResponse {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, deleteWords):
		return s.proposeDelete(msg)
	case containsAny(msg, replyWords):
		return s.proposeReplies()
	case containsAny(msg, readWords):
		return s.markAllRead()
	case containsAny(msg, statusWords):
		return s.overview()
	case containsAny(msg, searchWords):
		return s.search(msg)
	}

	return api.CommandResponse{
		Response: "Det forstod jeg ikke helt. Prøv fx: \"giv mig et overblik\", " +
			"\"slet alle nyhedsbreve\", \"besvar forespørgslerne\" eller \"markér alt som læst\".",
	}
}

func (s *Server) proposeDelete(msg string) api.CommandResponse {
	category := categoryIn(msg)

	var targets []*api.EmailDetail
	for _, e := range s.store.emails {
		if category != "" && e.Category != category {
			continue
		}
		if category == "" && e.Category != "nyhedsbrev" {
			// A bare "slet" without a category only goes after newsletters;
			// anything wider must be asked for explicitly.
			continue
		}
		targets = append(targets, e)
	}

	if len(targets) == 0 {
		return api.CommandResponse{Response: "Der er ingen emails at slette i den kategori."}
	}

	ids := make([]any, len(targets))
	var lines []string
	for i, e := range targets {
		ids[i] = e.ID.String()
		lines = append(lines, fmt.Sprintf("• %s (%s)", e.Subject, e.FromName))
	}

	label := category
	if label == "" {
		label = "nyhedsbrev"
	}
	return api.CommandResponse{
		Response: fmt.Sprintf("Jeg er ved at slette %d emails i kategorien %s:\n\n%s\n\nSkal jeg fortsætte?",
			len(targets), label, strings.Join(lines, "\n")),
		RequiresConfirmation: true,
		PendingAction: map[string]any{
			"action":    "delete_emails",
			"category":  label,
			"email_ids": ids,
		},
	}
}

func (s *Server) proposeReplies() api.CommandResponse {
	var ids []any
	var lines []string
	for _, e := range s.store.emails {
		for _, sg := range e.Suggestions {
			if sg.Status == "pending" && sg.SentAt == nil {
				ids = append(ids, sg.ID.String())
				lines = append(lines, fmt.Sprintf("• %s — %s", e.Subject, e.FromName))
			}
		}
	}

	if len(ids) == 0 {
		return api.CommandResponse{Response: "Der er ingen udkast klar til afsendelse lige nu."}
	}

	return api.CommandResponse{
		Response: fmt.Sprintf("Jeg har %d svarudkast klar:\n\n%s\n\nSkal jeg sende dem?",
			len(ids), strings.Join(lines, "\n")),
		RequiresConfirmation: true,
		PendingAction: map[string]any{
			"action":         "send_replies",
			"suggestion_ids": ids,
		},
	}
}

// markAllRead is not destructive, so it executes immediately.
func (s *Server) markAllRead() api.CommandResponse {
	count := 0
	for _, e := range s.store.emails {
		if !e.IsRead {
			e.IsRead = true
			count++
		}
	}
	if count == 0 {
		return api.CommandResponse{Response: "Alle emails er allerede markeret som læst."}
	}
	return api.CommandResponse{
		Response:     fmt.Sprintf("Færdig. Jeg har markeret %d emails som læst.", count),
		ActionsTaken: []string{fmt.Sprintf("Markerede %d emails som læst", count)},
	}
}

func (s *Server) overview() api.CommandResponse {
	stats := s.store.stats()

	var categories []string
	for name, count := range stats.Categories {
		categories = append(categories, fmt.Sprintf("%s: %d", name, count))
	}

	drafts := 0
	for _, e := range s.store.emails {
		for _, sg := range e.Suggestions {
			if sg.Status == "pending" && sg.SentAt == nil {
				drafts++
			}
		}
	}

	return api.CommandResponse{
		Response: fmt.Sprintf(
			"Du har %d emails, heraf %d ulæste. Fordeling: %s. %d svarudkast venter på din godkendelse.",
			stats.Total, stats.Unread, strings.Join(categories, ", "), drafts),
		Data: map[string]any{
			"total":      stats.Total,
			"unread":     stats.Unread,
			"categories": stats.Categories,
			"drafts":     drafts,
		},
	}
}

func (s *Server) search(msg string) api.CommandResponse {
	var lines []string
	for _, e := range s.store.emails {
		haystack := strings.ToLower(e.Subject + " " + e.FromName + " " + e.BodyText + " " + e.Category)
		for _, word := range strings.Fields(msg) {
			if len(word) < 4 {
				continue
			}
			if strings.Contains(haystack, word) {
				lines = append(lines, fmt.Sprintf("• %s — %s", e.Subject, e.FromName))
				break
			}
		}
	}

	if len(lines) == 0 {
		return api.CommandResponse{Response: "Jeg fandt ingen emails, der matcher."}
	}
	return api.CommandResponse{
		Response: fmt.Sprintf("Jeg fandt %d emails:\n\n%s", len(lines), strings.Join(lines, "\n")),
	}
}

// executePending carries out a previously proposed action. The payload is
// whatever interpret handed out earlier, echoed back by the client.
func (s *Server) executePending(payload map[string]any) api.CommandResponse {
	action, _ := payload["action"].(string)

	switch action {
	case "delete_emails":
		return s.executeDelete(payload)
	case "send_replies":
		return s.executeSendReplies(payload)
	}
	return api.CommandResponse{Response: "Jeg kunne ikke genkende den afventende handling, så intet blev udført."}
}

func payloadIDs(payload map[string]any, key string) []uuid.UUID {
	raw, _ := payload[key].([]any)
	var ids []uuid.UUID
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(str); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Server) executeDelete(payload map[string]any) api.CommandResponse {
	var actions []string
	for _, id := range payloadIDs(payload, "email_ids") {
		if e := s.store.removeEmail(id); e != nil {
			actions = append(actions, "Slettede: "+e.Subject)
		}
	}

	if len(actions) == 0 {
		return api.CommandResponse{Response: "De emails findes ikke længere; intet blev slettet."}
	}
	return api.CommandResponse{
		Response:     fmt.Sprintf("Færdig. Jeg har slettet %d emails.", len(actions)),
		ActionsTaken: actions,
	}
}

func (s *Server) executeSendReplies(payload map[string]any) api.CommandResponse {
	var actions []string
	for _, id := range payloadIDs(payload, "suggestion_ids") {
		suggestion, email := s.store.findSuggestion(id)
		if suggestion == nil || suggestion.SentAt != nil {
			continue
		}
		now := time.Now()
		suggestion.SentAt = &now
		suggestion.Status = "approved"
		email.IsReplied = true
		email.IsRead = true
		actions = append(actions, "Besvarede: "+email.Subject)
	}

	if len(actions) == 0 {
		return api.CommandResponse{Response: "Udkastene var allerede sendt; intet blev afsendt."}
	}
	return api.CommandResponse{
		Response:     fmt.Sprintf("Færdig. Jeg har sendt %d svar.", len(actions)),
		ActionsTaken: actions,
	}
}
