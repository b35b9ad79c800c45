package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{Email: "a@b.dk"})
	}))
	defer srv.Close()

	client := New(srv.URL, "tok123", time.Second)
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want \"Bearer tok123\"", gotAuth)
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Token{AccessToken: "t"})
	}))
	defer srv.Close()

	client := New(srv.URL, "", time.Second)
	if _, err := client.Login(context.Background(), "a@b.dk", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedBecomesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	client := New(srv.URL, "stale", time.Second)
	_, err := client.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Me() error = %v, want ErrUnauthorized", err)
	}
}

func TestErrorDetailParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Email not found"})
	}))
	defer srv.Close()

	client := New(srv.URL, "t", time.Second)
	_, err := client.GetEmail(context.Background(), uuid.New())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetEmail() error = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Error() != "Email not found" {
		t.Errorf("Error() = %q, want detail text", apiErr.Error())
	}
}

func TestErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := New(srv.URL, "t", time.Second)
	_, err := client.EmailStats(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("EmailStats() error = %v, want *Error", err)
	}
	if apiErr.Error() != "HTTP 502" {
		t.Errorf("Error() = %q, want \"HTTP 502\"", apiErr.Error())
	}
}

func TestNoContentSkipsDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, "t", time.Second)
	if err := client.DeleteTemplate(context.Background(), uuid.New()); err != nil {
		t.Errorf("DeleteTemplate() error = %v", err)
	}
}

func TestListEmailsQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]EmailSummary{})
	}))
	defer srv.Close()

	unread := false
	client := New(srv.URL, "t", time.Second)
	_, err := client.ListEmails(context.Background(), EmailFilter{
		Category: "support",
		Urgency:  "høj",
		IsRead:   &unread,
		Skip:     10,
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}

	want := map[string]string{
		"category": "support",
		"urgency":  "høj",
		"is_read":  "false",
		"skip":     "10",
		"limit":    "5",
	}
	for key, val := range want {
		if got := gotQuery[key]; len(got) != 1 || got[0] != val {
			t.Errorf("query[%s] = %v, want %q", key, got, val)
		}
	}
}

func TestSendCommandBody(t *testing.T) {
	var got CommandRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(CommandResponse{Response: "ok"})
	}))
	defer srv.Close()

	payload := map[string]any{"action": "delete_emails", "count": float64(3)}
	client := New(srv.URL, "t", time.Second)
	resp, err := client.SendCommand(context.Background(), "slet alle nyhedsbreve", true, payload)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if resp.Response != "ok" {
		t.Errorf("Response = %q, want ok", resp.Response)
	}

	if got.Message != "slet alle nyhedsbreve" {
		t.Errorf("Message = %q", got.Message)
	}
	if !got.Confirm {
		t.Error("Confirm = false, want true")
	}
	if got.PendingAction["action"] != "delete_emails" || got.PendingAction["count"] != float64(3) {
		t.Errorf("PendingAction = %v, not echoed verbatim", got.PendingAction)
	}
}

func TestSendCommandOmitsPendingActionWhenNil(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(CommandResponse{})
	}))
	defer srv.Close()

	client := New(srv.URL, "t", time.Second)
	if _, err := client.SendCommand(context.Background(), "hej", false, nil); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if _, present := raw["pending_action"]; present {
		t.Error("pending_action was sent for a plain submit")
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Template{})
	}))
	defer srv.Close()

	client := New(srv.URL+"/", "t", time.Second)
	if _, err := client.ListTemplates(context.Background()); err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if gotPath != "/templates/" {
		t.Errorf("path = %q, want /templates/", gotPath)
	}
}
