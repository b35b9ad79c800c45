package sandbox

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmes-app/ahmes/internal/api"
	"github.com/ahmes-app/ahmes/internal/chat"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

// newTestClient boots the sandbox on httptest and logs in as the seeded
// demo user.
func newTestClient(t *testing.T) *api.Client {
	t.Helper()

	srv := httptest.NewServer(NewServer(0).Router())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL+"/api", "", 5*time.Second)
	token, err := client.Login(context.Background(), "demo@ahmes.app", "demo1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	client.SetToken(token.AccessToken)
	return client
}

func TestLoginAndMe(t *testing.T) {
	client := newTestClient(t)

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if user.Email != "demo@ahmes.app" {
		t.Errorf("Me().Email = %q, want demo@ahmes.app", user.Email)
	}
	if user.CompanyName == "" {
		t.Error("Me().CompanyName is empty")
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	srv := httptest.NewServer(NewServer(0).Router())
	defer srv.Close()

	client := api.New(srv.URL+"/api", "", 5*time.Second)
	_, err := client.Me(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("Me() without token error = %v, want ErrUnauthorized", err)
	}
}

func TestWrongPassword(t *testing.T) {
	srv := httptest.NewServer(NewServer(0).Router())
	defer srv.Close()

	client := api.New(srv.URL+"/api", "", 5*time.Second)
	_, err := client.Login(context.Background(), "demo@ahmes.app", "forkert")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("Login() with wrong password error = %v, want ErrUnauthorized", err)
	}
}

func TestListEmailsWithFilter(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	all, err := client.ListEmails(ctx, api.EmailFilter{})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if len(all) == 0 {
		t.Fatal("seeded inbox is empty")
	}

	newsletters, err := client.ListEmails(ctx, api.EmailFilter{Category: "nyhedsbrev"})
	if err != nil {
		t.Fatalf("ListEmails(nyhedsbrev) error = %v", err)
	}
	if len(newsletters) == 0 || len(newsletters) >= len(all) {
		t.Errorf("newsletter filter returned %d of %d emails", len(newsletters), len(all))
	}
	for _, e := range newsletters {
		if e.Category != "nyhedsbrev" {
			t.Errorf("filtered list contains category %q", e.Category)
		}
	}
}

func TestGetEmailMarksRead(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	unread := false
	isUnread := api.EmailFilter{IsRead: &unread}
	before, err := client.ListEmails(ctx, isUnread)
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if len(before) == 0 {
		t.Fatal("no unread emails in seed data")
	}

	detail, err := client.GetEmail(ctx, before[0].ID)
	if err != nil {
		t.Fatalf("GetEmail() error = %v", err)
	}
	if !detail.IsRead {
		t.Error("GetEmail() did not mark the email read")
	}
}

func TestTemplateCRUD(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateTemplate(ctx, api.TemplateInput{
		Name: "Ferielukket", Category: "info", Body: "Vi holder lukket i uge 29 og 30.",
	})
	if err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}

	updated, err := client.UpdateTemplate(ctx, created.ID, api.TemplateInput{Body: "Vi holder lukket i uge 29."})
	if err != nil {
		t.Fatalf("UpdateTemplate() error = %v", err)
	}
	if updated.Name != "Ferielukket" {
		t.Errorf("UpdateTemplate() reset name to %q", updated.Name)
	}
	if updated.Body != "Vi holder lukket i uge 29." {
		t.Errorf("UpdateTemplate() body = %q", updated.Body)
	}

	if err := client.DeleteTemplate(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTemplate() error = %v", err)
	}

	var apiErr *api.Error
	_, err = client.UpdateTemplate(ctx, created.ID, api.TemplateInput{Body: "x"})
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Errorf("UpdateTemplate() after delete error = %v, want 404", err)
	}
}

func TestChatOverviewIsInformational(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.SendCommand(context.Background(), "giv mig et overblik", false, nil)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if resp.RequiresConfirmation {
		t.Error("overview should not require confirmation")
	}
	if len(resp.ActionsTaken) != 0 {
		t.Errorf("overview took actions: %v", resp.ActionsTaken)
	}
	if resp.Data["total"] == nil {
		t.Error("overview response has no data.total")
	}
}

func TestChatDeleteRequiresConfirmation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	resp, err := client.SendCommand(ctx, "slet alle nyhedsbreve", false, nil)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if !resp.RequiresConfirmation || resp.PendingAction == nil {
		t.Fatal("delete proposal did not require confirmation")
	}
	if len(resp.ActionsTaken) != 0 {
		t.Errorf("proposal already took actions: %v", resp.ActionsTaken)
	}

	// Not confirmed yet; inbox must be untouched.
	newsletters, err := client.ListEmails(ctx, api.EmailFilter{Category: "nyhedsbrev"})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if len(newsletters) == 0 {
		t.Fatal("newsletters were deleted before confirmation")
	}

	confirmed, err := client.SendCommand(ctx, "slet alle nyhedsbreve", true, resp.PendingAction)
	if err != nil {
		t.Fatalf("SendCommand(confirm) error = %v", err)
	}
	if len(confirmed.ActionsTaken) != len(newsletters) {
		t.Errorf("confirm took %d actions, want %d", len(confirmed.ActionsTaken), len(newsletters))
	}

	after, err := client.ListEmails(ctx, api.EmailFilter{Category: "nyhedsbrev"})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if len(after) != 0 {
		t.Errorf("%d newsletters remain after confirmed delete", len(after))
	}
}

// The full stack: chat.Session driving the sandbox over HTTP.
func TestSessionAgainstSandbox(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	session := chat.NewSession(client, i18n.Danish)

	reply, err := session.Submit(ctx, "slet alle nyhedsbreve")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !reply.RequiresConfirmation {
		t.Fatal("Submit() reply is not awaiting confirmation")
	}

	result, err := session.Confirm(ctx, reply.ID)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if result.Status != chat.StatusSuccess {
		t.Errorf("Confirm() status = %q, want success", result.Status)
	}
	if len(result.ActionsTaken) == 0 {
		t.Error("Confirm() reported no actions")
	}

	emails, err := client.ListEmails(ctx, api.EmailFilter{Category: "nyhedsbrev"})
	if err != nil {
		t.Fatalf("ListEmails() error = %v", err)
	}
	if len(emails) != 0 {
		t.Errorf("%d newsletters remain after confirmed session delete", len(emails))
	}
}

func TestChatMarkReadExecutesImmediately(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.SendCommand(context.Background(), "markér alt som læst", false, nil)
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if resp.RequiresConfirmation {
		t.Error("mark-read should not require confirmation")
	}
	if len(resp.ActionsTaken) == 0 {
		t.Error("mark-read reported no actions")
	}

	stats, err := client.EmailStats(context.Background())
	if err != nil {
		t.Fatalf("EmailStats() error = %v", err)
	}
	if stats.Unread != 0 {
		t.Errorf("stats.Unread = %d after mark-read, want 0", stats.Unread)
	}
}
