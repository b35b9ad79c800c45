package sandbox

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmes-app/ahmes/internal/api"
)

// account is a registered sandbox user with its plaintext password.
// This is throwaway demo state, never persisted.
type account struct {
	user     api.User
	password string
}

// store holds all sandbox state in memory under one lock. Every request
// handler takes the lock for its whole duration; the traffic is a single
// developer poking at a local CLI.
type store struct {
	mu        sync.Mutex
	accounts  map[string]*account // keyed by email
	tokens    map[string]string   // token -> email
	emails    []*api.EmailDetail
	deleted   []*api.EmailDetail
	reserve   []*api.Template
	entries   []*api.KnowledgeEntry
	mailboxes []*api.MailAccount
}

func newStore() *store {
	s := &store{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
	s.seed()
	return s
}

func ptrTime(t time.Time) *time.Time { return &t }

// seed loads a small Danish demo inbox so every command has something to
// act on from the first run.
func (s *store) seed() {
	now := time.Now()

	demo := &account{
		user: api.User{
			ID:          uuid.New(),
			Email:       "demo@ahmes.app",
			Name:        "Mette Demo",
			CompanyName: "Nordkyst Cykler ApS",
			Role:        "owner",
			CreatedAt:   now.Add(-30 * 24 * time.Hour),
		},
		password: "demo1234",
	}
	s.accounts[demo.user.Email] = demo

	mailbox := &api.MailAccount{
		ID:           uuid.New(),
		Provider:     "gmail",
		EmailAddress: "kontakt@nordkystcykler.dk",
		IsActive:     true,
		CreatedAt:    now.Add(-29 * 24 * time.Hour),
	}
	s.mailboxes = append(s.mailboxes, mailbox)

	type seedEmail struct {
		from, name, subject, body string
		category, urgency, topic  string
		ageHours                  int
		read                      bool
		suggestion                string
	}

	seeds := []seedEmail{
		{
			from: "lars@jensen-byg.dk", name: "Lars Jensen",
			subject: "Forespørgsel: 3 elcykler til firmabrug",
			body:    "Hej, vi overvejer at indkøbe tre elcykler til vores håndværkere. Kan I give et samlet tilbud med levering til Hillerød?",
			category: "forespørgsel", urgency: "høj", topic: "tilbud",
			ageHours:   3,
			suggestion: "Hej Lars,\n\nTak for din forespørgsel. Vi kan tilbyde tre Winther E-Work til en samlet pris på 52.500 kr. inkl. levering til Hillerød. Skal jeg sende et formelt tilbud?\n\nVenlig hilsen\nNordkyst Cykler",
		},
		{
			from: "anne.holm@gmail.com", name: "Anne Holm",
			subject: "Reklamation - gearskifte driller",
			body:    "Min cykel købt i marts skifter dårligt gear. Kan jeg komme forbi med den i denne uge?",
			category: "support", urgency: "høj", topic: "reklamation",
			ageHours:   7,
			suggestion: "Hej Anne,\n\nDet beklager vi. Kom gerne forbi værkstedet onsdag eller torsdag mellem 10 og 16, så justerer vi gearet uden beregning.\n\nVenlig hilsen\nNordkyst Cykler",
		},
		{
			from: "faktura@cykelgros.dk", name: "CykelGros A/S",
			subject: "Faktura 2026-1184",
			body:    "Vedhæftet faktura for seneste levering. Betalingsfrist 14 dage.",
			category: "faktura", urgency: "mellem", topic: "bogholderi",
			ageHours: 26, read: true,
		},
		{
			from: "nyhedsbrev@veloscene.dk", name: "VeloScene",
			subject: "Ugens nyheder fra cykelbranchen",
			body:    "Læs om forårets lanceringer og messen i Herning.",
			category: "nyhedsbrev", urgency: "lav", topic: "marketing",
			ageHours: 30,
		},
		{
			from: "no-reply@tourdeals.com", name: "TourDeals",
			subject: "SALE: 40% på cykeltøj",
			body:    "Kun i denne uge: stort udsalg på jakker og bukser.",
			category: "nyhedsbrev", urgency: "lav", topic: "marketing",
			ageHours: 50,
		},
		{
			from: "peter@skovcamping.dk", name: "Peter Skov",
			subject: "Leje af 8 cykler i uge 28",
			body:    "Hej, vi vil gerne leje otte cykler til vores gæster i uge 28. Hvad koster det?",
			category: "forespørgsel", urgency: "mellem", topic: "udlejning",
			ageHours:   54,
			suggestion: "Hej Peter,\n\nOtte cykler i uge 28 koster 4.800 kr. inkl. hjelme og lås. Skal jeg reservere dem til jer?\n\nVenlig hilsen\nNordkyst Cykler",
		},
	}

	for _, e := range seeds {
		received := now.Add(-time.Duration(e.ageHours) * time.Hour)
		detail := &api.EmailDetail{
			ID:          uuid.New(),
			AccountID:   mailbox.ID,
			ProviderID:  "sandbox-" + uuid.NewString()[:8],
			FromAddress: e.from,
			FromName:    e.name,
			ToAddress:   mailbox.EmailAddress,
			Subject:     e.subject,
			BodyText:    e.body,
			ReceivedAt:  ptrTime(received),
			IsRead:      e.read,
			Category:    e.category,
			Urgency:     e.urgency,
			Topic:       e.topic,
			Confidence:  0.92,
			Processed:   true,
			CreatedAt:   received,
		}
		if e.suggestion != "" {
			detail.Suggestions = append(detail.Suggestions, api.Suggestion{
				ID:            uuid.New(),
				EmailID:       detail.ID,
				SuggestedText: e.suggestion,
				Status:        "pending",
				CreatedAt:     received.Add(2 * time.Minute),
			})
		}
		s.emails = append(s.emails, detail)
	}

	s.reserve = append(s.reserve,
		&api.Template{
			ID:        uuid.New(),
			Name:      "Åbningstider",
			Category:  "support",
			Body:      "Hej,\n\nVi har åbent mandag-fredag 9-17:30 og lørdag 10-14.\n\nVenlig hilsen\nNordkyst Cykler",
			CreatedAt: now.Add(-20 * 24 * time.Hour),
		},
		&api.Template{
			ID:        uuid.New(),
			Name:      "Tilbud afsendt",
			Category:  "salg",
			Body:      "Hej {navn},\n\nTak for din henvendelse. Vedhæftet finder du vores tilbud, som gælder 30 dage.\n\nVenlig hilsen\nNordkyst Cykler",
			CreatedAt: now.Add(-18 * 24 * time.Hour),
		},
	)

	s.entries = append(s.entries,
		&api.KnowledgeEntry{
			ID:        uuid.New(),
			EntryType: "hours",
			Title:     "Åbningstider",
			Content:   "Mandag-fredag 9-17:30, lørdag 10-14, søndag lukket.",
			CreatedAt: now.Add(-25 * 24 * time.Hour),
			UpdatedAt: now.Add(-25 * 24 * time.Hour),
		},
		&api.KnowledgeEntry{
			ID:        uuid.New(),
			EntryType: "pricing",
			Title:     "Cykeludlejning",
			Content:   "Dagsleje 150 kr., ugeleje 600 kr. pr. cykel inkl. hjelm og lås.",
			CreatedAt: now.Add(-25 * 24 * time.Hour),
			UpdatedAt: now.Add(-10 * 24 * time.Hour),
		},
		&api.KnowledgeEntry{
			ID:        uuid.New(),
			EntryType: "tone",
			Title:     "Tone of voice",
			Content:   "Venlig og uformel, altid på dansk, underskriv med 'Venlig hilsen, Nordkyst Cykler'.",
			CreatedAt: now.Add(-25 * 24 * time.Hour),
			UpdatedAt: now.Add(-25 * 24 * time.Hour),
		},
	)
}

func (s *store) findEmail(id uuid.UUID) *api.EmailDetail {
	for _, e := range s.emails {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// findSuggestion returns the suggestion and its owning email.
func (s *store) findSuggestion(id uuid.UUID) (*api.Suggestion, *api.EmailDetail) {
	for _, e := range s.emails {
		for i := range e.Suggestions {
			if e.Suggestions[i].ID == id {
				return &e.Suggestions[i], e
			}
		}
	}
	return nil, nil
}

func (s *store) removeEmail(id uuid.UUID) *api.EmailDetail {
	for i, e := range s.emails {
		if e.ID == id {
			s.emails = append(s.emails[:i], s.emails[i+1:]...)
			s.deleted = append(s.deleted, e)
			return e
		}
	}
	return nil
}

func (s *store) summaries(filter api.EmailFilter) []api.EmailSummary {
	var out []api.EmailSummary
	for _, e := range s.emails {
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			continue
		}
		if filter.Urgency != "" && !strings.EqualFold(e.Urgency, filter.Urgency) {
			continue
		}
		if filter.IsRead != nil && e.IsRead != *filter.IsRead {
			continue
		}
		out = append(out, api.EmailSummary{
			ID:            e.ID,
			FromAddress:   e.FromAddress,
			FromName:      e.FromName,
			Subject:       e.Subject,
			ReceivedAt:    e.ReceivedAt,
			IsRead:        e.IsRead,
			IsReplied:     e.IsReplied,
			Category:      e.Category,
			Urgency:       e.Urgency,
			Topic:         e.Topic,
			HasSuggestion: len(e.Suggestions) > 0,
		})
	}

	if filter.Skip > 0 {
		if filter.Skip >= len(out) {
			return nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}

func (s *store) stats() api.EmailStats {
	stats := api.EmailStats{
		Categories: make(map[string]int),
		Urgency:    make(map[string]int),
	}
	for _, e := range s.emails {
		stats.Total++
		if !e.IsRead {
			stats.Unread++
		}
		if e.Category != "" {
			stats.Categories[e.Category]++
		}
		if e.Urgency != "" {
			stats.Urgency[e.Urgency]++
		}
	}
	return stats
}
