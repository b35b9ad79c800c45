package i18n

import (
	"fmt"
	"strings"
)

// Locale identifies a supported display language.
type Locale string

const (
	Danish  Locale = "da"
	English Locale = "en"
)

// DefaultLocale matches the product default.
const DefaultLocale = Danish

// ParseLocale validates a locale string from config or flags.
func ParseLocale(s string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case Danish:
		return Danish, nil
	case English:
		return English, nil
	case "":
		return DefaultLocale, nil
	}
	return "", fmt.Errorf("unsupported locale %q (supported: da, en)", s)
}

// Key names one translatable string.
type Key string

const (
	// Command chat protocol strings
	KeyChatGreeting    Key = "chatGreeting"
	KeyConfirmYes      Key = "confirmYes"
	KeyCancelledMarker Key = "cancelledMarker"
	KeyActionCancelled Key = "actionCancelled"
	KeyGenericError    Key = "genericError"

	// CLI labels
	KeyLoading     Key = "loading"
	KeyNoEmails    Key = "noEmails"
	KeyNoSubject   Key = "noSubject"
	KeyUnread      Key = "unread"
	KeyRead        Key = "read"
	KeyReplied     Key = "replied"
	KeyTotalEmails Key = "totalEmails"
	KeyCategories  Key = "categories"
	KeyPriority    Key = "priority"
	KeyPending     Key = "pending"
	KeyApproved    Key = "approved"
	KeyEdited      Key = "edited"
	KeyRejected    Key = "rejected"
	KeySent        Key = "sent"
	KeyNoData      Key = "noData"
	KeySignedOut   Key = "signedOut"
)

var translations = map[Locale]map[Key]string{
	Danish: {
		KeyChatGreeting:    `Hej! Skriv hvad du vil gøre med dine emails — f.eks. "Giv mig et overblik", "Slet alle spam-emails" eller "Send et svar til Lars".`,
		KeyConfirmYes:      "Ja, bekræft",
		KeyCancelledMarker: "(Annulleret)",
		KeyActionCancelled: "Handling annulleret.",
		KeyGenericError:    "Noget gik galt",

		KeyLoading:     "Indlæser...",
		KeyNoEmails:    "Ingen emails fundet",
		KeyNoSubject:   "(Intet emne)",
		KeyUnread:      "Ulæst",
		KeyRead:        "Læst",
		KeyReplied:     "Besvaret",
		KeyTotalEmails: "Total emails",
		KeyCategories:  "Kategorier",
		KeyPriority:    "Prioritet",
		KeyPending:     "Afventer",
		KeyApproved:    "Godkendt",
		KeyEdited:      "Redigeret",
		KeyRejected:    "Afvist",
		KeySent:        "Sendt",
		KeyNoData:      "Ingen data endnu",
		KeySignedOut:   "Du er logget ud.",
	},
	English: {
		KeyChatGreeting:    `Hi! Type what you want to do with your emails — e.g. "Give me an overview", "Delete all spam emails" or "Send a reply to Lars".`,
		KeyConfirmYes:      "Yes, confirm",
		KeyCancelledMarker: "(Cancelled)",
		KeyActionCancelled: "Action cancelled.",
		KeyGenericError:    "Something went wrong",

		KeyLoading:     "Loading...",
		KeyNoEmails:    "No emails found",
		KeyNoSubject:   "(No subject)",
		KeyUnread:      "Unread",
		KeyRead:        "Read",
		KeyReplied:     "Replied",
		KeyTotalEmails: "Total emails",
		KeyCategories:  "Categories",
		KeyPriority:    "Priority",
		KeyPending:     "Pending",
		KeyApproved:    "Approved",
		KeyEdited:      "Edited",
		KeyRejected:    "Rejected",
		KeySent:        "Sent",
		KeyNoData:      "No data yet",
		KeySignedOut:   "You are signed out.",
	},
}

// T resolves a key for the given locale, falling back to Danish and
// finally to the key itself so a missing entry never renders empty.
func T(loc Locale, key Key) string {
	if msgs, ok := translations[loc]; ok {
		if s, ok := msgs[key]; ok {
			return s
		}
	}
	if s, ok := translations[DefaultLocale][key]; ok {
		return s
	}
	return string(key)
}
