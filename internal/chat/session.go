package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmes-app/ahmes/internal/api"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

// ErrBusy is returned when a submit is attempted while an endpoint call
// for a previous submit or confirm is still outstanding.
var ErrBusy = errors.New("a command is already in flight")

// ErrNoPendingAction is returned when confirm or cancel targets a
// message that is not awaiting confirmation.
var ErrNoPendingAction = errors.New("message has no pending action")

// ErrNotFound is returned when the referenced message is not in the
// transcript.
var ErrNotFound = errors.New("no such message")

// Role distinguishes the two sides of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is a derived display hint, never taken from the wire.
type Status string

const (
	StatusNone    Status = ""
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Message is one turn of the command chat transcript.
type Message struct {
	ID      int
	Role    Role
	Content string

	// RequiresConfirmation is true while the message carries a pending
	// action awaiting the user's decision. It holds iff PendingAction
	// is non-nil.
	RequiresConfirmation bool

	// PendingAction is the opaque payload the endpoint proposed. It is
	// echoed back verbatim on confirmation and never inspected here.
	PendingAction map[string]any

	// ActionsTaken lists side effects the backend already executed for
	// this turn.
	ActionsTaken []string

	Status Status

	// instruction is the user text that produced this assistant
	// message. Confirmation resends it, not the acknowledgement phrase.
	instruction string

	cancelled bool
}

// CommandSender is the command endpoint as the session sees it.
// *api.Client satisfies it.
type CommandSender interface {
	SendCommand(ctx context.Context, message string, confirm bool, pendingAction map[string]any) (*api.CommandResponse, error)
}

// Session owns the transcript and drives the two-phase command/confirm
// exchange. It is not safe for concurrent use; all operations happen on
// the caller's event loop, matching the single-writer transcript model.
type Session struct {
	endpoint CommandSender
	locale   i18n.Locale
	messages []Message
	nextID   int
	busy     bool
}

// NewSession creates a fresh session seeded with the assistant greeting.
func NewSession(endpoint CommandSender, locale i18n.Locale) *Session {
	s := &Session{endpoint: endpoint, locale: locale}
	s.append(Message{Role: RoleAssistant, Content: i18n.T(locale, i18n.KeyChatGreeting)})
	return s
}

// Transcript returns the conversation so far, oldest first.
func (s *Session) Transcript() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Busy reports whether an endpoint call is outstanding.
func (s *Session) Busy() bool { return s.busy }

// Pending returns the newest message still awaiting confirmation, or
// nil if none is.
func (s *Session) Pending() *Message {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].RequiresConfirmation && s.messages[i].PendingAction != nil {
			m := s.messages[i]
			return &m
		}
	}
	return nil
}

func (s *Session) append(m Message) int {
	m.ID = s.nextID
	s.nextID++
	s.messages = append(s.messages, m)
	return len(s.messages) - 1
}

func (s *Session) find(id int) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// Submit sends a free-text instruction. A whitespace-only input is a
// silent no-op. Exactly one user message is appended immediately and
// exactly one assistant message once the call settles; a transport or
// endpoint failure becomes an error-status assistant message rather
// than an error return, so the session stays usable.
func (s *Session) Submit(ctx context.Context, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if s.busy {
		return nil, ErrBusy
	}

	s.append(Message{Role: RoleUser, Content: text})
	return s.roundTrip(ctx, text, false, nil)
}

// Confirm replays the pending action carried by the given message. The
// endpoint receives the original instruction text, confirm=true, and
// the stored payload verbatim. On success the message leaves the
// awaiting state.
func (s *Session) Confirm(ctx context.Context, messageID int) (*Message, error) {
	i := s.find(messageID)
	if i < 0 {
		return nil, ErrNotFound
	}
	if !s.messages[i].RequiresConfirmation || s.messages[i].PendingAction == nil {
		return nil, ErrNoPendingAction
	}

	instruction := s.messages[i].instruction
	payload := s.messages[i].PendingAction

	s.append(Message{Role: RoleUser, Content: i18n.T(s.locale, i18n.KeyConfirmYes)})
	reply, err := s.roundTrip(ctx, instruction, true, payload)
	if err != nil {
		return reply, err
	}
	if reply.Status != StatusError {
		// Executed; the proposal is resolved and must not be replayed.
		s.messages[i].RequiresConfirmation = false
		s.messages[i].PendingAction = nil
	}
	return reply, nil
}

// Cancel resolves a pending action locally, without a network call. The
// cancellation marker is appended to the message content exactly once;
// repeated cancels are no-ops.
func (s *Session) Cancel(messageID int) (*Message, error) {
	i := s.find(messageID)
	if i < 0 {
		return nil, ErrNotFound
	}
	if s.messages[i].cancelled {
		m := s.messages[i]
		return &m, nil
	}
	if !s.messages[i].RequiresConfirmation || s.messages[i].PendingAction == nil {
		return nil, ErrNoPendingAction
	}

	s.messages[i].RequiresConfirmation = false
	s.messages[i].PendingAction = nil
	s.messages[i].cancelled = true
	s.messages[i].Content += "\n\n" + i18n.T(s.locale, i18n.KeyCancelledMarker)

	j := s.append(Message{Role: RoleAssistant, Content: i18n.T(s.locale, i18n.KeyActionCancelled)})
	m := s.messages[j]
	return &m, nil
}

// roundTrip performs the single suspension point of the session: one
// endpoint call under the busy flag, settled into one assistant message.
func (s *Session) roundTrip(ctx context.Context, instruction string, confirm bool, payload map[string]any) (*Message, error) {
	s.busy = true
	defer func() { s.busy = false }()

	resp, err := s.endpoint.SendCommand(ctx, instruction, confirm, payload)
	if err != nil {
		j := s.append(Message{
			Role:    RoleAssistant,
			Content: i18n.T(s.locale, i18n.KeyGenericError),
			Status:  StatusError,
		})
		m := s.messages[j]
		return &m, nil
	}

	reply := Message{
		Role:         RoleAssistant,
		Content:      resp.Response,
		ActionsTaken: resp.ActionsTaken,
		instruction:  instruction,
	}
	// The invariant is requiresConfirmation iff a payload is present;
	// a response violating it proposes nothing actionable.
	if resp.RequiresConfirmation && resp.PendingAction != nil {
		reply.RequiresConfirmation = true
		reply.PendingAction = resp.PendingAction
	}
	if len(resp.ActionsTaken) > 0 {
		reply.Status = StatusSuccess
	}

	j := s.append(reply)
	m := s.messages[j]
	return &m, nil
}

// Instruction exposes the user text that produced an assistant message,
// for recording a turn in the local command history.
func (m Message) Instruction() string { return m.instruction }

// Cancelled reports whether the message's pending action was cancelled.
func (m Message) Cancelled() bool { return m.cancelled }
