package sessiongen

import "sort"

// Roles counted by token accounting.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single utterance of a source conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is one record of the source corpus. It is read-only to the
// generator.
type Conversation struct {
	ConversationID string `json:"conversation_id"`
	Turn           int    `json:"turn"`
	Language       string `json:"language"`
	Conversation   []Turn `json:"conversation"`
}

// Message is a conversation turn annotated with its token count.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Tokens  int    `json:"tokens"`
}

// Messages wraps the ordered message payload of a session.
type Messages struct {
	Contents []Message `json:"contents"`
}

// Session is the enriched record persisted for each accepted conversation.
// Field names and order match the document consumed by the chat client.
//
// Invariants:
//   - TimeCreated <= TimeLastOpen <= TimeLastExit <= TimeLastOpen + exit span
//   - TotalPromptTokens is the token sum of "user" messages
//   - TotalCompletionTokens is the token sum of "assistant" messages
//   - Tags holds unique values
type Session struct {
	TimeCreated           int64    `json:"timeCreated"`
	TimeLastOpen          int64    `json:"timeLastOpen"`
	TimeLastExit          int64    `json:"timeLastExit"`
	APIKey                string   `json:"apiKey"`
	Messages              Messages `json:"messages"`
	TotalPromptTokens     int      `json:"totalPromptTokens"`
	TotalCompletionTokens int      `json:"totalCompletionTokens"`
	ClientName            string   `json:"clientName"`
	Description           string   `json:"description"`
	Tags                  []string `json:"tags"`
	APIURL                string   `json:"apiURL"`
	MaxTokens             int      `json:"maxTokens"`
	Temperature           float64  `json:"temperature"`
}

// Store maps identity -> conversation_id -> session.
type Store map[string]map[string]*Session

// NewStore creates a store with an empty entry for every identity.
func NewStore(identities []string) Store {
	s := make(Store, len(identities))
	for _, id := range identities {
		s.Ensure(id)
	}
	return s
}

// Ensure creates an empty entry for identity if none exists.
func (s Store) Ensure(identity string) {
	if _, ok := s[identity]; !ok {
		s[identity] = make(map[string]*Session)
	}
}

// Put stores sess under identity and conversationID. An existing session with
// the same key is replaced (last write wins); replaced reports whether that
// happened.
func (s Store) Put(identity, conversationID string, sess *Session) (replaced bool) {
	s.Ensure(identity)
	_, replaced = s[identity][conversationID]
	s[identity][conversationID] = sess
	return replaced
}

// Get returns the session stored under identity and conversationID.
func (s Store) Get(identity, conversationID string) (*Session, error) {
	sessions, ok := s[identity]
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := sessions[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Identities returns all identities in lexical order.
func (s Store) Identities() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ConversationIDs returns the conversation IDs stored for identity in lexical order.
func (s Store) ConversationIDs(identity string) []string {
	ids := make([]string, 0, len(s[identity]))
	for id := range s[identity] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the total number of sessions across all identities.
func (s Store) Len() int {
	n := 0
	for _, sessions := range s {
		n += len(sessions)
	}
	return n
}
