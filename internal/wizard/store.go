package wizard

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/starlenz/patent-assistant/internal/entity"
)

// Phase is the coarse state of a conversation
type Phase int

const (
	PhaseCollecting Phase = iota
	PhaseHelp
	PhaseAnalyzing
)

func (p Phase) String() string {
	switch p {
	case PhaseCollecting:
		return "collecting"
	case PhaseHelp:
		return "help"
	case PhaseAnalyzing:
		return "analyzing"
	default:
		return "unknown"
	}
}

// Conversation is the per-session wizard state. Fields are guarded by mu.
type Conversation struct {
	mu sync.Mutex

	session Session
	phase   Phase
	// collecting is false for a conversation opened by /help before any /start
	collecting bool
	step       int
	answers    *entity.AnswerMap
}

func newConversation(s Session) *Conversation {
	return &Conversation{
		session:    s,
		phase:      PhaseCollecting,
		collecting: true,
		answers:    entity.NewAnswerMap(),
	}
}

// Store keeps conversations in memory. Entries expire after the session TTL
// of inactivity.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewStore creates a store with the given session TTL
func NewStore(ttl time.Duration) *Store {
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{cache: gocache.New(ttl, cleanup)}
}

// Get returns the conversation of a session and refreshes its expiry
func (s *Store) Get(sessionID string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	conv := v.(*Conversation)
	s.cache.SetDefault(sessionID, conv)
	return conv, true
}

// Put stores conv, replacing any conversation of the same session
func (s *Store) Put(conv *Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.SetDefault(conv.session.ID, conv)
}

func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
}

// CompareAndDelete removes the session entry only if it still holds conv
func (s *Store) CompareAndDelete(conv *Conversation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(conv.session.ID)
	if !ok || v.(*Conversation) != conv {
		return false
	}
	s.cache.Delete(conv.session.ID)
	return true
}

// Len returns the number of live conversations
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
