package main

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session_token"

var errSessionNotFound = errors.New("session not found")

// SessionStore is the server-side state behind session cookies. Mutations to
// a loaded SessionState take effect only when written back with Save.
type SessionStore interface {
	Get(ctx context.Context, token string) (*SessionState, error)
	Save(ctx context.Context, token string, state *SessionState) error
	Delete(ctx context.Context, token string) error
}

var sessions SessionStore

// memorySessionStore is the fallback when Redis is unavailable, and the
// store used by tests. Sessions do not survive a restart.
type memorySessionStore struct {
	mu    sync.Mutex
	state map[string]SessionState
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{state: make(map[string]SessionState)}
}

func (s *memorySessionStore) Get(_ context.Context, token string) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.state[token]
	if !ok {
		return nil, errSessionNotFound
	}
	// Copy so callers mutate their own view until Save
	out := state
	out.Chats = append([]ChatThread(nil), state.Chats...)
	return &out, nil
}

func (s *memorySessionStore) Save(_ context.Context, token string, state *SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[token] = *state
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, token)
	return nil
}

// newSessionToken mints the opaque value stored in the session cookie
func newSessionToken() string {
	return uuid.NewString()
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// currentSession resolves the session cookie to its server-side state.
// A missing or dangling cookie is an authorization failure: the handler
// chain is aborted with 401 and the caller should return immediately.
func currentSession(c *gin.Context) (string, *SessionState, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", nil, false
	}

	state, err := sessions.Get(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", nil, false
	}

	return token, state, true
}
