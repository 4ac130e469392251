// Package auth holds the session the data layer reads its bearer token
// from. Token acquisition and refresh happen elsewhere; the session only
// carries the current token and a logout signal.
package auth

import "sync"

// Session is the authentication state seen by the data layer. It satisfies
// client.TokenSource.
type Session interface {
	IsAuthenticated() bool
	IsLoading() bool
	CurrentToken() string
	Logout()
}

// StaticSession is a Session holding a token set by the caller.
type StaticSession struct {
	mu       sync.RWMutex
	token    string
	loading  bool
	onLogout []func()
}

var _ Session = (*StaticSession)(nil)

// NewStaticSession returns a session authenticated with token. An empty
// token gives an unauthenticated session.
func NewStaticSession(token string) *StaticSession {
	return &StaticSession{token: token}
}

func (s *StaticSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *StaticSession) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *StaticSession) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetLoading flags the session as waiting for a token.
func (s *StaticSession) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetToken replaces the token and clears the loading flag.
func (s *StaticSession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.loading = false
}

// OnLogout registers fn to run on every Logout, in registration order.
func (s *StaticSession) OnLogout(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Logout clears the token and runs the logout hooks.
func (s *StaticSession) Logout() {
	s.mu.Lock()
	s.token = ""
	s.loading = false
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
